package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spec-kit/sebit-insight/internal/domain"
	"github.com/spec-kit/sebit-insight/internal/service"
)

func newCreateUserCmd(open Opener) *cobra.Command {
	var email, name, role, password, departmentID string

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an account with an explicit role",
		Long: "Create an account with an explicit role. Use this to bootstrap the first\n" +
			"master account; the API only ever registers plain users.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := domain.Role(strings.ToLower(strings.TrimSpace(role)))
			if !r.Valid() {
				return fmt.Errorf("unknown role %q (want one of user, manager, admin, master)", role)
			}
			input := service.CreateUserInput{
				Email:    email,
				Name:     name,
				Password: password,
				Role:     r,
			}
			if departmentID != "" {
				input.DepartmentID = &departmentID
			}
			return withApp(cmd, open, func(ctx context.Context, app *App) error {
				user, err := app.Users.Create(ctx, input)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %s <%s> role=%s id=%s\n", user.Name, user.Email, user.Role, user.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "login email (required)")
	cmd.Flags().StringVar(&name, "name", "", "display name (required)")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleUser), "user, manager, admin or master")
	cmd.Flags().StringVar(&password, "password", "", "initial password (required)")
	cmd.Flags().StringVar(&departmentID, "department", "", "department id")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
