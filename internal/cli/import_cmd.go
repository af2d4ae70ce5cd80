package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spec-kit/sebit-insight/internal/bulkimport"
	apperrors "github.com/spec-kit/sebit-insight/pkg/util"
)

// importReport is the --json output of import-check.
type importReport struct {
	File    string                     `json:"file"`
	Mapping []bulkimport.ColumnMapping `json:"mapping"`
	Summary bulkimport.Summary         `json:"summary"`
	Rows    []bulkimport.RowResult     `json:"rows"`
}

func newImportCheckCmd(open Opener) *cobra.Command {
	var autoCreate, asJSON, strict bool

	cmd := &cobra.Command{
		Use:   "import-check <file.csv|file.xlsx>",
		Short: "Validate a project spreadsheet without creating anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			return withApp(cmd, open, func(ctx context.Context, app *App) error {
				preview, err := app.Importer.PreviewFile(ctx, f, filepath.Base(path), autoCreate)
				if err != nil {
					return describeError(path, err)
				}
				report := importReport{
					File:    filepath.Base(path),
					Mapping: preview.Mapping,
					Summary: preview.Summary,
					Rows:    preview.Rows,
				}

				out := cmd.OutOrStdout()
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					if err := enc.Encode(report); err != nil {
						return err
					}
				} else {
					printReport(out, report)
				}
				if strict && report.Summary.Error > 0 {
					return fmt.Errorf("%d rows failed validation", report.Summary.Error)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&autoCreate, "auto-create-clients", false, "treat unknown clients as new instead of errors")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full report as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any row has errors")
	return cmd
}

// describeError flattens field-level validation details into one line.
func describeError(path string, err error) error {
	de := apperrors.ToDomainError(err)
	fields, _ := de.Details["fields"].(map[string]string)
	if len(fields) == 0 {
		return fmt.Errorf("check %s: %w", path, err)
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, fields[k]))
	}
	return fmt.Errorf("check %s: %s", path, strings.Join(parts, "; "))
}

func printReport(out io.Writer, report importReport) {
	fmt.Fprintf(out, "file: %s\n", report.File)
	fmt.Fprintln(out, "mapping:")
	for _, m := range report.Mapping {
		target := string(m.Field)
		if target == "" {
			target = "(unmapped)"
		}
		fmt.Fprintf(out, "  %s -> %s\n", m.Header, target)
	}

	s := report.Summary
	fmt.Fprintf(out, "rows: %d total, %d valid, %d warning, %d error, %d selected\n",
		s.Total, s.Valid, s.Warning, s.Error, s.Selected)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tSTATUS\tNAME\tMESSAGES")
	for _, r := range report.Rows {
		msgs := make([]string, 0, len(r.Messages))
		for _, m := range r.Messages {
			if m.Field != "" {
				msgs = append(msgs, fmt.Sprintf("%s: %s", m.Field, m.Text))
			} else {
				msgs = append(msgs, m.Text)
			}
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.RowNumber, r.Status, r.Fields.Name, strings.Join(msgs, "; "))
	}
	_ = tw.Flush()
}
