package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/sebit-insight/internal/domain"
)

func newUserFixture() (*UserService, *fixture) {
	f := newFixture()
	return NewUserService(testConfig(), UserDependencies{UserRepo: f.users, DepartmentRepo: f.departments}), f
}

func TestUserChangeRole_Ceiling(t *testing.T) {
	svc, f := newUserFixture()
	ctx := context.Background()
	admin := f.addUser("a1", domain.RoleAdmin)
	master := f.addUser("root", domain.RoleMaster)
	f.addUser("u1", domain.RoleUser)
	f.addUser("a2", domain.RoleAdmin)

	updated, err := svc.ChangeRole(ctx, admin, "u1", domain.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, updated.Role)

	_, err = svc.ChangeRole(ctx, admin, "u1", domain.RoleAdmin)
	assert.Equal(t, "FORBIDDEN", domainCode(err))

	_, err = svc.ChangeRole(ctx, admin, "a2", domain.RoleUser)
	assert.Equal(t, "FORBIDDEN", domainCode(err))

	_, err = svc.ChangeRole(ctx, admin, "a1", domain.RoleUser)
	assert.Equal(t, "FORBIDDEN", domainCode(err))

	_, err = svc.ChangeRole(ctx, admin, "root", domain.RoleUser)
	assert.Equal(t, "FORBIDDEN", domainCode(err))

	updated, err = svc.ChangeRole(ctx, master, "u1", domain.RoleMaster)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMaster, updated.Role)

	_, err = svc.ChangeRole(ctx, master, "u1", "owner")
	assert.Equal(t, "VALIDATION_FAILED", domainCode(err))
}

func TestUserSetActiveAndCreate(t *testing.T) {
	svc, f := newUserFixture()
	ctx := context.Background()
	admin := f.addUser("a1", domain.RoleAdmin)
	f.addUser("u1", domain.RoleUser)

	updated, err := svc.SetActive(ctx, admin, "u1", false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	created, err := svc.Create(ctx, CreateUserInput{Email: "New@Sebit.co.kr", Name: "신규", Password: "passw0rd!", Role: domain.RoleAdmin, DepartmentID: strPtr("d-dev")})
	require.NoError(t, err)
	assert.Equal(t, "new@sebit.co.kr", created.Email)

	_, err = svc.Create(ctx, CreateUserInput{Email: "new@sebit.co.kr", Name: "중복", Password: "passw0rd!", Role: domain.RoleUser})
	assert.Equal(t, "CONFLICT", domainCode(err))

	_, err = svc.Create(ctx, CreateUserInput{Email: "bad", Password: "x", Role: "x"})
	assert.Len(t, fieldsOf(err), 4)
}
