package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/entity"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/infrastructure/database"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/infrastructure/repository"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/apperror"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUserService(t *testing.T) *UserService {
	t.Helper()
	set := newServiceSet(t)
	require.NoError(t, set.db.AutoMigrate(&entity.Permission{}, &entity.Role{}, &entity.User{}))
	require.NoError(t, database.SeedDefaultData(set.db, database.AdminSeed{}, zap.NewNop()))
	return NewUserService(repository.NewUserRepository(set.db), zap.NewNop())
}

func TestCreateUserDefaultsToStaff(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, &CreateUserInput{
		FirstName: "Mia",
		LastName:  "Kraus",
		Email:     " Mia@Relocato.de ",
		Password:  "umzug2026",
	})
	require.NoError(t, err)
	assert.Equal(t, "mia@relocato.de", user.Email)
	assert.Equal(t, []string{"staff"}, user.RoleNames())
	assert.True(t, user.HasPermission(entity.PermissionManageQuotes))
	assert.False(t, user.HasPermission(entity.PermissionManageUsers))

	_, err = svc.CreateUser(ctx, &CreateUserInput{
		FirstName: "Mia",
		Email:     "mia@relocato.de",
		Password:  "umzug2026",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	svc := newUserService(t)

	_, err := svc.CreateUser(context.Background(), &CreateUserInput{
		FirstName: "Tom",
		Email:     "tom@relocato.de",
		Password:  "umzug2026",
		Roles:     []string{"staff", "owner"},
	})
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestUpdateRolesAndDeactivate(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	admin, err := svc.CreateUser(ctx, &CreateUserInput{
		FirstName: "Sergej", Email: "sergej@relocato.de", Password: "umzug2026", Roles: []string{"admin"},
	})
	require.NoError(t, err)
	staff, err := svc.CreateUser(ctx, &CreateUserInput{
		FirstName: "Mia", Email: "mia@relocato.de", Password: "umzug2026",
	})
	require.NoError(t, err)

	promoted, err := svc.UpdateUserRoles(ctx, staff.ID, []string{"admin"})
	require.NoError(t, err)
	assert.Equal(t, []string{"admin"}, promoted.RoleNames())

	disabled, err := svc.SetActive(ctx, admin.ID, staff.ID, false)
	require.NoError(t, err)
	assert.False(t, disabled.IsActive)

	_, err = svc.SetActive(ctx, admin.ID, admin.ID, false)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)

	page, err := svc.ListUsers(ctx, &pagination.PaginationParams{Page: 1, PerPage: 10}, "mia")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, staff.ID, page.Items[0].ID)
}
