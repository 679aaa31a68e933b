package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/entity"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/infrastructure/database"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/infrastructure/repository"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/apperror"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthService(t *testing.T) (*AuthService, *utils.JWTManager) {
	t.Helper()
	set := newServiceSet(t)
	require.NoError(t, set.db.AutoMigrate(&entity.Permission{}, &entity.Role{}, &entity.User{}))
	require.NoError(t, database.SeedDefaultData(set.db, database.AdminSeed{
		Email:    "Admin@Relocato.de",
		Password: "geheim123",
		Name:     "Sergej Schulz",
	}, zap.NewNop()))

	jwt := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	svc := NewAuthService(repository.NewUserRepository(set.db), jwt, zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc, jwt
}

func TestLoginIssuesTokensWithPermissions(t *testing.T) {
	svc, jwt := newAuthService(t)
	ctx := context.Background()

	out, err := svc.Login(ctx, &LoginInput{Email: " admin@relocato.de ", Password: "geheim123"})
	require.NoError(t, err)
	assert.Equal(t, "Sergej Schulz", out.User.FullName())

	claims, err := jwt.ValidateAccessToken(out.AccessToken)
	require.NoError(t, err)
	assert.Contains(t, claims.Roles, "admin")
	assert.Contains(t, claims.Permissions, entity.PermissionManageQuotes)

	me, err := svc.GetCurrentUser(ctx, out.User.ID)
	require.NoError(t, err)
	require.NotNil(t, me.LastLogin)
	assert.WithinDuration(t, fixedNow, *me.LastLogin, time.Second)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, &LoginInput{Email: "admin@relocato.de", Password: "falsch"})
	assert.True(t, errors.Is(err, apperror.ErrInvalidCredentials))

	_, err = svc.Login(ctx, &LoginInput{Email: "niemand@relocato.de", Password: "geheim123"})
	assert.True(t, errors.Is(err, apperror.ErrInvalidCredentials))
}

func TestRefreshToken(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	out, err := svc.Login(ctx, &LoginInput{Email: "admin@relocato.de", Password: "geheim123"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, out.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, out.User.ID, refreshed.User.ID)

	_, err = svc.RefreshToken(ctx, out.AccessToken+"x")
	assert.True(t, errors.Is(err, apperror.ErrInvalidToken))

	_, err = svc.RefreshToken(ctx, out.AccessToken)
	assert.True(t, errors.Is(err, apperror.ErrInvalidToken))
}
