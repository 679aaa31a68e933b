package database

import (
	"testing"

	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/config"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/entity"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewDBRejectsUnknownDriver(t *testing.T) {
	_, err := NewDB(&config.DatabaseConfig{Driver: "oracle"}, zap.NewNop())
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestSeedDefaultDataIsRepeatable(t *testing.T) {
	db, err := NewDB(&config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:", LogLevel: "silent"}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db, zap.NewNop()))

	admin := AdminSeed{Email: "admin@relocato.de", Password: "secret123", Name: "Sergej Schulz"}
	require.NoError(t, SeedDefaultData(db, admin, zap.NewNop()))
	require.NoError(t, SeedDefaultData(db, admin, zap.NewNop()))

	var users []entity.User
	require.NoError(t, db.Preload("Roles.Permissions").Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, "Sergej", users[0].FirstName)
	assert.Equal(t, "Schulz", users[0].LastName)
	assert.True(t, utils.CheckPasswordHash("secret123", users[0].Password))
	assert.True(t, users[0].HasPermission(entity.PermissionManageUsers))

	var permCount int64
	db.Model(&entity.Permission{}).Count(&permCount)
	assert.EqualValues(t, 3, permCount)
}
