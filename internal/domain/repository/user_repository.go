package repository

import (
	"context"
	"time"

	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/entity"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/pagination"
	"github.com/google/uuid"
)

// UserRepository defines the interface for staff account operations
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetWithRoles loads the user with roles and their permissions.
	GetWithRoles(ctx context.Context, id uuid.UUID) (*entity.User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.User, int64, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	// ReplaceRoles sets the user's roles to exactly roles.
	ReplaceRoles(ctx context.Context, user *entity.User, roles []entity.Role) error
	GetRolesByName(ctx context.Context, names []string) ([]entity.Role, error)
}
