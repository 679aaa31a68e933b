package service

import (
	"context"
	"strings"

	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/entity"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/repository"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/infrastructure/logger"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/apperror"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/pagination"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService manages the staff accounts of the back office.
type UserService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, log *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, log: log}
}

// CreateUserInput is a new staff account. Roles default to staff.
type CreateUserInput struct {
	FirstName string   `json:"first_name" validate:"required,max=255"`
	LastName  string   `json:"last_name" validate:"max=255"`
	Email     string   `json:"email" validate:"required,email"`
	Password  string   `json:"password" validate:"required,min=8"`
	Roles     []string `json:"roles"`
}

// ListUsers returns one page of staff accounts with their roles.
func (s *UserService) ListUsers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.User], error) {
	params.Validate()
	users, total, err := s.userRepo.List(ctx, params, search)
	if err != nil {
		return nil, apperror.NewPersistenceError("list users", err)
	}
	return pagination.NewPaginatedResult(users, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// CreateUser creates an active staff account.
func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput) (*entity.User, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.NewPersistenceError("load user", err)
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A user with this email already exists")
	}

	roles, err := s.roles(ctx, input.Roles)
	if err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     email,
		Password:  hashed,
		IsActive:  true,
		Roles:     roles,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperror.NewPersistenceError("create user", err)
	}

	logger.FromContext(ctx, s.log).Info("staff account created",
		zap.String("user_id", user.ID.String()),
		zap.Strings("roles", user.RoleNames()))
	return s.GetUser(ctx, user.ID)
}

func (s *UserService) roles(ctx context.Context, names []string) ([]entity.Role, error) {
	if len(names) == 0 {
		names = []string{"staff"}
	}
	roles, err := s.userRepo.GetRolesByName(ctx, names)
	if err != nil {
		return nil, apperror.NewPersistenceError("load roles", err)
	}
	if len(roles) != len(names) {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "roles", Message: "Unknown role in " + strings.Join(names, ", ")},
		})
	}
	return roles, nil
}

// GetUser returns a user by ID with roles and permissions
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, apperror.NewPersistenceError("load user", err)
	}
	if user == nil {
		return nil, apperror.ErrNotFound
	}
	return user, nil
}

// UpdateUserRoles replaces the roles assigned to a user.
func (s *UserService) UpdateUserRoles(ctx context.Context, userID uuid.UUID, names []string) (*entity.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	roles, err := s.roles(ctx, names)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.ReplaceRoles(ctx, user, roles); err != nil {
		return nil, apperror.NewPersistenceError("update user roles", err)
	}
	return s.GetUser(ctx, userID)
}

// SetActive enables or disables a login. Users cannot disable themselves.
func (s *UserService) SetActive(ctx context.Context, actor, userID uuid.UUID, active bool) (*entity.User, error) {
	if actor == userID && !active {
		return nil, apperror.NewBadRequestError("You cannot deactivate your own account")
	}
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.userRepo.SetActive(ctx, userID, active); err != nil {
		return nil, apperror.NewPersistenceError("update user", err)
	}
	return s.GetUser(ctx, userID)
}
