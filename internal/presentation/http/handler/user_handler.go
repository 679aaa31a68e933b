package handler

import (
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/application/service"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/presentation/http/dto/response"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserHandler handles staff account HTTP requests
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateRolesRequest represents the request body for updating user roles
type UpdateRolesRequest struct {
	Roles []string `json:"roles" binding:"required,min=1"`
}

// SetActiveRequest enables or disables a login
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func parseUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID")
		return uuid.Nil, false
	}
	return userID, true
}

// List handles listing staff accounts
// @Summary List Users
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(15)
// @Param search query string false "Search name or email"
// @Success 200 {object} response.APIResponse
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	result, err := h.userService.ListUsers(c.Request.Context(), paginationParams(c), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	views := make([]gin.H, len(result.Items))
	for i := range result.Items {
		views[i] = userView(&result.Items[i])
	}
	response.SuccessWithPagination(c, "Users retrieved successfully",
		pagination.NewPaginatedResult(views, result.Pagination))
}

// Create handles creating a staff account
// @Summary Create User
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body service.CreateUserInput true "Account"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req service.CreateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "User created successfully", userView(user))
}

// Get handles getting a single user by ID
// @Summary Get User
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.APIResponse
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "User retrieved successfully", userView(user))
}

// UpdateRoles handles replacing a user's roles
// @Summary Update User Roles
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body UpdateRolesRequest true "Role names"
// @Success 200 {object} response.APIResponse
// @Router /users/{id}/roles [put]
func (h *UserHandler) UpdateRoles(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var req UpdateRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateUserRoles(c.Request.Context(), userID, req.Roles)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "User roles updated successfully", userView(user))
}

// SetActive handles enabling or disabling a login
// @Summary Activate or deactivate User
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body SetActiveRequest true "Active flag"
// @Success 200 {object} response.APIResponse
// @Router /users/{id}/active [put]
func (h *UserHandler) SetActive(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	actor := GetUserID(c)
	if actor == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.SetActive(c.Request.Context(), *actor, userID, *req.Active)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "User updated successfully", userView(user))
}
