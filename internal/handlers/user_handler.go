package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"gateway-inject/internal/middleware"
	"gateway-inject/internal/models"
	"gateway-inject/internal/repositories"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	users repositories.UserRepository
}

// NewUserHandler creates a new user handler
func NewUserHandler(users repositories.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// @Summary List users
// @Description List users ordered by ID
// @Tags users
// @Produce json
// @Param limit query int false "Maximum number of users"
// @Param offset query int false "Number of users to skip"
// @Success 200 {array} models.User
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "offset must be a non-negative integer")
		return
	}

	users, err := h.users.List(c.Request.Context(), limit, offset)
	if err != nil {
		handleRepositoryError(c, err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}

	c.JSON(http.StatusOK, users)
}

// @Summary Get a user
// @Description Get a user by ID
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		middleware.AbortWithError(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		handleRepositoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// @Summary Create a user
// @Description Create a new user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body models.CreateUserRequest true "User data"
// @Success 201 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			middleware.AbortWithValidationErrors(c, validationErrors)
			return
		}
		middleware.AbortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	user := req.ToUser()
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		handleRepositoryError(c, err)
		return
	}

	c.Header("Location", "/users/"+strconv.FormatInt(user.ID, 10))
	c.JSON(http.StatusCreated, user)
}

// queryInt reads an optional non-negative integer query parameter
func queryInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}
