package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/franciscosanchezn/gin-sqladmin-demo/internal/models"
	"github.com/franciscosanchezn/gin-sqladmin-demo/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserController serves the read-only user API
type UserController interface {
	// ListUsers returns a page of users
	ListUsers(c *gin.Context)
	// GetUserByID returns one user with its site
	GetUserByID(c *gin.Context)
}

type userController struct {
	service services.UserService
}

// NewUserController creates a new instance of UserController
func NewUserController(service services.UserService) UserController {
	return &userController{service: service}
}

// ListUsers godoc
// @Summary List users
// @Description Get a page of users ordered by ID
// @Tags users
// @Produce json
// @Param limit query int false "Page size (1-100, default 50)"
// @Param offset query int false "Rows to skip"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} models.APIError
// @Router /api/v1/users [get]
func (uc *userController) ListUsers(c *gin.Context) {
	limit, offset := parsePagination(c)
	users, total, err := uc.service.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "Failed to retrieve users"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":  users,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// GetUserByID godoc
// @Summary Get user by ID
// @Description Get a single user with its site
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 400 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Router /api/v1/users/{id} [get]
func (uc *userController) GetUserByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid user ID format"))
		return
	}

	user, err := uc.service.GetUserByID(c.Request.Context(), uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, models.NewAPIError(models.ErrUserNotFound, "User not found",
			map[string]interface{}{"id": id}))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "Failed to retrieve user"))
		return
	}
	c.JSON(http.StatusOK, user)
}

// parsePagination reads limit and offset, falling back to 50 and 0
func parsePagination(c *gin.Context) (limit, offset int) {
	limit = 50
	offset = 0
	if lStr := c.Query("limit"); lStr != "" {
		if l, err := strconv.Atoi(lStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	if oStr := c.Query("offset"); oStr != "" {
		if o, err := strconv.Atoi(oStr); err == nil && o >= 0 {
			offset = o
		}
	}
	return
}
