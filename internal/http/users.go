package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/librarium/internal/database/users"
	"github.com/openshelf/librarium/internal/entities"
)

// UserStore defines database operations for user account management.
type UserStore interface {
	Create(user *entities.User) error
	FindByUserID(userID string) (*entities.User, error)
	FindAll() ([]entities.User, error)
	DeleteByUserID(userID string) error
}

// UsersController handles user account endpoints.
type UsersController struct {
	store UserStore
}

// NewUsersController creates a new users controller.
func NewUsersController(store UserStore) *UsersController {
	return &UsersController{store: store}
}

type createUserRequest struct {
	UserID       string            `json:"user_id" binding:"required"`
	DisplayName  string            `json:"display_name"`
	EmailAddress string            `json:"email_address" binding:"required"`
	Role         entities.UserRole `json:"role"`
}

// Create registers a new user account.
// POST /user/add
func (uc *UsersController) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "user_id and email_address are required")
		return
	}

	user := &entities.User{
		UserID:       req.UserID,
		DisplayName:  req.DisplayName,
		EmailAddress: req.EmailAddress,
		Role:         req.Role,
	}

	if err := uc.store.Create(user); err != nil {
		respondInternalError(c, err, "create user")
		return
	}

	respondCreated(c, user)
}

// GetAll lists every user account.
// GET /user/all
func (uc *UsersController) GetAll(c *gin.Context) {
	all, err := uc.store.FindAll()
	if err != nil {
		respondInternalError(c, err, "list users")
		return
	}
	c.JSON(http.StatusOK, all)
}

// GetByUserID returns a single user account.
// GET /user/:userID
func (uc *UsersController) GetByUserID(c *gin.Context) {
	user, err := uc.store.FindByUserID(c.Param("userID"))
	if errors.Is(err, users.ErrNotFound) {
		respondNotFound(c, "user")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// Delete removes a user account. Articles authored by the user are left in
// place; their author reference simply stops resolving.
// DELETE /user/:userID
func (uc *UsersController) Delete(c *gin.Context) {
	userID := c.Param("userID")

	if _, err := uc.store.FindByUserID(userID); errors.Is(err, users.ErrNotFound) {
		respondNotFound(c, "user")
		return
	} else if err != nil {
		respondInternalError(c, err, "get user")
		return
	}

	if err := uc.store.DeleteByUserID(userID); err != nil {
		respondInternalError(c, err, "delete user")
		return
	}
	respondSuccess(c, "User deleted successfully")
}
