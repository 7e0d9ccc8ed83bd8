package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/socialite-app/backend/internal/repositories"
)

// UserHandler handles user profile requests
type UserHandler struct {
	userRepository repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo}
}

// RegisterProfileRoutes registers user profile routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.GET("/users/me", h.GetMe, auth)
}

// GetMe returns the authenticated user's own profile
func (h *UserHandler) GetMe(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		return repoError(err)
	}

	return c.JSON(http.StatusOK, user)
}
