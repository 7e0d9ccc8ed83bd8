package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/socialite-app/backend/internal/repositories"
)

// LikeHandler handles the like toggle on posts
type LikeHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *LikeHandler {
	return &LikeHandler{
		postRepository: postRepo,
		userRepository: userRepo,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.POST("/posts/:id/like", h.ToggleLike, auth)
}

// ToggleLike likes the post when the user is not in the likers set, unlikes it
// when they are. The toggle itself is an atomic update in the repository.
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	post, err := h.postRepository.ToggleLike(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return repoError(err)
	}

	view, err := buildPostView(c.Request().Context(), h.userRepository, post)
	if err != nil {
		return repoError(err)
	}
	return c.JSON(http.StatusOK, view)
}
