package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/socialite-app/backend/internal/models"
	"github.com/socialite-app/backend/internal/repositories"
)

// CommentHandler handles HTTP requests related to comments. Comments live
// embedded in post documents, so every operation is a single update on the
// posts collection.
type CommentHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *CommentHandler {
	return &CommentHandler{
		postRepository: postRepo,
		userRepository: userRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.POST("/posts/:id/comments", h.CreateComment, auth)
	g.DELETE("/posts/:id/comments/:commentId", h.DeleteComment, auth)
}

// CreateComment appends a comment to a post. Any authenticated user may comment.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	postID := c.Param("id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	req.Text = strings.TrimSpace(req.Text)
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment := &models.Comment{
		UserID: userID,
		Text:   req.Text,
	}

	post, err := h.postRepository.AddComment(c.Request().Context(), postID, comment)
	if err != nil {
		return repoError(err)
	}

	view, err := buildPostView(c.Request().Context(), h.userRepository, post)
	if err != nil {
		return repoError(err)
	}
	return c.JSON(http.StatusCreated, view)
}

// DeleteComment removes a comment from a post. Only the comment's own author
// may delete it; the post owner gets 403 like anyone else.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	post, err := h.postRepository.RemoveComment(c.Request().Context(), c.Param("id"), c.Param("commentId"), userID)
	if err != nil {
		return repoError(err)
	}

	view, err := buildPostView(c.Request().Context(), h.userRepository, post)
	if err != nil {
		return repoError(err)
	}
	return c.JSON(http.StatusOK, view)
}
