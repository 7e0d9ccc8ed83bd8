package handlers

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/socialite-app/backend/internal/models"
	"github.com/socialite-app/backend/internal/repositories"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
	}
}

// RegisterPostRoutes registers post-related routes. Reads are public; every
// mutating route goes through the auth middleware.
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.GET("/posts", h.GetPosts)
	g.GET("/posts/:id", h.GetPost)
	g.POST("/posts", h.CreatePost, auth)
	g.PUT("/posts/:id", h.UpdatePost, auth)
	g.DELETE("/posts/:id", h.DeletePost, auth)
}

// GetPosts returns a page of posts sorted by creation time descending
func (h *PostHandler) GetPosts(c echo.Context) error {
	page, limit := pageParams(c)
	skip := int64((page - 1) * limit)

	posts, err := h.postRepository.GetAllPosts(c.Request().Context(), skip, int64(limit))
	if err != nil {
		return repoError(err)
	}

	total, err := h.postRepository.CountPosts(c.Request().Context())
	if err != nil {
		return repoError(err)
	}

	views, err := buildPostViews(c.Request().Context(), h.userRepository, posts)
	if err != nil {
		return repoError(err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))

	return c.JSON(http.StatusOK, echo.Map{
		"posts":       views,
		"currentPage": page,
		"totalPages":  totalPages,
		"totalPosts":  total,
	})
}

// pageParams reads page and limit from the query string. Missing, non-numeric
// or non-positive values silently fall back to the defaults.
func pageParams(c echo.Context) (page, limit int) {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = defaultPage
	}
	limit, err = strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}

// GetPost retrieves a post by ID
func (h *PostHandler) GetPost(c echo.Context) error {
	post, err := h.postRepository.GetPostByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return repoError(err)
	}

	view, err := buildPostView(c.Request().Context(), h.userRepository, post)
	if err != nil {
		return repoError(err)
	}
	return c.JSON(http.StatusOK, view)
}

// CreatePost creates a new post owned by the authenticated user
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	req.Content = strings.TrimSpace(req.Content)
	if err := c.Validate(&req); err != nil {
		return err
	}

	post := &models.Post{
		UserID:  userID,
		Content: req.Content,
		Image:   normalizeImage(req.Image),
	}

	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return repoError(err)
	}

	view, err := buildPostView(c.Request().Context(), h.userRepository, post)
	if err != nil {
		return repoError(err)
	}
	return c.JSON(http.StatusCreated, view)
}

// UpdatePost updates an existing post. Owner only. The image is touched only
// when the field is present in the body, so an omitted image is preserved and
// an explicit empty value clears it.
func (h *PostHandler) UpdatePost(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	postID := c.Param("id")

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	existing, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return repoError(err)
	}
	if existing.UserID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to update this post")
	}

	req.Content = strings.TrimSpace(req.Content)
	if err := c.Validate(&req); err != nil {
		return err
	}

	upd := repositories.PostUpdate{Content: req.Content}
	if req.Image != nil {
		upd.SetImage = true
		upd.Image = normalizeImage(req.Image)
	}

	post, err := h.postRepository.UpdatePost(c.Request().Context(), postID, upd)
	if err != nil {
		return repoError(err)
	}

	view, err := buildPostView(c.Request().Context(), h.userRepository, post)
	if err != nil {
		return repoError(err)
	}
	return c.JSON(http.StatusOK, view)
}

// DeletePost deletes a post, its embedded comments and likes included. Owner only.
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	postID := c.Param("id")

	existing, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return repoError(err)
	}
	if existing.UserID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this post")
	}

	if err := h.postRepository.DeletePost(c.Request().Context(), postID); err != nil {
		return repoError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted successfully"})
}

// normalizeImage maps absent or blank image values to null.
func normalizeImage(image *string) *string {
	if image == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*image)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
