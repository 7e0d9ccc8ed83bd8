package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/socialite-app/backend/internal/middleware"
	"github.com/socialite-app/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// currentUserID returns the authenticated user's id placed in the context by
// the auth middleware.
func currentUserID(c echo.Context) (primitive.ObjectID, error) {
	raw, _ := c.Get(middleware.ContextUserIDKey).(string)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusUnauthorized, "Invalid authentication context")
	}
	return id, nil
}

// repoError translates repository sentinel errors into HTTP errors. Anything
// unrecognized surfaces as a 500 with a generic message, never internals.
func repoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrInvalidID):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid id format")
	case errors.Is(err, repositories.ErrPostNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	case errors.Is(err, repositories.ErrCommentNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	case errors.Is(err, repositories.ErrNotCommentOwner):
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this comment")
	case errors.Is(err, repositories.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Something went wrong")
	}
}
