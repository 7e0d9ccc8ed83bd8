package middleware

import (
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/socialite-app/backend/internal/repositories"
)

// FirebaseAuthMiddleware verifies Firebase ID tokens and resolves them to a
// local user, so downstream handlers see the same identity shape regardless of
// the configured auth provider.
func FirebaseAuthMiddleware(authClient *auth.Client, users repositories.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			idToken, err := bearerToken(c)
			if err != nil {
				return err
			}

			token, err := authClient.VerifyIDToken(c.Request().Context(), idToken)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired ID token")
			}

			user, err := users.GetUserByFirebaseUID(c.Request().Context(), token.UID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "No account for this identity")
			}

			c.Set(ContextUserIDKey, user.ID.Hex())
			c.Set("username", user.Username)

			return next(c)
		}
	}
}
