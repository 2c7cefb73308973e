package api

import (
	"net/http"
	"strings"

	"stage-link/auth"
	"stage-link/domain"
	"stage-link/repositories"

	"github.com/labstack/echo/v4"
)

const principalKey = "principal"

// JWTMiddleware guards the /api group. The same bearer header as the
// control channel, the same directory as the source of truth for the
// role: the token only names the subject.
func JWTMiddleware(secret []byte, directory repositories.IUserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || strings.TrimSpace(token) == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}

			claims, err := auth.VerifyToken(secret, strings.TrimSpace(token))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
			}

			user, err := directory.FindByID(claims.UserID)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "principal not found"})
			}

			c.Set(principalKey, domain.Principal{ID: user.ID, Role: user.Role})
			return next(c)
		}
	}
}

func principalFrom(c echo.Context) domain.Principal {
	p, _ := c.Get(principalKey).(domain.Principal)
	return p
}
