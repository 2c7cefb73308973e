package api

import (
	"net/http"

	"stage-link/channel"
	"stage-link/domain"
	"stage-link/repositories"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// NewEchoServer builds the HTTP surface shared by the REST endpoints and
// the websocket upgrade.
func NewEchoServer() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	return e
}

func RegisterRoutes(e *echo.Echo, secret []byte, directory repositories.IUserRepository,
	authHandler *AuthHandler, notificationHandler *NotificationHandler, channelServer *channel.Server) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)

	// The gatekeeper performs its own credential check before the
	// upgrade, so /ws stays outside the JWT middleware.
	e.GET("/ws", channelServer.Handle)

	protected := e.Group("/api", JWTMiddleware(secret, directory))
	protected.GET("/etudiant/notifications", notificationHandler.History(domain.RoleStudent))
	protected.GET("/employer/notifications", notificationHandler.History(domain.RoleEmployer))
	protected.GET("/gestionnaire/notifications", notificationHandler.History(domain.RoleManager))
	protected.GET("/notifications/search", notificationHandler.Search)
	protected.POST("/internal/events", notificationHandler.SubmitEvent)
}
