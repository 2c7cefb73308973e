package api

import (
	"errors"
	"net/http"

	"stage-link/auth"
	apperrors "stage-link/errors"
	"stage-link/services"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	service services.IAuthService
}

func NewAuthHandler(service services.IAuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var request auth.RegisterRequest
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed body"})
	}

	token, err := h.service.Register(request)
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, map[string]string{"token": string(token)})
	case errors.Is(err, apperrors.ErrUserAlreadyExists):
		return c.JSON(http.StatusConflict, map[string]string{"error": "user already exists"})
	case errors.Is(err, apperrors.ErrTokenGeneration):
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "registration failed"})
	default:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
}

func (h *AuthHandler) Login(c echo.Context) error {
	var request auth.LoginRequest
	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed body"})
	}

	token, err := h.service.Login(request)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, map[string]string{"token": string(token)})
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	default:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
}
