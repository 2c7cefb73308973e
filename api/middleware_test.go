package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stage-link/auth"
	"stage-link/domain"
	apperrors "stage-link/errors"
	"stage-link/repositories"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("api-test-secret")

type fakeDirectory struct {
	users map[string]repositories.User
}

func (f *fakeDirectory) CreateUser(string, string, string, domain.Role) (repositories.User, error) {
	panic("not used")
}

func (f *fakeDirectory) FindByEmail(string) (repositories.User, error) {
	panic("not used")
}

func (f *fakeDirectory) FindByID(id string) (repositories.User, error) {
	user, ok := f.users[id]
	if !ok {
		return repositories.User{}, apperrors.ErrPrincipalNotFound
	}
	return user, nil
}

func protectedEcho(directory repositories.IUserRepository) *echo.Echo {
	e := echo.New()
	group := e.Group("/api", JWTMiddleware(testSecret, directory))
	group.GET("/whoami", func(c echo.Context) error {
		principal := principalFrom(c)
		return c.JSON(http.StatusOK, map[string]string{
			"id":   principal.ID,
			"role": string(principal.Role),
		})
	})
	return e
}

func Test_JWTMiddleware_ResolvesPrincipalFromDirectory(t *testing.T) {
	req := require.New(t)
	directory := &fakeDirectory{users: map[string]repositories.User{
		"7": {ID: "7", Role: domain.RoleStudent},
	}}
	e := protectedEcho(directory)

	// The token claims employer; the directory record wins
	token, err := auth.GenerateToken(testSecret, "7", "employer", time.Hour)
	req.NoError(err)

	request := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	request.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	recorder := httptest.NewRecorder()
	e.ServeHTTP(recorder, request)

	req.Equal(http.StatusOK, recorder.Code)
	req.Contains(recorder.Body.String(), `"role":"etudiant"`)
}

func Test_JWTMiddleware_Rejections(t *testing.T) {
	directory := &fakeDirectory{users: map[string]repositories.User{
		"7": {ID: "7", Role: domain.RoleStudent},
	}}
	e := protectedEcho(directory)

	expired, err := auth.GenerateToken(testSecret, "7", "etudiant", -time.Minute)
	require.NoError(t, err)
	unknown, err := auth.GenerateToken(testSecret, "404", "etudiant", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"garbage token", "Bearer nope"},
		{"expired token", "Bearer " + expired},
		{"unknown principal", "Bearer " + unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
			if tt.header != "" {
				request.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			recorder := httptest.NewRecorder()
			e.ServeHTTP(recorder, request)
			require.Equal(t, http.StatusUnauthorized, recorder.Code)
		})
	}
}
