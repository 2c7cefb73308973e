package services

import (
	"testing"
	"time"

	"stage-link/auth"
	apperrors "stage-link/errors"
	"stage-link/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("service-test-secret")

const validPassword = "Str0ng!Passw0rd"

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repository, err := repositories.NewUserRepository(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repository.Close() })

	return NewAuthService(repository, testSecret, time.Hour)
}

func registerRequest() auth.RegisterRequest {
	return auth.RegisterRequest{
		Email:    "alice@example.com",
		Password: validPassword,
		Name:     "Alice Tremblay",
		Role:     "etudiant",
	}
}

func Test_Register_IssuesVerifiableToken(t *testing.T) {
	req := require.New(t)
	service := newTestAuthService(t)

	token, err := service.Register(registerRequest())
	req.NoError(err)

	claims, err := auth.VerifyToken(testSecret, string(token))
	req.NoError(err)
	req.Equal("1", claims.UserID)
	req.Equal("etudiant", claims.Role)
}

func Test_Register_Rejections(t *testing.T) {
	service := newTestAuthService(t)

	tests := []struct {
		name   string
		mutate func(*auth.RegisterRequest)
	}{
		{"bad email", func(r *auth.RegisterRequest) { r.Email = "not-an-email" }},
		{"short password", func(r *auth.RegisterRequest) { r.Password = "Ab1!" }},
		{"no complexity", func(r *auth.RegisterRequest) { r.Password = "alllowercasepassword" }},
		{"unknown role", func(r *auth.RegisterRequest) { r.Role = "admin" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := registerRequest()
			tt.mutate(&request)
			_, err := service.Register(request)
			require.Error(t, err)
		})
	}
}

func Test_Register_DuplicateEmail(t *testing.T) {
	req := require.New(t)
	service := newTestAuthService(t)

	_, err := service.Register(registerRequest())
	req.NoError(err)

	_, err = service.Register(registerRequest())
	req.ErrorIs(err, apperrors.ErrUserAlreadyExists)
}

func Test_Login_RoundTrip(t *testing.T) {
	req := require.New(t)
	service := newTestAuthService(t)

	_, err := service.Register(registerRequest())
	req.NoError(err)

	token, err := service.Login(auth.LoginRequest{
		Email:    "alice@example.com",
		Password: validPassword,
	})
	req.NoError(err)

	claims, err := auth.VerifyToken(testSecret, string(token))
	req.NoError(err)
	req.Equal("etudiant", claims.Role)
}

func Test_Login_GenericFailure(t *testing.T) {
	req := require.New(t)
	service := newTestAuthService(t)

	_, err := service.Register(registerRequest())
	req.NoError(err)

	// Wrong password and unknown account must be indistinguishable
	_, wrongPassword := service.Login(auth.LoginRequest{
		Email:    "alice@example.com",
		Password: "Wr0ng!Password",
	})
	_, unknownAccount := service.Login(auth.LoginRequest{
		Email:    "nobody@example.com",
		Password: validPassword,
	})

	req.ErrorIs(wrongPassword, apperrors.ErrInvalidCredentials)
	req.ErrorIs(unknownAccount, apperrors.ErrInvalidCredentials)
	req.Equal(wrongPassword.Error(), unknownAccount.Error())
}
