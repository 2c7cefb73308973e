package auth

import (
	"testing"
	"time"

	apperrors "stage-link/errors"

	"github.com/stretchr/testify/require"
)

var testSecret = []byte("unit-test-secret")

func Test_GenerateToken_RoundTrip(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken(testSecret, "7", "etudiant", time.Hour)
	req.NoError(err)

	claims, err := VerifyToken(testSecret, token)
	req.NoError(err)
	req.Equal("7", claims.UserID)
	req.Equal("etudiant", claims.Role)
	req.Equal("stage-link", claims.Issuer)
}

func Test_VerifyToken_Expired(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken(testSecret, "7", "etudiant", -time.Minute)
	req.NoError(err)

	_, err = VerifyToken(testSecret, token)
	req.ErrorIs(err, apperrors.ErrTokenExpired)
}

func Test_VerifyToken_WrongSecret(t *testing.T) {
	req := require.New(t)

	token, err := GenerateToken([]byte("other-secret"), "7", "etudiant", time.Hour)
	req.NoError(err)

	_, err = VerifyToken(testSecret, token)
	req.ErrorIs(err, apperrors.ErrTokenSignature)
}

func Test_VerifyToken_Malformed(t *testing.T) {
	req := require.New(t)

	for _, garbage := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := VerifyToken(testSecret, garbage)
		req.ErrorIs(err, apperrors.ErrTokenMalformed)
	}
}
