package auth

import (
	stderrors "errors"
	"time"

	apperrors "stage-link/errors"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload carried by a signed token. UserID is the numeric
// principal id as a string; Role is the wire-level role segment.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed HS256 JWT for a principal.
func GenerateToken(secret []byte, userID, role string,
	tokenDuration time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "stage-link",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyToken parses and validates a bearer token string.
//
// Failures are reported through distinct sentinels (malformed, expired,
// bad signature) so the connection gatekeeper can produce precise
// diagnostics without leaking cryptographic detail to the client.
// Stateless and safe to call from any number of connections at once.
func VerifyToken(secret []byte, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(_ *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case stderrors.Is(err, jwt.ErrTokenExpired):
			return nil, apperrors.ErrTokenExpired
		case stderrors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, apperrors.ErrTokenSignature
		default:
			return nil, apperrors.ErrTokenMalformed
		}
	}
	if !token.Valid {
		return nil, apperrors.ErrTokenSignature
	}
	return claims, nil
}
