package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Password_HashAndCompare(t *testing.T) {
	req := require.New(t)

	hash, err := HashPassword("Str0ng!Passw0rd")
	req.NoError(err)
	req.NotContains(hash, "Str0ng!Passw0rd")

	match, err := ComparePassword("Str0ng!Passw0rd", hash)
	req.NoError(err)
	req.True(match)

	match, err = ComparePassword("Wr0ng!Password", hash)
	req.NoError(err)
	req.False(match)
}

func Test_Password_HashesAreSalted(t *testing.T) {
	req := require.New(t)

	first, err := HashPassword("Str0ng!Passw0rd")
	req.NoError(err)
	second, err := HashPassword("Str0ng!Passw0rd")
	req.NoError(err)

	req.NotEqual(first, second)
}

func Test_Password_GarbageHash(t *testing.T) {
	_, err := ComparePassword("whatever", "not-an-encoded-hash")
	require.Error(t, err)
}
