package repositories

import (
	"testing"

	"stage-link/domain"
	apperrors "stage-link/errors"

	"github.com/stretchr/testify/require"
)

func newTestUserRepository(t *testing.T) *UserRepository {
	t.Helper()
	repository, err := NewUserRepository(openTestDB(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repository.Close() })
	return repository
}

func Test_CreateUser_AssignsSequentialIds(t *testing.T) {
	req := require.New(t)
	repository := newTestUserRepository(t)

	alice, err := repository.CreateUser("alice@example.com", "Alice", "hash", domain.RoleStudent)
	req.NoError(err)
	bob, err := repository.CreateUser("bob@example.com", "Bob", "hash", domain.RoleEmployer)
	req.NoError(err)

	req.Equal("1", alice.ID)
	req.Equal("2", bob.ID)
}

func Test_CreateUser_DuplicateEmail(t *testing.T) {
	req := require.New(t)
	repository := newTestUserRepository(t)

	_, err := repository.CreateUser("alice@example.com", "Alice", "hash", domain.RoleStudent)
	req.NoError(err)

	_, err = repository.CreateUser("alice@example.com", "Someone Else", "hash", domain.RoleEmployer)
	req.ErrorIs(err, apperrors.ErrUserAlreadyExists)
}

func Test_FindByEmail_And_FindByID(t *testing.T) {
	req := require.New(t)
	repository := newTestUserRepository(t)

	created, err := repository.CreateUser("alice@example.com", "Alice", "hash", domain.RoleStudent)
	req.NoError(err)

	byEmail, err := repository.FindByEmail("alice@example.com")
	req.NoError(err)
	req.Equal(created.ID, byEmail.ID)
	req.Equal(domain.RoleStudent, byEmail.Role)

	byID, err := repository.FindByID(created.ID)
	req.NoError(err)
	req.Equal("alice@example.com", byID.Email)
}

func Test_FindByID_Unknown(t *testing.T) {
	repository := newTestUserRepository(t)

	_, err := repository.FindByID("404")
	require.ErrorIs(t, err, apperrors.ErrPrincipalNotFound)
}
