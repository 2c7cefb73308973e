//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strconv"
	"time"

	"stage-link/domain"
	apperrors "stage-link/errors"

	"github.com/dgraph-io/badger/v4"
)

type IUserRepository interface {
	CreateUser(email, name, hashedPassword string, role domain.Role) (User, error)
	FindByEmail(email string) (User, error)
	FindByID(id string) (User, error)
}

// User is the stored principal record. ID is a decimal sequence number;
// the role is authoritative here, never taken from client input after
// registration.
type User struct {
	ID           string      `json:"id"`
	Email        string      `json:"email"`
	Name         string      `json:"name"`
	PasswordHash string      `json:"password_hash"`
	Role         domain.Role `json:"role"`
	CreatedAt    time.Time   `json:"created_at"`
}

type UserRepository struct {
	db  *badger.DB
	seq *badger.Sequence
}

func NewUserRepository(db *badger.DB) (*UserRepository, error) {
	seq, err := db.GetSequence([]byte("seq:user"), 64)
	if err != nil {
		return nil, fmt.Errorf("user id sequence: %w", err)
	}
	return &UserRepository{db: db, seq: seq}, nil
}

// Close releases the remaining lease of the id sequence.
func (u *UserRepository) Close() error {
	return u.seq.Release()
}

// CreateUser persists the user under two keys: "user:{email}" for login
// and "principal:{id}" for directory lookups on connection admission.
func (u *UserRepository) CreateUser(email, name, hashedPassword string,
	role domain.Role) (User, error) {
	next, err := u.seq.Next()
	if err != nil {
		return User{}, err
	}
	// Sequences start at 0, principal ids at 1.
	user := User{
		ID:           strconv.FormatUint(next+1, 10),
		Email:        email,
		Name:         name,
		PasswordHash: hashedPassword,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	data, err := json.Marshal(user)
	if err != nil {
		return User{}, fmt.Errorf("marshal failed: %w", err)
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		emailKey := []byte("user:" + email)
		if _, err := txn.Get(emailKey); err == nil {
			return apperrors.ErrUserAlreadyExists
		}
		if err := txn.Set(emailKey, data); err != nil {
			return err
		}
		return txn.Set([]byte("principal:"+user.ID), data)
	})
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (u *UserRepository) FindByEmail(email string) (User, error) {
	return u.find("user:" + email)
}

// FindByID resolves a token subject to its principal record. A miss is
// reported as ErrPrincipalNotFound, distinct from any token failure: the
// credential was valid but the principal no longer exists.
func (u *UserRepository) FindByID(id string) (User, error) {
	user, err := u.find("principal:" + id)
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return User{}, apperrors.ErrPrincipalNotFound
	}
	return user, err
}

func (u *UserRepository) find(key string) (User, error) {
	var user User
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &user)
		})
	})
	if err != nil {
		return User{}, err
	}
	return user, nil
}
