//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"pairchat/errors"
)

type IUserRepository interface {
	CreateUser(username, displayName, passwordHash string) (User, error)
	GetUserByUsername(username string) (User, error)
	GetUserByID(id string) (User, error)
	ListUsers() ([]User, error)
}

// User is the persisted user record. The password hash never leaves the
// repository/service layers.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"displayName"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

func userKey(username string) []byte { return []byte("user:" + username) }
func userIDKey(id string) []byte     { return []byte("uid:" + id) }

// CreateUser persists a new user. The uniqueness check and the insert run in
// the same transaction, so two concurrent registrations of the same username
// cannot both succeed.
func (u *UserRepository) CreateUser(username, displayName, passwordHash string) (User, error) {
	user := User{
		ID:           uuid.NewString(),
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	data, err := json.Marshal(user)
	if err != nil {
		return User{}, fmt.Errorf("marshal failed: %w", err)
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(userKey(username)); err == nil {
			return errors.ErrUserAlreadyExists
		}
		if err := txn.Set(userKey(username), data); err != nil {
			return err
		}
		// Secondary index so identities can be resolved by id as well.
		return txn.Set(userIDKey(user.ID), []byte(username))
	})
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (u *UserRepository) GetUserByUsername(username string) (User, error) {
	var user User
	err := u.db.View(func(txn *badger.Txn) error {
		return readUser(txn, username, &user)
	})
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (u *UserRepository) GetUserByID(id string) (User, error) {
	var user User
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userIDKey(id))
		if err != nil {
			return errors.ErrUserNotFound
		}
		var username string
		if err := item.Value(func(val []byte) error {
			username = string(val)
			return nil
		}); err != nil {
			return err
		}
		return readUser(txn, username, &user)
	})
	if err != nil {
		return User{}, err
	}
	return user, nil
}

// ListUsers returns every registered user, used by the contacts surface.
func (u *UserRepository) ListUsers() ([]User, error) {
	var users []User
	err := u.db.View(func(txn *badger.Txn) error {
		prefix := []byte("user:")
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var user User
				if err := json.Unmarshal(val, &user); err != nil {
					return err
				}
				users = append(users, user)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

func readUser(txn *badger.Txn, username string, user *User) error {
	item, err := txn.Get(userKey(username))
	if err != nil {
		return errors.ErrUserNotFound
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, user)
	})
}
