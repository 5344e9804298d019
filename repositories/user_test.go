package repositories

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"pairchat/errors"
)

func Test_CreateUser_And_Lookups(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	created, err := repository.CreateUser("alice", "Alice", "$argon2id$hash")
	req.NoError(err)
	req.NotEmpty(created.ID)
	req.Equal("alice", created.Username)
	req.Equal("Alice", created.DisplayName)

	byName, err := repository.GetUserByUsername("alice")
	req.NoError(err)
	req.Equal(created, byName)

	byID, err := repository.GetUserByID(created.ID)
	req.NoError(err)
	req.Equal(created, byID)
}

func Test_CreateUser_DuplicateUsername(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	_, err := repository.CreateUser("alice", "Alice", "$argon2id$hash")
	req.NoError(err)

	_, err = repository.CreateUser("alice", "Another Alice", "$argon2id$hash2")
	req.ErrorIs(err, errors.ErrUserAlreadyExists)
}

func Test_Lookup_UnknownUser(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	_, err := repository.GetUserByUsername("ghost")
	req.ErrorIs(err, errors.ErrUserNotFound)

	_, err = repository.GetUserByID("no-such-id")
	req.ErrorIs(err, errors.ErrUserNotFound)
}

func Test_ListUsers(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	for _, username := range []string{"alice", "bob", "clara"} {
		_, err := repository.CreateUser(username, username, "$argon2id$hash")
		req.NoError(err)
	}

	users, err := repository.ListUsers()
	req.NoError(err)
	req.ElementsMatch([]string{"alice", "bob", "clara"},
		lo.Map(users, func(u User, _ int) string { return u.Username }))
}
