package test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/todoai/todoai/store"
)

func TestUserStore(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	user, err := ts.CreateUser(ctx, &store.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.NotZero(t, user.CreatedTs)

	found, err := ts.GetUser(ctx, &store.FindUser{ID: &user.ID})
	require.NoError(t, err)
	require.Equal(t, "test@example.com", found.Email)
	require.Equal(t, "hash", found.PasswordHash)

	email := "missing@example.com"
	missing, err := ts.GetUser(ctx, &store.FindUser{Email: &email})
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestUserStoreDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	_, err := ts.CreateUser(ctx, &store.User{Email: "dup@example.com", PasswordHash: "a"})
	require.NoError(t, err)

	_, err = ts.CreateUser(ctx, &store.User{Email: "dup@example.com", PasswordHash: "b"})
	require.True(t, errors.Is(err, store.ErrConflict))
}

func TestUserDriverDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)
	driver := ts.GetDriver()
	_, err := driver.CreateUser(ctx, &store.User{Email: "race@example.com", PasswordHash: "a", CreatedTs: 1})
	require.NoError(t, err)

	// Bypasses the facade's pre-check, as a concurrent registration would.
	_, err = driver.CreateUser(ctx, &store.User{Email: "race@example.com", PasswordHash: "b", CreatedTs: 2})
	require.True(t, errors.Is(err, store.ErrConflict))
}
