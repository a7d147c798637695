package store

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

type User struct {
	ID           int32
	Email        string
	PasswordHash string
	CreatedTs    int64
}

type FindUser struct {
	ID    *int32
	Email *string
}

func (s *Store) CreateUser(ctx context.Context, create *User) (*User, error) {
	create.Email = strings.TrimSpace(create.Email)
	existing, err := s.GetUser(ctx, &FindUser{Email: &create.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.Wrapf(ErrConflict, "email %s already registered", create.Email)
	}
	create.CreatedTs = s.timestamp()
	return s.driver.CreateUser(ctx, create)
}

func (s *Store) ListUsers(ctx context.Context, find *FindUser) ([]*User, error) {
	return s.driver.ListUsers(ctx, find)
}

// GetUser returns the first user matching find, or nil when there is none.
func (s *Store) GetUser(ctx context.Context, find *FindUser) (*User, error) {
	list, err := s.ListUsers(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}
