package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/todoai/todoai/store"
)

func (d *DB) CreateUser(ctx context.Context, create *store.User) (*store.User, error) {
	stmt := "INSERT INTO `user` (`email`, `password_hash`, `created_ts`) VALUES (?, ?, ?) RETURNING `id`"
	if err := d.db.QueryRowContext(ctx, stmt, create.Email, create.PasswordHash, create.CreatedTs).Scan(&create.ID); err != nil {
		if isUniqueConstraint(err) {
			return nil, errors.Wrapf(store.ErrConflict, "email %s already registered", create.Email)
		}
		return nil, err
	}
	return create, nil
}

func (d *DB) ListUsers(ctx context.Context, find *store.FindUser) ([]*store.User, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "`id` = ?"), append(args, *v)
	}
	if v := find.Email; v != nil {
		where, args = append(where, "`email` = ?"), append(args, *v)
	}
	query := fmt.Sprintf("SELECT `id`, `email`, `password_hash`, `created_ts` FROM `user` WHERE %s ORDER BY `id` ASC", strings.Join(where, " AND "))
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*store.User, 0)
	for rows.Next() {
		var user store.User
		if err := rows.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedTs); err != nil {
			return nil, err
		}
		list = append(list, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
