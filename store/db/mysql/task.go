package mysql

import (
	"context"
	"fmt"
	"strings"

	"github.com/todoai/todoai/store"
)

func (d *DB) CreateTask(ctx context.Context, create *store.Task) (*store.Task, error) {
	stmt := "INSERT INTO `task` (`owner_id`, `title`, `description`, `completed`, `created_ts`, `updated_ts`) VALUES (?, ?, ?, ?, ?, ?)"
	result, err := d.db.ExecContext(ctx, stmt, create.OwnerID, create.Title, create.Description, create.Completed, create.CreatedTs, create.UpdatedTs)
	if err != nil {
		return nil, err
	}
	rawID, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	create.ID = int32(rawID)
	return create, nil
}

func (d *DB) ListTasks(ctx context.Context, find *store.FindTask) ([]*store.Task, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "`id` = ?"), append(args, *v)
	}
	if v := find.OwnerID; v != nil {
		where, args = append(where, "`owner_id` = ?"), append(args, *v)
	}
	if v := find.Completed; v != nil {
		where, args = append(where, "`completed` = ?"), append(args, *v)
	}
	query := fmt.Sprintf(
		"SELECT `id`, `owner_id`, `title`, `description`, `completed`, `created_ts`, `updated_ts` FROM `task` WHERE %s ORDER BY `created_ts` DESC, `id` DESC",
		strings.Join(where, " AND "),
	)
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*store.Task
	for rows.Next() {
		t := &store.Task{}
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Completed, &t.CreatedTs, &t.UpdatedTs); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (d *DB) UpdateTask(ctx context.Context, update *store.UpdateTask) (*store.Task, error) {
	set, args := []string{"`updated_ts` = ?"}, []any{update.UpdatedTs}
	if v := update.Title; v != nil {
		set, args = append(set, "`title` = ?"), append(args, *v)
	}
	if v := update.Description; v != nil {
		set, args = append(set, "`description` = ?"), append(args, *v)
	}
	if v := update.Completed; v != nil {
		set, args = append(set, "`completed` = ?"), append(args, *v)
	}
	args = append(args, update.ID)
	stmt := fmt.Sprintf("UPDATE `task` SET %s WHERE `id` = ?", strings.Join(set, ", "))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return nil, err
	}

	list, err := d.ListTasks(ctx, &store.FindTask{ID: &update.ID})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, store.ErrNotFound
	}
	return list[0], nil
}

func (d *DB) DeleteTask(ctx context.Context, delete *store.DeleteTask) error {
	_, err := d.db.ExecContext(ctx, "DELETE FROM `task` WHERE `id` = ?", delete.ID)
	return err
}
