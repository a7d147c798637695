package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/todoai/todoai/store"
)

const taskFields = "`id`, `owner_id`, `title`, `description`, `completed`, `created_ts`, `updated_ts`"

func (d *DB) CreateTask(ctx context.Context, create *store.Task) (*store.Task, error) {
	fields := []string{"`owner_id`", "`title`", "`description`", "`completed`", "`created_ts`", "`updated_ts`"}
	placeholders := []string{"?", "?", "?", "?", "?", "?"}
	args := []any{create.OwnerID, create.Title, create.Description, create.Completed, create.CreatedTs, create.UpdatedTs}

	stmt := "INSERT INTO `task` (" + strings.Join(fields, ", ") + ") VALUES (" + strings.Join(placeholders, ", ") + ") RETURNING `id`"
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, err
	}
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
	query := fmt.Sprintf("SELECT %s FROM `task` WHERE %s ORDER BY `created_ts` DESC, `id` DESC", taskFields, strings.Join(where, " AND "))
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*store.Task, 0)
	for rows.Next() {
		var task store.Task
		if err := rows.Scan(&task.ID, &task.OwnerID, &task.Title, &task.Description, &task.Completed, &task.CreatedTs, &task.UpdatedTs); err != nil {
			return nil, err
		}
		list = append(list, &task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
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

	stmt := "UPDATE `task` SET " + strings.Join(set, ", ") + " WHERE `id` = ? RETURNING " + taskFields
	task := &store.Task{}
	if err := d.db.QueryRowContext(ctx, stmt, args...).
		Scan(&task.ID, &task.OwnerID, &task.Title, &task.Description, &task.Completed, &task.CreatedTs, &task.UpdatedTs); err != nil {
		return nil, err
	}
	return task, nil
}

func (d *DB) DeleteTask(ctx context.Context, delete *store.DeleteTask) error {
	_, err := d.db.ExecContext(ctx, "DELETE FROM `task` WHERE `id` = ?", delete.ID)
	return err
}
