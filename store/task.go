package store

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

const (
	MaxTaskTitleLength       = 200
	MaxTaskDescriptionLength = 5000
)

type Task struct {
	ID          int32
	OwnerID     int32
	Title       string
	Description *string
	Completed   bool
	CreatedTs   int64
	UpdatedTs   int64
}

type FindTask struct {
	ID        *int32
	OwnerID   *int32
	Completed *bool
}

// UpdateTask carries the fields to change; nil fields are left untouched.
type UpdateTask struct {
	ID          int32
	Title       *string
	Description *string
	Completed   *bool
	UpdatedTs   int64
}

type DeleteTask struct {
	ID int32
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", errors.Wrap(ErrInvalidTask, "title cannot be empty or whitespace")
	}
	if utf8.RuneCountInString(title) > MaxTaskTitleLength {
		return "", errors.Wrapf(ErrInvalidTask, "title exceeds %d characters", MaxTaskTitleLength)
	}
	return title, nil
}

func validateDescription(description *string) error {
	if description != nil && utf8.RuneCountInString(*description) > MaxTaskDescriptionLength {
		return errors.Wrapf(ErrInvalidTask, "description exceeds %d characters", MaxTaskDescriptionLength)
	}
	return nil
}

// CreateTask creates an incomplete task for create.OwnerID.
func (s *Store) CreateTask(ctx context.Context, create *Task) (*Task, error) {
	title, err := validateTitle(create.Title)
	if err != nil {
		return nil, err
	}
	if err := validateDescription(create.Description); err != nil {
		return nil, err
	}
	ts := s.timestamp()
	create.Title = title
	create.Completed = false
	create.CreatedTs = ts
	create.UpdatedTs = ts
	return s.driver.CreateTask(ctx, create)
}

// ListTasks returns tasks newest first. Callers must always set OwnerID.
func (s *Store) ListTasks(ctx context.Context, find *FindTask) ([]*Task, error) {
	if find.OwnerID == nil {
		return nil, errors.New("owner is required to list tasks")
	}
	return s.driver.ListTasks(ctx, find)
}

// GetTask resolves the task by id and then checks ownership, so a missing
// task and a foreign task yield ErrNotFound and ErrForbidden respectively.
func (s *Store) GetTask(ctx context.Context, ownerID, id int32) (*Task, error) {
	list, err := s.driver.ListTasks(ctx, &FindTask{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, errors.Wrapf(ErrNotFound, "task %d", id)
	}
	task := list[0]
	if task.OwnerID != ownerID {
		return nil, errors.Wrapf(ErrForbidden, "task %d", id)
	}
	return task, nil
}

func (s *Store) UpdateTask(ctx context.Context, ownerID int32, update *UpdateTask) (*Task, error) {
	if _, err := s.GetTask(ctx, ownerID, update.ID); err != nil {
		return nil, err
	}
	if update.Title != nil {
		title, err := validateTitle(*update.Title)
		if err != nil {
			return nil, err
		}
		update.Title = &title
	}
	if err := validateDescription(update.Description); err != nil {
		return nil, err
	}
	update.UpdatedTs = s.timestamp()
	return s.driver.UpdateTask(ctx, update)
}

// ToggleTask flips the completion flag of an owned task.
func (s *Store) ToggleTask(ctx context.Context, ownerID, id int32) (*Task, error) {
	task, err := s.GetTask(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	completed := !task.Completed
	return s.driver.UpdateTask(ctx, &UpdateTask{
		ID:        id,
		Completed: &completed,
		UpdatedTs: s.timestamp(),
	})
}

func (s *Store) DeleteTask(ctx context.Context, ownerID, id int32) error {
	if _, err := s.GetTask(ctx, ownerID, id); err != nil {
		return err
	}
	return s.driver.DeleteTask(ctx, &DeleteTask{ID: id})
}
