// Package filter compiles CEL expressions that select tasks, for example
//
//	!completed && title.contains("milk")
//	created_ts > 1767225600
package filter

import (
	"github.com/google/cel-go/cel"
	"github.com/pkg/errors"

	"github.com/todoai/todoai/store"
)

// TaskFilter is a compiled task predicate. It is safe for concurrent use.
type TaskFilter struct {
	program cel.Program
}

var taskEnvOptions = []cel.EnvOption{
	cel.Variable("id", cel.IntType),
	cel.Variable("title", cel.StringType),
	cel.Variable("description", cel.StringType),
	cel.Variable("completed", cel.BoolType),
	cel.Variable("created_ts", cel.IntType),
	cel.Variable("updated_ts", cel.IntType),
}

// NewTaskFilter compiles expr. The expression must evaluate to a bool.
func NewTaskFilter(expr string) (*TaskFilter, error) {
	env, err := cel.NewEnv(taskEnvOptions...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cel env")
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, errors.Wrap(issues.Err(), "failed to compile filter")
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, errors.Errorf("filter must evaluate to bool, got %s", ast.OutputType())
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build filter program")
	}
	return &TaskFilter{program: program}, nil
}

// Match reports whether task satisfies the filter. A missing description is
// seen as the empty string.
func (f *TaskFilter) Match(task *store.Task) (bool, error) {
	description := ""
	if task.Description != nil {
		description = *task.Description
	}
	out, _, err := f.program.Eval(map[string]any{
		"id":          int64(task.ID),
		"title":       task.Title,
		"description": description,
		"completed":   task.Completed,
		"created_ts":  task.CreatedTs,
		"updated_ts":  task.UpdatedTs,
	})
	if err != nil {
		return false, errors.Wrap(err, "failed to evaluate filter")
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, errors.Errorf("filter returned %T", out.Value())
	}
	return matched, nil
}

// Apply keeps the tasks that satisfy the filter, preserving order.
func (f *TaskFilter) Apply(tasks []*store.Task) ([]*store.Task, error) {
	result := make([]*store.Task, 0, len(tasks))
	for _, task := range tasks {
		matched, err := f.Match(task)
		if err != nil {
			return nil, err
		}
		if matched {
			result = append(result, task)
		}
	}
	return result, nil
}
