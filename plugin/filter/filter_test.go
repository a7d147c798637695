package filter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/todoai/todoai/store"
)

func TestTaskFilter(t *testing.T) {
	description := "two liters"
	tasks := []*store.Task{
		{ID: 3, Title: "buy milk", Description: &description, Completed: false, CreatedTs: 300},
		{ID: 2, Title: "walk dog", Completed: true, CreatedTs: 200},
		{ID: 1, Title: "buy bread", Completed: true, CreatedTs: 100},
	}

	tests := []struct {
		expr string
		want []int32
	}{
		{expr: `!completed`, want: []int32{3}},
		{expr: `title.startsWith("buy")`, want: []int32{3, 1}},
		{expr: `completed && created_ts < 150`, want: []int32{1}},
		{expr: `description.contains("liters")`, want: []int32{3}},
		{expr: `id > 10`, want: []int32{}},
	}
	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			f, err := NewTaskFilter(tc.expr)
			require.NoError(t, err)
			got, err := f.Apply(tasks)
			require.NoError(t, err)
			ids := []int32{}
			for _, task := range got {
				ids = append(ids, task.ID)
			}
			require.Equal(t, tc.want, ids)
		})
	}
}

func TestTaskFilterRejectsBadExpressions(t *testing.T) {
	for _, expr := range []string{`title +`, `title`, `unknown == 1`} {
		_, err := NewTaskFilter(expr)
		require.Error(t, err, expr)
	}
}
