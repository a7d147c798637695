package assistant

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractTaskNumber(t *testing.T) {
	tests := []struct {
		message string
		number  string
		ok      bool
	}{
		{message: "please delete 7 now", number: "7", ok: true},
		{message: "complete 3 and 4", number: "3", ok: true},
		{message: "done 007", number: "7", ok: true},
		{message: "delete task -5", ok: false},
		{message: "delete task 3.5", ok: false},
		{message: "delete task #4", ok: false},
		{message: "delete task 0", ok: false},
		{message: "delete task 000", ok: false},
		// The first digit token wins even when it is too large to be an id.
		{message: "delete 99999999999 then 5", number: "99999999999", ok: true},
		{message: "", ok: false},
	}
	for _, test := range tests {
		number, ok := extractTaskNumber(test.message)
		require.Equal(t, test.ok, ok, test.message)
		require.Equal(t, test.number, number, test.message)
	}
}

func TestExtractTitle(t *testing.T) {
	require.Equal(t, "buy milk", extractTitle("add task buy milk"))
	require.Equal(t, "", extractTitle("add task"))
	require.Equal(t, "", extractTitle("Add a Task"))
	// Every literal is stripped wherever it occurs, not only as a word.
	require.Equal(t, "wlk the dog", extractTitle("add task walk the dog"))
	require.Equal(t, "py pp", extractTitle("add task to pay app"))
}
