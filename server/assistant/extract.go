package assistant

import (
	"strings"
)

// extractTaskNumber returns the first whitespace-delimited token made only of
// ASCII digits, without its leading zeros. The first such token always wins,
// whatever its size. Zero is reported as absent.
func extractTaskNumber(message string) (string, bool) {
	for _, word := range strings.Fields(message) {
		if !isDigits(word) {
			continue
		}
		number := strings.TrimLeft(word, "0")
		return number, number != ""
	}
	return "", false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// titleNoise is removed from an "add task" message, one literal at a time and
// in this order, to recover the title.
var titleNoise = []string{"add", "Add", "task", "Task", "a", "to"}

func extractTitle(message string) string {
	title := message
	for _, noise := range titleNoise {
		title = strings.ReplaceAll(title, noise, "")
	}
	return strings.TrimSpace(title)
}
