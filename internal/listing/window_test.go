package listing

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// render flattens a window for readable expectations: the current page is
// bracketed and ellipsis slots become "..".
func render(refs []PageRef) string {
	parts := make([]string, 0, len(refs))
	for _, r := range refs {
		switch {
		case r.Ellipsis:
			parts = append(parts, "..")
		case r.Current:
			parts = append(parts, "["+strconv.Itoa(r.Page)+"]")
		default:
			parts = append(parts, strconv.Itoa(r.Page))
		}
	}
	return strings.Join(parts, " ")
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name           string
		current, total int
		want           string
	}{
		{"no pages", 1, 0, ""},
		{"single page", 1, 1, ""},
		{"all pages fit", 2, 3, "1 [2] 3"},
		{"exactly window size", 4, 7, "1 2 3 [4] 5 6 7"},
		{"start of long run", 1, 10, "[1] 2 3 4 5 .. 10"},
		{"middle of long run", 5, 10, "1 .. 3 4 [5] 6 7 .. 10"},
		{"end of long run", 10, 10, "1 .. 6 7 8 9 [10]"},
		{"no gap collapses to page", 4, 8, "1 2 3 [4] 5 6 .. 8"},
		{"current clamped high", 99, 10, "1 .. 6 7 8 9 [10]"},
		{"current clamped low", 0, 10, "[1] 2 3 4 5 .. 10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(Window(tt.current, tt.total)))
		})
	}
}
