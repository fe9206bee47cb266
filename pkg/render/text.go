package render

import (
	"strings"

	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/truncate"
)

// Collapse folds multiline text into a compact single-line preview.
func Collapse(text string) string {
	normalized := strings.ReplaceAll(text, "\r", "\n")
	var pieces []string
	for _, part := range strings.Split(normalized, "\n") {
		if p := strings.TrimSpace(part); p != "" {
			pieces = append(pieces, p)
		}
	}
	return strings.Join(pieces, " ")
}

// Truncate emits the first max runes plus a literal "..." suffix,
// only when truncation actually occurred.
func Truncate(text string, max int) string {
	if max <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}

// Preview applies the human-output policy: collapse and truncate
// unless full text was requested.
func Preview(text string, max int, full bool) string {
	if full {
		return text
	}
	return Truncate(Collapse(text), max)
}

// clipPad fits a value into a fixed column, left-justified, clipping
// with an ellipsis when too long.
func clipPad(value string, width int) string {
	clipped := truncate.StringWithTail(value, uint(width), "...")
	return padding.String(clipped, uint(width))
}
