package app

import (
	"strings"
	"unicode/utf8"
)

const maxTracedQueryLength = 512

// formatDBQueryForTrace puts a query on one line and caps it for span attributes.
func formatDBQueryForTrace(query string) string {
	oneLine := strings.Join(strings.Fields(query), " ")
	if len(oneLine) <= maxTracedQueryLength {
		return oneLine
	}

	cut := maxTracedQueryLength
	for cut > 0 && !utf8.RuneStart(oneLine[cut]) {
		cut--
	}
	return oneLine[:cut] + "..."
}
