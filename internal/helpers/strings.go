package helpers

import (
	"strconv"
	"strings"
)

// Formats names for an error message: "a", "b", "c" => "\"a\", \"b\", or \"c\""
func QuotedList(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = strconv.Quote(name)
	}
	if len(quoted) > 1 {
		quoted[len(quoted)-1] = "or " + quoted[len(quoted)-1]
	}
	if len(quoted) == 2 {
		return quoted[0] + " " + quoted[1]
	}
	return strings.Join(quoted, ", ")
}
