package test

import (
	"strings"

	"github.com/evanw/classvars/internal/logger"
)

// Returns a line diff between expected and observed output. Lines that are
// only expected start with "-" and lines that were only observed start with
// "+".
func Diff(expected string, observed string, color bool) string {
	a := strings.Split(expected, "\n")
	b := strings.Split(observed, "\n")

	// "common[i][j]" is the length of the longest common subsequence of
	// "a[i:]" and "b[j:]"
	common := make([][]int, len(a)+1)
	for i := range common {
		common[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				common[i][j] = common[i+1][j+1] + 1
			} else {
				common[i][j] = max(common[i+1][j], common[i][j+1])
			}
		}
	}

	lines := make([]string, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case i < len(a) && j < len(b) && a[i] == b[j]:
			lines = append(lines, diffLine(' ', a[i], color))
			i++
			j++
		case j == len(b) || (i < len(a) && common[i+1][j] >= common[i][j+1]):
			lines = append(lines, diffLine('-', a[i], color))
			i++
		default:
			lines = append(lines, diffLine('+', b[j], color))
			j++
		}
	}
	return strings.Join(lines, "\n")
}

func diffLine(prefix byte, line string, color bool) string {
	if !color {
		return string(prefix) + line
	}
	escape := logger.TerminalColors.Dim
	switch prefix {
	case '-':
		escape = logger.TerminalColors.Red
	case '+':
		escape = logger.TerminalColors.Green
	}
	return escape + string(prefix) + line + logger.TerminalColors.Reset
}
