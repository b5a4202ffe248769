package test

import (
	"testing"

	"github.com/evanw/classvars/internal/logger"
)

func TestDiff(t *testing.T) {
	AssertEqual(t, Diff("a\nb\nc", "a\nx\nc", false), " a\n-b\n+x\n c")
	AssertEqual(t, Diff("same", "same", false), " same")
	AssertEqual(t, Diff("", "new", false), "-\n+new")
	AssertEqual(t, Diff("a\nb", "b\nc", false), "-a\n b\n+c")
}

func TestDiffColor(t *testing.T) {
	colors := logger.TerminalColors
	AssertEqual(t, Diff("a\nb", "a\nc", true),
		colors.Dim+" a"+colors.Reset+"\n"+
			colors.Red+"-b"+colors.Reset+"\n"+
			colors.Green+"+c"+colors.Reset)
}
