package helpers_test

import (
	"strings"
	"testing"

	"github.com/evanw/classvars/internal/helpers"
	"github.com/evanw/classvars/internal/test"
)

func stackFromRecover() (stack string) {
	defer func() {
		recover()
		stack = helpers.ModuleStack()
	}()
	panic("crash")
}

func TestModuleStack(t *testing.T) {
	lines := strings.Split(stackFromRecover(), "\n")

	// The function that panicked is still on the stack
	found := false
	for _, line := range lines {
		if strings.HasPrefix(line, "helpers_test.stackFromRecover (stack_test.go:") {
			found = true
		}
		test.AssertEqual(t, strings.Contains(line, "runtime."), false)
		test.AssertEqual(t, strings.Contains(line, "testing."), false)
	}
	test.AssertEqual(t, found, true)
	test.AssertEqual(t, strings.HasPrefix(lines[len(lines)-1], "helpers_test.TestModuleStack (stack_test.go:"), true)
}
