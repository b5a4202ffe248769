package helpers

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

const modulePrefix = "github.com/evanw/classvars/"

// Formats the stack of the calling goroutine for a crash report. When called
// from a deferred recover, the frames of the code that panicked are still on
// the stack. Only frames from this module are included:
//
//	js_lower.(*lowerer).lowerClass (lower_static.go:42)
//	js_lower.Lower (js_lower.go:71)
func ModuleStack() string {
	pcs := make([]uintptr, 64)
	frames := runtime.CallersFrames(pcs[:runtime.Callers(2, pcs)])
	sb := strings.Builder{}

	for {
		frame, more := frames.Next()
		if name, ok := strings.CutPrefix(frame.Function, modulePrefix); ok {
			if slash := strings.LastIndexByte(name, '/'); slash != -1 {
				name = name[slash+1:]
			}
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			fmt.Fprintf(&sb, "%s (%s:%d)", name, filepath.Base(frame.File), frame.Line)
		}
		if !more {
			break
		}
	}

	return sb.String()
}
