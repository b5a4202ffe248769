//go:build darwin || linux

package logger

import (
	"os"

	"golang.org/x/sys/unix"
)

const SupportsColorEscapes = true

// Stderr is checked before printing diagnostics and stdin is checked before
// showing the help text, so this works on any file
func GetTerminalInfo(file *os.File) TerminalInfo {
	fd := int(file.Fd())
	if _, err := unix.IoctlGetTermios(fd, ioctlReadTermios); err != nil {
		return TerminalInfo{}
	}

	info := TerminalInfo{
		IsTTY:           true,
		UseColorEscapes: !hasNoColorEnvironmentVariable(),
	}

	// Source excerpts are truncated to the width of the window
	if size, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ); err == nil {
		info.Width = int(size.Col)
	}
	return info
}
