//go:build !windows

package util

import (
	"os"

	"golang.org/x/term"
)

func IsRunFromGUI() bool {
	// On non-Windows, treat a non-terminal stdout as a plain redirect, not
	// a GUI launch. Linux users have nohup, systemd and a bazillion other
	// ways to daemonize.
	return false
}

// IsInteractive reports whether stdout is attached to a terminal; client
// commands use it to decide between pretty and plain output.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func HideConsoleWindow() {
	// No-op on non-Windows platforms
}
