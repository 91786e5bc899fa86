//go:build windows

package server

import (
	"context"
	"os/exec"
	"strings"
	"syscall"

	"golang.org/x/sys/windows"
)

func shellCommand(ctx context.Context, command []string) *exec.Cmd {
	return exec.CommandContext(ctx, "cmd.exe", "/C", strings.Join(command, " "))
}

// hideWindow keeps agent-run console commands from flashing windows on
// the user's desktop.
func hideWindow(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW,
	}
}
