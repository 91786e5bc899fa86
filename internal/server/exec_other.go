//go:build !windows

package server

import (
	"context"
	"os/exec"
	"strings"
)

func shellCommand(ctx context.Context, command []string) *exec.Cmd {
	return exec.CommandContext(ctx, "/bin/sh", "-c", strings.Join(command, " "))
}

func hideWindow(cmd *exec.Cmd) {}
