package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// execTimeout bounds every command the agent runs through /execute.
const execTimeout = 120 * time.Second

// ExecResult is the captured outcome of one command.
type ExecResult struct {
	Stdout     string
	Stderr     string
	ReturnCode int
}

// CommandRunner executes agent commands. The production runner shells
// out; tests substitute a fake.
type CommandRunner interface {
	Run(ctx context.Context, command []string, shell, hide bool) (ExecResult, error)
}

// OSRunner runs commands as child processes, hidden unless the request
// asks otherwise.
type OSRunner struct{}

func (OSRunner) Run(ctx context.Context, command []string, shell, hide bool) (ExecResult, error) {
	ctx, cancel := context.WithTimeout(ctx, execTimeout)
	defer cancel()

	if len(command) == 0 {
		return ExecResult{}, errors.New("empty command")
	}

	var cmd *exec.Cmd
	if shell {
		cmd = shellCommand(ctx, command)
	} else {
		cmd = exec.CommandContext(ctx, command[0], command[1:]...)
	}
	if hide {
		hideWindow(cmd)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := ExecResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		// A command killed by the deadline is an error, not an exit
		// code of the command itself.
		if ctx.Err() == context.DeadlineExceeded {
			return result, fmt.Errorf("command timed out: %w", ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Non-zero exit is a result, not a transport error.
			result.ReturnCode = exitErr.ExitCode()
			return result, nil
		}
		return result, err
	}
	return result, nil
}
