package server

import (
	"context"
	"runtime"
	"strings"
	"testing"
	"time"
)

// sleepCommand returns a command that blocks for a few seconds.
func sleepCommand() []string {
	if runtime.GOOS == "windows" {
		return []string{"ping", "-n", "5", "127.0.0.1"}
	}
	return []string{"sleep", "5"}
}

func TestOSRunnerKilledByDeadlineIsAnError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := OSRunner{}.Run(ctx, sleepCommand(), false, true)
	if err == nil {
		t.Fatal("a command killed by the deadline must surface as an error")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("error = %v, want a timeout error", err)
	}
}

func TestOSRunnerNonZeroExitIsAResult(t *testing.T) {
	cmd := []string{"false"}
	if runtime.GOOS == "windows" {
		cmd = []string{"cmd.exe", "/C", "exit", "3"}
	}
	result, err := OSRunner{}.Run(context.Background(), cmd, false, true)
	if err != nil {
		t.Fatalf("non-zero exit must not be an error, got: %v", err)
	}
	if result.ReturnCode == 0 {
		t.Error("expected a non-zero return code")
	}
}

func TestOSRunnerEmptyCommand(t *testing.T) {
	if _, err := (OSRunner{}.Run(context.Background(), nil, false, true)); err == nil {
		t.Fatal("empty command must error")
	}
}
