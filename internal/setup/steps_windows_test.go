//go:build windows

package setup

import (
	"errors"
	"strings"
	"testing"
)

func TestReconcileAutostartStepRegistryFailureDoesNotFailSetup(t *testing.T) {
	regErr := errors.New("access is denied")
	step := reconcileAutostartStep(true, `"C:\app\companion.exe" --background`,
		func(optIn bool, command string) (bool, error) {
			return false, regErr
		})

	res := step.Action()
	if res.Err != nil {
		t.Fatalf("registry failure must not fail the step, got err: %v", res.Err)
	}
	if !res.Skip {
		t.Error("expected the step to report skipped")
	}
	if !strings.Contains(res.Info, regErr.Error()) {
		t.Errorf("skip reason %q does not carry the registry error", res.Info)
	}
}

func TestReconcileAutostartStepOutcomes(t *testing.T) {
	tests := []struct {
		name     string
		optIn    bool
		verified bool
		wantInfo string
	}{
		{"opt-out", false, true, "disabled"},
		{"opt-in verified", true, true, "enabled"},
		{"opt-in mismatch", true, false, "enabled (read-back mismatch, see log)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step := reconcileAutostartStep(tt.optIn, "cmd",
				func(optIn bool, command string) (bool, error) {
					return tt.verified, nil
				})
			res := step.Action()
			if res.Err != nil || res.Skip {
				t.Fatalf("unexpected result: %+v", res)
			}
			if res.Info != tt.wantInfo {
				t.Errorf("info = %q, want %q", res.Info, tt.wantInfo)
			}
		})
	}
}
