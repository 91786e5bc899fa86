//go:build windows

package platform

import (
	"fmt"
	"testing"

	"golang.org/x/sys/windows/registry"
)

const testValueName = "HevolveCompanionTest"

// scratchAutostart binds an Autostart to a throwaway key under HKCU so
// the tests exercise real registry semantics without touching the Run
// key.
func scratchAutostart(t *testing.T) *Autostart {
	t.Helper()
	keyPath := fmt.Sprintf(`SOFTWARE\HevolveCompanionTest\%s`, t.Name())
	k, _, err := registry.CreateKey(registry.CURRENT_USER, keyPath, registry.SET_VALUE)
	if err != nil {
		t.Fatalf("create scratch key: %v", err)
	}
	k.Close()
	t.Cleanup(func() {
		_ = registry.DeleteKey(registry.CURRENT_USER, keyPath)
		_ = registry.DeleteKey(registry.CURRENT_USER, `SOFTWARE\HevolveCompanionTest`)
	})
	return newAutostartAt(registry.CURRENT_USER, keyPath, testValueName)
}

func TestReconcileOptInWritesCommand(t *testing.T) {
	a := scratchAutostart(t)
	cmd := AutostartCommand(`C:\Users\test\AppData\Local\Programs\App\companion.exe`)

	verified, err := a.Reconcile(true, cmd)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if !verified {
		t.Error("read-back verification failed on a fresh key")
	}

	got, present, err := a.Command()
	if err != nil {
		t.Fatalf("Command: %v", err)
	}
	if !present {
		t.Fatal("registration missing after opt-in reconcile")
	}
	if got != cmd {
		t.Errorf("registered command = %q, want %q", got, cmd)
	}
}

func TestReconcileOptOutRemovesExisting(t *testing.T) {
	a := scratchAutostart(t)
	if _, err := a.Reconcile(true, `"C:\old\companion.exe" --background`); err != nil {
		t.Fatalf("seed registration: %v", err)
	}

	verified, err := a.Reconcile(false, "")
	if err != nil {
		t.Fatalf("Reconcile opt-out: %v", err)
	}
	if !verified {
		t.Error("opt-out reconcile reported unverified")
	}

	_, present, err := a.Command()
	if err != nil {
		t.Fatalf("Command: %v", err)
	}
	if present {
		t.Error("registration still present after opt-out reconcile")
	}
}

func TestReconcileOptOutOnEmptyKeyIsNoop(t *testing.T) {
	a := scratchAutostart(t)

	verified, err := a.Reconcile(false, "")
	if err != nil {
		t.Fatalf("Reconcile on empty key: %v", err)
	}
	if !verified {
		t.Error("no-op reconcile reported unverified")
	}
}

func TestReconcileReplacesStaleCommand(t *testing.T) {
	a := scratchAutostart(t)
	stale := `"C:\old\location\companion.exe" --background`
	fresh := AutostartCommand(`C:\new\location\companion.exe`)

	if _, err := a.Reconcile(true, stale); err != nil {
		t.Fatalf("seed stale registration: %v", err)
	}
	if _, err := a.Reconcile(true, fresh); err != nil {
		t.Fatalf("reconcile fresh: %v", err)
	}

	got, present, err := a.Command()
	if err != nil || !present {
		t.Fatalf("Command after reconcile: present=%v err=%v", present, err)
	}
	if got != fresh {
		t.Errorf("registered command = %q, want %q", got, fresh)
	}
}

func TestReconcileClearsWrongValueType(t *testing.T) {
	a := scratchAutostart(t)

	k, err := registry.OpenKey(registry.CURRENT_USER, a.keyPath, registry.SET_VALUE)
	if err != nil {
		t.Fatalf("open scratch key: %v", err)
	}
	if err := k.SetDWordValue(testValueName, 1); err != nil {
		k.Close()
		t.Fatalf("seed DWORD value: %v", err)
	}
	k.Close()

	_, present, err := a.Command()
	if err != nil {
		t.Fatalf("Command: %v", err)
	}
	if !present {
		t.Fatal("wrong-typed value should still count as present")
	}

	if _, err := a.Reconcile(false, ""); err != nil {
		t.Fatalf("Reconcile over DWORD value: %v", err)
	}
	_, present, err = a.Command()
	if err != nil {
		t.Fatalf("Command after reconcile: %v", err)
	}
	if present {
		t.Error("wrong-typed value survived reconcile")
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	a := scratchAutostart(t)
	if _, err := a.Reconcile(true, AutostartCommand(`C:\app\companion.exe`)); err != nil {
		t.Fatalf("seed registration: %v", err)
	}

	if err := a.Remove(); err != nil {
		t.Fatalf("first Remove: %v", err)
	}
	if err := a.Remove(); err != nil {
		t.Fatalf("second Remove: %v", err)
	}

	_, present, err := a.Command()
	if err != nil {
		t.Fatalf("Command: %v", err)
	}
	if present {
		t.Error("registration present after Remove")
	}
}

func TestRemoveOnMissingKey(t *testing.T) {
	a := newAutostartAt(registry.CURRENT_USER,
		`SOFTWARE\HevolveCompanionTest\DoesNotExist`, testValueName)
	if err := a.Remove(); err != nil {
		t.Errorf("Remove on missing key: %v", err)
	}

	_, present, err := a.Command()
	if err != nil {
		t.Errorf("Command on missing key: %v", err)
	}
	if present {
		t.Error("Command reported present for missing key")
	}
}

func TestAutostartCommandQuoting(t *testing.T) {
	got := AutostartCommand(`C:\Program Files\Hevolve\companion.exe`)
	want := `"C:\Program Files\Hevolve\companion.exe" --background`
	if got != want {
		t.Errorf("AutostartCommand = %q, want %q", got, want)
	}
}
