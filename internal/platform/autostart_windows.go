//go:build windows

package platform

import (
	"fmt"

	"golang.org/x/sys/windows/registry"

	"github.com/hevolve/companion/internal/appinfo"
)

// runKeyPath is the per-user login autostart key.
const runKeyPath = `SOFTWARE\Microsoft\Windows\CurrentVersion\Run`

// Autostart manages the single login autostart registration for the
// companion app. The root and key path are fixed outside tests; tests
// point it at a scratch key so reconcile semantics can be verified
// against a real registry.
type Autostart struct {
	root      registry.Key
	keyPath   string
	valueName string
}

// NewAutostart returns the Autostart for the current user's Run key.
func NewAutostart() *Autostart {
	return &Autostart{
		root:      registry.CURRENT_USER,
		keyPath:   runKeyPath,
		valueName: appinfo.RunValueName,
	}
}

// newAutostartAt returns an Autostart bound to an arbitrary key.
// Used by tests.
func newAutostartAt(root registry.Key, keyPath, valueName string) *Autostart {
	return &Autostart{root: root, keyPath: keyPath, valueName: valueName}
}

// AutostartCommand builds the command line registered for login start:
// the quoted executable path plus the background flag.
func AutostartCommand(exePath string) string {
	return fmt.Sprintf(`"%s" %s`, exePath, appinfo.BackgroundFlag)
}

// Command returns the currently registered autostart command line and
// whether a registration exists at all.
func (a *Autostart) Command() (string, bool, error) {
	k, err := registry.OpenKey(a.root, a.keyPath, registry.QUERY_VALUE)
	if err != nil {
		if err == registry.ErrNotExist {
			return "", false, nil
		}
		return "", false, fmt.Errorf("open run key: %w", err)
	}
	defer k.Close()

	v, _, err := k.GetStringValue(a.valueName)
	if err != nil {
		if err == registry.ErrNotExist {
			return "", false, nil
		}
		// A value of the wrong type still counts as present; it will be
		// cleared by the next Reconcile.
		return "", true, nil
	}
	return v, true, nil
}

// Reconcile brings the autostart registration in line with the user's
// choice. Any existing value is deleted first, so a reinstall or repair
// can never leave duplicate or stale entries behind. When optIn is
// true the command line is written and read back; verified reports
// whether the read-back matched. A failed verification is a diagnostic
// condition, not an error; callers log it and continue.
//
// After Reconcile returns nil, exactly zero (optIn=false) or one
// (optIn=true) registration exists.
func (a *Autostart) Reconcile(optIn bool, command string) (verified bool, err error) {
	k, _, err := registry.CreateKey(a.root, a.keyPath, registry.QUERY_VALUE|registry.SET_VALUE)
	if err != nil {
		return false, fmt.Errorf("open run key: %w", err)
	}
	defer k.Close()

	// Idempotent cleanup guards against duplicate or malformed prior
	// entries regardless of the opt-in decision.
	if err := k.DeleteValue(a.valueName); err != nil && err != registry.ErrNotExist {
		return false, fmt.Errorf("delete existing autostart value: %w", err)
	}

	if !optIn {
		return true, nil
	}

	if err := k.SetStringValue(a.valueName, command); err != nil {
		return false, fmt.Errorf("write autostart value: %w", err)
	}

	readBack, _, err := k.GetStringValue(a.valueName)
	if err != nil || readBack != command {
		return false, nil
	}
	return true, nil
}

// Remove deletes the autostart registration unconditionally. Absence is
// not an error.
func (a *Autostart) Remove() error {
	k, err := registry.OpenKey(a.root, a.keyPath, registry.SET_VALUE)
	if err != nil {
		if err == registry.ErrNotExist {
			return nil
		}
		return fmt.Errorf("open run key: %w", err)
	}
	defer k.Close()

	if err := k.DeleteValue(a.valueName); err != nil && err != registry.ErrNotExist {
		return fmt.Errorf("delete autostart value: %w", err)
	}
	return nil
}
