//go:build windows

package setup

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hevolve/companion/internal/appinfo"
	"github.com/hevolve/companion/internal/platform"
)

// StepReconcileAutostart aligns the login autostart registration with
// the user's choice. The write is verified by reading the value back;
// neither a mismatch nor a registry failure fails setup, the outcome
// is recorded in the step message instead.
func StepReconcileAutostart(optIn bool, exePath string) Step {
	return reconcileAutostartStep(optIn, platform.AutostartCommand(exePath),
		platform.NewAutostart().Reconcile)
}

func reconcileAutostartStep(optIn bool, command string, reconcile func(bool, string) (bool, error)) Step {
	return Step{
		Name: "Configure start at login",
		Action: func() StepResult {
			verified, err := reconcile(optIn, command)
			if err != nil {
				// Autostart is an optional effect; the install
				// completes without it.
				return Skipped(fmt.Sprintf("not configured: %v", err))
			}
			if !optIn {
				return Success("disabled")
			}
			if !verified {
				return Success("enabled (read-back mismatch, see log)")
			}
			return Success("enabled")
		},
	}
}

// StepRemoveAutostart clears the login autostart registration. Runs
// unconditionally at uninstall regardless of the install-time choice.
func StepRemoveAutostart() Step {
	return Step{
		Name: "Remove start at login",
		Action: func() StepResult {
			if err := platform.NewAutostart().Remove(); err != nil {
				return Failed(err)
			}
			return Success("")
		},
	}
}

// StepStopRunningApp terminates a running companion before its files
// are replaced or removed.
func StepStopRunningApp() Step {
	return Step{
		Name: "Stop running application",
		Action: func() StepResult {
			if !platform.IsProcessRunning(appinfo.ExeName) {
				return Skipped("not running")
			}
			if err := platform.KillProcessByName(appinfo.ExeName); err != nil {
				return Failed(fmt.Errorf("stop %s: %w", appinfo.ExeName, err))
			}
			// Give the OS a moment to release file handles.
			time.Sleep(500 * time.Millisecond)
			return Success("")
		},
	}
}

// StepCreateShortcuts writes the selected shortcuts for the installed
// executable.
func StepCreateShortcuts(exePath string, desktop, startMenu bool) Step {
	return Step{
		Name: "Create shortcuts",
		Action: func() StepResult {
			if !desktop && !startMenu {
				return Skipped("none selected")
			}
			s := platform.Shortcut{
				Target:      exePath,
				Description: appinfo.Name,
			}
			var made []string
			if desktop {
				if err := platform.CreateUserDesktopShortcut(appinfo.Name, s); err != nil {
					return Failed(err)
				}
				made = append(made, "desktop")
			}
			if startMenu {
				if err := platform.CreateUserStartMenuShortcut(appinfo.StartMenuFolder, appinfo.Name, s); err != nil {
					return Failed(err)
				}
				made = append(made, "start menu")
			}
			return Success(strings.Join(made, ", "))
		},
	}
}

// StepRemoveShortcuts deletes the shortcuts. Missing shortcuts skip.
func StepRemoveShortcuts() Step {
	return Step{
		Name: "Remove shortcuts",
		Action: func() StepResult {
			if err := platform.DeleteUserDesktopShortcut(appinfo.Name); err != nil {
				return Failed(err)
			}
			if err := platform.DeleteUserStartMenuShortcut(appinfo.StartMenuFolder, appinfo.Name); err != nil {
				return Failed(err)
			}
			return Success("")
		},
	}
}

// StepRegisterApp writes the Add/Remove Programs entry for the
// per-user installation.
func StepRegisterApp(installDir string) Step {
	return Step{
		Name: "Register application",
		Action: func() StepResult {
			entry := platform.AppEntry{
				DisplayName:     appinfo.Name,
				DisplayVersion:  appinfo.Version,
				Publisher:       appinfo.Publisher,
				InstallLocation: installDir,
				UninstallString: filepath.Join(installDir, appinfo.UninstallExeName),
				InstallDate:     time.Now().Format("20060102"),
				EstimatedSize:   estimateDirSizeKB(installDir),
			}
			if err := platform.RegisterUserApp(appinfo.RegistryKey, entry); err != nil {
				return Failed(err)
			}
			return Success("")
		},
	}
}

// StepUnregisterApp removes the Add/Remove Programs entry.
func StepUnregisterApp() Step {
	return SimpleStep("Unregister application", func() error {
		return platform.UnregisterUserApp(appinfo.RegistryKey)
	})
}

func estimateDirSizeKB(dir string) uint32 {
	var total int64
	_ = filepath.WalkDir(dir, func(_ string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	return uint32(total / 1024)
}
