// companion-uninstall removes the Hevolve Agent Companion for the
// current user. Nothing is touched until the user confirms; after
// confirmation the autostart registration is cleared unconditionally,
// the log directory is removed best-effort, and the uninstaller
// schedules its own deletion.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/crafted-tech/webflow"
	"github.com/spf13/pflag"

	"github.com/hevolve/companion/internal/appinfo"
	"github.com/hevolve/companion/internal/logging"
	"github.com/hevolve/companion/internal/platform"
	"github.com/hevolve/companion/internal/setup"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, setup.ErrCancelled) {
			os.Exit(1)
		}
		setup.NativeError(appinfo.Name+" Uninstall", err.Error())
		os.Exit(1)
	}
}

func run() error {
	var silent bool
	fs := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	fs.BoolVar(&silent, "silent", false, "uninstall with native dialogs instead of the wizard")
	_ = fs.Parse(os.Args[1:])

	wv2 := setup.CheckWebView2()
	if silent || !wv2.Installed {
		// Native path: same confirm-before-touch gate, no wizard.
		if !setup.NativeConfirm(appinfo.Name,
			fmt.Sprintf("Remove %s and all of its components?", appinfo.Name)) {
			return setup.ErrCancelled
		}
		log := sessionLog()
		defer log.Close()
		return uninstall(nil, log)
	}

	ui, err := webflow.New(
		webflow.WithTitle(appinfo.Name+" Uninstall"),
		webflow.WithSize("40em", "26em"),
		webflow.WithResizable(false),
	)
	if err != nil {
		return fmt.Errorf("create wizard: %w", err)
	}
	defer ui.Close()

	// The confirmation gate. Declining leaves every file, shortcut,
	// and registry entry exactly as it was.
	if !ui.ShowConfirm(appinfo.Name,
		fmt.Sprintf("Are you sure you want to remove %s and all of its components?", appinfo.Name)) {
		return setup.ErrCancelled
	}

	log := sessionLog()
	defer log.Close()
	log.Info("%s uninstall starting", appinfo.Name)

	if err := uninstall(ui, log); err != nil {
		ui.ShowError("Uninstall Failed",
			fmt.Sprintf("%v\n\nA log was written to:\n%s", err, log.Path()))
		return err
	}

	ui.ShowMessage("Uninstall Complete",
		fmt.Sprintf("%s has been removed from this computer.", appinfo.Name),
		webflow.WithButtonBar(webflow.WizardFinish()))
	log.Info("Uninstall finished")
	return nil
}

// uninstall runs the removal steps. ui may be nil (native fallback);
// steps then run without a progress page.
func uninstall(ui *webflow.Flow, log *logging.Logger) error {
	installDir := installLocation()

	steps := []setup.Step{
		setup.StepStopRunningApp(),
		// Unconditional: the registration is cleared even when the user
		// opted out at install time or the value was edited since.
		setup.StepRemoveAutostart(),
		setup.StepRemoveShortcuts(),
		setup.StepUnregisterApp(),
		setup.StepRemoveDirBestEffort("Remove log files", platform.LogDir()),
		// The uninstaller runs from the install dir, so it spares its
		// own file and schedules it for deletion on exit.
		setup.StepRemoveDirExcept("Remove application files", installDir, appinfo.UninstallExeName),
		setup.SimpleStep("Schedule cleanup", platform.ScheduleSelfDelete),
	}

	if ui == nil {
		for _, step := range steps {
			log.Step("Starting: %s", step.Name)
			if res := step.Action(); res.Err != nil {
				return fmt.Errorf("%s: %w", step.Name, res.Err)
			}
		}
		return nil
	}
	return setup.RunSteps(ui, "Removing "+appinfo.Name, steps, log)
}

// sessionLog opens a log under %TEMP%: the product log directory is
// itself removed during uninstall. A nil logger is fine.
func sessionLog() *logging.Logger {
	log, err := logging.NewSession(filepath.Join(os.TempDir(), "HevolveAgentCompanion"), "uninstall")
	if err != nil {
		return nil
	}
	return log
}

// installLocation prefers the registered location over the directory
// the uninstaller runs from.
func installLocation() string {
	if entry, _ := platform.FindInstalledUserApp(appinfo.RegistryKey); entry != nil && entry.InstallLocation != "" {
		return entry.InstallLocation
	}
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(exe)
}
