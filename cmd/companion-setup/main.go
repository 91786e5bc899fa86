// companion-setup is the install wizard for the Hevolve Agent
// Companion. It probes prerequisites, walks the user through install
// options, lays down the files, and reconciles the login autostart
// registration with the user's choice.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/crafted-tech/webflow"
	"github.com/pkg/browser"

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
		setup.NativeError(appinfo.Name+" Setup", err.Error())
		os.Exit(1)
	}
}

func run() error {
	// The wizard itself renders in WebView2; without the runtime the
	// only UI available is native dialogs.
	wv2 := setup.CheckWebView2()
	if !wv2.Installed {
		if setup.NativeConfirm(appinfo.Name+" Setup",
			"Microsoft Edge WebView2 Runtime is required to run setup.\n\n"+
				"Open the download page now?") {
			_ = browser.OpenURL(setup.WebView2InstallURL)
		}
		return errors.New("WebView2 runtime not installed")
	}

	log, logErr := logging.NewSession(platform.LogDir(), "setup")
	if logErr != nil {
		// A nil logger is safe; setup proceeds without a log file.
		log = nil
	}
	defer log.Close()
	log.Info("%s Setup %s starting", appinfo.Name, appinfo.Version)

	// Advisory only. A missing runtime is reported on the summary page
	// but never blocks installation.
	netfx := setup.CheckNetFx()
	if !netfx.MeetsMinimum() {
		log.Warn(".NET Framework check: installed=%v release=%d (%s)",
			netfx.Installed, netfx.Release, netfx.VersionName())
		setup.NativeWarning(appinfo.Name+" Setup",
			".NET Framework 4.5 or later was not detected on this computer.\n\n"+
				"Installation will continue, but some agent features may not "+
				"work until it is installed.")
	} else {
		log.Info(".NET Framework %s detected (release %d)", netfx.VersionName(), netfx.Release)
	}

	ui, err := webflow.New(
		webflow.WithTitle(appinfo.Name+" Setup"),
		webflow.WithSize("44em", "34em"),
		webflow.WithResizable(false),
	)
	if err != nil {
		return fmt.Errorf("create wizard: %w", err)
	}
	defer ui.Close()

	defaultDir, err := platform.DefaultInstallDir()
	if err != nil {
		return fmt.Errorf("resolve install directory: %w", err)
	}

	// Wizard state survives Back navigation.
	installDir := defaultDir
	autostart := true
	desktopShortcut := true
	startMenuShortcut := true
	if existing, _ := platform.FindInstalledUserApp(appinfo.RegistryKey); existing != nil && existing.InstallLocation != "" {
		installDir = existing.InstallLocation
	}

	type wizardStep int
	const (
		stepWelcome wizardStep = iota
		stepOptions
		stepReady
		stepInstall
	)

	step := stepWelcome
	for step < stepInstall {
		switch step {
		case stepWelcome:
			welcome := fmt.Sprintf(
				"This wizard installs %s %s for the current user.\n\n"+
					"The companion connects this computer to your Hevolve agent "+
					"and runs a local control service in the background.",
				appinfo.Name, appinfo.Version)
			resp, _ := ui.ShowMessage("Welcome", welcome,
				webflow.WithButtonBar(webflow.WizardFirst()))
			if resp.Button != webflow.ButtonNext {
				return setup.ErrCancelled
			}
			step = stepOptions

		case stepOptions:
			values, resp, _ := ui.ShowForm("Install Options",
				[]webflow.FormField{
					{
						ID:      "install_dir",
						Type:    webflow.FieldFolder,
						Label:   "Install location",
						Default: installDir,
					},
					{
						ID:      "autostart",
						Type:    webflow.FieldCheckbox,
						Label:   "Start with Windows (recommended)",
						Default: autostart,
					},
					{
						ID:      "desktop_shortcut",
						Type:    webflow.FieldCheckbox,
						Label:   "Create a desktop shortcut",
						Default: desktopShortcut,
					},
					{
						ID:      "startmenu_shortcut",
						Type:    webflow.FieldCheckbox,
						Label:   "Create a Start Menu shortcut",
						Default: startMenuShortcut,
					},
				},
			)
			if resp.Button == webflow.ButtonBack {
				step = stepWelcome
				continue
			}
			if resp.Button != webflow.ButtonNext {
				return setup.ErrCancelled
			}
			if dir, ok := values["install_dir"].(string); ok && dir != "" {
				installDir = dir
			}
			if v, ok := values["autostart"].(bool); ok {
				autostart = v
			}
			if v, ok := values["desktop_shortcut"].(bool); ok {
				desktopShortcut = v
			}
			if v, ok := values["startmenu_shortcut"].(bool); ok {
				startMenuShortcut = v
			}
			step = stepReady

		case stepReady:
			action := setup.DetermineAction(setup.ReadVersionFile(installDir), appinfo.Version)
			summary := fmt.Sprintf(
				"Action:  %s\nLocation:  %s\nStart with Windows:  %s\n"+
					"Desktop shortcut:  %s\nStart Menu shortcut:  %s",
				action, installDir, yesNo(autostart),
				yesNo(desktopShortcut), yesNo(startMenuShortcut))
			if !netfx.MeetsMinimum() {
				summary += fmt.Sprintf(
					"\n\nNote: .NET Framework 4.5 or later was not detected (%s). "+
						"Some agent features may not work until it is installed.",
					netfx.VersionName())
			}
			log.Info("Install action: %s, dir: %s, autostart: %v, desktop: %v, start menu: %v",
				action, installDir, autostart, desktopShortcut, startMenuShortcut)

			resp, _ := ui.ShowMessage("Ready to Install", summary,
				webflow.WithButtonBar(webflow.WizardInstall()))
			if resp.Button == webflow.ButtonBack {
				step = stepOptions
				continue
			}
			if resp.Button != webflow.ButtonNext {
				return setup.ErrCancelled
			}
			step = stepInstall
		}
	}

	if err := install(ui, log, installDir, autostart, desktopShortcut, startMenuShortcut); err != nil {
		if errors.Is(err, setup.ErrCancelled) {
			ui.ShowMessage("Installation Cancelled",
				"Setup was cancelled. No shortcuts or autostart entries were left behind.",
				webflow.WithButtonBar(webflow.SimpleClose()))
			return err
		}
		ui.ShowError("Installation Failed",
			fmt.Sprintf("%v\n\nA log was written to:\n%s", err, log.Path()))
		return err
	}

	exePath := filepath.Join(installDir, appinfo.ExeName)
	resp, _ := ui.ShowMessage("Installation Complete",
		fmt.Sprintf("%s %s has been installed.", appinfo.Name, appinfo.Version),
		webflow.WithButtonBar(webflow.ButtonBar{
			Left: webflow.NewButton("Launch now", "launch"),
			Next: webflow.NewButton("Finish", webflow.ButtonClose).WithPrimary(),
		}),
	)
	if resp.Button == "launch" {
		log.Info("Launching %s", exePath)
		cmd := exec.Command(exePath)
		cmd.Dir = installDir
		if err := cmd.Start(); err != nil {
			log.Error("Launch failed: %v", err)
		}
	}
	log.Info("Setup finished")
	return nil
}

// install runs the file and registry steps behind the progress page.
// Payload binaries ship next to the setup executable.
func install(ui *webflow.Flow, log *logging.Logger, installDir string, autostart, desktopShortcut, startMenuShortcut bool) error {
	setupExe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate setup executable: %w", err)
	}
	payloadDir := filepath.Dir(setupExe)
	exePath := filepath.Join(installDir, appinfo.ExeName)

	steps := []setup.Step{
		setup.StepStopRunningApp(),
		setup.StepEnsureDir(installDir),
		setup.StepCopyExecutable(filepath.Join(payloadDir, appinfo.ExeName), exePath),
		setup.StepCopyExecutable(
			filepath.Join(payloadDir, appinfo.UninstallExeName),
			filepath.Join(installDir, appinfo.UninstallExeName)),
		setup.StepWriteVersionFile(installDir, appinfo.Version),
		setup.StepRegisterApp(installDir),
		setup.StepCreateShortcuts(exePath, desktopShortcut, startMenuShortcut),
		setup.StepReconcileAutostart(autostart, exePath),
	}

	return setup.RunSteps(ui, "Installing "+appinfo.Name, steps, log)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
