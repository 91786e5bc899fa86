// companion is the Hevolve Agent Companion application. It runs the
// local control server the hosted agent drives, and opens the agent UI
// in the user's browser unless started in background mode.
package main

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pkg/browser"
	"github.com/spf13/pflag"

	"github.com/hevolve/companion/internal/appinfo"
	"github.com/hevolve/companion/internal/config"
	"github.com/hevolve/companion/internal/logging"
	"github.com/hevolve/companion/internal/notify"
	"github.com/hevolve/companion/internal/platform"
	"github.com/hevolve/companion/internal/server"
	"github.com/hevolve/companion/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	dataDir := platform.DataDir()

	// The config path flag has to be read before the file is loaded,
	// so it gets its own pass over the arguments.
	cfgPath := filepath.Join(dataDir, "config.yaml")
	pre := pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	pre.ParseErrorsWhitelist.UnknownFlags = true
	pre.StringVar(&cfgPath, "config", cfgPath, "path to the configuration file")
	pre.Usage = func() {}
	_ = pre.Parse(os.Args[1:])

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	fs := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	fs.String("config", cfgPath, "path to the configuration file")
	cfg.BindFlags(fs)
	_ = fs.Parse(os.Args[1:])

	release, ok := platform.AcquireSingleInstance(appinfo.RegistryKey)
	if !ok {
		// Hand over to the running instance: surface its window.
		openRunning(cfg.Port)
		return nil
	}
	defer release()

	log, err := logging.New(filepath.Join(dataDir, "logs"), "companion")
	if err != nil {
		log = nil
	}
	defer log.Close()
	if !cfg.Background {
		log.EchoToConsole()
	}
	log.Info("%s %s starting (background=%v, port=%d)",
		appinfo.Name, appinfo.Version, cfg.Background, cfg.Port)

	st := store.New(dataDir)
	deviceID, err := st.DeviceID()
	if err != nil {
		log.Warn("Device ID: %v", err)
	}
	log.Info("Device ID: %s", deviceID)

	notifier := notify.NewManager(log)

	srv := server.New(server.Options{
		Config:   cfg,
		Log:      log,
		Store:    st,
		DeviceID: deviceID,
		Notifier: notifier,
		Capture: func() (image.Image, error) {
			return platform.CaptureScreen()
		},
		OpenUI:  browser.OpenURL,
		LogPath: log.Path(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Background {
		// Launched at login via the Run key; let the session settle
		// before the server binds and the notification fires.
		time.Sleep(2 * time.Second)
		notifier.NotifyServerStarted(cfg.Port)
	} else {
		userData, err := st.UserData()
		if err != nil {
			log.Warn("Reading user data: %v", err)
			userData = map[string]string{}
		}
		url := store.AgentURL(cfg.AgentURL, userData)
		log.Info("Opening agent UI: %s", url)
		if err := browser.OpenURL(url); err != nil {
			log.Error("Opening agent UI: %v", err)
		}
	}

	return srv.Run(ctx)
}

// openRunning asks the already-running instance to open its agent UI.
func openRunning(port int) {
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%d/show_window", port))
	if err != nil {
		return
	}
	resp.Body.Close()
}
