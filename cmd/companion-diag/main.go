// companion-diag prints a diagnostic report for support: installation
// state, autostart registrations, prerequisite probes, and host
// information, as YAML on stdout or to a file.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/hevolve/companion/internal/appinfo"
	"github.com/hevolve/companion/internal/config"
	"github.com/hevolve/companion/internal/platform"
	"github.com/hevolve/companion/internal/setup"
)

type report struct {
	GeneratedAt string `yaml:"generated_at"`
	Product     struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"product"`
	Host struct {
		Hostname        string `yaml:"hostname"`
		Platform        string `yaml:"platform"`
		PlatformVersion string `yaml:"platform_version"`
		UptimeHours     uint64 `yaml:"uptime_hours"`
		Elevated        bool   `yaml:"elevated"`
	} `yaml:"host"`
	Install struct {
		Registered       bool   `yaml:"registered"`
		Location         string `yaml:"location"`
		RegisteredVer    string `yaml:"registered_version"`
		VersionFile      string `yaml:"version_file"`
		ExePresent       bool   `yaml:"exe_present"`
		UninstallPresent bool   `yaml:"uninstall_present"`
		Running          bool   `yaml:"running"`
		InstanceLock     bool   `yaml:"instance_lock_held"`
	} `yaml:"install"`
	Prerequisites struct {
		WebView2 struct {
			Installed    bool   `yaml:"installed"`
			Version      string `yaml:"version"`
			MeetsMinimum bool   `yaml:"meets_minimum"`
		} `yaml:"webview2"`
		NetFx struct {
			Installed    bool   `yaml:"installed"`
			Release      uint64 `yaml:"release"`
			Version      string `yaml:"version"`
			MeetsMinimum bool   `yaml:"meets_minimum"`
		} `yaml:"netfx"`
	} `yaml:"prerequisites"`
	Autostart struct {
		Registered bool                    `yaml:"registered"`
		Command    string                  `yaml:"command"`
		AllEntries []platform.StartupEntry `yaml:"all_startup_entries"`
	} `yaml:"autostart"`
	Server struct {
		Port      int  `yaml:"port"`
		Reachable bool `yaml:"reachable"`
	} `yaml:"server"`
	Data struct {
		Dir       string `yaml:"dir"`
		LogDir    string `yaml:"log_dir"`
		LogDirMB  int64  `yaml:"log_dir_mb"`
		DeviceIDs bool   `yaml:"device_identity_present"`
	} `yaml:"data"`
}

func main() {
	var outPath string
	fs := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	fs.StringVarP(&outPath, "output", "o", "", "write the report to a file instead of stdout")
	_ = fs.Parse(os.Args[1:])

	r := collect()

	data, err := yaml.Marshal(r)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if outPath == "" {
		os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("Report written to %s\n", outPath)
}

func collect() report {
	var r report
	r.GeneratedAt = time.Now().Format(time.RFC3339)
	r.Product.Name = appinfo.Name
	r.Product.Version = appinfo.Version

	if info, err := host.Info(); err == nil {
		r.Host.Hostname = info.Hostname
		r.Host.Platform = info.Platform
		r.Host.PlatformVersion = info.PlatformVersion
		r.Host.UptimeHours = info.Uptime / 3600
	}
	r.Host.Elevated = platform.IsElevated()

	installDir := ""
	if entry, _ := platform.FindInstalledUserApp(appinfo.RegistryKey); entry != nil {
		r.Install.Registered = true
		r.Install.Location = entry.InstallLocation
		r.Install.RegisteredVer = entry.DisplayVersion
		installDir = entry.InstallLocation
	}
	if installDir != "" {
		r.Install.VersionFile = setup.ReadVersionFile(installDir)
		r.Install.ExePresent = setup.FileExists(filepath.Join(installDir, appinfo.ExeName))
		r.Install.UninstallPresent = setup.FileExists(filepath.Join(installDir, appinfo.UninstallExeName))
	}
	r.Install.Running = platform.IsProcessRunning(appinfo.ExeName)
	r.Install.InstanceLock = platform.IsSingleInstanceRunning(appinfo.RegistryKey)

	wv2 := setup.CheckWebView2()
	r.Prerequisites.WebView2.Installed = wv2.Installed
	r.Prerequisites.WebView2.Version = wv2.Version
	r.Prerequisites.WebView2.MeetsMinimum = wv2.MeetsMinimum

	netfx := setup.CheckNetFx()
	r.Prerequisites.NetFx.Installed = netfx.Installed
	r.Prerequisites.NetFx.Release = netfx.Release
	r.Prerequisites.NetFx.Version = netfx.VersionName()
	r.Prerequisites.NetFx.MeetsMinimum = netfx.MeetsMinimum()

	if cmd, present, err := platform.NewAutostart().Command(); err == nil {
		r.Autostart.Registered = present
		r.Autostart.Command = cmd
	}
	r.Autostart.AllEntries = platform.ScanStartupEntries()

	port := appinfo.DefaultPort
	if cfg, err := config.Load(filepath.Join(platform.DataDir(), "config.yaml")); err == nil {
		port = cfg.Port
	}
	r.Server.Port = port
	r.Server.Reachable = probeServer(port)

	r.Data.Dir = platform.DataDir()
	r.Data.LogDir = platform.LogDir()
	r.Data.LogDirMB = dirSizeMB(platform.LogDir())
	r.Data.DeviceIDs = setup.FileExists(filepath.Join(platform.DataDir(), "device_id.json"))

	return r
}

// probeServer checks whether a running companion answers on port.
func probeServer(port int) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%d/probe", port))
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func dirSizeMB(dir string) int64 {
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
	return total / (1024 * 1024)
}
