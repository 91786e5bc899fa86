//go:build windows

package platform

import (
	"fmt"

	"golang.org/x/sys/windows/registry"
)

const uninstallKeyBase = `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall\`

// AppEntry describes the Add/Remove Programs registration for a
// per-user installation. Registration lives under HKCU so neither
// install nor uninstall needs elevation.
type AppEntry struct {
	DisplayName     string
	DisplayVersion  string
	Publisher       string
	InstallLocation string
	UninstallString string

	DisplayIcon   string // defaults to the uninstaller when empty
	URLInfoAbout  string
	InstallDate   string // YYYYMMDD
	EstimatedSize uint32 // KB
}

// RegisterUserApp writes the per-user uninstall entry for registryKey.
// The entry always carries NoModify and NoRepair; the wizard has no
// modify or repair mode.
func RegisterUserApp(registryKey string, entry AppEntry) error {
	key, _, err := registry.CreateKey(
		registry.CURRENT_USER,
		uninstallKeyBase+registryKey,
		registry.SET_VALUE,
	)
	if err != nil {
		return fmt.Errorf("create uninstall key: %w", err)
	}
	defer key.Close()

	icon := entry.DisplayIcon
	if icon == "" {
		icon = entry.UninstallString
	}

	values := map[string]string{
		"DisplayName":     entry.DisplayName,
		"DisplayVersion":  entry.DisplayVersion,
		"Publisher":       entry.Publisher,
		"InstallLocation": entry.InstallLocation,
		"UninstallString": entry.UninstallString,
		"DisplayIcon":     icon,
	}
	if entry.URLInfoAbout != "" {
		values["URLInfoAbout"] = entry.URLInfoAbout
	}
	if entry.InstallDate != "" {
		values["InstallDate"] = entry.InstallDate
	}
	for name, value := range values {
		if err := key.SetStringValue(name, value); err != nil {
			return fmt.Errorf("set %s: %w", name, err)
		}
	}

	if err := key.SetDWordValue("NoModify", 1); err != nil {
		return fmt.Errorf("set NoModify: %w", err)
	}
	if err := key.SetDWordValue("NoRepair", 1); err != nil {
		return fmt.Errorf("set NoRepair: %w", err)
	}
	if entry.EstimatedSize > 0 {
		if err := key.SetDWordValue("EstimatedSize", entry.EstimatedSize); err != nil {
			return fmt.Errorf("set EstimatedSize: %w", err)
		}
	}
	return nil
}

// UnregisterUserApp removes the per-user uninstall entry. Missing
// entries are not an error.
func UnregisterUserApp(registryKey string) error {
	err := registry.DeleteKey(registry.CURRENT_USER, uninstallKeyBase+registryKey)
	if err != nil && err != registry.ErrNotExist {
		return fmt.Errorf("delete uninstall key: %w", err)
	}
	return nil
}

// FindInstalledUserApp reads an existing per-user installation.
// Returns nil when the entry does not exist.
func FindInstalledUserApp(registryKey string) (*AppEntry, error) {
	key, err := registry.OpenKey(
		registry.CURRENT_USER,
		uninstallKeyBase+registryKey,
		registry.QUERY_VALUE,
	)
	if err != nil {
		return nil, nil
	}
	defer key.Close()

	entry := &AppEntry{}
	read := func(name string, dst *string) {
		if v, _, err := key.GetStringValue(name); err == nil {
			*dst = v
		}
	}
	read("DisplayName", &entry.DisplayName)
	read("DisplayVersion", &entry.DisplayVersion)
	read("Publisher", &entry.Publisher)
	read("InstallLocation", &entry.InstallLocation)
	read("UninstallString", &entry.UninstallString)
	read("DisplayIcon", &entry.DisplayIcon)
	return entry, nil
}
