//go:build windows

package platform

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sys/windows/registry"
)

// StartupEntry is one autostart registration found on the machine.
type StartupEntry struct {
	Source  string `json:"source" yaml:"source"` // "HKCU Run", "HKLM Run", "user startup folder", ...
	Name    string `json:"name" yaml:"name"`
	Command string `json:"command" yaml:"command"`
}

// ScanStartupEntries enumerates autostart registrations from the
// per-user and per-machine Run keys and both startup folders. The
// diagnostic tool reports these so a stale registration is visible
// even when it no longer matches the installed executable.
func ScanStartupEntries() []StartupEntry {
	var entries []StartupEntry
	entries = append(entries, scanRunKey(registry.CURRENT_USER, "HKCU Run")...)
	entries = append(entries, scanRunKey(registry.LOCAL_MACHINE, "HKLM Run")...)

	if dir, err := UserStartupFolderPath(); err == nil {
		entries = append(entries, scanStartupFolder(dir, "user startup folder")...)
	}
	if dir, err := CommonStartupFolderPath(); err == nil {
		entries = append(entries, scanStartupFolder(dir, "common startup folder")...)
	}
	return entries
}

func scanRunKey(root registry.Key, source string) []StartupEntry {
	key, err := registry.OpenKey(root, runKeyPath, registry.QUERY_VALUE)
	if err != nil {
		return nil
	}
	defer key.Close()

	names, err := key.ReadValueNames(-1)
	if err != nil {
		return nil
	}
	sort.Strings(names)

	var entries []StartupEntry
	for _, name := range names {
		value, _, err := key.GetStringValue(name)
		if err != nil {
			continue
		}
		entries = append(entries, StartupEntry{Source: source, Name: name, Command: value})
	}
	return entries
}

func scanStartupFolder(dir, source string) []StartupEntry {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var entries []StartupEntry
	for _, item := range items {
		if item.IsDir() || !strings.EqualFold(filepath.Ext(item.Name()), ".lnk") {
			continue
		}
		entries = append(entries, StartupEntry{
			Source:  source,
			Name:    strings.TrimSuffix(item.Name(), filepath.Ext(item.Name())),
			Command: filepath.Join(dir, item.Name()),
		})
	}
	return entries
}
