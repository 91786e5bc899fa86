//go:build windows

package platform

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/windows"

	"github.com/hevolve/companion/internal/appinfo"
)

// UserDesktopPath returns the current user's Desktop folder.
func UserDesktopPath() (string, error) {
	return windows.KnownFolderPath(windows.FOLDERID_Desktop, 0)
}

// UserStartMenuPath returns the current user's Start Menu Programs folder.
// Example: C:\Users\<user>\AppData\Roaming\Microsoft\Windows\Start Menu\Programs
func UserStartMenuPath() (string, error) {
	return windows.KnownFolderPath(windows.FOLDERID_Programs, 0)
}

// UserStartupFolderPath returns the current user's Startup folder.
func UserStartupFolderPath() (string, error) {
	return windows.KnownFolderPath(windows.FOLDERID_Startup, 0)
}

// CommonStartupFolderPath returns the all-users Startup folder.
func CommonStartupFolderPath() (string, error) {
	return windows.KnownFolderPath(windows.FOLDERID_CommonStartup, 0)
}

// DocumentsPath returns the current user's Documents folder.
func DocumentsPath() (string, error) {
	return windows.KnownFolderPath(windows.FOLDERID_Documents, 0)
}

// LocalAppDataPath returns the current user's local app data folder.
func LocalAppDataPath() (string, error) {
	return windows.KnownFolderPath(windows.FOLDERID_LocalAppData, 0)
}

// DefaultInstallDir is the per-user install location. Per-user keeps
// the whole install/uninstall cycle elevation-free.
// Example: C:\Users\<user>\AppData\Local\Programs\Hevolve Agent Companion
func DefaultInstallDir() (string, error) {
	local, err := LocalAppDataPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(local, "Programs", appinfo.Name), nil
}

// DataDir is the per-user data directory under Documents. The device
// identity, session storage, and logs live below it. Falls back to the
// home directory when the Documents known folder cannot be resolved.
func DataDir() string {
	docs, err := DocumentsPath()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return filepath.Join(os.TempDir(), appinfo.DataDirName)
		}
		docs = filepath.Join(home, "Documents")
	}
	return filepath.Join(docs, appinfo.DataDirName)
}

// LogDir is the log directory removed recursively at uninstall.
func LogDir() string {
	return filepath.Join(DataDir(), "logs")
}
