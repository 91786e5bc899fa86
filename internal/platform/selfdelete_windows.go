//go:build windows

package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"

	"golang.org/x/sys/windows"
)

// ScheduleSelfDelete arranges for the running executable to be deleted
// once the process exits. The uninstaller uses this to remove itself
// after clearing the install directory.
func ScheduleSelfDelete() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("get executable path: %w", err)
	}
	absPath, err := filepath.Abs(exe)
	if err != nil {
		return fmt.Errorf("resolve absolute path: %w", err)
	}
	return ScheduleFileDelete(absPath)
}

// ScheduleFileDelete spawns a detached cmd.exe helper that retries the
// delete until the file is released. The helper also removes the
// parent directory when the delete leaves it empty.
func ScheduleFileDelete(filePath string) error {
	dir := filepath.Dir(filePath)
	script := fmt.Sprintf(
		`:loop & del /f /q "%[1]s" 2>nul & if exist "%[1]s" ( timeout /t 1 /nobreak >nul & goto loop ) & rd "%[2]s" 2>nul`,
		filePath, dir,
	)

	cmd := exec.Command("cmd.exe", "/C", script)
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP | windows.DETACHED_PROCESS,
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start delete helper: %w", err)
	}
	return nil
}
