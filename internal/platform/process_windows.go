//go:build windows

package platform

import (
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
	"golang.org/x/sys/windows"
)

// FindProcessesByName returns the PIDs of all processes whose
// executable name matches exeName, case-insensitively.
func FindProcessesByName(exeName string) []uint32 {
	procs, err := process.Processes()
	if err != nil {
		return nil
	}
	var pids []uint32
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		if strings.EqualFold(name, exeName) {
			pids = append(pids, uint32(p.Pid))
		}
	}
	return pids
}

// IsProcessRunning reports whether any process with the given
// executable name is running.
func IsProcessRunning(exeName string) bool {
	return len(FindProcessesByName(exeName)) > 0
}

// KillProcess terminates a process and waits for it to exit so its
// file handles are released before the caller touches the install dir.
func KillProcess(pid uint32) error {
	handle, err := windows.OpenProcess(
		windows.PROCESS_TERMINATE|windows.SYNCHRONIZE, false, pid)
	if err != nil {
		return fmt.Errorf("open process %d: %w", pid, err)
	}
	defer windows.CloseHandle(handle)

	if err := windows.TerminateProcess(handle, 1); err != nil {
		return fmt.Errorf("terminate process %d: %w", pid, err)
	}

	event, _ := windows.WaitForSingleObject(handle, 5_000)
	if event == uint32(windows.WAIT_TIMEOUT) {
		return fmt.Errorf("process %d did not exit within timeout", pid)
	}
	return nil
}

// KillProcessByName terminates every process matching exeName. Returns
// nil when none are running; returns the last error if any kill fails.
func KillProcessByName(exeName string) error {
	var lastErr error
	for _, pid := range FindProcessesByName(exeName) {
		if err := KillProcess(pid); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
