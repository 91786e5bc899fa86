//go:build windows

package platform

import (
	"golang.org/x/sys/windows"
)

// AcquireSingleInstance acquires a named mutex so only one copy of the
// companion runs per machine. Returns a release function and true when
// the lock was acquired; nil and false when another instance holds it.
func AcquireSingleInstance(name string) (release func(), ok bool) {
	// Global\ works across all sessions.
	mutexName, _ := windows.UTF16PtrFromString("Global\\" + name)

	handle, err := windows.CreateMutex(nil, false, mutexName)
	if err != nil {
		if err == windows.ERROR_ALREADY_EXISTS {
			if handle != 0 {
				windows.CloseHandle(handle)
			}
			return nil, false
		}
		// Other errors fail open.
		return func() { windows.CloseHandle(handle) }, true
	}

	return func() { windows.CloseHandle(handle) }, true
}

// IsSingleInstanceRunning checks for the mutex without acquiring it.
func IsSingleInstanceRunning(name string) bool {
	mutexName, _ := windows.UTF16PtrFromString("Global\\" + name)
	handle, err := windows.OpenMutex(windows.SYNCHRONIZE, false, mutexName)
	if err != nil {
		return false
	}
	windows.CloseHandle(handle)
	return true
}
