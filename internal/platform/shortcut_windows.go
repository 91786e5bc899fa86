//go:build windows

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

// Shortcut describes a .lnk file to create.
type Shortcut struct {
	Target      string
	Arguments   string
	WorkingDir  string // defaults to the target's directory
	Description string
	IconPath    string // defaults to the target
	IconIndex   int
}

// CreateUserDesktopShortcut creates a shortcut on the current user's desktop.
func CreateUserDesktopShortcut(name string, s Shortcut) error {
	desktop, err := UserDesktopPath()
	if err != nil {
		return fmt.Errorf("get user desktop path: %w", err)
	}
	return CreateShortcut(filepath.Join(desktop, name+".lnk"), s)
}

// CreateUserStartMenuShortcut creates a shortcut in the current user's
// Start Menu. folder names a subfolder; "" means the Programs root.
func CreateUserStartMenuShortcut(folder, name string, s Shortcut) error {
	startMenu, err := UserStartMenuPath()
	if err != nil {
		return fmt.Errorf("get user start menu path: %w", err)
	}
	return CreateShortcut(filepath.Join(startMenu, folder, name+".lnk"), s)
}

// DeleteUserDesktopShortcut removes a desktop shortcut if present.
func DeleteUserDesktopShortcut(name string) error {
	desktop, err := UserDesktopPath()
	if err != nil {
		return err
	}
	return deleteShortcutFile(filepath.Join(desktop, name+".lnk"))
}

// DeleteUserStartMenuShortcut removes a Start Menu shortcut and its
// folder when the folder becomes empty.
func DeleteUserStartMenuShortcut(folder, name string) error {
	startMenu, err := UserStartMenuPath()
	if err != nil {
		return err
	}
	if err := deleteShortcutFile(filepath.Join(startMenu, folder, name+".lnk")); err != nil {
		return err
	}
	if folder != "" {
		_ = os.Remove(filepath.Join(startMenu, folder))
	}
	return nil
}

// CreateShortcut writes a .lnk file at lnkPath via the WScript.Shell
// COM object. COM is thread-bound, so the OS thread is locked for the
// duration of the call.
func CreateShortcut(lnkPath string, s Shortcut) error {
	if _, err := os.Stat(s.Target); err != nil {
		return fmt.Errorf("shortcut target not found: %s", s.Target)
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		if oleErr, ok := err.(*ole.OleError); ok {
			code := oleErr.Code()
			if code != 0 && code != 1 { // S_OK, S_FALSE
				return fmt.Errorf("COM init: %s", oleErrorString(err))
			}
		}
	}
	defer ole.CoUninitialize()

	if err := os.MkdirAll(filepath.Dir(lnkPath), 0755); err != nil {
		return fmt.Errorf("create shortcut directory: %w", err)
	}
	_ = os.Remove(lnkPath)

	shellObj, err := oleutil.CreateObject("WScript.Shell")
	if err != nil {
		return fmt.Errorf("create WScript.Shell: %s", oleErrorString(err))
	}
	defer shellObj.Release()

	wshell, err := shellObj.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return fmt.Errorf("query shell interface: %s", oleErrorString(err))
	}
	defer wshell.Release()

	variant, err := oleutil.CallMethod(wshell, "CreateShortcut", lnkPath)
	if err != nil {
		return fmt.Errorf("create shortcut object: %s", oleErrorString(err))
	}
	link := variant.ToIDispatch()
	defer link.Release()

	if _, err := oleutil.PutProperty(link, "TargetPath", s.Target); err != nil {
		return fmt.Errorf("set target: %s", oleErrorString(err))
	}
	if s.Arguments != "" {
		if _, err := oleutil.PutProperty(link, "Arguments", s.Arguments); err != nil {
			return fmt.Errorf("set arguments: %s", oleErrorString(err))
		}
	}
	workingDir := s.WorkingDir
	if workingDir == "" {
		workingDir = filepath.Dir(s.Target)
	}
	if _, err := oleutil.PutProperty(link, "WorkingDirectory", workingDir); err != nil {
		return fmt.Errorf("set working directory: %s", oleErrorString(err))
	}
	if s.Description != "" {
		if _, err := oleutil.PutProperty(link, "Description", s.Description); err != nil {
			return fmt.Errorf("set description: %s", oleErrorString(err))
		}
	}
	iconPath := s.IconPath
	if iconPath == "" {
		iconPath = s.Target
	}
	icon := fmt.Sprintf("%s,%d", iconPath, s.IconIndex)
	if _, err := oleutil.PutProperty(link, "IconLocation", icon); err != nil {
		return fmt.Errorf("set icon: %s", oleErrorString(err))
	}
	if _, err := oleutil.CallMethod(link, "Save"); err != nil {
		return fmt.Errorf("save shortcut: %s", oleErrorString(err))
	}
	return nil
}

func deleteShortcutFile(lnkPath string) error {
	err := os.Remove(lnkPath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func oleErrorString(err error) string {
	if err == nil {
		return "unknown error"
	}
	if oleErr, ok := err.(*ole.OleError); ok {
		return fmt.Sprintf("%s (HRESULT: 0x%08X)", oleErr.Error(), uint32(oleErr.Code()))
	}
	return err.Error()
}
