package setup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// StepCopyExecutable copies an executable into the install dir. A
// locked destination is deleted first; Windows allows deleting a
// running executable's file.
func StepCopyExecutable(src, dst string) Step {
	return Step{
		Name: fmt.Sprintf("Copy %s", filepath.Base(dst)),
		Action: func() StepResult {
			if err := CopyExecutable(src, dst); err != nil {
				return Failed(err)
			}
			return Success("")
		},
	}
}

// StepEnsureDir creates a directory tree, skipping when present.
func StepEnsureDir(path string) Step {
	return Step{
		Name: fmt.Sprintf("Create %s", filepath.Base(path)),
		Action: func() StepResult {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				return Skipped("already exists")
			}
			if err := os.MkdirAll(path, 0755); err != nil {
				return Failed(fmt.Errorf("create directory: %w", err))
			}
			return Success("")
		},
	}
}

// StepWriteVersionFile records the installed version at {dir}/.version.
// The uninstaller and future upgrades read it back.
func StepWriteVersionFile(dir, version string) Step {
	return Step{
		Name: "Write version file",
		Action: func() StepResult {
			path := filepath.Join(dir, ".version")
			if err := os.WriteFile(path, []byte(version), 0644); err != nil {
				return Failed(err)
			}
			return Success(version)
		},
	}
}

// StepRemoveDirBestEffort deletes a directory tree but reports a
// failure as a skip. Used for the log directory at uninstall, where a
// file held open by a viewer must not fail the whole uninstall.
func StepRemoveDirBestEffort(name, path string) Step {
	return Step{
		Name: name,
		Action: func() StepResult {
			if _, err := os.Stat(path); os.IsNotExist(err) {
				return Skipped("not found")
			}
			if err := os.RemoveAll(path); err != nil {
				return Skipped(fmt.Sprintf("left in place: %v", err))
			}
			return Success("")
		},
	}
}

// StepRemoveDirExcept deletes everything under path except the named
// entry. The uninstaller uses it to clear the install directory while
// it is still running from inside it; the kept file is removed by the
// self-delete helper afterwards.
func StepRemoveDirExcept(name, path, keep string) Step {
	return Step{
		Name: name,
		Action: func() StepResult {
			entries, err := os.ReadDir(path)
			if os.IsNotExist(err) {
				return Skipped("not found")
			}
			if err != nil {
				return Failed(err)
			}
			for _, entry := range entries {
				if strings.EqualFold(entry.Name(), keep) {
					continue
				}
				if err := os.RemoveAll(filepath.Join(path, entry.Name())); err != nil {
					return Failed(err)
				}
			}
			return Success("")
		},
	}
}

// CopyFile copies src to dst, creating parent directories as needed.
func CopyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}

	dstFile, err := os.OpenFile(dst, os.O_RDWR|os.O_CREATE|os.O_TRUNC, srcInfo.Mode())
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("copy content: %w", err)
	}
	return nil
}

// CopyExecutable copies an executable, removing a locked destination
// first so an in-use binary can be replaced.
func CopyExecutable(src, dst string) error {
	if _, err := os.Stat(dst); err == nil {
		_ = os.Remove(dst)
	}
	return CopyFile(src, dst)
}

// ReadVersionFile returns the version recorded at {dir}/.version, or
// "" when no version file exists.
func ReadVersionFile(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, ".version"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// FileExists reports whether path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
