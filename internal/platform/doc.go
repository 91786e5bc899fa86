// Package platform wraps the Windows integration the companion product
// needs: the login autostart registration, prerequisite probes,
// Add/Remove Programs registration, shortcuts, known-folder paths,
// process control, single-instance locking, screen capture, and
// self-delete scheduling for the uninstaller.
//
// The package only builds on Windows. OS calls live in _windows.go
// files; pure logic such as the prerequisite thresholds stays untagged
// so it reads as ordinary code.
package platform
