//go:build !windows

package platform

// The companion integrates with the Windows registry, COM, and GDI.
// Builds for other operating systems are not supported; cross-compile
// with GOOS=windows.

const platformUnsupported = "platform package requires Windows - see internal/platform/unsupported.go"

// This line intentionally fails to compile on non-Windows targets.
var _ int = platformUnsupported
