//go:build windows

package platform

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// IsElevated reports whether the process runs with administrator
// privileges. The installer never requires elevation; the diagnostic
// tool records it so reports show which registry hives were readable.
func IsElevated() bool {
	token := windows.Token(0)
	if err := windows.OpenProcessToken(windows.CurrentProcess(), windows.TOKEN_QUERY, &token); err != nil {
		return false
	}
	defer token.Close()

	type tokenElevation struct {
		TokenIsElevated uint32
	}
	var elevation tokenElevation
	var outLen uint32
	err := windows.GetTokenInformation(
		token,
		windows.TokenElevation,
		(*byte)(unsafe.Pointer(&elevation)),
		uint32(unsafe.Sizeof(elevation)),
		&outLen,
	)
	return err == nil && elevation.TokenIsElevated != 0
}
