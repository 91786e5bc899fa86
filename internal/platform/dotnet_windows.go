//go:build windows

package platform

import (
	"fmt"

	"golang.org/x/sys/windows/registry"
)

const netFxKeyPath = `SOFTWARE\Microsoft\NET Framework Setup\NDP\v4\Full`

// CheckNetFx probes the .NET Framework 4.x Release marker from the
// registry. A missing key means the prerequisite is absent; that is a
// normal outcome, not an error. Errors are only returned for
// unexpected registry failures.
func CheckNetFx() (NetFxStatus, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, netFxKeyPath, registry.QUERY_VALUE)
	if err != nil {
		if err == registry.ErrNotExist {
			return NetFxStatus{}, nil
		}
		return NetFxStatus{}, fmt.Errorf("open NDP key: %w", err)
	}
	defer k.Close()

	release, _, err := k.GetIntegerValue("Release")
	if err != nil {
		if err == registry.ErrNotExist {
			return NetFxStatus{Installed: true}, nil
		}
		return NetFxStatus{Installed: true}, fmt.Errorf("read Release value: %w", err)
	}

	return NetFxStatus{Installed: true, Release: release}, nil
}
