//go:build windows

package setup

import (
	"github.com/crafted-tech/webframe"

	"github.com/hevolve/companion/internal/platform"
)

// WebView2Status reports on the runtime the wizard UI itself needs.
type WebView2Status = webframe.WebView2Status

// WebView2InstallURL downloads the Evergreen Runtime installer.
const WebView2InstallURL = webframe.WebView2InstallURL

// CheckWebView2 probes the WebView2 runtime. Safe before any UI
// initialization.
func CheckWebView2() WebView2Status {
	return webframe.CheckWebView2Runtime("")
}

// CheckNetFx probes the .NET Framework 4.x runtime some agent-run
// tooling depends on. The result is advisory: setup reports a missing
// or old runtime but never refuses to install because of it.
func CheckNetFx() platform.NetFxStatus {
	status, err := platform.CheckNetFx()
	if err != nil {
		return platform.NetFxStatus{}
	}
	return status
}

// NativeConfirm shows a native OK/Cancel dialog. Safe before any UI
// initialization.
func NativeConfirm(title, message string) bool {
	return webframe.ShowConfirmDialog(title, message)
}

// NativeError shows a native error dialog.
func NativeError(title, message string) {
	webframe.ShowErrorDialog(title, message)
}

// NativeWarning shows a native warning dialog.
func NativeWarning(title, message string) {
	webframe.ShowWarningDialog(title, message)
}
