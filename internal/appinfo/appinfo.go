// Package appinfo holds the product identity constants shared by the
// companion application, the installer, the uninstaller, and the
// diagnostics tool. Everything that names the product in the OS
// (registry value names, shortcut names, directories) comes from here
// so that install and uninstall can never disagree.
package appinfo

// Version is the product version stamped into builds and written to
// the install directory's .version file.
const Version = "1.2.0"

const (
	// Name is the user-visible product name.
	Name = "Hevolve Agent Companion"

	// Publisher is shown in Add/Remove Programs.
	Publisher = "HertzAI"

	// ExeName is the main application executable.
	ExeName = "companion.exe"

	// UninstallExeName is the uninstaller copied into the install directory.
	UninstallExeName = "companion-uninstall.exe"

	// RegistryKey identifies the product in the Windows uninstall registry
	// and as the single-instance mutex name.
	RegistryKey = "HertzAI.AgentCompanion"

	// RunValueName is the value name used under the HKCU Run key for the
	// login autostart registration. At most one value with this name may
	// exist at any time.
	RunValueName = "HevolveAgentCompanion"

	// BackgroundFlag is appended to the autostart command line so the app
	// starts without opening the agent UI.
	BackgroundFlag = "--background"

	// DataDirName is the per-user data directory created under the user's
	// Documents folder. Logs, the device identity, and session storage
	// live below it.
	DataDirName = "Hevolve Agent Companion"

	// StartMenuFolder is the Start Menu subfolder for the shortcuts.
	StartMenuFolder = "Hevolve"
)

const (
	// DefaultPort is the local control server port.
	DefaultPort = 5000

	// DefaultWidth and DefaultHeight are the agent UI window hints passed
	// through to the hosted UI.
	DefaultWidth  = 1024
	DefaultHeight = 768

	// DefaultAgentURL is the hosted agent UI opened when no complete user
	// session is stored.
	DefaultAgentURL = "https://hevolve.hertzai.com/agents/Instructable-Agent?companion=true"

	// DefaultStopAPIURL receives stop requests when the user ends a remote
	// control session.
	DefaultStopAPIURL = "https://hevolve.hertzai.com/actions/stop"
)
