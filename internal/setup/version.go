package setup

import (
	goversion "github.com/hashicorp/go-version"
)

// InstallAction classifies what the wizard is about to do, based on
// the version already on disk versus the version being installed.
type InstallAction int

const (
	ActionFreshInstall InstallAction = iota
	ActionUpgrade
	ActionDowngrade
	ActionReinstall
)

func (a InstallAction) String() string {
	switch a {
	case ActionFreshInstall:
		return "Fresh Install"
	case ActionUpgrade:
		return "Upgrade"
	case ActionDowngrade:
		return "Downgrade"
	case ActionReinstall:
		return "Reinstall"
	default:
		return "Install"
	}
}

// DetermineAction compares the existing installed version against the
// version being installed. An unparseable existing version is treated
// as a reinstall so a corrupt .version file never blocks setup.
func DetermineAction(existingVersion, newVersion string) InstallAction {
	if existingVersion == "" {
		return ActionFreshInstall
	}

	existing, err := goversion.NewVersion(existingVersion)
	if err != nil {
		return ActionReinstall
	}
	incoming, err := goversion.NewVersion(newVersion)
	if err != nil {
		return ActionReinstall
	}

	switch {
	case incoming.GreaterThan(existing):
		return ActionUpgrade
	case incoming.LessThan(existing):
		return ActionDowngrade
	default:
		return ActionReinstall
	}
}
