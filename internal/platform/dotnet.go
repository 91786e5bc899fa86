package platform

// NetFxMinRelease is the minimum Release marker of the .NET Framework
// 4.x family the hosted agent tooling expects. 378389 corresponds to
// .NET Framework 4.5.
const NetFxMinRelease = 378389

// NetFxStatus describes the installed .NET Framework 4.x runtime.
type NetFxStatus struct {
	Installed bool   // the NDP\v4\Full key exists
	Release   uint64 // raw Release marker, 0 when absent
}

// MeetsMinimum reports whether the installed runtime satisfies
// NetFxMinRelease. A missing key never satisfies it.
func (s NetFxStatus) MeetsMinimum() bool {
	return s.Installed && s.Release >= NetFxMinRelease
}

// VersionName maps the Release marker to the marketing version, for
// display in diagnostics. Thresholds per the .NET Framework
// deployment guide; unknown markers report the nearest known floor.
func (s NetFxStatus) VersionName() string {
	if !s.Installed {
		return "not installed"
	}
	switch {
	case s.Release >= 533320:
		return "4.8.1"
	case s.Release >= 528040:
		return "4.8"
	case s.Release >= 461808:
		return "4.7.2"
	case s.Release >= 461308:
		return "4.7.1"
	case s.Release >= 460798:
		return "4.7"
	case s.Release >= 394802:
		return "4.6.2"
	case s.Release >= 394254:
		return "4.6.1"
	case s.Release >= 393295:
		return "4.6"
	case s.Release >= 379893:
		return "4.5.2"
	case s.Release >= 378675:
		return "4.5.1"
	case s.Release >= 378389:
		return "4.5"
	default:
		return "pre-4.5"
	}
}
