package setup

import "testing"

func TestDetermineAction(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		incoming string
		want     InstallAction
	}{
		{"fresh install", "", "1.2.0", ActionFreshInstall},
		{"upgrade", "1.1.0", "1.2.0", ActionUpgrade},
		{"upgrade patch", "1.2.0", "1.2.1", ActionUpgrade},
		{"downgrade", "1.3.0", "1.2.0", ActionDowngrade},
		{"reinstall", "1.2.0", "1.2.0", ActionReinstall},
		{"prerelease upgrade", "1.2.0-rc.1", "1.2.0", ActionUpgrade},
		{"corrupt existing version", "not-a-version", "1.2.0", ActionReinstall},
		{"corrupt incoming version", "1.1.0", "garbage", ActionReinstall},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineAction(tt.existing, tt.incoming); got != tt.want {
				t.Errorf("DetermineAction(%q, %q) = %v, want %v",
					tt.existing, tt.incoming, got, tt.want)
			}
		})
	}
}

func TestInstallActionString(t *testing.T) {
	if got := ActionUpgrade.String(); got != "Upgrade" {
		t.Errorf("ActionUpgrade.String() = %q", got)
	}
	if got := InstallAction(99).String(); got != "Install" {
		t.Errorf("unknown action String() = %q", got)
	}
}
