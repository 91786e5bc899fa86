package platform

import "testing"

func TestNetFxMeetsMinimum(t *testing.T) {
	tests := []struct {
		name   string
		status NetFxStatus
		want   bool
	}{
		{"absent", NetFxStatus{}, false},
		{"absent with release", NetFxStatus{Installed: false, Release: 533320}, false},
		{"below threshold", NetFxStatus{Installed: true, Release: 378388}, false},
		{"exactly threshold", NetFxStatus{Installed: true, Release: 378389}, true},
		{"modern runtime", NetFxStatus{Installed: true, Release: 533325}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.MeetsMinimum(); got != tt.want {
				t.Errorf("MeetsMinimum() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNetFxVersionName(t *testing.T) {
	tests := []struct {
		status NetFxStatus
		want   string
	}{
		{NetFxStatus{}, "not installed"},
		{NetFxStatus{Installed: true, Release: 378389}, "4.5"},
		{NetFxStatus{Installed: true, Release: 378675}, "4.5.1"},
		{NetFxStatus{Installed: true, Release: 394802}, "4.6.2"},
		{NetFxStatus{Installed: true, Release: 461808}, "4.7.2"},
		{NetFxStatus{Installed: true, Release: 528040}, "4.8"},
		{NetFxStatus{Installed: true, Release: 533320}, "4.8.1"},
		{NetFxStatus{Installed: true, Release: 533325}, "4.8.1"}, // Windows 11 marker
		{NetFxStatus{Installed: true, Release: 100000}, "pre-4.5"},
	}
	for _, tt := range tests {
		if got := tt.status.VersionName(); got != tt.want {
			t.Errorf("VersionName(release=%d) = %q, want %q", tt.status.Release, got, tt.want)
		}
	}
}
