package version

import (
	"strings"
	"testing"
)

func saveAndRestore() func() {
	origVersion, origCommit, origBuildTime := Version, GitCommit, BuildTime
	return func() {
		Version = origVersion
		GitCommit = origCommit
		BuildTime = origBuildTime
	}
}

func TestGetVersionInfo(t *testing.T) {
	tests := []struct {
		version     string
		wantRelease bool
	}{
		{"dev", false},
		{"1.0.0", true},
		{"1.0.0-dirty", false},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			defer saveAndRestore()()
			Version = tt.version
			GitCommit = "abc1234"
			BuildTime = "2026-01-15T10:30:00Z"

			info := GetVersionInfo()
			if info.Version != tt.version {
				t.Errorf("expected %q, got %q", tt.version, info.Version)
			}
			if info.IsRelease != tt.wantRelease {
				t.Errorf("expected release=%v, got %v", tt.wantRelease, info.IsRelease)
			}
			if info.GitCommit != "abc1234" || info.BuildTime != "2026-01-15T10:30:00Z" {
				t.Errorf("expected ldflags values to win, got %+v", info)
			}
		})
	}
}

func TestShortCommit(t *testing.T) {
	if got := shortCommit("0123456789abcdef"); got != "0123456" {
		t.Errorf("expected 0123456, got %q", got)
	}
	if got := shortCommit("abc"); got != "abc" {
		t.Errorf("expected abc, got %q", got)
	}
}

func TestGetShortVersion(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.0.0"
	GitCommit = "abc1234"

	sv := GetShortVersion()
	if !strings.HasPrefix(sv, "1.0.0-abc1234") {
		t.Errorf("expected prefix '1.0.0-abc1234', got %q", sv)
	}
}

func TestInfoString(t *testing.T) {
	info := &Info{Version: "1.0.0", GitCommit: "abc1234", BuildTime: "2026-01-15T10:30:00Z", GoVersion: "go1.26.0"}
	want := "videoscribe 1.0.0 (abc1234) built 2026-01-15T10:30:00Z go1.26.0"
	if got := info.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if got := (&Info{Version: "dev"}).String(); got != "videoscribe dev" {
		t.Errorf("expected 'videoscribe dev', got %q", got)
	}
}

func TestUserAgent(t *testing.T) {
	defer saveAndRestore()()
	Version = "2.0.0"
	GitCommit = "fff0000"

	if ua := UserAgent(); !strings.HasPrefix(ua, "videoscribe/2.0.0-fff0000") {
		t.Errorf("unexpected user agent %q", ua)
	}
}
