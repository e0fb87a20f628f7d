package version

import (
	"runtime/debug"
	"testing"
)

func TestStringFromLdflags(t *testing.T) {
	defer func(v, c, d string) { Version, Commit, Date = v, c, d }(Version, Commit, Date)
	Version, Commit, Date = "1.2.0", "abc123", "2025-03-04"
	if got := String(); got != "1.2.0 (abc123) 2025-03-04" {
		t.Fatalf("String() = %q", got)
	}
	if got := UserAgent(); got != "bizadmin/1.2.0" {
		t.Fatalf("UserAgent() = %q", got)
	}
}

func TestStringFromBuildInfo(t *testing.T) {
	defer func(f func() (*debug.BuildInfo, bool)) { readBuildInfo = f }(readBuildInfo)
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			Main: debug.Module{Version: "v0.3.1"},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123456789abcdef0123"},
				{Key: "vcs.time", Value: "2025-03-04T10:00:00Z"},
			},
		}, true
	}
	if got := String(); got != "v0.3.1 (0123456789ab) 2025-03-04T10:00:00Z" {
		t.Fatalf("String() = %q", got)
	}

	readBuildInfo = func() (*debug.BuildInfo, bool) { return nil, false }
	if got := String(); got != "dev" {
		t.Fatalf("String() without build info = %q", got)
	}
}
