package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFromBuildInfo(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	defer func() { Version, Commit = oldVersion, oldCommit }()

	tests := []struct {
		name        string
		info        *debug.BuildInfo
		wantVersion string
		wantCommit  string
	}{
		{
			name: "tagged module with dirty tree",
			info: &debug.BuildInfo{
				Main: debug.Module{Version: "v1.4.0"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "0123456789abcdef"},
					{Key: "vcs.modified", Value: "true"},
				},
			},
			wantVersion: "v1.4.0",
			wantCommit:  "0123456-dirty",
		},
		{
			name: "devel build uses commit time",
			info: &debug.BuildInfo{
				Main: debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abc"},
					{Key: "vcs.time", Value: "2026-03-01T10:00:00Z"},
				},
			},
			wantVersion: "dev-20260301",
			wantCommit:  "abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, Commit = "", ""
			fromBuildInfo(func() (*debug.BuildInfo, bool) { return tt.info, true })

			if Version != tt.wantVersion {
				t.Errorf("Version = %q, want %q", Version, tt.wantVersion)
			}
			if Commit != tt.wantCommit {
				t.Errorf("Commit = %q, want %q", Commit, tt.wantCommit)
			}
		})
	}
}

func TestUserAgent(t *testing.T) {
	if !strings.HasPrefix(UserAgent(), "formwiz/") {
		t.Errorf("UserAgent() = %q, want formwiz/ prefix", UserAgent())
	}
}
