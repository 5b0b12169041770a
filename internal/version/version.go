// Package version reports the build version of formwiz.
package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/muurk/formwiz/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/formwiz/internal/version.Commit=abc123"
//
// Unset values are filled from the module's VCS build info, then from a
// "dev" timestamp.
var (
	Version = ""
	Commit  = ""
)

func init() {
	if Version == "" || Commit == "" {
		fromBuildInfo(debug.ReadBuildInfo)
	}
	if Version == "" {
		Version = fmt.Sprintf("dev-%s", time.Now().Format("20060102-150405"))
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

type buildInfoReader func() (*debug.BuildInfo, bool)

func fromBuildInfo(read buildInfoReader) {
	info, ok := read()
	if !ok {
		return
	}

	settings := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}

	if Commit == "" {
		if rev := settings["vcs.revision"]; rev != "" {
			if len(rev) > 7 {
				rev = rev[:7]
			}
			if settings["vcs.modified"] == "true" {
				rev += "-dirty"
			}
			Commit = rev
		}
	}

	if Version == "" {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			Version = info.Main.Version
			return
		}
		if t, err := time.Parse(time.RFC3339, settings["vcs.time"]); err == nil {
			Version = fmt.Sprintf("dev-%s", t.Format("20060102"))
		}
	}
}

// Full returns the version with its commit.
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// UserAgent is sent on every gateway request.
func UserAgent() string {
	return "formwiz/" + Version
}
