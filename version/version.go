// Package version exposes the build metadata stamped into release
// binaries via -ldflags:
//
//	-X github.com/gencraft/gencraft/version.Release=v0.3.0
//	-X github.com/gencraft/gencraft/version.Commit=$(git rev-parse HEAD)
//	-X github.com/gencraft/gencraft/version.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)
package version

import (
	"fmt"
	"runtime"
)

// Stamped at build time; a plain source build reports these defaults.
var (
	Release = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info is the resolved build metadata of the running binary.
type Info struct {
	Release   string `json:"release"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get resolves the stamped values together with the runtime's own
// toolchain and platform identity.
func Get() Info {
	return Info{
		Release:   Release,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func (i Info) String() string {
	return fmt.Sprintf("gencraft %s (commit %s, built %s)", i.Release, i.ShortCommit(), i.Date)
}

// ShortCommit abbreviates a full hash to the conventional seven
// characters; already-short values pass through.
func (i Info) ShortCommit() string {
	if len(i.Commit) > 7 {
		return i.Commit[:7]
	}
	return i.Commit
}
