// pkg/version/version.go

package version

import (
	"fmt"
	"runtime/debug"
)

var (
	version      = "0.1-dev"
	revision     = "$Format:%h$"
	revisionDate = "$Format:%as$"
)

func init() {
	// binaries built with `go install` carry VCS stamps instead of ldflags
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if len(s.Value) > 7 {
				revision = s.Value[:7]
			} else {
				revision = s.Value
			}
		case "vcs.time":
			if len(s.Value) >= 10 {
				revisionDate = s.Value[:10]
			}
		}
	}
}

// Version returns the version in format - `VERSION (REVISIONDATE REVISION)`
// value is assigned in Makefile
func Version() string {
	return fmt.Sprintf("%v (%v %v)", version, revisionDate, revision)
}
