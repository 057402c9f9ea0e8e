package version

import (
	"runtime"
	"time"
)

// Build metadata reported by healthz. Version and Commit are meant to be
// overridden at link time:
//
//	-ldflags "-X .../internal/version.Version=v1.2.0 -X .../internal/version.Commit=abc1234"
//
// The defaults describe a local dev build.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = time.Now().Format(time.RFC3339)
	GoVersion = runtime.Version()
)
