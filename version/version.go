// Package version exposes build information stamped at link time.
package version

import "runtime/debug"

// These are set via -ldflags at build time. Defaults cover `go install`
// and local builds where no stamping occurred.
var (
	GitRelease    = "dev"
	GitCommit     = "unknown"
	GitCommitDate = "unknown"
)

// GoInfo reports the Go toolchain that built the binary.
var GoInfo = func() string {
	if bi, ok := debug.ReadBuildInfo(); ok {
		return bi.GoVersion
	}
	return "unknown"
}()
