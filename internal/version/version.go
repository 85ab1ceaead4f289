// Package version holds build metadata for the resolver binaries.
//
// Values are injected with ldflags:
//
//	go build -ldflags "-X github.com/rickgao/ico-resolver/internal/version.Version=1.1.0 \
//	                   -X github.com/rickgao/ico-resolver/internal/version.Commit=$(git rev-parse --short HEAD) \
//	                   -X github.com/rickgao/ico-resolver/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/find-unresolved
package version

import "fmt"

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String returns the line printed by --version.
func String(program string) string {
	return fmt.Sprintf("%s %s (%s) built %s", program, Version, Commit, BuildTime)
}

// LogAttrs returns the build metadata as slog key/value pairs.
func LogAttrs() []any {
	return []any{"version", Version, "commit", Commit, "build_time", BuildTime}
}
