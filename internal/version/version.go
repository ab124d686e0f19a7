// Package version holds build metadata stamped in with -ldflags.
package version

// Name identifies the service in health responses and startup logs.
const Name = "cafirm-website"

// Overridden at build time, e.g.
// -ldflags "-X github.com/cafirm/website/backend/internal/version.GitCommit=abc123".
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Full returns the version, plus commit and build time once both are stamped.
func Full() string {
	if BuildTime == "unknown" || GitCommit == "unknown" {
		return Version
	}
	return Version + " (commit: " + GitCommit + ", built: " + BuildTime + ")"
}

// Fields returns the build metadata keyed the way the health endpoint and the
// startup log report it.
func Fields() map[string]string {
	return map[string]string{
		"service":    Name,
		"version":    Version,
		"git_commit": GitCommit,
		"build_time": BuildTime,
	}
}
