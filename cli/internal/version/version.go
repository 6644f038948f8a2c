// Package version reports build information and the engine versions the
// tool supports.
package version

import (
	"fmt"
	"runtime"

	goversion "github.com/hashicorp/go-version"
)

var (
	// Version is the version of the CLI
	Version = "0.1.0"
	// BuildDate is the build date
	BuildDate = "unknown"
	// GitCommit is the git commit hash
	GitCommit = "unknown"
)

// EngineConstraints are the engine versions myorm is tested against, by provider.
var EngineConstraints = map[string]string{
	"sqlite":   ">= 3.8.3",
	"mysql":    ">= 5.7",
	"postgres": ">= 10",
}

// Info holds version information
type Info struct {
	Version   string
	BuildDate string
	GitCommit string
	GoVersion string
	Platform  string
}

// Get returns version information
func Get() Info {
	return Info{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// Semver parses Version.
func (i Info) Semver() (*goversion.Version, error) {
	v, err := goversion.NewVersion(i.Version)
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", i.Version, err)
	}
	return v, nil
}

// String returns a formatted version string
func (i Info) String() string {
	return fmt.Sprintf("myorm version %s (%s %s)", i.Version, i.Platform, i.GoVersion)
}

// FullString returns a detailed version string
func (i Info) FullString() string {
	return fmt.Sprintf(`myorm version %s
Build Date: %s
Git Commit: %s
Platform: %s
Go Version: %s`, i.Version, i.BuildDate, i.GitCommit, i.Platform, i.GoVersion)
}

// EngineConstraint returns the supported version range for provider.
func EngineConstraint(provider string) (string, bool) {
	c, ok := EngineConstraints[provider]
	return c, ok
}
