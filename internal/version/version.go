package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// AppName is the binary family name used in user agents.
	AppName = "apihealth"

	// Version is set with -ldflags "-X .../internal/version.Version=..."
	Version = "0.1.0-dev"

	// Revision is the git commit the binary was built from.
	Revision = "HEAD"
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && Revision == "HEAD" && s.Value != "" {
			Revision = s.Value
			if len(Revision) > 12 {
				Revision = Revision[:12]
			}
		}
	}
}

// Short returns `0.1.0 (5e23a4)`.
func Short() string {
	return fmt.Sprintf("%s (%s)", Version, Revision)
}

// UserAgent returns `apihealth/0.1.0 (5e23a4; linux; amd64)`.
func UserAgent() string {
	return fmt.Sprintf("%s/%s (%s; %s; %s)", AppName, Version, Revision, runtime.GOOS, runtime.GOARCH)
}
