package version

// Name is the program name shown in logs and reports.
const Name = "yuvpsnr"

// Build metadata injected via -ldflags at build time, e.g.
// -X yuvpsnr/internal/version.BuildNumber=42. Defaults are used for local builds.
var (
	// BuildNumber is a monotonically increasing string set by the build script.
	BuildNumber = "0"
	// GitCommit is the short commit hash if available; may be "unknown".
	GitCommit = "unknown"
)

// String returns a concise version string for logs and reports.
func String() string {
	if GitCommit == "unknown" || GitCommit == "" {
		return "build " + BuildNumber
	}
	return "build " + BuildNumber + " (" + GitCommit + ")"
}

// Banner prefixes String with the program name, for --version output.
func Banner() string { return Name + " " + String() }
