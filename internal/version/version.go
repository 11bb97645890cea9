package version

// Version is the current ghwait release.
// Overridden at build time with -ldflags "-X .../internal/version.Version=x.y.z".
var Version = "0.1.0"

// FullVersion returns the version with the v prefix
func FullVersion() string {
	return "v" + Version
}
