package version

// Application version information, overridable at build time via ldflags.
var (
	Version = "1.0.0"
	Commit  = ""
)

// Full returns the version string including the commit hash when known.
func Full() string {
	if Commit == "" {
		return Version
	}
	return Version + "+" + Commit
}
