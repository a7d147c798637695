package version

// Version is the service current released version.
// Semantic versioning: https://semver.org/
var Version = "2.0.0"

// DevVersion is the service current development version.
var DevVersion = "2.0.0-dev"

func GetCurrentVersion(mode string) string {
	if mode == "dev" || mode == "demo" {
		return DevVersion
	}
	return Version
}
