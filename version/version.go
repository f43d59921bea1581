package version // import "github.com/storyhouse/storyhouse/version"

// Version is the service version, overridable at build time with -ldflags.
var Version = "0.2.0"

func GetCurrentVersion() string {
	return Version
}
