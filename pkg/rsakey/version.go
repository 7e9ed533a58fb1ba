package rsakey

// Version is populated at build time via
// -ldflags "-X github.com/hsiuhsiu/genkeys-go/pkg/rsakey.Version=...".
var Version = "v0.0.0-in-progress"

// BuildVersion returns the build version. In development it defaults to
// v0.0.0-in-progress.
func BuildVersion() string {
	return Version
}
