// Package app provides the application container and its configuration.
package app

// Build information, injected at link time.
var (
	Version   string = "0.1.0"
	GitTag    string = "dev"
	BuildTime string = "2000-01-01T00:00:00+0800"
)
