// Package version holds build-time metadata for the gifilter CLI.
package version

// Version is set at build time via -ldflags, defaulting to "dev".
var Version = "dev"
