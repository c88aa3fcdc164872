// Package version provides the trimport tool version.
package version

// Version is the trimport tool version.
// Can be overridden at build time with:
//   go build -ldflags "-X github.com/trimport/trimport/pkg/version.Version=1.2.0"
var Version = "dev"
