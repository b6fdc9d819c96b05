// Package buildinfo holds release details stamped in at link time, e.g.
//
//	go build -ldflags "-X github.com/echo-bravo-yahoo/nb/internal/buildinfo.Version=v0.3.0" ./cmd/nb
package buildinfo

// Empty in development builds; the version command falls back to the
// module's embedded build info.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)
