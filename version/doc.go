// Package version reports the build of authd and tokenctl.
//
// Values are set at link time and fall back to the VCS stamp embedded by
// the Go toolchain:
//
//	go build -ldflags "-X github.com/kbukum/tokenkit/version.Version=1.2.0" ./cmd/authd
package version
