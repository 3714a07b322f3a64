// Package version reports the build identity of the beer-inventory binary.
//
// Version, git commit, branch, and build time are set at compile time
// via -ldflags; anything left empty falls back to the VCS stamps the Go
// toolchain records in the binary:
//
//	go build -ldflags "-X github.com/kbukum/beer-inventory/version.Version=1.0.0" ./cmd/beer-inventory
package version
