// Package version exposes build information set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/videoscribe/version.Version=1.2.0 \
//	    -X github.com/kbukum/videoscribe/version.GitCommit=$(git rev-parse --short HEAD)"
//
// Unset values fall back to the module build info embedded by the toolchain.
package version
