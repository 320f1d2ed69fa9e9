// Package version holds the confprop version, overridable at build time
// via -ldflags "-X github.com/confprop/confprop/pkg/version.Version=...".
package version

// Version is the semantic version of this build.
var Version = "0.0.0-dev"
