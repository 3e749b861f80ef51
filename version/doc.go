// Package version holds build information set via -ldflags or read from the
// embedded VCS stamp.
package version
