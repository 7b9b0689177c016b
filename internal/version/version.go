// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version carries build metadata injected via ldflags.
package version

import "fmt"

// Info holds the build metadata stamped into the binary.
type Info struct {
	Version   string // git tag, "dev" for untagged builds
	GitCommit string // short commit hash
	BuildTime string // RFC3339 build timestamp
}

// String formats the info for the -version flag and startup logs.
func (i Info) String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", i.Version, i.GitCommit, i.BuildTime)
}
