// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/verifyica/pipeliner-ipc/lib/ipc"
)

// These variables are set via -ldflags at build time:
//
//	go build -ldflags "-X github.com/verifyica/pipeliner-ipc/lib/version.GitCommit=$(git rev-parse --short HEAD)"
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// GitDirty indicates whether there were uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the semantic version. This is set manually for releases.
	Version = "0.1.0-dev"
)

// Info returns a formatted version string suitable for --version output.
func Info() string {
	dirty := ""
	if GitDirty == "true" {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, GitCommit, dirty, BuildTime)
}

// Full returns detailed version information including the channel
// protocol variants this build reads and writes.
func Full() string {
	names := make([]string, 0, len(ipc.Variants))
	for _, variant := range ipc.Variants {
		names = append(names, variant.String())
	}
	return fmt.Sprintf("%s\n  Protocol: %s (%s)\n  Go: %s\n  Platform: %s/%s",
		Info(), ipc.VariantEscape.Tag(), strings.Join(names, ", "),
		runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
