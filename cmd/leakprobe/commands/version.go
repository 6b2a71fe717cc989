// Copyright 2026 The Leakprobe Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"runtime/debug"

	"github.com/leakprobe/leakprobe/cmd/leakprobe/cli"
)

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "print the leakprobe version",
		Run: func(args []string) error {
			fmt.Println("leakprobe", buildVersion())
			return nil
		},
	}
}

// buildVersion reports the module version recorded by the Go
// toolchain, or "devel" for a plain source build.
func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "devel"
}
