package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X github.com/TykTechnologies/graphql-subgraph-extractor/cmd.version=..."
var version = ""

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the version of subgraph-extractor",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			toolVersion, goVersion := buildVersions()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "tool version\t%s\n", toolVersion)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "go version\t%s\n", goVersion)
		},
	}
}

func buildVersions() (toolVersion string, goVersion string) {
	toolVersion, goVersion = "(devel)", "unknown"

	info, ok := debug.ReadBuildInfo()
	if ok {
		goVersion = info.GoVersion
		if info.Main.Version != "" {
			toolVersion = info.Main.Version
		}
	}
	if version != "" {
		toolVersion = version
	}
	return toolVersion, goVersion
}
