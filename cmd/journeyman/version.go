package main

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X main.version=... -X main.commit=... -X main.date=...".
var (
	version = "dev"
	commit  = ""
	date    = ""
)

type buildInfo struct {
	Version   string
	Commit    string
	Date      string
	GoVersion string
}

// currentBuild fills whatever the linker flags left empty from the VCS
// stamps the go tool embeds.
func currentBuild() buildInfo {
	info := buildInfo{Version: version, Commit: commit, Date: date, GoVersion: runtime.Version()}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && info.Commit == "":
				info.Commit = s.Value
			case s.Key == "vcs.time" && info.Date == "":
				info.Date = s.Value
			}
		}
	}
	if info.Commit == "" {
		info.Commit = "unknown"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return info
}

func newVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the journeyman version and build details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := currentBuild()
			out := cmd.OutOrStdout()
			if short {
				_, err := fmt.Fprintln(out, info.Version)
				return err
			}
			_, err := fmt.Fprintf(out, "journeyman %s\ncommit: %s\nbuilt: %s\ngo: %s\n",
				info.Version, info.Commit, info.Date, info.GoVersion)
			return err
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")

	return cmd
}
