// Package completion_helper prints shell completion candidates for commands
// whose flags urfave/cli does not suggest on its own.
package completion_helper

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"
)

// DefaultFlagComplete prints the visible subcommands of cmd, then every visible
// flag that has not been set yet. Single-letter names get one dash.
func DefaultFlagComplete(_ context.Context, cmd *cli.Command) {
	w := cmd.Root().Writer
	for _, sub := range cmd.VisibleCommands() {
		_, _ = fmt.Fprintln(w, sub.Name)
	}
	for _, f := range cmd.VisibleFlags() {
		if f.IsSet() {
			continue
		}
		printFlagNames(w, f.Names())
	}
}

func printFlagNames(w io.Writer, names []string) {
	for _, name := range names {
		prefix := "--"
		if len(name) == 1 {
			prefix = "-"
		}
		_, _ = fmt.Fprintln(w, prefix+name)
	}
}
