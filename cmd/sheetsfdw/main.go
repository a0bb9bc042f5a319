package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/sheetsfdw/pkg/connector/registry"

	// Import all available wrappers to register them
	_ "github.com/ajitpratap0/sheetsfdw/pkg/connector/sources/gsheets"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sheetsfdw",
		Short: "sheetsfdw - query Google Sheets as a foreign table",
		Long: `sheetsfdw exposes a Google Sheets document as a read-only foreign table.
It drives the wrapper through its scan lifecycle and writes the produced rows
as JSON Lines or CSV.`,
		SilenceUsage: true,
	}

	root.AddCommand(newVersionCmd(), newListCmd(), newScanCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "sheetsfdw v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [wrapper...]",
		Short: "List available wrappers and their options",
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := registry.ListConnectorInfo()
			if len(args) > 0 {
				infos = nil
				for _, name := range args {
					info, err := registry.GetConnectorInfo(name)
					if err != nil {
						return err
					}
					infos = append(infos, info)
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Available Wrappers:")
			for _, info := range infos {
				printConnectorInfo(out, info)
			}
			return nil
		},
	}
}

func printConnectorInfo(out io.Writer, info *registry.ConnectorInfo) {
	fmt.Fprintf(out, "  - %s v%s (host %s)\n", info.Name, info.Version, info.HostVersion)
	fmt.Fprintf(out, "    %s\n", info.Description)

	types := make([]string, len(info.ColumnTypes))
	for i, t := range info.ColumnTypes {
		types[i] = t.String()
	}
	fmt.Fprintf(out, "    column types: %s\n", strings.Join(types, ", "))

	names := make([]string, 0, len(info.Options))
	for name := range info.Options {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		opt := info.Options[name]
		line := fmt.Sprintf("    %s option %s", opt.Scope, name)
		if opt.Required {
			line += " (required)"
		}
		if opt.Default != "" {
			line += fmt.Sprintf(" [default %s]", opt.Default)
		}
		fmt.Fprintf(out, "%s: %s\n", line, opt.Description)
	}
}
