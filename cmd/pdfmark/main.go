// Command pdfmark is the headless companion of the pdfmark desktop app.
//
// It serves the annotation workspace over MCP for AI agents, inspects PDFs
// the way the workspace sees them, and reads or prunes usage analytics.
//
//	pdfmark mcp
//	pdfmark inspect contract.pdf --spans
//	pdfmark stats
//	pdfmark events --limit 20
//	pdfmark prune --days 30
//
// Configuration is read from --config, $PDFMARK_CONFIG or
// ~/.config/pdfmark/config.yaml. The analytics password for hosted databases
// comes from $PDFMARK_ANALYTICS_PASSWORD or the OS keychain.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	// stdout carries the MCP protocol; logs go to stderr.
	log.SetOutput(os.Stderr)

	if err := buildRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// buildRootCmd creates the root command with all subcommands attached.
func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "pdfmark",
		Short:        "pdfmark - PDF annotation workspace",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to YAML configuration file (or set PDFMARK_CONFIG)")

	rootCmd.AddCommand(
		buildMcpCmd(),
		buildInspectCmd(),
		buildStatsCmd(),
		buildEventsCmd(),
		buildPruneCmd(),
	)
	return rootCmd
}
