package main

import (
	"github.com/spf13/cobra"
)

// buildMcpCmd creates the "mcp" command that serves the workspace on stdio.
func buildMcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve a headless workspace over MCP on stdin/stdout",
		Long: `Serve a headless annotation workspace to MCP clients over stdin/stdout.

Destructive tools (clear_page, delete_text_box) are approved automatically
because there is no UI to confirm them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP()
		},
	}
}

// buildInspectCmd creates the "inspect" command.
func buildInspectCmd() *cobra.Command {
	var spans bool
	cmd := &cobra.Command{
		Use:   "inspect <file.pdf>",
		Short: "Show page geometry and the extractable text layer of a PDF",
		Example: `  pdfmark inspect contract.pdf
  pdfmark inspect contract.pdf --spans`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.OutOrStdout(), args[0], spans)
		},
	}
	cmd.Flags().BoolVar(&spans, "spans", false, "List every text span with its position")
	return cmd
}

// buildStatsCmd creates the "stats" command.
func buildStatsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Count recorded page views and clicks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd.Context(), cmd.OutOrStdout(), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

// buildEventsCmd creates the "events" command.
func buildEventsCmd() *cobra.Command {
	var (
		limit     int
		eventType string
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List recent analytics events, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvents(cmd.Context(), cmd.OutOrStdout(), eventType, limit, asJSON)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 100, "Maximum number of events")
	cmd.Flags().StringVarP(&eventType, "type", "t", "", "Only events of this type (page_view, click)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

// buildPruneCmd creates the "prune" command.
func buildPruneCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete analytics events older than the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrune(cmd.Context(), cmd.OutOrStdout(), days)
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "Retention in days (default from config)")
	return cmd
}
