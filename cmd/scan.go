package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firedl/firedl/internal/logging"
	"github.com/firedl/firedl/internal/scan"
	"github.com/firedl/firedl/internal/urlutil"
)

// newScanCmd creates the 'scan' subcommand.
func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [URL]...",
		Short: "Extract and filter links from HTML pages",
		Long: `Fetches each input URL and, when the response is text/html, extracts
every anchor href, resolves it against the page URL, and reports the
absolute URLs matching at least one --filter pattern (all of them when
no filter is given). Scanning is single-level: discovered links are
reported, not followed.`,
		RunE: runScanCommand,
	}
	cmd.Flags().StringP("output", "o", "", "write discovered URLs to this file instead of stdout")
	cmd.Flags().IntP("parallel", "p", 1, "maximum concurrent scans")
	cmd.Flags().StringArrayP("filter", "f", nil, "regex a discovered URL must match (repeatable, OR semantics)")
	cmd.Flags().StringSliceP("list", "l", nil, "newline-delimited URL list file (repeatable)")
	return cmd
}

func runScanCommand(cmd *cobra.Command, args []string) error {
	logger := logging.L

	lists, _ := cmd.Flags().GetStringSlice("list")
	urls, err := urlutil.Collect(args, lists)
	if err != nil {
		return fmt.Errorf("collect urls: %w", err)
	}

	outputPath, _ := cmd.Flags().GetString("output")
	patterns, _ := cmd.Flags().GetStringArray("filter")

	client, err := buildClient(cmd)
	if err != nil {
		return err
	}
	defer client.CloseIdleConnections()

	hub, stopMetrics, err := setupProgress(cmd, logger)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	defer func() {
		if cerr := hub.Close(ctx); cerr != nil {
			logger.Warn("progress hub close failed")
		}
		stopMetrics(ctx)
	}()

	return scan.Run(ctx, scan.Options{
		OutputPath: outputPath,
		Parallel:   intSetting(cmd, "parallel", "scan.parallel"),
		Patterns:   patterns,
		URLs:       urls,
		Client:     client,
		Hub:        hub,
		Logger:     logger,
	})
}
