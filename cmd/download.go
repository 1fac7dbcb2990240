package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/firedl/firedl/internal/download"
	"github.com/firedl/firedl/internal/logging"
	"github.com/firedl/firedl/internal/urlutil"
)

// newDownloadCmd creates the 'download' subcommand.
func newDownloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "download [URL]...",
		Aliases: []string{"d"},
		Short:   "Download URLs in parallel",
		Long: `Downloads each input URL to a file in the output directory, named
after the URL's final path segment. Files that already exist are
skipped unless --redownload-existing is set. Each transfer goes
through a hidden .part temp file and is renamed into place only once
fully written.`,
		RunE: runDownloadCommand,
	}
	cmd.Flags().StringP("output", "o", "", "output directory (default \".\")")
	cmd.Flags().IntP("parallel", "p", 1, "maximum concurrent downloads")
	cmd.Flags().Bool("redownload-existing", false, "replace files that already exist")
	cmd.Flags().StringSliceP("list", "l", nil, "newline-delimited URL list file (repeatable)")
	return cmd
}

func runDownloadCommand(cmd *cobra.Command, args []string) error {
	logger := logging.L

	lists, _ := cmd.Flags().GetStringSlice("list")
	urls, err := urlutil.Collect(args, lists)
	if err != nil {
		return fmt.Errorf("collect urls: %w", err)
	}

	outputDir, _ := cmd.Flags().GetString("output")
	if outputDir == "" {
		outputDir = viper.GetString("download.output_dir")
	}
	redownload, _ := cmd.Flags().GetBool("redownload-existing")

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

	return download.Run(ctx, download.Options{
		OutputDir:          outputDir,
		Parallel:           intSetting(cmd, "parallel", "download.parallel"),
		RedownloadExisting: redownload,
		URLs:               urls,
		Client:             client,
		Hub:                hub,
		Logger:             logger,
	})
}
