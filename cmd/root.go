// Package cmd defines and implements the CLI commands for the firedl
// executable.
package cmd

import (
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/firedl/firedl/internal/httpclient"
	"github.com/firedl/firedl/internal/logging"
	"github.com/firedl/firedl/pkg/config"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "firedl",
		Short: "Parallel file downloader and link scanner",
		Long: `firedl fetches URLs with bounded parallelism. The download command
saves each URL to a file in the output directory, replacing files
atomically; the scan command extracts anchor targets from HTML pages
and reports the ones matching the configured filters.`,
		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if err := logging.Init(verbose); err != nil {
				return err
			}
			logging.L = logging.L.With(zap.String("run_id", uuid.NewString()))
			// Config comes after logging so a rejected config file is
			// reported, not swallowed by the no-op logger.
			return config.InitConfig(cfgFile)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default searches ., $HOME/.firedl, /etc/firedl)")
	cmd.PersistentFlags().String("user-agent", "", "User-Agent header for outgoing requests")
	cmd.PersistentFlags().Bool("verbose", false, "enable debug output")
	cmd.PersistentFlags().String("metrics-addr", "", "serve Prometheus metrics on this address during the run")

	cmd.AddCommand(newDownloadCmd())
	cmd.AddCommand(newScanCmd())

	return cmd
}

// Execute is the main entry point. Configuration and startup errors
// exit non-zero; per-job failures never reach this path.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		logging.L.Error("command failed", zap.Error(err))
		_ = logging.L.Sync()
		os.Exit(1)
	}
	_ = logging.L.Sync()
}

// buildClient constructs the run-scoped HTTP client from flags and
// configuration.
func buildClient(cmd *cobra.Command) (*httpclient.Client, error) {
	userAgent := viper.GetString("http.user_agent")
	if cmd.Flags().Changed("user-agent") {
		userAgent, _ = cmd.Flags().GetString("user-agent")
	}
	return httpclient.New(httpclient.Config{
		UserAgent: userAgent,
		Timeout:   time.Duration(viper.GetInt("http.timeout_seconds")) * time.Second,
	})
}

// intSetting resolves an int flag against its viper key, flag winning
// when set explicitly.
func intSetting(cmd *cobra.Command, flag, key string) int {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetInt(flag)
		return v
	}
	return viper.GetInt(key)
}
