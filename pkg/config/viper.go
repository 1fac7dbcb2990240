// Package config initializes the application's configuration. It uses
// Viper to merge settings from a config file, environment variables,
// and command-line flags into one view.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/firedl/firedl/internal/logging"
)

// DefaultUserAgent identifies the tool on every outgoing request unless
// overridden by --user-agent, FIREDL_HTTP_USER_AGENT, or a config file.
const DefaultUserAgent = "firedl/1.0 (+https://github.com/firedl/firedl)"

// InitConfig sets defaults, search paths, and env bindings. Called once
// from the root command's PersistentPreRunE, after the logger is ready.
// An explicit file bypasses the search paths; a file that exists but
// cannot be read is a fatal configuration error.
func InitConfig(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.firedl")
		viper.AddConfigPath("/etc/firedl/")
	}

	viper.SetDefault("http.user_agent", DefaultUserAgent)
	// 0 disables the overall request timeout; a whole-request deadline
	// would cut off large downloads mid-body.
	viper.SetDefault("http.timeout_seconds", 0)
	viper.SetDefault("download.parallel", 1)
	viper.SetDefault("download.output_dir", ".")
	viper.SetDefault("scan.parallel", 1)
	viper.SetDefault("metrics.addr", "")

	viper.SetEnvPrefix("FIREDL") // e.g. FIREDL_DOWNLOAD_PARALLEL=8
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("read config file: %w", err)
		}
		return nil
	}
	logging.L.Info("using config file", zap.String("path", viper.ConfigFileUsed()))
	return nil
}
