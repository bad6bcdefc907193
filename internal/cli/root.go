// internal/cli/root.go
package agora

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mwiater/agora/internal/appconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
)

var rootCmd = &cobra.Command{
	Use:   "agora",
	Short: "agora — conversational retrieval over your own documents",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 1) Load config (file or defaults) plus environment overrides.
		cfg, err := appconfig.Load(cfgFile)
		if err != nil {
			return err
		}

		// 2) If the user did NOT set a flag, copy the config value into the
		//    flag so both pflags and viper reflect the same, final value.
		if !cmd.Flags().Changed("debug") {
			_ = cmd.Flags().Set("debug", strconv.FormatBool(cfg.Debug))
		}
		if !cmd.Flags().Changed("routerMode") {
			_ = cmd.Flags().Set("routerMode", cfg.RouterMode)
		}

		// 3) Materialize the merged values (flags > config > defaults) back
		//    into the config so other packages get a stable snapshot.
		cfg.Debug = viper.GetBool("debug")
		cfg.RouterMode = viper.GetString("routerMode")
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("merged config invalid: %w", err)
		}
		currentConfig = cfg

		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("routerMode", appconfig.RouterTopic, "query routing strategy: topic, static, or model")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("routerMode", rootCmd.PersistentFlags().Lookup("routerMode"))
}

// getConfig returns the loaded application configuration for subcommands.
func getConfig() *appconfig.Config {
	return currentConfig
}
