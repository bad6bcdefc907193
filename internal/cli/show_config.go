// internal/cli/show_config.go
package agora

import (
	"github.com/k0kubun/pp"
	"github.com/mwiater/agora/internal/appconfig"
	"github.com/spf13/cobra"
)

var showFullConfig bool

// showConfigCmd prints the merged configuration, ensuring the JSON config
// loaded properly and flags overrode it accordingly.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show the merged configuration: file values, environment overrides, and flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()
		if showFullConfig {
			pp.Println(cfg)
			return
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), cfg.ConfigPath, cfg)
	},
}

func init() {
	showConfigCmd.Flags().BoolVar(&showFullConfig, "full", false, "dump the complete configuration structure")
	showCmd.AddCommand(showConfigCmd)
}
