// internal/cli/show.go
package agora

import (
	"github.com/spf13/cobra"
)

// showCmd groups the inspection subcommands.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show application state",
}

func init() {
	rootCmd.AddCommand(showCmd)
}
