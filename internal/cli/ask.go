// internal/cli/ask.go
package agora

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mwiater/agora/internal/util"
	"github.com/spf13/cobra"
)

// askCmd runs a single question through the full pipeline and exits.
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask one question and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		sess, cleanup, err := buildSession(ctx, getConfig())
		if err != nil {
			return err
		}
		defer cleanup()

		query := strings.Join(args, " ")
		start := time.Now()
		answer, err := sess.Turn(ctx, query)
		if err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Fprintln(cmd.OutOrStdout(), green(util.WrapToWidth(answer, 100)))
		if getConfig().Debug {
			fmt.Fprintln(cmd.OutOrStdout(), cyan(fmt.Sprintf("answered in %.1fs", time.Since(start).Seconds())))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
