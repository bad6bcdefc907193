// internal/cli/chat.go
package agora

import (
	"context"
	"os"

	"github.com/mwiater/agora/internal/tui"
	"github.com/spf13/cobra"
)

var plainMode bool

// chatCmd represents the 'chat' command.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start a conversational retrieval session",
	Long:  `The 'chat' command ingests the configured sources and starts an interactive session that routes each question to the relevant sources before answering.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		sess, cleanup, err := buildSession(ctx, getConfig())
		if err != nil {
			return err
		}
		defer cleanup()

		if plainMode {
			return sess.Run(ctx, os.Stdin, os.Stdout)
		}
		return tui.StartGUI(ctx, getConfig(), sess)
	},
}

func init() {
	chatCmd.Flags().BoolVar(&plainMode, "plain", false, "line-oriented session instead of the full-screen UI")
	rootCmd.AddCommand(chatCmd)
}
