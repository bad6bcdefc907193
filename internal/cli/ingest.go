// internal/cli/ingest.go
package agora

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mwiater/agora/internal/ingest"
	"github.com/mwiater/agora/internal/logging"
	"github.com/spf13/cobra"
)

// ingestCmd loads, splits, embeds, and indexes every configured source,
// reporting a per-source segment count. With the memory store this is a dry
// run of the pipeline; with postgres it persists the index for later chats.
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest the configured sources into the embedding store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if err := logging.Init(cfg.LogFilePath()); err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		defer logging.Close()

		_, embedder, err := buildClients(cfg)
		if err != nil {
			return err
		}

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()

		ctx := context.Background()
		failures := 0
		for _, src := range cfg.Sources {
			st, count, err := ingest.IngestFile(ctx, src.Path, embedder, storeFactory(cfg, src.Name), ingest.Options{
				SegmentSize:    cfg.SegmentSize,
				SegmentOverlap: cfg.SegmentOverlap,
			})
			if err != nil {
				failures++
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %v\n", red("✗"), src.Name, err)
				continue
			}
			if c, ok := st.(io.Closer); ok {
				defer c.Close()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d segments indexed\n", green("✓"), src.Name, count)
		}

		if failures == len(cfg.Sources) && len(cfg.Sources) > 0 {
			return fmt.Errorf("all %d sources failed to ingest", failures)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
