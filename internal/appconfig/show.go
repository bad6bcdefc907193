// internal/appconfig/show.go
package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	if cfg == nil {
		fallback := Defaults()
		cfg = &fallback
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:            %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Router Mode:      %s\n", cfg.RouterMode)
	if cfg.RouterMode == RouterTopic {
		fmt.Fprintf(out, "  Router Topic:     %s\n", cfg.RouterTopic)
	}
	fmt.Fprintf(out, "  Web Search:       %v\n", cfg.WebSearch)
	fmt.Fprintf(out, "  Chat Model:       %s\n", cfg.ChatModel)
	fmt.Fprintf(out, "  Embedding Model:  %s\n", cfg.EmbeddingModel)
	fmt.Fprintf(out, "  Store Type:       %s\n", cfg.StoreType)
	fmt.Fprintf(out, "  Segment Size:     %d\n", cfg.SegmentSize)
	fmt.Fprintf(out, "  Segment Overlap:  %d\n", cfg.SegmentOverlap)
	fmt.Fprintf(out, "  Max Results:      %d\n", cfg.MaxResults)
	fmt.Fprintf(out, "  Min Score:        %.2f\n", cfg.MinScore)
	fmt.Fprintf(out, "  History Window:   %d\n", cfg.HistoryWindow)
	fmt.Fprintf(out, "  Exit Word:        %s\n", cfg.ExitWord)
	fmt.Fprintf(out, "  Request Timeout:  %s\n", cfg.RequestTimeout())
	fmt.Fprintf(out, "  Sources:          %d\n", len(cfg.Sources))
	for _, src := range cfg.Sources {
		fmt.Fprintf(out, "    - %s (%s) maxResults=%d minScore=%.2f\n",
			src.Name, src.Path, cfg.SourceMaxResults(src), cfg.SourceMinScore(src))
	}
}
