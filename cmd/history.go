package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"linklabel/internal/config"
	"linklabel/internal/history"
	"linklabel/internal/span"
)

var (
	historyDB    string
	historyLimit int
	historyJSON  bool
)

// entryDTO is the JSON shape printed by history.
type entryDTO struct {
	Kind     string    `json:"kind"`
	Text     string    `json:"text"`
	Target   string    `json:"target,omitempty"`
	TappedAt time.Time `json:"tapped_at"`
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently tapped spans",
	Long: `Show the most recently tapped spans recorded by the demo, newest
first, followed by per-kind totals.

Examples:
  # Last 20 taps
  linklabel history

  # More of them
  linklabel history --limit 100

  # Machine-readable output
  linklabel history --json | jq '.[].text'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := historyDB
		if path == "" {
			path = cfg.History.Path
		}
		if path == "" {
			path = config.DefaultHistoryPath()
		}

		store, err := history.Open(path)
		if err != nil {
			return fmt.Errorf("opening history: %w", err)
		}
		defer func() { _ = store.Close() }()

		entries, err := store.Recent(historyLimit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if historyJSON {
			dtos := make([]entryDTO, 0, len(entries))
			for _, e := range entries {
				dtos = append(dtos, entryDTO{
					Kind:     string(e.Kind),
					Text:     e.Text,
					Target:   e.Target,
					TappedAt: e.TappedAt,
				})
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(dtos)
		}

		if len(entries) == 0 {
			fmt.Fprintln(out, "no taps recorded")
			return nil
		}
		for _, e := range entries {
			fmt.Fprintf(out, "%s  %-12s %s\n",
				e.TappedAt.Local().Format("2006-01-02 15:04"), e.Kind, e.Text)
		}

		counts, err := store.CountByKind()
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		for _, k := range sortedKindKeys(counts) {
			fmt.Fprintf(out, "%-12s %d\n", k, counts[k])
		}
		return nil
	},
}

// sortedKindKeys returns the map's kinds in lexical order for stable
// output.
func sortedKindKeys(counts map[span.Kind]int) []span.Kind {
	kinds := make([]span.Kind, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func init() {
	historyCmd.Flags().StringVar(&historyDB, "db", "",
		"history database path (default: from config)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20,
		"maximum number of taps to show")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false,
		"print taps as JSON")
	rootCmd.AddCommand(historyCmd)
}
