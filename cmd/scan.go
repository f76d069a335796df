package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"linklabel/internal/classify"
	"linklabel/internal/detect"
	"linklabel/internal/span"
)

var (
	scanKinds []string
	scanJSON  bool
)

// spanDTO is the JSON shape printed by scan.
type spanDTO struct {
	Kind  string `json:"kind"`
	Start int    `json:"start"`
	Len   int    `json:"len"`
	Text  string `json:"text"`
}

var scanCmd = &cobra.Command{
	Use:   "scan [file]",
	Short: "Detect spans in a file or stdin and print them",
	Long: `Scan text for user handles, hashtags, emails, URLs and phone numbers
and print every detected span with its rune offset.

Examples:
  # Scan a file
  linklabel scan notes.txt

  # Scan stdin
  echo 'ping @alice about https://example.com' | linklabel scan

  # Restrict to specific kinds
  linklabel scan notes.txt --kind url --kind email

  # Machine-readable output
  linklabel scan notes.txt --json | jq '.[].text'`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			input []byte
			err   error
		)
		if len(args) == 1 {
			input, err = os.ReadFile(args[0]) //nolint:gosec // G304: path comes from the CLI user
		} else {
			input, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		kinds, err := resolveScanKinds(scanKinds)
		if err != nil {
			return err
		}

		detector := detect.New(detect.Config{
			EnabledKinds: kinds,
			Automatic:    true,
			Classifier:   classify.NewCachedClassifier(classify.NewRegexClassifier()),
		})
		spans := detector.Detect(string(input), nil, nil)

		out := cmd.OutOrStdout()
		if scanJSON {
			dtos := make([]spanDTO, 0, len(spans))
			for _, s := range spans {
				dtos = append(dtos, spanDTO{
					Kind:  string(s.Kind),
					Start: s.Range.Offset,
					Len:   s.Range.Length,
					Text:  s.Text,
				})
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(dtos)
		}

		for _, s := range spans {
			fmt.Fprintf(out, "%-12s %4d+%-3d %s\n", s.Kind, s.Range.Offset, s.Range.Length, s.Text)
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().StringArrayVarP(&scanKinds, "kind", "k", nil,
		"span kind to detect (can be repeated; default: all)")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false,
		"print spans as JSON")
	rootCmd.AddCommand(scanCmd)
}

// resolveScanKinds maps --kind values onto span kinds, defaulting to
// every automatic kind.
func resolveScanKinds(names []string) ([]span.Kind, error) {
	if len(names) == 0 {
		return span.AllKinds(), nil
	}
	kinds := make([]span.Kind, 0, len(names))
	for _, name := range names {
		k := span.Kind(name)
		if !k.Valid() || !k.Automatic() {
			return nil, fmt.Errorf("unknown span kind %q", name)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}
