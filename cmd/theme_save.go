package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"linklabel/internal/config"
	"linklabel/internal/styles"
)

var themeSaveCmd = &cobra.Command{
	Use:   "theme:save",
	Short: "Write the active color palette into the config file",
	Long: `Write every color token of the active palette into the config file's
theme.colors section, so each one is listed and ready to tweak.

Config overrides already in effect are kept; tokens the config does not
set are filled in from the default palette for the configured theme
mode. Comments elsewhere in the file are preserved.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := v.ConfigFileUsed()
		if configPath == "" {
			home, _ := os.UserHomeDir()
			configPath = filepath.Join(home, ".config", "linklabel", "config.yaml")
		}
		return runThemeSave(cmd.OutOrStdout(), cfg, configPath)
	},
}

func runThemeSave(out io.Writer, c config.Config, configPath string) error {
	palette := styles.DefaultPalette()
	if err := palette.Apply(c.Theme.FlattenedColors()); err != nil {
		return fmt.Errorf("invalid theme.colors: %w", err)
	}

	if err := config.SaveThemeColors(configPath, paletteHex(palette, c.Theme.Mode)); err != nil {
		return fmt.Errorf("saving theme colors: %w", err)
	}

	fmt.Fprintf(out, "wrote %d color tokens to %s\n",
		len(styles.AllTokens()), configPath)
	return nil
}

func init() {
	rootCmd.AddCommand(themeSaveCmd)
}

// paletteHex flattens the palette to token -> hex for the given theme
// mode ("light" picks the light variant, anything else the dark one).
func paletteHex(p styles.Palette, mode string) map[string]string {
	colors := make(map[string]string, len(p))
	for token, c := range p {
		hex := c.Dark
		if mode == "light" {
			hex = c.Light
		}
		colors[string(token)] = hex
	}
	return colors
}
