package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/fcast/internal/config"
	"github.com/theirongolddev/fcast/internal/export"
	"github.com/theirongolddev/fcast/internal/source"
	"github.com/theirongolddev/fcast/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	c := cfg
	workers := strconv.Itoa(c.General.Workers)

	fmt.Println()
	fmt.Println("  Welcome to fcast!")
	if c.General.ModelsDir != "" {
		if files, err := source.ScanDir(c.General.ModelsDir); err == nil && len(files) > 0 {
			fmt.Printf("  Found %d model files in %s\n", len(files), c.General.ModelsDir)
		}
	}
	fmt.Println()

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Models directory").
				Description("Imported by `fcast models import` and watched by `fcast serve`.").
				Value(&c.General.ModelsDir),
			huh.NewInput().
				Title("Workers").
				Description("Parallel forecasts; 0 uses one per CPU.").
				Value(&workers).
				Validate(func(s string) error {
					_, err := parseWorkers(s)
					return err
				}),
			huh.NewSelect[string]().
				Title("Default output format").
				Options(huh.NewOptions(string(export.FormatTable), string(export.FormatJSON), string(export.FormatYAML), string(export.FormatCSV))...).
				Value(&c.General.DefaultFormat),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&c.Appearance.Theme),
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&c.Logging.Level),
		),
	).WithTheme(huh.ThemeBase16())

	if err := form.Run(); err != nil {
		return err
	}

	c.General.ModelsDir = strings.TrimSpace(c.General.ModelsDir)
	n, err := parseWorkers(workers)
	if err != nil {
		return err
	}
	c.General.Workers = n

	if err := config.Save(c); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `fcast setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

// parseWorkers reads the workers answer; 0 means one per CPU.
func parseWorkers(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("workers must be a whole number, 0 or more (got %q)", s)
	}
	return n, nil
}
