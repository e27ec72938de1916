package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/fcast/internal/export"
	"github.com/theirongolddev/fcast/internal/model"
	"github.com/theirongolddev/fcast/internal/source"

	"github.com/spf13/cobra"
)

var flagForce bool

var initCmd = &cobra.Command{
	Use:   "init <file>",
	Short: "Write a starter model file",
	Long:  "Write a starter event model. The extension picks the format: .toml, .yaml, or .json.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing file")
	rootCmd.AddCommand(initCmd)
}

const starterTOML = `name = "Summer Festival"

[duration]
unit = "monthly"
length = 12

[[revenue_streams]]
name = "Tickets"
base_value = 35
role = "ticket"

[[revenue_streams]]
name = "Food & Beverage"
base_value = 18
role = "food_beverage"

[[revenue_streams]]
name = "Sponsorship"
base_value = 5000
kind = "fixed"

[[cost_categories]]
name = "Venue"
base_value = 8000
kind = "fixed"

[[cost_categories]]
name = "Bar stock"
  [cost_categories.attribution]
  role = "food_beverage"
  percent = 35

[event]
initial_attendance = 400
staff_count = 6
cost_per_staff = 450

[event.growth]
law = "exponential"
attendance_rate = 3

[marketing]
mode = "per_channel"

[[marketing.channels]]
name = "Social"
budget = 3000
policy = "spread_evenly"

[[marketing.channels]]
name = "Print"
budget = 1200
policy = "upfront"
`

func runInit(_ *cobra.Command, args []string) error {
	path := args[0]
	format := source.FormatOf(path)
	if format == "" {
		return fmt.Errorf("unsupported extension %q (want .toml, .yaml, or .json)", filepath.Ext(path))
	}
	if _, err := os.Stat(path); err == nil && !flagForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	var out strings.Builder
	if format == "toml" {
		out.WriteString(starterTOML)
	} else {
		m, err := source.Decode([]byte(starterTOML), "toml")
		if err != nil {
			return err
		}
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if err := writeStarter(&out, format, m); err != nil {
			return err
		}
	}

	if err := os.WriteFile(path, []byte(out.String()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("  Wrote %s\n  Try: fcast forecast %s\n", path, path)
	return nil
}

func writeStarter(out *strings.Builder, format string, m model.FinancialModel) error {
	if format == "json" {
		return export.WriteJSON(out, m)
	}
	return export.WriteYAML(out, m)
}
