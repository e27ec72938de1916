package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/export"
	"github.com/theirongolddev/fcast/internal/forecast"
	"github.com/theirongolddev/fcast/internal/model"
	"github.com/theirongolddev/fcast/internal/scenario"
	"github.com/theirongolddev/fcast/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagMarketing  float64
	flagChannels   map[string]string
	flagPricing    float64
	flagAttendance float64
	flagCOGS       float64
	flagScenName   string
	flagSave       bool
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario <model>",
	Short: "Apply what-if adjustments to a model and compare with the baseline",
	Example: `  fcast scenario festival.toml --pricing 10 --attendance -2
  fcast scenario festival --marketing 20 --channel social=50 --save --name "Push social"`,
	Args: cobra.ExactArgs(1),
	RunE: runScenario,
}

func init() {
	scenarioCmd.Flags().Float64Var(&flagMarketing, "marketing", 0, "Marketing spend change in percent")
	scenarioCmd.Flags().StringToStringVar(&flagChannels, "channel", nil, "Per-channel spend change in percent (name=pct)")
	scenarioCmd.Flags().Float64Var(&flagPricing, "pricing", 0, "Ticket and per-attendee price change in percent")
	scenarioCmd.Flags().Float64Var(&flagAttendance, "attendance", 0, "Attendance growth change in percentage points")
	scenarioCmd.Flags().Float64Var(&flagCOGS, "cogs", 0, "Attributed cost change in percent")
	scenarioCmd.Flags().StringVar(&flagScenName, "name", "", "Scenario name")
	scenarioCmd.Flags().BoolVar(&flagSave, "save", false, "Save the scenario against the stored baseline")
	rootCmd.AddCommand(scenarioCmd)
}

func runScenario(_ *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	deltas, err := deltasFromFlags()
	if err != nil {
		return err
	}

	baseline, err := loadModel(args[0])
	if err != nil {
		return err
	}
	variant := scenario.Apply(baseline, deltas)

	baseRecords, err := forecast.Try(baseline)
	if err != nil {
		return err
	}
	records, err := forecast.Try(variant)
	if err != nil {
		return err
	}

	if flagSave {
		if err := saveScenario(baseline, deltas); err != nil {
			return err
		}
	}

	switch format {
	case export.FormatJSON:
		return export.WriteJSON(os.Stdout, newScenarioResult(baseline, variant, deltas, records))
	case export.FormatYAML:
		return export.WriteYAML(os.Stdout, newScenarioResult(baseline, variant, deltas, records))
	case export.FormatCSV:
		return export.WriteRecords(os.Stdout, format, records)
	}

	base := forecast.Summarize(baseRecords)
	cur := forecast.Summarize(records)

	fmt.Println(cli.RenderTitle(fmt.Sprintf("%s  vs  %s", baseline.DisplayName(), variant.DisplayName())))
	fmt.Println(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Baseline", "Scenario", "Change"},
		Rows: [][]string{
			{"Revenue", cli.FormatMoney(base.Revenue), cli.FormatMoney(cur.Revenue), cli.FormatDelta(cur.Revenue, base.Revenue)},
			{"Cost", cli.FormatMoney(base.Cost), cli.FormatMoney(cur.Cost), cli.FormatDelta(cur.Cost, base.Cost)},
			{"Profit", cli.FormatMoney(base.Profit), cli.FormatMoney(cur.Profit), cli.FormatDelta(cur.Profit, base.Profit)},
			{"Margin", cli.FormatPercent(base.Margin), cli.FormatPercent(cur.Margin), ""},
			{"Marketing", cli.FormatMoney(base.Marketing), cli.FormatMoney(cur.Marketing), cli.FormatDelta(cur.Marketing, base.Marketing)},
		},
		HighlightNegative: true,
	}))
	fmt.Println(cli.RenderTable(recordsTable(variant, records)))
	return nil
}

type scenarioResult struct {
	Baseline string               `json:"baseline" yaml:"baseline"`
	Name     string               `json:"name" yaml:"name"`
	Deltas   model.ScenarioDeltas `json:"deltas" yaml:"deltas"`
	Totals   forecast.Totals      `json:"totals" yaml:"totals"`
	Records  []model.PeriodRecord `json:"records" yaml:"records"`
}

func newScenarioResult(baseline, variant model.FinancialModel, d model.ScenarioDeltas, records []model.PeriodRecord) scenarioResult {
	return scenarioResult{
		Baseline: baseline.DisplayName(),
		Name:     variant.DisplayName(),
		Deltas:   d,
		Totals:   forecast.Summarize(records),
		Records:  records,
	}
}

func deltasFromFlags() (model.ScenarioDeltas, error) {
	d := model.ScenarioDeltas{
		Name:             flagScenName,
		MarketingSpend:   model.Percent(flagMarketing),
		Pricing:          model.Percent(flagPricing),
		AttendanceGrowth: model.Percent(flagAttendance),
		COGS:             model.Percent(flagCOGS),
	}
	if len(flagChannels) > 0 {
		d.ChannelSpend = make(map[string]model.Percent, len(flagChannels))
		for name, raw := range flagChannels {
			v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(raw), "%"), 64)
			if err != nil {
				return d, fmt.Errorf("invalid --channel %s=%s: %w", name, raw, err)
			}
			d.ChannelSpend[name] = model.Percent(v)
		}
	}
	if d.Name == "" {
		d.Name = "Custom"
	}
	return d, nil
}

func saveScenario(baseline model.FinancialModel, d model.ScenarioDeltas) error {
	if baseline.ID == "" {
		return fmt.Errorf("cannot save: baseline model has no ID; import it with `fcast models import` first")
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	sc, err := st.SaveScenario(store.Scenario{BaselineID: baseline.ID, Name: d.Name, Deltas: d})
	if err != nil {
		return fmt.Errorf("saving scenario: %w", err)
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Saved scenario %q (%s)\n", sc.Name, sc.ID)
	}
	return nil
}
