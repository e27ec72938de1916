package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/export"
	"github.com/theirongolddev/fcast/internal/model"
	"github.com/theirongolddev/fcast/internal/pipeline"
	"github.com/theirongolddev/fcast/internal/scenario"

	"github.com/spf13/cobra"
)

var (
	flagPresets bool
	flagStored  bool
)

var compareCmd = &cobra.Command{
	Use:   "compare <model> [model...]",
	Short: "Compare scenarios side by side",
	Long: `Compare scenarios side by side.

With one model, the pessimistic, realistic, and optimistic presets are
derived from it. With several models, they are compared as given and the
first one is treated as the baseline.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().BoolVar(&flagPresets, "presets", true, "Derive preset scenarios from a single model")
	compareCmd.Flags().BoolVar(&flagStored, "stored", false, "Include scenarios saved against the model")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(_ *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	models := make([]model.FinancialModel, 0, len(args))
	for _, ref := range args {
		m, err := loadModel(ref)
		if err != nil {
			return err
		}
		models = append(models, m)
	}

	if len(models) == 1 {
		models, err = scenarioSet(models[0])
		if err != nil {
			return err
		}
	}

	cmp := pipeline.Compare(models, cfg.General.Workers)

	switch format {
	case export.FormatJSON:
		return export.WriteJSON(os.Stdout, cmp)
	case export.FormatYAML:
		return export.WriteYAML(os.Stdout, cmp)
	case export.FormatCSV:
		return fmt.Errorf("csv output is only available for single forecasts")
	}

	printComparison(cmp)
	return nil
}

// scenarioSet builds the variants compared against a single baseline.
func scenarioSet(baseline model.FinancialModel) ([]model.FinancialModel, error) {
	deltas := []model.ScenarioDeltas{{}}
	if flagPresets {
		deltas = scenario.Presets()
	}

	if flagStored && baseline.ID != "" {
		st, err := openStore()
		if err != nil {
			return nil, err
		}
		defer func() { _ = st.Close() }()

		saved, err := st.ListScenarios(baseline.ID)
		if err != nil {
			return nil, fmt.Errorf("listing saved scenarios: %w", err)
		}
		for _, sc := range saved {
			deltas = append(deltas, sc.Deltas)
		}
	}

	if len(deltas) == 1 {
		return nil, fmt.Errorf("nothing to compare: enable --presets, use --stored, or pass several models")
	}
	return scenario.ApplyAll(baseline, deltas...), nil
}

func printComparison(cmp scenario.Comparison) {
	fmt.Println(cli.RenderTitle(fmt.Sprintf("Scenario Comparison  |  %d scenarios", len(cmp.Scenarios))))

	rows := make([][]string, 0, len(cmp.Scenarios))
	for _, o := range cmp.Scenarios {
		name := o.Name
		if o.Primary {
			name += " *"
		}
		rows = append(rows, []string{
			name,
			cli.FormatMoney(o.Totals.Revenue),
			cli.FormatMoney(o.Totals.Cost),
			cli.FormatMoney(o.Totals.Profit),
			cli.FormatPercent(o.Totals.Margin),
			cli.FormatSignedPercent(o.GrowthRate),
			cli.FormatMoney(o.MarketingBudget),
		})
	}
	fmt.Println(cli.RenderTable(cli.Table{
		Headers:           []string{"Scenario", "Revenue", "Cost", "Profit", "Margin", "Growth", "Marketing"},
		Rows:              rows,
		HighlightNegative: true,
	}))

	metric := func(label string, s model.MetricStats, f func(float64) string) []string {
		return []string{label, f(s.Min), f(s.Max), f(s.Average), f(s.Median), f(s.Primary)}
	}
	fmt.Println(cli.RenderTable(cli.Table{
		Title:   "Metrics",
		Headers: []string{"Metric", "Min", "Max", "Average", "Median", "Primary"},
		Rows: [][]string{
			metric("Revenue", cmp.Metrics.Revenue, cli.FormatMoney),
			metric("Cost", cmp.Metrics.Cost, cli.FormatMoney),
			metric("Profit", cmp.Metrics.Profit, cli.FormatMoney),
			metric("Margin", cmp.Metrics.Margin, cli.FormatPercent),
		},
		HighlightNegative: true,
	}))

	fmt.Println(cli.RenderKV([]cli.KV{
		{Label: "Primary", Value: cmp.Primary},
		{Label: "Variance", Value: fmt.Sprintf("%s (%.1f%%)", cmp.Variance, cmp.VariancePercent)},
	}))
	fmt.Println()

	if len(cmp.KeyDifferences) > 0 {
		fmt.Println(cli.RenderList("Key Differences", cmp.KeyDifferences, false))
	}
	if len(cmp.RiskFactors) > 0 {
		fmt.Println(cli.RenderList("Risk Factors", cmp.RiskFactors, true))
	}
}
