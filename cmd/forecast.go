package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/export"
	"github.com/theirongolddev/fcast/internal/forecast"
	"github.com/theirongolddev/fcast/internal/model"
	"github.com/theirongolddev/fcast/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagBreakdown bool

var forecastCmd = &cobra.Command{
	Use:   "forecast <model>",
	Short: "Project a model period by period",
	Long:  "Project a model file or stored model (by ID or name) over its full horizon.",
	Args:  cobra.ExactArgs(1),
	RunE:  runForecast,
}

func init() {
	forecastCmd.Flags().BoolVar(&flagBreakdown, "breakdown", false, "Show revenue, cost, and marketing breakdown")
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(_ *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	m, err := loadModel(args[0])
	if err != nil {
		return err
	}
	records, err := forecast.Try(m)
	if err != nil {
		return err
	}

	if format != export.FormatTable {
		return export.WriteRecords(os.Stdout, format, records)
	}

	totals := forecast.Summarize(records)
	fmt.Println(cli.RenderTitle(fmt.Sprintf("%s  |  %d %s", m.DisplayName(), len(records), unitPlural(m))))
	fmt.Println(cli.RenderTable(recordsTable(m, records)))
	fmt.Println(cli.RenderKV(totalsKV(totals)))
	fmt.Println()

	profits := make([]float64, len(records))
	for i, r := range records {
		profits[i] = r.Profit
	}
	fmt.Printf("  Profit trend  %s\n\n", cli.RenderSparkline(profits))

	if flagBreakdown {
		printBreakdown(pipeline.BreakdownOf(m))
	}
	return nil
}

func unitPlural(m model.FinancialModel) string {
	if m.Duration.Unit == model.UnitWeekly {
		return "weeks"
	}
	return "months"
}

func recordsTable(m model.FinancialModel, records []model.PeriodRecord) cli.Table {
	withAttendance := len(records) > 0 && records[0].Attendance != nil

	headers := []string{"Period", "Revenue", "Cost", "Profit", "Cum. Profit", "Marketing"}
	if withAttendance {
		headers = append(headers, "Attendance")
	}

	rows := make([][]string, 0, len(records)+2)
	for _, r := range records {
		row := []string{
			m.PeriodLabel(r.Period),
			cli.FormatMoney(r.Revenue),
			cli.FormatMoney(r.Cost),
			cli.FormatMoney(r.Profit),
			cli.FormatMoney(r.CumulativeProfit),
			cli.FormatMoney(r.MarketingCost),
		}
		if withAttendance {
			row = append(row, cli.FormatNumber(*r.Attendance))
		}
		rows = append(rows, row)
	}

	if len(records) > 0 {
		last := records[len(records)-1]
		rows = append(rows, []string{"---"})
		total := []string{
			"Total",
			cli.FormatMoney(last.CumulativeRevenue),
			cli.FormatMoney(last.CumulativeCost),
			cli.FormatMoney(last.CumulativeProfit),
			"",
			cli.FormatMoney(forecast.Summarize(records).Marketing),
		}
		if withAttendance {
			total = append(total, "")
		}
		rows = append(rows, total)
	}

	return cli.Table{Headers: headers, Rows: rows, HighlightNegative: true}
}

func totalsKV(t forecast.Totals) []cli.KV {
	pairs := []cli.KV{
		{Label: "Revenue", Value: cli.FormatMoney(t.Revenue)},
		{Label: "Cost", Value: cli.FormatMoney(t.Cost)},
		{Label: "Profit", Value: cli.RenderSigned(t.Profit, cli.FormatMoney(t.Profit))},
		{Label: "Margin", Value: cli.FormatPercent(t.Margin)},
		{Label: "Marketing", Value: cli.FormatMoney(t.Marketing)},
	}
	if t.PeakAttendance > 0 {
		pairs = append(pairs, cli.KV{Label: "Peak attendance", Value: cli.FormatNumber(t.PeakAttendance)})
	}
	if t.BreakEven > 0 {
		pairs = append(pairs, cli.KV{Label: "Break-even", Value: fmt.Sprintf("period %d", t.BreakEven)})
	} else {
		pairs = append(pairs, cli.KV{Label: "Break-even", Value: "not reached"})
	}
	return pairs
}

func printBreakdown(b pipeline.Breakdown) {
	if len(b.Revenue) > 0 {
		rows := make([][]string, 0, len(b.Revenue))
		for _, r := range b.Revenue {
			rows = append(rows, []string{r.Label, cli.FormatMoney(r.Revenue), cli.FormatPercent(r.SharePercent / 100)})
		}
		fmt.Println(cli.RenderTable(cli.Table{
			Title:   "Revenue by Stream",
			Headers: []string{"Stream", "Revenue", "Share"},
			Rows:    rows,
		}))
	}

	fmt.Println(cli.RenderTable(cli.Table{
		Title:   "Costs",
		Headers: []string{"Component", "Amount"},
		Rows: [][]string{
			{"Attributed", cli.FormatMoney(b.Costs.Attributed)},
			{"Categories", cli.FormatMoney(b.Costs.Categories)},
			{"Staff", cli.FormatMoney(b.Costs.Staff)},
			{"Marketing", cli.FormatMoney(b.Costs.Marketing)},
			{"---"},
			{"Total", cli.FormatMoney(b.Costs.Total)},
		},
	}))

	if len(b.Channels) > 0 {
		var maxSpend float64
		for _, c := range b.Channels {
			if c.Spend > maxSpend {
				maxSpend = c.Spend
			}
		}
		fmt.Println(cli.RenderTitle("Marketing by Channel"))
		for _, c := range b.Channels {
			fmt.Println(cli.RenderHorizontalBar(c.Channel, c.Spend, maxSpend, 30))
		}
		fmt.Println()
	}
}
