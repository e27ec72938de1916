package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/export"
	"github.com/theirongolddev/fcast/internal/pipeline"

	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Manage stored models",
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored models",
	Args:  cobra.NoArgs,
	RunE:  runModelsList,
}

var modelsImportCmd = &cobra.Command{
	Use:   "import [dir]",
	Short: "Import changed model files from a directory",
	Long:  "Import model files from dir (or the configured models directory). Unchanged files are skipped; models whose files were removed are deleted.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runModelsImport,
}

var modelsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored model",
	Args:  cobra.ExactArgs(1),
	RunE:  runModelsShow,
}

var modelsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored model and its scenarios",
	Args:  cobra.ExactArgs(1),
	RunE:  runModelsDelete,
}

func init() {
	modelsCmd.AddCommand(modelsListCmd, modelsImportCmd, modelsShowCmd, modelsDeleteCmd)
	rootCmd.AddCommand(modelsCmd)
}

func runModelsList(_ *cobra.Command, _ []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	summaries, err := st.ListModels()
	if err != nil {
		return err
	}

	switch format {
	case export.FormatJSON:
		return export.WriteJSON(os.Stdout, summaries)
	case export.FormatYAML:
		return export.WriteYAML(os.Stdout, summaries)
	}

	if len(summaries) == 0 {
		fmt.Println("\n  No stored models. Run `fcast models import <dir>` to add some.")
		return nil
	}

	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.ID,
			s.Name,
			fmt.Sprintf("%d %s", s.Length, s.Unit),
			s.UpdatedAt.Local().Format("2006-01-02 15:04"),
			s.SourcePath,
		})
	}
	fmt.Println(cli.RenderTitle(fmt.Sprintf("Stored Models  |  %d", len(summaries))))
	fmt.Println(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Name", "Horizon", "Updated", "Source"},
		Rows:    rows,
	}))
	return nil
}

func runModelsImport(_ *cobra.Command, args []string) error {
	dir := cfg.General.ModelsDir
	if len(args) == 1 {
		dir = args[0]
	}
	if dir == "" {
		return fmt.Errorf("no directory given and no models_dir configured")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	res, err := pipeline.SyncDir(dir, st, cfg.General.Workers, progress)
	if err != nil {
		return err
	}
	if !flagQuiet && res.Reparsed > 0 {
		fmt.Fprintln(os.Stderr)
	}

	fmt.Println(cli.RenderTitle("Import  |  " + dir))
	fmt.Println(cli.RenderKV([]cli.KV{
		{Label: "Files", Value: strconv.Itoa(res.TotalFiles)},
		{Label: "Groups", Value: strconv.Itoa(res.GroupCount)},
		{Label: "Imported", Value: strconv.Itoa(res.Reparsed - len(res.FileErrors))},
		{Label: "Unchanged", Value: strconv.Itoa(res.Unchanged)},
		{Label: "Removed", Value: strconv.Itoa(res.Removed)},
		{Label: "Stored", Value: strconv.Itoa(len(res.Models))},
	}))
	fmt.Println()

	if len(res.FileErrors) > 0 {
		items := make([]string, len(res.FileErrors))
		for i, fe := range res.FileErrors {
			items[i] = fe.Error()
		}
		fmt.Println(cli.RenderList("Files With Errors", items, true))
	}
	return nil
}

func runModelsShow(_ *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	m, err := findStored(st, args[0])
	if err != nil {
		return err
	}
	scenarios, err := st.ListScenarios(m.ID)
	if err != nil {
		return err
	}

	switch format {
	case export.FormatJSON:
		return export.WriteJSON(os.Stdout, m)
	case export.FormatYAML:
		return export.WriteYAML(os.Stdout, m)
	}

	fmt.Println(cli.RenderTitle(m.DisplayName()))
	pairs := []cli.KV{
		{Label: "ID", Value: m.ID},
		{Label: "Horizon", Value: fmt.Sprintf("%d %s", m.Duration.Length, unitPlural(m))},
		{Label: "Revenue streams", Value: strconv.Itoa(len(m.RevenueStreams))},
		{Label: "Cost categories", Value: strconv.Itoa(len(m.CostCategories))},
		{Label: "Marketing", Value: string(m.Marketing.Mode)},
	}
	if m.AttendanceDriven() {
		pairs = append(pairs, cli.KV{Label: "Initial attendance", Value: cli.FormatNumber(m.Event.InitialAttendance)})
	}
	fmt.Println(cli.RenderKV(pairs))
	fmt.Println()

	printBreakdown(pipeline.BreakdownOf(m))

	if len(scenarios) > 0 {
		rows := make([][]string, 0, len(scenarios))
		for _, sc := range scenarios {
			d := sc.Deltas
			rows = append(rows, []string{
				sc.ID,
				sc.Name,
				cli.FormatSignedPercent(float64(d.MarketingSpend)),
				cli.FormatSignedPercent(float64(d.Pricing)),
				fmt.Sprintf("%+gpt", float64(d.AttendanceGrowth)),
				cli.FormatSignedPercent(float64(d.COGS)),
			})
		}
		fmt.Println(cli.RenderTable(cli.Table{
			Title:   "Saved Scenarios",
			Headers: []string{"ID", "Name", "Marketing", "Pricing", "Attendance", "COGS"},
			Rows:    rows,
		}))
	}
	return nil
}

func runModelsDelete(_ *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	m, err := findStored(st, args[0])
	if err != nil {
		return err
	}
	if err := st.DeleteModel(m.ID); err != nil {
		return err
	}
	if !flagQuiet {
		fmt.Printf("  Deleted %s (%s)\n", m.DisplayName(), m.ID)
	}
	return nil
}
