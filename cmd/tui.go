package cmd

import (
	"fmt"

	"github.com/theirongolddev/fcast/internal/model"
	"github.com/theirongolddev/fcast/internal/tui"
	"github.com/theirongolddev/fcast/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui <model>",
	Short: "Launch the interactive scenario dashboard",
	Args:  cobra.ExactArgs(1),
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, args []string) error {
	baseline, err := loadModel(args[0])
	if err != nil {
		return err
	}

	opts := tui.Options{Baseline: baseline, Workers: cfg.General.Workers}

	// The store only enables saving; the dashboard works without it.
	if st, err := openStore(); err != nil {
		log.Warn().Err(err).Msg("scenario saving disabled")
	} else {
		defer func() { _ = st.Close() }()
		opts.Store = st
		if baseline.ID != "" {
			saved, err := st.ListScenarios(baseline.ID)
			if err != nil {
				return err
			}
			opts.Saved = make([]model.ScenarioDeltas, 0, len(saved))
			for _, sc := range saved {
				opts.Saved = append(opts.Saved, sc.Deltas)
			}
		}
	}

	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	p := tea.NewProgram(tui.NewApp(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
