// Package cmd implements the fcast CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/fcast/internal/config"
	"github.com/theirongolddev/fcast/internal/export"
	"github.com/theirongolddev/fcast/internal/logging"
	"github.com/theirongolddev/fcast/internal/model"
	"github.com/theirongolddev/fcast/internal/source"
	"github.com/theirongolddev/fcast/internal/store"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	flagModelsDir string
	flagStorePath string
	flagWorkers   int
	flagFormat    string
	flagQuiet     bool
	flagLogLevel  string
)

// cfg is the effective configuration: file, then environment, then flags.
var cfg = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:               "fcast",
	Short:             "Financial forecasting for events and small businesses",
	Long:              "Project revenue, costs, and profit period by period, and compare what-if scenarios.",
	SilenceUsage:      true,
	PersistentPreRunE: initRuntime,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagModelsDir, "models-dir", "d", "", "Directory of model files")
	rootCmd.PersistentFlags().StringVar(&flagStorePath, "store", "", "Model database path")
	rootCmd.PersistentFlags().IntVarP(&flagWorkers, "workers", "w", 0, "Parallel workers (0 = one per CPU)")
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "", "Output format: table, json, yaml, csv")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// initRuntime loads configuration, applies flag overrides, and sets up
// logging before any command runs.
func initRuntime(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}
	cfg = loaded

	flags := cmd.Flags()
	if flags.Changed("models-dir") {
		cfg.General.ModelsDir = flagModelsDir
	}
	if flags.Changed("store") {
		cfg.Store.Path = flagStorePath
	}
	if flags.Changed("workers") {
		cfg.General.Workers = flagWorkers
	}
	if flags.Changed("format") {
		cfg.General.DefaultFormat = flagFormat
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = flagLogLevel
	}

	logging.New(logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	return nil
}

func outputFormat() (export.Format, error) {
	return export.ParseFormat(cfg.General.DefaultFormat)
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.StorePath(cfg))
	if err != nil {
		return nil, fmt.Errorf("opening model store: %w", err)
	}
	return st, nil
}

// loadModel resolves ref as a model file path, a stored model ID, or a
// stored model name, in that order.
func loadModel(ref string) (model.FinancialModel, error) {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		res := source.ParseFile(source.DiscoveredFile{Path: ref, Format: source.FormatOf(ref)})
		if res.Err != nil {
			return model.FinancialModel{}, res.Err
		}
		log.Debug().Str("path", ref).Str("model", res.Model.ID).Msg("loaded model file")
		return res.Model, nil
	}

	st, err := openStore()
	if err != nil {
		return model.FinancialModel{}, err
	}
	defer func() { _ = st.Close() }()

	return findStored(st, ref)
}

func findStored(st *store.Store, ref string) (model.FinancialModel, error) {
	m, err := st.GetModel(ref)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return model.FinancialModel{}, err
	}

	summaries, err := st.ListModels()
	if err != nil {
		return model.FinancialModel{}, err
	}
	var matches []store.ModelSummary
	for _, s := range summaries {
		if strings.EqualFold(s.Name, ref) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return model.FinancialModel{}, fmt.Errorf("no model file or stored model named %q", ref)
	case 1:
		return st.GetModel(matches[0].ID)
	}
	return model.FinancialModel{}, fmt.Errorf("%d stored models are named %q; use the ID", len(matches), ref)
}

// progress prints a parse counter to stderr unless --quiet is set.
func progress(current, total int) {
	if flagQuiet {
		return
	}
	if current%10 == 0 || current == total {
		fmt.Fprintf(os.Stderr, "\r  Parsing [%d/%d]", current, total)
	}
}
