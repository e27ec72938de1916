package cmd

import (
	"fmt"

	"github.com/theirongolddev/fcast/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Printf("  Environment overrides use the %s prefix.\n", config.EnvPrefix)
	fmt.Println()

	fmt.Println("  [General]")
	if cfg.General.ModelsDir != "" {
		fmt.Printf("    Models directory: %s\n", cfg.General.ModelsDir)
	} else {
		fmt.Println("    Models directory: not set")
	}
	if cfg.General.Workers > 0 {
		fmt.Printf("    Workers:          %d\n", cfg.General.Workers)
	} else {
		fmt.Println("    Workers:          one per CPU")
	}
	fmt.Printf("    Default format:   %s\n", cfg.General.DefaultFormat)
	fmt.Println()

	fmt.Println("  [Store]")
	fmt.Printf("    Path: %s\n", config.StorePath(cfg))
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address: %s\n", cfg.Server.Addr)
	fmt.Println()

	fmt.Println("  [Logging]")
	fmt.Printf("    Level:  %s\n", cfg.Logging.Level)
	fmt.Printf("    Format: %s\n", cfg.Logging.Format)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `fcast setup` to reconfigure.")
	return nil
}
