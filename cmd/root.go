package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/bfbs-cli/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "bfbs",
	Short: "bfbs: arbitrary-precision descriptive statistics for delimited numeric data",
	Long: `bfbs reads one or more CSV-like text files and reports, per column, the count,
minimum, mean, median, maximum, range, sum, sample variance and standard deviation.
Every value is held as a binary floating-point number with a user-chosen precision
(16 to 1024 bits), so long or badly conditioned data keeps its accuracy.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.SilenceErrors = true
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.bfbs/config.yaml)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = cfgpkg.Default()
		return
	}
	cfg = c
}

// currentConfig returns a copy of the loaded configuration so commands can
// layer flag overrides without mutating the shared value.
func currentConfig() cfgpkg.Global {
	if cfg == nil {
		return *cfgpkg.Default()
	}
	return *cfg
}
