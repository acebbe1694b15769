package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/KaramelBytes/bfbs-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/bfbs-cli/internal/config"
	"github.com/KaramelBytes/bfbs-cli/internal/parser"
	"github.com/KaramelBytes/bfbs-cli/internal/utils"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	anaCommentChar string
	anaHeader      bool
	anaPrecision   uint
	anaSkip        int
	anaDigits      int
	anaScientific  bool
	anaVerbose     bool
	anaDelimiter   string
	anaFormat      string
	anaOutputPath  string
	anaQuiet       bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <files...>",
	Short: "Compute arbitrary-precision column statistics for each input file",
	Long: `Analyze reads every file (shell globs are expanded) and prints per-column
statistics. A file that cannot be read or parsed is reported and skipped; the
command fails at the end if any file failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := effectiveSettings(cmd)
		if err != nil {
			return err
		}
		format, err := analysis.ParseFormat(settings.Format)
		if err != nil {
			return err
		}
		delim, err := parser.ParseDelimiter(settings.Delimiter)
		if err != nil {
			return fmt.Errorf("%w: %q", err, settings.Delimiter)
		}
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		cmd.SilenceUsage = true

		opt := analysis.Options{
			Precision:   settings.Precision,
			Header:      settings.Header,
			CommentChar: settings.CommentRune(),
			Skip:        settings.Skip,
			Delimiter:   delim,
		}
		ropt := analysis.ReportOptions{
			Digits:     settings.PrintDigits,
			Scientific: settings.Scientific,
			Verbose:    settings.Verbose,
			RunID:      uuid.NewString(),
		}

		errOut := cmd.ErrOrStderr()
		total := len(files)
		reports := make([]*analysis.Report, 0, total)
		failed := 0
		for i, path := range files {
			if !anaQuiet && total > 1 {
				fmt.Fprintf(errOut, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			start := time.Now()
			ds, err := analysis.AnalyzeFile(path, opt)
			if err != nil {
				fmt.Fprintf(errOut, "✗ Error processing %s: %v\n", path, err)
				failed++
				continue
			}
			rep := analysis.NewReport(ds, ropt)
			if settings.Verbose {
				rep.ElapsedSec = time.Since(start).Seconds()
			}
			reports = append(reports, rep)
		}

		body, err := analysis.Render(reports, format)
		if err != nil {
			return err
		}
		if settings.Verbose && format == analysis.FormatText {
			body = banner(settings, ropt.RunID) + body
		}
		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, []byte(body)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			if !anaQuiet {
				fmt.Fprintf(errOut, "✓ Wrote statistics to %s\n", anaOutputPath)
			}
		} else {
			io.WriteString(cmd.OutOrStdout(), body)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, total)
		}
		return nil
	},
}

// effectiveSettings layers explicitly set flags over the loaded configuration.
func effectiveSettings(cmd *cobra.Command) (cfgpkg.Global, error) {
	s := currentConfig()
	f := cmd.Flags()
	if f.Changed("comment-char") {
		s.CommentChar = anaCommentChar
	}
	if f.Changed("header") {
		s.Header = anaHeader
	}
	if f.Changed("precision") {
		s.Precision = anaPrecision
	}
	if f.Changed("skip") {
		s.Skip = anaSkip
	}
	if f.Changed("digits") {
		s.PrintDigits = anaDigits
	}
	if f.Changed("scientific") {
		s.Scientific = anaScientific
	}
	if f.Changed("verbose") {
		s.Verbose = anaVerbose
	}
	if f.Changed("delimiter") {
		s.Delimiter = anaDelimiter
	}
	if f.Changed("format") {
		s.Format = anaFormat
	}
	if err := s.Normalize(); err != nil {
		return s, err
	}
	return s, nil
}

// expandInputs expands globs in argument order. Matches of one pattern are
// sorted; a path seen twice is analyzed once. Arguments matching nothing are
// kept verbatim so the open error is reported against them.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			matches = []string{arg}
		}
		sort.Strings(matches)
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	return files
}

func banner(s cfgpkg.Global, runID string) string {
	return fmt.Sprintf("bfbs %s (%s), run %s\nUsing %d bits of precision.\n\n",
		Version, runtime.Version(), runID, s.Precision)
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaCommentChar, "comment-char", "c", "#", "comment marker; lines starting with it are ignored (empty disables)")
	analyzeCmd.Flags().BoolVarP(&anaHeader, "header", "H", false, "first row holds column names")
	analyzeCmd.Flags().UintVarP(&anaPrecision, "precision", "P", 256, "binary precision in bits (16-1024)")
	analyzeCmd.Flags().IntVarP(&anaSkip, "skip", "s", 0, "number of leading lines to skip (0-2048)")
	analyzeCmd.Flags().IntVarP(&anaDigits, "digits", "p", analysis.DefaultDigits, "digits printed after the decimal point (0-256)")
	analyzeCmd.Flags().BoolVarP(&anaScientific, "scientific", "e", false, "print values in scientific notation")
	analyzeCmd.Flags().BoolVarP(&anaVerbose, "verbose", "v", false, "print run details and a float64 comparison")
	analyzeCmd.Flags().StringVar(&anaDelimiter, "delimiter", "", "field delimiter: ',' | ';' | 'tab' | 'pipe' (default by extension)")
	analyzeCmd.Flags().StringVar(&anaFormat, "format", "text", "output format: text | markdown | json | yaml")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "write results to this path instead of stdout")
	analyzeCmd.Flags().BoolVarP(&anaQuiet, "quiet", "q", false, "suppress progress messages")
}
