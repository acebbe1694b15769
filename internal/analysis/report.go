package analysis

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/bfbs-cli/internal/numeric"
	"github.com/KaramelBytes/bfbs-cli/internal/parser"
	"github.com/KaramelBytes/bfbs-cli/internal/stats"
)

const (
	// MaxDigits bounds the number of digits rendered per value.
	MaxDigits = 256
	// DefaultDigits is the number of digits rendered when none is configured.
	DefaultDigits = 64
)

// ReportOptions controls how statistics are rendered.
type ReportOptions struct {
	// Digits after the decimal point (of the mantissa in scientific notation).
	Digits     int
	Scientific bool
	// Verbose adds line diagnostics and a float64 baseline per column.
	Verbose bool
	// RunID identifies the invocation that produced the report.
	RunID string
}

// Report is the rendered statistics of one Dataset.
type Report struct {
	RunID      string             `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	File       string             `json:"file" yaml:"file"`
	Precision  uint               `json:"precision_bits" yaml:"precision_bits"`
	Digits     int                `json:"digits" yaml:"digits"`
	Notation   string             `json:"notation" yaml:"notation"`
	Lines      parser.FilterStats `json:"lines" yaml:"lines"`
	Rows       int                `json:"rows" yaml:"rows"`
	Missing    int                `json:"missing_cells" yaml:"missing_cells"`
	Rejected   int                `json:"rejected_cells" yaml:"rejected_cells"`
	ElapsedSec float64            `json:"elapsed_sec,omitempty" yaml:"elapsed_sec,omitempty"`
	Cols       []ColumnReport     `json:"columns" yaml:"columns"`

	verbose bool
}

// ColumnReport carries one column's statistics as rendered text. Numeric
// fields are empty when the column received no valid values.
type ColumnReport struct {
	Name     string    `json:"name" yaml:"name"`
	Count    uint64    `json:"count" yaml:"count"`
	Empty    bool      `json:"empty,omitempty" yaml:"empty,omitempty"`
	Min      string    `json:"min,omitempty" yaml:"min,omitempty"`
	Mean     string    `json:"mean,omitempty" yaml:"mean,omitempty"`
	Median   string    `json:"median,omitempty" yaml:"median,omitempty"`
	Max      string    `json:"max,omitempty" yaml:"max,omitempty"`
	Range    string    `json:"range,omitempty" yaml:"range,omitempty"`
	Sum      string    `json:"sum,omitempty" yaml:"sum,omitempty"`
	Variance string    `json:"variance,omitempty" yaml:"variance,omitempty"`
	StdDev   string    `json:"stddev,omitempty" yaml:"stddev,omitempty"`
	Baseline *Baseline `json:"float64_baseline,omitempty" yaml:"float64_baseline,omitempty"`
}

// NewReport computes the statistics of every column of ds and renders them.
func NewReport(ds *Dataset, opt ReportOptions) *Report {
	digits := clampDigits(opt.Digits)
	format := byte('f')
	notation := "fixed"
	if opt.Scientific {
		format = 'e'
		notation = "scientific"
	}
	text := func(v numeric.Value) string { return v.Text(format, digits) }

	rep := &Report{
		RunID:     opt.RunID,
		File:      ds.Name,
		Precision: ds.Context().Precision(),
		Digits:    digits,
		Notation:  notation,
		Lines:     ds.Lines,
		Rows:      ds.Rows,
		Missing:   ds.Missing,
		Rejected:  ds.Rejected,
		verbose:   opt.Verbose,
	}
	for _, name := range ds.Columns() {
		col, _ := ds.Column(name)
		cr := ColumnReport{Name: name, Count: col.Count()}
		if col.Empty() {
			cr.Empty = true
			rep.Cols = append(rep.Cols, cr)
			continue
		}
		s := stats.Summarize(col)
		cr.Min = text(s.Min)
		cr.Mean = text(s.Mean)
		cr.Median = text(s.Median)
		cr.Max = text(s.Max)
		cr.Range = text(s.Range)
		cr.Sum = text(s.Sum)
		cr.Variance = text(s.Variance)
		cr.StdDev = text(s.StdDev)
		if opt.Verbose {
			cr.Baseline = baselineFor(col, s)
		}
		rep.Cols = append(rep.Cols, cr)
	}
	return rep
}

func clampDigits(d int) int {
	if d < 0 {
		return 0
	}
	if d > MaxDigits {
		return MaxDigits
	}
	return d
}

// Text renders the report as labelled column blocks.
func (r *Report) Text() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Processing file: %q\n", r.File))
	if r.verbose {
		b.WriteString(fmt.Sprintf("Using %d bits of precision, %d %s digits.\n", r.Precision, r.Digits, r.Notation))
		b.WriteString(fmt.Sprintf("Lines: %d read, %d skipped, %d comments, %d blank, %d kept\n",
			r.Lines.Raw, r.Lines.Skipped, r.Lines.Comments, r.Lines.Blanks, r.Lines.Kept))
		b.WriteString(fmt.Sprintf("Rows: %d (missing cells %d, non-numeric cells %d)\n", r.Rows, r.Missing, r.Rejected))
	}
	if len(r.Cols) == 0 {
		b.WriteString("  No rows\n")
	}
	for _, c := range r.Cols {
		b.WriteString(fmt.Sprintf("Column: %s\n", c.Name))
		b.WriteString(fmt.Sprintf("  Count     : %d\n", c.Count))
		if c.Empty {
			b.WriteString("  No valid data\n")
			continue
		}
		b.WriteString("  Minimum   : " + c.Min + "\n")
		b.WriteString("  Mean      : " + c.Mean + "\n")
		b.WriteString("  Median    : " + c.Median + "\n")
		b.WriteString("  Maximum   : " + c.Max + "\n")
		b.WriteString("  Range     : " + c.Range + "\n")
		b.WriteString("  Sum       : " + c.Sum + "\n")
		b.WriteString("  Variance  : " + c.Variance + "\n")
		b.WriteString("  Std. Dev. : " + c.StdDev + "\n")
		if bl := c.Baseline; bl != nil {
			b.WriteString(fmt.Sprintf("  float64 mean     : %.17g (%s)\n", bl.Mean, agreeText(bl.MeanDigits)))
			b.WriteString(fmt.Sprintf("  float64 variance : %.17g (%s)\n", bl.Variance, agreeText(bl.VarianceDigits)))
		}
	}
	if r.ElapsedSec > 0 {
		b.WriteString(fmt.Sprintf("Execution time was %.6f [sec]\n", r.ElapsedSec))
	}
	return b.String()
}

func agreeText(digits int) string {
	if digits >= MaxBaselineDigits {
		return "agrees to all float64 digits"
	}
	return fmt.Sprintf("agrees to %d digits", digits)
}

// Markdown renders a compact table suitable for standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	b.WriteString(fmt.Sprintf("File: %s\n", r.File))
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(r.Cols)))
	b.WriteString(fmt.Sprintf("Precision: %d bits, %d digits (%s)\n", r.Precision, r.Digits, r.Notation))
	if len(r.Cols) > 0 {
		b.WriteString("\n[STATISTICS]\n")
		b.WriteString("| column | count | min | mean | median | max | range | sum | variance | std. dev. |\n")
		b.WriteString("| --- | --- | --- | --- | --- | --- | --- | --- | --- | --- |\n")
		for _, c := range r.Cols {
			if c.Empty {
				b.WriteString(fmt.Sprintf("| %s | 0 | no valid data | | | | | | | |\n", safeName(c.Name)))
				continue
			}
			b.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s | %s | %s | %s | %s | %s |\n",
				safeName(c.Name), c.Count, c.Min, c.Mean, c.Median, c.Max, c.Range, c.Sum, c.Variance, c.StdDev))
		}
	}
	var notes []string
	if r.Rejected > 0 {
		notes = append(notes, fmt.Sprintf("%d non-numeric cells were ignored", r.Rejected))
	}
	if r.Missing > 0 {
		notes = append(notes, fmt.Sprintf("%d blank cells were ignored", r.Missing))
	}
	if r.verbose {
		notes = append(notes, fmt.Sprintf("lines: %d read, %d skipped, %d comments, %d blank",
			r.Lines.Raw, r.Lines.Skipped, r.Lines.Comments, r.Lines.Blanks))
		for _, c := range r.Cols {
			if c.Baseline != nil {
				notes = append(notes, fmt.Sprintf("%s: float64 mean %.17g (%s), variance %.17g (%s)",
					safeName(c.Name), c.Baseline.Mean, agreeText(c.Baseline.MeanDigits),
					c.Baseline.Variance, agreeText(c.Baseline.VarianceDigits)))
			}
		}
	}
	if len(notes) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, n := range notes {
			b.WriteString("- ")
			b.WriteString(n)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}
