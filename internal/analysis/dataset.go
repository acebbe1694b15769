package analysis

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"bitbucket.org/creachadair/stringset"

	"github.com/KaramelBytes/bfbs-cli/internal/numeric"
	"github.com/KaramelBytes/bfbs-cli/internal/parser"
	"github.com/KaramelBytes/bfbs-cli/internal/stats"
)

// Options controls how a file is turned into a Dataset.
type Options struct {
	// Precision is the significand width in bits of every value in the run.
	Precision uint
	// Header declares that the first row holds column names.
	Header bool
	// CommentChar marks comment lines after trimming. 0 disables comments.
	CommentChar rune
	// Skip drops this many raw lines before comment and blank filtering.
	Skip int
	// Delimiter for fields. If 0, chosen from the file extension.
	Delimiter rune
}

// DefaultOptions returns the defaults used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Precision:   numeric.DefaultPrecision,
		CommentChar: '#',
	}
}

// ErrDuplicateColumn is returned when a header row names the same column twice.
var ErrDuplicateColumn = errors.New("duplicate column name")

// Dataset maps column names, in input order, to their accumulators. It is
// built from a single file and not modified afterwards.
type Dataset struct {
	Name string
	// Lines describes the raw line filtering.
	Lines parser.FilterStats
	// Rows is the number of data rows routed (the header row is excluded).
	Rows int
	// Missing counts blank cells; Rejected counts non-blank cells that are
	// not numbers. Neither contributes to any column.
	Missing  int
	Rejected int

	ctx   numeric.Context
	names []string
	cols  map[string]*stats.Column
}

func newDataset(name string, ctx numeric.Context) *Dataset {
	return &Dataset{Name: name, ctx: ctx, cols: make(map[string]*stats.Column)}
}

// Context returns the numeric context shared by all columns.
func (d *Dataset) Context() numeric.Context { return d.ctx }

// Columns returns the column names in input order.
func (d *Dataset) Columns() []string { return append([]string(nil), d.names...) }

// Column returns the accumulator for name.
func (d *Dataset) Column(name string) (*stats.Column, bool) {
	c, ok := d.cols[name]
	return c, ok
}

// Len is the number of columns.
func (d *Dataset) Len() int { return len(d.names) }

// setHeader establishes the columns from a header row.
func (d *Dataset) setHeader(rec []string) error {
	var seen stringset.Set
	for _, name := range rec {
		if seen.Contains(name) {
			return fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
		}
		seen.Add(name)
	}
	for _, name := range rec {
		d.addColumn(name)
	}
	return nil
}

// synthesize names width columns col1..colN.
func (d *Dataset) synthesize(width int) {
	for i := 1; i <= width; i++ {
		d.addColumn("col" + strconv.Itoa(i))
	}
}

func (d *Dataset) addColumn(name string) {
	d.names = append(d.names, name)
	d.cols[name] = stats.NewColumn(d.ctx)
}

// route adds each numeric cell of rec to the column at the same position.
// Cells past the last column are ignored.
func (d *Dataset) route(rec []string) {
	d.Rows++
	for i, cell := range rec {
		if i >= len(d.names) {
			break
		}
		v, err := d.ctx.Parse(cell)
		if err != nil {
			if strings.TrimSpace(cell) == "" {
				d.Missing++
			} else {
				d.Rejected++
			}
			continue
		}
		d.cols[d.names[i]].Add(v)
	}
}

// AnalyzeFile opens path and builds its Dataset.
func AnalyzeFile(path string, opt Options) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()
	return Analyze(path, f, opt)
}

// Analyze filters the lines of r, parses them as delimited rows and routes
// every row into a new Dataset. name is used for reporting and, when
// opt.Delimiter is 0, to pick the delimiter.
//
// Input without any row yields an empty Dataset. Read and row-structure
// errors abort the whole input.
func Analyze(name string, r io.Reader, opt Options) (*Dataset, error) {
	ctx, err := numeric.NewContext(opt.Precision)
	if err != nil {
		return nil, err
	}
	text, lines, err := parser.FilterLines(r, parser.FilterOptions{Skip: opt.Skip, CommentChar: opt.CommentChar})
	if err != nil {
		return nil, err
	}
	ds := newDataset(name, ctx)
	ds.Lines = lines

	delim := opt.Delimiter
	if delim == 0 {
		delim = parser.DelimiterFor(name)
	}
	rr := parser.NewRowReader(text, delim)

	first, err := rr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ds, nil
		}
		return nil, fmt.Errorf("read row 1: %w", err)
	}
	if opt.Header {
		if err := ds.setHeader(first); err != nil {
			return nil, err
		}
	} else {
		ds.synthesize(len(first))
		ds.route(first)
	}

	for n := 2; ; n++ {
		rec, err := rr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", n, err)
		}
		ds.route(rec)
	}
	return ds, nil
}
