package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// FilterOptions controls which raw lines reach the row parser.
type FilterOptions struct {
	// Skip drops this many raw lines from the start of the input.
	Skip int
	// CommentChar marks comment lines (after trimming). 0 disables comments.
	CommentChar rune
}

// FilterStats counts what FilterLines did with each raw line.
type FilterStats struct {
	Raw      int `json:"raw" yaml:"raw"`
	Skipped  int `json:"skipped" yaml:"skipped"`
	Comments int `json:"comments" yaml:"comments"`
	Blanks   int `json:"blanks" yaml:"blanks"`
	Kept     int `json:"kept" yaml:"kept"`
}

// FilterLines reads r line by line and returns the lines that are neither in
// the skipped prefix, blank, nor comments, joined by newlines.
func FilterLines(r io.Reader, opt FilterOptions) (string, FilterStats, error) {
	var st FilterStats
	var b strings.Builder
	br := bufio.NewReader(r)
	prefix := ""
	if opt.CommentChar != 0 {
		prefix = string(opt.CommentChar)
	}
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			st.Raw++
			trimmed := strings.TrimSpace(line)
			switch {
			case st.Raw <= opt.Skip:
				st.Skipped++
			case trimmed == "":
				st.Blanks++
			case prefix != "" && strings.HasPrefix(trimmed, prefix):
				st.Comments++
			default:
				st.Kept++
				b.WriteString(strings.TrimRight(line, "\r\n"))
				b.WriteByte('\n')
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return "", st, fmt.Errorf("read line %d: %w", st.Raw+1, err)
		}
	}
	return b.String(), st, nil
}
