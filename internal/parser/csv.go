package parser

import (
	"encoding/csv"
	"strings"
)

// NewRowReader returns a CSV reader over already filtered text. Records may
// have differing field counts. Fields are returned as read, surrounding
// spaces included, so header names stay verbatim.
func NewRowReader(text string, delim rune) *csv.Reader {
	r := csv.NewReader(strings.NewReader(text))
	r.ReuseRecord = true
	r.FieldsPerRecord = -1
	if delim != 0 {
		r.Comma = delim
	}
	return r
}
