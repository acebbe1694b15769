package parser

import (
	"errors"
	"path/filepath"
	"strings"
)

// Format describes a delimited text format recognised by file extension.
type Format interface {
	CanParse(filename string) bool
	Delimiter() rune
}

var registry []Format

// Register adds a format to the registry. Later registrations do not override
// earlier ones for the same extension.
func Register(f Format) {
	registry = append(registry, f)
}

// DelimiterFor selects the field delimiter for path by extension, falling back
// to a comma.
func DelimiterFor(path string) rune {
	for _, f := range registry {
		if f.CanParse(path) {
			return f.Delimiter()
		}
	}
	return ','
}

// ParseDelimiter maps a user-supplied delimiter name to a rune. An empty name
// returns 0, meaning "choose by extension".
func ParseDelimiter(name string) (rune, error) {
	switch strings.ToLower(name) {
	case "":
		return 0, nil
	case ",", "comma":
		return ',', nil
	case ";", "semicolon":
		return ';', nil
	case "\t", "tab":
		return '\t', nil
	case "|", "pipe":
		return '|', nil
	}
	return 0, ErrUnsupportedDelimiter
}

type extFormat struct {
	exts  []string
	delim rune
}

func (f extFormat) CanParse(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range f.exts {
		if ext == e {
			return true
		}
	}
	return false
}

func (f extFormat) Delimiter() rune { return f.delim }

func init() {
	Register(extFormat{exts: []string{".csv", ".txt", ".dat"}, delim: ','})
	Register(extFormat{exts: []string{".tsv", ".tab"}, delim: '\t'})
	Register(extFormat{exts: []string{".psv"}, delim: '|'})
}

// ErrUnsupportedDelimiter indicates a delimiter name that is not recognised.
var ErrUnsupportedDelimiter = errors.New("unsupported delimiter (use ','|';'|'tab'|'|')")
