package analysis

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/bfbs-cli/internal/utils"
)

// Format selects how reports are rendered.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// ErrUnsupportedFormat indicates an unknown output format name.
var ErrUnsupportedFormat = errors.New("unsupported format (use text|markdown|json|yaml)")

// ParseFormat maps a user-supplied name to a Format. Empty means text.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// Render renders reports in the given format. JSON output is a single array;
// YAML output is one document per report.
func Render(reports []*Report, f Format) (string, error) {
	switch f {
	case FormatText, "":
		parts := make([]string, len(reports))
		for i, r := range reports {
			parts[i] = r.Text()
		}
		return strings.Join(parts, "\n"), nil
	case FormatMarkdown:
		parts := make([]string, len(reports))
		for i, r := range reports {
			parts[i] = r.Markdown()
		}
		return strings.Join(parts, "\n"), nil
	case FormatJSON:
		if reports == nil {
			reports = []*Report{}
		}
		b, err := utils.PrettyJSON(reports)
		if err != nil {
			return "", err
		}
		return string(b) + "\n", nil
	case FormatYAML:
		var b strings.Builder
		enc := yaml.NewEncoder(&b)
		enc.SetIndent(2)
		for _, r := range reports {
			if err := enc.Encode(r); err != nil {
				return "", fmt.Errorf("marshal yaml: %w", err)
			}
		}
		if err := enc.Close(); err != nil {
			return "", fmt.Errorf("marshal yaml: %w", err)
		}
		return b.String(), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
}
