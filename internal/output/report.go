package output

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rpgo/goal-planner/internal/domain"
)

// ErrUnsupportedFormat is returned for a format name no formatter answers to.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// Render formats a report in memory with the named formatter.
func Render(report *domain.PlanReport, format string) ([]byte, error) {
	f := GetFormatterByName(format)
	if f == nil {
		return nil, unsupported(format)
	}
	return f.Format(report)
}

// GenerateReport writes a report file in dir and returns the file names written.
// The format "all" writes the verbose console, summary CSV and projection CSV reports.
func GenerateReport(report *domain.PlanReport, format, dir string) ([]string, error) {
	if f := GetFormatterByName(format); f != nil {
		name, err := WriteFormatted(f, report, dir, ExtensionFor(f.Name()))
		if err != nil {
			return nil, err
		}
		return []string{name}, nil
	}
	if strings.EqualFold(strings.TrimSpace(format), "all") {
		var written []string
		for _, f := range []Formatter{ConsoleVerboseFormatter{}, CSVSummarizer{}, CSVDetailedExporter{}} {
			name, err := WriteFormatted(f, report, dir, ExtensionFor(f.Name()))
			if err != nil {
				return written, err
			}
			written = append(written, name)
		}
		return written, nil
	}
	return nil, unsupported(format)
}

// unsupported enriches the error with available formatters and aliases
func unsupported(format string) error {
	return fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format,
		strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
}

// SaveConfiguration writes a goals configuration back to YAML.
func SaveConfiguration(config *domain.Configuration, filename string) error {
	b, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	return os.WriteFile(filename, b, 0o644)
}
