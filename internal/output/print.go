package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON, FormatYAML, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

func PrintError(err error) {
	if err == nil {
		return
	}
	_, _ = color.New(color.FgRed, color.Bold).Fprint(os.Stderr, "Error: ")
	fmt.Fprintln(os.Stderr, err.Error())
}

func PrintWarning(msg string) {
	_, _ = color.New(color.FgYellow).Fprintln(os.Stderr, msg)
}

func PrintSuccess(msg string) {
	_, _ = color.New(color.FgGreen).Fprint(os.Stdout, "✓ ")
	fmt.Fprintln(os.Stdout, msg)
}

func PrintInfo(msg string) {
	_, _ = color.New(color.Faint).Fprintln(os.Stdout, msg)
}

// WriteSearchResults writes results to w in the requested format.
func WriteSearchResults(w io.Writer, results SearchResults, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return err
		}
		return enc.Close()
	case FormatMarkdown:
		out, err := RenderMarkdown(ResultsMarkdown(results))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, out)
		return err
	default:
		_, err := fmt.Fprintln(w, ResultsTable(results))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%d of %d users for %q\n", len(results.Items), results.TotalCount, results.Query)
		return err
	}
}

func PrintSearchResults(results SearchResults, format Format) error {
	return WriteSearchResults(os.Stdout, results, format)
}

func ResultsTable(results SearchResults) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	rows := make([][]string, 0, len(results.Items))
	for i, r := range results.Items {
		rows = append(rows, []string{strconv.Itoa(i + 1), r.Login, r.Type, r.URL})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "LOGIN", "TYPE", "PROFILE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}
