package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

const (
	FormatTable = "table"
	FormatYAML  = "yaml"
	FormatJSON  = "json"
)

// Formats lists the formats Render accepts.
var Formats = []any{FormatTable, FormatYAML, FormatJSON}

// maxDataWidth caps the body excerpt shown in the table format.
const maxDataWidth = 60

// Render writes table to w in the given format.
func Render(w io.Writer, format string, table Table) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(table); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(table)
	case FormatTable, "":
		return renderText(w, table)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func renderText(w io.Writer, table Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Result Key\tResult Value")
	for _, row := range table {
		fmt.Fprintf(tw, "%s\t%s\n", row.Key, summary(row.Value))
	}
	return tw.Flush()
}

func summary(e Entry) string {
	var b strings.Builder
	b.WriteString(e.Result)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (%d)", e.StatusCode)
	}
	if e.ErrorMessage != "" {
		b.WriteString(": ")
		b.WriteString(e.ErrorMessage)
	}
	if e.Data != "" {
		fmt.Fprintf(&b, " %q", excerpt(e.Data))
	}
	return b.String()
}

// excerpt flattens data to one line and shortens it to maxDataWidth runes.
func excerpt(data string) string {
	line := strings.Join(strings.Fields(data), " ")
	runes := []rune(line)
	if len(runes) > maxDataWidth {
		return string(runes[:maxDataWidth]) + "..."
	}
	return line
}
