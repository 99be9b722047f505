package report

import (
	"log/slog"

	"github.com/angeloszaimis/netcheck/internal/probe"
)

// Entry is the value column of a report row.
type Entry struct {
	Result       string `json:"result" yaml:"result"`
	StatusCode   int    `json:"statusCode,omitempty" yaml:"statusCode,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty" yaml:"errorMessage,omitempty"`
	Data         string `json:"data,omitempty" yaml:"data,omitempty"`
}

type Row struct {
	Key   string `json:"Result Key" yaml:"Result Key"`
	Value Entry  `json:"Result Value" yaml:"Result Value"`
}

// Table keeps the order of the outcomes it was built from.
type Table []Row

// Tabulate turns outcomes into a table, one row per outcome, keyed by the
// check description.
func Tabulate(outcomes []probe.Outcome) Table {
	table := make(Table, 0, len(outcomes))
	for _, o := range outcomes {
		table = append(table, Row{
			Key: o.Description,
			Value: Entry{
				Result:       string(o.Result),
				StatusCode:   o.StatusCode,
				ErrorMessage: o.Error,
				Data:         o.Body,
			},
		})
	}
	return table
}

// Counts returns the number of passed and failed rows.
func (t Table) Counts() (passed, failed int) {
	for _, row := range t {
		if row.Value.Result == string(probe.Passed) {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}

// LogValue groups rows by key so text handlers print readable attributes.
func (t Table) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(t))
	for _, row := range t {
		values := []slog.Attr{slog.String("result", row.Value.Result)}
		if row.Value.StatusCode != 0 {
			values = append(values, slog.Int("status_code", row.Value.StatusCode))
		}
		if row.Value.ErrorMessage != "" {
			values = append(values, slog.String("error", row.Value.ErrorMessage))
		}
		if row.Value.Data != "" {
			values = append(values, slog.String("data", row.Value.Data))
		}
		attrs = append(attrs, slog.Attr{Key: row.Key, Value: slog.GroupValue(values...)})
	}
	return slog.GroupValue(attrs...)
}
