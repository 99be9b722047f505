// Package report converts check outcomes into the two-column
// "Result Key" / "Result Value" table, logs it as one structured record and
// renders it for the terminal as an aligned table, YAML or JSON.
package report
