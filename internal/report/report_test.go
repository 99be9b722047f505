package report_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gopkg.in/yaml.v3"

	"github.com/angeloszaimis/netcheck/internal/probe"
	"github.com/angeloszaimis/netcheck/internal/report"
)

var _ = Describe("Report", func() {
	var outcomes []probe.Outcome

	BeforeEach(func() {
		outcomes = []probe.Outcome{
			{Description: "Hub status over HTTP", StatusCode: 200, Body: "OK", Result: probe.Passed},
			{Description: "Rails automate over HTTP", Error: "connection refused", Result: probe.Failed},
			{Description: "Rails automate over HTTPS", StatusCode: 200, Result: probe.Failed},
		}
	})

	Describe("Tabulate", func() {
		It("should keep the outcome order and key rows by description", func() {
			table := report.Tabulate(outcomes)

			Expect(table).To(HaveLen(3))
			Expect(table[0].Key).To(Equal("Hub status over HTTP"))
			Expect(table[1].Key).To(Equal("Rails automate over HTTP"))
			Expect(table[2].Key).To(Equal("Rails automate over HTTPS"))
		})

		It("should copy the outcome fields into the value column", func() {
			table := report.Tabulate(outcomes)

			Expect(table[0].Value).To(Equal(report.Entry{Result: "Passed", StatusCode: 200, Data: "OK"}))
			Expect(table[1].Value).To(Equal(report.Entry{Result: "Failed", ErrorMessage: "connection refused"}))
		})

		It("should count passed and failed rows", func() {
			passed, failed := report.Tabulate(outcomes).Counts()
			Expect(passed).To(Equal(1))
			Expect(failed).To(Equal(2))
		})
	})

	Describe("Render", func() {
		var (
			buf   *bytes.Buffer
			table report.Table
		)

		BeforeEach(func() {
			buf = &bytes.Buffer{}
			table = report.Tabulate(outcomes)
		})

		It("should render an aligned two-column table", func() {
			Expect(report.Render(buf, report.FormatTable, table)).To(Succeed())

			out := buf.String()
			Expect(out).To(ContainSubstring("Result Key"))
			Expect(out).To(ContainSubstring("Result Value"))
			Expect(out).To(ContainSubstring("Passed (200)"))
			Expect(out).To(ContainSubstring("Failed: connection refused"))
			Expect(out).To(ContainSubstring(`Passed (200) "OK"`))
		})

		It("should show the body on one line and shorten long bodies", func() {
			long := report.Table{{Key: "Hub", Value: report.Entry{
				Result: "Passed", StatusCode: 200,
				Data: "{\n  \"status\": \"ok\"\n}" + strings.Repeat("x", 100),
			}}}

			Expect(report.Render(buf, report.FormatTable, long)).To(Succeed())

			out := buf.String()
			Expect(out).To(ContainSubstring(`{ \"status\": \"ok\" }`))
			Expect(out).To(ContainSubstring(`..."`))
			Expect(out).NotTo(ContainSubstring(strings.Repeat("x", 100)))
		})

		It("should render JSON with the two column names", func() {
			Expect(report.Render(buf, report.FormatJSON, table)).To(Succeed())

			var decoded []map[string]any
			Expect(json.Unmarshal(buf.Bytes(), &decoded)).To(Succeed())
			Expect(decoded).To(HaveLen(3))
			Expect(decoded[0]).To(HaveKeyWithValue("Result Key", "Hub status over HTTP"))
			Expect(decoded[0]).To(HaveKey("Result Value"))
		})

		It("should render YAML", func() {
			Expect(report.Render(buf, report.FormatYAML, table)).To(Succeed())

			var decoded []report.Row
			Expect(yaml.Unmarshal(buf.Bytes(), &decoded)).To(Succeed())
			Expect(decoded[1].Value.ErrorMessage).To(Equal("connection refused"))
		})

		It("should reject unknown formats", func() {
			Expect(report.Render(buf, "csv", table)).To(MatchError(ContainSubstring("unknown report format")))
		})
	})

	Describe("Logger", func() {
		It("should write a single record with topic, correlation id and results", func() {
			buf := &bytes.Buffer{}
			log := slog.New(slog.NewJSONHandler(buf, nil))

			report.NewLogger(log).Report(context.Background(), "connectivity-check", report.Tabulate(outcomes), "corr-1")

			lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
			Expect(lines).To(HaveLen(1))

			var record map[string]any
			Expect(json.Unmarshal(lines[0], &record)).To(Succeed())
			Expect(record).To(HaveKeyWithValue("msg", "connectivity-check"))
			Expect(record).To(HaveKeyWithValue("correlation_id", "corr-1"))
			Expect(record).To(HaveKeyWithValue("level", "WARN"))
			Expect(record["results"]).To(HaveKey("Hub status over HTTP"))
			hub := record["results"].(map[string]any)["Hub status over HTTP"]
			Expect(hub).To(HaveKeyWithValue("data", "OK"))
			Expect(hub).To(HaveKeyWithValue("status_code", BeNumerically("==", 200)))
			Expect(record["meta"]).To(HaveKeyWithValue("component", report.Component))
		})

		It("should carry the buffered body of each outcome", func() {
			buf := &bytes.Buffer{}
			log := slog.New(slog.NewJSONHandler(buf, nil))
			table := report.Tabulate([]probe.Outcome{
				{Description: "Hub", StatusCode: 200, Body: `{"status":"ok"}`, Result: probe.Passed},
				{Description: "Rails", Error: "Request Timed Out", Result: probe.Failed},
			})

			report.NewLogger(log).Report(context.Background(), "connectivity-check", table, "corr-3")

			var record map[string]any
			Expect(json.Unmarshal(buf.Bytes(), &record)).To(Succeed())
			results := record["results"].(map[string]any)
			Expect(results["Hub"]).To(HaveKeyWithValue("data", `{"status":"ok"}`))
			Expect(results["Rails"]).NotTo(HaveKey("data"))
			Expect(results["Rails"]).To(HaveKeyWithValue("error", "Request Timed Out"))
		})

		It("should log at info level when every check passed", func() {
			buf := &bytes.Buffer{}
			log := slog.New(slog.NewJSONHandler(buf, nil))

			report.NewLogger(log).Report(context.Background(), "connectivity-check", report.Tabulate(outcomes[:1]), "corr-2")

			Expect(buf.String()).To(ContainSubstring(`"level":"INFO"`))
		})
	})
})
