package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/netcheck/pkg/logger"
)

var _ = Describe("Logger", func() {
	var (
		buf *bytes.Buffer
		ctx context.Context
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		ctx = context.Background()
	})

	Describe("New", func() {
		DescribeTable("should respect the configured level",
			func(level string, enabled, disabled slog.Level) {
				log := logger.New(level, false, "dev", buf)
				Expect(log.Enabled(ctx, enabled)).To(BeTrue())
				Expect(log.Enabled(ctx, disabled)).To(BeFalse())
			},
			Entry("info", "info", slog.LevelInfo, slog.LevelDebug),
			Entry("warn", "warn", slog.LevelWarn, slog.LevelInfo),
			Entry("error", "error", slog.LevelError, slog.LevelWarn),
			Entry("invalid defaults to info", "invalid", slog.LevelInfo, slog.LevelDebug),
		)

		It("should enable debug output at debug level", func() {
			log := logger.New("debug", false, "dev", buf)
			Expect(log.Enabled(ctx, slog.LevelDebug)).To(BeTrue())
		})

		It("should write text in dev", func() {
			log := logger.New("info", false, "dev", buf)
			log.Info("Check completed", slog.String("check", "Hub status over HTTP"))

			Expect(buf.String()).To(ContainSubstring("msg=\"Check completed\""))
			Expect(buf.String()).To(ContainSubstring("environment=dev"))
		})

		It("should write JSON in prod", func() {
			log := logger.New("info", false, "prod", buf)
			log.Info("Check completed")

			var record map[string]any
			Expect(json.Unmarshal(buf.Bytes(), &record)).To(Succeed())
			Expect(record).To(HaveKeyWithValue("environment", "prod"))
			Expect(record).To(HaveKeyWithValue("msg", "Check completed"))
		})

		It("should support addSource option", func() {
			log := logger.New("info", true, "prod", buf)
			log.Info("with source")
			Expect(buf.String()).To(ContainSubstring(`"source"`))
		})
	})

	Describe("ParseLevel", func() {
		It("should be case insensitive", func() {
			Expect(logger.ParseLevel("WARN")).To(Equal(slog.LevelWarn))
		})
	})
})
