package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/llamasearchai/llamaspace/pkg/logger"
)

var _ = Describe("Logger", func() {
	Describe("New", func() {
		Context("with nil config", func() {
			It("should create a non-nil logger with defaults", func() {
				log := logger.New(nil)
				Expect(log).NotTo(BeNil())
			})
		})

		Context("with a buffer output", func() {
			It("should emit JSON records", func() {
				var buf bytes.Buffer
				log := logger.New(&logger.Config{Level: slog.LevelInfo, Output: &buf})

				log.Info("initialized", "store", "redis")

				var record map[string]any
				Expect(json.Unmarshal(buf.Bytes(), &record)).To(Succeed())
				Expect(record["msg"]).To(Equal("initialized"))
				Expect(record["store"]).To(Equal("redis"))
			})

			It("should suppress records below the configured level", func() {
				var buf bytes.Buffer
				log := logger.New(&logger.Config{Level: slog.LevelWarn, Output: &buf})

				log.Info("should not appear")
				Expect(buf.Len()).To(BeZero())

				log.Warn("should appear")
				Expect(buf.Len()).NotTo(BeZero())
			})
		})
	})

	Describe("NewDefault", func() {
		It("should create a non-nil logger", func() {
			Expect(logger.NewDefault()).NotTo(BeNil())
		})
	})

	Describe("ParseLevel", func() {
		It("should parse known levels", func() {
			Expect(logger.ParseLevel("debug")).To(Equal(slog.LevelDebug))
			Expect(logger.ParseLevel("info")).To(Equal(slog.LevelInfo))
			Expect(logger.ParseLevel("warn")).To(Equal(slog.LevelWarn))
			Expect(logger.ParseLevel("warning")).To(Equal(slog.LevelWarn))
			Expect(logger.ParseLevel("error")).To(Equal(slog.LevelError))
		})

		It("should fall back to info for unknown levels", func() {
			Expect(logger.ParseLevel("verbose")).To(Equal(slog.LevelInfo))
			Expect(logger.ParseLevel("")).To(Equal(slog.LevelInfo))
		})
	})
})
