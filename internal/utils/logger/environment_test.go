package logger

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

var _ = Describe("Logger Environment", func() {
	Describe("#newProductionLoggerConfig", func() {
		It("logs info-level JSON with sampling and the service field", func() {
			cfg := newProductionLoggerConfig()

			Expect(cfg.Level.Level()).To(Equal(zap.InfoLevel))
			Expect(cfg.Encoding).To(Equal("json"))
			Expect(cfg.OutputPaths).To(Equal([]string{"stdout"}))
			Expect(cfg.ErrorOutputPaths).To(Equal([]string{"stderr"}))
			Expect(cfg.DisableCaller).To(BeFalse())
			Expect(cfg.DisableStacktrace).To(BeFalse())
			Expect(cfg.Sampling).NotTo(BeNil())
			Expect(cfg.Sampling.Initial).To(Equal(100))
			Expect(cfg.InitialFields).To(HaveKeyWithValue("service", serviceName))
		})
	})

	Describe("#newStagingLoggerConfig", func() {
		It("matches production output but drops caller and stacktrace", func() {
			cfg := newStagingLoggerConfig()

			Expect(cfg.Level.Level()).To(Equal(zap.InfoLevel))
			Expect(cfg.Encoding).To(Equal("json"))
			Expect(cfg.OutputPaths).To(Equal([]string{"stdout"}))
			Expect(cfg.DisableCaller).To(BeTrue())
			Expect(cfg.DisableStacktrace).To(BeTrue())
			Expect(cfg.InitialFields).To(HaveKeyWithValue("service", serviceName))
		})
	})

	Describe("#newDevelopmentLoggerConfig", func() {
		It("logs debug-level console output", func() {
			cfg := newDevelopmentLoggerConfig()

			Expect(cfg.Level.Level()).To(Equal(zap.DebugLevel))
			Expect(cfg.Development).To(BeTrue())
			Expect(cfg.Encoding).To(Equal("console"))
			Expect(cfg.DisableCaller).To(BeTrue())
			Expect(cfg.DisableStacktrace).To(BeTrue())
			Expect(cfg.OutputPaths).To(Equal([]string{"stdout"}))
		})
	})

	Describe("#newTestLoggerConfig", func() {
		It("discards all output so suites stay quiet", func() {
			cfg := newTestLoggerConfig()

			Expect(cfg.Level.Level()).To(Equal(zap.InfoLevel))
			Expect(cfg.Encoding).To(Equal("json"))
			Expect(cfg.OutputPaths).To(BeEmpty())
			Expect(cfg.ErrorOutputPaths).To(BeEmpty())
			Expect(cfg.Sampling).To(BeNil())
		})
	})
})
