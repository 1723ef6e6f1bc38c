package tutorial

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Statter is the metrics seam of the tutorial pipeline.
type Statter interface {
	Count(name string, value int64, rate float64, tags ...string)
	Gauge(name string, value float64, rate float64, tags ...string)
	Histogram(name string, value float64, rate float64, tags ...string)
	Set(name string, value string, rate float64, tags ...string)
	Timing(name string, value time.Duration, rate float64, tags ...string)
}

type NopStatter struct{}

func (NopStatter) Count(name string, value int64, rate float64, tags ...string) {}

func (NopStatter) Gauge(name string, value float64, rate float64, tags ...string) {}

func (NopStatter) Histogram(name string, value float64, rate float64, tags ...string) {}

func (NopStatter) Set(name string, value string, rate float64, tags ...string) {}

func (NopStatter) Timing(name string, value time.Duration, rate float64, tags ...string) {}

// Logger is the logging seam of the tutorial pipeline.
type Logger interface {
	Printf(format string, v ...interface{})
	Debugf(format string, v ...interface{})
}

type NopLogger struct{}

func (NopLogger) Printf(format string, v ...interface{}) {}

func (NopLogger) Debugf(format string, v ...interface{}) {}

// StdLogger logs Printf calls and drops Debugf.
type StdLogger struct {
	*log.Logger
}

func (s StdLogger) Printf(format string, v ...interface{}) {
	s.Logger.Printf(format, v...)
}

func (StdLogger) Debugf(format string, v ...interface{}) {}

// VerboseLogger logs both Printf and Debugf calls.
type VerboseLogger struct {
	*log.Logger
}

func (s VerboseLogger) Printf(format string, v ...interface{}) {
	s.Logger.Printf(format, v...)
}

func (s VerboseLogger) Debugf(format string, v ...interface{}) {
	s.Logger.Printf(format, v...)
}

// ZapLogger sends log lines to a zap logger as structured JSON. Printf goes
// out at info level, Debugf at debug level.
type ZapLogger struct {
	*zap.Logger
}

// NewZapLogger builds a production zap logger, at debug level if verbose.
func NewZapLogger(verbose bool) (ZapLogger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	l, err := cfg.Build()
	if err != nil {
		return ZapLogger{}, err
	}
	return ZapLogger{Logger: l.With(zap.String("service", "rapture-tutorial"))}, nil
}

func (z ZapLogger) Printf(format string, v ...interface{}) {
	z.Logger.Info(fmt.Sprintf(format, v...))
}

func (z ZapLogger) Debugf(format string, v ...interface{}) {
	if ce := z.Logger.Check(zap.DebugLevel, ""); ce != nil {
		ce.Message = fmt.Sprintf(format, v...)
		ce.Write()
	}
}

// NewLogger returns a Logger for format "text" (plain lines on w) or "json"
// (zap on stderr). Debugf output is only kept if verbose.
func NewLogger(format string, verbose bool, w io.Writer) (Logger, error) {
	switch strings.ToLower(format) {
	case "text", "":
		l := log.New(w, "", log.LstdFlags)
		if verbose {
			return VerboseLogger{l}, nil
		}
		return StdLogger{l}, nil
	case "json":
		return NewZapLogger(verbose)
	default:
		return nil, errors.Errorf("unknown log format '%s'", format)
	}
}
