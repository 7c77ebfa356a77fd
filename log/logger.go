package log

import (
	"errors"
	"time"

	"github.com/Invicton-Labs/go-hashtable/collections"
	"github.com/Invicton-Labs/go-stackerr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Fatalf(template string, args ...interface{})
	Panicf(template string, args ...interface{})

	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	Fatalw(msg string, keysAndValues ...interface{})
	Panicw(msg string, keysAndValues ...interface{})

	Error(err error)
	Panic(err error)
	Fatal(err error)

	With(args ...interface{}) Logger
	WithOptions(opts ...zap.Option) Logger
	WithError(err error) Logger

	// Enabled reports whether the logger writes entries at the given level.
	Enabled(level zapcore.Level) bool

	// Config gets the config values that can be used to re-create this logger
	Config() NewInput

	// Clone returns a copy of the logger
	Clone() Logger
}

type logger struct {
	*zap.SugaredLogger
	config NewInput
}

func (l logger) Clone() Logger {
	return logger{
		SugaredLogger: l.SugaredLogger.With(),
		config:        l.config.Clone(),
	}
}

func (l logger) Config() NewInput {
	return l.config.Clone()
}

func (l logger) Enabled(level zapcore.Level) bool {
	return l.SugaredLogger.Desugar().Core().Enabled(level)
}

// errFields flattens the fields attached to a stack error into
// alternating keys and values.
func errFields(err error) []any {
	var serr stackerr.Error
	if !errors.As(err, &serr) {
		return nil
	}
	fields := serr.Fields()
	kvp := make([]any, 0, 2*len(fields))
	next := collections.MapAscending(fields)
	for k, v, ok := next(); ok; k, v, ok = next() {
		kvp = append(kvp, k, v)
	}
	return kvp
}

// Error will add the error fields as log fields and log the error message
// at the Error level.
func (l logger) Error(err error) {
	l.SugaredLogger.WithOptions(zap.AddCallerSkip(1)).Errorw(err.Error(), errFields(err)...)
}

// Panic will add the error fields as log fields and log the error message
// at the Panic level.
func (l logger) Panic(err error) {
	l.SugaredLogger.WithOptions(zap.AddCallerSkip(1)).Panicw(err.Error(), errFields(err)...)
}

// Fatal will add the error fields as log fields and log the error message
// at the Fatal level.
func (l logger) Fatal(err error) {
	l.SugaredLogger.WithOptions(zap.AddCallerSkip(1)).Fatalw(err.Error(), errFields(err)...)
}

func (l logger) With(args ...interface{}) Logger {
	return logger{l.SugaredLogger.With(args...), l.config.Clone()}
}

func (l logger) WithOptions(opts ...zap.Option) Logger {
	return logger{l.SugaredLogger.WithOptions(opts...), l.config.Clone()}
}

// WithError returns a logger that attaches the error and its fields to
// every entry.
func (l logger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	return l.With(append([]any{zap.Error(err)}, errFields(err)...)...)
}

type NewInput struct {
	Name          string
	Level         zapcore.Level
	IsDevelopment bool
	InitialFields map[string]any
	SkippedFrames int
	// OutputPaths are zap sink URLs; stdout is used when empty.
	OutputPaths []string
}

func (ni *NewInput) Clone() NewInput {
	return NewInput{
		Name:          ni.Name,
		Level:         ni.Level,
		IsDevelopment: ni.IsDevelopment,
		InitialFields: collections.CopyMap(ni.InitialFields),
		SkippedFrames: ni.SkippedFrames,
		OutputPaths:   collections.CopySlice(ni.OutputPaths),
	}
}

func New(input NewInput) Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder

	if input.IsDevelopment {
		// If it's development mode, modify some settings
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoderConfig.EncodeDuration = zapcore.StringDurationEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	outputPaths := input.OutputPaths
	if len(outputPaths) == 0 {
		outputPaths = []string{"stdout"}
	}
	sink, closeOut, err := zap.Open(outputPaths...)
	if err != nil {
		panic(err)
	}
	errSink, _, err := zap.Open("stderr")
	if err != nil {
		closeOut()
		panic(err)
	}

	buildOpts := []zap.Option{
		zap.ErrorOutput(errSink),
	}

	if input.IsDevelopment {
		buildOpts = append(buildOpts, zap.Development())
	}

	// Add the caller field
	buildOpts = append(buildOpts, zap.AddCaller())

	// Add stack traces for errors and above
	buildOpts = append(buildOpts, zap.AddStacktrace(zap.ErrorLevel))

	if !input.IsDevelopment {
		buildOpts = append(buildOpts, zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewSamplerWithOptions(core, time.Second, 100, 100)
		}))
	}

	if input.InitialFields == nil {
		input.InitialFields = map[string]any{}
	}

	// Add any initial field as a build option
	if len(input.InitialFields) > 0 {
		fs := make([]zap.Field, 0, len(input.InitialFields))
		next := collections.MapAscending(input.InitialFields)
		for k, v, ok := next(); ok; k, v, ok = next() {
			if f, isField := v.(zap.Field); isField {
				f.Key = k
				fs = append(fs, f)
			} else {
				fs = append(fs, zap.Any(k, v))
			}
		}
		buildOpts = append(buildOpts, zap.Fields(fs...))
	}

	if input.SkippedFrames != 0 {
		buildOpts = append(buildOpts, zap.AddCallerSkip(input.SkippedFrames))
	}

	zapLogger := zap.New(
		zapcore.NewCore(encoder, sink, zap.NewAtomicLevelAt(input.Level)),
		buildOpts...,
	)
	if input.Name != "" {
		zapLogger = zapLogger.Named(input.Name)
	}

	return logger{zapLogger.Sugar(), input}
}
