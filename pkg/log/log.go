// Copyright 2026 Anapaya Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log provides a structured, leveled logger on top of zap.
//
// Log calls take a message followed by alternating keys and values:
//
//	log.Info("Resolved AS-SET", "query", "AS-EXAMPLE", "asns", 12)
//
// The root logger discards all entries until Setup is called.
package log

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is the log level.
type Level zapcore.Level

// The log levels.
const (
	DebugLevel = Level(zapcore.DebugLevel)
	InfoLevel  = Level(zapcore.InfoLevel)
	ErrorLevel = Level(zapcore.ErrorLevel)
)

// DefaultConsoleLevel is the default log level for the console.
const DefaultConsoleLevel = "info"

// Logger describes the logger interface.
type Logger interface {
	New(ctx ...any) Logger
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Enabled(lvl Level) bool
}

var (
	mtx  sync.RWMutex
	root = &logger{logger: zap.NewNop()}
)

// ConsoleConfig is the configuration for the console logger.
type ConsoleConfig struct {
	// Level of console logging (debug|info|error). Defaults to info.
	Level string `toml:"level,omitempty"`
	// Format of the console logging (human|json). If empty, human is used on
	// a terminal and json otherwise.
	Format string `toml:"format,omitempty"`
}

// Config is the configuration for the logger.
type Config struct {
	Console ConsoleConfig `toml:"console,omitempty"`
}

// InitDefaults populates unset fields.
func (c *Config) InitDefaults() {
	if c.Console.Level == "" {
		c.Console.Level = DefaultConsoleLevel
	}
}

// Validate checks that the configured level and format are known.
func (c *Config) Validate() error {
	if c.Console.Level != "" {
		if _, err := ParseLevel(c.Console.Level); err != nil {
			return err
		}
	}
	switch c.Console.Format {
	case "", "human", "json":
		return nil
	default:
		return fmt.Errorf("unknown console log format: %q", c.Console.Format)
	}
}

// ParseLevel parses the log level.
func ParseLevel(lvl string) (Level, error) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(lvl))); err != nil {
		return DebugLevel, fmt.Errorf("unknown log level: %q", lvl)
	}
	return Level(l), nil
}

// Setup configures the root logger to write to stderr.
func Setup(cfg Config) error {
	cfg.InitDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	lvl, _ := ParseLevel(cfg.Console.Level)
	format := cfg.Console.Format
	if format == "" {
		format = "json"
		if isatty.IsTerminal(os.Stderr.Fd()) {
			format = "human"
		}
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	if format == "human" {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}
	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), zapcore.Level(lvl))
	replace(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)))
	return nil
}

// Discard resets the root logger to drop all entries.
func Discard() {
	replace(zap.NewNop())
}

func replace(l *zap.Logger) {
	mtx.Lock()
	defer mtx.Unlock()
	root = &logger{logger: l}
}

// Root returns the root logger.
func Root() Logger {
	mtx.RLock()
	defer mtx.RUnlock()
	return root
}

// New creates a logger derived from the root logger with the given context.
func New(ctx ...any) Logger {
	return Root().New(ctx...)
}

// Debug logs at debug level.
func Debug(msg string, ctx ...any) {
	Root().(*logger).withSkip().Debug(msg, convertCtx(ctx)...)
}

// Info logs at info level.
func Info(msg string, ctx ...any) {
	Root().(*logger).withSkip().Info(msg, convertCtx(ctx)...)
}

// Error logs at error level.
func Error(msg string, ctx ...any) {
	Root().(*logger).withSkip().Error(msg, convertCtx(ctx)...)
}

// Flush writes out buffered log entries.
func Flush() {
	_ = Root().(*logger).logger.Sync()
}

// HandlePanic catches panics, logs them and re-panics. It must be deferred
// at the start of every goroutine.
func HandlePanic() {
	if msg := recover(); msg != nil {
		Error("Panic", "msg", msg, "stack", string(debug.Stack()))
		Flush()
		panic(msg)
	}
}

type logger struct {
	logger *zap.Logger
}

func (l *logger) withSkip() *zap.Logger {
	return l.logger.WithOptions(zap.AddCallerSkip(1))
}

func (l *logger) New(ctx ...any) Logger {
	return &logger{logger: l.logger.With(convertCtx(ctx)...)}
}

func (l *logger) Debug(msg string, ctx ...any) {
	l.logger.Debug(msg, convertCtx(ctx)...)
}

func (l *logger) Info(msg string, ctx ...any) {
	l.logger.Info(msg, convertCtx(ctx)...)
}

func (l *logger) Error(msg string, ctx ...any) {
	l.logger.Error(msg, convertCtx(ctx)...)
}

func (l *logger) Enabled(lvl Level) bool {
	return l.logger.Core().Enabled(zapcore.Level(lvl))
}

func convertCtx(ctx []any) []zap.Field {
	fields := make([]zap.Field, 0, len(ctx)/2)
	for i := 0; i+1 < len(ctx); i += 2 {
		fields = append(fields, zap.Any(fmt.Sprint(ctx[i]), ctx[i+1]))
	}
	return fields
}
