// Package logging provides config-driven categorized logging for petshop.
// Each category is a named zap logger; categories can be switched off
// individually and the level can be changed at runtime (config reload).
// Until Initialize or Replace is called every logger is a no-op.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot      Category = "boot"      // Startup, config loading
	CategoryConfig    Category = "config"    // Config file watching and reloads
	CategorySession   Category = "session"   // Session state holder
	CategoryCatalog   Category = "catalog"   // Catalog loading and filtering
	CategoryCart      Category = "cart"      // Cart ledger mutations
	CategoryFavorites Category = "favorites" // Favorite toggles
	CategoryCheckout  Category = "checkout"  // Checkout validation and completion
	CategoryOrders    Category = "orders"    // Order history store
	CategoryNotify    Category = "notify"    // Outcome events
	CategoryUI        Category = "ui"        // Terminal UI
)

// Settings mirrors config.LoggingConfig to avoid an import cycle
// (config logs through this package).
type Settings struct {
	Level      string          // debug, info, warn, error
	Format     string          // json, console
	File       string          // empty = stderr
	Categories map[string]bool // per-category toggles; missing = enabled
}

// Logger is a category-scoped printf-style logger.
type Logger struct {
	category Category
	z        *zap.SugaredLogger
}

var (
	mu         sync.RWMutex
	base       = zap.NewNop()
	level      = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	categories map[string]bool
	loggers    = make(map[Category]*Logger)
)

// Initialize builds the process logger from settings and installs it.
func Initialize(s Settings) error {
	lvl, err := ParseLevel(s.Level)
	if err != nil {
		return err
	}
	level.SetLevel(lvl)

	cfg := zap.NewProductionConfig()
	if s.Format == "console" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = level
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	out := "stderr"
	if s.File != "" {
		if err := os.MkdirAll(filepath.Dir(s.File), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		out = s.File
	}
	cfg.OutputPaths = []string{out}
	cfg.ErrorOutputPaths = []string{out}

	z, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	install(z, s.Categories)

	Boot("logging initialized (level=%s, output=%s)", lvl, out)
	return nil
}

// Replace installs an already-built zap logger. Used by tests and by
// callers that build their own core.
func Replace(z *zap.Logger, cats map[string]bool) {
	if z == nil {
		z = zap.NewNop()
	}
	install(z, cats)
}

// Disable drops all logging.
func Disable() {
	install(zap.NewNop(), nil)
}

func install(z *zap.Logger, cats map[string]bool) {
	mu.Lock()
	defer mu.Unlock()

	old := base
	base = z
	categories = cats
	loggers = make(map[Category]*Logger)
	_ = old.Sync()
}

// ParseLevel maps a config level name to a zap level. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
}

// SetLevel changes the level of every logger built by Initialize.
func SetLevel(s string) error {
	lvl, err := ParseLevel(s)
	if err != nil {
		return err
	}
	level.SetLevel(lvl)
	return nil
}

// Level returns the current level.
func Level() zapcore.Level {
	return level.Level()
}

// IsCategoryEnabled checks if logging is enabled for a category
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	if categories == nil {
		return true
	}
	enabled, ok := categories[string(category)]
	return !ok || enabled
}

// Get returns the logger for a category.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) {
		return &Logger{category: category, z: zap.NewNop().Sugar()}
	}

	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	l := &Logger{
		category: category,
		z:        base.Named(string(category)).Sugar(),
	}
	loggers[category] = l
	return l
}

// Zap exposes the underlying structured logger.
func (l *Logger) Zap() *zap.Logger {
	return l.z.Desugar()
}

// With returns a logger carrying extra structured fields.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{category: l.category, z: l.z.Desugar().With(fields...).Sugar()}
}

func (l *Logger) Debug(format string, args ...interface{}) { l.z.Debugf(format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.z.Infof(format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.z.Warnf(format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.z.Errorf(format, args...) }

// Sync flushes buffered entries.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	return base.Sync()
}

// Convenience helpers, one pair per busy category.

func Boot(format string, args ...interface{})         { Get(CategoryBoot).Info(format, args...) }
func BootError(format string, args ...interface{})    { Get(CategoryBoot).Error(format, args...) }
func Session(format string, args ...interface{})      { Get(CategorySession).Info(format, args...) }
func SessionDebug(format string, args ...interface{}) { Get(CategorySession).Debug(format, args...) }
func Cart(format string, args ...interface{})         { Get(CategoryCart).Info(format, args...) }
func CartDebug(format string, args ...interface{})    { Get(CategoryCart).Debug(format, args...) }
func Checkout(format string, args ...interface{})     { Get(CategoryCheckout).Info(format, args...) }
func CheckoutWarn(format string, args ...interface{}) { Get(CategoryCheckout).Warn(format, args...) }
func Orders(format string, args ...interface{})       { Get(CategoryOrders).Info(format, args...) }
func OrdersDebug(format string, args ...interface{})  { Get(CategoryOrders).Debug(format, args...) }
func Config(format string, args ...interface{})       { Get(CategoryConfig).Info(format, args...) }
func ConfigWarn(format string, args ...interface{})   { Get(CategoryConfig).Warn(format, args...) }

// Timer measures an operation and logs its duration on Stop.
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer starts timing an operation.
func StartTimer(category Category, operation string) *Timer {
	return &Timer{
		category: category,
		op:       operation,
		start:    time.Now(),
	}
}

// Stop logs the elapsed time at debug level.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold warns when the operation took longer than threshold.
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("%s took %v (threshold: %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}
