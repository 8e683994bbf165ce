package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultCheckoutDelay, cfg.GetCheckoutDelay())
	assert.Equal(t, DefaultToastDuration, cfg.GetToastDuration())
	assert.Equal(t, "card", cfg.Checkout.DefaultPayment)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".petshop", "config.yaml")

	cfg := DefaultConfig()
	cfg.Checkout.Delay = "250ms"
	cfg.UI.Theme = "dark"
	cfg.Logging.Categories = map[string]bool{"cart": false}
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, loaded.GetCheckoutDelay())
	assert.Equal(t, "dark", loaded.UI.Theme)
	assert.False(t, loaded.Logging.IsCategoryEnabled("cart"))
	assert.True(t, loaded.Logging.IsCategoryEnabled("orders"))
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"level", func(c *Config) { c.Logging.Level = "loud" }},
		{"format", func(c *Config) { c.Logging.Format = "xml" }},
		{"delay", func(c *Config) { c.Checkout.Delay = "soon" }},
		{"negative delay", func(c *Config) { c.Checkout.Delay = "-1s" }},
		{"payment", func(c *Config) { c.Checkout.DefaultPayment = "cash" }},
		{"theme", func(c *Config) { c.UI.Theme = "neon" }},
		{"toast", func(c *Config) { c.UI.ToastDuration = "a while" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDurationFallbacks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Checkout.Delay = "garbage"
	cfg.UI.ToastDuration = "0s"
	assert.Equal(t, DefaultCheckoutDelay, cfg.GetCheckoutDelay())
	assert.Equal(t, DefaultToastDuration, cfg.GetToastDuration())

	cfg.Checkout.Delay = "0s"
	assert.Equal(t, time.Duration(0), cfg.GetCheckoutDelay())
}

func TestLoggingSettings(t *testing.T) {
	lc := LoggingConfig{Level: "debug", Format: "console", File: "x.log"}
	s := lc.Settings()
	assert.Equal(t, "debug", s.Level)
	assert.Equal(t, "console", s.Format)
	assert.Equal(t, "x.log", s.File)
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, DefaultConfig().Save(path))

	changed := make(chan *Config, 1)
	w, err := NewWatcher(path, func(c *Config) {
		select {
		case changed <- c:
		default:
		}
	})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	cfg := DefaultConfig()
	cfg.Logging.Level = "debug"
	require.NoError(t, cfg.Save(path))

	select {
	case got := <-changed:
		assert.Equal(t, "debug", got.Logging.Level)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report the change")
	}
}

func TestWatcherIgnoresInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, DefaultConfig().Save(path))

	called := make(chan struct{}, 1)
	w, err := NewWatcher(path, func(*Config) { called <- struct{}{} })
	require.NoError(t, err)
	w.debounce = 10 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("ui:\n  theme: neon\n"), 0644))

	select {
	case <-called:
		t.Fatal("invalid config must not be delivered")
	case <-time.After(300 * time.Millisecond):
	}
}
