package main

import (
	"context"
	"fmt"
	"os"

	"petshop/cmd/petshop/shop"
	"petshop/cmd/petshop/ui"
	"petshop/internal/checkout"
	"petshop/internal/config"
	"petshop/internal/logging"
	"petshop/internal/notify"
	"petshop/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// runInteractive opens the storefront TUI.
func runInteractive(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c, err := loadCatalog()
	if err != nil {
		return err
	}

	bridge := shop.NewBridge()
	sess, err := session.New(ctx, session.Options{
		Catalog:       c,
		Sink:          notify.Multi(bridge, notify.NewZapSink(logging.Get(logging.CategoryNotify).Zap())),
		Navigator:     bridge,
		CheckoutDelay: cfg.GetCheckoutDelay(),
	})
	if err != nil {
		return err
	}
	defer sess.Close()

	watchConfig(ctx)

	payment, err := checkout.ParsePaymentMethod(cfg.Checkout.DefaultPayment)
	if err != nil {
		payment = checkout.PaymentCard
	}
	model := shop.New(sess, bridge, shop.Options{
		Styles:         ui.NewStyles(ui.ThemeFor(cfg.UI.Theme)),
		ToastDuration:  cfg.GetToastDuration(),
		DefaultPayment: payment,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("storefront exited: %w", err)
	}
	logging.Session("session %s ended", sess.ID())
	return nil
}

// watchConfig reloads the log level when the config file changes. The
// watcher stops when ctx is cancelled.
func watchConfig(ctx context.Context) {
	if _, err := os.Stat(configPath); err != nil {
		return
	}
	w, err := config.NewWatcher(configPath, func(next *config.Config) {
		if err := logging.SetLevel(next.Logging.Level); err != nil {
			logging.ConfigWarn("ignoring log level from reloaded config: %v", err)
			return
		}
		logger.Info("config reloaded", zap.String("level", next.Logging.Level))
	})
	if err != nil {
		logging.ConfigWarn("config watcher unavailable: %v", err)
		return
	}
	if err := w.Start(ctx); err != nil {
		logging.ConfigWarn("config watcher failed to start: %v", err)
		w.Stop()
		return
	}
	go func() {
		<-ctx.Done()
		w.Stop()
	}()
}
