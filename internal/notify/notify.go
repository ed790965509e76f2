package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GlebRadaev/coinreport/internal/config"
)

//go:generate mockgen -source=notify.go -destination=mock_notify.go -package=notify

type Notifier interface {
	Send(ctx context.Context, title, body string) error
}

type Message struct {
	Title string
	Body  string
}

// Noop records every message and sends nothing.
type Noop struct {
	mu       sync.Mutex
	attempts []Message
}

func (n *Noop) Send(_ context.Context, title, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.attempts = append(n.attempts, Message{Title: title, Body: body})
	zap.L().Warn("no notifier configured, skipping notification", zap.String("title", title))
	return nil
}

func (n *Noop) Attempts() []Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Message(nil), n.attempts...)
}

// Multi sends to every notifier concurrently and joins their errors.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, title, body string) error {
	errs := make([]error, len(m))
	var g errgroup.Group
	for i, n := range m {
		i, n := i, n
		g.Go(func() error {
			errs[i] = n.Send(ctx, title, body)
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// FromConfig picks the notifiers that have credentials configured. It never returns nil.
func FromConfig(cfg *config.Config) Notifier {
	var ns Multi
	if cfg.PushPlusToken != "" {
		ns = append(ns, NewPushPlus(cfg.PushPlusURL, cfg.PushPlusToken))
	}
	if cfg.BarkURL != "" {
		ns = append(ns, NewBark(cfg.BarkURL))
	}

	switch len(ns) {
	case 0:
		return &Noop{}
	case 1:
		return ns[0]
	default:
		return ns
	}
}

// Deliver sends the message and reports whether it went out. Failures and panics are
// logged and never propagated.
func Deliver(ctx context.Context, n Notifier, title, body string) (ok bool) {
	if n == nil {
		n = &Noop{}
	}
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("notifier panicked", zap.String("title", title), zap.Any("panic", r))
			ok = false
		}
	}()

	if err := n.Send(ctx, title, body); err != nil {
		zap.L().Error("failed to send notification", zap.String("title", title), zap.Error(err))
		return false
	}
	zap.L().Info("notification sent", zap.String("title", title))
	return true
}

func statusError(service string, code int, msg string) error {
	return fmt.Errorf("%s rejected notification: code=%d %s", service, code, msg)
}
