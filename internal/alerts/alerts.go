// Package alerts raises a budget notification when the month's spending
// crosses the configured threshold, at most once per calendar day.
package alerts

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dompet/internal/logger"
	"dompet/internal/models"
	"dompet/internal/report"
	"dompet/internal/settings"
	"dompet/internal/storage"
)

// Notifier delivers a budget alert. Delivery transports (push, chat bots)
// live outside the core; the default implementation just logs.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// LogNotifier writes alerts to the application log.
type LogNotifier struct{}

// Notify implements Notifier.
func (LogNotifier) Notify(_ context.Context, title, body string) error {
	logger.Get().Infow("budget alert", "title", title, "body", body)
	return nil
}

// Service evaluates the budget threshold against this month's spending.
type Service struct {
	mu       sync.Mutex
	store    storage.Store
	settings *settings.Manager
	engine   *report.Engine
	notifier Notifier
	now      func() time.Time
}

// NewService creates an alert service. A nil notifier falls back to logging.
func NewService(store storage.Store, settingsMgr *settings.Manager, engine *report.Engine, notifier Notifier) *Service {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Service{
		store:    store,
		settings: settingsMgr,
		engine:   engine,
		notifier: notifier,
		now:      time.Now,
	}
}

// Check compares the current month's expense total (in the display currency)
// against the alert threshold and notifies when it is reached. It reports
// whether a notification was sent. A day on which one was already sent stays
// quiet regardless of further spending. Checks are serialized so two callers
// crossing the threshold together cannot both pass the once-per-day gate.
func (s *Service) Check(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.settings.Get()
	if !cfg.BudgetAlertsEnabled || cfg.AlertThreshold <= 0 {
		return false, nil
	}

	now := s.now()
	spent := s.monthExpense(now.UTC().Format("2006-01"), cfg.Currency)
	if spent < cfg.AlertThreshold {
		return false, nil
	}

	ok, err := s.canNotifyToday(ctx, now)
	if err != nil || !ok {
		return false, err
	}

	body := fmt.Sprintf("Spending this month has reached %.2f %s (threshold %.2f)",
		spent, cfg.Currency, cfg.AlertThreshold)
	if err := s.notifier.Notify(ctx, "Budget Alert", body); err != nil {
		// Leave the gate open so a later check can retry delivery.
		logger.Get().Warnw("budget alert delivery failed", "error", err.Error())
		return false, nil
	}

	if err := s.store.SaveAlertState(ctx, models.AlertState{LastNotifiedAt: now}); err != nil {
		return true, err
	}
	return true, nil
}

func (s *Service) monthExpense(monthKey, currency string) float64 {
	var total float64
	for _, entry := range s.engine.CategorySummary(monthKey, currency) {
		total += entry.Total
	}
	return total
}

func (s *Service) canNotifyToday(ctx context.Context, now time.Time) (bool, error) {
	state, err := s.store.LoadAlertState(ctx)
	if err != nil {
		return false, err
	}
	if state == nil {
		return true, nil
	}
	last := state.LastNotifiedAt.UTC()
	return last.Format("2006-01-02") != now.UTC().Format("2006-01-02"), nil
}
