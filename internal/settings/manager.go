// Package settings owns the persisted user preferences and notifies
// subscribers when they change.
package settings

import (
	"context"
	"sort"
	"strings"
	"sync"

	"dompet/internal/models"
	"dompet/internal/storage"
)

// Manager caches AppSettings, mirrors every change to storage, and publishes
// the new settings to subscribers after each persisted change. Consumers get
// the manager injected; there is no package-level singleton.
type Manager struct {
	mu        sync.Mutex
	store     storage.Store
	cache     models.AppSettings
	listeners map[int]func(models.AppSettings)
	nextID    int
}

// NewManager creates a Manager with default settings until Load is called.
func NewManager(store storage.Store) *Manager {
	return &Manager{
		store:     store,
		cache:     models.DefaultSettings(),
		listeners: make(map[int]func(models.AppSettings)),
	}
}

// SetDefaultCurrency sets the currency used until settings have been
// persisted. Call before Load; stored settings always take precedence.
func (m *Manager) SetDefaultCurrency(code string) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return
	}
	m.mu.Lock()
	m.cache.Currency = code
	m.mu.Unlock()
}

// Patch is a partial settings update; nil fields are left untouched.
type Patch struct {
	Currency            *string
	MonthlyBudget       *float64
	AlertThreshold      *float64
	BudgetAlertsEnabled *bool
	CategoryBudgets     map[string]float64
	SelectedMonth       *string
	ShowDelta           *bool
}

// Load reads persisted settings into the cache. Missing or corrupt settings
// leave the defaults in place.
func (m *Manager) Load(ctx context.Context) (models.AppSettings, error) {
	stored, err := m.store.LoadSettings(ctx)
	if err != nil {
		return models.AppSettings{}, err
	}

	m.mu.Lock()
	if stored != nil {
		m.cache = *stored
	}
	s := m.cache
	m.mu.Unlock()
	return s, nil
}

// Get returns the current settings snapshot.
func (m *Manager) Get() models.AppSettings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cache
}

// Save replaces the settings, persists them, and notifies subscribers. The
// lock is held across persist and cache update so a concurrent writer cannot
// merge from a snapshot that is about to be overwritten.
func (m *Manager) Save(ctx context.Context, s models.AppSettings) error {
	m.mu.Lock()
	listeners, err := m.saveLocked(ctx, s)
	m.mu.Unlock()
	if err != nil {
		return err
	}

	for _, fn := range listeners {
		fn(s)
	}
	return nil
}

// Update applies a partial change on top of the current settings. Merge,
// persist, and cache update happen under one critical section; concurrent
// updates serialize and each merges from the previous one's result.
func (m *Manager) Update(ctx context.Context, p Patch) (models.AppSettings, error) {
	m.mu.Lock()
	next := m.cache
	if p.Currency != nil {
		next.Currency = *p.Currency
	}
	if p.MonthlyBudget != nil {
		next.MonthlyBudget = *p.MonthlyBudget
	}
	if p.AlertThreshold != nil {
		next.AlertThreshold = *p.AlertThreshold
	}
	if p.BudgetAlertsEnabled != nil {
		next.BudgetAlertsEnabled = *p.BudgetAlertsEnabled
	}
	if p.CategoryBudgets != nil {
		next.CategoryBudgets = p.CategoryBudgets
	}
	if p.SelectedMonth != nil {
		next.SelectedMonth = *p.SelectedMonth
	}
	if p.ShowDelta != nil {
		next.ShowDelta = p.ShowDelta
	}
	listeners, err := m.saveLocked(ctx, next)
	m.mu.Unlock()
	if err != nil {
		return models.AppSettings{}, err
	}

	for _, fn := range listeners {
		fn(next)
	}
	return next, nil
}

// saveLocked persists s and updates the cache. Callers must hold mu; the
// returned listener snapshot is invoked after unlocking so a listener can
// call back into the manager.
func (m *Manager) saveLocked(ctx context.Context, s models.AppSettings) ([]func(models.AppSettings), error) {
	if err := m.store.SaveSettings(ctx, s); err != nil {
		return nil, err
	}
	m.cache = s
	return m.snapshotListeners(), nil
}

// OnChange subscribes fn to settings changes and returns an unsubscribe
// function. The presentation layer uses this to re-run aggregation when the
// currency or selected month changes.
func (m *Manager) OnChange(fn func(models.AppSettings)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// snapshotListeners returns the current listeners in subscription order.
// Callers must hold mu.
func (m *Manager) snapshotListeners() []func(models.AppSettings) {
	ids := make([]int, 0, len(m.listeners))
	for id := range m.listeners {
		ids = append(ids, id)
	}
	// Map iteration order is random; keep notification order stable.
	sort.Ints(ids)
	out := make([]func(models.AppSettings), 0, len(ids))
	for _, id := range ids {
		out = append(out, m.listeners[id])
	}
	return out
}
