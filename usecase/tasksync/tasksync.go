// Package tasksync owns the canonical in-memory copy of a signed-in user's
// tasks. Every mutation goes through the remote task store first; the local
// collection only ever reflects records the store has acknowledged. Derived
// views are recomputed on demand and never touch the backing collection.
package tasksync

import (
	"sync"

	"go.uber.org/zap"

	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/repository"
)

// Status tracks the lifecycle of an asynchronous remote call.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// ErrClosed is returned by operations issued after the core was torn down.
var ErrClosed = domain.NewError(domain.ErrCodeUnavailable, "task core is closed")

// SnapshotSink receives successfully fetched weather snapshots, e.g. for
// persistence across sessions. A nil sink disables write-through.
type SnapshotSink interface {
	Put(snapshot domain.WeatherSnapshot) error
}

// WeatherEntry is the cached outcome of one weather lookup, keyed by the
// exact location text. Failed lookups are cached the same as successes.
type WeatherEntry struct {
	Status   Status                  `json:"status"`
	Snapshot *domain.WeatherSnapshot `json:"snapshot,omitempty"`
	Err      string                  `json:"error,omitempty"`
}

// Core mediates every task mutation through the remote store and keeps the
// collection consistent with what the store acknowledged. One instance per
// signed-in user; discarded on logout.
//
// The mutex is never held across a remote call, so independent mutations may
// complete out of order. Each completion applies a single collection-level
// operation, which makes the last response to land win.
type Core struct {
	store    repository.TaskStore
	weather  repository.WeatherProvider
	sessions repository.SessionProvider
	sink     SnapshotSink
	logger   *zap.Logger

	mu         sync.RWMutex
	tasks      []domain.Task
	loadStatus Status
	loadErr    string
	cache      map[string]*WeatherEntry
	forecast   *domain.Forecast
	observers  []func()
	closed     bool
}

// New builds a core around the three external collaborators. sink may be nil.
func New(store repository.TaskStore, weather repository.WeatherProvider, sessions repository.SessionProvider, sink SnapshotSink, logger *zap.Logger) *Core {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Core{
		store:      store,
		weather:    weather,
		sessions:   sessions,
		sink:       sink,
		logger:     logger,
		loadStatus: StatusIdle,
		cache:      make(map[string]*WeatherEntry),
	}
}

// Subscribe registers an observer invoked after every successfully applied
// mutation or load. Observers always see a fully applied state.
func (c *Core) Subscribe(fn func()) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

// Close marks the core as torn down. In-flight completions become no-ops so
// a logout never resurrects stale state.
func (c *Core) Close() {
	c.mu.Lock()
	c.closed = true
	c.observers = nil
	c.mu.Unlock()
}

// Tasks returns a copy of the current collection in its load order.
func (c *Core) Tasks() []domain.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// LoadState reports the load status and the last load error message, if any.
func (c *Core) LoadState() (Status, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadStatus, c.loadErr
}

// WeatherState returns a copy of the per-location snapshot cache.
func (c *Core) WeatherState() map[string]WeatherEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]WeatherEntry, len(c.cache))
	for loc, entry := range c.cache {
		out[loc] = *entry
	}
	return out
}

// ForecastSnapshot returns the last fetched outdoor forecast, if any.
func (c *Core) ForecastSnapshot() *domain.Forecast {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.forecast
}

func (c *Core) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// notify calls observers outside the lock so they can read core state freely.
func (c *Core) notify() {
	c.mu.RLock()
	observers := make([]func(), len(c.observers))
	copy(observers, c.observers)
	c.mu.RUnlock()
	for _, fn := range observers {
		fn()
	}
}
