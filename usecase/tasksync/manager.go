package tasksync

import (
	"sync"

	"go.uber.org/zap"
)

// Builder constructs a core bound to one user's task store view.
type Builder func(userID string) *Core

// Manager keeps at most one live core per signed-in user. Cores are created
// lazily on first use and torn down on logout so no state survives a session.
type Manager struct {
	build  Builder
	logger *zap.Logger

	mu    sync.Mutex
	cores map[string]*Core
}

func NewManager(build Builder, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		build:  build,
		logger: logger,
		cores:  make(map[string]*Core),
	}
}

// Open returns the user's core, creating it when absent. Idempotent.
func (m *Manager) Open(userID string) *Core {
	m.mu.Lock()
	defer m.mu.Unlock()
	if core, ok := m.cores[userID]; ok {
		return core
	}
	core := m.build(userID)
	m.cores[userID] = core
	m.logger.Debug("task core opened", zap.String("user_id", userID))
	return core
}

// Release closes and drops the user's core. Pending completions on the old
// core become no-ops.
func (m *Manager) Release(userID string) {
	m.mu.Lock()
	core, ok := m.cores[userID]
	delete(m.cores, userID)
	m.mu.Unlock()
	if ok {
		core.Close()
		m.logger.Debug("task core released", zap.String("user_id", userID))
	}
}

// Shutdown closes every live core.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	cores := m.cores
	m.cores = make(map[string]*Core)
	m.mu.Unlock()
	for _, core := range cores {
		core.Close()
	}
}
