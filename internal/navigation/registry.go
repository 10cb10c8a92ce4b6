package navigation

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/campusworks/teacher-portal-api/internal/service"
)

// Registry holds one machine per live session. Machines are created lazily
// on first portal access and torn down on logout.
type Registry struct {
	mu       sync.Mutex
	machines map[string]*Machine

	gw       Gateway
	progress service.ProgressService
	logger   zerolog.Logger
}

// NewRegistry builds an empty machine registry.
func NewRegistry(gw Gateway, progress service.ProgressService, logger zerolog.Logger) *Registry {
	return &Registry{
		machines: make(map[string]*Machine),
		gw:       gw,
		progress: progress,
		logger:   logger,
	}
}

// Get returns the machine bound to the session, creating it at the section
// list root when absent.
func (r *Registry) Get(sessionID string) *Machine {
	r.mu.Lock()
	defer r.mu.Unlock()

	if machine, ok := r.machines[sessionID]; ok {
		return machine
	}

	machine := NewMachine(r.gw, r.progress, r.logger)
	r.machines[sessionID] = machine
	return machine
}

// Remove tears down the session's machine, cancelling any in-flight work.
func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	machine, ok := r.machines[sessionID]
	delete(r.machines, sessionID)
	r.mu.Unlock()

	if ok {
		machine.Close()
	}
}
