package payments

import (
	"errors"
	"sync"
	"time"
)

const (
	// SessionTTL is how long an idle payment session stays alive before
	// the janitor discards it.
	SessionTTL = 15 * time.Minute

	// CleanupInterval is how often the background cleanup runs
	CleanupInterval = 30 * time.Second
)

var ErrSessionNotFound = errors.New("payment session not found")

type managedFlow struct {
	flow      *Flow
	touchedAt time.Time
}

// SessionManager keeps live payment flows across requests. Flows are
// discarded when canceled, when they reach a terminal state and go idle,
// or when their TTL runs out.
type SessionManager struct {
	mu    sync.RWMutex
	flows map[string]*managedFlow

	stopCleanup chan struct{}
	wg          sync.WaitGroup
}

func NewSessionManager() *SessionManager {
	m := &SessionManager{
		flows:       make(map[string]*managedFlow),
		stopCleanup: make(chan struct{}),
	}

	m.wg.Add(1)
	go m.cleanupLoop()

	return m
}

func (m *SessionManager) cleanupLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.expireSessions()
		case <-m.stopCleanup:
			return
		}
	}
}

func (m *SessionManager) expireSessions() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for id, managed := range m.flows {
		if now.Sub(managed.touchedAt) >= SessionTTL {
			managed.flow.Cancel()
			delete(m.flows, id)
		}
	}
}

// Put registers a flow and returns its session id.
func (m *SessionManager) Put(flow *Flow) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.flows[flow.ID()] = &managedFlow{flow: flow, touchedAt: time.Now()}
	return flow.ID()
}

// Get fetches a live flow and refreshes its idle timer.
func (m *SessionManager) Get(id string) (*Flow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	managed, ok := m.flows[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	managed.touchedAt = time.Now()
	return managed.flow, nil
}

// Delete cancels and discards a flow. Unknown ids are a no-op.
func (m *SessionManager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if managed, ok := m.flows[id]; ok {
		managed.flow.Cancel()
		delete(m.flows, id)
	}
}

// Close stops the background cleanup and waits for it to finish
func (m *SessionManager) Close() error {
	close(m.stopCleanup)
	m.wg.Wait()
	return nil
}
