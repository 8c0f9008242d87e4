package lambda

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// Factory builds the embedded server. It runs once per execution context.
type Factory func(ctx context.Context) (Injector, error)

// staleAfter is how long an idle manager still reports healthy
const staleAfter = 5 * time.Minute

// Manager lazily constructs the embedded server and the Proxy wrapping it,
// then reuses both across invocations.
type Manager struct {
	factory  Factory
	options  []Option
	mu       sync.RWMutex
	server   Injector
	proxy    *Proxy
	lastUsed time.Time
}

// NewManager creates a manager that builds its server with factory
func NewManager(factory Factory, opts ...Option) *Manager {
	return &Manager{
		factory: factory,
		options: opts,
	}
}

// Initialize builds the server and proxy if that has not happened yet.
// A failed build is retried on the next call.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.proxy != nil {
		return nil
	}

	server, err := m.factory(ctx)
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}
	if server == nil {
		return fmt.Errorf("failed to build server: factory returned nil")
	}

	m.server = server
	m.proxy = For(server, m.options...)
	m.lastUsed = time.Now()
	return nil
}

// Proxy returns the shared proxy, initializing it on first use
func (m *Manager) Proxy(ctx context.Context) (*Proxy, error) {
	m.mu.RLock()
	proxy := m.proxy
	m.mu.RUnlock()

	if proxy == nil {
		if err := m.Initialize(ctx); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastUsed = time.Now()
	return m.proxy, nil
}

// Handle proxies event through the shared proxy
func (m *Manager) Handle(ctx context.Context, event Event) (Result, error) {
	proxy, err := m.Proxy(ctx)
	if err != nil {
		return Result{}, err
	}
	return proxy.Handle(ctx, event)
}

// IsHealthy reports whether the server is built and was used recently
func (m *Manager) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.proxy == nil {
		return false
	}
	return time.Since(m.lastUsed) < staleAfter
}

// Cleanup closes the server if it holds resources and forgets it
func (m *Manager) Cleanup() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if closer, ok := m.server.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return err
		}
	}

	m.server = nil
	m.proxy = nil
	return nil
}
