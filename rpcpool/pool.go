// Package rpcpool caches RPC connection handles per endpoint URL so a handle
// is dialed once and reused across calls. Handles are logically stateless
// dispatchers, so read-only reuse across goroutines is safe.
package rpcpool

import (
	"sync"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"
)

// ClientFactory creates an RPC client for a URL. Overridable in tests.
type ClientFactory func(url string) *rpc.Client

// Pool is a thread-safe cache of RPC clients keyed by endpoint URL.
// Callers own the pool instance; there is no package-level singleton.
type Pool struct {
	mu      sync.RWMutex
	clients map[string]*rpc.Client
	factory ClientFactory
	logger  zerolog.Logger
}

// New creates a new Pool instance.
func New(factory ClientFactory, logger zerolog.Logger) *Pool {
	if factory == nil {
		factory = rpc.New
	}
	return &Pool{
		clients: make(map[string]*rpc.Client),
		factory: factory,
		logger:  logger.With().Str("component", "rpc_pool").Logger(),
	}
}

// Get returns the cached client for the URL, creating it on first use.
func (p *Pool) Get(url string) *rpc.Client {
	p.mu.RLock()
	client, ok := p.clients[url]
	p.mu.RUnlock()
	if ok {
		return client
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Re-check after acquiring the write lock.
	if client, ok := p.clients[url]; ok {
		return client
	}

	client = p.factory(url)
	p.clients[url] = client
	p.logger.Debug().Str("url", url).Msg("created RPC client")
	return client
}

// Size returns the number of cached clients.
func (p *Pool) Size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.clients)
}

// Close clears all cached clients.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clients = make(map[string]*rpc.Client)
}
