package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/OliveiraNt/maned-lookout/internal/config"
	"github.com/OliveiraNt/maned-lookout/internal/domain"
	"github.com/OliveiraNt/maned-lookout/internal/metrics"
	"github.com/OliveiraNt/maned-lookout/internal/utils"
)

// ErrRepositoryClosed is returned by GetClient after Close.
var ErrRepositoryClosed = errors.New("cluster repository closed")

// ClusterRepository holds the configured clusters and lazily creates one
// admin client per cluster, caching it until a connection failure
// invalidates it.
type ClusterRepository struct {
	mu       sync.RWMutex
	clients  map[string]domain.AdminClient
	closed   bool
	clusters *config.Clusters
	factory  domain.ClientFactory

	// creating serializes client construction per cluster name.
	creating map[string]*sync.Mutex
}

var _ domain.ClusterRepository = (*ClusterRepository)(nil)

// NewClusterRepository creates a repository over an already validated cluster set.
func NewClusterRepository(clusters *config.Clusters, factory domain.ClientFactory) *ClusterRepository {
	creating := make(map[string]*sync.Mutex)
	for _, name := range clusters.Names() {
		creating[name] = &sync.Mutex{}
	}
	return &ClusterRepository{
		clients:  make(map[string]domain.AdminClient),
		clusters: clusters,
		factory:  factory,
		creating: creating,
	}
}

// FindByName retrieves a cluster configuration by name
func (r *ClusterRepository) FindByName(name string) (config.ClusterConfig, bool) {
	return r.clusters.Get(name)
}

// FindAll retrieves all cluster configurations in configuration order
func (r *ClusterRepository) FindAll() []config.ClusterConfig {
	return r.clusters.All()
}

// DefaultCluster returns the default cluster name or "" when none is designated.
func (r *ClusterRepository) DefaultCluster() string {
	return r.clusters.Default()
}

// GetClient returns the cached admin client for name, creating it on first use.
// Concurrent first calls for the same cluster construct exactly one client.
func (r *ClusterRepository) GetClient(ctx context.Context, name string) (domain.AdminClient, error) {
	cfg, ok := r.clusters.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCluster, name)
	}

	if client, err := r.cached(name); client != nil || err != nil {
		return client, err
	}

	lock := r.creating[name]
	lock.Lock()
	defer lock.Unlock()

	if client, err := r.cached(name); client != nil || err != nil {
		return client, err
	}

	client, err := r.factory.CreateClient(ctx, cfg)
	if err != nil {
		metrics.HandleCreateFailures.WithLabelValues(name).Inc()
		utils.Logger.Warn("create admin client failed", "cluster", name, "err", err)
		return nil, err
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		client.Close()
		return nil, ErrRepositoryClosed
	}
	r.clients[name] = client
	r.mu.Unlock()

	metrics.HandlesCreated.WithLabelValues(name).Inc()
	utils.Logger.Info("admin client created", "cluster", name, "brokers", cfg.Brokers)
	return client, nil
}

func (r *ClusterRepository) cached(name string) (domain.AdminClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, ErrRepositoryClosed
	}
	return r.clients[name], nil
}

// Invalidate discards the cached client for name if it is still client. A
// stale caller holding an older client never evicts its replacement.
func (r *ClusterRepository) Invalidate(name string, client domain.AdminClient) {
	r.mu.Lock()
	cur, ok := r.clients[name]
	if !ok || cur != client {
		r.mu.Unlock()
		return
	}
	delete(r.clients, name)
	r.mu.Unlock()

	client.Close()
	metrics.HandlesInvalidated.WithLabelValues(name).Inc()
	utils.Logger.Warn("admin client invalidated", "cluster", name)
}

// Close closes every cached client. Later GetClient calls fail.
func (r *ClusterRepository) Close() {
	r.mu.Lock()
	clients := r.clients
	r.clients = make(map[string]domain.AdminClient)
	r.closed = true
	r.mu.Unlock()

	for name, c := range clients {
		c.Close()
		utils.Logger.Debug("admin client closed", "cluster", name)
	}
}
