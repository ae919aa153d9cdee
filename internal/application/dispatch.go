package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/OliveiraNt/maned-lookout/internal/config"
	"github.com/OliveiraNt/maned-lookout/internal/dispatch"
	"github.com/OliveiraNt/maned-lookout/internal/domain"
	"github.com/OliveiraNt/maned-lookout/internal/metrics"
	"github.com/OliveiraNt/maned-lookout/internal/utils"
)

// runner resolves clusters and runs admin calls on the executor.
type runner struct {
	repo    domain.ClusterRepository
	exec    *dispatch.Executor
	timeout time.Duration
}

// resolve maps an optional cluster name to its configuration. An empty name
// selects the default cluster.
func (r *runner) resolve(name, op string) (config.ClusterConfig, error) {
	if name == "" {
		name = r.repo.DefaultCluster()
		if name == "" {
			return config.ClusterConfig{}, &domain.OpError{Op: op, Err: domain.ErrNoDefaultCluster}
		}
	}
	cfg, ok := r.repo.FindByName(name)
	if !ok {
		return config.ClusterConfig{}, &domain.OpError{Cluster: name, Op: op, Err: fmt.Errorf("%w: %q", domain.ErrUnknownCluster, name)}
	}
	return cfg, nil
}

// invalid attaches the requested cluster and operation to a request validation error.
func invalid(cluster, op string, err error) error {
	return &domain.OpError{Cluster: cluster, Op: op, Err: err}
}

// guard rejects mutations on read-only clusters before anything is dispatched.
func guard(cfg config.ClusterConfig, op string) error {
	if !cfg.ReadOnly {
		return nil
	}
	metrics.ReadOnlyRejections.WithLabelValues(cfg.Name, op).Inc()
	utils.Logger.Warn("mutation rejected on read-only cluster", "cluster", cfg.Name, "op", op)
	return &domain.OpError{Cluster: cfg.Name, Op: op, Err: domain.ErrReadOnly}
}

// call runs fn with the cluster's admin client on a dispatch worker. A
// connection failure invalidates the client fn was given.
func call[T any](ctx context.Context, r *runner, cluster, op string, fn func(ctx context.Context, client domain.AdminClient) (T, error)) (T, error) {
	v, err := dispatch.Do(ctx, r.exec, cluster, op, r.timeout, func(ctx context.Context) (T, error) {
		client, err := r.repo.GetClient(ctx, cluster)
		if err != nil {
			var zero T
			return zero, err
		}
		v, err := fn(ctx, client)
		if errors.Is(err, domain.ErrConnection) {
			r.repo.Invalidate(cluster, client)
		}
		return v, err
	})
	if err != nil {
		utils.Logger.Error(op+" failed", "cluster", cluster, "err", err)
		var zero T
		return zero, &domain.OpError{Cluster: cluster, Op: op, Err: err}
	}
	return v, nil
}

// metadata fetches a snapshot of cluster, optionally limited to topics.
func metadata(ctx context.Context, r *runner, cluster, op string, topics ...string) (*domain.ClusterMetadata, error) {
	return call(ctx, r, cluster, op, func(ctx context.Context, c domain.AdminClient) (*domain.ClusterMetadata, error) {
		return c.Metadata(ctx, topics...)
	})
}
