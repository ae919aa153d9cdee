package kafka

import (
	"context"
	"time"

	"github.com/OliveiraNt/maned-lookout/internal/config"
	"github.com/OliveiraNt/maned-lookout/internal/domain"
)

// Factory creates Kafka clients from configuration.
type Factory struct {
	dialTimeout time.Duration
}

// NewFactory creates a client factory whose clients dial and ping within dialTimeout.
func NewFactory(dialTimeout time.Duration) *Factory {
	if dialTimeout <= 0 {
		dialTimeout = config.DefaultConnectTimeout
	}
	return &Factory{dialTimeout: dialTimeout}
}

// CreateClient creates a new Kafka client from configuration.
func (f *Factory) CreateClient(ctx context.Context, cfg config.ClusterConfig) (domain.AdminClient, error) {
	client, err := NewClient(ctx, cfg, f.dialTimeout)
	if err != nil {
		return nil, err
	}
	return client, nil
}
