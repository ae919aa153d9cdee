package application

import (
	"context"
	"sort"
	"time"

	"github.com/OliveiraNt/maned-lookout/internal/config"
	"github.com/OliveiraNt/maned-lookout/internal/dispatch"
	"github.com/OliveiraNt/maned-lookout/internal/domain"
	"github.com/OliveiraNt/maned-lookout/internal/utils"
	"golang.org/x/sync/errgroup"
)

// ClusterService provides cluster level views and owns the dispatch path
// shared by the other services.
type ClusterService struct {
	repo domain.ClusterRepository
	run  *runner
}

// NewClusterService creates a new cluster service. Admin calls run on exec
// with timeout as their deadline.
func NewClusterService(repo domain.ClusterRepository, exec *dispatch.Executor, timeout time.Duration) *ClusterService {
	if timeout <= 0 {
		timeout = dispatch.DefaultTimeout
	}
	return &ClusterService{
		repo: repo,
		run:  &runner{repo: repo, exec: exec, timeout: timeout},
	}
}

func (s *ClusterService) getRunner() *runner {
	return s.run
}

// GetCluster retrieves a cluster configuration by name, the default one when name is empty.
func (s *ClusterService) GetCluster(name string) (config.ClusterConfig, error) {
	return s.run.resolve(name, "get_cluster")
}

// ListClusters probes every configured cluster concurrently. It never fails:
// unreachable clusters are reported with an error status. Entries keep
// configuration order.
func (s *ClusterService) ListClusters(ctx context.Context) []domain.ClusterSummary {
	cfgs := s.repo.FindAll()
	def := s.repo.DefaultCluster()
	out := make([]domain.ClusterSummary, len(cfgs))

	var g errgroup.Group
	for i, cfg := range cfgs {
		g.Go(func() error {
			out[i] = s.summarize(ctx, cfg, cfg.Name == def)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (s *ClusterService) summarize(ctx context.Context, cfg config.ClusterConfig, isDefault bool) domain.ClusterSummary {
	summary := domain.ClusterSummary{
		Name:             cfg.Name,
		BootstrapServers: cfg.Brokers,
		SecurityProtocol: cfg.SecurityProtocol,
		AuthType:         cfg.GetAuthType(),
		ReadOnly:         cfg.ReadOnly,
		Default:          isDefault,
	}
	if cfg.HasCertificate() {
		if info, err := cfg.GetCertificateInfo(); err == nil {
			summary.Certificate = info
		} else {
			utils.Logger.Warn("get certificate info failed", "cluster", cfg.Name, "err", err)
		}
	}

	meta, err := metadata(ctx, s.run, cfg.Name, "list_clusters")
	if err != nil {
		summary.Status = domain.StatusError
		summary.Error = err.Error()
		return summary
	}
	summary.Status = domain.StatusHealthy
	summary.TopicsCount = len(meta.UserTopics())
	summary.BrokersCount = len(meta.Brokers)
	return summary
}

// GetClusterMetadata returns broker, topic and security totals of a cluster.
func (s *ClusterService) GetClusterMetadata(ctx context.Context, cluster string) (*domain.ClusterOverview, error) {
	cfg, err := s.run.resolve(cluster, "get_cluster_metadata")
	if err != nil {
		return nil, err
	}
	meta, err := metadata(ctx, s.run, cfg.Name, "get_cluster_metadata")
	if err != nil {
		return nil, err
	}

	ov := &domain.ClusterOverview{
		ClusterName:      cfg.Name,
		BootstrapServers: cfg.Brokers,
		ReadOnly:         cfg.ReadOnly,
		ClusterID:        meta.ClusterID,
		ControllerID:     meta.ControllerID,
		Brokers:          domain.BrokerTotals{Count: len(meta.Brokers), IDs: make([]int32, 0, len(meta.Brokers))},
		Security: domain.SecuritySummary{
			Protocol:              cfg.SecurityProtocol,
			AuthenticationEnabled: cfg.UsesSASL() || (cfg.TLS != nil && cfg.TLS.CertFile != ""),
		},
	}
	if cfg.SASL != nil {
		ov.Security.SASLMechanism = cfg.SASL.Mechanism
	}
	for _, b := range meta.Brokers {
		ov.Brokers.IDs = append(ov.Brokers.IDs, b.ID)
	}
	sort.Slice(ov.Brokers.IDs, func(i, j int) bool { return ov.Brokers.IDs[i] < ov.Brokers.IDs[j] })

	for _, t := range meta.Topics {
		ov.Topics.Total++
		if domain.IsInternalTopic(t.Name, t.Internal) {
			ov.Topics.InternalTopics++
		} else {
			ov.Topics.UserTopics++
		}
		ov.Topics.TotalPartitions += len(t.Partitions)
	}
	return ov, nil
}

// ListBrokers returns the brokers of a cluster ordered by id with the controller flagged.
func (s *ClusterService) ListBrokers(ctx context.Context, cluster string) ([]domain.BrokerInfo, error) {
	cfg, err := s.run.resolve(cluster, "list_brokers")
	if err != nil {
		return nil, err
	}
	meta, err := metadata(ctx, s.run, cfg.Name, "list_brokers")
	if err != nil {
		return nil, err
	}
	brokers := make([]domain.BrokerInfo, 0, len(meta.Brokers))
	for _, b := range meta.Brokers {
		b.IsController = b.ID == meta.ControllerID
		brokers = append(brokers, b)
	}
	sort.Slice(brokers, func(i, j int) bool { return brokers[i].ID < brokers[j].ID })
	return brokers, nil
}
