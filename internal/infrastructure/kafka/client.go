package kafka

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	"github.com/OliveiraNt/maned-lookout/internal/config"
	"github.com/OliveiraNt/maned-lookout/internal/domain"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sasl"
	"github.com/twmb/franz-go/pkg/sasl/aws"
	"github.com/twmb/franz-go/pkg/sasl/plain"
	"github.com/twmb/franz-go/pkg/sasl/scram"
)

// DefaultClientID identifies the service to brokers when none is configured.
const DefaultClientID = "maned-lookout"

// Client implements domain.AdminClient using franz-go.
type Client struct {
	client *kgo.Client
	admin  *Admin
}

var _ domain.AdminClient = (*Client)(nil)

// NewClient creates a Kafka admin client and proves the cluster is reachable.
// The returned error wraps domain.ErrConnection when the cluster cannot be pinged.
func NewClient(ctx context.Context, cfg config.ClusterConfig, dialTimeout time.Duration) (*Client, error) {
	opts, err := buildOptions(cfg, dialTimeout)
	if err != nil {
		return nil, err
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
	}

	pctx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := client.Ping(pctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", domain.ErrConnection, cfg.Name, err)
	}

	return &Client{
		client: client,
		admin:  NewAdmin(kadm.NewClient(client)),
	}, nil
}

func buildOptions(cfg config.ClusterConfig, dialTimeout time.Duration) ([]kgo.Opt, error) {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = DefaultClientID
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(clientID),
		kgo.WithLogger(newKgoLogger(cfg.Name)),
	}
	if dialTimeout > 0 {
		opts = append(opts, kgo.DialTimeout(dialTimeout))
	}

	if cfg.UsesTLS() {
		tlsCfg, err := buildTLSConfig(cfg.TLS)
		if err != nil {
			return nil, fmt.Errorf("%w: cluster %q tls: %w", domain.ErrConfiguration, cfg.Name, err)
		}
		opts = append(opts, kgo.DialTLSConfig(tlsCfg))
	}

	if cfg.UsesSASL() {
		if cfg.SASL == nil {
			return nil, fmt.Errorf("%w: cluster %q has no sasl settings", domain.ErrConfiguration, cfg.Name)
		}
		mech, err := buildSASLMechanism(cfg.SASL)
		if err != nil {
			return nil, fmt.Errorf("%w: cluster %q sasl: %w", domain.ErrConfiguration, cfg.Name, err)
		}
		opts = append(opts, kgo.SASL(mech))
	}

	return opts, nil
}

// Metadata returns brokers and topics, optionally restricted to the named topics.
func (c *Client) Metadata(ctx context.Context, topics ...string) (*domain.ClusterMetadata, error) {
	return c.admin.Metadata(ctx, topics...)
}

// DescribeTopicConfigs returns the effective configuration of a topic.
func (c *Client) DescribeTopicConfigs(ctx context.Context, topic string) (map[string]string, error) {
	return c.admin.DescribeTopicConfigs(ctx, topic)
}

// ListConsumerGroups returns every consumer group known to the cluster.
func (c *Client) ListConsumerGroups(ctx context.Context) ([]domain.ConsumerGroupInfo, error) {
	return c.admin.ListConsumerGroups(ctx)
}

// DescribeConsumerGroup returns members, assignments and committed offsets of a group.
func (c *Client) DescribeConsumerGroup(ctx context.Context, group string) (*domain.ConsumerGroupDetail, error) {
	return c.admin.DescribeConsumerGroup(ctx, group)
}

// CreateTopic creates a new topic
func (c *Client) CreateTopic(ctx context.Context, req domain.CreateTopicRequest) error {
	return c.admin.CreateTopic(ctx, req)
}

// DeleteTopic deletes a topic
func (c *Client) DeleteTopic(ctx context.Context, topic string) error {
	return c.admin.DeleteTopic(ctx, topic)
}

// UpdateTopicConfig updates topic configurations
func (c *Client) UpdateTopicConfig(ctx context.Context, topic string, req domain.UpdateTopicConfigRequest) error {
	return c.admin.UpdateTopicConfig(ctx, topic, req)
}

// IncreasePartitions increases the number of partitions for a topic
func (c *Client) IncreasePartitions(ctx context.Context, topic string, req domain.IncreasePartitionsRequest) error {
	return c.admin.IncreasePartitions(ctx, topic, req)
}

// ResetConsumerGroupOffsets commits new offsets for a group on one topic.
func (c *Client) ResetConsumerGroupOffsets(ctx context.Context, group string, req domain.ResetOffsetsRequest) ([]domain.GroupOffset, error) {
	return c.admin.ResetConsumerGroupOffsets(ctx, group, req)
}

// Close releases resources
func (c *Client) Close() {
	if c != nil && c.client != nil {
		c.client.Close()
	}
}

// buildTLSConfig reads cert files and builds a tls.Config. Without a CA file
// the system roots are used.
func buildTLSConfig(t *config.TLSConfig) (*tls.Config, error) {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if t == nil {
		return cfg, nil
	}
	cfg.InsecureSkipVerify = t.InsecureSkipVerify

	if t.CAFile != "" {
		b, err := os.ReadFile(t.CAFile)
		if err != nil {
			return nil, err
		}
		rootCAs := x509.NewCertPool()
		if !rootCAs.AppendCertsFromPEM(b) {
			return nil, fmt.Errorf("no certificates found in %s", t.CAFile)
		}
		cfg.RootCAs = rootCAs
	}

	if t.CertFile != "" || t.KeyFile != "" {
		if t.CertFile == "" || t.KeyFile == "" {
			return nil, fmt.Errorf("client certificate and key must be set together")
		}
		cert, err := tls.LoadX509KeyPair(t.CertFile, t.KeyFile)
		if err != nil {
			return nil, err
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	return cfg, nil
}

// buildSASLMechanism creates a franz-go sasl.Mechanism based on SASLConfig
func buildSASLMechanism(s *config.SASLConfig) (sasl.Mechanism, error) {
	username := s.Username
	password := s.Password

	if s.UsernameEnv != "" {
		if v := os.Getenv(s.UsernameEnv); v != "" {
			username = v
		}
	}
	if s.PasswordEnv != "" {
		if v := os.Getenv(s.PasswordEnv); v != "" {
			password = v
		}
	}

	switch s.Mechanism {
	case config.MechanismPlain:
		return plain.Auth{User: username, Pass: password}.AsMechanism(), nil
	case config.MechanismScramSHA256:
		return scram.Auth{User: username, Pass: password}.AsSha256Mechanism(), nil
	case config.MechanismScramSHA512:
		return scram.Auth{User: username, Pass: password}.AsSha512Mechanism(), nil
	case config.MechanismAWSMSKIAM:
		return buildAWSMechanism()
	default:
		return nil, fmt.Errorf("unsupported mechanism %q", s.Mechanism)
	}
}

// buildAWSMechanism constructs an AWS IAM SASL mechanism from the standard
// AWS credential variables.
func buildAWSMechanism() (sasl.Mechanism, error) {
	access := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if access == "" || secret == "" {
		return nil, fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY are required for %s", config.MechanismAWSMSKIAM)
	}

	return aws.Auth{
		AccessKey:    access,
		SecretKey:    secret,
		SessionToken: os.Getenv("AWS_SESSION_TOKEN"),
		UserAgent:    DefaultClientID,
	}.AsManagedStreamingIAMMechanism(), nil
}
