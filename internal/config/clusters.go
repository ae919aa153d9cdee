package config

import (
	"fmt"
	"strings"
)

// DefaultClusterName is the name given to a cluster declared without a suffix.
const DefaultClusterName = "default"

// Clusters is the validated, immutable set of cluster descriptors.
type Clusters struct {
	list        []ClusterConfig
	index       map[string]int
	defaultName string
}

// NewClusters validates descriptors and designates the default cluster.
// defaultName may be empty, in which case a cluster named "default" or the
// only configured cluster becomes the default.
func NewClusters(list []ClusterConfig, defaultName string) (*Clusters, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: no clusters configured", ErrConfiguration)
	}
	if len(list) > MaxClusters {
		return nil, fmt.Errorf("%w: %d clusters configured, at most %d allowed", ErrConfiguration, len(list), MaxClusters)
	}

	c := &Clusters{
		list:  make([]ClusterConfig, 0, len(list)),
		index: make(map[string]int, len(list)),
	}
	for _, raw := range list {
		cfg, err := normalize(raw)
		if err != nil {
			return nil, err
		}
		if _, dup := c.index[cfg.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate cluster name %q", ErrConfiguration, cfg.Name)
		}
		c.index[cfg.Name] = len(c.list)
		c.list = append(c.list, cfg)
	}

	defaultName = strings.TrimSpace(defaultName)
	switch {
	case defaultName != "":
		if _, ok := c.index[defaultName]; !ok {
			return nil, fmt.Errorf("%w: default cluster %q is not configured", ErrConfiguration, defaultName)
		}
		c.defaultName = defaultName
	case c.has(DefaultClusterName):
		c.defaultName = DefaultClusterName
	case len(c.list) == 1:
		c.defaultName = c.list[0].Name
	}
	return c, nil
}

func (c *Clusters) has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Get returns the descriptor with the given name.
func (c *Clusters) Get(name string) (ClusterConfig, bool) {
	i, ok := c.index[name]
	if !ok {
		return ClusterConfig{}, false
	}
	return c.list[i], true
}

// All returns the descriptors in configuration order.
func (c *Clusters) All() []ClusterConfig {
	out := make([]ClusterConfig, len(c.list))
	copy(out, c.list)
	return out
}

// Names returns cluster names in configuration order.
func (c *Clusters) Names() []string {
	out := make([]string, len(c.list))
	for i, cfg := range c.list {
		out[i] = cfg.Name
	}
	return out
}

// Default returns the default cluster name, or "" when none is designated.
func (c *Clusters) Default() string { return c.defaultName }

func normalize(cfg ClusterConfig) (ClusterConfig, error) {
	cfg.Name = strings.TrimSpace(cfg.Name)
	if cfg.Name == "" {
		return cfg, fmt.Errorf("%w: cluster name is empty", ErrConfiguration)
	}

	brokers := make([]string, 0, len(cfg.Brokers))
	for _, b := range cfg.Brokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		return cfg, fmt.Errorf("%w: cluster %q has no bootstrap servers", ErrConfiguration, cfg.Name)
	}
	cfg.Brokers = brokers

	cfg.SecurityProtocol = strings.ToUpper(strings.TrimSpace(cfg.SecurityProtocol))
	if cfg.SecurityProtocol == "" {
		cfg.SecurityProtocol = inferProtocol(cfg)
	}
	switch cfg.SecurityProtocol {
	case ProtocolPlaintext, ProtocolSSL, ProtocolSASLPlaintext, ProtocolSASLSSL:
	default:
		return cfg, fmt.Errorf("%w: cluster %q has unknown security protocol %q", ErrConfiguration, cfg.Name, cfg.SecurityProtocol)
	}

	if !cfg.UsesSASL() {
		cfg.SASL = nil
		return cfg, nil
	}
	if cfg.SASL == nil || strings.TrimSpace(cfg.SASL.Mechanism) == "" {
		return cfg, fmt.Errorf("%w: cluster %q uses %s without a SASL mechanism", ErrConfiguration, cfg.Name, cfg.SecurityProtocol)
	}
	sasl := *cfg.SASL
	sasl.Mechanism = strings.ToUpper(strings.TrimSpace(sasl.Mechanism))
	switch sasl.Mechanism {
	case MechanismPlain, MechanismScramSHA256, MechanismScramSHA512, MechanismAWSMSKIAM:
	default:
		return cfg, fmt.Errorf("%w: cluster %q has unknown SASL mechanism %q", ErrConfiguration, cfg.Name, sasl.Mechanism)
	}
	cfg.SASL = &sasl
	return cfg, nil
}

func inferProtocol(cfg ClusterConfig) string {
	hasSASL := cfg.SASL != nil && cfg.SASL.Mechanism != ""
	switch {
	case hasSASL && cfg.TLS != nil:
		return ProtocolSASLSSL
	case hasSASL:
		return ProtocolSASLPlaintext
	case cfg.TLS != nil:
		return ProtocolSSL
	default:
		return ProtocolPlaintext
	}
}
