package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Environment variables read by Resolve and Load. In the multi-cluster shape
// the cluster variables carry a _<n> suffix, n in 1..MaxClusters.
const (
	EnvBootstrapServers = "KAFKA_BOOTSTRAP_SERVERS"
	EnvSecurityProtocol = "KAFKA_SECURITY_PROTOCOL"
	EnvSASLMechanism    = "KAFKA_SASL_MECHANISM"
	EnvSASLUsername     = "KAFKA_SASL_USERNAME"
	EnvSASLPassword     = "KAFKA_SASL_PASSWORD"
	EnvSSLCALocation    = "KAFKA_SSL_CA_LOCATION"
	EnvSSLCertLocation  = "KAFKA_SSL_CERTIFICATE_LOCATION"
	EnvSSLKeyLocation   = "KAFKA_SSL_KEY_LOCATION"
	EnvReadOnly         = "KAFKA_READ_ONLY"
	EnvViewOnly         = "VIEWONLY"
	EnvClientID         = "KAFKA_CLIENT_ID"
	EnvClusterName      = "KAFKA_CLUSTER_NAME"
	EnvDefaultCluster   = "KAFKA_DEFAULT_CLUSTER"
	EnvConfigFile       = "LOOKOUT_CONFIG"
)

var suffixedVars = []string{
	EnvBootstrapServers,
	EnvSecurityProtocol,
	EnvSASLMechanism,
	EnvSASLUsername,
	EnvSASLPassword,
	EnvSSLCALocation,
	EnvSSLCertLocation,
	EnvSSLKeyLocation,
	EnvReadOnly,
	EnvViewOnly,
	EnvClientID,
	EnvClusterName,
}

// Environ returns the process environment as a map.
func Environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			env[k] = v
		}
	}
	return env
}

// Resolve builds the cluster set from environment variables. A non-empty
// KAFKA_BOOTSTRAP_SERVERS selects the single-cluster shape, a cluster named
// "default", and suffixed variables are not read. Otherwise the suffixed
// multi-cluster shape is used.
func Resolve(env map[string]string) (*Clusters, error) {
	var list []ClusterConfig
	if strings.TrimSpace(env[EnvBootstrapServers]) != "" {
		list = append(list, clusterFromEnv(env, "", DefaultClusterName))
		return NewClusters(list, env[EnvDefaultCluster])
	}

	suffixes, err := clusterSuffixes(env)
	if err != nil {
		return nil, err
	}
	if len(suffixes) == 0 {
		return nil, fmt.Errorf("%w: neither %s nor suffixed cluster variables are set", ErrConfiguration, EnvBootstrapServers)
	}
	for _, n := range suffixes {
		suffix := "_" + strconv.Itoa(n)
		name := strings.TrimSpace(env[EnvClusterName+suffix])
		bootstrap := strings.TrimSpace(env[EnvBootstrapServers+suffix])
		switch {
		case name == "" && bootstrap == "":
			return nil, fmt.Errorf("%w: cluster %d has settings but neither %s nor %s", ErrConfiguration, n, EnvClusterName+suffix, EnvBootstrapServers+suffix)
		case name == "":
			return nil, fmt.Errorf("%w: %s is set without %s", ErrConfiguration, EnvBootstrapServers+suffix, EnvClusterName+suffix)
		case bootstrap == "":
			return nil, fmt.Errorf("%w: %s is set without %s", ErrConfiguration, EnvClusterName+suffix, EnvBootstrapServers+suffix)
		}
		list = append(list, clusterFromEnv(env, suffix, name))
	}

	return NewClusters(list, env[EnvDefaultCluster])
}

// Load resolves clusters from the YAML file named by LOOKOUT_CONFIG, or from
// cluster environment variables when it is unset.
func Load(env map[string]string) (*Clusters, error) {
	if path := strings.TrimSpace(env[EnvConfigFile]); path != "" {
		clusters, err := LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		return clusters, nil
	}
	return Resolve(env)
}

func clusterSuffixes(env map[string]string) ([]int, error) {
	seen := make(map[int]struct{})
	for key := range env {
		for _, base := range suffixedVars {
			rest, ok := strings.CutPrefix(key, base+"_")
			if !ok {
				continue
			}
			n, err := strconv.Atoi(rest)
			if err != nil {
				continue
			}
			if n < 1 || n > MaxClusters {
				return nil, fmt.Errorf("%w: %s uses suffix %d, allowed range is 1..%d", ErrConfiguration, key, n, MaxClusters)
			}
			seen[n] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Ints(out)
	return out, nil
}

func clusterFromEnv(env map[string]string, suffix, name string) ClusterConfig {
	get := func(key string) string { return strings.TrimSpace(env[key+suffix]) }

	protocol := get(EnvSecurityProtocol)
	if protocol == "" {
		protocol = ProtocolPlaintext
	}

	cfg := ClusterConfig{
		Name:             name,
		Brokers:          strings.Split(get(EnvBootstrapServers), ","),
		SecurityProtocol: protocol,
		ClientID:         get(EnvClientID),
		ReadOnly:         parseBool(get(EnvReadOnly)) || parseBool(get(EnvViewOnly)),
	}

	if mech := get(EnvSASLMechanism); mech != "" {
		cfg.SASL = &SASLConfig{
			Mechanism: mech,
			Username:  env[EnvSASLUsername+suffix],
			Password:  env[EnvSASLPassword+suffix],
		}
	}

	ca, cert, key := get(EnvSSLCALocation), get(EnvSSLCertLocation), get(EnvSSLKeyLocation)
	if ca != "" || cert != "" || key != "" {
		cfg.TLS = &TLSConfig{CAFile: ca, CertFile: cert, KeyFile: key}
	}
	return cfg
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
