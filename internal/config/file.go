// Package config resolves the set of Kafka clusters the service talks to, from
// environment variables or a YAML file, and the runtime settings of the process.
package config

import (
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrConfiguration is returned when cluster configuration is invalid.
var ErrConfiguration = errors.New("invalid cluster configuration")

// MaxClusters is the number of clusters a configuration may declare.
const MaxClusters = 8

// Security protocols.
const (
	ProtocolPlaintext     = "PLAINTEXT"
	ProtocolSSL           = "SSL"
	ProtocolSASLPlaintext = "SASL_PLAINTEXT"
	ProtocolSASLSSL       = "SASL_SSL"
)

// SASL mechanisms.
const (
	MechanismPlain       = "PLAIN"
	MechanismScramSHA256 = "SCRAM-SHA-256"
	MechanismScramSHA512 = "SCRAM-SHA-512"
	MechanismAWSMSKIAM   = "AWS_MSK_IAM"
)

// ClusterConfig holds cluster connectivity, security and policy configuration.
type ClusterConfig struct {
	Name             string      `yaml:"name" json:"name"`
	Brokers          []string    `yaml:"brokers" json:"brokers"`
	SecurityProtocol string      `yaml:"security_protocol,omitempty" json:"security_protocol"`
	ClientID         string      `yaml:"client_id,omitempty" json:"client_id,omitempty"`
	ReadOnly         bool        `yaml:"read_only,omitempty" json:"read_only"`
	TLS              *TLSConfig  `yaml:"tls,omitempty" json:"tls,omitempty"`
	SASL             *SASLConfig `yaml:"sasl,omitempty" json:"sasl,omitempty"`
}

// TLSConfig holds TLS related fields.
type TLSConfig struct {
	CAFile             string `yaml:"ca_file,omitempty" json:"ca_file,omitempty"`
	CertFile           string `yaml:"cert_file,omitempty" json:"cert_file,omitempty"`
	KeyFile            string `yaml:"key_file,omitempty" json:"key_file,omitempty"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify,omitempty" json:"insecure_skip_verify,omitempty"`
}

// SASLConfig holds SASL configuration. Credentials may be provided inline or via env var names.
type SASLConfig struct {
	Mechanism   string `yaml:"mechanism,omitempty" json:"mechanism,omitempty"`
	Username    string `yaml:"username,omitempty" json:"username,omitempty"`
	Password    string `yaml:"password,omitempty" json:"-"`
	UsernameEnv string `yaml:"username_env,omitempty" json:"username_env,omitempty"`
	PasswordEnv string `yaml:"password_env,omitempty" json:"password_env,omitempty"`
}

// FileConfig is the YAML form of the cluster configuration.
type FileConfig struct {
	DefaultCluster string          `yaml:"default_cluster,omitempty" json:"default_cluster,omitempty"`
	Clusters       []ClusterConfig `yaml:"clusters" json:"clusters"`
}

// ReadConfig parses a YAML cluster file without validating it.
func ReadConfig(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// LoadFile reads and validates a YAML cluster file.
func LoadFile(path string) (*Clusters, error) {
	cfg, err := ReadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfiguration, path, err)
	}
	return NewClusters(cfg.Clusters, cfg.DefaultCluster)
}

// UsesTLS reports whether connections are encrypted.
func (c *ClusterConfig) UsesTLS() bool {
	return c.SecurityProtocol == ProtocolSSL || c.SecurityProtocol == ProtocolSASLSSL
}

// UsesSASL reports whether connections authenticate with SASL.
func (c *ClusterConfig) UsesSASL() bool {
	return c.SecurityProtocol == ProtocolSASLPlaintext || c.SecurityProtocol == ProtocolSASLSSL
}

// GetAuthType returns a human-readable authentication type based on the cluster config
func (c *ClusterConfig) GetAuthType() string {
	if c.UsesSASL() && c.SASL != nil {
		if c.SASL.Mechanism == MechanismAWSMSKIAM {
			return "AWS IAM"
		}
		if c.UsesTLS() {
			return "SASL/" + c.SASL.Mechanism + " + TLS"
		}
		return "SASL/" + c.SASL.Mechanism
	}

	if c.UsesTLS() {
		if c.TLS != nil && c.TLS.CertFile != "" && c.TLS.KeyFile != "" {
			return "mTLS"
		}
		return "TLS"
	}

	return ProtocolPlaintext
}

// Certificate validity states.
const (
	CertValid    = "valid"
	CertWarning  = "warning"
	CertCritical = "critical"
	CertExpired  = "expired"
)

// Days before expiry at which a certificate turns warning or critical.
const (
	certWarningDays  = 30
	certCriticalDays = 7
)

// CertificateInfo holds certificate validity information
type CertificateInfo struct {
	Subject      string    `json:"subject"`
	NotBefore    time.Time `json:"not_before"`
	NotAfter     time.Time `json:"not_after"`
	DaysToExpiry int       `json:"days_to_expiry"`
	Status       string    `json:"status"`
}

// GetCertificateInfo reads the client certificate and reports its validity
// window. It returns nil when the cluster has no client certificate.
func (c *ClusterConfig) GetCertificateInfo() (*CertificateInfo, error) {
	if !c.HasCertificate() {
		return nil, nil
	}

	raw, err := os.ReadFile(c.TLS.CertFile)
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, fmt.Errorf("no PEM block in %s", c.TLS.CertFile)
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, err
	}

	days, status := certStatus(cert.NotAfter, time.Now())
	return &CertificateInfo{
		Subject:      cert.Subject.String(),
		NotBefore:    cert.NotBefore,
		NotAfter:     cert.NotAfter,
		DaysToExpiry: days,
		Status:       status,
	}, nil
}

func certStatus(notAfter, now time.Time) (int, string) {
	days := int(notAfter.Sub(now).Hours() / 24)
	switch {
	case now.After(notAfter):
		return days, CertExpired
	case days <= certCriticalDays:
		return days, CertCritical
	case days <= certWarningDays:
		return days, CertWarning
	}
	return days, CertValid
}

// HasCertificate returns true if the cluster uses certificate-based authentication
func (c *ClusterConfig) HasCertificate() bool {
	return c.UsesTLS() && c.TLS != nil && c.TLS.CertFile != ""
}
