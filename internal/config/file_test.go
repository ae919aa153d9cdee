package config

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// writeCert writes a self-signed PEM certificate valid in [notBefore, notAfter].
func writeCert(t *testing.T, notBefore, notAfter time.Time) string {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(7),
		Subject:      pkix.Name{CommonName: "lookout-client"},
		NotBefore:    notBefore,
		NotAfter:     notAfter,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	return writeFile(t, "client.pem", string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})))
}

func TestReadConfig(t *testing.T) {
	path := writeFile(t, "clusters.yml", `default_cluster: prod
clusters:
  - name: dev
    brokers: [localhost:9092, localhost:9093]
    client_id: lookout-dev
  - name: prod
    brokers: [kafka1.prod:9092]
    security_protocol: SASL_SSL
    read_only: true
    tls:
      ca_file: /etc/kafka/ca.pem
    sasl:
      mechanism: SCRAM-SHA-256
      username: admin
      password_env: PROD_KAFKA_PASSWORD
`)

	cfg, err := ReadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "prod", cfg.DefaultCluster)
	require.Len(t, cfg.Clusters, 2)
	require.Equal(t, "lookout-dev", cfg.Clusters[0].ClientID)
	require.Equal(t, []string{"localhost:9092", "localhost:9093"}, cfg.Clusters[0].Brokers)

	prod := cfg.Clusters[1]
	require.True(t, prod.ReadOnly)
	require.Equal(t, "/etc/kafka/ca.pem", prod.TLS.CAFile)
	require.Equal(t, "PROD_KAFKA_PASSWORD", prod.SASL.PasswordEnv)

	_, err = ReadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = ReadConfig(writeFile(t, "bad.yml", "clusters:\n  - name: x\n    brokers: [\n"))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	clusters, err := LoadFile(writeFile(t, "ok.yml", `clusters:
  - name: dev
    brokers: [localhost:9092]
  - name: default
    brokers: [localhost:9094]
    security_protocol: ssl
`))
	require.NoError(t, err)
	require.Equal(t, []string{"dev", "default"}, clusters.Names())
	require.Equal(t, "default", clusters.Default())

	dev, _ := clusters.Get("dev")
	require.Equal(t, ProtocolPlaintext, dev.SecurityProtocol)
	def, _ := clusters.Get("default")
	require.Equal(t, ProtocolSSL, def.SecurityProtocol)

	_, err = LoadFile(writeFile(t, "dup.yml", `clusters:
  - name: dev
    brokers: [a:9092]
  - name: dev
    brokers: [b:9092]
`))
	require.ErrorIs(t, err, ErrConfiguration)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yml"))
	require.ErrorIs(t, err, ErrConfiguration)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestGetAuthType(t *testing.T) {
	tests := []struct {
		name string
		cfg  ClusterConfig
		want string
	}{
		{"plaintext", ClusterConfig{SecurityProtocol: ProtocolPlaintext}, "PLAINTEXT"},
		{"tls", ClusterConfig{SecurityProtocol: ProtocolSSL, TLS: &TLSConfig{CAFile: "ca.pem"}}, "TLS"},
		{"mtls", ClusterConfig{SecurityProtocol: ProtocolSSL, TLS: &TLSConfig{CertFile: "c.pem", KeyFile: "k.pem"}}, "mTLS"},
		{"sasl plain", ClusterConfig{SecurityProtocol: ProtocolSASLPlaintext, SASL: &SASLConfig{Mechanism: MechanismPlain}}, "SASL/PLAIN"},
		{"sasl scram over tls", ClusterConfig{SecurityProtocol: ProtocolSASLSSL, SASL: &SASLConfig{Mechanism: MechanismScramSHA512}}, "SASL/SCRAM-SHA-512 + TLS"},
		{"aws iam", ClusterConfig{SecurityProtocol: ProtocolSASLSSL, SASL: &SASLConfig{Mechanism: MechanismAWSMSKIAM}}, "AWS IAM"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.cfg.GetAuthType())
		})
	}
}

func TestHasCertificate(t *testing.T) {
	require.False(t, (&ClusterConfig{}).HasCertificate())
	require.False(t, (&ClusterConfig{SecurityProtocol: ProtocolPlaintext, TLS: &TLSConfig{CertFile: "c.pem"}}).HasCertificate())
	require.False(t, (&ClusterConfig{SecurityProtocol: ProtocolSSL, TLS: &TLSConfig{}}).HasCertificate())
	require.True(t, (&ClusterConfig{SecurityProtocol: ProtocolSASLSSL, TLS: &TLSConfig{CertFile: "c.pem"}}).HasCertificate())
}

func TestCertStatus(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		notAfter time.Time
		want     string
	}{
		{now.AddDate(0, 0, 90), CertValid},
		{now.AddDate(0, 0, 31), CertValid},
		{now.AddDate(0, 0, 20), CertWarning},
		{now.AddDate(0, 0, 5), CertCritical},
		{now.Add(-time.Hour), CertExpired},
	}
	for _, tc := range tests {
		_, got := certStatus(tc.notAfter, now)
		require.Equal(t, tc.want, got, tc.notAfter)
	}
}

func TestGetCertificateInfo(t *testing.T) {
	now := time.Now()
	path := writeCert(t, now.AddDate(0, 0, -10), now.AddDate(0, 0, 20))

	cfg := ClusterConfig{SecurityProtocol: ProtocolSSL, TLS: &TLSConfig{CertFile: path}}
	info, err := cfg.GetCertificateInfo()
	require.NoError(t, err)
	require.Equal(t, CertWarning, info.Status)
	require.Equal(t, "CN=lookout-client", info.Subject)
	require.InDelta(t, 19, info.DaysToExpiry, 1)

	info, err = (&ClusterConfig{SecurityProtocol: ProtocolSSL}).GetCertificateInfo()
	require.NoError(t, err)
	require.Nil(t, info)

	missing := ClusterConfig{SecurityProtocol: ProtocolSSL, TLS: &TLSConfig{CertFile: filepath.Join(t.TempDir(), "nope.pem")}}
	_, err = missing.GetCertificateInfo()
	require.ErrorIs(t, err, os.ErrNotExist)

	garbage := ClusterConfig{SecurityProtocol: ProtocolSSL, TLS: &TLSConfig{CertFile: writeFile(t, "junk.pem", "not a cert")}}
	_, err = garbage.GetCertificateInfo()
	require.Error(t, err)
}
