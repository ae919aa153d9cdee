package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Runtime setting defaults.
const (
	DefaultWorkers          = 10
	DefaultQueueSize        = 100
	DefaultOperationTimeout = 10 * time.Second
	DefaultConnectTimeout   = 10 * time.Second
	DefaultHTTPPort         = "8080"
)

// Settings holds process-wide runtime tuning.
type Settings struct {
	Workers          int
	QueueSize        int
	OperationTimeout time.Duration
	ConnectTimeout   time.Duration
	HTTPPort         string
}

// LoadSettings reads LOOKOUT_* runtime variables, falling back to defaults.
func LoadSettings(env map[string]string) (Settings, error) {
	var err error
	s := Settings{
		HTTPPort: getStringEnvOr(env, "LOOKOUT_HTTP_PORT", DefaultHTTPPort),
	}
	if s.Workers, err = getIntEnvOr(env, "LOOKOUT_WORKERS", DefaultWorkers); err != nil {
		return s, err
	}
	if s.QueueSize, err = getIntEnvOr(env, "LOOKOUT_QUEUE_SIZE", DefaultQueueSize); err != nil {
		return s, err
	}
	if s.OperationTimeout, err = getDurationEnvOr(env, "LOOKOUT_OPERATION_TIMEOUT", DefaultOperationTimeout); err != nil {
		return s, err
	}
	if s.ConnectTimeout, err = getDurationEnvOr(env, "LOOKOUT_CONNECT_TIMEOUT", DefaultConnectTimeout); err != nil {
		return s, err
	}
	return s, nil
}

func getStringEnvOr(env map[string]string, key, fallback string) string {
	if v := strings.TrimSpace(env[key]); v != "" {
		return v
	}
	return fallback
}

func getIntEnvOr(env map[string]string, key string, fallback int) (int, error) {
	v := strings.TrimSpace(env[key])
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", ErrConfiguration, key, v)
	}
	return n, nil
}

// getDurationEnvOr accepts Go durations ("15s") or a plain number of seconds.
func getDurationEnvOr(env map[string]string, key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(env[key])
	if v == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive duration, got %q", ErrConfiguration, key, v)
	}
	return d, nil
}
