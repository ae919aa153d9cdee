package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"

	"github.com/OliveiraNt/maned-lookout/internal/domain"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

var connectionMessages = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"no such host",
	"unable to dial",
	"dial tcp",
	"i/o timeout",
	"network is unreachable",
}

// classify maps franz-go errors onto domain sentinels. Connection-level
// failures wrap domain.ErrConnection; missing topics and groups wrap
// domain.ErrNotFound; deadlines and other broker errors pass through.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrConnection) || errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}

	switch {
	case errors.Is(err, kerr.UnknownTopicOrPartition), errors.Is(err, kerr.GroupIDNotFound):
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	case errors.Is(err, kerr.SaslAuthenticationFailed),
		errors.Is(err, kerr.IllegalSaslState),
		errors.Is(err, kerr.UnsupportedSaslMechanism),
		errors.Is(err, kgo.ErrClientClosed):
		return fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}

	var kErr *kerr.Error
	if errors.As(err, &kErr) {
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) {
		return fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}

	msg := strings.ToLower(err.Error())
	for _, m := range connectionMessages {
		if strings.Contains(msg, m) {
			return fmt.Errorf("%w: %w", domain.ErrConnection, err)
		}
	}
	return err
}
