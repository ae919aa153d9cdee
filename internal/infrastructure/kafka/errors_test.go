package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"testing"

	"github.com/OliveiraNt/maned-lookout/internal/domain"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

func TestClassify(t *testing.T) {
	dialErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connect: connection refused")}

	tests := []struct {
		name       string
		err        error
		connection bool
		notFound   bool
	}{
		{name: "unknown topic", err: kerr.UnknownTopicOrPartition, notFound: true},
		{name: "unknown group", err: kerr.GroupIDNotFound, notFound: true},
		{name: "sasl failure", err: kerr.SaslAuthenticationFailed, connection: true},
		{name: "closed client", err: kgo.ErrClientClosed, connection: true},
		{name: "net error", err: dialErr, connection: true},
		{name: "wrapped net error", err: fmt.Errorf("metadata: %w", dialErr), connection: true},
		{name: "eof", err: io.EOF, connection: true},
		{name: "dial message", err: errors.New("unable to dial: dial tcp 10.0.0.1:9092: no route"), connection: true},
		{name: "topic exists", err: kerr.TopicAlreadyExists},
		{name: "authorization", err: kerr.TopicAuthorizationFailed},
		{name: "deadline", err: context.DeadlineExceeded},
		{name: "canceled", err: context.Canceled},
		{name: "plain error", err: errors.New("invalid replication factor")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			require.ErrorIs(t, got, tt.err)
			require.Equal(t, tt.connection, errors.Is(got, domain.ErrConnection))
			require.Equal(t, tt.notFound, errors.Is(got, domain.ErrNotFound))
		})
	}

	require.NoError(t, classify(nil))
}

func TestClassify_Idempotent(t *testing.T) {
	once := classify(io.EOF)
	require.Equal(t, once, classify(once))
}
