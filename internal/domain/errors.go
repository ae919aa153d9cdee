package domain

import (
	"errors"
	"fmt"

	"github.com/OliveiraNt/maned-lookout/internal/config"
)

var (
	// ErrConfiguration is returned when cluster configuration is invalid.
	ErrConfiguration = config.ErrConfiguration

	// ErrUnknownCluster is returned when a cluster name is not configured.
	ErrUnknownCluster = errors.New("unknown cluster")

	// ErrNoDefaultCluster is returned when no cluster was named and no default exists.
	ErrNoDefaultCluster = errors.New("no default cluster configured")

	// ErrConnection is returned when a cluster cannot be reached or authenticated against.
	ErrConnection = errors.New("cluster connection failed")

	// ErrOperationTimeout is returned when an admin call exceeds its deadline.
	ErrOperationTimeout = errors.New("operation timed out")

	// ErrNotFound is returned when a topic or consumer group does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrReadOnly is returned when a mutation targets a read-only cluster.
	ErrReadOnly = errors.New("cluster is read-only")

	// ErrGroupActive is returned when offsets are reset on a group with live members.
	ErrGroupActive = errors.New("consumer group has active members")
)

// OpError records the cluster and operation that produced an error.
type OpError struct {
	Cluster string
	Op      string
	Err     error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s on cluster %q: %v", e.Op, e.Cluster, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }
