package application

import "errors"

var (
	// ErrInvalidTopicName is returned when a topic name is empty or not a legal Kafka name
	ErrInvalidTopicName = errors.New("invalid topic name")

	// ErrInvalidPartitionCount is returned when a partition count is not positive
	ErrInvalidPartitionCount = errors.New("invalid partition count")

	// ErrInvalidReplicationFactor is returned when a replication factor is not positive
	ErrInvalidReplicationFactor = errors.New("invalid replication factor")

	// ErrInvalidTopicConfig is returned when a config update carries no entries
	ErrInvalidTopicConfig = errors.New("invalid topic configuration")

	// ErrInvalidGroupID is returned when a consumer group id is empty
	ErrInvalidGroupID = errors.New("invalid consumer group id")

	// ErrInvalidResetStrategy is returned for an unknown offset reset strategy
	ErrInvalidResetStrategy = errors.New("invalid offset reset strategy")

	// ErrInvalidOffset is returned when an explicit reset offset is negative
	ErrInvalidOffset = errors.New("invalid offset")
)

// IsInvalidRequest reports whether err is a request validation error.
func IsInvalidRequest(err error) bool {
	for _, target := range []error{
		ErrInvalidTopicName,
		ErrInvalidPartitionCount,
		ErrInvalidReplicationFactor,
		ErrInvalidTopicConfig,
		ErrInvalidGroupID,
		ErrInvalidResetStrategy,
		ErrInvalidOffset,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
