package domain

// ConsumerGroupInfo is one entry of a consumer group listing.
type ConsumerGroupInfo struct {
	GroupID      string `json:"group_id"`
	State        string `json:"state"`
	ProtocolType string `json:"protocol_type"`
	Cluster      string `json:"cluster"`
}

// Coordinator is the broker coordinating a consumer group.
type Coordinator struct {
	ID   int32  `json:"id"`
	Host string `json:"host"`
	Port int32  `json:"port"`
}

// TopicAssignment lists partitions of one topic assigned to a member.
type TopicAssignment struct {
	Topic      string  `json:"topic"`
	Partitions []int32 `json:"partitions"`
}

// GroupMember is one member of a consumer group.
type GroupMember struct {
	MemberID    string            `json:"member_id"`
	ClientID    string            `json:"client_id"`
	ClientHost  string            `json:"client_host"`
	Assignments []TopicAssignment `json:"assignments"`
}

// GroupOffset is a committed offset with the partition's log end and lag.
type GroupOffset struct {
	Topic         string `json:"topic"`
	Partition     int32  `json:"partition"`
	CurrentOffset int64  `json:"current_offset"`
	LogEndOffset  int64  `json:"log_end_offset"`
	Lag           int64  `json:"lag"`
	Metadata      string `json:"metadata,omitempty"`
}

// ConsumerGroupDetail describes a consumer group, its members and offsets.
type ConsumerGroupDetail struct {
	Cluster      string        `json:"cluster"`
	GroupID      string        `json:"group_id"`
	State        string        `json:"state"`
	ProtocolType string        `json:"protocol_type"`
	Protocol     string        `json:"protocol"`
	Coordinator  Coordinator   `json:"coordinator"`
	MemberCount  int           `json:"member_count"`
	Members      []GroupMember `json:"members"`
	Offsets      []GroupOffset `json:"offsets"`
	TotalLag     int64         `json:"total_lag"`
}

// OffsetResetStrategy selects where committed offsets are moved to.
type OffsetResetStrategy string

// Offset reset strategies.
const (
	ResetEarliest OffsetResetStrategy = "earliest"
	ResetLatest   OffsetResetStrategy = "latest"
	ResetToOffset OffsetResetStrategy = "offset"
)

// ResetOffsetsRequest moves a group's committed offsets for one topic.
// Partitions limits the reset; empty means every partition of the topic.
type ResetOffsetsRequest struct {
	Topic      string              `json:"topic"`
	Strategy   OffsetResetStrategy `json:"strategy"`
	Offset     int64               `json:"offset,omitempty"`
	Partitions []int32             `json:"partitions,omitempty"`
}
