package analytics

import (
	"sort"

	"github.com/OliveiraNt/maned-lookout/internal/domain"
)

// FieldDelta holds a value that differs between two clusters.
type FieldDelta struct {
	Source int `json:"source"`
	Target int `json:"target"`
}

// TopicDifference lists the fields of a common topic that differ.
type TopicDifference struct {
	Topic             string      `json:"topic"`
	Partitions        *FieldDelta `json:"partitions,omitempty"`
	ReplicationFactor *FieldDelta `json:"replication_factor,omitempty"`
}

// ComparisonSummary counts the outcome of a topic comparison.
type ComparisonSummary struct {
	TotalSourceTopics     int `json:"total_source_topics"`
	TotalTargetTopics     int `json:"total_target_topics"`
	CommonTopics          int `json:"common_topics"`
	OnlyInSource          int `json:"only_in_source"`
	OnlyInTarget          int `json:"only_in_target"`
	TopicsWithDifferences int `json:"topics_with_differences"`
}

// TopicComparison is the diff of two clusters' topic sets.
type TopicComparison struct {
	SourceCluster string            `json:"source_cluster"`
	TargetCluster string            `json:"target_cluster"`
	Summary       ComparisonSummary `json:"summary"`
	OnlyInSource  []string          `json:"only_in_source"`
	OnlyInTarget  []string          `json:"only_in_target"`
	Differences   []TopicDifference `json:"topic_differences"`
}

// CompareTopics diffs topic sets by name, then partition count and
// replication factor of topics present on both sides. All lists are sorted.
func CompareTopics(source, target string, srcTopics, tgtTopics []domain.TopicInfo) TopicComparison {
	src := indexTopics(srcTopics)
	tgt := indexTopics(tgtTopics)

	cmp := TopicComparison{
		SourceCluster: source,
		TargetCluster: target,
		OnlyInSource:  []string{},
		OnlyInTarget:  []string{},
		Differences:   []TopicDifference{},
	}

	common := 0
	for name, s := range src {
		t, ok := tgt[name]
		if !ok {
			cmp.OnlyInSource = append(cmp.OnlyInSource, name)
			continue
		}
		common++
		diff := TopicDifference{Topic: name}
		if s.Partitions != t.Partitions {
			diff.Partitions = &FieldDelta{Source: s.Partitions, Target: t.Partitions}
		}
		if s.ReplicationFactor != t.ReplicationFactor {
			diff.ReplicationFactor = &FieldDelta{Source: s.ReplicationFactor, Target: t.ReplicationFactor}
		}
		if diff.Partitions != nil || diff.ReplicationFactor != nil {
			cmp.Differences = append(cmp.Differences, diff)
		}
	}
	for name := range tgt {
		if _, ok := src[name]; !ok {
			cmp.OnlyInTarget = append(cmp.OnlyInTarget, name)
		}
	}

	sort.Strings(cmp.OnlyInSource)
	sort.Strings(cmp.OnlyInTarget)
	sort.Slice(cmp.Differences, func(i, j int) bool { return cmp.Differences[i].Topic < cmp.Differences[j].Topic })

	cmp.Summary = ComparisonSummary{
		TotalSourceTopics:     len(src),
		TotalTargetTopics:     len(tgt),
		CommonTopics:          common,
		OnlyInSource:          len(cmp.OnlyInSource),
		OnlyInTarget:          len(cmp.OnlyInTarget),
		TopicsWithDifferences: len(cmp.Differences),
	}
	return cmp
}

func indexTopics(topics []domain.TopicInfo) map[string]domain.TopicInfo {
	m := make(map[string]domain.TopicInfo, len(topics))
	for _, t := range topics {
		m[t.Name] = t
	}
	return m
}
