package analytics

import "github.com/andresuchdata/dgm-dashboard/backend-go/internal/domain"

// Aggregate sums CY and LY of every requested metric per distinct value of
// groupBy. The map has no ordering; use AggregateOrdered when order matters.
func Aggregate(records []domain.Record, groupBy domain.Dimension, metrics []domain.Metric) map[string]*domain.GroupSummary {
	groups, _ := AggregateOrdered(records, groupBy, metrics)
	return groups
}

// AggregateOrdered is Aggregate plus the group keys in the order they were
// first seen in records.
func AggregateOrdered(records []domain.Record, groupBy domain.Dimension, metrics []domain.Metric) (map[string]*domain.GroupSummary, []string) {
	groups := make(map[string]*domain.GroupSummary)
	keys := make([]string, 0)

	for _, rec := range records {
		key := rec.Key(groupBy)
		group, ok := groups[key]
		if !ok {
			group = newGroup(key, metrics)
			groups[key] = group
			keys = append(keys, key)
		}
		accumulate(group, rec, metrics)
	}

	return groups, keys
}

// Total reduces every record into a single ungrouped summary.
func Total(records []domain.Record, metrics []domain.Metric) *domain.GroupSummary {
	total := newGroup("", metrics)
	for _, rec := range records {
		accumulate(total, rec, metrics)
	}
	return total
}

func newGroup(key string, metrics []domain.Metric) *domain.GroupSummary {
	sums := make(map[domain.Metric]domain.MetricPair, len(metrics))
	for _, m := range metrics {
		sums[m] = domain.MetricPair{}
	}
	return &domain.GroupSummary{Key: key, Sums: sums}
}

func accumulate(group *domain.GroupSummary, rec domain.Record, metrics []domain.Metric) {
	group.Records++
	for _, m := range metrics {
		group.Sums[m] = group.Sums[m].Add(rec.Pair(m))
	}
}
