package diff

import (
	"slices"

	"github.com/leapstack-labs/leapmodel/pkg/model"
)

// metricKey compares one key of a metric. Contract keys are breaking when they change.
type metricKey struct {
	name     string
	contract bool
	equal    func(a, b *model.Metric) bool
}

var metricKeys = []metricKey{
	{name: "entity", contract: true, equal: func(a, b *model.Metric) bool { return a.Entity == b.Entity }},
	{name: "expression", contract: true, equal: func(a, b *model.Metric) bool { return a.Expression == b.Expression }},
	{name: "aggregation", contract: true, equal: func(a, b *model.Metric) bool { return a.Aggregation == b.Aggregation }},
	{name: "grain", contract: true, equal: func(a, b *model.Metric) bool { return slices.Equal(a.Grain, b.Grain) }},
	{name: "dimensions", equal: func(a, b *model.Metric) bool { return slices.Equal(a.Dimensions, b.Dimensions) }},
	{name: "time_dimension", contract: true, equal: func(a, b *model.Metric) bool { return a.TimeDimension == b.TimeDimension }},
	{name: "owner", equal: func(a, b *model.Metric) bool { return a.Owner == b.Owner }},
	{name: "deprecated", equal: func(a, b *model.Metric) bool { return a.Deprecated == b.Deprecated }},
}

func metricName(m model.Metric) string { return m.Name }

func compareMetrics(oldMetrics, newMetrics []model.Metric, breaking *breakingSet) MetricChanges {
	set := compareSets(keys(oldMetrics, metricName), keys(newMetrics, metricName))
	c := MetricChanges{Added: set.Added, Removed: set.Removed, Changed: []MetricChange{}}
	for _, name := range c.Removed {
		breaking.add("Metric removed: " + name)
	}

	oldByName := make(map[string]*model.Metric, len(oldMetrics))
	for i := range oldMetrics {
		if _, ok := oldByName[oldMetrics[i].Name]; !ok {
			oldByName[oldMetrics[i].Name] = &oldMetrics[i]
		}
	}

	seen := make(map[string]bool, len(newMetrics))
	for i := range newMetrics {
		after := &newMetrics[i]
		before, ok := oldByName[after.Name]
		if !ok || seen[after.Name] {
			continue
		}
		seen[after.Name] = true

		var changed []string
		for _, k := range metricKeys {
			if k.equal(before, after) {
				continue
			}
			changed = append(changed, k.name)
			if k.contract {
				breaking.add("Metric contract changed: " + after.Name + "." + k.name)
			}
		}
		if len(changed) > 0 {
			c.Changed = append(c.Changed, MetricChange{Name: after.Name, ChangedFields: changed})
		}
	}
	return c
}
