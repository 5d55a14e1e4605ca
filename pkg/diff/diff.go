// Package diff compares two model documents and classifies breaking changes.
package diff

import (
	"slices"
	"sort"

	"github.com/leapstack-labs/leapmodel/pkg/canonical"
	"github.com/leapstack-labs/leapmodel/pkg/model"
)

// Report is the structural difference between two documents.
type Report struct {
	Entities           EntityChanges `json:"entities"`
	Relationships      SetChanges    `json:"relationships"`
	Indexes            SetChanges    `json:"indexes"`
	Metrics            MetricChanges `json:"metrics"`
	Rules              SetChanges    `json:"rules"`
	Glossary           SetChanges    `json:"glossary"`
	Summary            Summary       `json:"summary"`
	BreakingChanges    []string      `json:"breaking_changes"`
	HasBreakingChanges bool          `json:"has_breaking_changes"`
}

// SetChanges lists members present on one side only.
type SetChanges struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

// EntityChanges lists entity-level changes.
type EntityChanges struct {
	Added   []string       `json:"added"`
	Removed []string       `json:"removed"`
	Changed []EntityChange `json:"changed"`
}

// EntityChange is the field-level diff of an entity present on both sides.
type EntityChange struct {
	Name               string              `json:"name"`
	FieldsAdded        []string            `json:"fields_added"`
	FieldsRemoved      []string            `json:"fields_removed"`
	TypeChanged        []TypeChange        `json:"type_changed"`
	NullabilityChanged []NullabilityChange `json:"nullability_changed"`
}

func (c EntityChange) empty() bool {
	return len(c.FieldsAdded) == 0 && len(c.FieldsRemoved) == 0 &&
		len(c.TypeChanged) == 0 && len(c.NullabilityChanged) == 0
}

// TypeChange records a field whose declared type changed.
type TypeChange struct {
	Field string `json:"field"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// NullabilityChange records a field whose effective nullability changed.
type NullabilityChange struct {
	Field string `json:"field"`
	From  bool   `json:"from_nullable"`
	To    bool   `json:"to_nullable"`
}

// MetricChanges lists metric changes.
type MetricChanges struct {
	Added   []string       `json:"added"`
	Removed []string       `json:"removed"`
	Changed []MetricChange `json:"changed"`
}

// MetricChange names the keys that differ for a metric present on both sides.
type MetricChange struct {
	Name          string   `json:"name"`
	ChangedFields []string `json:"changed_fields"`
}

// Summary counts every category of change.
type Summary struct {
	EntitiesAdded        int `json:"entities_added"`
	EntitiesRemoved      int `json:"entities_removed"`
	EntitiesChanged      int `json:"entities_changed"`
	FieldsAdded          int `json:"fields_added"`
	FieldsRemoved        int `json:"fields_removed"`
	FieldTypesChanged    int `json:"field_types_changed"`
	NullabilityChanged   int `json:"nullability_changed"`
	RelationshipsAdded   int `json:"relationships_added"`
	RelationshipsRemoved int `json:"relationships_removed"`
	IndexesAdded         int `json:"indexes_added"`
	IndexesRemoved       int `json:"indexes_removed"`
	MetricsAdded         int `json:"metrics_added"`
	MetricsRemoved       int `json:"metrics_removed"`
	MetricsChanged       int `json:"metrics_changed"`
	RulesAdded           int `json:"rules_added"`
	RulesRemoved         int `json:"rules_removed"`
	GlossaryAdded        int `json:"glossary_terms_added"`
	GlossaryRemoved      int `json:"glossary_terms_removed"`
	BreakingChangeCount  int `json:"breaking_change_count"`
}

// Empty reports whether nothing changed.
func (r *Report) Empty() bool {
	s := r.Summary
	s.BreakingChangeCount = 0
	return s == Summary{}
}

// Compare diffs oldDoc against newDoc. Both sides are canonicalized first, so
// member order never shows up as a change.
func Compare(oldDoc, newDoc *model.Document) *Report {
	o := canonical.Canonicalize(oldDoc)
	n := canonical.Canonicalize(newDoc)

	r := &Report{}
	breaking := newBreakingSet()

	r.Entities = compareEntities(o.Entities, n.Entities, breaking)
	r.Relationships = compareSets(keys(o.Relationships, model.Relationship.Key), keys(n.Relationships, model.Relationship.Key))
	r.Indexes = compareSets(keys(o.Indexes, indexName), keys(n.Indexes, indexName))
	for _, name := range r.Indexes.Removed {
		breaking.add("Index removed: " + name)
	}
	r.Metrics = compareMetrics(o.Metrics, n.Metrics, breaking)
	r.Rules = compareSets(keys(o.Rules, model.Rule.Key), keys(n.Rules, model.Rule.Key))
	r.Glossary = compareSets(keys(o.Glossary, glossaryTerm), keys(n.Glossary, glossaryTerm))

	r.BreakingChanges = breaking.sorted()
	r.HasBreakingChanges = len(r.BreakingChanges) > 0
	r.Summary = summarize(r)
	return r
}

func indexName(i model.Index) string          { return i.Name }
func glossaryTerm(g model.GlossaryTerm) string { return g.Term }

// keys extracts the identity of each member, first occurrence wins.
func keys[T any](items []T, key func(T) string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		k := key(it)
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

// compareSets returns the sorted members only present on one side.
func compareSets(oldKeys, newKeys []string) SetChanges {
	c := SetChanges{Added: []string{}, Removed: []string{}}
	for _, k := range newKeys {
		if !slices.Contains(oldKeys, k) {
			c.Added = append(c.Added, k)
		}
	}
	for _, k := range oldKeys {
		if !slices.Contains(newKeys, k) {
			c.Removed = append(c.Removed, k)
		}
	}
	sort.Strings(c.Added)
	sort.Strings(c.Removed)
	return c
}

func summarize(r *Report) Summary {
	s := Summary{
		EntitiesAdded:        len(r.Entities.Added),
		EntitiesRemoved:      len(r.Entities.Removed),
		EntitiesChanged:      len(r.Entities.Changed),
		RelationshipsAdded:   len(r.Relationships.Added),
		RelationshipsRemoved: len(r.Relationships.Removed),
		IndexesAdded:         len(r.Indexes.Added),
		IndexesRemoved:       len(r.Indexes.Removed),
		MetricsAdded:         len(r.Metrics.Added),
		MetricsRemoved:       len(r.Metrics.Removed),
		MetricsChanged:       len(r.Metrics.Changed),
		RulesAdded:           len(r.Rules.Added),
		RulesRemoved:         len(r.Rules.Removed),
		GlossaryAdded:        len(r.Glossary.Added),
		GlossaryRemoved:      len(r.Glossary.Removed),
		BreakingChangeCount:  len(r.BreakingChanges),
	}
	for _, c := range r.Entities.Changed {
		s.FieldsAdded += len(c.FieldsAdded)
		s.FieldsRemoved += len(c.FieldsRemoved)
		s.FieldTypesChanged += len(c.TypeChanged)
		s.NullabilityChanged += len(c.NullabilityChanged)
	}
	return s
}
