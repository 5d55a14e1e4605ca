// Package canonical produces the order-independent normal form of a model
// document. Two documents that differ only in the order of their entities,
// fields, tags or other set-like lists have identical canonical forms.
package canonical

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"sort"

	"github.com/leapstack-labs/leapmodel/pkg/model"
	"gopkg.in/yaml.v3"
)

// Canonicalize returns a sorted deep copy of doc. The input is not modified.
// Canonicalize is idempotent.
func Canonicalize(doc *model.Document) *model.Document {
	if doc == nil {
		return &model.Document{}
	}

	out := &model.Document{
		Meta:          canonicalMeta(doc.Meta),
		Entities:      make([]model.Entity, len(doc.Entities)),
		Relationships: slices.Clone(doc.Relationships),
		Indexes:       make([]model.Index, len(doc.Indexes)),
		Metrics:       make([]model.Metric, len(doc.Metrics)),
		Rules:         slices.Clone(doc.Rules),
		Governance: model.Governance{
			Classification: maps.Clone(doc.Governance.Classification),
			Stewards:       maps.Clone(doc.Governance.Stewards),
		},
		Glossary: make([]model.GlossaryTerm, len(doc.Glossary)),
		Display:  copyMap(doc.Display),
	}

	for i, e := range doc.Entities {
		out.Entities[i] = canonicalEntity(e)
	}
	sort.SliceStable(out.Entities, func(i, j int) bool { return out.Entities[i].Name < out.Entities[j].Name })

	sort.SliceStable(out.Relationships, func(i, j int) bool {
		return out.Relationships[i].Key() < out.Relationships[j].Key()
	})

	for i, idx := range doc.Indexes {
		idx.Fields = slices.Clone(idx.Fields)
		out.Indexes[i] = idx
	}
	sort.SliceStable(out.Indexes, func(i, j int) bool { return out.Indexes[i].Name < out.Indexes[j].Name })

	sort.SliceStable(out.Rules, func(i, j int) bool { return out.Rules[i].Key() < out.Rules[j].Key() })

	for i, m := range doc.Metrics {
		m.Grain = sortedCopy(m.Grain)
		m.Dimensions = sortedCopy(m.Dimensions)
		m.Tags = sortedCopy(m.Tags)
		out.Metrics[i] = m
	}
	sort.SliceStable(out.Metrics, func(i, j int) bool { return out.Metrics[i].Name < out.Metrics[j].Name })

	for i, g := range doc.Glossary {
		g.RelatedFields = sortedCopy(g.RelatedFields)
		g.Tags = sortedCopy(g.Tags)
		g.Aliases = sortedCopy(g.Aliases)
		out.Glossary[i] = g
	}
	sort.SliceStable(out.Glossary, func(i, j int) bool { return out.Glossary[i].Term < out.Glossary[j].Term })

	return out
}

func canonicalMeta(m model.Meta) model.Meta {
	m.Owners = sortedCopy(m.Owners)
	if m.Imports != nil {
		imports := make([]model.Import, len(m.Imports))
		for i, imp := range m.Imports {
			imp.Entities = sortedCopy(imp.Entities)
			imports[i] = imp
		}
		sort.SliceStable(imports, func(i, j int) bool { return imports[i].Path < imports[j].Path })
		m.Imports = imports
	}
	return m
}

func canonicalEntity(e model.Entity) model.Entity {
	e.Tags = sortedCopy(e.Tags)
	e.SLA = copyMap(e.SLA)
	// Grain and natural key order is part of the key definition.
	e.Grain = slices.Clone(e.Grain)
	e.NaturalKey = slices.Clone(e.NaturalKey)
	e.DimensionRefs = sortedCopy(e.DimensionRefs)

	fields := make([]model.Field, len(e.Fields))
	for i, f := range e.Fields {
		f.Tags = sortedCopy(f.Tags)
		f.Examples = copyList(f.Examples)
		if f.Nullable != nil {
			v := *f.Nullable
			f.Nullable = &v
		}
		fields[i] = f
	}
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
	e.Fields = fields
	return e
}

func sortedCopy(s []string) []string {
	if s == nil {
		return nil
	}
	out := slices.Clone(s)
	sort.Strings(out)
	return out
}

func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyList(l []any) []any {
	if l == nil {
		return nil
	}
	out := make([]any, len(l))
	for i, v := range l {
		out[i] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return copyMap(val)
	case []any:
		return copyList(val)
	default:
		return val
	}
}

// Marshal canonicalizes doc and renders it as YAML. Mapping keys come out in
// sorted order.
func Marshal(doc *model.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Canonicalize(doc)); err != nil {
		return nil, fmt.Errorf("failed to encode canonical document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to flush canonical document: %w", err)
	}
	return buf.Bytes(), nil
}
