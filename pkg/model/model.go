package model

import "strings"

// Document is a parsed model document.
type Document struct {
	Meta          Meta           `yaml:"meta"`
	Entities      []Entity       `yaml:"entities"`
	Relationships []Relationship `yaml:"relationships,omitempty"`
	Indexes       []Index        `yaml:"indexes,omitempty"`
	Metrics       []Metric       `yaml:"metrics,omitempty"`
	Rules         []Rule         `yaml:"rules,omitempty"`
	Governance    Governance     `yaml:"governance,omitempty"`
	Glossary      []GlossaryTerm `yaml:"glossary,omitempty"`
	Display       map[string]any `yaml:"display,omitempty"`
}

// Meta holds document-level metadata.
type Meta struct {
	Name    string   `yaml:"name"`
	Version string   `yaml:"version"`
	Domain  string   `yaml:"domain"`
	Owners  []string `yaml:"owners"`
	State   string   `yaml:"state"`
	Layer   string   `yaml:"layer,omitempty"`
	Imports []Import `yaml:"imports,omitempty"`
}

// Import references an external model document. A bare string in YAML decodes
// into an Import with only Path set.
type Import struct {
	Path     string   `yaml:"path"`
	Alias    string   `yaml:"alias,omitempty"`
	Entities []string `yaml:"entities,omitempty"`
}

// Entity is a table- or view-like construct.
type Entity struct {
	Name          string         `yaml:"name"`
	Type          EntityKind     `yaml:"type"`
	Description   string         `yaml:"description,omitempty"`
	Owner         string         `yaml:"owner,omitempty"`
	Tags          []string       `yaml:"tags,omitempty"`
	SLA           map[string]any `yaml:"sla,omitempty"`
	Grain         []string       `yaml:"grain,omitempty"`
	DimensionRefs []string       `yaml:"dimension_refs,omitempty"`
	NaturalKey    []string       `yaml:"natural_key,omitempty"`
	SCDType       int            `yaml:"scd_type,omitempty"`
	Fields        []Field        `yaml:"fields"`
}

// Field is a column of an entity.
type Field struct {
	Name               string   `yaml:"name"`
	Type               string   `yaml:"type"`
	Nullable           *bool    `yaml:"nullable,omitempty"`
	PrimaryKey         bool     `yaml:"primary_key,omitempty"`
	ForeignKey         bool     `yaml:"foreign_key,omitempty"`
	Unique             bool     `yaml:"unique,omitempty"`
	Computed           bool     `yaml:"computed,omitempty"`
	Expression         string   `yaml:"expression,omitempty"`
	Deprecated         bool     `yaml:"deprecated,omitempty"`
	DeprecationMessage string   `yaml:"deprecation_message,omitempty"`
	Sensitivity        string   `yaml:"sensitivity,omitempty"`
	Description        string   `yaml:"description,omitempty"`
	Tags               []string `yaml:"tags,omitempty"`
	Examples           []any    `yaml:"examples,omitempty"`
}

// IsNullable reports the effective nullability; fields are nullable unless
// declared otherwise.
func (f Field) IsNullable() bool {
	if f.Nullable == nil {
		return true
	}
	return *f.Nullable
}

// Relationship links two entity fields.
type Relationship struct {
	Name        string `yaml:"name"`
	From        string `yaml:"from"`
	To          string `yaml:"to"`
	Cardinality string `yaml:"cardinality"`
	Description string `yaml:"description,omitempty"`
}

// Key returns the composite identity used for ordering and diffing.
func (r Relationship) Key() string {
	return r.Name + "|" + r.From + "|" + r.To + "|" + r.Cardinality
}

// Index declares an index over fields of one entity.
type Index struct {
	Name   string   `yaml:"name"`
	Entity string   `yaml:"entity"`
	Fields []string `yaml:"fields"`
	Unique bool     `yaml:"unique,omitempty"`
}

// Metric is a named aggregation over an entity.
type Metric struct {
	Name          string   `yaml:"name"`
	Entity        string   `yaml:"entity"`
	Expression    string   `yaml:"expression"`
	Aggregation   string   `yaml:"aggregation,omitempty"`
	Grain         []string `yaml:"grain,omitempty"`
	Dimensions    []string `yaml:"dimensions,omitempty"`
	TimeDimension string   `yaml:"time_dimension,omitempty"`
	Description   string   `yaml:"description,omitempty"`
	Owner         string   `yaml:"owner,omitempty"`
	Tags          []string `yaml:"tags,omitempty"`
	Deprecated    bool     `yaml:"deprecated,omitempty"`
}

// Rule is a declarative data-quality rule bound to a field.
type Rule struct {
	Name        string `yaml:"name"`
	Target      string `yaml:"target"`
	Severity    string `yaml:"severity,omitempty"`
	Expression  string `yaml:"expression,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// Key returns the composite identity used for ordering and diffing.
func (r Rule) Key() string {
	return r.Name + "|" + r.Target
}

// Governance maps fields to classification labels and areas to stewards.
type Governance struct {
	Classification map[string]string `yaml:"classification,omitempty"`
	Stewards       map[string]string `yaml:"stewards,omitempty"`
}

// GlossaryTerm is a business term linked to fields.
type GlossaryTerm struct {
	Term          string   `yaml:"term"`
	Definition    string   `yaml:"definition"`
	RelatedFields []string `yaml:"related_fields,omitempty"`
	Owner         string   `yaml:"owner,omitempty"`
	Tags          []string `yaml:"tags,omitempty"`
	Aliases       []string `yaml:"aliases,omitempty"`
}

// HasImports reports whether the document declares any imports.
func (d *Document) HasImports() bool {
	return len(d.Meta.Imports) > 0
}

// FieldByName returns the field with the given name.
func (e *Entity) FieldByName(name string) (*Field, bool) {
	for i := range e.Fields {
		if e.Fields[i].Name == name {
			return &e.Fields[i], true
		}
	}
	return nil, false
}

// DescriptionCoverage returns the share of fields with a non-blank
// description, or 0 for an entity without fields.
func (e *Entity) DescriptionCoverage() float64 {
	if len(e.Fields) == 0 {
		return 0
	}
	described := 0
	for _, f := range e.Fields {
		if strings.TrimSpace(f.Description) != "" {
			described++
		}
	}
	return float64(described) / float64(len(e.Fields))
}

// HasTag reports whether tags contains tag, ignoring case.
func HasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
