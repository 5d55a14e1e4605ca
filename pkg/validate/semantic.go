package validate

import (
	"maps"
	"slices"
	"strings"

	"github.com/leapstack-labs/leapmodel/internal/dag"
	"github.com/leapstack-labs/leapmodel/pkg/lint"
	"github.com/leapstack-labs/leapmodel/pkg/model"
)

// Options tune the semantic pass.
type Options struct {
	// StrictImports only demotes an unresolved reference when its entity is
	// listed in some import's entities list. By default any declared import
	// demotes every unresolved reference.
	StrictImports bool

	// DisableNudges skips the advisory nudge checks.
	DisableNudges bool
}

// Semantics runs the cross-reference checks over a decoded document.
func Semantics(doc *model.Document, opts Options) []lint.Issue {
	c := newChecker(doc, opts)

	c.duplicates()
	c.relationships()
	c.indexes()
	c.metrics()
	c.entityRefs()
	c.governance()
	c.glossary()
	c.rules()
	c.primaryKeys()
	c.grain()
	c.cycles()
	c.deprecations()

	if !opts.DisableNudges {
		c.b.Merge(Nudges(doc))
	}
	return c.b.Issues()
}

type checker struct {
	doc  *model.Document
	opts Options
	b    *lint.Builder

	// entities holds the first declaration of each entity name.
	entities map[string]*model.Entity
	// imported holds entity names listed by any import.
	imported map[string]bool
}

func newChecker(doc *model.Document, opts Options) *checker {
	c := &checker{
		doc:      doc,
		opts:     opts,
		b:        lint.NewBuilder(),
		entities: make(map[string]*model.Entity, len(doc.Entities)),
		imported: make(map[string]bool),
	}
	for i := range doc.Entities {
		e := &doc.Entities[i]
		if e.Name == "" {
			continue
		}
		if _, seen := c.entities[e.Name]; !seen {
			c.entities[e.Name] = e
		}
	}
	for _, imp := range doc.Meta.Imports {
		for _, name := range imp.Entities {
			c.imported[name] = true
		}
	}
	return c
}

// refSeverity decides the severity of an unresolved reference into entity.
func (c *checker) refSeverity(entity string) lint.Severity {
	if !c.doc.HasImports() {
		return lint.SeverityError
	}
	if c.opts.StrictImports && !c.imported[entity] {
		return lint.SeverityError
	}
	return lint.SeverityWarn
}

func (c *checker) unresolved(code, entity, path, format string, args ...any) {
	sev := c.refSeverity(entity)
	if sev == lint.SeverityWarn {
		format += " (may be defined in an imported model)"
	}
	c.b.Addf(sev, code, path, format, args...)
}

// resolveRef checks a full Entity.field reference. Malformed references are
// left to the structural pass.
func (c *checker) resolveRef(ref, path, context string) {
	r, ok := model.ParseRef(ref)
	if !ok {
		return
	}
	e, ok := c.entities[r.Entity]
	if !ok {
		c.unresolved(lint.CodeUnresolvedReference, r.Entity, path,
			"%s references %s but entity %s is not declared", context, ref, r.Entity)
		return
	}
	if _, ok := e.FieldByName(r.Field); !ok {
		c.unresolved(lint.CodeUnresolvedReference, r.Entity, path,
			"%s references %s but entity %s has no field %q", context, ref, r.Entity, r.Field)
	}
}

// resolveEntity checks a bare entity name and returns the entity if known.
func (c *checker) resolveEntity(name, path, context string) (*model.Entity, bool) {
	if !model.IsEntityName(name) {
		return nil, false
	}
	e, ok := c.entities[name]
	if !ok {
		c.unresolved(lint.CodeUnknownEntity, name, path, "%s references unknown entity %s", context, name)
	}
	return e, ok
}

// resolveField checks a field name against an entity. Names containing a dot
// are treated as full references.
func (c *checker) resolveField(e *model.Entity, name, path, context string) {
	if strings.Contains(name, ".") {
		if model.IsFieldRef(name) {
			c.resolveRef(name, path, context)
		} else {
			c.unresolved(lint.CodeUnknownField, e.Name, path, "%s: %q is neither a field name nor an Entity.field reference", context, name)
		}
		return
	}
	if _, ok := e.FieldByName(name); !ok {
		c.unresolved(lint.CodeUnknownField, e.Name, path, "%s references unknown field %s.%s", context, e.Name, name)
	}
}

func (c *checker) duplicates() {
	seen := make(map[string]bool)
	for i, e := range c.doc.Entities {
		if e.Name != "" {
			if seen[e.Name] {
				c.b.Errorf(lint.CodeDuplicateEntity, lint.Path("entities", i, "name"), "duplicate entity %s", e.Name)
			}
			seen[e.Name] = true
		}

		fields := make(map[string]bool)
		for j, f := range e.Fields {
			if f.Name == "" {
				continue
			}
			if fields[f.Name] {
				c.b.Errorf(lint.CodeDuplicateField, lint.Path("entities", i, "fields", j, "name"),
					"duplicate field %s in entity %s", f.Name, e.Name)
			}
			fields[f.Name] = true
		}
	}

	c.uniqueNames("indexes", lint.CodeDuplicateIndex, "index", len(c.doc.Indexes), func(i int) string { return c.doc.Indexes[i].Name })
	c.uniqueNames("metrics", lint.CodeDuplicateMetric, "metric", len(c.doc.Metrics), func(i int) string { return c.doc.Metrics[i].Name })

	terms := make(map[string]bool)
	for i, g := range c.doc.Glossary {
		key := strings.ToLower(strings.TrimSpace(g.Term))
		if key == "" {
			continue
		}
		if terms[key] {
			c.b.Errorf(lint.CodeDuplicateGlossaryTerm, lint.Path("glossary", i, "term"), "duplicate glossary term %q", g.Term)
		}
		terms[key] = true
	}
}

func (c *checker) uniqueNames(section, code, noun string, n int, name func(int) string) {
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		nm := name(i)
		if nm == "" {
			continue
		}
		if seen[nm] {
			c.b.Errorf(code, lint.Path(section, i, "name"), "duplicate %s %s", noun, nm)
		}
		seen[nm] = true
	}
}

func (c *checker) relationships() {
	for i, r := range c.doc.Relationships {
		ctx := "relationship " + r.Name
		c.resolveRef(r.From, lint.Path("relationships", i, "from"), ctx)
		c.resolveRef(r.To, lint.Path("relationships", i, "to"), ctx)
	}
}

func (c *checker) indexes() {
	for i, idx := range c.doc.Indexes {
		ctx := "index " + idx.Name
		e, ok := c.resolveEntity(idx.Entity, lint.Path("indexes", i, "entity"), ctx)
		if !ok {
			continue
		}
		for j, f := range idx.Fields {
			if f == "" {
				continue
			}
			c.resolveField(e, f, lint.Path("indexes", i, "fields", j), ctx)
		}
	}
}

func (c *checker) metrics() {
	for i, m := range c.doc.Metrics {
		ctx := "metric " + m.Name
		e, ok := c.resolveEntity(m.Entity, lint.Path("metrics", i, "entity"), ctx)
		if !ok {
			continue
		}
		for j, g := range m.Grain {
			c.resolveField(e, g, lint.Path("metrics", i, "grain", j), ctx)
		}
		for j, d := range m.Dimensions {
			c.resolveField(e, d, lint.Path("metrics", i, "dimensions", j), ctx)
		}
		if m.TimeDimension != "" {
			c.resolveField(e, m.TimeDimension, lint.Path("metrics", i, "time_dimension"), ctx)
		}
	}
}

// entityRefs checks dimension_refs and natural keys.
func (c *checker) entityRefs() {
	for i := range c.doc.Entities {
		e := &c.doc.Entities[i]
		ctx := "entity " + e.Name
		for j, ref := range e.DimensionRefs {
			c.resolveEntity(ref, lint.Path("entities", i, "dimension_refs", j), ctx)
		}
		for j, k := range e.NaturalKey {
			if k == "" {
				continue
			}
			c.resolveField(e, k, lint.Path("entities", i, "natural_key", j), ctx+" natural key")
		}
	}
}

func (c *checker) governance() {
	cls := c.doc.Governance.Classification
	for _, key := range slices.Sorted(maps.Keys(cls)) {
		c.resolveRef(key, lint.Path("governance", "classification", key), "governance classification")
	}
}

func (c *checker) glossary() {
	for i, g := range c.doc.Glossary {
		ctx := "glossary term " + g.Term
		for j, ref := range g.RelatedFields {
			c.resolveRef(ref, lint.Path("glossary", i, "related_fields", j), ctx)
		}
	}
}

func (c *checker) rules() {
	for i, r := range c.doc.Rules {
		c.resolveRef(r.Target, lint.Path("rules", i, "target"), "rule "+r.Name)
	}
}

func (c *checker) primaryKeys() {
	for i, e := range c.doc.Entities {
		if !e.Type.RequiresPrimaryKey() {
			continue
		}
		hasPK := false
		for _, f := range e.Fields {
			if f.PrimaryKey {
				hasPK = true
				break
			}
		}
		if !hasPK {
			c.b.Errorf(lint.CodeMissingPrimaryKey, lint.Path("entities", i),
				"%s %s must declare at least one primary_key field", e.Type, e.Name)
		}
	}
}

func (c *checker) grain() {
	layer := c.doc.Meta.Layer
	for i := range c.doc.Entities {
		e := &c.doc.Entities[i]
		if len(e.Grain) == 0 {
			if model.LayerRequiresGrain(layer) && e.Type.RequiresGrain() {
				c.b.Errorf(lint.CodeMissingGrain, lint.Path("entities", i),
					"%s %s must declare a grain in the %s layer", e.Type, e.Name, layer)
			}
			continue
		}

		seen := make(map[string]bool, len(e.Grain))
		for j, g := range e.Grain {
			path := lint.Path("entities", i, "grain", j)
			if seen[g] {
				c.b.Errorf(lint.CodeDuplicateGrainField, path, "grain of %s lists %s more than once", e.Name, g)
				continue
			}
			seen[g] = true
			if _, ok := e.FieldByName(g); !ok {
				c.b.Errorf(lint.CodeInvalidGrainField, path, "grain field %s is not a field of %s", g, e.Name)
			}
		}
	}

	if layer == model.LayerReport && len(c.doc.Metrics) == 0 {
		c.b.Errorf(lint.CodeMissingMetrics, "/metrics", "report-layer models must define at least one metric")
	}
}

// cycles flags the relationship graph once if it contains any cycle.
func (c *checker) cycles() {
	g := dag.NewGraph()
	for _, r := range c.doc.Relationships {
		from, okFrom := model.ParseRef(r.From)
		to, okTo := model.ParseRef(r.To)
		if !okFrom || !okTo {
			continue
		}
		g.AddEdge(from.Entity, to.Entity)
	}

	if hasCycle, path := g.HasCycle(); hasCycle {
		c.b.Warnf(lint.CodeCircularRelationships, "/relationships",
			"relationships form a cycle: %s", strings.Join(path, " -> "))
	}
}

func (c *checker) deprecations() {
	for i, e := range c.doc.Entities {
		for j, f := range e.Fields {
			if !f.Deprecated {
				continue
			}
			msg := ""
			if f.DeprecationMessage != "" {
				msg = ": " + f.DeprecationMessage
			}
			c.b.Warnf(lint.CodeDeprecatedField, lint.Path("entities", i, "fields", j),
				"field %s is deprecated%s", model.Ref(e.Name, f.Name), msg)
		}
	}
	for i, m := range c.doc.Metrics {
		if m.Deprecated {
			c.b.Warnf(lint.CodeDeprecatedMetric, lint.Path("metrics", i), "metric %s is deprecated", m.Name)
		}
	}
}
