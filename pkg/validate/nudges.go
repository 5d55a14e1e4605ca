package validate

import (
	"strings"

	"github.com/leapstack-labs/leapmodel/pkg/lint"
	"github.com/leapstack-labs/leapmodel/pkg/model"
)

const (
	// minDescriptionCoverage is the share of described fields below which an
	// entity is nudged.
	minDescriptionCoverage = 0.5
	// largeTableFields is the field count above which an entity should have an index.
	largeTableFields = 12
)

// financialWords mark snake_case name parts that look monetary.
var financialWords = map[string]bool{
	"amount":   true,
	"balance":  true,
	"cost":     true,
	"discount": true,
	"fee":      true,
	"margin":   true,
	"price":    true,
	"profit":   true,
	"revenue":  true,
	"salary":   true,
	"tax":      true,
	"total":    true,
}

// scd2Fields are required on type 2 slowly changing dimensions.
var scd2Fields = []string{"effective_from", "effective_to", "is_current"}

// Nudges returns advisory warnings. They never make a document invalid.
func Nudges(doc *model.Document) []lint.Issue {
	b := lint.NewBuilder()

	indexed := make(map[string]bool)
	for _, idx := range doc.Indexes {
		indexed[idx.Entity] = true
	}

	for i := range doc.Entities {
		e := &doc.Entities[i]
		path := lint.Path("entities", i)

		if strings.TrimSpace(e.Description) == "" {
			b.Warnf(lint.CodeMissingDescription, path, "entity %s has no description", e.Name)
		}
		if strings.TrimSpace(e.Owner) == "" {
			b.Warnf(lint.CodeMissingOwner, path, "entity %s has no owner", e.Name)
		}

		fieldNudges(b, doc, e, i)

		if _, ok := e.FieldByName("created_at"); ok {
			if _, ok := e.FieldByName("updated_at"); !ok {
				b.Warnf(lint.CodeCreatedWithoutUpdated, path, "entity %s has created_at but no updated_at", e.Name)
			}
		}

		if n := len(e.Fields); n > 0 {
			if cov := e.DescriptionCoverage(); cov < minDescriptionCoverage {
				b.Warnf(lint.CodeLowFieldDescriptionCoverage, lint.Join(path, "fields"),
					"only %d%% of %s fields have descriptions", int(cov*100+0.5), e.Name)
			}
			if n > largeTableFields && !indexed[e.Name] {
				b.Warnf(lint.CodeLargeTableWithoutIndexes, path,
					"entity %s has %d fields but no indexes", e.Name, n)
			}
		}

		switch e.Type {
		case model.KindFactTable:
			if len(e.DimensionRefs) == 0 {
				b.Warnf(lint.CodeFactWithoutDimensionRefs, path, "fact table %s declares no dimension_refs", e.Name)
			}
		case model.KindDimensionTable:
			if len(e.NaturalKey) == 0 {
				b.Warnf(lint.CodeDimensionWithoutNaturalKey, path, "dimension %s declares no natural_key", e.Name)
			}
		}

		if e.SCDType == 2 {
			var missing []string
			for _, f := range scd2Fields {
				if _, ok := e.FieldByName(f); !ok {
					missing = append(missing, f)
				}
			}
			if len(missing) > 0 {
				b.Warnf(lint.CodeSCD2MissingHistoryFields, path,
					"type 2 dimension %s is missing history fields: %s", e.Name, strings.Join(missing, ", "))
			}
		}
	}

	orphanedImports(b, doc)
	return b.Issues()
}

func fieldNudges(b *lint.Builder, doc *model.Document, e *model.Entity, i int) {
	for j, f := range e.Fields {
		path := lint.Path("entities", i, "fields", j)
		ref := model.Ref(e.Name, f.Name)

		if model.HasTag(f.Tags, "pii") {
			if _, ok := doc.Governance.Classification[ref]; !ok {
				b.Warnf(lint.CodePIIWithoutClassification, path,
					"field %s is tagged pii but has no governance classification", ref)
			}
		}
		if IsFinancialName(f.Name) && len(f.Examples) == 0 {
			b.Warnf(lint.CodeFinancialFieldWithoutExamples, path,
				"field %s looks monetary but has no examples", ref)
		}
	}
}

// orphanedImports flags imported entities that nothing local refers to.
func orphanedImports(b *lint.Builder, doc *model.Document) {
	if !doc.HasImports() {
		return
	}

	used := make(map[string]bool)
	for _, r := range doc.Relationships {
		if ref, ok := model.ParseRef(r.From); ok {
			used[ref.Entity] = true
		}
		if ref, ok := model.ParseRef(r.To); ok {
			used[ref.Entity] = true
		}
	}
	for _, m := range doc.Metrics {
		used[m.Entity] = true
	}
	for _, e := range doc.Entities {
		for _, d := range e.DimensionRefs {
			used[d] = true
		}
	}

	for i, imp := range doc.Meta.Imports {
		for j, name := range imp.Entities {
			if !used[name] {
				b.Warnf(lint.CodeOrphanedImportedEntity, lint.Path("meta", "imports", i, "entities", j),
					"imported entity %s from %s is never referenced", name, imp.Path)
			}
		}
	}
}

// IsFinancialName reports whether a snake_case field name looks monetary.
func IsFinancialName(name string) bool {
	for _, part := range strings.Split(name, "_") {
		if financialWords[part] {
			return true
		}
	}
	return false
}
