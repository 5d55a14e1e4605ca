package validate

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapmodel/pkg/lint"
	"github.com/leapstack-labs/leapmodel/pkg/model"
)

// optionalSections must be lists when present.
var optionalSections = []string{"relationships", "indexes", "metrics", "rules", "glossary"}

// Structure runs the local, per-node checks over a loaded tree. Every violation
// is an error; all of them are collected.
func Structure(tree map[string]any) []lint.Issue {
	w := &walker{b: lint.NewBuilder()}
	root := node{val: tree, path: "/"}

	w.meta(root.at("meta"))
	w.entities(root.at("entities"))

	for _, key := range optionalSections {
		n := root.at(key)
		l, ok := w.list(n)
		if !ok {
			continue
		}
		for i := range l {
			item := n.at(i)
			if _, ok := w.object(item); !ok {
				if !item.present() {
					w.wrongType(item, "mapping")
				}
				continue
			}
			switch key {
			case "relationships":
				w.relationship(item)
			case "indexes":
				w.index(item)
			case "metrics":
				w.metric(item)
			case "rules":
				w.rule(item)
			case "glossary":
				w.glossaryTerm(item)
			}
		}
	}

	w.governance(root.at("governance"))
	w.optionalObject(root, "display")

	return w.b.Issues()
}

func (w *walker) meta(n node) {
	if !n.present() {
		w.b.Errorf(lint.CodeMissingMeta, n.path, "missing required section \"meta\"")
		return
	}
	if _, ok := w.object(n); !ok {
		return
	}

	if name, ok := w.requiredString(n, "name"); ok && !model.IsModelName(name) {
		w.b.Errorf(lint.CodeInvalidModelName, n.at("name").path,
			"model name %q must be lowercase snake_case (did you mean %q?)", name, model.SuggestSnakeName(name))
	}

	w.version(n.at("version"))
	w.requiredString(n, "domain")
	w.owners(n.at("owners"))
	w.enum(n, "state", true, lint.CodeInvalidState, model.IsState, model.States())
	w.enum(n, "layer", false, lint.CodeInvalidLayer, model.IsLayer, model.Layers())
	w.imports(n.at("imports"))
}

func (w *walker) version(n node) {
	if !n.present() {
		w.b.Errorf(lint.CodeMissingRequiredField, n.path, "missing required field \"version\"")
		return
	}
	s, ok := n.asString()
	if !ok {
		w.b.Errorf(lint.CodeInvalidVersion, n.path,
			"version must be a semantic version string such as \"1.0.0\", got %s %v", typeName(n.val), n.val)
		return
	}
	if !model.IsSemver(s) {
		w.b.Errorf(lint.CodeInvalidVersion, n.path, "version %q is not a semantic version (MAJOR.MINOR.PATCH)", s)
	}
}

func (w *walker) owners(n node) {
	if !n.present() {
		w.b.Errorf(lint.CodeMissingRequiredField, n.path, "missing required field \"owners\"")
		return
	}
	l, ok := w.list(n)
	if !ok {
		return
	}
	if len(l) == 0 {
		w.b.Errorf(lint.CodeMissingRequiredField, n.path, "owners must list at least one email address")
		return
	}
	for i := range l {
		item := n.at(i)
		s, ok := item.asString()
		if !ok {
			w.wrongType(item, "string")
			continue
		}
		if !model.IsEmail(s) {
			w.b.Errorf(lint.CodeInvalidEmail, item.path, "owner %q is not a valid email address", s)
		}
	}
}

func (w *walker) imports(n node) {
	l, ok := w.list(n)
	if !ok {
		return
	}
	for i := range l {
		item := n.at(i)
		switch v := item.val.(type) {
		case string:
			if strings.TrimSpace(v) == "" {
				w.b.Errorf(lint.CodeMissingRequiredField, item.path, "import path is empty")
			}
		case map[string]any:
			w.requiredString(item, "path")
			w.optionalString(item, "alias")
			w.stringList(item, "entities", func(s string, en node) {
				if !model.IsEntityName(s) {
					w.b.Errorf(lint.CodeInvalidEntityName, en.path, "imported entity name %q must be PascalCase", s)
				}
			})
		default:
			w.wrongType(item, "string or mapping")
		}
	}
}

// enum validates a string drawn from a closed set.
func (w *walker) enum(parent node, key string, required bool, code string, valid func(string) bool, allowed []string) {
	n := parent.at(key)
	if !n.present() {
		if required {
			w.b.Errorf(lint.CodeMissingRequiredField, n.path, "missing required field %q", key)
		}
		return
	}
	s, ok := n.asString()
	if !ok || !valid(s) {
		w.b.Errorf(code, n.path, "%s %v is not one of: %s", key, quoteValue(n.val), strings.Join(allowed, ", "))
	}
}

func quoteValue(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", v)
}

func (w *walker) entities(n node) {
	if !n.present() {
		w.b.Errorf(lint.CodeMissingEntities, n.path, "missing required section \"entities\"")
		return
	}
	l, ok := w.list(n)
	if !ok {
		return
	}
	if len(l) == 0 {
		w.b.Errorf(lint.CodeEmptyEntities, n.path, "entities must contain at least one entity")
		return
	}
	for i := range l {
		item := n.at(i)
		if _, ok := item.asMap(); !ok {
			w.wrongType(item, "mapping")
			continue
		}
		w.entity(item)
	}
}

func (w *walker) entity(n node) {
	if name, ok := w.requiredString(n, "name"); ok && !model.IsEntityName(name) {
		w.b.Errorf(lint.CodeInvalidEntityName, n.at("name").path,
			"entity name %q must be PascalCase (did you mean %q?)", name, model.SuggestEntityName(name))
	}
	w.enum(n, "type", true, lint.CodeInvalidEntityType, model.IsEntityKind, model.EntityKinds())

	w.optionalString(n, "description")
	w.email(n, "owner")
	w.stringList(n, "tags", nil)
	w.optionalObject(n, "sla")
	w.stringList(n, "grain", nil)
	w.stringList(n, "natural_key", nil)
	w.stringList(n, "dimension_refs", func(s string, rn node) {
		if !model.IsEntityName(s) {
			w.b.Errorf(lint.CodeInvalidEntityName, rn.path, "dimension reference %q must be a PascalCase entity name", s)
		}
	})
	w.scdType(n.at("scd_type"))

	fields := n.at("fields")
	if !fields.present() {
		w.b.Errorf(lint.CodeMissingRequiredField, fields.path, "missing required field \"fields\"")
		return
	}
	l, ok := w.list(fields)
	if !ok {
		return
	}
	if len(l) == 0 {
		w.b.Errorf(lint.CodeEmptyFields, fields.path, "entity must declare at least one field")
		return
	}
	for i := range l {
		item := fields.at(i)
		if _, ok := item.asMap(); !ok {
			w.wrongType(item, "mapping")
			continue
		}
		w.field(item)
	}
}

func (w *walker) scdType(n node) {
	if !n.present() {
		return
	}
	switch v := n.val.(type) {
	case int:
		if v == 1 || v == 2 {
			return
		}
	case float64:
		if v == 1 || v == 2 {
			return
		}
	}
	w.b.Errorf(lint.CodeInvalidSCDType, n.path, "scd_type must be 1 or 2, got %v", quoteValue(n.val))
}

func (w *walker) field(n node) {
	if name, ok := w.requiredString(n, "name"); ok && !model.IsSnakeName(name) {
		w.b.Errorf(lint.CodeInvalidFieldName, n.at("name").path,
			"field name %q must be snake_case (did you mean %q?)", name, model.SuggestSnakeName(name))
	}
	w.requiredString(n, "type")

	for _, key := range []string{"nullable", "primary_key", "foreign_key", "unique", "deprecated"} {
		w.optionalBool(n, key)
	}
	computed, _ := w.optionalBool(n, "computed")
	expr, _ := w.optionalString(n, "expression")
	if computed && strings.TrimSpace(expr) == "" {
		w.b.Errorf(lint.CodeMissingComputedExpression, n.at("expression").path, "computed field must declare an expression")
	}

	w.optionalString(n, "deprecation_message")
	w.optionalString(n, "description")
	w.enum(n, "sensitivity", false, lint.CodeInvalidSensitivity, model.IsSensitivity, model.Sensitivities())
	w.stringList(n, "tags", nil)
	w.list(n.at("examples"))
}

// reference validates a required Entity.field string.
func (w *walker) reference(parent node, key string) {
	s, ok := w.requiredString(parent, key)
	if ok && !model.IsFieldRef(s) {
		w.b.Errorf(lint.CodeInvalidReference, parent.at(key).path, "reference %q must have the form Entity.field", s)
	}
}

func (w *walker) relationship(n node) {
	w.requiredString(n, "name")
	w.reference(n, "from")
	w.reference(n, "to")
	w.enum(n, "cardinality", true, lint.CodeInvalidCardinality, model.IsCardinality, model.Cardinalities())
	w.optionalString(n, "description")
}

// entityName validates a required bare entity name.
func (w *walker) entityName(parent node, key string) {
	if s, ok := w.requiredString(parent, key); ok && !model.IsEntityName(s) {
		w.b.Errorf(lint.CodeInvalidEntityName, parent.at(key).path, "entity %q must be a PascalCase entity name", s)
	}
}

func (w *walker) index(n node) {
	if name, ok := w.requiredString(n, "name"); ok && !model.IsSnakeName(name) {
		w.b.Errorf(lint.CodeInvalidIndexName, n.at("name").path, "index name %q must be snake_case", name)
	}
	w.entityName(n, "entity")

	fields := n.at("fields")
	if !fields.present() {
		w.b.Errorf(lint.CodeMissingRequiredField, fields.path, "missing required field \"fields\"")
	} else if names := w.stringList(n, "fields", w.fieldNameCheck); names != nil && len(names) == 0 {
		w.b.Errorf(lint.CodeMissingRequiredField, fields.path, "index must list at least one field")
	}
	w.optionalBool(n, "unique")
}

func (w *walker) fieldNameCheck(s string, n node) {
	if !model.IsSnakeName(s) {
		w.b.Errorf(lint.CodeInvalidFieldName, n.path, "field name %q must be snake_case", s)
	}
}

func (w *walker) metric(n node) {
	if name, ok := w.requiredString(n, "name"); ok && !model.IsSnakeName(name) {
		w.b.Errorf(lint.CodeInvalidMetricName, n.at("name").path, "metric name %q must be snake_case", name)
	}
	w.entityName(n, "entity")
	w.requiredString(n, "expression")
	w.enum(n, "aggregation", false, lint.CodeInvalidAggregation, model.IsAggregation, model.Aggregations())
	w.stringList(n, "grain", nil)
	w.stringList(n, "dimensions", nil)
	w.optionalString(n, "time_dimension")
	w.optionalString(n, "description")
	w.email(n, "owner")
	w.stringList(n, "tags", nil)
	w.optionalBool(n, "deprecated")
}

func (w *walker) rule(n node) {
	if name, ok := w.requiredString(n, "name"); ok && !model.IsSnakeName(name) {
		w.b.Errorf(lint.CodeInvalidRuleName, n.at("name").path, "rule name %q must be snake_case", name)
	}
	w.reference(n, "target")
	w.enum(n, "severity", false, lint.CodeInvalidSeverity, model.IsRuleSeverity, model.RuleSeverities())
	w.optionalString(n, "expression")
	w.optionalString(n, "description")
}

func (w *walker) governance(n node) {
	if _, ok := w.object(n); !ok {
		return
	}

	cls := n.at("classification")
	if m, ok := w.object(cls); ok {
		for _, key := range sortedKeys(m) {
			item := cls.at(key)
			if !model.IsFieldRef(key) {
				w.b.Errorf(lint.CodeInvalidReference, item.path, "classification key %q must have the form Entity.field", key)
			}
			label, ok := item.asString()
			if !ok || !model.IsClassification(label) {
				w.b.Errorf(lint.CodeInvalidClassification, item.path, "classification %v is not one of: %s",
					quoteValue(item.val), strings.Join(model.ClassificationLabels(), ", "))
			}
		}
	}

	stewards := n.at("stewards")
	if m, ok := w.object(stewards); ok {
		for _, key := range sortedKeys(m) {
			item := stewards.at(key)
			s, ok := item.asString()
			if !ok || !model.IsEmail(s) {
				w.b.Errorf(lint.CodeInvalidEmail, item.path, "steward %v is not a valid email address", quoteValue(item.val))
			}
		}
	}
}

func (w *walker) glossaryTerm(n node) {
	w.requiredString(n, "term")
	w.requiredString(n, "definition")
	w.stringList(n, "related_fields", func(s string, rn node) {
		if !model.IsFieldRef(s) {
			w.b.Errorf(lint.CodeInvalidReference, rn.path, "related field %q must have the form Entity.field", s)
		}
	})
	w.email(n, "owner")
	w.stringList(n, "tags", nil)
	w.stringList(n, "aliases", nil)
}
