package model

import "slices"

// EntityKind is the closed set of entity types.
type EntityKind string

// Entity kinds.
const (
	KindTable            EntityKind = "table"
	KindView             EntityKind = "view"
	KindMaterializedView EntityKind = "materialized_view"
	KindExternalTable    EntityKind = "external_table"
	KindSnapshot         EntityKind = "snapshot"
	KindFactTable        EntityKind = "fact_table"
	KindDimensionTable   EntityKind = "dimension_table"
	KindBridgeTable      EntityKind = "bridge_table"
)

// Model layers.
const (
	LayerSource    = "source"
	LayerTransform = "transform"
	LayerReport    = "report"
)

// Enumeration values in declaration order. Read-only; exposed through
// accessor functions that return copies.
var (
	entityKinds = []string{
		string(KindTable), string(KindView), string(KindMaterializedView), string(KindExternalTable),
		string(KindSnapshot), string(KindFactTable), string(KindDimensionTable), string(KindBridgeTable),
	}
	states               = []string{"draft", "review", "approved", "deprecated"}
	layers               = []string{LayerSource, LayerTransform, LayerReport}
	cardinalities        = []string{"one_to_one", "one_to_many", "many_to_one", "many_to_many"}
	aggregations         = []string{"sum", "count", "count_distinct", "avg", "min", "max", "custom"}
	ruleSeverities       = []string{"error", "warn", "info"}
	sensitivities        = []string{"public", "internal", "confidential", "restricted"}
	classificationLabels = []string{"public", "internal", "confidential", "restricted", "pii", "pci", "phi"}
)

// EntityKinds returns the valid entity kinds.
func EntityKinds() []string { return slices.Clone(entityKinds) }

// States returns the valid lifecycle states.
func States() []string { return slices.Clone(states) }

// Layers returns the valid model layers.
func Layers() []string { return slices.Clone(layers) }

// Cardinalities returns the valid relationship cardinalities.
func Cardinalities() []string { return slices.Clone(cardinalities) }

// Aggregations returns the valid metric aggregations.
func Aggregations() []string { return slices.Clone(aggregations) }

// RuleSeverities returns the valid rule severities.
func RuleSeverities() []string { return slices.Clone(ruleSeverities) }

// Sensitivities returns the valid field sensitivities.
func Sensitivities() []string { return slices.Clone(sensitivities) }

// ClassificationLabels returns the valid governance classification labels.
func ClassificationLabels() []string { return slices.Clone(classificationLabels) }

var (
	entityKindSet     = toSet(entityKinds)
	stateSet          = toSet(states)
	layerSet          = toSet(layers)
	cardinalitySet    = toSet(cardinalities)
	aggregationSet    = toSet(aggregations)
	severitySet       = toSet(ruleSeverities)
	sensitivitySet    = toSet(sensitivities)
	classificationSet = toSet(classificationLabels)

	// primaryKeyKinds must declare at least one primary_key field.
	primaryKeyKinds = map[EntityKind]bool{
		KindTable:          true,
		KindSnapshot:       true,
		KindFactTable:      true,
		KindDimensionTable: true,
		KindBridgeTable:    true,
	}

	// grainKinds must declare a grain in transform and report layers.
	grainKinds = map[EntityKind]bool{
		KindTable:            true,
		KindMaterializedView: true,
		KindSnapshot:         true,
		KindFactTable:        true,
		KindBridgeTable:      true,
	}

	// sensitiveLevels are the sensitivity labels that require a classification.
	sensitiveLevels = map[string]bool{
		"confidential": true,
		"restricted":   true,
	}
)

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// IsEntityKind reports whether s is a valid entity kind.
func IsEntityKind(s string) bool { return entityKindSet[s] }

// IsState reports whether s is a valid lifecycle state.
func IsState(s string) bool { return stateSet[s] }

// IsLayer reports whether s is a valid model layer.
func IsLayer(s string) bool { return layerSet[s] }

// IsCardinality reports whether s is a valid relationship cardinality.
func IsCardinality(s string) bool { return cardinalitySet[s] }

// IsAggregation reports whether s is a valid metric aggregation.
func IsAggregation(s string) bool { return aggregationSet[s] }

// IsRuleSeverity reports whether s is a valid rule severity.
func IsRuleSeverity(s string) bool { return severitySet[s] }

// IsSensitivity reports whether s is a valid field sensitivity.
func IsSensitivity(s string) bool { return sensitivitySet[s] }

// IsClassification reports whether s is a valid governance classification label.
func IsClassification(s string) bool { return classificationSet[s] }

// RequiresPrimaryKey reports whether entities of this kind need a primary key.
func (k EntityKind) RequiresPrimaryKey() bool { return primaryKeyKinds[k] }

// RequiresGrain reports whether entities of this kind need a grain in
// transform and report layers.
func (k EntityKind) RequiresGrain() bool { return grainKinds[k] }

// LayerRequiresGrain reports whether the layer enforces grain declarations.
func LayerRequiresGrain(layer string) bool {
	return layer == LayerTransform || layer == LayerReport
}

// IsSensitive reports whether a field carries sensitive data: a confidential or
// restricted sensitivity, or a pii tag.
func (f Field) IsSensitive() bool {
	return sensitiveLevels[f.Sensitivity] || HasTag(f.Tags, "pii")
}
