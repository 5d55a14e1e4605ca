package lint

import "sort"

// Issue groups used by presentation layers to partition the flat issue list.
const (
	GroupLoader    = "loader"
	GroupStructure = "structure"
	GroupSemantic  = "semantic"
	GroupNudge     = "nudge"
)

// Loader codes.
const (
	CodeYAMLParseError        = "YAML_PARSE_ERROR"
	CodeRootNotObject         = "ROOT_NOT_OBJECT"
	CodeForeignSchemaDetected = "FOREIGN_SCHEMA_DETECTED"
)

// Structural codes.
const (
	CodeMissingMeta               = "MISSING_META"
	CodeMissingEntities           = "MISSING_ENTITIES"
	CodeEmptyEntities             = "EMPTY_ENTITIES"
	CodeInvalidType               = "INVALID_TYPE"
	CodeMissingRequiredField      = "MISSING_REQUIRED_FIELD"
	CodeInvalidModelName          = "INVALID_MODEL_NAME"
	CodeInvalidVersion            = "INVALID_VERSION"
	CodeInvalidState              = "INVALID_STATE"
	CodeInvalidLayer              = "INVALID_LAYER"
	CodeInvalidEmail              = "INVALID_EMAIL"
	CodeInvalidEntityName         = "INVALID_ENTITY_NAME"
	CodeInvalidEntityType         = "INVALID_ENTITY_TYPE"
	CodeEmptyFields               = "EMPTY_FIELDS"
	CodeInvalidFieldName          = "INVALID_FIELD_NAME"
	CodeInvalidSensitivity        = "INVALID_SENSITIVITY"
	CodeMissingComputedExpression = "MISSING_COMPUTED_EXPRESSION"
	CodeInvalidSCDType            = "INVALID_SCD_TYPE"
	CodeInvalidReference          = "INVALID_REFERENCE"
	CodeInvalidCardinality        = "INVALID_CARDINALITY"
	CodeInvalidIndexName          = "INVALID_INDEX_NAME"
	CodeInvalidMetricName         = "INVALID_METRIC_NAME"
	CodeInvalidAggregation        = "INVALID_AGGREGATION"
	CodeInvalidRuleName           = "INVALID_RULE_NAME"
	CodeInvalidSeverity           = "INVALID_SEVERITY"
	CodeInvalidClassification     = "INVALID_CLASSIFICATION"
)

// Semantic codes.
const (
	CodeDuplicateEntity       = "DUPLICATE_ENTITY"
	CodeDuplicateField        = "DUPLICATE_FIELD"
	CodeDuplicateIndex        = "DUPLICATE_INDEX"
	CodeDuplicateMetric       = "DUPLICATE_METRIC"
	CodeDuplicateGlossaryTerm = "DUPLICATE_GLOSSARY_TERM"
	CodeUnresolvedReference   = "UNRESOLVED_REFERENCE"
	CodeUnknownEntity         = "UNKNOWN_ENTITY"
	CodeUnknownField          = "UNKNOWN_FIELD"
	CodeMissingPrimaryKey     = "MISSING_PRIMARY_KEY"
	CodeMissingGrain          = "MISSING_GRAIN"
	CodeInvalidGrainField     = "INVALID_GRAIN_FIELD"
	CodeDuplicateGrainField   = "DUPLICATE_GRAIN_FIELD"
	CodeMissingMetrics        = "MISSING_METRICS"
	CodeCircularRelationships = "CIRCULAR_RELATIONSHIPS"
	CodeDeprecatedField       = "DEPRECATED_FIELD"
	CodeDeprecatedMetric      = "DEPRECATED_METRIC"
)

// Nudge codes.
const (
	CodeMissingDescription            = "MISSING_DESCRIPTION"
	CodeMissingOwner                  = "MISSING_OWNER"
	CodePIIWithoutClassification      = "PII_WITHOUT_CLASSIFICATION"
	CodeFinancialFieldWithoutExamples = "FINANCIAL_FIELD_WITHOUT_EXAMPLES"
	CodeCreatedWithoutUpdated         = "CREATED_WITHOUT_UPDATED"
	CodeLowFieldDescriptionCoverage   = "LOW_FIELD_DESCRIPTION_COVERAGE"
	CodeLargeTableWithoutIndexes      = "LARGE_TABLE_WITHOUT_INDEXES"
	CodeOrphanedImportedEntity        = "ORPHANED_IMPORTED_ENTITY"
	CodeFactWithoutDimensionRefs      = "FACT_WITHOUT_DIMENSION_REFS"
	CodeDimensionWithoutNaturalKey    = "DIMENSION_WITHOUT_NATURAL_KEY"
	CodeSCD2MissingHistoryFields      = "SCD2_MISSING_HISTORY_FIELDS"
)

// CodeInfo describes an issue code for documentation and tooling.
type CodeInfo struct {
	Code            string   `json:"code"`
	Group           string   `json:"group"`
	DefaultSeverity Severity `json:"default_severity"`
	Description     string   `json:"description"`
	// Demotable codes drop to warn when the document declares imports.
	Demotable bool `json:"demotable,omitempty"`
}

var catalog = map[string]CodeInfo{
	CodeYAMLParseError:        {Group: GroupLoader, DefaultSeverity: SeverityError, Description: "The document is not well-formed YAML or is empty."},
	CodeRootNotObject:         {Group: GroupLoader, DefaultSeverity: SeverityError, Description: "The document root must be a mapping."},
	CodeForeignSchemaDetected: {Group: GroupLoader, DefaultSeverity: SeverityWarn, Description: "The document looks like a version 2 schema file from another tool and is not validated."},

	CodeMissingMeta:               {Group: GroupStructure, DefaultSeverity: SeverityError, Description: "The meta section is required."},
	CodeMissingEntities:           {Group: GroupStructure, DefaultSeverity: SeverityError, Description: "The entities section is required."},
	CodeEmptyEntities:             {Group: GroupStructure, DefaultSeverity: SeverityError, Description: "The entities section must list at least one entity."},
	CodeInvalidType:               {Group: GroupStructure, DefaultSeverity: SeverityError, Description: "A node has the wrong YAML type (mapping, list, string, boolean or number)."},
	CodeMissingRequiredField:      {Group: GroupStructure, DefaultSeverity: SeverityError, Description: "A required key is absent or empty."},
	CodeInvalidModelName:          {Group: GroupStructure, DefaultSeverity: SeverityError, Description: "meta.name must be lowercase snake_case."},
	CodeInvalidVersion:            {Group: GroupStructure, DefaultSeverity: SeverityError, Description: "meta.version must be a semantic version such as 1.2.0."},
	CodeInvalidState:              {Group: GroupStructure, DefaultSeverity: SeverityError, Description: "meta.state must be draft, review, approved or deprecated."},
	CodeInvalidLayer:              {Group: GroupStructure, DefaultSeverity: SeverityError, Description: "meta.layer must be source, transform or report."},
	CodeInvalidEmail:              {Group: GroupStructure, DefaultSeverity: SeverityError, Description: "Owners and stewards must be email addresses."},
	CodeInvalidEntityName:         {Group: GroupStructure, DefaultSeverity: SeverityError, Description: "Entity names must be PascalCase."},
	CodeInvalidEntityType:         {Group: GroupStructure, DefaultSeverity: SeverityError, Description: "Entity type is not one of the supported kinds."},
	CodeEmptyFields:               {Group: GroupStructure, DefaultSeverity: SeverityError, Description: "An entity must declare at least one field."},
	CodeInvalidFieldName:          {Group: GroupStructure, DefaultSeverity: SeverityError, Description: "Field names must be snake_case."},
	CodeInvalidSensitivity:        {Group: GroupStructure, DefaultSeverity: SeverityError, Description: "Field sensitivity must be public, internal, confidential or restricted."},
	CodeMissingComputedExpression: {Group: GroupStructure, DefaultSeverity: SeverityError, Description: "Computed fields must declare an expression."},
	CodeInvalidSCDType:            {Group: GroupStructure, DefaultSeverity: SeverityError, Description: "scd_type must be 1 or 2."},
	CodeInvalidReference:          {Group: GroupStructure, DefaultSeverity: SeverityError, Description: "References must use the Entity.field syntax."},
	CodeInvalidCardinality:        {Group: GroupStructure, DefaultSeverity: SeverityError, Description: "Relationship cardinality is not one of the supported values."},
	CodeInvalidIndexName:          {Group: GroupStructure, DefaultSeverity: SeverityError, Description: "Index names must be snake_case."},
	CodeInvalidMetricName:         {Group: GroupStructure, DefaultSeverity: SeverityError, Description: "Metric names must be snake_case."},
	CodeInvalidAggregation:        {Group: GroupStructure, DefaultSeverity: SeverityError, Description: "Metric aggregation is not one of the supported kinds."},
	CodeInvalidRuleName:           {Group: GroupStructure, DefaultSeverity: SeverityError, Description: "Rule names must be snake_case."},
	CodeInvalidSeverity:           {Group: GroupStructure, DefaultSeverity: SeverityError, Description: "Rule severity must be error, warn or info."},
	CodeInvalidClassification:     {Group: GroupStructure, DefaultSeverity: SeverityError, Description: "Governance classification labels must come from the supported set."},

	CodeDuplicateEntity:       {Group: GroupSemantic, DefaultSeverity: SeverityError, Description: "Two entities share a name."},
	CodeDuplicateField:        {Group: GroupSemantic, DefaultSeverity: SeverityError, Description: "Two fields of one entity share a name."},
	CodeDuplicateIndex:        {Group: GroupSemantic, DefaultSeverity: SeverityError, Description: "Two indexes share a name."},
	CodeDuplicateMetric:       {Group: GroupSemantic, DefaultSeverity: SeverityError, Description: "Two metrics share a name."},
	CodeDuplicateGlossaryTerm: {Group: GroupSemantic, DefaultSeverity: SeverityError, Description: "Two glossary entries define the same term."},
	CodeUnresolvedReference:   {Group: GroupSemantic, DefaultSeverity: SeverityError, Description: "An Entity.field reference does not resolve to a declared field.", Demotable: true},
	CodeUnknownEntity:         {Group: GroupSemantic, DefaultSeverity: SeverityError, Description: "An entity name does not resolve to a declared entity.", Demotable: true},
	CodeUnknownField:          {Group: GroupSemantic, DefaultSeverity: SeverityError, Description: "A field name does not resolve to a field of the referenced entity.", Demotable: true},
	CodeMissingPrimaryKey:     {Group: GroupSemantic, DefaultSeverity: SeverityError, Description: "Tables, snapshots, facts, dimensions and bridges need a primary key field."},
	CodeMissingGrain:          {Group: GroupSemantic, DefaultSeverity: SeverityError, Description: "Transform and report layers require grain on grain-bearing entity kinds."},
	CodeInvalidGrainField:     {Group: GroupSemantic, DefaultSeverity: SeverityError, Description: "A grain entry is not a field of its entity."},
	CodeDuplicateGrainField:   {Group: GroupSemantic, DefaultSeverity: SeverityError, Description: "A grain lists the same field twice."},
	CodeMissingMetrics:        {Group: GroupSemantic, DefaultSeverity: SeverityError, Description: "Report-layer documents must define at least one metric."},
	CodeCircularRelationships: {Group: GroupSemantic, DefaultSeverity: SeverityWarn, Description: "The relationship graph contains a cycle."},
	CodeDeprecatedField:       {Group: GroupSemantic, DefaultSeverity: SeverityWarn, Description: "A field is marked deprecated."},
	CodeDeprecatedMetric:      {Group: GroupSemantic, DefaultSeverity: SeverityWarn, Description: "A metric is marked deprecated."},

	CodeMissingDescription:            {Group: GroupNudge, DefaultSeverity: SeverityWarn, Description: "An entity has no description."},
	CodeMissingOwner:                  {Group: GroupNudge, DefaultSeverity: SeverityWarn, Description: "An entity has no owner."},
	CodePIIWithoutClassification:      {Group: GroupNudge, DefaultSeverity: SeverityWarn, Description: "A pii-tagged field has no governance classification."},
	CodeFinancialFieldWithoutExamples: {Group: GroupNudge, DefaultSeverity: SeverityWarn, Description: "A monetary-looking field has no examples."},
	CodeCreatedWithoutUpdated:         {Group: GroupNudge, DefaultSeverity: SeverityWarn, Description: "An entity has created_at but no updated_at."},
	CodeLowFieldDescriptionCoverage:   {Group: GroupNudge, DefaultSeverity: SeverityWarn, Description: "Fewer than half of an entity's fields are described."},
	CodeLargeTableWithoutIndexes:      {Group: GroupNudge, DefaultSeverity: SeverityWarn, Description: "An entity with many fields has no index."},
	CodeOrphanedImportedEntity:        {Group: GroupNudge, DefaultSeverity: SeverityWarn, Description: "An imported entity is never referenced locally."},
	CodeFactWithoutDimensionRefs:      {Group: GroupNudge, DefaultSeverity: SeverityWarn, Description: "A fact table declares no dimension_refs."},
	CodeDimensionWithoutNaturalKey:    {Group: GroupNudge, DefaultSeverity: SeverityWarn, Description: "A dimension table declares no natural_key."},
	CodeSCD2MissingHistoryFields:      {Group: GroupNudge, DefaultSeverity: SeverityWarn, Description: "A type 2 dimension lacks effective_from, effective_to or is_current."},
}

// Lookup returns the catalog entry for code.
func Lookup(code string) (CodeInfo, bool) {
	info, ok := catalog[code]
	if !ok {
		return CodeInfo{}, false
	}
	info.Code = code
	return info, true
}

// GroupOf returns the group of code, or "" for unknown codes.
func GroupOf(code string) string {
	return catalog[code].Group
}

// All returns every catalog entry sorted by group then code.
func All() []CodeInfo {
	out := make([]CodeInfo, 0, len(catalog))
	for code := range catalog {
		info, _ := Lookup(code)
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool {
		if groupRank(out[i].Group) != groupRank(out[j].Group) {
			return groupRank(out[i].Group) < groupRank(out[j].Group)
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// ByGroup returns the catalog entries of one group, sorted by code.
func ByGroup(group string) []CodeInfo {
	var out []CodeInfo
	for _, info := range All() {
		if info.Group == group {
			out = append(out, info)
		}
	}
	return out
}

func groupRank(g string) int {
	switch g {
	case GroupLoader:
		return 0
	case GroupStructure:
		return 1
	case GroupSemantic:
		return 2
	default:
		return 3
	}
}
