// Package score computes the completeness score of a model document.
//
// Every entity is graded on nine weighted dimensions that add up to 100. The
// model score is the rounded mean of the entity scores.
package score

import (
	"fmt"
	"math"
	"strings"

	"github.com/leapstack-labs/leapmodel/pkg/model"
)

// Thresholds for the entity partitions of a report.
const (
	FullScore      = 100
	AttentionBelow = 60

	// fieldDescriptionTarget is the share of described fields an entity needs.
	fieldDescriptionTarget = 0.8
)

// Report is the completeness report of one document.
type Report struct {
	Score          int           `json:"score"`
	Entities       []EntityScore `json:"entities"`
	FullyComplete  []string      `json:"fully_complete"`
	NeedsAttention []string      `json:"needs_attention"`
}

// EntityScore is the completeness of one entity.
type EntityScore struct {
	Name    string   `json:"name"`
	Score   int      `json:"score"`
	Missing []string `json:"missing"`
}

// scope is what a dimension check can see.
type scope struct {
	doc    *model.Document
	entity *model.Entity
	linked map[string]bool
}

type dimension struct {
	weight int
	check  func(s scope) bool
	label  func(s scope) string
}

func fixed(label string) func(scope) string {
	return func(scope) string { return label }
}

// dimensions weights sum to 100.
var dimensions = []dimension{
	{
		weight: 15,
		check:  func(s scope) bool { return strings.TrimSpace(s.entity.Description) != "" },
		label:  fixed("description"),
	},
	{
		weight: 10,
		check:  func(s scope) bool { return strings.TrimSpace(s.entity.Owner) != "" },
		label:  fixed("owner"),
	},
	{
		weight: 15,
		check:  func(s scope) bool { return grainExempt(s.entity.Type) || len(s.entity.Grain) > 0 },
		label:  fixed("grain"),
	},
	{
		weight: 20,
		check:  func(s scope) bool { return s.entity.DescriptionCoverage() >= fieldDescriptionTarget },
		label: func(s scope) string {
			return fmt.Sprintf("field descriptions (%d%%)", int(math.Round(s.entity.DescriptionCoverage()*100)))
		},
	},
	{
		weight: 10,
		check:  sensitiveClassified,
		label:  fixed("governance classification for sensitive fields"),
	},
	{
		weight: 10,
		check:  func(s scope) bool { return s.linked[s.entity.Name] },
		label:  fixed("glossary link"),
	},
	{
		weight: 5,
		check:  func(s scope) bool { return len(s.entity.Tags) > 0 },
		label:  fixed("tags"),
	},
	{
		weight: 5,
		check:  func(s scope) bool { return strings.TrimSpace(s.doc.Meta.Layer) != "" },
		label:  fixed("model layer"),
	},
	{
		weight: 10,
		check:  func(s scope) bool { return len(s.entity.SLA) > 0 },
		label:  fixed("sla"),
	},
}

// grainExempt kinds never need a grain for scoring.
func grainExempt(k model.EntityKind) bool {
	switch k {
	case model.KindView, model.KindExternalTable, model.KindDimensionTable:
		return true
	}
	return false
}

func sensitiveClassified(s scope) bool {
	for _, f := range s.entity.Fields {
		if !f.IsSensitive() {
			continue
		}
		if _, ok := s.doc.Governance.Classification[model.Ref(s.entity.Name, f.Name)]; !ok {
			return false
		}
	}
	return true
}

// glossaryLinks returns the entities referenced by any glossary term.
func glossaryLinks(doc *model.Document) map[string]bool {
	linked := make(map[string]bool)
	for _, g := range doc.Glossary {
		for _, ref := range g.RelatedFields {
			if r, ok := model.ParseRef(ref); ok {
				linked[r.Entity] = true
			}
		}
	}
	return linked
}

// Model scores every entity of doc.
func Model(doc *model.Document) *Report {
	r := &Report{
		Entities:       make([]EntityScore, 0, len(doc.Entities)),
		FullyComplete:  []string{},
		NeedsAttention: []string{},
	}
	linked := glossaryLinks(doc)

	total := 0
	for i := range doc.Entities {
		es := scoreEntity(scope{doc: doc, entity: &doc.Entities[i], linked: linked})
		total += es.Score
		r.Entities = append(r.Entities, es)

		switch {
		case es.Score == FullScore:
			r.FullyComplete = append(r.FullyComplete, es.Name)
		case es.Score < AttentionBelow:
			r.NeedsAttention = append(r.NeedsAttention, es.Name)
		}
	}

	if n := len(r.Entities); n > 0 {
		r.Score = int(math.Round(float64(total) / float64(n)))
	}
	return r
}

// scoreEntity grades a single entity.
func scoreEntity(s scope) EntityScore {
	es := EntityScore{Name: s.entity.Name, Missing: []string{}}
	for _, d := range dimensions {
		if d.check(s) {
			es.Score += d.weight
		} else {
			es.Missing = append(es.Missing, d.label(s))
		}
	}
	return es
}
