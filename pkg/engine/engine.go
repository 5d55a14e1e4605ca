// Package engine is the entry point of the model checker. It wires the loader,
// validators, scorer, canonicalizer and differ together.
//
// The engine holds no state between calls; an Engine may be shared across
// goroutines.
package engine

import (
	"io"
	"log/slog"
	"time"

	"github.com/leapstack-labs/leapmodel/pkg/lint"
	"github.com/leapstack-labs/leapmodel/pkg/loader"
	"github.com/leapstack-labs/leapmodel/pkg/model"
	"github.com/leapstack-labs/leapmodel/pkg/score"
	"github.com/leapstack-labs/leapmodel/pkg/validate"
	"golang.org/x/sync/errgroup"
)

// Options configure an Engine.
type Options struct {
	// Logger receives stage timings at debug level. Nil discards.
	Logger *slog.Logger
	// StrictImports only demotes unresolved references into entities an import lists.
	StrictImports bool
	// DisableNudges skips advisory nudges.
	DisableNudges bool
}

// Engine runs model checks and gates.
type Engine struct {
	opts   Options
	logger *slog.Logger
}

// New creates an engine.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{opts: opts, logger: logger}
}

// CheckResult is the outcome of checking one document.
type CheckResult struct {
	Issues       []lint.Issue  `json:"issues"`
	Errors       []lint.Issue  `json:"errors"`
	Warnings     []lint.Issue  `json:"warnings"`
	HasErrors    bool          `json:"hasErrors"`
	Completeness *score.Report `json:"completeness"`
	// Foreign is set when the document was skipped as another tool's schema.
	Foreign bool `json:"foreign,omitempty"`

	doc *model.Document
}

// Document returns the decoded document, or nil when loading failed. Foreign
// documents decode to an empty model.
func (r *CheckResult) Document() *model.Document {
	return r.doc
}

func newCheckResult(issues []lint.Issue) *CheckResult {
	errs, warns := lint.Partition(issues)
	return &CheckResult{
		Issues:    issues,
		Errors:    errs,
		Warnings:  warns,
		HasErrors: len(errs) > 0,
	}
}

// Check validates and scores one document.
func (e *Engine) Check(text string) *CheckResult {
	start := time.Now()

	loaded, fatal := loader.Load(text)
	if fatal != nil {
		e.logger.Debug("document failed to load", "code", fatal.Code, "message", fatal.Message)
		return newCheckResult([]lint.Issue{*fatal})
	}

	if loaded.Foreign {
		e.logger.Debug("foreign schema detected, skipping validation")
		res := newCheckResult([]lint.Issue{loader.ForeignIssue()})
		res.Foreign = true
		res.doc = &model.Document{}
		return res
	}

	doc, err := model.Decode(loaded.Tree)
	if err != nil {
		// Shape problems are reported by the structural pass.
		e.logger.Debug("lenient decode dropped values", "error", err)
	}

	var (
		structural []lint.Issue
		report     *score.Report
		g          errgroup.Group
	)
	g.Go(func() error {
		t := time.Now()
		structural = validate.Structure(loaded.Tree)
		e.logger.Debug("structural validation complete", "issues", len(structural), "duration", time.Since(t))
		return nil
	})
	g.Go(func() error {
		t := time.Now()
		report = score.Model(doc)
		e.logger.Debug("completeness scoring complete", "score", report.Score, "duration", time.Since(t))
		return nil
	})
	_ = g.Wait()

	semantic := validate.Semantics(doc, validate.Options{
		StrictImports: e.opts.StrictImports,
		DisableNudges: e.opts.DisableNudges,
	})

	issues := make([]lint.Issue, 0, len(structural)+len(semantic))
	issues = append(issues, structural...)
	issues = append(issues, semantic...)
	loaded.Annotate(issues)

	res := newCheckResult(issues)
	res.Completeness = report
	res.doc = doc

	e.logger.Debug("model checks complete",
		"errors", len(res.Errors),
		"warnings", len(res.Warnings),
		"duration", time.Since(start))
	return res
}

// RunModelChecks checks text with default options.
func RunModelChecks(text string) *CheckResult {
	return New(Options{}).Check(text)
}
