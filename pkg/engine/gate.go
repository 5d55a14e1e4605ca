package engine

import (
	"time"

	"github.com/leapstack-labs/leapmodel/pkg/diff"
	"golang.org/x/sync/errgroup"
)

// Decision is the outcome of a gate.
type Decision string

// Gate decisions. There is no fourth state.
const (
	DecisionPass             Decision = "PASS"
	DecisionFailOnValidation Decision = "FAIL_ON_VALIDATION"
	DecisionFailOnBreaking   Decision = "FAIL_ON_BREAKING"
)

// Gate messages.
const (
	MessageValidationFailed = "validation errors detected"
	MessageBreaking         = "breaking changes detected"
	MessageNoBreaking       = "no breaking changes"
	MessageBreakingAllowed  = "breaking changes allowed by override"
)

// GateResult is the outcome of comparing a baseline to a candidate.
type GateResult struct {
	GatePassed        bool         `json:"gatePassed"`
	BlockedByBreaking bool         `json:"blockedByBreaking"`
	Decision          Decision     `json:"decision"`
	Message           string       `json:"message"`
	Diff              *diff.Report `json:"diff"`
	OldCheck          *CheckResult `json:"oldCheck"`
	NewCheck          *CheckResult `json:"newCheck"`
}

// Gate validates both documents and, when both are valid, fails on breaking
// changes unless allowBreaking is set.
func (e *Engine) Gate(oldText, newText string, allowBreaking bool) *GateResult {
	start := time.Now()

	var (
		oldCheck, newCheck *CheckResult
		g                  errgroup.Group
	)
	g.Go(func() error {
		oldCheck = e.Check(oldText)
		return nil
	})
	g.Go(func() error {
		newCheck = e.Check(newText)
		return nil
	})
	_ = g.Wait()

	res := &GateResult{OldCheck: oldCheck, NewCheck: newCheck}

	if oldCheck.HasErrors || newCheck.HasErrors {
		res.Decision = DecisionFailOnValidation
		res.Message = MessageValidationFailed
		e.logger.Debug("gate failed on validation",
			"old_errors", len(oldCheck.Errors), "new_errors", len(newCheck.Errors))
		return res
	}

	res.Diff = diff.Compare(oldCheck.Document(), newCheck.Document())

	switch {
	case !res.Diff.HasBreakingChanges:
		res.GatePassed = true
		res.Decision = DecisionPass
		res.Message = MessageNoBreaking
	case allowBreaking:
		res.GatePassed = true
		res.Decision = DecisionPass
		res.Message = MessageBreakingAllowed
	default:
		res.BlockedByBreaking = true
		res.Decision = DecisionFailOnBreaking
		res.Message = MessageBreaking
	}

	e.logger.Debug("gate complete",
		"decision", res.Decision,
		"breaking", res.Diff.Summary.BreakingChangeCount,
		"duration", time.Since(start))
	return res
}

// RunGate gates with default options.
func RunGate(oldText, newText string, allowBreaking bool) *GateResult {
	return New(Options{}).Gate(oldText, newText, allowBreaking)
}
