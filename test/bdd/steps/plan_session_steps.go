package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/prun-ccc/internal/application/planning"
)

type planSessionContext struct {
	session  *planning.Session[*planning.Quote]
	seqs     []uint64
	lastKept bool
}

func (pc *planSessionContext) reset() {
	pc.session = planning.NewSession[*planning.Quote]()
	pc.seqs = nil
	pc.lastKept = false
}

func (pc *planSessionContext) aPlanSession() error {
	pc.reset()
	return nil
}

func (pc *planSessionContext) planSubmissions(n int) error {
	for i := 0; i < n; i++ {
		pc.seqs = append(pc.seqs, pc.session.Begin())
	}
	return nil
}

func (pc *planSessionContext) submission(n int) (uint64, error) {
	if n < 1 || n > len(pc.seqs) {
		return 0, fmt.Errorf("no submission %d", n)
	}
	return pc.seqs[n-1], nil
}

func (pc *planSessionContext) submissionCompletesWithQuantities(n int, raw string) error {
	seq, err := pc.submission(n)
	if err != nil {
		return err
	}
	q, err := parseQuantities(raw)
	if err != nil {
		return err
	}
	pc.lastKept = pc.session.Commit(seq, &planning.Quote{Quantities: q})
	return nil
}

func (pc *planSessionContext) submissionFailsWith(n int, message string) error {
	seq, err := pc.submission(n)
	if err != nil {
		return err
	}
	pc.lastKept = pc.session.Fail(seq, fmt.Errorf("%s", message))
	return nil
}

func (pc *planSessionContext) theSessionShouldHoldQuantities(expected string) error {
	quote, ok, err := pc.session.Latest()
	if err != nil {
		return fmt.Errorf("expected quantities but the session holds error: %w", err)
	}
	if !ok {
		return fmt.Errorf("expected quantities but nothing was committed")
	}
	return expectQuantities(expected, quote.Quantities)
}

func (pc *planSessionContext) theSessionShouldHoldTheError(message string) error {
	_, _, err := pc.session.Latest()
	if err == nil || err.Error() != message {
		return fmt.Errorf("expected error %q but got %v", message, err)
	}
	return nil
}

func (pc *planSessionContext) theLastResultShouldHaveBeenDropped() error {
	if pc.lastKept {
		return fmt.Errorf("expected the last result to be dropped but it was kept")
	}
	return nil
}

func (pc *planSessionContext) noSubmissionShouldBePending() error {
	if pc.session.Pending() {
		return fmt.Errorf("expected no pending submission")
	}
	return nil
}

func (pc *planSessionContext) aSubmissionShouldBePending() error {
	if !pc.session.Pending() {
		return fmt.Errorf("expected a pending submission")
	}
	return nil
}

func InitializePlanSessionScenario(ctx *godog.ScenarioContext) {
	pc := &planSessionContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		pc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a plan session$`, pc.aPlanSession)
	ctx.Step(`^(\d+) plan submissions$`, pc.planSubmissions)

	// When steps
	ctx.Step(`^submission (\d+) completes with quantities "([^"]*)"$`, pc.submissionCompletesWithQuantities)
	ctx.Step(`^submission (\d+) fails with "([^"]*)"$`, pc.submissionFailsWith)

	// Then steps
	ctx.Step(`^the session should hold quantities "([^"]*)"$`, pc.theSessionShouldHoldQuantities)
	ctx.Step(`^the session should hold the error "([^"]*)"$`, pc.theSessionShouldHoldTheError)
	ctx.Step(`^the last result should have been dropped$`, pc.theLastResultShouldHaveBeenDropped)
	ctx.Step(`^no submission should be pending$`, pc.noSubmissionShouldBePending)
	ctx.Step(`^a submission should be pending$`, pc.aSubmissionShouldBePending)
}
