// Package optimistic runs a state mutation ahead of the request that confirms
// it: apply, request, then reconcile on success or roll back on failure.
package optimistic

import (
	"context"

	"github.com/reelhouse/cli/pkg/logger"
)

// Outcome is how a mutation settled
type Outcome string

const (
	// Confirmed means the server accepted and its response was reconciled
	Confirmed Outcome = "confirmed"
	// RolledBack means the request failed and the optimistic change was undone
	RolledBack Outcome = "rolled_back"
	// Rejected means a precheck failed and nothing was applied or sent
	Rejected Outcome = "rejected"
	// Discarded means the request finished after its owner was torn down
	Discarded Outcome = "discarded"
)

// Mutation describes one optimistic operation. Apply and Rollback must be
// synchronous; Request is the only blocking step.
type Mutation[T any] struct {
	Name      string
	Apply     func()
	Request   func(ctx context.Context) (T, error)
	Reconcile func(T)
	Rollback  func(error)
}

// Run executes m. A request that fails, including one cut short by ctx's
// deadline or cancellation, is rolled back.
func Run[T any](ctx context.Context, m Mutation[T]) error {
	_, err := run(ctx, m, nil)
	return err
}

func run[T any](ctx context.Context, m Mutation[T], gone func() bool) (Outcome, error) {
	if m.Apply != nil {
		m.Apply()
	}
	logger.Debug("Optimistic apply", "op", m.Name)

	result, err := m.Request(ctx)

	if gone != nil && gone() {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		logger.Debug("Discarding response after teardown", "op", m.Name, "error", err)
		return Discarded, err
	}

	if err != nil {
		logger.Warn("Optimistic mutation failed, rolling back", "op", m.Name, "error", err)
		if m.Rollback != nil {
			m.Rollback(err)
		}
		return RolledBack, err
	}

	if m.Reconcile != nil {
		m.Reconcile(result)
	}
	logger.Debug("Optimistic reconcile", "op", m.Name)
	return Confirmed, nil
}

// Observer is told how every mutation settled
type Observer interface {
	Observe(op string, outcome Outcome)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(op string, outcome Outcome)

func (f ObserverFunc) Observe(op string, outcome Outcome) { f(op, outcome) }

// Runner adds a shared precheck and observer to Run
type Runner struct {
	// Precheck runs before Apply; an error rejects the mutation untouched
	Precheck func() error
	// Discarded reports that the owner of the state was torn down. Checked
	// once the request returns; when true the response is dropped without
	// reconcile or rollback.
	Discarded func() bool
	Observer  Observer
}

// Execute runs m under r. It is a function rather than a method because Go
// methods cannot take type parameters.
func Execute[T any](ctx context.Context, r *Runner, m Mutation[T]) error {
	if r != nil && r.Precheck != nil {
		if err := r.Precheck(); err != nil {
			r.observe(m.Name, Rejected)
			return err
		}
	}

	var gone func() bool
	if r != nil {
		gone = r.Discarded
	}
	outcome, err := run(ctx, m, gone)
	r.observe(m.Name, outcome)
	return err
}

func (r *Runner) observe(op string, outcome Outcome) {
	if r == nil || r.Observer == nil {
		return
	}
	r.Observer.Observe(op, outcome)
}
