package globals

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrHydrating is returned when Hydrate is called while a hydration is
	// already being applied.
	ErrHydrating = errors.New("globals: hydrate called while hydrating")
	// ErrStoreRequired is returned when a Syncer is built without a store.
	ErrStoreRequired = errors.New("globals: store is required")
	// ErrStateRequired is returned when a Syncer is built without live state.
	ErrStateRequired = errors.New("globals: live state is required")
	// ErrNoEvaluator is returned when no query evaluator can be resolved.
	ErrNoEvaluator = errors.New("globals: evaluator not configured")
)

// Sync operations reported in SyncError and SyncEvent.
const (
	OpPersist = "persist"
	OpHydrate = "hydrate"
)

// SyncError captures where a persist or hydrate failed alongside the
// originating error.
type SyncError struct {
	Op      string
	Key     string
	Trigger string
	Err     error
}

func (e *SyncError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "globals: %s", e.Op)
	if e.Key != "" {
		fmt.Fprintf(&b, " key=%q", e.Key)
	}
	if e.Trigger != "" {
		fmt.Fprintf(&b, " trigger=%s", e.Trigger)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *SyncError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func wrapSyncError(op, key, trigger string, err error) error {
	if err == nil {
		return nil
	}
	var syncErr *SyncError
	if errors.As(err, &syncErr) {
		return err
	}
	return &SyncError{Op: op, Key: key, Trigger: trigger, Err: err}
}

// EvaluationError captures query evaluator metadata alongside the
// originating error.
type EvaluationError struct {
	Engine string
	Expr   string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("globals: %s evaluator %s: %v", e.Engine, describeExpression(e.Expr), e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return err
	}
	if strings.HasPrefix(err.Error(), "globals:") {
		return err
	}
	return fmt.Errorf("globals: %s evaluator: %w", engine, err)
}

func wrapEvaluationError(engine, expr string, err error) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		return evalErr
	}
	return &EvaluationError{Engine: engine, Expr: expr, Err: err}
}
