package exchanger

import (
	"fmt"
	"strings"

	"hexcalc/bvp"
)

// ConfigurationError reports bad static inputs caught before a solve.
type ConfigurationError struct {
	Model  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: configuration: %s: %v", e.Model, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: configuration: %s", e.Model, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ValidationError aggregates every missing or out-of-range input field, not
// just the first.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input (%d fields): %s", len(e.Fields), strings.Join(e.Fields, "; "))
}

// DegenerateLMTDError marks terminal temperature differences for which the
// log-mean is meaningless (crossing or same-signed infeasible profiles).
type DegenerateLMTDError struct {
	DT0, DTL float64 // terminal differences at x=0 and x=L
}

func (e *DegenerateLMTDError) Error() string {
	return fmt.Sprintf("degenerate LMTD: terminal differences %.3f K and %.3f K", e.DT0, e.DTL)
}

// BVPConvergenceError wraps a solver failure together with the exchanger it
// belongs to. The last attempted mesh and residual stay available through
// the wrapped *bvp.ConvergenceError.
type BVPConvergenceError struct {
	Model string
	Inner *bvp.ConvergenceError
}

func (e *BVPConvergenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Model, e.Inner)
}

func (e *BVPConvergenceError) Unwrap() error { return e.Inner }

// ThermodynamicViolationError reports a temperature cross in an otherwise
// converged profile. Such profiles are never returned.
type ThermodynamicViolationError struct {
	Model string
	X     float64 // position of the worst violation
	THot  float64
	TCold float64
}

func (e *ThermodynamicViolationError) Error() string {
	return fmt.Sprintf("%s: temperature cross at x=%.4g m: T_hot=%.2f K < T_cold=%.2f K",
		e.Model, e.X, e.THot, e.TCold)
}
