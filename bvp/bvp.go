// Package bvp solves two-point boundary value problems for first-order ODE
// systems y' = f(x, y) with separated or coupled conditions g(y(a), y(b)) = 0.
// The method is midpoint collocation on an adaptive mesh with a damped Newton
// iteration on the global nonlinear system.
package bvp

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Func is the right-hand side of the ODE system. It writes dy/dx into dy.
// A returned error marks the trial state as unresolvable; the solver backs
// off its step where possible.
type Func func(x float64, y []float64, dy []float64) error

// BCFunc writes the boundary residual g(ya, yb) into res. Errors here are
// fatal: boundary states are fixed and cannot be retried.
type BCFunc func(ya, yb []float64, res []float64) error

type Problem struct {
	M   int // number of state components
	RHS Func
	BC  BCFunc
}

// Settings bound the solve. The defaults mirror the tolerances the library
// has always used: relative tolerance 5e-3 and at most 1000 mesh nodes.
type Settings struct {
	Tol            float64
	MaxNodes       int
	MaxNewtonIter  int
	MaxRefinements int
}

func DefaultSettings() Settings {
	return Settings{
		Tol:            5e-3,
		MaxNodes:       1000,
		MaxNewtonIter:  25,
		MaxRefinements: 10,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.Tol <= 0 {
		s.Tol = d.Tol
	}
	if s.MaxNodes <= 0 {
		s.MaxNodes = d.MaxNodes
	}
	if s.MaxNewtonIter <= 0 {
		s.MaxNewtonIter = d.MaxNewtonIter
	}
	if s.MaxRefinements <= 0 {
		s.MaxRefinements = d.MaxRefinements
	}
	return s
}

// Result is a converged solution on the final mesh.
type Result struct {
	X           []float64   // mesh, ascending
	Y           [][]float64 // Y[i] is the state at X[i], length M
	MaxResidual float64     // largest normalized interval residual
	NewtonIters int
	Refinements int
}

// ConvergenceError carries the last attempted mesh and residual for
// diagnosis. It is returned instead of any partially converged profile.
type ConvergenceError struct {
	Reason   string
	Mesh     []float64
	Residual float64
	Err      error
}

func (e *ConvergenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bvp: %s (nodes=%d, residual=%.3e): %v", e.Reason, len(e.Mesh), e.Residual, e.Err)
	}
	return fmt.Sprintf("bvp: %s (nodes=%d, residual=%.3e)", e.Reason, len(e.Mesh), e.Residual)
}

func (e *ConvergenceError) Unwrap() error { return e.Err }

// Solve drives Newton iterations and mesh refinement until every interval
// residual is below Tol, or fails with a *ConvergenceError. x must be
// ascending and y0 supplies the initial guess at each node.
func Solve(p Problem, x []float64, y0 [][]float64, s Settings) (*Result, error) {
	s = s.withDefaults()
	if p.M <= 0 || p.RHS == nil || p.BC == nil {
		return nil, &ConvergenceError{Reason: "incomplete problem definition"}
	}
	if len(x) < 2 || len(y0) != len(x) {
		return nil, &ConvergenceError{Reason: "mesh and guess sizes do not match"}
	}

	mesh := append([]float64(nil), x...)
	y := make([][]float64, len(y0))
	for i := range y0 {
		y[i] = append([]float64(nil), y0[i]...)
	}

	totalIters := 0
	for ref := 0; ; ref++ {
		iters, err := newtonSolve(p, mesh, y, s)
		totalIters += iters
		if err != nil {
			return nil, &ConvergenceError{
				Reason:   "newton iteration failed",
				Mesh:     mesh,
				Residual: residualNorm(p, mesh, y),
				Err:      err,
			}
		}

		resid, flagged := intervalResiduals(p, mesh, y, s.Tol)
		if len(flagged) == 0 {
			log.WithFields(log.Fields{
				"nodes":       len(mesh),
				"refinements": ref,
				"newtonIters": totalIters,
				"residual":    resid,
			}).Debug("bvp converged")
			return &Result{
				X:           mesh,
				Y:           y,
				MaxResidual: resid,
				NewtonIters: totalIters,
				Refinements: ref,
			}, nil
		}
		if ref >= s.MaxRefinements {
			return nil, &ConvergenceError{Reason: "refinement limit reached", Mesh: mesh, Residual: resid}
		}
		if len(mesh)+len(flagged) > s.MaxNodes {
			return nil, &ConvergenceError{Reason: "mesh node limit reached", Mesh: mesh, Residual: resid}
		}
		mesh, y = bisect(mesh, y, flagged)
	}
}

// bisect splits every flagged interval, interpolating the state linearly.
func bisect(x []float64, y [][]float64, flagged []int) ([]float64, [][]float64) {
	m := len(y[0])
	nx := make([]float64, 0, len(x)+len(flagged))
	ny := make([][]float64, 0, len(x)+len(flagged))
	fi := 0
	for i := 0; i < len(x)-1; i++ {
		nx = append(nx, x[i])
		ny = append(ny, y[i])
		if fi < len(flagged) && flagged[fi] == i {
			fi++
			mid := make([]float64, m)
			for k := 0; k < m; k++ {
				mid[k] = 0.5 * (y[i][k] + y[i+1][k])
			}
			nx = append(nx, 0.5*(x[i]+x[i+1]))
			ny = append(ny, mid)
		}
	}
	nx = append(nx, x[len(x)-1])
	ny = append(ny, y[len(y)-1])
	return nx, ny
}
