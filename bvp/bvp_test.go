package bvp

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

// harmonic oscillator y1' = y2, y2' = -y1 with y1(0)=0, y1(pi/2)=1,
// solution y1 = sin(x)
func harmonic() Problem {
	return Problem{
		M: 2,
		RHS: func(x float64, y, dy []float64) error {
			dy[0] = y[1]
			dy[1] = -y[0]
			return nil
		},
		BC: func(ya, yb, res []float64) error {
			res[0] = ya[0]
			res[1] = yb[0] - 1
			return nil
		},
	}
}

func uniformMesh(a, b float64, n int) ([]float64, [][]float64) {
	x := make([]float64, n)
	y := make([][]float64, n)
	for i := range x {
		x[i] = a + float64(i)/float64(n-1)*(b-a)
		y[i] = make([]float64, 2)
	}
	return x, y
}

func TestSolveHarmonic(t *testing.T) {
	x, y0 := uniformMesh(0, math.Pi/2, 30)
	res, err := Solve(harmonic(), x, y0, Settings{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Refinements != 0 {
		t.Errorf("unexpected refinements: %d", res.Refinements)
	}
	for i, xi := range res.X {
		if !scalar.EqualWithinAbs(res.Y[i][0], math.Sin(xi), 2e-3) {
			t.Fatalf("y1(%g) = %g, want %g", xi, res.Y[i][0], math.Sin(xi))
		}
	}
	if res.MaxResidual > 5e-3 {
		t.Errorf("residual %g above tolerance", res.MaxResidual)
	}
}

// tightening the tolerance on a system whose RHS is linear in y must still
// drive refinement; the error estimate cannot vanish just because the
// endpoint slopes average to the midpoint slope
func TestSolveRefinesLinearSystem(t *testing.T) {
	x, y0 := uniformMesh(0, math.Pi/2, 11)
	res, err := Solve(harmonic(), x, y0, Settings{Tol: 1e-4})
	if err != nil {
		t.Fatal(err)
	}
	if res.Refinements < 1 {
		t.Errorf("expected refinement on the coarse mesh, got %d", res.Refinements)
	}
	if len(res.X) <= 11 {
		t.Errorf("mesh did not grow: %d nodes", len(res.X))
	}
	if res.MaxResidual > 1e-4 {
		t.Errorf("residual %g above tolerance", res.MaxResidual)
	}
	for i, xi := range res.X {
		if !scalar.EqualWithinAbs(res.Y[i][0], math.Sin(xi), 1e-3) {
			t.Fatalf("y1(%g) = %g, want %g", xi, res.Y[i][0], math.Sin(xi))
		}
	}
}

// components of very different magnitude, one of them with a near-constant
// slope, as in an enthalpy/pressure state vector: Newton's stopping norm and
// the mesh estimator must agree on when the solution is good enough, or the
// solve refines forever on algebraic leftovers
func TestSolveMixedScaleComponents(t *testing.T) {
	p := Problem{
		M: 2,
		RHS: func(x float64, y, dy []float64) error {
			dy[0] = -y[0]
			dy[1] = -64.8
			return nil
		},
		BC: func(ya, yb, res []float64) error {
			res[0] = ya[0] - 1
			res[1] = ya[1] - 1e6
			return nil
		},
	}
	x, y0 := uniformMesh(0, 5, 41)
	for i := range y0 {
		y0[i][0] = 1
		y0[i][1] = 1e6
	}
	res, err := Solve(p, x, y0, Settings{})
	if err != nil {
		t.Fatal(err)
	}
	last := res.Y[len(res.Y)-1]
	if !scalar.EqualWithinAbs(last[1], 1e6-64.8*5, 0.01) {
		t.Errorf("large component ends at %g, want %g", last[1], 1e6-64.8*5)
	}
	if !scalar.EqualWithinAbs(last[0], math.Exp(-5), 5e-4) {
		t.Errorf("small component ends at %g, want %g", last[0], math.Exp(-5))
	}
}

// boundary layer y'' = 100 y with y(0)=1, y(1)=0, solution
// sinh(10(1-x))/sinh(10); the steep left edge forces mesh refinement
func TestSolveBoundaryLayer(t *testing.T) {
	p := Problem{
		M: 2,
		RHS: func(x float64, y, dy []float64) error {
			dy[0] = y[1]
			dy[1] = 100 * y[0]
			return nil
		},
		BC: func(ya, yb, res []float64) error {
			res[0] = ya[0] - 1
			res[1] = yb[0]
			return nil
		},
	}
	x, y0 := uniformMesh(0, 1, 51)
	for i := range x {
		y0[i][0] = 1 - x[i]
		y0[i][1] = -1
	}
	res, err := Solve(p, x, y0, Settings{Tol: 1e-3})
	if err != nil {
		t.Fatal(err)
	}
	if res.Refinements < 1 {
		t.Errorf("expected at least one refinement, got %d", res.Refinements)
	}
	if len(res.X) <= 51 {
		t.Errorf("mesh did not grow: %d nodes", len(res.X))
	}
	exact := func(x float64) float64 { return math.Sinh(10*(1-x)) / math.Sinh(10) }
	for i, xi := range res.X {
		if !scalar.EqualWithinAbs(res.Y[i][0], exact(xi), 1e-2) {
			t.Fatalf("y(%g) = %g, want %g", xi, res.Y[i][0], exact(xi))
		}
	}
}

func TestSolveNodeLimit(t *testing.T) {
	x, y0 := uniformMesh(0, math.Pi/2, 11)
	_, err := Solve(harmonic(), x, y0, Settings{Tol: 1e-9, MaxNodes: 12})
	var ce *ConvergenceError
	if !errors.As(err, &ce) {
		t.Fatalf("want *ConvergenceError, got %v", err)
	}
	if len(ce.Mesh) == 0 {
		t.Error("error does not carry the last mesh")
	}
	if ce.Residual <= 0 {
		t.Errorf("error does not carry a residual: %g", ce.Residual)
	}
}

func TestSolveRHSFailureIsFatalOnSeed(t *testing.T) {
	p := harmonic()
	p.RHS = func(x float64, y, dy []float64) error {
		return errors.New("state not resolvable")
	}
	x, y0 := uniformMesh(0, math.Pi/2, 11)
	_, err := Solve(p, x, y0, Settings{})
	var ce *ConvergenceError
	if !errors.As(err, &ce) {
		t.Fatalf("want *ConvergenceError, got %v", err)
	}
	if ce.Err == nil {
		t.Error("underlying evaluation error not wrapped")
	}
}

func TestSolveRejectsBadProblem(t *testing.T) {
	x, y0 := uniformMesh(0, 1, 5)
	if _, err := Solve(Problem{}, x, y0, Settings{}); err == nil {
		t.Error("incomplete problem accepted")
	}
	if _, err := Solve(harmonic(), x[:1], y0[:1], Settings{}); err == nil {
		t.Error("single-node mesh accepted")
	}
}
