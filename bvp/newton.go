package bvp

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// The global nonlinear system stacks one midpoint-collocation residual per
// interval plus the boundary residual:
//
//	F[i]   = y[i+1] - y[i] - h_i f(x_mid, (y[i]+y[i+1])/2)   i = 0..n-2
//	F[n-1] = g(y[0], y[n-1])
//
// The Jacobian is assembled dense (block bidiagonal plus the boundary rows)
// and factorized with gonum's LU.

var errStall = errors.New("step damping stalled")

// evalF computes the stacked residual and, when rs is non-nil, the per-row
// scales used to normalize it: collocation rows by the local increment
// h (1 + |f_k|), boundary rows by the component magnitude. Using the same
// increment scale as the mesh estimator keeps Newton iterating until the
// algebraic residual is negligible against the discretization error.
func evalF(p Problem, x []float64, y [][]float64, f, rs []float64) error {
	n := len(x)
	m := p.M
	dy := make([]float64, m)
	ymid := make([]float64, m)
	for i := 0; i < n-1; i++ {
		h := x[i+1] - x[i]
		for k := 0; k < m; k++ {
			ymid[k] = 0.5 * (y[i][k] + y[i+1][k])
		}
		if err := p.RHS(0.5*(x[i]+x[i+1]), ymid, dy); err != nil {
			return err
		}
		for k := 0; k < m; k++ {
			f[i*m+k] = y[i+1][k] - y[i][k] - h*dy[k]
			if rs != nil {
				rs[i*m+k] = h * (1 + math.Abs(dy[k]))
			}
		}
	}
	bc := make([]float64, m)
	if err := p.BC(y[0], y[n-1], bc); err != nil {
		return err
	}
	copy(f[(n-1)*m:], bc)
	if rs != nil {
		copy(rs[(n-1)*m:], componentScales(y, m))
	}
	return nil
}

// componentScales returns 1 + max|y_k| over the mesh for each component.
func componentScales(y [][]float64, m int) []float64 {
	s := make([]float64, m)
	for k := 0; k < m; k++ {
		s[k] = 1
		for i := range y {
			if a := math.Abs(y[i][k]); a > s[k] {
				s[k] = a
			}
		}
	}
	return s
}

func weightedNorm(f, rs []float64) float64 {
	var sum float64
	for i, v := range f {
		w := v / rs[i]
		sum += w * w
	}
	return math.Sqrt(sum / float64(len(f)))
}

// newtonSolve iterates in place on y. It returns the iteration count.
func newtonSolve(p Problem, x []float64, y [][]float64, s Settings) (int, error) {
	n := len(x)
	m := p.M
	dim := n * m

	f := make([]float64, dim)
	rs := make([]float64, dim)
	if err := evalF(p, x, y, f, rs); err != nil {
		// failure on the seed or at a boundary condition is fatal
		return 0, fmt.Errorf("initial residual evaluation: %w", err)
	}

	norm := weightedNorm(f, rs)
	newtonTol := 1e-2 * s.Tol

	jac := mat.NewDense(dim, dim, nil)
	rhs := mat.NewVecDense(dim, nil)
	step := mat.NewVecDense(dim, nil)

	for iter := 1; iter <= s.MaxNewtonIter; iter++ {
		if norm < newtonTol {
			return iter - 1, nil
		}

		if err := assembleJacobian(p, x, y, f, jac); err != nil {
			return iter, fmt.Errorf("jacobian assembly: %w", err)
		}
		for i, v := range f {
			rhs.SetVec(i, -v)
		}
		var lu mat.LU
		lu.Factorize(jac)
		if err := lu.SolveVecTo(step, false, rhs); err != nil {
			return iter, fmt.Errorf("singular jacobian: %w", err)
		}

		// backtracking line search; RHS evaluation errors at a trial point
		// are treated like a rejected step and damp the iteration
		alpha := 1.0
		trial := make([][]float64, n)
		for i := range trial {
			trial[i] = make([]float64, m)
		}
		ftrial := make([]float64, dim)
		rsTrial := make([]float64, dim)
		accepted := false
		for k := 0; k < 12; k++ {
			for i := 0; i < n; i++ {
				for c := 0; c < m; c++ {
					trial[i][c] = y[i][c] + alpha*step.AtVec(i*m+c)
				}
			}
			err := evalF(p, x, trial, ftrial, rsTrial)
			if err == nil {
				tn := weightedNorm(ftrial, rs)
				if tn < norm || tn < newtonTol {
					for i := 0; i < n; i++ {
						copy(y[i], trial[i])
					}
					copy(f, ftrial)
					copy(rs, rsTrial)
					norm = weightedNorm(f, rs)
					accepted = true
					break
				}
			}
			alpha /= 2
		}
		if !accepted {
			return iter, errStall
		}
	}
	if norm < newtonTol {
		return s.MaxNewtonIter, nil
	}
	return s.MaxNewtonIter, fmt.Errorf("no convergence in %d iterations (residual %.3e)", s.MaxNewtonIter, norm)
}

// assembleJacobian fills jac by finite differences of the RHS at each
// interval midpoint and of the boundary residual.
func assembleJacobian(p Problem, x []float64, y [][]float64, f []float64, jac *mat.Dense) error {
	n := len(x)
	m := p.M
	jac.Zero()

	ymid := make([]float64, m)
	dy := make([]float64, m)
	dyp := make([]float64, m)
	for i := 0; i < n-1; i++ {
		h := x[i+1] - x[i]
		xm := 0.5 * (x[i] + x[i+1])
		for k := 0; k < m; k++ {
			ymid[k] = 0.5 * (y[i][k] + y[i+1][k])
		}
		if err := p.RHS(xm, ymid, dy); err != nil {
			return err
		}
		// df/dy at the midpoint, one column per perturbed component
		for c := 0; c < m; c++ {
			eps := 1e-6 * (1 + math.Abs(ymid[c]))
			save := ymid[c]
			ymid[c] += eps
			if err := p.RHS(xm, ymid, dyp); err != nil {
				ymid[c] = save
				return err
			}
			ymid[c] = save
			for r := 0; r < m; r++ {
				d := (dyp[r] - dy[r]) / eps
				row := i*m + r
				// d residual / d y[i][c] and / d y[i+1][c]
				jac.Set(row, i*m+c, jac.At(row, i*m+c)-0.5*h*d)
				jac.Set(row, (i+1)*m+c, jac.At(row, (i+1)*m+c)-0.5*h*d)
			}
		}
		for r := 0; r < m; r++ {
			row := i*m + r
			jac.Set(row, i*m+r, jac.At(row, i*m+r)-1)
			jac.Set(row, (i+1)*m+r, jac.At(row, (i+1)*m+r)+1)
		}
	}

	// boundary rows
	bc := make([]float64, m)
	bcp := make([]float64, m)
	if err := p.BC(y[0], y[n-1], bc); err != nil {
		return err
	}
	ya := append([]float64(nil), y[0]...)
	yb := append([]float64(nil), y[n-1]...)
	for c := 0; c < m; c++ {
		eps := 1e-6 * (1 + math.Abs(ya[c]))
		ya[c] += eps
		if err := p.BC(ya, yb, bcp); err != nil {
			return err
		}
		ya[c] -= eps
		for r := 0; r < m; r++ {
			jac.Set((n-1)*m+r, c, (bcp[r]-bc[r])/eps)
		}

		eps = 1e-6 * (1 + math.Abs(yb[c]))
		yb[c] += eps
		if err := p.BC(ya, yb, bcp); err != nil {
			return err
		}
		yb[c] -= eps
		for r := 0; r < m; r++ {
			jac.Set((n-1)*m+r, (n-1)*m+c, (bcp[r]-bc[r])/eps)
		}
	}
	return nil
}

// intervalResiduals estimates the discretization error of each interval by
// comparing the midpoint increment against a Simpson increment whose center
// slope is taken on the cubic Hermite interpolant of the solution. Comparing
// the two quadratures directly cancels any leftover algebraic residual, and
// the Hermite correction keeps the estimate nonzero on systems whose RHS is
// linear in y. It returns the largest normalized estimate and the intervals
// above tol.
func intervalResiduals(p Problem, x []float64, y [][]float64, tol float64) (float64, []int) {
	n := len(x)
	m := p.M
	fa := make([]float64, m)
	fb := make([]float64, m)
	fc := make([]float64, m) // slope at the endpoint average
	fh := make([]float64, m) // slope at the Hermite midpoint
	ymid := make([]float64, m)

	var worst float64
	var flagged []int
	for i := 0; i < n-1; i++ {
		h := x[i+1] - x[i]
		xm := 0.5 * (x[i] + x[i+1])
		for k := 0; k < m; k++ {
			ymid[k] = 0.5 * (y[i][k] + y[i+1][k])
		}
		errA := p.RHS(x[i], y[i], fa)
		errB := p.RHS(x[i+1], y[i+1], fb)
		errC := p.RHS(xm, ymid, fc)
		var errH error
		if errA == nil && errB == nil && errC == nil {
			for k := 0; k < m; k++ {
				ymid[k] -= h / 8 * (fb[k] - fa[k])
			}
			errH = p.RHS(xm, ymid, fh)
		}
		if errA != nil || errB != nil || errC != nil || errH != nil {
			// unresolvable states force a refinement attempt
			flagged = append(flagged, i)
			worst = math.Inf(1)
			continue
		}
		var r float64
		for k := 0; k < m; k++ {
			diff := math.Abs(fc[k]-(fa[k]+4*fh[k]+fb[k])/6) / (1 + math.Abs(fc[k]))
			if diff > r {
				r = diff
			}
		}
		if r > worst {
			worst = r
		}
		if r > tol {
			flagged = append(flagged, i)
		}
	}
	return worst, flagged
}

func residualNorm(p Problem, x []float64, y [][]float64) float64 {
	dim := len(x) * p.M
	f := make([]float64, dim)
	rs := make([]float64, dim)
	if err := evalF(p, x, y, f, rs); err != nil {
		return math.Inf(1)
	}
	return weightedNorm(f, rs)
}
