package props

import (
	"errors"
	"math"
)

// Lee-Kesler corresponding-states model. Coefficients from R. Sonntag,
// C. Borgnakke and G. J. Wylen, Fundamentals of Classical Thermodynamics,
// 5th Ed. John Wiley & Sons, 1998.
const (
	wr = 0.3978
	// s denotes simple molecules (methane)
	a1s    = 0.1181193
	a2s    = 0.265728
	a3s    = 0.154790
	a4s    = 0.030323
	b1s    = 0.0236744
	b2s    = 0.0186984
	b3s    = 0.0
	b4s    = 0.042724
	c1s    = 0.155488e-4
	c2s    = 0.623689e-4
	betas  = 0.65392
	gammas = 0.060167
	// r denotes reference molecules (n-octane)
	a1r    = 0.2026579
	a2r    = 0.331511
	a3r    = 0.027655
	a4r    = 0.203488
	b1r    = 0.0313885
	b2r    = 0.0503618
	b3r    = 0.016901
	b4r    = 0.041577
	c1r    = 0.48736e-4
	c2r    = 0.740336e-5
	betar  = 1.226
	gammar = 0.03754
)

// residual holds the dimensionless departure functions at one reduced state.
type residual struct {
	Z  float64 // compressibility factor
	Hr float64 // (h - h_ig)/(R Tc), negative for attractive states
	Sr float64 // (s - s_ig)/R, negative for attractive states
}

var errNoRoot = errors.New("lee-kesler: volume iteration did not converge")

// leeKesler evaluates the departure functions at (Tr, Pr) for acentric
// factor w, interpolating between the simple and the reference fluid.
func leeKesler(tr, pr, w float64) (residual, error) {
	var res residual

	as := a1s - a2s/tr - a3s/(tr*tr) - a4s/math.Pow(tr, 3)
	bs := b1s - b2s/tr + b3s/math.Pow(tr, 3)
	cs := c1s + c2s/tr
	eosSimple := func(vr float64) float64 {
		return (tr/vr)*(1+(as/vr)+bs/(vr*vr)+cs/math.Pow(vr, 5)+
			(b4s/(math.Pow(tr, 3)*vr*vr))*(betas+gammas/(vr*vr))*math.Exp(-gammas/(vr*vr))) - pr
	}

	ar := a1r - a2r/tr - a3r/(tr*tr) - a4r/math.Pow(tr, 3)
	br := b1r - b2r/tr + b3r/math.Pow(tr, 3)
	cr := c1r + c2r/tr
	eosRef := func(vr float64) float64 {
		return (tr/vr)*(1+(ar/vr)+br/(vr*vr)+cr/math.Pow(vr, 5)+
			(b4r/(math.Pow(tr, 3)*vr*vr))*(betar+gammar/(vr*vr))*math.Exp(-gammar/(vr*vr))) - pr
	}

	// gas root, seeded from the ideal-gas reduced volume
	vGuess := tr / pr
	vrs, err := rootfind(eosSimple, vGuess, 1e-8)
	if err != nil {
		return res, err
	}
	vrr, err := rootfind(eosRef, vGuess, 1e-8)
	if err != nil {
		return res, err
	}

	z0 := pr * vrs / tr
	zRef := pr * vrr / tr
	res.Z = z0 + w*(zRef-z0)/wr

	ds := b4s / (2 * math.Pow(tr, 3) * gammas) *
		(betas + 1 - (betas+1+gammas/(vrs*vrs))*math.Exp(-gammas/(vrs*vrs)))
	dr := b4r / (2 * math.Pow(tr, 3) * gammar) *
		(betar + 1 - (betar+1+gammar/(vrr*vrr))*math.Exp(-gammar/(vrr*vrr)))

	hs := tr * (z0 - 1 -
		(a2s+(2*a3s/tr)+3*a4s/(tr*tr))/(tr*vrs) -
		(b2s-3*b3s/(tr*tr))/(2*tr*vrs*vrs) +
		c2s/(5*tr*math.Pow(vrs, 5)) +
		3*ds)
	hr := tr * (zRef - 1 -
		(a2r+(2*a3r/tr)+3*a4r/(tr*tr))/(tr*vrr) -
		(b2r-3*b3r/(tr*tr))/(2*tr*vrr*vrr) +
		c2r/(5*tr*math.Pow(vrr, 5)) +
		3*dr)
	res.Hr = hs + w*(hr-hs)/wr

	ss := math.Log(z0) -
		(a1s+a3s/(tr*tr)+2*a4s/math.Pow(tr, 3))/vrs -
		(b1s-2*b3s/math.Pow(tr, 3))/(2*vrs*vrs) -
		c1s/(5*math.Pow(vrs, 5)) +
		2*ds
	sr := math.Log(zRef) -
		(a1r+a3r/(tr*tr)+2*a4r/math.Pow(tr, 3))/vrr -
		(b1r-2*b3r/math.Pow(tr, 3))/(2*vrr*vrr) -
		c1r/(5*math.Pow(vrr, 5)) +
		2*dr
	res.Sr = ss + w*(sr-ss)/wr

	return res, nil
}

// rootfind is a Newton iteration with a pseudo-derivative.
func rootfind(f func(float64) float64, guess, tol float64) (float64, error) {
	const delta = 1e-6
	const maxIter = 200
	df := func(x float64) float64 {
		return (f(x+delta) - f(x)) / delta
	}
	x := guess
	for i := 0; i < maxIter; i++ {
		d := df(x)
		if d == 0 || math.IsNaN(d) {
			return 0, errNoRoot
		}
		step := f(x) / d
		// keep the iterate on the physical branch
		for x-step <= 0 {
			step /= 2
		}
		x -= step
		if math.Abs(f(x)) < tol {
			return x, nil
		}
	}
	return 0, errNoRoot
}
