package props

import (
	"math"
)

// RealFluid resolves states against the built-in fluid table: an
// incompressible model for liquid-side fluids and the Lee-Kesler
// corresponding-states model for gases and vapors.
type RealFluid struct{}

func NewRealFluid() *RealFluid { return &RealFluid{} }

// Properties resolves fluid (optionally "A * B" with a composition) at the
// given state. Compositions for pure fluids may be nil.
func (b *RealFluid) Properties(fluid string, spec StateSpec) (PropertyVector, error) {
	return b.PropertiesX(fluid, nil, spec)
}

// PropertiesX is Properties with an explicit mixture composition.
func (b *RealFluid) PropertiesX(fluid string, composition []float64, spec StateSpec) (PropertyVector, error) {
	f, ok := lookupFluid(fluid, composition)
	if !ok {
		return PropertyVector{}, &LookupError{Fluid: fluid, Spec: spec, Reason: "unknown fluid or bad composition"}
	}
	if spec.P <= 0 {
		return PropertyVector{}, &LookupError{Fluid: fluid, Spec: spec, Reason: "non-positive pressure"}
	}

	t, err := b.temperature(&f, fluid, spec)
	if err != nil {
		return PropertyVector{}, err
	}

	switch f.model {
	case modelLiquid:
		return b.liquidState(&f, fluid, spec, t)
	default:
		return b.gasState(&f, fluid, spec, t)
	}
}

// temperature recovers T from the state spec, inverting h or s where needed.
func (b *RealFluid) temperature(f *Fluid, name string, spec StateSpec) (float64, error) {
	switch spec.Kind {
	case SpecPT:
		return spec.Value, nil
	case SpecPH:
		if f.model == modelLiquid {
			// analytic inverse of h = cp (T - Tref)
			return tRef + spec.Value/f.LiqCp, nil
		}
		return b.invert(f, name, spec, func(t float64) (float64, error) {
			h, _, err := b.gasCaloric(f, spec.P, t)
			return h - spec.Value, err
		})
	case SpecPS:
		if f.model == modelLiquid {
			return tRef * math.Exp(spec.Value/f.LiqCp), nil
		}
		return b.invert(f, name, spec, func(t float64) (float64, error) {
			_, s, err := b.gasCaloric(f, spec.P, t)
			return s - spec.Value, err
		})
	}
	return 0, &LookupError{Fluid: name, Spec: spec, Reason: "unsupported state spec"}
}

// invert solves g(T)=0 by damped Newton with a numerical derivative, seeded
// slightly above the saturation line.
func (b *RealFluid) invert(f *Fluid, name string, spec StateSpec, g func(float64) (float64, error)) (float64, error) {
	t := f.Tboil * 1.2
	if spec.P < f.Pc {
		t = f.tsat(spec.P) + 10
	}
	const maxIter = 100
	for i := 0; i < maxIter; i++ {
		v, err := g(t)
		if err != nil {
			return 0, err
		}
		if math.Abs(v) < 1e-6*(1+math.Abs(spec.Value)) {
			return t, nil
		}
		dt := 1e-3 * t
		v2, err := g(t + dt)
		if err != nil {
			return 0, err
		}
		d := (v2 - v) / dt
		if d == 0 || math.IsNaN(d) {
			break
		}
		step := v / d
		if math.Abs(step) > 0.5*t {
			step = math.Copysign(0.5*t, step)
		}
		t -= step
		if t < 1 {
			t = 1
		}
	}
	return 0, &LookupError{Fluid: name, Spec: spec, Reason: "temperature inversion did not converge"}
}

func (b *RealFluid) liquidState(f *Fluid, name string, spec StateSpec, t float64) (PropertyVector, error) {
	if t <= 0 {
		return PropertyVector{}, &LookupError{Fluid: name, Spec: spec, Reason: "non-positive temperature"}
	}
	if spec.P < f.Pc && t >= f.tsat(spec.P) {
		return PropertyVector{}, &LookupError{Fluid: name, Spec: spec, Reason: "state above saturation, not subcooled liquid"}
	}
	rho := f.LiqRho0 * (1 - f.LiqBeta*(t-293.15))
	if rho <= 0 {
		return PropertyVector{}, &LookupError{Fluid: name, Spec: spec, Reason: "temperature outside liquid density range"}
	}
	mu := f.LiqMu0 * math.Exp(f.LiqMuB*(1/t-1/300.0))
	pv := PropertyVector{
		T:      t,
		P:      spec.P,
		X:      0,
		H:      f.LiqCp * (t - tRef),
		S:      f.LiqCp * math.Log(t/tRef),
		Rho:    rho,
		Mu:     mu,
		Cp:     f.LiqCp,
		Lambda: f.LiqLambda,
		Phase:  PhaseLiquid,
	}
	pv.Prandtl = pv.Cp * pv.Mu / pv.Lambda
	return pv, nil
}

// gasCaloric evaluates h and s of a Lee-Kesler fluid at (p, T).
func (b *RealFluid) gasCaloric(f *Fluid, p, t float64) (h, s float64, err error) {
	tr := t / f.Tc
	pr := p / f.Pc
	w := acentricFactor(f.Tboil, f.Tc, f.Pc)
	res, e := leeKesler(tr, pr, w)
	if e != nil {
		return 0, 0, e
	}
	rs := rGas / f.M // specific gas constant
	hIG := f.CpA*(t-tRef) + f.CpB/2*(t*t-tRef*tRef)
	sIG := f.CpA*math.Log(t/tRef) + f.CpB*(t-tRef) - rs*math.Log(p/pRef)
	h = hIG + rs*f.Tc*res.Hr
	s = sIG + rs*res.Sr
	return h, s, nil
}

func (b *RealFluid) gasState(f *Fluid, name string, spec StateSpec, t float64) (PropertyVector, error) {
	if t <= 0 {
		return PropertyVector{}, &LookupError{Fluid: name, Spec: spec, Reason: "non-positive temperature"}
	}
	tr := t / f.Tc
	pr := spec.P / f.Pc
	if tr < 0.3 || pr > 10 {
		return PropertyVector{}, &LookupError{Fluid: name, Spec: spec, Reason: "outside lee-kesler validity region"}
	}
	if spec.P < f.Pc && t <= f.tsat(spec.P) {
		return PropertyVector{}, &LookupError{Fluid: name, Spec: spec, Reason: "state below saturation, not superheated vapor"}
	}

	w := acentricFactor(f.Tboil, f.Tc, f.Pc)
	res, err := leeKesler(tr, pr, w)
	if err != nil {
		return PropertyVector{}, &LookupError{Fluid: name, Spec: spec, Reason: err.Error()}
	}
	h, s, err := b.gasCaloric(f, spec.P, t)
	if err != nil {
		return PropertyVector{}, &LookupError{Fluid: name, Spec: spec, Reason: err.Error()}
	}

	phase := PhaseGas
	if spec.P >= f.Pc && t >= f.Tc {
		phase = PhaseSupercritical
	}
	rs := rGas / f.M
	pv := PropertyVector{
		T:      t,
		P:      spec.P,
		X:      1,
		H:      h,
		S:      s,
		Rho:    spec.P / (res.Z * rs * t),
		Mu:     f.Mu0 * math.Pow(t/300.0, 0.7),
		Cp:     f.CpA + f.CpB*t,
		Lambda: f.Lambda0 * math.Pow(t/300.0, 0.8),
		Phase:  phase,
	}
	pv.Prandtl = pv.Cp * pv.Mu / pv.Lambda
	return pv, nil
}
