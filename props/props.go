package props

import "fmt"

// Fluid properties in SI units (K, Pa, J/kg, J/(kg K), kg/m3, Pa s, W/(m K)).
// The field order follows the layout of the property vector used throughout:
// temperature, p, x, h, s, rho, mu, cp, lambda, phase, prandtl.

type Phase int

const (
	PhaseLiquid Phase = iota
	PhaseGas
	PhaseSupercritical
)

func (p Phase) String() string {
	switch p {
	case PhaseLiquid:
		return "liquid"
	case PhaseGas:
		return "gas"
	case PhaseSupercritical:
		return "supercritical"
	}
	return "unknown"
}

type PropertyVector struct {
	T       float64 `json:"t"`
	P       float64 `json:"p"`
	X       float64 `json:"x"` // vapor quality: 0 liquid, 1 gas
	H       float64 `json:"h"`
	S       float64 `json:"s"`
	Rho     float64 `json:"rho"`
	Mu      float64 `json:"mu"`
	Cp      float64 `json:"cp"`
	Lambda  float64 `json:"lambda"`
	Phase   Phase   `json:"phase"`
	Prandtl float64 `json:"prandtl"`
}

type SpecKind int

const (
	SpecPH SpecKind = iota // pressure + specific enthalpy
	SpecPT                 // pressure + temperature
	SpecPS                 // pressure + specific entropy
)

func (k SpecKind) String() string {
	switch k {
	case SpecPH:
		return "ph"
	case SpecPT:
		return "pt"
	case SpecPS:
		return "ps"
	}
	return "unknown"
}

// StateSpec selects a thermodynamic state by pressure and one caloric or
// thermal variable.
type StateSpec struct {
	Kind  SpecKind
	P     float64
	Value float64
}

func PH(p, h float64) StateSpec { return StateSpec{Kind: SpecPH, P: p, Value: h} }
func PT(p, t float64) StateSpec { return StateSpec{Kind: SpecPT, P: p, Value: t} }
func PS(p, s float64) StateSpec { return StateSpec{Kind: SpecPS, P: p, Value: s} }

// Backend resolves a state to a full property vector. Implementations must be
// deterministic and side-effect free for a given (fluid, spec) pair.
type Backend interface {
	Properties(fluid string, spec StateSpec) (PropertyVector, error)
}

// LookupError reports a state the backend cannot resolve: outside the
// validity region, inside the two-phase dome, or an unknown fluid. Callers
// iterating over trial states treat it as recoverable.
type LookupError struct {
	Fluid  string
	Spec   StateSpec
	Reason string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("property lookup failed for %s at %s(p=%.6g, v=%.6g): %s",
		e.Fluid, e.Spec.Kind, e.Spec.P, e.Spec.Value, e.Reason)
}
