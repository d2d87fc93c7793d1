package exchanger

import (
	"fmt"
	"math"

	"hexcalc/model"
)

// CalcType selects how heat-transfer coefficients are obtained.
const (
	CalcConst = "const" // fixed overall U along the exchanger
	CalcLocal = "calc"  // from local Nusselt correlations
)

// STHeatExchangerInput is the validated parameter bundle of one shell-and-
// tube exchanger: two streams, geometry, coefficient mode and solver bounds.
// It is built from a configuration document, read-only afterwards, and
// discarded once the models are constructed. Index 0 is the hot (tube-side)
// stream, index 1 the cold (shell-side) stream.
type STHeatExchangerInput struct {
	Name     string               `yaml:"name"`
	Hot      model.Stream         `yaml:"hot"`
	Cold     model.Stream         `yaml:"cold"`
	Geometry model.Geometry       `yaml:"geometry"`
	CalcType string               `yaml:"calc_type"`
	U        float64              `yaml:"u"` // W/(m2 K), used with CalcConst
	Effect   float64              `yaml:"effectiveness"`
	Solver   model.SolverSettings `yaml:"solver"`
}

// Validate aggregates every invalid field into a single *ValidationError.
func (in *STHeatExchangerInput) Validate() error {
	var bad []string
	add := func(format string, args ...interface{}) {
		bad = append(bad, fmt.Sprintf(format, args...))
	}

	if in.Name == "" {
		add("name: missing")
	}
	checkStream := func(label string, st *model.Stream) {
		if st.Fluid == "" {
			add("%s.fluid: missing", label)
		}
		if st.MassFlow <= 0 || math.IsNaN(st.MassFlow) {
			add("%s.mass_flow: must be > 0, got %g", label, st.MassFlow)
		}
		if st.PIn <= 0 {
			add("%s.p_in: must be > 0 Pa, got %g", label, st.PIn)
		}
		if st.TIn <= 0 && st.HIn == 0 {
			add("%s: neither t_in nor h_in given", label)
		}
		if st.Direction != model.CounterCurrent {
			add("%s.direction: only counter-current operation is supported", label)
		}
		if len(st.Composition) > 0 {
			sum := 0.0
			for _, x := range st.Composition {
				sum += x
			}
			if math.Abs(sum-1) > 1e-6 {
				add("%s.composition: fractions sum to %g, want 1", label, sum)
			}
		}
	}
	checkStream("hot", &in.Hot)
	checkStream("cold", &in.Cold)

	if in.Geometry.Length <= 0 {
		add("geometry.length: must be > 0 m, got %g", in.Geometry.Length)
	}
	if in.Geometry.Tubes < 1 {
		add("geometry.tubes: must be >= 1, got %d", in.Geometry.Tubes)
	}
	if in.Geometry.TubeDiameter <= 0 {
		add("geometry.d_tube: must be > 0 m, got %g", in.Geometry.TubeDiameter)
	}
	if in.Geometry.ShellDiameter <= 0 {
		add("geometry.d_shell: must be > 0 m, got %g", in.Geometry.ShellDiameter)
	} else if in.Geometry.TubeDiameter > 0 {
		// all tubes must fit into the shell cross-section
		aTubes := float64(in.Geometry.Tubes) * in.Geometry.TubeDiameter * in.Geometry.TubeDiameter
		if aTubes >= in.Geometry.ShellDiameter*in.Geometry.ShellDiameter {
			add("geometry: %d tubes of d=%g m do not fit a %g m shell",
				in.Geometry.Tubes, in.Geometry.TubeDiameter, in.Geometry.ShellDiameter)
		}
	}

	switch in.CalcType {
	case "", CalcConst, CalcLocal:
	default:
		add("calc_type: unknown value %q", in.CalcType)
	}
	if in.CalcType == CalcConst && in.U <= 0 {
		add("u: must be > 0 W/(m2 K) with calc_type=const, got %g", in.U)
	}
	if in.Effect < 0 || in.Effect > 1 {
		add("effectiveness: must be in [0,1], got %g", in.Effect)
	}
	if in.Solver.Tolerance < 0 {
		add("solver.tolerance: must be >= 0, got %g", in.Solver.Tolerance)
	}
	if in.Solver.MaxNodes < 0 {
		add("solver.max_nodes: must be >= 0, got %d", in.Solver.MaxNodes)
	}
	if in.Solver.Points < 0 {
		add("solver.points: must be >= 0, got %d", in.Solver.Points)
	}

	if len(bad) > 0 {
		return &ValidationError{Fields: bad}
	}
	return nil
}
