package exchanger

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"hexcalc/bvp"
	"hexcalc/props"
)

func TestCounterflowSolveWaterWater(t *testing.T) {
	in := waterInput()
	backend := props.NewRealFluid()
	m := NewCounterflowModel(in, backend)
	p, err := m.Solve()
	if err != nil {
		t.Fatal(err)
	}
	if p.Duty <= 0 {
		t.Fatalf("duty = %g, want > 0", p.Duty)
	}
	if len(p.Samples) < in.Solver.Points {
		t.Fatalf("profile has %d samples, want at least %d", len(p.Samples), in.Solver.Points)
	}

	first := p.Samples[0]
	last := p.Samples[len(p.Samples)-1]
	if math.Abs(first.THot-423.15) > 1e-3 {
		t.Errorf("hot inlet pinned at %g K, want 423.15", first.THot)
	}
	if math.Abs(last.TCold-293.15) > 1e-3 {
		t.Errorf("cold inlet pinned at %g K, want 293.15", last.TCold)
	}

	prevX := math.Inf(-1)
	for _, s := range p.Samples {
		if s.X <= prevX {
			t.Fatalf("mesh not ascending at x = %g", s.X)
		}
		prevX = s.X
		if s.THot < 293.15 || s.THot > 423.15+1e-3 {
			t.Errorf("hot temperature %g K at x=%g outside inlet band", s.THot, s.X)
		}
		if s.TCold < 293.15-1e-3 || s.TCold > 423.15 {
			t.Errorf("cold temperature %g K at x=%g outside inlet band", s.TCold, s.X)
		}
		if s.THot < s.TCold-1e-3 {
			t.Errorf("temperature cross at x=%g: %g K < %g K", s.X, s.THot, s.TCold)
		}
		if s.QFlux < 0 {
			t.Errorf("heat flows cold to hot at x=%g", s.X)
		}
	}

	// both streams see the same heat flow through the wall
	dutyCold := in.Cold.MassFlow * (first.HCold - last.HCold)
	if !scalar.EqualWithinAbsOrRel(p.Duty, dutyCold, 10, 1e-5) {
		t.Errorf("hot duty %g W, cold duty %g W", p.Duty, dutyCold)
	}

	// the resolved duty cannot beat the lumped maximum
	qMax, _, err := NewSimpleModel(in, backend).QMax()
	if err != nil {
		t.Fatal(err)
	}
	if p.Duty > qMax {
		t.Errorf("duty %g W above qMax %g W", p.Duty, qMax)
	}

	// friction: each stream loses pressure along its own flow direction
	if last.PHot >= 10e5 {
		t.Errorf("no tube-side pressure drop: %g Pa", last.PHot)
	}
	if first.PCold >= 5e5 {
		t.Errorf("no shell-side pressure drop: %g Pa", first.PCold)
	}
}

func TestCounterflowDeterministic(t *testing.T) {
	in := waterInput()
	backend := props.NewRealFluid()
	p1, err := NewCounterflowModel(in, backend).Solve()
	if err != nil {
		t.Fatal(err)
	}
	p2, err := NewCounterflowModel(in, backend).Solve()
	if err != nil {
		t.Fatal(err)
	}
	if len(p1.Samples) != len(p2.Samples) {
		t.Fatalf("sample counts differ: %d vs %d", len(p1.Samples), len(p2.Samples))
	}
	if !scalar.EqualWithinAbsOrRel(p1.Duty, p2.Duty, 1e-8, 1e-8) {
		t.Errorf("duties differ: %g vs %g", p1.Duty, p2.Duty)
	}
}

// with a fixed coefficient the duty depends on total transfer area only, not
// on how it is split over tubes
func TestCounterflowConstUTubeSplit(t *testing.T) {
	backend := props.NewRealFluid()

	in10 := waterInput()
	in10.CalcType = CalcConst
	in10.U = 500
	p10, err := NewCounterflowModel(in10, backend).Solve()
	if err != nil {
		t.Fatal(err)
	}

	in1 := waterInput()
	in1.CalcType = CalcConst
	in1.U = 500
	in1.Geometry.Tubes = 1
	in1.Geometry.TubeDiameter = 0.2 // same perimeter as 10 x 0.02
	in1.Geometry.ShellDiameter = 0.3
	p1, err := NewCounterflowModel(in1, backend).Solve()
	if err != nil {
		t.Fatal(err)
	}

	if !scalar.EqualWithinAbsOrRel(p10.Duty, p1.Duty, 10, 1e-3) {
		t.Errorf("duties differ under fixed U: %g vs %g", p10.Duty, p1.Duty)
	}
}

// with local correlations the split matters: many small tubes transfer
// better than one large one of the same total perimeter
func TestCounterflowLocalCoefficientTubeSplit(t *testing.T) {
	backend := props.NewRealFluid()

	p10, err := NewCounterflowModel(waterInput(), backend).Solve()
	if err != nil {
		t.Fatal(err)
	}

	in1 := waterInput()
	in1.Geometry.Tubes = 1
	in1.Geometry.TubeDiameter = 0.2
	in1.Geometry.ShellDiameter = 0.3
	p1, err := NewCounterflowModel(in1, backend).Solve()
	if err != nil {
		t.Fatal(err)
	}

	if p10.Duty <= p1.Duty {
		t.Errorf("duty with 10 tubes %g W not above single tube %g W", p10.Duty, p1.Duty)
	}
}

func TestCounterflowMinFlowGuard(t *testing.T) {
	in := waterInput()
	in.Cold.MassFlow = 1e-12
	_, err := NewCounterflowModel(in, props.NewRealFluid()).Solve()
	var cfg *ConfigurationError
	if !errors.As(err, &cfg) {
		t.Fatalf("want *ConfigurationError, got %v", err)
	}
}

// a converged mesh whose states put the cold stream above the hot one must
// be rejected, never returned
func TestCounterflowRejectsTemperatureCross(t *testing.T) {
	in := waterInput()
	backend := props.NewRealFluid()
	m := NewCounterflowModel(in, backend)
	if err := m.Configure(); err != nil {
		t.Fatal(err)
	}

	hCool := 4186 * (300 - 298.15) // 300 K water
	hWarm := 4186 * (400 - 298.15) // 400 K water
	res := &bvp.Result{
		X: []float64{0, 5},
		Y: [][]float64{
			{hCool, 10e5, hWarm, 5e5},
			{hCool, 10e5, hWarm, 5e5},
		},
	}
	_, err := m.assemble(props.NewCache(backend), res)
	var cross *ThermodynamicViolationError
	if !errors.As(err, &cross) {
		t.Fatalf("want *ThermodynamicViolationError, got %v", err)
	}
}

func TestCounterflowEntropyProduction(t *testing.T) {
	m := NewCounterflowModel(waterInput(), props.NewRealFluid())
	ds, err := m.EntropyProduction()
	if err != nil {
		t.Fatal(err)
	}
	if ds <= 0 {
		t.Errorf("entropy production %g W/K, want > 0 for finite temperature differences", ds)
	}
}

func TestCounterflowExergyEntering(t *testing.T) {
	m := NewCounterflowModel(waterInput(), props.NewRealFluid())
	ex, err := m.ExergyEntering(298.15)
	if err != nil {
		t.Fatal(err)
	}
	if math.IsNaN(ex) || math.IsInf(ex, 0) {
		t.Errorf("exergy entering = %g", ex)
	}
}
