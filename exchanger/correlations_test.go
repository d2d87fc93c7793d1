package exchanger

import (
	"math"
	"testing"
)

func TestGnielinskiLaminar(t *testing.T) {
	var g Gnielinski
	if nu := g.Nusselt(1000, 5); nu != 3.66 {
		t.Errorf("laminar Nu = %g, want 3.66", nu)
	}
	if f := g.Friction(1600); math.Abs(f-0.04) > 1e-12 {
		t.Errorf("laminar friction = %g, want 64/Re = 0.04", f)
	}
}

func TestGnielinskiTurbulent(t *testing.T) {
	var g Gnielinski
	nu := g.Nusselt(1e4, 1)
	if nu < 30 || nu > 40 {
		t.Errorf("Nu(1e4, 1) = %g, want about 35", nu)
	}
	if f4, f5 := g.Friction(1e4), g.Friction(1e5); f5 >= f4 {
		t.Errorf("friction not decreasing with Re: %g, %g", f4, f5)
	}
	if f := g.Friction(1e5); f < 0.01 || f > 0.03 {
		t.Errorf("friction(1e5) = %g outside smooth-pipe range", f)
	}
}

func TestDittusBoelter(t *testing.T) {
	heat := DittusBoelter{Heating: true}
	cool := DittusBoelter{}
	if nu := heat.Nusselt(2000, 5); nu != 3.66 {
		t.Errorf("laminar Nu = %g, want 3.66", nu)
	}
	nu := heat.Nusselt(1e4, 1)
	if nu < 30 || nu > 40 {
		t.Errorf("Nu(1e4, 1) = %g, want about 36", nu)
	}
	// the heating exponent weighs Prandtl more
	if heat.Nusselt(1e4, 3) <= cool.Nusselt(1e4, 3) {
		t.Error("heating Nu not above cooling Nu at Pr > 1")
	}
}
