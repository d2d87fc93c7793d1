package exchanger

import (
	"errors"
	"testing"

	"hexcalc/props"
)

func TestRunSweep(t *testing.T) {
	fast := waterInput()
	fast.CalcType = CalcConst
	fast.U = 500
	fast.Solver.Points = 21

	var broken STHeatExchangerInput

	cases := []SweepCase{
		{Name: "base", Input: fast},
		{Name: "broken", Input: &broken},
	}
	results := RunSweep(cases, func() props.MixtureBackend {
		return props.NewRealFluid()
	}, 2)

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Name != "base" || results[1].Name != "broken" {
		t.Fatalf("case order not kept: %s, %s", results[0].Name, results[1].Name)
	}
	if results[0].Err != nil {
		t.Fatalf("base case failed: %v", results[0].Err)
	}
	if results[0].Duty <= 0 || results[0].Profile == nil {
		t.Errorf("base case has no solution: duty %g", results[0].Duty)
	}
	var ve *ValidationError
	if !errors.As(results[1].Err, &ve) {
		t.Errorf("broken case: want *ValidationError, got %v", results[1].Err)
	}
	if results[1].Profile != nil {
		t.Error("broken case carries a profile")
	}
}
