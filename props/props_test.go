package props

import (
	"errors"
	"math"
	"testing"
)

func TestWaterLiquidState(t *testing.T) {
	b := NewRealFluid()
	pv, err := b.Properties("Water", PT(5e5, 293.15))
	if err != nil {
		t.Fatal(err)
	}
	if pv.Phase != PhaseLiquid {
		t.Errorf("phase = %v, want liquid", pv.Phase)
	}
	if math.Abs(pv.H-(-20930)) > 1 {
		t.Errorf("h = %g, want about -20930", pv.H)
	}
	if math.Abs(pv.Rho-998) > 2 {
		t.Errorf("rho = %g, want about 998", pv.Rho)
	}
	if pv.Prandtl < 1 || pv.Prandtl > 20 {
		t.Errorf("prandtl = %g out of liquid water range", pv.Prandtl)
	}
}

func TestWaterEnthalpyRoundtrip(t *testing.T) {
	b := NewRealFluid()
	ref, err := b.Properties("Water", PT(5e5, 350))
	if err != nil {
		t.Fatal(err)
	}
	back, err := b.Properties("Water", PH(5e5, ref.H))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(back.T-350) > 1e-9 {
		t.Errorf("recovered T = %g, want 350", back.T)
	}
}

func TestWaterEntropyRoundtrip(t *testing.T) {
	b := NewRealFluid()
	ref, err := b.Properties("Water", PT(5e5, 350))
	if err != nil {
		t.Fatal(err)
	}
	back, err := b.Properties("Water", PS(5e5, ref.S))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(back.T-350) > 1e-9 {
		t.Errorf("recovered T = %g, want 350", back.T)
	}
}

func TestWaterSaturationGuard(t *testing.T) {
	b := NewRealFluid()
	_, err := b.Properties("Water", PT(5e5, 430))
	var le *LookupError
	if !errors.As(err, &le) {
		t.Fatalf("want *LookupError, got %v", err)
	}
}

func TestPropaneGasState(t *testing.T) {
	b := NewRealFluid()
	pv, err := b.Properties("Propane", PT(1e5, 300))
	if err != nil {
		t.Fatal(err)
	}
	if pv.Phase != PhaseGas {
		t.Errorf("phase = %v, want gas", pv.Phase)
	}
	rs := rGas / 0.04410
	z := pv.P / (pv.Rho * rs * pv.T)
	if z <= 0.9 || z >= 1.0 {
		t.Errorf("compressibility %g, want slightly below 1", z)
	}
	if pv.Prandtl < 0.3 || pv.Prandtl > 2 {
		t.Errorf("prandtl = %g out of gas range", pv.Prandtl)
	}
}

func TestPropaneInversionRoundtrip(t *testing.T) {
	b := NewRealFluid()
	ref, err := b.Properties("Propane", PT(1e5, 300))
	if err != nil {
		t.Fatal(err)
	}
	back, err := b.Properties("Propane", PH(1e5, ref.H))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(back.T-300) > 0.05 {
		t.Errorf("recovered T = %g, want 300", back.T)
	}
}

func TestPropaneSubcooledGuard(t *testing.T) {
	b := NewRealFluid()
	_, err := b.Properties("Propane", PT(10e5, 290))
	var le *LookupError
	if !errors.As(err, &le) {
		t.Fatalf("want *LookupError, got %v", err)
	}
}

func TestMixtureLookup(t *testing.T) {
	b := NewRealFluid()
	pv, err := b.PropertiesX("Propane * Pentane", []float64{0.6, 0.4}, PT(1e5, 350))
	if err != nil {
		t.Fatal(err)
	}
	if pv.Phase != PhaseGas {
		t.Errorf("phase = %v, want gas", pv.Phase)
	}

	if _, err := b.PropertiesX("Propane * Pentane", []float64{1}, PT(1e5, 350)); err == nil {
		t.Error("composition length mismatch accepted")
	}
	// liquid-model components cannot be mixed
	if _, err := b.PropertiesX("Water * Propane", []float64{0.5, 0.5}, PT(1e5, 350)); err == nil {
		t.Error("liquid component mixture accepted")
	}
}

func TestUnknownFluid(t *testing.T) {
	b := NewRealFluid()
	_, err := b.Properties("Unobtainium", PT(1e5, 300))
	var le *LookupError
	if !errors.As(err, &le) {
		t.Fatalf("want *LookupError, got %v", err)
	}
}

func TestCacheStats(t *testing.T) {
	c := NewCache(NewRealFluid())
	spec := PT(5e5, 320)
	if _, err := c.Properties("Water", spec); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Properties("Water", spec); err != nil {
		t.Fatal(err)
	}
	// failed lookups are cached too
	bad := PT(5e5, 430)
	if _, err := c.Properties("Water", bad); err == nil {
		t.Fatal("saturated state resolved")
	}
	if _, err := c.Properties("Water", bad); err == nil {
		t.Fatal("saturated state resolved from cache")
	}
	hits, misses := c.Stats()
	if hits != 2 || misses != 2 {
		t.Errorf("stats = (%d, %d), want (2, 2)", hits, misses)
	}
}
