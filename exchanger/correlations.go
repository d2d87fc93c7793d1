package exchanger

import "math"

// Correlation is the pluggable single-phase heat-transfer and friction
// strategy evaluated at local Reynolds and Prandtl numbers.
type Correlation interface {
	Nusselt(re, pr float64) float64
	Friction(re float64) float64 // Darcy friction factor
}

// Gnielinski covers transitional and turbulent tube flow with the Petukhov
// friction factor; below Re = 2300 it falls back to the constant laminar
// Nusselt number for constant wall temperature.
type Gnielinski struct{}

func (Gnielinski) Friction(re float64) float64 {
	if re < 2300 {
		if re < 1 {
			re = 1
		}
		return 64 / re
	}
	f := 0.79*math.Log(re) - 1.64
	return 1 / (f * f)
}

func (g Gnielinski) Nusselt(re, pr float64) float64 {
	if re < 2300 {
		return 3.66
	}
	f8 := g.Friction(re) / 8
	return f8 * (re - 1000) * pr / (1 + 12.7*math.Sqrt(f8)*(math.Pow(pr, 2.0/3.0)-1))
}

// DittusBoelter is the classic 0.023 Re^0.8 Pr^n correlation; n depends on
// whether the stream is being heated or cooled.
type DittusBoelter struct {
	Heating bool
}

func (DittusBoelter) Friction(re float64) float64 {
	if re < 2300 {
		if re < 1 {
			re = 1
		}
		return 64 / re
	}
	return 0.184 * math.Pow(re, -0.2)
}

func (d DittusBoelter) Nusselt(re, pr float64) float64 {
	if re < 2300 {
		return 3.66
	}
	n := 0.3
	if d.Heating {
		n = 0.4
	}
	return 0.023 * math.Pow(re, 0.8) * math.Pow(pr, n)
}
