package props

import (
	"math"
	"strings"
)

const (
	// universal gas constant
	rGas = 8.314 // J/(mol K)
	tRef = 298.15
	pRef = 1e5
)

type fluidModel int

const (
	modelLiquid fluidModel = iota
	modelLeeKesler
)

// Fluid carries the constants of one pure component: critical point, normal
// boiling point, ideal-gas heat capacity, Antoine saturation coefficients and
// transport references. Liquid-model fluids additionally carry the
// incompressible parameters.
type Fluid struct {
	Name  string
	M     float64 // molar mass, kg/mol
	Tc    float64 // K
	Pc    float64 // Pa
	Tboil float64 // normal boiling point, K

	// ideal-gas cp = CpA + CpB*T, J/(kg K)
	CpA, CpB float64

	// Antoine: log10(psat / bar) = AntA - AntB/(T + AntC)
	AntA, AntB, AntC float64

	// gas transport references at 300 K
	Mu0, Lambda0 float64

	// liquid model parameters
	LiqCp     float64 // J/(kg K)
	LiqRho0   float64 // kg/m3 at 293.15 K
	LiqBeta   float64 // volumetric expansion, 1/K
	LiqMu0    float64 // Pa s at 300 K
	LiqMuB    float64 // Andrade exponent, K
	LiqLambda float64 // W/(m K)

	model fluidModel
}

// psat by Antoine, in Pa.
func (f *Fluid) psat(t float64) float64 {
	return 1e5 * math.Pow(10, f.AntA-f.AntB/(t+f.AntC))
}

// tsat inverts Antoine, in K.
func (f *Fluid) tsat(p float64) float64 {
	return f.AntB/(f.AntA-math.Log10(p/1e5)) - f.AntC
}

var fluidTable = map[string]Fluid{
	"WATER": {
		Name: "Water", M: 0.018015, Tc: 647.10, Pc: 220.64e5, Tboil: 373.12,
		CpA: 1753, CpB: 0.37,
		AntA: 3.55959, AntB: 643.748, AntC: -198.043,
		Mu0: 9.9e-6, Lambda0: 0.0186,
		LiqCp: 4186, LiqRho0: 998, LiqBeta: 4.0e-4,
		LiqMu0: 8.9e-4, LiqMuB: 1700, LiqLambda: 0.64,
		model: modelLiquid,
	},
	"NONANE": {
		Name: "Nonane", M: 0.12826, Tc: 594.60, Pc: 22.9e5, Tboil: 423.9,
		CpA: 350, CpB: 4.4,
		AntA: 4.06245, AntB: 1430.377, AntC: -71.687,
		Mu0: 5.6e-6, Lambda0: 0.013,
		LiqCp: 2100, LiqRho0: 718, LiqBeta: 1.0e-3,
		LiqMu0: 6.6e-4, LiqMuB: 1350, LiqLambda: 0.13,
		model: modelLiquid,
	},
	"PROPANE": {
		Name: "Propane", M: 0.04410, Tc: 369.89, Pc: 42.51e5, Tboil: 231.04,
		CpA: 329, CpB: 4.50,
		AntA: 3.98292, AntB: 819.296, AntC: -24.417,
		Mu0: 8.2e-6, Lambda0: 0.0180,
		model: modelLeeKesler,
	},
	"ISOBUTANE": {
		Name: "Isobutane", M: 0.05812, Tc: 407.81, Pc: 36.29e5, Tboil: 261.40,
		CpA: 330, CpB: 4.55,
		AntA: 3.94417, AntB: 912.141, AntC: -29.808,
		Mu0: 7.5e-6, Lambda0: 0.0160,
		model: modelLeeKesler,
	},
	"PENTANE": {
		Name: "Pentane", M: 0.07215, Tc: 469.70, Pc: 33.70e5, Tboil: 309.21,
		AntA: 3.98920, AntB: 1070.617, AntC: -40.454,
		CpA: 286, CpB: 4.60,
		Mu0: 6.7e-6, Lambda0: 0.0144,
		model: modelLeeKesler,
	},
}

// lookupFluid resolves a fluid name, or a "A * B" mixture joined the REFPROP
// way, into a (pseudo-)fluid. Mixtures use Kay's rule on the mole fractions
// for the critical constants and mass-weighted caloric constants; only
// Lee-Kesler components can be mixed.
func lookupFluid(name string, composition []float64) (Fluid, bool) {
	parts := strings.Split(name, "*")
	for i := range parts {
		parts[i] = strings.ToUpper(strings.TrimSpace(parts[i]))
	}
	if len(parts) == 1 {
		f, ok := fluidTable[parts[0]]
		return f, ok
	}
	if len(composition) != len(parts) {
		return Fluid{}, false
	}
	var mix Fluid
	mix.Name = name
	mix.model = modelLeeKesler
	var mTot float64
	comps := make([]Fluid, len(parts))
	for i, p := range parts {
		f, ok := fluidTable[p]
		if !ok || f.model != modelLeeKesler {
			return Fluid{}, false
		}
		comps[i] = f
		x := composition[i]
		mix.Tc += x * f.Tc
		mix.Pc += x * f.Pc
		mix.Tboil += x * f.Tboil
		mix.AntA += x * f.AntA
		mix.AntB += x * f.AntB
		mix.AntC += x * f.AntC
		mix.M += x * f.M
		mTot += x * f.M
	}
	for i, f := range comps {
		w := composition[i] * f.M / mTot // mass fraction
		mix.CpA += w * f.CpA
		mix.CpB += w * f.CpB
		mix.Mu0 += w * f.Mu0
		mix.Lambda0 += w * f.Lambda0
	}
	return mix, true
}

// acentricFactor from the normal boiling point, Lee-Kesler vapor pressure
// relation.
func acentricFactor(tb, tc, pc float64) float64 {
	const atm = 1.01325e5
	pbr := atm / pc
	tbr := tb / tc
	return (math.Log(pbr) - 5.92714 + 6.09648/tbr + 1.28862*math.Log(tbr) - 0.169347*math.Pow(tbr, 6)) /
		(15.2518 - 15.6875/tbr - 13.4721*math.Log(tbr) + 0.43577*math.Pow(tbr, 6))
}
