package exchanger

import (
	"hexcalc/model"
	"hexcalc/props"
)

// Model is the shared capability of the lumped and the spatially resolved
// exchanger: the two are independent implementations, not a hierarchy.
type Model interface {
	// Validate checks streams and geometry against the property backend.
	Validate() error

	// Duty returns the exchanged heat flow in W.
	Duty() (float64, error)

	// Profile returns the spatial profile owned by this model. For the
	// lumped model it degenerates to the two terminal states.
	Profile() (*SpatialProfile, error)
}

// Sample is one axial position of a solved exchanger.
type Sample struct {
	X     float64 `json:"x"`
	THot  float64 `json:"t_hot"`
	TCold float64 `json:"t_cold"`
	PHot  float64 `json:"p_hot"`
	PCold float64 `json:"p_cold"`
	HHot  float64 `json:"h_hot"`
	HCold float64 `json:"h_cold"`
	SHot  float64 `json:"s_hot"`
	SCold float64 `json:"s_cold"`
	QFlux float64 `json:"q_flux"` // local heat flow per length, W/m
	U     float64 `json:"u"`      // local overall coefficient, W/(m2 K)
}

// SpatialProfile is the ordered solution along x in [0, L]. It is built once
// per solve and not modified afterwards.
type SpatialProfile struct {
	Name    string   `json:"name"`
	Samples []Sample `json:"samples"`
	Duty    float64  `json:"duty"` // W, hot-side enthalpy flow change
}

// resolveInlet fixes a stream's inlet enthalpy from its temperature when the
// enthalpy was not given, and returns the full inlet state.
func resolveInlet(b props.MixtureBackend, st *model.Stream) (props.PropertyVector, error) {
	if st.HIn != 0 {
		return b.PropertiesX(st.Fluid, st.Composition, props.PH(st.PIn, st.HIn))
	}
	pv, err := b.PropertiesX(st.Fluid, st.Composition, props.PT(st.PIn, st.TIn))
	if err != nil {
		return pv, err
	}
	st.HIn = pv.H
	return pv, nil
}
