package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/cosmosim/internal/dynamo"
)

const (
	// G is the gravitational coupling in m^3 / kg / yr^2.
	G = 66450.0

	// H is the present expansion rate in 1/yr, used as da/dt at a = 1.
	H = 7.20e-11
)

// coupling is -4 pi G / 3 rounded after each float64 operation, left to
// right. As a constant expression it would be folded exactly and land one
// ulp away, which changes published trajectories.
var coupling = func() float64 {
	c, g := -4*math.Pi, float64(G)
	c *= g
	return c / 3
}()

// Densities are present-day mass-energy densities in kg/m^3.
type Densities struct {
	Matter     float64 `yaml:"matter" json:"matter"`
	Radiation  float64 `yaml:"radiation" json:"radiation"`
	DarkEnergy float64 `yaml:"dark_energy" json:"dark_energy"`
}

func (d Densities) Validate() error {
	for _, p := range []struct {
		name  string
		value float64
	}{
		{"matter", d.Matter},
		{"radiation", d.Radiation},
		{"dark_energy", d.DarkEnergy},
	} {
		if math.IsNaN(p.value) || math.IsInf(p.value, 0) || p.value < 0 {
			return fmt.Errorf("%w: %s density %g", dynamo.ErrParameterBounds, p.name, p.value)
		}
	}
	return nil
}

// Accel returns d^2a/dt^2 from the Friedmann acceleration equation:
//
//	-(4 pi G / 3) * (rho_m/a^2 + 2 rho_r/a^3 - 2 rho_de a)
//
// a must be non-zero.
func Accel(a float64, d Densities) float64 {
	matter := d.Matter / (a * a)
	radiation := 2 * d.Radiation / (a * a * a)
	darkEnergy := -2 * d.DarkEnergy * a

	return coupling * (matter + radiation + darkEnergy)
}

// CriticalDensity is the total density of a spatially flat universe
// expanding at rate h: 3h^2 / (8 pi G).
func CriticalDensity(h float64) float64 {
	return 3 * h * h / (8 * math.Pi * G)
}

// Friedmann evolves the state {a, da/dt}.
type Friedmann struct {
	Densities Densities
}

func NewFriedmann(d Densities) *Friedmann {
	return &Friedmann{Densities: d}
}

func (f *Friedmann) StateDim() int { return 2 }

func (f *Friedmann) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], Accel(x[0], f.Densities)}
}

func (f *Friedmann) GetParams() map[string]float64 {
	return map[string]float64{
		"matter":      f.Densities.Matter,
		"radiation":   f.Densities.Radiation,
		"dark_energy": f.Densities.DarkEnergy,
	}
}

func (f *Friedmann) SetParam(name string, value float64) error {
	if math.IsNaN(value) || value < 0 {
		return fmt.Errorf("%w: %s density %g", dynamo.ErrParameterBounds, name, value)
	}
	switch name {
	case "matter":
		f.Densities.Matter = value
	case "radiation":
		f.Densities.Radiation = value
	case "dark_energy":
		f.Densities.DarkEnergy = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
