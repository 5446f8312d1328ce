package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/cosmosim/internal/dynamo"
)

func TestAccel_Empty(t *testing.T) {
	if got := Accel(1.0, Densities{}); got != 0 {
		t.Errorf("expected zero acceleration for empty universe, got %g", got)
	}
}

func TestAccel_MatterOnly(t *testing.T) {
	rho := 2.53e-27
	for _, a := range []float64{1.0, 0.5, 0.01, 3.0} {
		got := Accel(a, Densities{Matter: rho})
		expected := -(4 * math.Pi * G / 3) * (rho / (a * a))
		if math.Abs(got-expected) > 1e-12*math.Abs(expected) {
			t.Errorf("a=%g: expected %g, got %g", a, expected, got)
		}
	}
}

// Reference values are exact: each operation rounds to float64 in the
// order -4*pi*G/3 * (matter + radiation + dark energy).
func TestAccel_Reference(t *testing.T) {
	benchmark := Densities{Matter: 2.53e-27, Radiation: 5.60e-31, DarkEnergy: 6.78e-27}
	tests := []struct {
		a    float64
		d    Densities
		want float64
	}{
		{1.0, Densities{Matter: 2.53e-27}, -7.042131260433809e-22},
		{1.0, benchmark, 3.069834806939653e-21},
		{0.5, benchmark, -9.321666365985144e-22},
		{0.01, benchmark, -7.353840039038035e-18},
		{3.0, benchmark, 1.1244821589454507e-20},
		{0.3, Densities{Matter: 1e-26}, -3.092723434533952e-20},
	}

	for _, tt := range tests {
		if got := Accel(tt.a, tt.d); got != tt.want {
			t.Errorf("Accel(%g, %+v) = %v, want %v", tt.a, tt.d, got, tt.want)
		}
	}
}

func TestCoupling(t *testing.T) {
	if coupling != -278345.10910805565 {
		t.Errorf("coupling = %v, want -278345.10910805565", coupling)
	}
}

func TestAccel_Terms(t *testing.T) {
	tests := []struct {
		name string
		d    Densities
		sign float64
	}{
		{"matter decelerates", Densities{Matter: 1e-27}, -1},
		{"radiation decelerates", Densities{Radiation: 1e-27}, -1},
		{"dark energy accelerates", Densities{DarkEnergy: 1e-27}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Accel(0.8, tt.d); got*tt.sign <= 0 {
				t.Errorf("unexpected sign of acceleration: %g", got)
			}
		})
	}
}

func TestAccel_RadiationScaling(t *testing.T) {
	d := Densities{Radiation: 5.6e-31}
	ratio := Accel(0.5, d) / Accel(1.0, d)
	if math.Abs(ratio-8) > 1e-12 {
		t.Errorf("radiation term should scale as a^-3, got ratio %g", ratio)
	}
}

func TestFriedmannDerive(t *testing.T) {
	d := Densities{Matter: 2.53e-27, Radiation: 5.60e-31, DarkEnergy: 6.78e-27}
	dyn := NewFriedmann(d)

	if dyn.StateDim() != 2 {
		t.Fatalf("expected 2 states, got %d", dyn.StateDim())
	}

	dx := dyn.Derive(dynamo.State{1.0, H}, 0)
	if dx[0] != H {
		t.Errorf("da/dt should equal v, got %g", dx[0])
	}
	if dx[1] != Accel(1.0, d) {
		t.Errorf("dv/dt should equal Accel, got %g", dx[1])
	}
}

func TestFriedmannParams(t *testing.T) {
	dyn := NewFriedmann(Densities{})

	if err := dyn.SetParam("dark_energy", 6.78e-27); err != nil {
		t.Fatalf("set param failed: %v", err)
	}
	if dyn.GetParams()["dark_energy"] != 6.78e-27 {
		t.Errorf("param not applied: %v", dyn.GetParams())
	}

	if err := dyn.SetParam("curvature", 1); err == nil {
		t.Error("expected error for unknown param")
	}
	if err := dyn.SetParam("matter", -1); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestDensitiesValidate(t *testing.T) {
	tests := []struct {
		name  string
		d     Densities
		valid bool
	}{
		{"zeros", Densities{}, true},
		{"benchmark", Densities{2.53e-27, 5.60e-31, 6.78e-27}, true},
		{"negative matter", Densities{Matter: -1e-27}, false},
		{"NaN radiation", Densities{Radiation: math.NaN()}, false},
		{"Inf dark energy", Densities{DarkEnergy: math.Inf(1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.d.Validate()
			if (err == nil) != tt.valid {
				t.Errorf("Validate() = %v, want valid=%v", err, tt.valid)
			}
		})
	}
}

func TestCriticalDensity(t *testing.T) {
	got := CriticalDensity(H)
	if math.Abs(got-9.312180868943401e-27) > 1e-35 {
		t.Errorf("unexpected critical density %g", got)
	}
}
