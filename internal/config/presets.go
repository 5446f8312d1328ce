package config

import (
	"sort"

	"github.com/san-kum/cosmosim/internal/physics"
)

// critical is the flat-universe density for the default expansion rate.
var critical = physics.CriticalDensity(physics.H)

var Presets = map[string]physics.Densities{
	"benchmark": {
		Matter: DefaultMatter, Radiation: DefaultRadiation, DarkEnergy: DefaultDarkEnergy,
	},
	"matter_only": {
		Matter: critical,
	},
	"radiation_only": {
		Radiation: critical,
	},
	"dark_energy_only": {
		DarkEnergy: critical,
	},
	"closed": {
		Matter: 10 * critical, Radiation: DefaultRadiation,
	},
	"empty": {},
}

// GetPreset returns the default configuration with the named densities, or
// nil when no such preset exists.
func GetPreset(name string) *Config {
	d, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Densities = d
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
