package config

import "sort"

// Presets are compiled-in scenarios with real orbital parameters. Masses and
// distances carry the commonly tabulated digits; velocities are barycentric
// so each system starts with near-zero net momentum.
var Presets = map[string]*Scenario{
	"binary-pair": {
		Name:        "binary-pair",
		Description: "two equal masses on a circular mutual orbit",
		Precision:   50,
		TimeStep:    "0.01",
		Steps:       1000,
		Bodies: []BodyConfig{
			{
				Name: "alpha", Mass: "1.5E8",
				Position: [3]string{"1", "0", "0"},
				Velocity: [3]string{"0", "0.05003", "0"},
			},
			{
				Name: "beta", Mass: "1.5E8",
				Position: [3]string{"-1", "0", "0"},
				Velocity: [3]string{"0", "-0.05003", "0"},
			},
		},
	},
	"earth-moon": {
		Name:        "earth-moon",
		Description: "earth and moon about their barycenter, one day in minute steps",
		Precision:   50,
		TimeStep:    "60",
		Steps:       1440,
		Bodies: []BodyConfig{
			{
				Name: "earth", Mass: "5.9722E24",
				Position: [3]string{"0", "0", "0"},
				Velocity: [3]string{"0", "-12.45", "0"},
			},
			{
				Name: "moon", Mass: "7.348E22",
				Position: [3]string{"3.844E8", "0", "0"},
				Velocity: [3]string{"0", "1012.1", "0"},
			},
		},
	},
	"sun-earth": {
		Name:        "sun-earth",
		Description: "earth orbiting the sun, one year in hourly steps",
		Precision:   50,
		TimeStep:    "3600",
		Steps:       8766,
		Bodies: []BodyConfig{
			{
				Name: "sun", Mass: "1.989E30",
				Position: [3]string{"0", "0", "0"},
				Velocity: [3]string{"0", "-0.0894", "0"},
			},
			{
				Name: "earth", Mass: "5.9722E24",
				Position: [3]string{"1.496E11", "0", "0"},
				Velocity: [3]string{"0", "29780", "0"},
			},
		},
	},
	"sun-earth-moon": {
		Name:        "sun-earth-moon",
		Description: "three-body sun, earth and moon, one year in hourly steps",
		Precision:   50,
		TimeStep:    "3600",
		Steps:       8766,
		Bodies: []BodyConfig{
			{
				Name: "sun", Mass: "1.989E30",
				Position: [3]string{"0", "0", "0"},
				Velocity: [3]string{"0", "0", "0"},
			},
			{
				Name: "earth", Mass: "5.9722E24",
				Position: [3]string{"1.496E11", "0", "0"},
				Velocity: [3]string{"0", "29780", "0"},
			},
			{
				Name: "moon", Mass: "7.348E22",
				Position: [3]string{"1.499844E11", "0", "0"},
				Velocity: [3]string{"0", "30792", "0"},
			},
		},
	},
}

func GetPreset(name string) *Scenario {
	scn, ok := Presets[name]
	if !ok {
		return nil
	}
	return scn
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
