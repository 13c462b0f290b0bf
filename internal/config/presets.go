package config

import "sort"

var Presets = map[string]*Config{
	"square": {
		Name:  "square",
		Robot: RobotConfig{Radius: DefaultRadius, Separation: DefaultSeparation},
		Dt:    DefaultDt,
		Program: []string{
			"D 1 4", "T 90 1",
			"D 1 4", "T 90 1",
			"D 1 4", "T 90 1",
			"D 1 4", "T 90 1",
		},
	},
	"circle": {
		Name:    "circle",
		Robot:   RobotConfig{Radius: DefaultRadius, Separation: DefaultSeparation},
		Dt:      DefaultDt,
		Program: []string{"C 1 360 12"},
	},
	"slalom": {
		Name:  "slalom",
		Robot: RobotConfig{Radius: DefaultRadius, Separation: DefaultSeparation},
		Dt:    DefaultDt,
		Program: []string{
			"D 0.5 2",
			"C 0.5 180 4", "C -0.5 180 4",
			"C 0.5 180 4", "C -0.5 180 4",
			"D 0.5 2",
		},
	},
	"spin": {
		Name:     "spin",
		Robot:    RobotConfig{Radius: DefaultRadius, Separation: DefaultSeparation},
		Dt:       1e-4,
		InitPose: PoseConfig{X: 1, Y: 1},
		Program:  []string{"T 360 2", "T -720 4"},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
