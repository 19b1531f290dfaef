package config

import (
	"fmt"
	"sort"

	"diversim/internal/sims/schelling"
)

// presets are the reference worlds: a ring, a two-row cylinder and two
// wrapped 20x20 tori with von Neumann and Moore neighborhoods.
var presets = map[string]func() schelling.Config{
	"circle": func() schelling.Config {
		c := schelling.DefaultConfig()
		c.Size, c.Wrap = []int{40}, []bool{false}
		c.VertexDegree = 2
		return c
	},
	"cylinder": func() schelling.Config {
		c := schelling.DefaultConfig()
		c.Size, c.Wrap = []int{2, 40}, []bool{false, true}
		c.VertexDegree = 3
		return c
	},
	"grid4": func() schelling.Config {
		return schelling.DefaultConfig()
	},
	"grid8": func() schelling.Config {
		c := schelling.DefaultConfig()
		c.VertexDegree = 8
		c.NumTypes = 6
		return c
	},
}

// Preset returns the world configuration registered under name.
func Preset(name string) (schelling.Config, error) {
	build, ok := presets[name]
	if !ok {
		return schelling.Config{}, fmt.Errorf("unknown preset %q (valid: %v)", name, PresetNames())
	}
	return build(), nil
}

// PresetNames lists the built-in presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
