package schelling

import (
	"strconv"
	"strings"

	"diversim/internal/dynamics"
	"diversim/internal/utility"
)

// Initializer names accepted by InitByName.
const (
	InitRandom    = "random"
	InitEquitable = "equitable"
	InitSchelling = "schelling"
	InitBlock     = "block"
)

// Config controls the grid topology, population and policies of a World.
type Config struct {
	Size         []int  `yaml:"size" json:"size"`
	Wrap         []bool `yaml:"wrap" json:"wrap"`
	VertexDegree int    `yaml:"vertex_degree" json:"vertex_degree"`
	NeighRadius  int    `yaml:"neigh_radius" json:"neigh_radius"`
	NumTypes     int    `yaml:"num_types" json:"num_types"`

	Utility    string  `yaml:"utility" json:"utility"`
	Threshold  float64 `yaml:"threshold" json:"threshold"`
	Dynamics   string  `yaml:"dynamics" json:"dynamics"`
	Condition  string  `yaml:"condition" json:"condition"`
	Collective bool    `yaml:"collective" json:"collective"`

	Init         string `yaml:"init" json:"init"`
	WarmupBudget int    `yaml:"warmup_budget" json:"warmup_budget"`
	Seed         int64  `yaml:"seed" json:"seed"`
}

// DefaultConfig returns a wrapped 20x20 grid with von Neumann neighborhoods
// and three types.
func DefaultConfig() Config {
	return Config{
		Size:         []int{20, 20},
		Wrap:         []bool{true, true},
		VertexDegree: 4,
		NeighRadius:  1,
		NumTypes:     3,
		Utility:      utility.NameTypeCount,
		Threshold:    0.5,
		Dynamics:     dynamics.NameOrdered,
		Condition:    dynamics.IndividualNoWorse.String(),
		Init:         InitRandom,
		WarmupBudget: 100000,
		Seed:         1,
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Unparseable values keep their defaults; Validate reports inconsistent ones.
//
//	size=20x20 wrap=1,0 degree=4 radius=1 types=3 utility=entropy
//	threshold=0.5 dynamics=ordered condition=sum-greater collective=true
//	init=schelling warmup=5000 seed=7
func FromMap(cfg map[string]string) Config {
	return DefaultConfig().Apply(cfg)
}

// Apply returns a copy of c with the keys accepted by FromMap overridden.
func (c Config) Apply(cfg map[string]string) Config {
	c.Size = append([]int(nil), c.Size...)
	c.Wrap = append([]bool(nil), c.Wrap...)
	if cfg == nil {
		return c
	}
	if v, ok := cfg["size"]; ok {
		if parsed, ok := parseInts(v); ok {
			c.Size = parsed
			if _, hasWrap := cfg["wrap"]; !hasWrap {
				c.Wrap = repeatBool(true, len(parsed))
			}
		}
	}
	if v, ok := cfg["wrap"]; ok {
		if parsed, ok := parseBools(v); ok {
			if len(parsed) == 1 && len(c.Size) > 1 {
				parsed = repeatBool(parsed[0], len(c.Size))
			}
			c.Wrap = parsed
		}
	}
	if v, ok := cfg["degree"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.VertexDegree = parsed
		}
	}
	if v, ok := cfg["radius"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.NeighRadius = parsed
		}
	}
	if v, ok := cfg["types"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.NumTypes = parsed
		}
	}
	if v, ok := cfg["utility"]; ok && v != "" {
		c.Utility = v
	}
	if v, ok := cfg["threshold"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Threshold = parsed
		}
	}
	if v, ok := cfg["dynamics"]; ok && v != "" {
		c.Dynamics = v
	}
	if v, ok := cfg["condition"]; ok && v != "" {
		c.Condition = v
	}
	if v, ok := cfg["collective"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Collective = parsed
		}
	}
	if v, ok := cfg["init"]; ok && v != "" {
		c.Init = v
	}
	if v, ok := cfg["warmup"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.WarmupBudget = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	return c
}

// Validate checks the settings that do not depend on the grid shape.
// Shape-dependent checks happen in NewWithConfig.
func (c Config) Validate() error {
	if c.VertexDegree <= 0 {
		return ErrDegree
	}
	if c.NumTypes <= 0 {
		return ErrNumTypes
	}
	if c.NeighRadius <= 0 {
		return ErrNeighRadius
	}
	if _, err := utility.ByName(c.Utility, c.Threshold); err != nil {
		return err
	}
	if _, err := dynamics.ParseCondition(c.Condition); err != nil {
		return err
	}
	if _, err := dynamics.ByName(c.Dynamics, dynamics.Acceptor{}, 0); err != nil {
		return err
	}
	if _, err := InitByName(c.Init, c.WarmupBudget); err != nil {
		return err
	}
	return nil
}

func parseInts(s string) ([]int, bool) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == 'x' || r == ',' || r == ' ' })
	if len(fields) == 0 {
		return nil, false
	}
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil || v <= 0 {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func parseBools(s string) ([]bool, bool) {
	fields := strings.Split(s, ",")
	out := make([]bool, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseBool(strings.TrimSpace(f))
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func repeatBool(v bool, n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = v
	}
	return out
}
