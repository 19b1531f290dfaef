package app

import (
	"flag"
	"fmt"
	"strings"
)

// Config represents the command-line parameters for the viewer.
type Config struct {
	ConfigPath string
	Preset     string
	Set        map[string]string
	Scale      int
	TPS        int
	SPS        int
	PanelWidth int
	LogLevel   string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Set:        map[string]string{},
		Scale:      16,
		TPS:        60,
		SPS:        30,
		PanelWidth: 300,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "YAML configuration file")
	fs.StringVar(&c.Preset, "preset", c.Preset, "built-in world preset")
	fs.Func("set", "world override as key=value (repeatable)", func(kv string) error {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("want key=value, got %q", kv)
		}
		c.Set[strings.TrimSpace(k)] = strings.TrimSpace(v)
		return nil
	})
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.IntVar(&c.SPS, "sps", c.SPS, "simulation steps per second")
	fs.IntVar(&c.PanelWidth, "panel", c.PanelWidth, "control panel width in pixels, 0 hides it")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: trace, debug, info, warn, error")
}
