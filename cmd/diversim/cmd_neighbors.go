package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"diversim/internal/config"
	"diversim/internal/core"
)

type neighborReport struct {
	Size      []int        `json:"size" yaml:"size"`
	Wrap      []bool       `json:"wrap" yaml:"wrap"`
	Coord     core.Coord   `json:"coord" yaml:"coord"`
	Degree    int          `json:"degree" yaml:"degree"`
	Complete  bool         `json:"complete" yaml:"complete"`
	Neighbors []core.Coord `json:"neighbors" yaml:"neighbors"`
}

func newNeighborsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "neighbors",
		Short: "Print the neighbor enumeration order of one vertex",
		Long: `Neighbors lists the neighbors of --coord in the order the world assigns
them, using the size, wrap flags and vertex degree of the configuration.

Examples:
  diversim neighbors --set size=5x5 --set degree=24 --coord 2,2
  diversim neighbors --preset cylinder --coord 0,0 --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			shape, err := core.NewShape(cfg.World.Size, cfg.World.Wrap)
			if err != nil {
				return err
			}
			raw, _ := cmd.Flags().GetString("coord")
			c, err := parseCoord(raw, shape.Dims())
			if err != nil {
				return err
			}
			if !shape.Contains(c) {
				return fmt.Errorf("coordinate %v outside grid %v", c, shape.Size())
			}

			ns, complete := shape.Neighbors(c, cfg.World.VertexDegree)
			report := neighborReport{
				Size:      shape.Size(),
				Wrap:      shape.Wraps(),
				Coord:     c,
				Degree:    cfg.World.VertexDegree,
				Complete:  complete,
				Neighbors: ns,
			}
			return writeOutput(cmd.OutOrStdout(), cfg.Run.Format, report, func(p *printer) {
				p.printf("vertex %v on %v (wrap %v), degree %d\n", c, report.Size, report.Wrap, report.Degree)
				for i, n := range ns {
					p.printf("%3d  %v\n", i+1, n)
				}
				if !complete {
					p.printf("only %d of %d neighbors available\n", len(ns), report.Degree)
				}
			})
		},
	}
	cmd.Flags().String("coord", "", "Vertex coordinate, comma separated (default: origin)")
	return cmd
}

func parseCoord(s string, dims int) (core.Coord, error) {
	c := make(core.Coord, dims)
	if strings.TrimSpace(s) == "" {
		return c, nil
	}
	fields := strings.Split(s, ",")
	if len(fields) != dims {
		return nil, fmt.Errorf("coordinate %q has %d axes, grid has %d", s, len(fields), dims)
	}
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q: %w", s, err)
		}
		c[i] = v
	}
	return c, nil
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in world presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			if format == "" {
				format = "text"
			}
			type entry struct {
				Name   string `json:"name" yaml:"name"`
				Size   []int  `json:"size" yaml:"size"`
				Wrap   []bool `json:"wrap" yaml:"wrap"`
				Degree int    `json:"degree" yaml:"degree"`
				Types  int    `json:"types" yaml:"types"`
			}
			var entries []entry
			for _, name := range config.PresetNames() {
				w, _ := config.Preset(name)
				entries = append(entries, entry{name, w.Size, w.Wrap, w.VertexDegree, w.NumTypes})
			}
			return writeOutput(cmd.OutOrStdout(), format, entries, func(p *printer) {
				for _, e := range entries {
					p.printf("%-9s size=%v wrap=%v degree=%d types=%d\n", e.Name, e.Size, e.Wrap, e.Degree, e.Types)
				}
			})
		},
	}
}
