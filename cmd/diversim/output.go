package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"diversim/internal/experiment"
	"diversim/internal/metrics"
)

// writeOutput encodes v as JSON or YAML, or hands a printer to text.
func writeOutput(w io.Writer, format string, v any, text func(p *printer)) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "", "text":
		p := &printer{w: w}
		text(p)
		return p.err
	}
	return fmt.Errorf("unknown output format %q", format)
}

// printer writes text output and keeps the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) line(s string) { p.printf("%s\n", s) }

func (p *printer) result(r experiment.Result) {
	state := "budget exhausted"
	if r.Converged {
		state = "converged"
	}
	p.printf("seed %d: %s after %d moves (%d attempts, %s)\n",
		r.Seed, state, r.Steps, r.Attempts, r.Elapsed.Round(time.Millisecond))
	p.printf("  distribution  %v\n", r.Distribution)
	p.summary("initial", r.Initial)
	p.summary("final", r.Final)
	if len(r.Types) > 0 {
		p.printf("  types         %v\n", r.Types)
	}
}

func (p *printer) summary(label string, s metrics.Summary) {
	scores := make([]string, len(s.SocialWelfare))
	for i, sc := range s.SocialWelfare {
		scores[i] = fmt.Sprintf("%s=%.3f", sc.Policy, sc.Value)
	}
	p.printf("  %-8s colorful=%.3f segregated=%.3f welfare[%s]\n",
		label, s.ColorfulEdges, s.Segregated, strings.Join(scores, " "))
}

func (p *printer) aggregate(a experiment.Aggregate) {
	p.printf("%d runs, %d converged, mean %.1f moves\n", a.Runs, a.Converged, a.MeanSteps)
	p.printf("mean final colorful=%.3f segregated=%.3f\n", a.ColorfulEdges, a.Segregated)
	for _, name := range sortedKeys(a.SocialWelfare) {
		p.printf("  welfare %-20s %.3f\n", name, a.SocialWelfare[name])
	}
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
