package experiment

// Aggregate summarizes a sweep.
type Aggregate struct {
	Runs          int                `json:"runs" yaml:"runs"`
	Converged     int                `json:"converged" yaml:"converged"`
	MeanSteps     float64            `json:"mean_steps" yaml:"mean_steps"`
	ColorfulEdges float64            `json:"colorful_edges" yaml:"colorful_edges"`
	Segregated    float64            `json:"segregated" yaml:"segregated"`
	SocialWelfare map[string]float64 `json:"social_welfare" yaml:"social_welfare"`
}

// Summarize averages the final measures of results.
func Summarize(results []Result) Aggregate {
	agg := Aggregate{Runs: len(results), SocialWelfare: map[string]float64{}}
	if len(results) == 0 {
		return agg
	}
	for _, r := range results {
		if r.Converged {
			agg.Converged++
		}
		agg.MeanSteps += float64(r.Steps)
		agg.ColorfulEdges += r.Final.ColorfulEdges
		agg.Segregated += r.Final.Segregated
		for _, s := range r.Final.SocialWelfare {
			agg.SocialWelfare[s.Policy] += s.Value
		}
	}
	n := float64(len(results))
	agg.MeanSteps /= n
	agg.ColorfulEdges /= n
	agg.Segregated /= n
	for k := range agg.SocialWelfare {
		agg.SocialWelfare[k] /= n
	}
	return agg
}
