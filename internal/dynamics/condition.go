package dynamics

import "fmt"

// Condition is a pairwise acceptance rule over the utilities of two agents
// before (u1, u2) and after (n1, n2) exchanging positions.
type Condition int

const (
	// IndividualGreater requires both agents to strictly improve.
	IndividualGreater Condition = iota
	// IndividualNoWorse requires neither agent to lose and the sum to grow.
	IndividualNoWorse
	// SumGreater requires the summed utility to grow.
	SumGreater
)

var conditionNames = map[Condition]string{
	IndividualGreater: "individual-greater",
	IndividualNoWorse: "individual-no-worse",
	SumGreater:        "sum-greater",
}

func (c Condition) String() string {
	if name, ok := conditionNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Condition(%d)", int(c))
}

// ParseCondition maps a condition name back to its value.
func ParseCondition(name string) (Condition, error) {
	for c, n := range conditionNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCondition, name)
}

// ConditionNames lists the acceptance conditions in declaration order.
func ConditionNames() []string {
	return []string{IndividualGreater.String(), IndividualNoWorse.String(), SumGreater.String()}
}

// Holds reports whether the condition accepts the exchange.
func (c Condition) Holds(u1, u2, n1, n2 float64) bool {
	switch c {
	case IndividualGreater:
		return n1 > u1 && n2 > u2
	case IndividualNoWorse:
		return n1 >= u1 && n2 >= u2 && n1+n2 > u1+u2
	case SumGreater:
		return n1+n2 > u1+u2
	}
	return false
}

// Acceptor decides whether the agents at two positions should swap.
// With Collective set, each agent additionally needs a strict majority of
// itself and its neighbors to be better off; ties reject.
type Acceptor struct {
	Condition  Condition
	Collective bool
}

// Accepts evaluates the swap of the agents at i and j without leaving any
// change behind in env. Every pre-swap utility is read before the
// hypothetical state is entered.
func (a Acceptor) Accepts(env Env, i, j int) bool {
	u1, u2 := env.Utility(i), env.Utility(j)
	var voters1, voters2 []voter
	if a.Collective {
		voters1 = neighborVoters(env, i, j)
		voters2 = neighborVoters(env, j, i)
	}
	var ok bool
	env.Hypothetical(i, j, func(after func(int) float64) {
		// The agent from i now sits at j and vice versa.
		n1, n2 := after(j), after(i)
		if !a.Condition.Holds(u1, u2, n1, n2) {
			return
		}
		if !a.Collective {
			ok = true
			return
		}
		ok = majority(voters1, after, n1 > u1) && majority(voters2, after, n2 > u2)
	})
	return ok
}

// voter is a neighbor whose post-swap utility is read at post.
type voter struct {
	post   int
	before float64
}

// neighborVoters lists the neighbors of pos. A neighbor sitting on the other
// endpoint is the agent that moves into pos, so its post-swap utility is
// read there.
func neighborVoters(env Env, pos, other int) []voter {
	ns := env.NeighborsOf(pos)
	out := make([]voter, 0, len(ns))
	for _, q := range ns {
		v := voter{post: q, before: env.Utility(q)}
		if q == other {
			v.post = pos
		}
		out = append(out, v)
	}
	return out
}

// majority tallies the agent's own vote together with its neighbors' and
// requires strictly more than half in favor.
func majority(voters []voter, after func(int) float64, self bool) bool {
	yes, total := 0, len(voters)+1
	if self {
		yes++
	}
	for _, v := range voters {
		if after(v.post) > v.before {
			yes++
		}
	}
	return 2*yes > total
}
