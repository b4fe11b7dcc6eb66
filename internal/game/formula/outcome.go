package formula

import "fmt"

// Outcome is the result of the critical/fail rolls of one attack.
type Outcome uint8

const (
	OutcomeNormal Outcome = iota
	OutcomeCrit
	OutcomeFail
)

var outcomes = [...]Outcome{OutcomeNormal, OutcomeCrit, OutcomeFail}

func (o Outcome) String() string {
	switch o {
	case OutcomeCrit:
		return "crit"
	case OutcomeFail:
		return "fail"
	default:
		return "normal"
	}
}

// Precedence decides which outcome applies when both crit and fail roll true.
type Precedence uint8

const (
	// FailOverCrit: fail is checked after crit and overrides it.
	FailOverCrit Precedence = iota
	// CritOverFail: a crit suppresses the fail roll.
	CritOverFail
)

// ParsePrecedence accepts "fail_over_crit" (default when empty) and "crit_over_fail".
func ParsePrecedence(s string) (Precedence, error) {
	switch s {
	case "", "fail_over_crit":
		return FailOverCrit, nil
	case "crit_over_fail":
		return CritOverFail, nil
	}
	return FailOverCrit, fmt.Errorf("unknown outcome precedence %q", s)
}

func (p Precedence) String() string {
	if p == CritOverFail {
		return "crit_over_fail"
	}
	return "fail_over_crit"
}

// ResolveOutcome picks the single applied outcome from two independent rolls.
func ResolveOutcome(crit, fail bool, p Precedence) Outcome {
	switch {
	case crit && fail:
		if p == CritOverFail {
			return OutcomeCrit
		}
		return OutcomeFail
	case crit:
		return OutcomeCrit
	case fail:
		return OutcomeFail
	}
	return OutcomeNormal
}

// OutcomeOdds holds the probability of each applied outcome; they sum to 1.
type OutcomeOdds struct {
	Crit   float64
	Fail   float64
	Normal float64
}

// Of returns the probability of o.
func (o OutcomeOdds) Of(out Outcome) float64 {
	switch out {
	case OutcomeCrit:
		return o.Crit
	case OutcomeFail:
		return o.Fail
	default:
		return o.Normal
	}
}

// OutcomeProbabilities converts crit and fail chances (percent) into applied
// outcome probabilities under precedence p.
func OutcomeProbabilities(critChance, failChance float64, p Precedence) OutcomeOdds {
	c := Probability(critChance)
	f := Probability(failChance)
	odds := OutcomeOdds{Normal: (1 - c) * (1 - f)}
	if p == CritOverFail {
		odds.Crit = c
		odds.Fail = f * (1 - c)
	} else {
		odds.Fail = f
		odds.Crit = c * (1 - f)
	}
	return odds
}
