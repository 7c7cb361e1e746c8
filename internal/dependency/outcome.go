// Package dependency implements the declarative conditions gating a script
// file's execution and the three-level severity model used to aggregate
// their results.
package dependency

// Outcome is the severity of a dependency check or of a whole script run.
// Outcomes are totally ordered: Success < SoftFailure < HardFailure.
type Outcome int

const (
	// Success lets the batch continue unaffected.
	Success Outcome = iota

	// SoftFailure skips the current script and nothing else. It is an
	// expected value, never an error.
	SoftFailure

	// HardFailure stops the whole batch.
	HardFailure
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case SoftFailure:
		return "soft-failure"
	case HardFailure:
		return "hard-failure"
	default:
		return "unknown"
	}
}

// Combine reduces outcomes to the most severe one. No outcomes at all is
// Success. Every aggregation in the batch runner is exactly this reduction.
func Combine(outcomes ...Outcome) Outcome {
	combined := Success
	for _, o := range outcomes {
		if o > combined {
			combined = o
		}
	}
	return combined
}
