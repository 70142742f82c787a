package solver

// DefaultPeriodDays is the period assumed for bodies that do not declare
// one: a year.
const DefaultPeriodDays = 365.25

// stepsPerPeriod keeps the per-step motion of a roughly uniform body
// around 30°, far below the 180° limit at which crossings become
// ambiguous.
const stepsPerPeriod = 12

// EstimateStep returns the bracket search step, in days, for a body with
// the given coarse period. A positive override wins; it exists for bodies
// fast enough that a twelfth of their period is still too coarse.
func EstimateStep(periodDays, overrideDays float64) float64 {
	if overrideDays > 0 {
		return overrideDays
	}
	if periodDays > 0 {
		return periodDays / stepsPerPeriod
	}
	return DefaultPeriodDays / stepsPerPeriod
}
