package checker

import "time"

// Decision is the outcome of evaluating an observed price against an
// alert. The cooldown gate (CooldownActive) is the third, "skip" outcome:
// it runs before any fetch so a gated alert costs no network work.
type Decision int

const (
	DecisionUpdateOnly Decision = iota
	DecisionNotify
)

// CooldownActive reports whether the alert was notified recently enough
// that this cycle must skip it entirely.
func CooldownActive(lastNotified *time.Time, now time.Time, cooldown time.Duration) bool {
	return lastNotified != nil && now.Sub(*lastNotified) < cooldown
}

// DecidePrice decides whether a freshly observed price warrants a
// notification. Notify when the price is at or below target AND is
// flat-or-falling relative to the previous observation (or there is no
// previous observation). A price that rose while staying under target does
// not notify again; it already did when it fell there.
func DecidePrice(prev *float64, cur, target float64) Decision {
	if cur > target {
		return DecisionUpdateOnly
	}
	if prev == nil || cur <= *prev {
		return DecisionNotify
	}
	return DecisionUpdateOnly
}
