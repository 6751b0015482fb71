package content

import (
	"fmt"
	"time"
)

// Tenure formats the time between start and end as "N yr M mos", "N yr" or
// "M mos". A nil end means the position is current and now is used.
func Tenure(start time.Time, end *time.Time, now time.Time) string {
	to := now
	if end != nil {
		to = *end
	}
	months := (to.Year()-start.Year())*12 + int(to.Month()) - int(start.Month())
	if months < 0 {
		months = 0
	}
	years, rest := months/12, months%12

	switch {
	case years > 0 && rest > 0:
		return fmt.Sprintf("%d yr %d mos", years, rest)
	case years > 0:
		return fmt.Sprintf("%d yr", years)
	default:
		return fmt.Sprintf("%d mos", rest)
	}
}

// YearsSince returns the number of whole 365-day years between start and now.
func YearsSince(start, now time.Time) int {
	if now.Before(start) {
		return 0
	}
	return int(now.Sub(start).Hours() / 24 / 365)
}
