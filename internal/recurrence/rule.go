package recurrence

import (
	"errors"
	"fmt"
	"time"

	"taskplanner/internal/model"
)

// ErrNoRecurrence marks a plan whose type is NONE: nothing to compute.
var ErrNoRecurrence = errors.New("plan has no recurrence")

// ErrScanBound is returned when the weekday scan exhausts its safety bound.
// That only happens on malformed input and must be surfaced, not swallowed.
var ErrScanBound = errors.New("recurrence scan exceeded lookahead bound")

// Rule is the parsed recurrence definition: exactly one of the concrete
// kinds below, each carrying only the fields it needs.
type Rule interface {
	// next computes the occurrence after base (on base itself when inclusive
	// is set). anchor is the plan's start used for interval alignment; today
	// is the start of the current day and the target of catch-up.
	next(base time.Time, inclusive bool, anchor, today time.Time) (time.Time, error)
}

// Daily repeats every Interval days.
type Daily struct {
	Interval int
}

// Weekly repeats every Interval weeks, optionally restricted to a weekday
// set. With a non-empty set, generated dates must fall on an allowed weekday
// in a week congruent to the plan's start week modulo Interval.
type Weekly struct {
	Interval int
	Days     WeekdaySet
}

// Monthly repeats every Interval months, keeping the day-of-month anchored
// to the plan's start rather than drifting with each occurrence.
type Monthly struct {
	Interval int
}

// FromPlan parses and validates a stored plan into a Rule.
func FromPlan(plan *model.RecurringPlan) (Rule, error) {
	if plan.RecurrenceType == model.RecurrenceNone {
		return nil, ErrNoRecurrence
	}
	if plan.RecurrenceInterval < 1 {
		return nil, fmt.Errorf("recurrence interval must be at least 1, got %d", plan.RecurrenceInterval)
	}
	switch plan.RecurrenceType {
	case model.RecurrenceDaily, model.RecurrenceMonthly:
		if plan.RecurrenceDays != "" {
			return nil, fmt.Errorf("recurrence days are only valid for weekly plans")
		}
		if plan.RecurrenceType == model.RecurrenceDaily {
			return Daily{Interval: plan.RecurrenceInterval}, nil
		}
		return Monthly{Interval: plan.RecurrenceInterval}, nil
	case model.RecurrenceWeekly:
		days, err := ParseWeekdays(plan.RecurrenceDays)
		if err != nil {
			return nil, fmt.Errorf("parse recurrence days: %w", err)
		}
		return Weekly{Interval: plan.RecurrenceInterval, Days: days}, nil
	default:
		return nil, fmt.Errorf("unknown recurrence type %q", plan.RecurrenceType)
	}
}

func (d Daily) next(base time.Time, inclusive bool, _, today time.Time) (time.Time, error) {
	cand := base
	if !inclusive {
		cand = base.AddDate(0, 0, d.Interval)
	}
	// Catch-up: jump the smallest multiple of the interval that lands on
	// today or later, instead of replaying every missed cycle.
	if gap := daysBetween(cand, today); gap > 0 {
		skip := (gap + d.Interval - 1) / d.Interval
		cand = cand.AddDate(0, 0, skip*d.Interval)
	}
	return cand, nil
}

func (w Weekly) next(base time.Time, inclusive bool, anchor, today time.Time) (time.Time, error) {
	if w.Days.Empty() {
		if inclusive {
			return base, nil
		}
		return base.AddDate(0, 0, 7*w.Interval), nil
	}

	anchorMonday := mondayOf(anchor)
	cand, ok := w.scan(base, inclusive, anchorMonday)
	if !ok {
		return time.Time{}, fmt.Errorf("weekly interval %d days %q: %w", w.Interval, w.Days, ErrScanBound)
	}
	// A long-dormant plan can resolve to a past date; rescan from today.
	if daysBetween(cand, today) > 0 {
		cand, ok = w.scan(today, true, anchorMonday)
		if !ok {
			return time.Time{}, fmt.Errorf("weekly interval %d days %q: %w", w.Interval, w.Days, ErrScanBound)
		}
	}
	return cand, nil
}

// scan walks forward day by day until it hits an allowed weekday in an
// aligned week. The bound guarantees termination on malformed input.
func (w Weekly) scan(from time.Time, inclusive bool, anchorMonday time.Time) (time.Time, bool) {
	cand := from
	if !inclusive {
		cand = cand.AddDate(0, 0, 1)
	}
	bound := 7 * w.Interval * 10
	for i := 0; i < bound; i++ {
		if w.Days.Contains(cand.Weekday()) {
			weeks := daysBetween(anchorMonday, mondayOf(cand)) / 7
			if weeks%w.Interval == 0 {
				return cand, true
			}
		}
		cand = cand.AddDate(0, 0, 1)
	}
	return time.Time{}, false
}

func (m Monthly) next(base time.Time, inclusive bool, anchor, today time.Time) (time.Time, error) {
	cycles := wholeMonthsBetween(anchor, today) / m.Interval
	if cycles < 0 {
		cycles = 0
	}
	cand := anchor.AddDate(0, cycles*m.Interval, 0)
	for i := 0; !m.cleared(cand, base, inclusive, today); i++ {
		if i > 2 {
			return time.Time{}, fmt.Errorf("monthly interval %d: %w", m.Interval, ErrScanBound)
		}
		cand = cand.AddDate(0, m.Interval, 0)
	}
	return cand, nil
}

// cleared reports whether cand is past both today and the base date. First
// runs accept the base/today itself; later runs must move strictly forward.
func (m Monthly) cleared(cand, base time.Time, inclusive bool, today time.Time) bool {
	if inclusive {
		return !cand.Before(today) && !cand.Before(base)
	}
	return cand.After(today) && cand.After(base)
}

// startOfDay truncates t to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// mondayOf returns midnight of the Monday of t's week.
func mondayOf(t time.Time) time.Time {
	d := startOfDay(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// daysBetween counts calendar days from a to b, ignoring time of day. The
// UTC re-anchoring keeps DST transitions from producing 23/25-hour days.
func daysBetween(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au) / (24 * time.Hour))
}

// wholeMonthsBetween counts full months from a to b, respecting day of
// month: Jan 31 -> Mar 1 is one whole month, not two.
func wholeMonthsBetween(a, b time.Time) int {
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if b.Day() < a.Day() {
		months--
	}
	return months
}
