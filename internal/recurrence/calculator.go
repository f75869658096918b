// Package recurrence computes next due dates for recurring plans. It is
// pure: no clock access, no I/O. Callers pass the reference time explicitly
// and own all plan bookkeeping.
package recurrence

import (
	"time"

	"taskplanner/internal/model"
)

// Next computes the next due date for a plan.
//
// last is the due date of the most recent occurrence; nil means the plan has
// never generated one, in which case the search starts inclusively at the
// plan's start date (or today when no start is set). A non-nil result is
// always strictly after a non-nil last.
//
// A nil result with a nil error means the plan should not generate: it is
// paused, has no recurrence, or has run past its end date.
func Next(plan *model.RecurringPlan, last *time.Time, now time.Time) (*time.Time, error) {
	if plan.Status != model.PlanStatusActive || plan.RecurrenceType == model.RecurrenceNone {
		return nil, nil
	}

	rule, err := FromPlan(plan)
	if err != nil {
		return nil, err
	}

	var base time.Time
	inclusive := false
	if last != nil {
		base = *last
	} else {
		inclusive = true
		if plan.RecurrenceStart != nil {
			base = *plan.RecurrenceStart
		} else {
			base = now
		}
	}

	// Interval alignment anchors on the plan's start week/month; a plan
	// without an explicit start aligns on the base date instead.
	anchor := base
	if plan.RecurrenceStart != nil {
		anchor = *plan.RecurrenceStart
	}

	next, err := rule.next(base, inclusive, anchor, startOfDay(now))
	if err != nil {
		return nil, err
	}

	if plan.RecurrenceEnd != nil && next.After(*plan.RecurrenceEnd) {
		return nil, nil
	}
	return &next, nil
}
