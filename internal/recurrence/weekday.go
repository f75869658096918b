package recurrence

import (
	"fmt"
	"strings"
	"time"
)

// WeekdaySet is a bitmask of allowed weekdays, indexed by time.Weekday.
type WeekdaySet uint8

var weekdayNames = map[string]time.Weekday{
	"Mon": time.Monday,
	"Tue": time.Tuesday,
	"Wed": time.Wednesday,
	"Thu": time.Thursday,
	"Fri": time.Friday,
	"Sat": time.Saturday,
	"Sun": time.Sunday,
}

// ParseWeekdays parses a comma-separated list of short English day names
// ("Mon,Wed,Fri") as stored on a plan. An empty string yields the empty set.
func ParseWeekdays(csv string) (WeekdaySet, error) {
	var set WeekdaySet
	if strings.TrimSpace(csv) == "" {
		return set, nil
	}
	for _, part := range strings.Split(csv, ",") {
		name := strings.TrimSpace(part)
		day, ok := weekdayNames[name]
		if !ok {
			return 0, fmt.Errorf("unknown weekday %q", name)
		}
		set |= 1 << uint(day)
	}
	return set, nil
}

func (s WeekdaySet) Contains(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

func (s WeekdaySet) Empty() bool {
	return s == 0
}

// String renders the set in Monday-first order, matching the stored format.
func (s WeekdaySet) String() string {
	order := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}
	names := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	var out []string
	for _, d := range order {
		if s.Contains(d) {
			out = append(out, names[d])
		}
	}
	return strings.Join(out, ",")
}
