package upsell

import "time"

// TimeSlot is a daily activation window with inclusive "HH:MM" bounds,
// compared as strings the same way the back office stores them.
type TimeSlot struct {
	Start string
	End   string
}

// Schedule gates when a campaign may fire: an optional date range, specific
// weekdays, and time-of-day slots. Empty fields mean "always".
type Schedule struct {
	StartDate *time.Time
	EndDate   *time.Time
	Days      []time.Weekday
	Slots     []TimeSlot
}

// ActiveAt reports whether the schedule admits the given instant.
func (s Schedule) ActiveAt(now time.Time) bool {
	if s.StartDate != nil && now.Before(*s.StartDate) {
		return false
	}
	if s.EndDate != nil && now.After(*s.EndDate) {
		return false
	}
	if len(s.Days) > 0 && !containsDay(s.Days, now.Weekday()) {
		return false
	}
	if len(s.Slots) > 0 && !inAnySlot(s.Slots, now) {
		return false
	}
	return true
}

func containsDay(days []time.Weekday, d time.Weekday) bool {
	for _, day := range days {
		if day == d {
			return true
		}
	}
	return false
}

func inAnySlot(slots []TimeSlot, now time.Time) bool {
	hhmm := now.Format("15:04")
	for _, s := range slots {
		if s.Start <= hhmm && hhmm <= s.End {
			return true
		}
	}
	return false
}
