// Package shift holds the pure time arithmetic shared by every attendance
// engine: shift window resolution (including overnight wrap), cutoff
// placement and worked-hours math. Nothing here reads the clock or touches
// storage; callers pass every instant in.
package shift

import "time"

// At anchors a time-of-day onto the calendar date of day, preserving the
// date's location.
func At(day time.Time, timeOfDay time.Time) time.Time {
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		timeOfDay.Hour(), timeOfDay.Minute(), timeOfDay.Second(), 0,
		day.Location(),
	)
}

// Window computes the concrete start and end instants of a shift on a given
// date. If the configured end time-of-day is numerically earlier than the
// start, the shift crosses midnight and the end lands on the next calendar
// day. A timeIn equal to timeOut yields a 24-hour window.
//
// This is the single wrap rule in the codebase; every engine that needs a
// shift boundary goes through here.
func Window(day time.Time, timeIn, timeOut time.Time) (start, end time.Time) {
	start = At(day, timeIn)
	end = At(day, timeOut)
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end
}

// CutoffAt places a wall-clock cutoff time-of-day relative to a shift start,
// using the same wrap rule as Window: if the cutoff instant on the shift's
// start date is not after the shift start, it belongs to the following day.
// For a 23:00 shift with a 01:00 cutoff this yields 01:00 the next morning.
func CutoffAt(shiftStart time.Time, cutoff time.Time) time.Time {
	at := At(shiftStart, cutoff)
	if !at.After(shiftStart) {
		at = at.AddDate(0, 0, 1)
	}
	return at
}

// MinutesLate returns whole minutes between the shift start and a check-in,
// floored, never negative. Lateness is measured from the shift start, not
// from the end of the grace period.
func MinutesLate(shiftStart, checkIn time.Time) int {
	diff := checkIn.Sub(shiftStart)
	if diff <= 0 {
		return 0
	}
	return int(diff.Minutes())
}
