package schedule

import "time"

type ScheduleStatus string

const (
	StatusActive   ScheduleStatus = "active"
	StatusInactive ScheduleStatus = "inactive"
)

// Schedule is a named shift template. The time-of-day fields carry only
// hour/minute/second; the engines anchor them onto concrete dates through
// the shift package.
type Schedule struct {
	ID                   string
	Name                 string
	TimeIn               time.Time
	BreakTime            *time.Time
	TimeOut              time.Time
	GracePeriodMinutes   int
	LateThresholdMinutes int
	IsOvernight          bool
	Status               ScheduleStatus
	// WorkDays lists the weekdays the schedule operates on,
	// 1=Monday .. 7=Sunday.
	WorkDays  []int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WorksOn reports whether the schedule operates on the weekday of day.
// An empty WorkDays list means Monday through Friday.
func (s Schedule) WorksOn(day time.Time) bool {
	wd := int(day.Weekday())
	if wd == 0 {
		wd = 7 // time.Sunday is 0, our convention is 7
	}
	if len(s.WorkDays) == 0 {
		return wd <= 5
	}
	for _, d := range s.WorkDays {
		if d == wd {
			return true
		}
	}
	return false
}
