package fixtures

import (
	"time"

	"github.com/google/uuid"

	"github.com/shiftwatch/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/breaks"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/employee"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/schedule"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/session"
)

func TimePtr(t time.Time) *time.Time { return &t }
func StrPtr(s string) *string        { return &s }

// TOD builds a bare time-of-day value the way schedule columns store it.
func TOD(hour, minute int) time.Time {
	return time.Date(0, time.January, 1, hour, minute, 0, 0, time.UTC)
}

// DaySchedule returns an active 09:00-17:00 weekday schedule with a
// 15-minute grace period.
func DaySchedule() schedule.Schedule {
	return schedule.Schedule{
		ID:                   uuid.NewString(),
		Name:                 "Standard Office Hours",
		TimeIn:               TOD(9, 0),
		BreakTime:            TimePtr(TOD(12, 0)),
		TimeOut:              TOD(17, 0),
		GracePeriodMinutes:   15,
		LateThresholdMinutes: 15,
		Status:               schedule.StatusActive,
	}
}

// NightSchedule returns an active overnight 23:00-07:00 schedule with a
// 15-minute grace period.
func NightSchedule() schedule.Schedule {
	return schedule.Schedule{
		ID:                   uuid.NewString(),
		Name:                 "Night Shift",
		TimeIn:               TOD(23, 0),
		TimeOut:              TOD(7, 0),
		GracePeriodMinutes:   15,
		LateThresholdMinutes: 15,
		IsOvernight:          true,
		Status:               schedule.StatusActive,
	}
}

// ActiveSession returns an active session for the schedule on the given day.
func ActiveSession(scheduleID string, date time.Time) session.AttendanceSession {
	opened := date
	return session.AttendanceSession{
		ID:                 uuid.NewString(),
		ScheduleID:         scheduleID,
		Date:               date,
		Status:             session.StatusActive,
		OpenedAt:           &opened,
		AttendanceRequired: true,
		SessionType:        "regular",
	}
}

// PendingRecord returns a pending attendance record seeded for a session day.
func PendingRecord(sessionID, userID string, date time.Time) attendance.AttendanceRecord {
	return attendance.AttendanceRecord{
		ID:             uuid.NewString(),
		SessionID:      sessionID,
		UserID:         userID,
		AttendanceDate: date,
		Status:         attendance.StatusPending,
	}
}

// CheckedInRecord returns a present record with the given check-in time.
func CheckedInRecord(sessionID, userID string, date, timeIn time.Time) attendance.AttendanceRecord {
	rec := PendingRecord(sessionID, userID, date)
	rec.TimeIn = &timeIn
	rec.Status = attendance.StatusPresent
	return rec
}

// OpenBreak returns a normalized break started at the given instant with the
// default duration limit.
func OpenBreak(attendanceID, userID string, start time.Time) breaks.EmployeeBreak {
	return breaks.EmployeeBreak{
		ID:            uuid.NewString(),
		AttendanceID:  attendanceID,
		UserID:        userID,
		BreakDate:     start,
		BreakType:     "meal",
		DurationLimit: breaks.DefaultDurationLimitMinutes,
		BreakStart:    start,
	}
}

// Worker returns an active non-manager employee.
func Worker(userID, name string) employee.Employee {
	return employee.Employee{
		ID:               uuid.NewString(),
		UserID:           userID,
		FullName:         name,
		EmploymentStatus: employee.StatusActive,
	}
}

// Manager returns an active employee flagged as a manager.
func Manager(userID, name string) employee.Employee {
	e := Worker(userID, name)
	e.IsManager = true
	return e
}
