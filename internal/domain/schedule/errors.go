package schedule

import "errors"

var (
	ErrScheduleNotFound        = errors.New("schedule not found")
	ErrNoActiveSchedule        = errors.New("no active schedule configured")
	ErrMultipleActiveSchedules = errors.New("more than one active schedule configured")
)
