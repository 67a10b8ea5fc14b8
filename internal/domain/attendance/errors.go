package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in errors
	ErrAlreadyCheckedIn  = errors.New("already checked in for this attendance day")
	ErrNotCheckedIn      = errors.New("not checked in yet")
	ErrAlreadyCheckedOut = errors.New("already checked out")

	// Break errors
	ErrBreakAlreadyOpen = errors.New("a break is already open")
	ErrNoOpenBreak      = errors.New("no open break to end")

	// General errors
	ErrRecordNotFound = errors.New("attendance record not found")
	ErrRecordExists   = errors.New("attendance record already exists for this user and date")
	ErrInvalidStatus  = errors.New("invalid attendance status")
)
