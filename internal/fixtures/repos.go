// Package fixtures provides in-memory repository implementations and entity
// builders for service-level tests. The fakes mirror the conditional-update
// semantics of the PostgreSQL repositories: a transition whose precondition
// no longer holds reports zero rows affected instead of failing.
package fixtures

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shiftwatch/attendance-backend-go/internal/domain/attendance"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/audit"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/breaks"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/employee"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/notification"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/schedule"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/session"
)

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// ==========================================
// SCHEDULE
// ==========================================

type ScheduleRepo struct {
	mu        sync.Mutex
	Schedules []schedule.Schedule
}

func NewScheduleRepo(schedules ...schedule.Schedule) *ScheduleRepo {
	return &ScheduleRepo{Schedules: schedules}
}

func (r *ScheduleRepo) GetByID(_ context.Context, id string) (schedule.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.Schedules {
		if s.ID == id {
			return s, nil
		}
	}
	return schedule.Schedule{}, schedule.ErrScheduleNotFound
}

func (r *ScheduleRepo) GetActive(_ context.Context) (schedule.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var active []schedule.Schedule
	for _, s := range r.Schedules {
		if s.Status == schedule.StatusActive {
			active = append(active, s)
		}
	}
	switch len(active) {
	case 0:
		return schedule.Schedule{}, schedule.ErrNoActiveSchedule
	case 1:
		return active[0], nil
	default:
		return schedule.Schedule{}, schedule.ErrMultipleActiveSchedules
	}
}

// ==========================================
// SESSION
// ==========================================

type SessionRepo struct {
	mu       sync.Mutex
	Sessions []session.AttendanceSession
}

func NewSessionRepo(sessions ...session.AttendanceSession) *SessionRepo {
	return &SessionRepo{Sessions: sessions}
}

func (r *SessionRepo) Create(_ context.Context, s session.AttendanceSession) (session.AttendanceSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.Sessions {
		if existing.ScheduleID == s.ScheduleID && sameDay(existing.Date, s.Date) {
			return session.AttendanceSession{}, session.ErrSessionExists
		}
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	r.Sessions = append(r.Sessions, s)
	return s, nil
}

func (r *SessionRepo) GetByScheduleAndDate(_ context.Context, scheduleID string, date time.Time) (*session.AttendanceSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.Sessions {
		if s.ScheduleID == scheduleID && sameDay(s.Date, date) {
			found := s
			return &found, nil
		}
	}
	return nil, nil
}

func (r *SessionRepo) ListActiveBefore(_ context.Context, date time.Time) ([]session.AttendanceSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []session.AttendanceSession
	for _, s := range r.Sessions {
		if s.Status == session.StatusActive && s.Date.Before(date) && !sameDay(s.Date, date) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *SessionRepo) ListActiveAsOf(_ context.Context, date time.Time) ([]session.AttendanceSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []session.AttendanceSession
	for _, s := range r.Sessions {
		if s.Status == session.StatusActive && (s.Date.Before(date) || sameDay(s.Date, date)) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *SessionRepo) Lock(_ context.Context, id string, lockedAt time.Time, lockedBy string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Sessions {
		if r.Sessions[i].ID == id && r.Sessions[i].Status == session.StatusActive {
			r.Sessions[i].Status = session.StatusLocked
			r.Sessions[i].LockedAt = &lockedAt
			r.Sessions[i].LockedBy = &lockedBy
			return true, nil
		}
	}
	return false, nil
}

func (r *SessionRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []session.AttendanceSession
	var deleted int64
	for _, s := range r.Sessions {
		if s.Date.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, s)
	}
	r.Sessions = kept
	return deleted, nil
}

// Get returns the stored session by ID for assertions.
func (r *SessionRepo) Get(id string) (session.AttendanceSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.Sessions {
		if s.ID == id {
			return s, true
		}
	}
	return session.AttendanceSession{}, false
}

// ==========================================
// ATTENDANCE
// ==========================================

type AttendanceRepo struct {
	mu      sync.Mutex
	Records []attendance.AttendanceRecord

	// Breaks, when set, backs the NOT EXISTS condition of
	// ListLegacyOpenBreaks the same way the SQL join does.
	Breaks *BreakRepo
}

func NewAttendanceRepo(records ...attendance.AttendanceRecord) *AttendanceRepo {
	return &AttendanceRepo{Records: records}
}

func (r *AttendanceRepo) Create(_ context.Context, rec attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.Records {
		if existing.UserID == rec.UserID && sameDay(existing.AttendanceDate, rec.AttendanceDate) {
			return attendance.AttendanceRecord{}, attendance.ErrRecordExists
		}
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	r.Records = append(r.Records, rec)
	return rec, nil
}

func (r *AttendanceRepo) SeedPending(_ context.Context, sessionID string, date time.Time, userIDs []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var inserted int64
	for _, userID := range userIDs {
		exists := false
		for _, existing := range r.Records {
			if existing.UserID == userID && sameDay(existing.AttendanceDate, date) {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		r.Records = append(r.Records, attendance.AttendanceRecord{
			ID:             uuid.NewString(),
			SessionID:      sessionID,
			UserID:         userID,
			AttendanceDate: date,
			Status:         attendance.StatusPending,
		})
		inserted++
	}
	return inserted, nil
}

func (r *AttendanceRepo) GetByID(_ context.Context, id string) (attendance.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.Records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return attendance.AttendanceRecord{}, attendance.ErrRecordNotFound
}

func (r *AttendanceRepo) GetByUserAndDate(_ context.Context, userID string, date time.Time) (*attendance.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.Records {
		if rec.UserID == userID && sameDay(rec.AttendanceDate, date) {
			found := rec
			return &found, nil
		}
	}
	return nil, nil
}

func (r *AttendanceRepo) SetCheckIn(_ context.Context, id string, timeIn time.Time, status attendance.Status, minutesLate int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Records {
		rec := &r.Records[i]
		if rec.ID == id && rec.Status == attendance.StatusPending && rec.TimeIn == nil {
			rec.TimeIn = &timeIn
			rec.Status = status
			rec.MinutesLate = minutesLate
			return true, nil
		}
	}
	return false, nil
}

func (r *AttendanceRepo) SetCheckOut(_ context.Context, id string, timeOut time.Time, hoursWorked float64, overtimeMinutes int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Records {
		rec := &r.Records[i]
		if rec.ID == id && rec.TimeOut == nil {
			rec.TimeOut = &timeOut
			rec.HoursWorked = hoursWorked
			rec.OvertimeMinutes = overtimeMinutes
			return true, nil
		}
	}
	return false, nil
}

func (r *AttendanceRepo) MarkAbsent(_ context.Context, sessionID string) ([]attendance.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var swept []attendance.AttendanceRecord
	for i := range r.Records {
		rec := &r.Records[i]
		if rec.SessionID == sessionID && rec.Status == attendance.StatusPending && rec.TimeIn == nil {
			rec.Status = attendance.StatusAbsent
			swept = append(swept, *rec)
		}
	}
	return swept, nil
}

func (r *AttendanceRepo) ListOpenCheckedIn(_ context.Context) ([]attendance.AttendanceRecord, error) {
	return r.list(func(rec attendance.AttendanceRecord) bool {
		return rec.TimeIn != nil && rec.TimeOut == nil &&
			(rec.Status == attendance.StatusPresent || rec.Status == attendance.StatusLate)
	})
}

func (r *AttendanceRepo) ListWithTimeIn(_ context.Context) ([]attendance.AttendanceRecord, error) {
	return r.list(func(rec attendance.AttendanceRecord) bool {
		return rec.TimeIn != nil
	})
}

func (r *AttendanceRepo) ListCompleted(_ context.Context) ([]attendance.AttendanceRecord, error) {
	return r.list(func(rec attendance.AttendanceRecord) bool {
		return rec.TimeIn != nil && rec.TimeOut != nil
	})
}

func (r *AttendanceRepo) ListLegacyOpenBreaks(_ context.Context) ([]attendance.AttendanceRecord, error) {
	return r.list(func(rec attendance.AttendanceRecord) bool {
		if rec.BreakStart == nil || rec.BreakEnd != nil {
			return false
		}
		if r.Breaks != nil && r.Breaks.hasOpen(rec.ID) {
			return false
		}
		return true
	})
}

func (r *AttendanceRepo) list(match func(attendance.AttendanceRecord) bool) ([]attendance.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []attendance.AttendanceRecord
	for _, rec := range r.Records {
		if match(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *AttendanceRepo) UpdateDerived(_ context.Context, id string, status attendance.Status, minutesLate int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Records {
		if r.Records[i].ID == id {
			r.Records[i].Status = status
			r.Records[i].MinutesLate = minutesLate
			return true, nil
		}
	}
	return false, nil
}

func (r *AttendanceRepo) UpdateHours(_ context.Context, id string, hours float64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Records {
		if r.Records[i].ID == id {
			r.Records[i].HoursWorked = hours
			return true, nil
		}
	}
	return false, nil
}

func (r *AttendanceRepo) ApplyAutoCheckout(_ context.Context, id string, timeOut time.Time, note string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Records {
		rec := &r.Records[i]
		if rec.ID == id && rec.TimeOut == nil {
			rec.TimeOut = &timeOut
			rec.AutoCheckout = true
			if rec.Notes != nil && *rec.Notes != "" {
				joined := *rec.Notes + "\n" + note
				rec.Notes = &joined
			} else {
				n := note
				rec.Notes = &n
			}
			return true, nil
		}
	}
	return false, nil
}

func (r *AttendanceRepo) SetBreakStart(_ context.Context, id string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Records {
		rec := &r.Records[i]
		if rec.ID == id && (rec.BreakStart == nil || rec.BreakEnd != nil) {
			rec.BreakStart = &at
			rec.BreakEnd = nil
			return true, nil
		}
	}
	return false, nil
}

func (r *AttendanceRepo) SetLegacyBreakEnd(_ context.Context, id string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Records {
		rec := &r.Records[i]
		if rec.ID == id && rec.BreakStart != nil && rec.BreakEnd == nil {
			rec.BreakEnd = &at
			return true, nil
		}
	}
	return false, nil
}

func (r *AttendanceRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []attendance.AttendanceRecord
	var deleted int64
	for _, rec := range r.Records {
		if rec.AttendanceDate.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, rec)
	}
	r.Records = kept
	return deleted, nil
}

// Get returns the stored record by ID for assertions.
func (r *AttendanceRepo) Get(id string) (attendance.AttendanceRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.Records {
		if rec.ID == id {
			return rec, true
		}
	}
	return attendance.AttendanceRecord{}, false
}

// ==========================================
// BREAKS
// ==========================================

type BreakRepo struct {
	mu     sync.Mutex
	Breaks []breaks.EmployeeBreak
}

func NewBreakRepo(items ...breaks.EmployeeBreak) *BreakRepo {
	return &BreakRepo{Breaks: items}
}

func (r *BreakRepo) hasOpen(attendanceID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.Breaks {
		if b.AttendanceID == attendanceID && b.BreakEnd == nil {
			return true
		}
	}
	return false
}

func (r *BreakRepo) Create(_ context.Context, b breaks.EmployeeBreak) (breaks.EmployeeBreak, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	r.Breaks = append(r.Breaks, b)
	return b, nil
}

func (r *BreakRepo) GetOpenByAttendance(_ context.Context, attendanceID string) (*breaks.EmployeeBreak, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.Breaks {
		if b.AttendanceID == attendanceID && b.BreakEnd == nil {
			found := b
			return &found, nil
		}
	}
	return nil, nil
}

func (r *BreakRepo) ListOpen(_ context.Context) ([]breaks.EmployeeBreak, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []breaks.EmployeeBreak
	for _, b := range r.Breaks {
		if b.BreakEnd == nil {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *BreakRepo) SumDurationByAttendance(_ context.Context, attendanceID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, b := range r.Breaks {
		if b.AttendanceID == attendanceID && b.BreakEnd != nil {
			total += b.DurationMinutes
		}
	}
	return total, nil
}

func (r *BreakRepo) Close(_ context.Context, id string, end time.Time, durationMinutes int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Breaks {
		b := &r.Breaks[i]
		if b.ID == id && b.BreakEnd == nil {
			b.BreakEnd = &end
			b.DurationMinutes = durationMinutes
			return true, nil
		}
	}
	return false, nil
}

func (r *BreakRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []breaks.EmployeeBreak
	var deleted int64
	for _, b := range r.Breaks {
		if b.BreakDate.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, b)
	}
	r.Breaks = kept
	return deleted, nil
}

// Get returns the stored break by ID for assertions.
func (r *BreakRepo) Get(id string) (breaks.EmployeeBreak, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.Breaks {
		if b.ID == id {
			return b, true
		}
	}
	return breaks.EmployeeBreak{}, false
}

// ==========================================
// AUDIT
// ==========================================

type AuditRepo struct {
	mu      sync.Mutex
	Entries []audit.AuditLog
}

func NewAuditRepo() *AuditRepo {
	return &AuditRepo{}
}

func (r *AuditRepo) Create(_ context.Context, entry audit.AuditLog) (audit.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, entry)
	return entry, nil
}

func (r *AuditRepo) LatestHash(_ context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Entries) == 0 {
		return "", nil
	}
	return r.Entries[len(r.Entries)-1].Hash, nil
}

func (r *AuditRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []audit.AuditLog
	var deleted int64
	for _, e := range r.Entries {
		if e.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	r.Entries = kept
	return deleted, nil
}

// ByAction returns the recorded entries carrying the given action.
func (r *AuditRepo) ByAction(action string) []audit.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []audit.AuditLog
	for _, e := range r.Entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

// ==========================================
// SETTINGS
// ==========================================

// Settings is a map-backed settings.Store. Values are held as their string
// representation, matching the key-value table the real store reads.
type Settings struct {
	mu     sync.Mutex
	Values map[string]string
}

func NewSettings() *Settings {
	return &Settings{Values: make(map[string]string)}
}

// Set stores a raw value for key and returns the store for chaining.
func (s *Settings) Set(key, value string) *Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Values[key] = value
	return s
}

// SetBool stores a boolean value for key.
func (s *Settings) SetBool(key string, v bool) *Settings {
	return s.Set(key, strconv.FormatBool(v))
}

func (s *Settings) raw(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.Values[key]
	return v, ok
}

func (s *Settings) Bool(_ context.Context, key string, def bool) (bool, error) {
	v, ok := s.raw(key)
	if !ok {
		return def, nil
	}
	return strconv.ParseBool(strings.TrimSpace(v))
}

func (s *Settings) Int(_ context.Context, key string, def int) (int, error) {
	v, ok := s.raw(key)
	if !ok {
		return def, nil
	}
	return strconv.Atoi(strings.TrimSpace(v))
}

func (s *Settings) String(_ context.Context, key string, def string) (string, error) {
	v, ok := s.raw(key)
	if !ok {
		return def, nil
	}
	return v, nil
}

func (s *Settings) TimeOfDay(_ context.Context, key string, def time.Time) (time.Time, error) {
	v, ok := s.raw(key)
	if !ok {
		return def, nil
	}
	return time.Parse("15:04", strings.TrimSpace(v))
}

// ==========================================
// EMPLOYEES
// ==========================================

type EmployeeRepo struct {
	Employees []employee.Employee
}

func NewEmployeeRepo(employees ...employee.Employee) *EmployeeRepo {
	return &EmployeeRepo{Employees: employees}
}

func (r *EmployeeRepo) ListActive(_ context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range r.Employees {
		if e.EmploymentStatus == employee.StatusActive {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *EmployeeRepo) ListManagers(_ context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range r.Employees {
		if e.EmploymentStatus == employee.StatusActive && e.IsManager {
			out = append(out, e)
		}
	}
	return out, nil
}

// ==========================================
// NOTIFICATIONS
// ==========================================

type NotificationRepo struct {
	mu     sync.Mutex
	Queued []notification.Notification
}

func NewNotificationRepo() *NotificationRepo {
	return &NotificationRepo{}
}

func (r *NotificationRepo) Create(_ context.Context, n notification.Notification) (notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	r.Queued = append(r.Queued, n)
	return n, nil
}

func (r *NotificationRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []notification.Notification
	var deleted int64
	for _, n := range r.Queued {
		if n.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	r.Queued = kept
	return deleted, nil
}

// ByType returns the queued notifications of the given type.
func (r *NotificationRepo) ByType(t notification.NotificationType) []notification.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []notification.Notification
	for _, n := range r.Queued {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}
