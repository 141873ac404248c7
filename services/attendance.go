package services

import (
	"context"
	"errors"
	"time"

	"WorkForce360/models"
	"WorkForce360/repository"
	"WorkForce360/util"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	maxCASAttempts   = 3
	staleSessionNote = "auto-closed: missing clock-out"
)

const (
	DayNotStarted = "not_started"
	DayClockedIn  = "clocked_in"
	DayAvailable  = "available"
)

// IdentityLookup resolves the employee behind a clock operation.
type IdentityLookup interface {
	FindUserByID(ctx context.Context, t repository.Tenant, id primitive.ObjectID) (*models.Identity, error)
}

type AttendanceService struct {
	records repository.AttendanceRepository
	people  IdentityLookup
	orgs    repository.OrganizationRepository
	loc     *time.Location
	now     clock
	log     *logrus.Logger
}

// NewAttendanceService uses loc for organizations without a valid timezone.
func NewAttendanceService(records repository.AttendanceRepository, people IdentityLookup,
	orgs repository.OrganizationRepository, loc *time.Location, log *logrus.Logger) *AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceService{records: records, people: people, orgs: orgs, loc: loc, now: time.Now, log: log}
}

func (s *AttendanceService) WithClock(now func() time.Time) *AttendanceService {
	s.now = now
	return s
}

type MarkInput struct {
	Notes        string
	WorkFromHome bool
}

type MarkResult struct {
	Record   *models.AttendanceRecord
	IsUpdate bool
}

type ClockInResult struct {
	SessionID  primitive.ObjectID `json:"sessionId"`
	CheckIn    time.Time          `json:"checkIn"`
	Date       time.Time          `json:"date"`
	Status     string             `json:"status"`
	Notes      string             `json:"notes,omitempty"`
	IsUpdate   bool               `json:"isUpdate"`
	IsLoggedIn bool               `json:"isLoggedIn"`
}

type ClockOutResult struct {
	SessionID       primitive.ObjectID `json:"sessionId"`
	FirstClockIn    time.Time          `json:"firstClockIn"`
	LastClockOut    time.Time          `json:"lastClockOut"`
	TotalHoursToday float64            `json:"totalHoursToday"`
	Status          string             `json:"status"`
	IsLoggedIn      bool               `json:"isLoggedIn"`
}

type SessionView struct {
	ID           primitive.ObjectID `json:"id"`
	CheckIn      time.Time          `json:"checkIn"`
	LastCheckIn  *time.Time         `json:"lastCheckIn,omitempty"`
	CheckOut     *time.Time         `json:"checkOut,omitempty"`
	TotalHours   float64            `json:"totalHours"`
	Status       string             `json:"status"`
	IsLoggedIn   bool               `json:"isLoggedIn"`
	SessionCount int                `json:"sessionCount"`
}

type DailySummary struct {
	TotalHours          float64      `json:"totalHours"`
	CompletedHours      float64      `json:"completedHours"`
	CurrentSessionHours float64      `json:"currentSessionHours"`
	SessionsCount       int          `json:"sessionsCount"`
	ActiveSession       *SessionView `json:"activeSession"`
}

type TodayStatus struct {
	Status       string        `json:"status"`
	CanClockIn   bool          `json:"canClockIn"`
	CanClockOut  bool          `json:"canClockOut"`
	Sessions     []SessionView `json:"sessions"`
	DailySummary DailySummary  `json:"dailySummary"`
}

type MonthlySummary struct {
	PresentDays  int     `json:"presentDays"`
	LateDays     int     `json:"lateDays"`
	HalfDays     int     `json:"halfDays"`
	WFHDays      int     `json:"wfhDays"`
	AbsentDays   int     `json:"absentDays"`
	TotalHours   float64 `json:"totalHours"`
	AverageHours float64 `json:"averageHours"`
}

type MonthlyAttendance struct {
	EmployeeID primitive.ObjectID        `json:"employeeId"`
	Year       int                       `json:"year"`
	Month      int                       `json:"month"`
	Records    []models.AttendanceRecord `json:"records"`
	Summary    MonthlySummary            `json:"summary"`
}

type DailyAttendance struct {
	Date      time.Time                 `json:"date"`
	Records   []models.AttendanceRecord `json:"records"`
	Counts    map[string]int            `json:"counts"`
	ClockedIn int                       `json:"clockedIn"`
	Total     int                       `json:"total"`
}

/*
* Load the organization settings and timezone
* Unknown organizations fall back to the defaults
 */
func (s *AttendanceService) schedule(ctx context.Context, t repository.Tenant) (models.OrganizationSettings, *time.Location, error) {
	org, err := s.orgs.FindByCode(ctx, t.Code())
	if errors.Is(err, repository.ErrNotFound) {
		return models.DefaultSettings(), s.loc, nil
	}
	if err != nil {
		return models.OrganizationSettings{}, nil, storeError(err, util.ORGANIZATION_NOT_FOUND)
	}
	return org.Settings, organizationLocation(org, s.loc), nil
}

func (s *AttendanceService) activeEmployee(ctx context.Context, t repository.Tenant, id primitive.ObjectID) (*models.Identity, error) {
	employee, err := s.people.FindUserByID(ctx, t, id)
	if err != nil {
		return nil, storeError(err, util.EMPLOYEE_NOT_FOUND)
	}
	if !employee.IsActive() {
		return nil, util.Validation(util.EMPLOYEE_NOT_ACTIVE)
	}
	return employee, nil
}

// arrivalStatus is late when checkIn is after the start of the working day plus the grace period.
func arrivalStatus(settings models.OrganizationSettings, loc *time.Location, checkIn time.Time) string {
	start, err := util.ParseClock(settings.WorkStartTime)
	if err != nil {
		start, _ = util.ParseClock(models.DefaultWorkStartTime)
	}
	threshold := util.NormalizeDate(checkIn, loc).
		Add(start).
		Add(time.Duration(settings.LateGraceMinutes) * time.Minute)
	if checkIn.After(threshold) {
		return models.AttendanceLate
	}
	return models.AttendancePresent
}

func closeStatus(settings models.OrganizationSettings, loc *time.Location, rec *models.AttendanceRecord) string {
	if rec.Status == models.AttendanceWorkFromHome {
		return rec.Status
	}
	halfDay := settings.HalfDayHours
	if halfDay <= 0 {
		halfDay = models.DefaultHalfDayHours
	}
	if rec.TotalHours < halfDay {
		return models.AttendanceHalfDay
	}
	return arrivalStatus(settings, loc, rec.CheckIn)
}

// currentRecord prefers the open record of the day, otherwise the latest one.
func currentRecord(records []models.AttendanceRecord) *models.AttendanceRecord {
	if len(records) == 0 {
		return nil
	}
	for i := range records {
		if records[i].IsOpen() {
			return &records[i]
		}
	}
	return &records[len(records)-1]
}

/*
* Verify the employee is active
* No record for the day: open a new one
* Closed record: reopen it keeping the first check-in and the stored hours
* Open record: acknowledge without changes
 */
func (s *AttendanceService) MarkAttendance(ctx context.Context, t repository.Tenant, employeeID primitive.ObjectID,
	checkInTime time.Time, in MarkInput, actor Actor) (*MarkResult, error) {
	if _, err := s.activeEmployee(ctx, t, employeeID); err != nil {
		return nil, err
	}
	settings, loc, err := s.schedule(ctx, t)
	if err != nil {
		return nil, err
	}
	day := util.NormalizeDate(checkInTime, loc)

	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		records, err := s.records.FindForDay(ctx, t, employeeID, day)
		if err != nil {
			return nil, storeError(err, util.ATTENDANCE_NOT_FOUND)
		}
		existing := currentRecord(records)

		if existing == nil {
			status := arrivalStatus(settings, loc, checkInTime)
			if in.WorkFromHome {
				status = models.AttendanceWorkFromHome
			}
			lastCheckIn := checkInTime
			rec := &models.AttendanceRecord{
				EmployeeID:       employeeID,
				OrganizationCode: t.Code(),
				Date:             day,
				CheckIn:          checkInTime,
				LastCheckIn:      &lastCheckIn,
				Status:           status,
				Notes:            in.Notes,
				IsLoggedIn:       true,
				SessionCount:     1,
				CreatedAt:        s.now(),
				CreatedBy:        actor.UserID,
				UpdatedAt:        s.now(),
				UpdatedBy:        actor.UserID,
			}
			err := s.records.Insert(ctx, rec)
			if errors.Is(err, repository.ErrDuplicate) {
				continue
			}
			if err != nil {
				logFailure(s.log, err, logrus.Fields{"employeeId": employeeID.Hex(), "organizationCode": t.Code()})
				return nil, storeError(err, util.ATTENDANCE_NOT_FOUND)
			}
			return &MarkResult{Record: rec, IsUpdate: false}, nil
		}

		if existing.IsOpen() {
			return &MarkResult{Record: existing, IsUpdate: true}, nil
		}

		lastCheckIn := checkInTime
		existing.IsLoggedIn = true
		existing.CheckOut = nil
		existing.LastCheckIn = &lastCheckIn
		existing.SessionCount++
		if in.Notes != "" {
			existing.Notes = in.Notes
		}
		existing.UpdatedAt = s.now()
		existing.UpdatedBy = actor.UserID

		err = s.records.Replace(ctx, t, existing)
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		if err != nil {
			logFailure(s.log, err, logrus.Fields{"recordId": existing.ID.Hex(), "organizationCode": t.Code()})
			return nil, storeError(err, util.ATTENDANCE_NOT_FOUND)
		}
		s.log.WithFields(logrus.Fields{
			"recordId":     existing.ID.Hex(),
			"sessionCount": existing.SessionCount,
		}).Debug("attendance session reopened")
		return &MarkResult{Record: existing, IsUpdate: true}, nil
	}
	return nil, util.Conflict(util.ATTENDANCE_BUSY)
}

/*
* Close the session: the day's hours run from the first check-in to this check-out
 */
func (s *AttendanceService) MarkCheckOut(ctx context.Context, t repository.Tenant, recordID primitive.ObjectID,
	checkOutTime time.Time, notes string, actor Actor) (*models.AttendanceRecord, error) {
	settings, loc, err := s.schedule(ctx, t)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		rec, err := s.records.FindByID(ctx, t, recordID)
		if err != nil {
			return nil, storeError(err, util.ATTENDANCE_NOT_FOUND)
		}
		if rec.CheckIn.IsZero() {
			return nil, util.Validation(util.MISSING_CHECK_IN)
		}
		if rec.CheckOut != nil {
			return nil, util.Validation(util.ALREADY_CHECKED_OUT)
		}
		if !checkOutTime.After(rec.CheckIn) {
			return nil, util.Validation(util.CHECK_OUT_BEFORE_CHECK_IN)
		}

		checkOut := checkOutTime
		rec.CheckOut = &checkOut
		rec.TotalHours = util.HoursBetween(rec.CheckIn, checkOutTime)
		rec.IsLoggedIn = false
		rec.Status = closeStatus(settings, loc, rec)
		if notes != "" {
			rec.Notes = notes
		}
		rec.UpdatedAt = s.now()
		rec.UpdatedBy = actor.UserID

		err = s.records.Replace(ctx, t, rec)
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		if err != nil {
			logFailure(s.log, err, logrus.Fields{"recordId": recordID.Hex(), "organizationCode": t.Code()})
			return nil, storeError(err, util.ATTENDANCE_NOT_FOUND)
		}
		return rec, nil
	}
	return nil, util.Conflict(util.ATTENDANCE_BUSY)
}

func (s *AttendanceService) ClockIn(ctx context.Context, t repository.Tenant, employeeID primitive.ObjectID,
	in MarkInput, actor Actor) (*ClockInResult, error) {
	res, err := s.MarkAttendance(ctx, t, employeeID, s.now(), in, actor)
	if err != nil {
		return nil, err
	}
	rec := res.Record
	return &ClockInResult{
		SessionID:  rec.ID,
		CheckIn:    rec.CheckIn,
		Date:       rec.Date,
		Status:     rec.Status,
		Notes:      rec.Notes,
		IsUpdate:   res.IsUpdate,
		IsLoggedIn: rec.IsLoggedIn,
	}, nil
}

func (s *AttendanceService) ClockOut(ctx context.Context, t repository.Tenant, employeeID primitive.ObjectID,
	notes string, actor Actor) (*ClockOutResult, error) {
	_, loc, err := s.schedule(ctx, t)
	if err != nil {
		return nil, err
	}
	now := s.now()
	day := util.NormalizeDate(now, loc)

	records, err := s.records.FindForDay(ctx, t, employeeID, day)
	if err != nil {
		return nil, storeError(err, util.ATTENDANCE_NOT_FOUND)
	}
	open := currentRecord(records)
	if open == nil || !open.IsOpen() {
		return nil, util.Validation(util.NO_OPEN_SESSION)
	}

	rec, err := s.MarkCheckOut(ctx, t, open.ID, now, notes, actor)
	if err != nil {
		return nil, err
	}

	total := rec.TotalHours
	for _, other := range records {
		if other.ID != rec.ID {
			total += other.TotalHours
		}
	}
	return &ClockOutResult{
		SessionID:       rec.ID,
		FirstClockIn:    rec.CheckIn,
		LastClockOut:    *rec.CheckOut,
		TotalHoursToday: util.Round2(total),
		Status:          rec.Status,
		IsLoggedIn:      rec.IsLoggedIn,
	}, nil
}

/*
* totalHours spans the first check-in to the last check-out, or to now while open
* completedHours is what was stored at the last close
* currentSessionHours is the remainder while a session is open
 */
func (s *AttendanceService) GetTodayStatus(ctx context.Context, t repository.Tenant, employeeID primitive.ObjectID,
	today time.Time) (*TodayStatus, error) {
	_, loc, err := s.schedule(ctx, t)
	if err != nil {
		return nil, err
	}
	records, err := s.records.FindForDay(ctx, t, employeeID, util.NormalizeDate(today, loc))
	if err != nil {
		return nil, storeError(err, util.ATTENDANCE_NOT_FOUND)
	}

	now := s.now()
	out := &TodayStatus{Sessions: make([]SessionView, 0, len(records))}
	var total, completed, current float64

	for i := range records {
		rec := records[i]
		view := SessionView{
			ID:           rec.ID,
			CheckIn:      rec.CheckIn,
			LastCheckIn:  rec.LastCheckIn,
			CheckOut:     rec.CheckOut,
			TotalHours:   rec.TotalHours,
			Status:       rec.Status,
			IsLoggedIn:   rec.IsLoggedIn,
			SessionCount: rec.SessionCount,
		}
		out.Sessions = append(out.Sessions, view)
		out.DailySummary.SessionsCount += max(rec.SessionCount, 1)

		completed += rec.TotalHours
		if rec.IsOpen() {
			span := 0.0
			if now.After(rec.CheckIn) {
				span = util.HoursBetween(rec.CheckIn, now)
			}
			total += span
			current += max(span-rec.TotalHours, 0)
			active := view
			out.DailySummary.ActiveSession = &active
			continue
		}
		total += rec.TotalHours
	}

	out.DailySummary.TotalHours = util.Round2(total)
	out.DailySummary.CompletedHours = util.Round2(completed)
	out.DailySummary.CurrentSessionHours = util.Round2(current)

	switch {
	case len(records) == 0:
		out.Status = DayNotStarted
	case out.DailySummary.ActiveSession != nil:
		out.Status = DayClockedIn
	default:
		out.Status = DayAvailable
	}
	out.CanClockIn = out.DailySummary.ActiveSession == nil
	out.CanClockOut = out.DailySummary.ActiveSession != nil
	return out, nil
}

func (s *AttendanceService) ResetToday(ctx context.Context, t repository.Tenant, employeeID primitive.ObjectID,
	today time.Time) (int64, error) {
	_, loc, err := s.schedule(ctx, t)
	if err != nil {
		return 0, err
	}
	deleted, err := s.records.DeleteForDay(ctx, t, employeeID, util.NormalizeDate(today, loc))
	if err != nil {
		logFailure(s.log, err, logrus.Fields{"employeeId": employeeID.Hex(), "organizationCode": t.Code()})
		return 0, storeError(err, util.ATTENDANCE_NOT_FOUND)
	}
	s.log.WithFields(logrus.Fields{
		"employeeId":       employeeID.Hex(),
		"organizationCode": t.Code(),
		"deleted":          deleted,
	}).Info("attendance reset for today")
	return deleted, nil
}

/*
* Count statuses over the month
* Working days before today without a record (and after joining) are absent
 */
func (s *AttendanceService) GetMonthlyAttendance(ctx context.Context, t repository.Tenant, employeeID primitive.ObjectID,
	year, month int) (*MonthlyAttendance, error) {
	if month < 1 || month > 12 || year < 2000 || year > 2100 {
		return nil, util.Validation(util.INVALID_PERIOD)
	}
	employee, err := s.people.FindUserByID(ctx, t, employeeID)
	if err != nil {
		return nil, storeError(err, util.EMPLOYEE_NOT_FOUND)
	}
	settings, loc, err := s.schedule(ctx, t)
	if err != nil {
		return nil, err
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	to := from.AddDate(0, 1, 0)
	records, err := s.records.FindByEmployeeBetween(ctx, t, employeeID, from, to)
	if err != nil {
		return nil, storeError(err, util.ATTENDANCE_NOT_FOUND)
	}

	out := &MonthlyAttendance{EmployeeID: employeeID, Year: year, Month: month, Records: records}
	attended := map[string]bool{}
	for _, rec := range records {
		attended[rec.Date.In(loc).Format(util.DateLayout)] = true
		out.Summary.TotalHours += rec.TotalHours
		switch rec.Status {
		case models.AttendancePresent:
			out.Summary.PresentDays++
		case models.AttendanceLate:
			out.Summary.LateDays++
		case models.AttendanceHalfDay:
			out.Summary.HalfDays++
		case models.AttendanceWorkFromHome:
			out.Summary.WFHDays++
		}
	}

	today := util.NormalizeDate(s.now(), loc)
	for d := from; d.Before(to) && d.Before(today); d = d.AddDate(0, 0, 1) {
		if employee.JoiningDate != nil && d.Before(util.NormalizeDate(*employee.JoiningDate, loc)) {
			continue
		}
		if settings.IsWorkingDay(d.Weekday()) && !attended[d.Format(util.DateLayout)] {
			out.Summary.AbsentDays++
		}
	}

	out.Summary.TotalHours = util.Round2(out.Summary.TotalHours)
	if len(attended) > 0 {
		out.Summary.AverageHours = util.Round2(out.Summary.TotalHours / float64(len(attended)))
	}
	return out, nil
}

// GetDailyAttendanceOn reads a YYYY-MM-DD date in the organization's timezone; empty means today.
func (s *AttendanceService) GetDailyAttendanceOn(ctx context.Context, t repository.Tenant, date string) (*DailyAttendance, error) {
	if date == "" {
		return s.GetDailyAttendance(ctx, t, s.now())
	}
	_, loc, err := s.schedule(ctx, t)
	if err != nil {
		return nil, err
	}
	day, err := util.ParseDate(date, loc)
	if err != nil {
		return nil, err
	}
	return s.GetDailyAttendance(ctx, t, day)
}

func (s *AttendanceService) GetDailyAttendance(ctx context.Context, t repository.Tenant, day time.Time) (*DailyAttendance, error) {
	_, loc, err := s.schedule(ctx, t)
	if err != nil {
		return nil, err
	}
	date := util.NormalizeDate(day, loc)
	records, err := s.records.FindByDay(ctx, t, date)
	if err != nil {
		return nil, storeError(err, util.ATTENDANCE_NOT_FOUND)
	}
	out := &DailyAttendance{Date: date, Records: records, Counts: map[string]int{}, Total: len(records)}
	for _, rec := range records {
		out.Counts[rec.Status]++
		if rec.IsOpen() {
			out.ClockedIn++
		}
	}
	return out, nil
}

/*
* Sessions left open on a day that ended before the cutoff are marked logged out
* The check-out stays empty so no hours are invented
 */
func (s *AttendanceService) SweepStaleSessions(ctx context.Context, before time.Time) (int, error) {
	stale, err := s.records.FindOpenBefore(ctx, before)
	if err != nil {
		return 0, storeError(err, util.ATTENDANCE_NOT_FOUND)
	}
	closed := 0
	for i := range stale {
		rec := &stale[i]
		rec.IsLoggedIn = false
		if rec.Notes == "" {
			rec.Notes = staleSessionNote
		} else {
			rec.Notes += "; " + staleSessionNote
		}
		rec.UpdatedAt = s.now()
		rec.UpdatedBy = SystemActor.UserID

		if err := s.records.Replace(ctx, repository.Tenant(rec.OrganizationCode), rec); err != nil {
			s.log.WithFields(logrus.Fields{
				"recordId":         rec.ID.Hex(),
				"organizationCode": rec.OrganizationCode,
			}).WithError(err).Warn("could not close stale attendance session")
			continue
		}
		closed++
	}
	if closed > 0 {
		s.log.WithField("closed", closed).Info("stale attendance sessions closed")
	}
	return closed, nil
}
