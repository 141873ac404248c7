package services

import (
	"context"
	"testing"
	"time"

	"WorkForce360/models"
	"WorkForce360/repository"
	"WorkForce360/role"
	"WorkForce360/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testOrg = "ACME01"

var tenant = repository.Tenant(testOrg)

func at(day, clock string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", day+" "+clock, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

type attendanceFixture struct {
	records *fakeAttendance
	users   *fakeUsers
	orgs    *fakeOrgs
	svc     *AttendanceService
	now     time.Time
	actor   Actor
	worker  *models.User
}

func newAttendanceFixture(t *testing.T) *attendanceFixture {
	t.Helper()
	f := &attendanceFixture{
		records: newFakeAttendance(),
		users:   newFakeUsers(),
		orgs:    newFakeOrgs(),
		now:     at("2026-03-02", "09:00"),
	}
	f.worker = &models.User{FullName: "Dana Reyes", Email: "dana@acme.io", Role: role.Employee,
		Status: models.UserStatusActive, OrganizationCode: testOrg}
	require.NoError(t, f.users.Create(context.Background(), f.worker))
	f.actor = Actor{UserID: f.worker.ID.Hex(), Level: role.Employee, OrganizationCode: testOrg}
	people := NewUserService(f.users, newFakeRoles(), f.orgs, quietLogger())
	f.svc = NewAttendanceService(f.records, people, f.orgs, time.UTC, quietLogger()).
		WithClock(func() time.Time { return f.now })
	return f
}

func (f *attendanceFixture) mark(t *testing.T, when time.Time) *MarkResult {
	t.Helper()
	res, err := f.svc.MarkAttendance(context.Background(), tenant, f.worker.ID, when, MarkInput{}, f.actor)
	require.NoError(t, err)
	return res
}

func (f *attendanceFixture) checkOut(t *testing.T, id primitive.ObjectID, when time.Time) *models.AttendanceRecord {
	t.Helper()
	rec, err := f.svc.MarkCheckOut(context.Background(), tenant, id, when, "", f.actor)
	require.NoError(t, err)
	return rec
}

func TestMarkAttendanceCreatesRecord(t *testing.T) {
	f := newAttendanceFixture(t)

	res := f.mark(t, at("2026-03-02", "09:05"))

	assert.False(t, res.IsUpdate)
	assert.Equal(t, at("2026-03-02", "00:00"), res.Record.Date)
	assert.Equal(t, models.AttendancePresent, res.Record.Status)
	assert.True(t, res.Record.IsLoggedIn)
	assert.Equal(t, 1, res.Record.SessionCount)
	assert.Len(t, f.records.docs, 1)
}

func TestMarkAttendanceLateAfterGrace(t *testing.T) {
	f := newAttendanceFixture(t)

	res := f.mark(t, at("2026-03-02", "09:16"))

	assert.Equal(t, models.AttendanceLate, res.Record.Status)
}

func TestMarkAttendanceWorkFromHome(t *testing.T) {
	f := newAttendanceFixture(t)

	res, err := f.svc.MarkAttendance(context.Background(), tenant, f.worker.ID, at("2026-03-02", "10:30"),
		MarkInput{WorkFromHome: true}, f.actor)
	require.NoError(t, err)
	rec := f.checkOut(t, res.Record.ID, at("2026-03-02", "19:00"))

	assert.Equal(t, models.AttendanceWorkFromHome, rec.Status)
}

func TestMarkAttendanceOpenSessionIsAcknowledged(t *testing.T) {
	f := newAttendanceFixture(t)
	first := f.mark(t, at("2026-03-02", "09:00"))

	again := f.mark(t, at("2026-03-02", "09:30"))

	assert.True(t, again.IsUpdate)
	assert.Equal(t, first.Record.ID, again.Record.ID)
	assert.Equal(t, at("2026-03-02", "09:00"), again.Record.CheckIn)
	assert.Equal(t, 1, again.Record.SessionCount)
}

func TestReopenKeepsFirstCheckIn(t *testing.T) {
	f := newAttendanceFixture(t)
	first := f.mark(t, at("2026-03-02", "09:00"))
	f.checkOut(t, first.Record.ID, at("2026-03-02", "12:00"))

	reopened := f.mark(t, at("2026-03-02", "13:00"))

	assert.True(t, reopened.IsUpdate)
	assert.Equal(t, first.Record.ID, reopened.Record.ID)
	assert.Equal(t, at("2026-03-02", "09:00"), reopened.Record.CheckIn)
	assert.Nil(t, reopened.Record.CheckOut)
	assert.Equal(t, at("2026-03-02", "13:00"), *reopened.Record.LastCheckIn)
	assert.Equal(t, 3.0, reopened.Record.TotalHours)
	assert.Equal(t, 2, reopened.Record.SessionCount)
	assert.Len(t, f.records.docs, 1)
}

func TestSplitDayTotalsFirstInToLastOut(t *testing.T) {
	f := newAttendanceFixture(t)
	first := f.mark(t, at("2026-03-02", "09:00"))
	f.checkOut(t, first.Record.ID, at("2026-03-02", "12:00"))
	f.mark(t, at("2026-03-02", "13:00"))

	rec := f.checkOut(t, first.Record.ID, at("2026-03-02", "18:00"))

	assert.Equal(t, 9.0, rec.TotalHours)
	assert.Equal(t, at("2026-03-02", "09:00"), rec.CheckIn)
	assert.Equal(t, at("2026-03-02", "18:00"), *rec.CheckOut)
	assert.False(t, rec.IsLoggedIn)
	assert.Equal(t, models.AttendancePresent, rec.Status)
}

func TestCheckOutValidation(t *testing.T) {
	f := newAttendanceFixture(t)
	res := f.mark(t, at("2026-03-02", "09:00"))

	_, err := f.svc.MarkCheckOut(context.Background(), tenant, res.Record.ID, at("2026-03-02", "08:00"), "", f.actor)
	assert.True(t, util.IsKind(err, util.KindValidation))
	assert.Contains(t, err.Error(), util.CHECK_OUT_BEFORE_CHECK_IN)

	_, err = f.svc.MarkCheckOut(context.Background(), tenant, res.Record.ID, at("2026-03-02", "09:00"), "", f.actor)
	assert.True(t, util.IsKind(err, util.KindValidation))

	f.checkOut(t, res.Record.ID, at("2026-03-02", "17:00"))
	_, err = f.svc.MarkCheckOut(context.Background(), tenant, res.Record.ID, at("2026-03-02", "18:00"), "", f.actor)
	assert.True(t, util.IsKind(err, util.KindValidation))
	assert.Contains(t, err.Error(), util.ALREADY_CHECKED_OUT)

	_, err = f.svc.MarkCheckOut(context.Background(), tenant, primitive.NewObjectID(), at("2026-03-02", "18:00"), "", f.actor)
	assert.True(t, util.IsKind(err, util.KindNotFound))
}

func TestShortDayIsHalfDay(t *testing.T) {
	f := newAttendanceFixture(t)
	res := f.mark(t, at("2026-03-02", "09:00"))

	rec := f.checkOut(t, res.Record.ID, at("2026-03-02", "12:30"))

	assert.Equal(t, 3.5, rec.TotalHours)
	assert.Equal(t, models.AttendanceHalfDay, rec.Status)
}

func TestMarkAttendanceInactiveEmployee(t *testing.T) {
	f := newAttendanceFixture(t)
	f.worker.Status = models.UserStatusSuspended
	require.NoError(t, f.users.Update(context.Background(), tenant, f.worker))

	_, err := f.svc.MarkAttendance(context.Background(), tenant, f.worker.ID, f.now, MarkInput{}, f.actor)

	assert.True(t, util.IsKind(err, util.KindValidation))
	assert.Empty(t, f.records.docs)
}

func TestMarkAttendanceOtherTenant(t *testing.T) {
	f := newAttendanceFixture(t)

	_, err := f.svc.MarkAttendance(context.Background(), repository.Tenant("OTHER1"), f.worker.ID, f.now, MarkInput{}, f.actor)

	assert.True(t, util.IsKind(err, util.KindNotFound))
}

func TestReopenRetriesOnConcurrentWrite(t *testing.T) {
	f := newAttendanceFixture(t)
	first := f.mark(t, at("2026-03-02", "09:00"))
	f.checkOut(t, first.Record.ID, at("2026-03-02", "12:00"))

	raced := false
	f.records.beforeReplace = func(id primitive.ObjectID) {
		if raced {
			return
		}
		raced = true
		stored := f.records.docs[id]
		stored.Version++
		f.records.docs[id] = stored
	}
	res := f.mark(t, at("2026-03-02", "13:00"))

	assert.True(t, raced)
	assert.True(t, res.IsUpdate)
	assert.Equal(t, 2, res.Record.SessionCount)
	assert.Equal(t, at("2026-03-02", "09:00"), res.Record.CheckIn)
}

func TestReopenGivesUpWhenAlwaysRaced(t *testing.T) {
	f := newAttendanceFixture(t)
	first := f.mark(t, at("2026-03-02", "09:00"))
	f.checkOut(t, first.Record.ID, at("2026-03-02", "12:00"))

	f.records.beforeReplace = func(id primitive.ObjectID) {
		stored := f.records.docs[id]
		stored.Version++
		f.records.docs[id] = stored
	}
	_, err := f.svc.MarkAttendance(context.Background(), tenant, f.worker.ID, at("2026-03-02", "13:00"), MarkInput{}, f.actor)

	assert.True(t, util.IsKind(err, util.KindConflict))
}

func TestClockInAndOut(t *testing.T) {
	f := newAttendanceFixture(t)

	in, err := f.svc.ClockIn(context.Background(), tenant, f.worker.ID, MarkInput{Notes: "office"}, f.actor)
	require.NoError(t, err)
	assert.False(t, in.IsUpdate)
	assert.True(t, in.IsLoggedIn)

	f.now = at("2026-03-02", "17:30")
	out, err := f.svc.ClockOut(context.Background(), tenant, f.worker.ID, "", f.actor)
	require.NoError(t, err)

	assert.Equal(t, in.SessionID, out.SessionID)
	assert.Equal(t, 8.5, out.TotalHoursToday)
	assert.Equal(t, at("2026-03-02", "09:00"), out.FirstClockIn)
	assert.False(t, out.IsLoggedIn)
}

func TestClockOutWithoutSession(t *testing.T) {
	f := newAttendanceFixture(t)

	_, err := f.svc.ClockOut(context.Background(), tenant, f.worker.ID, "", f.actor)

	assert.True(t, util.IsKind(err, util.KindValidation))
	assert.Contains(t, err.Error(), util.NO_OPEN_SESSION)
}

func TestTodayStatus(t *testing.T) {
	f := newAttendanceFixture(t)
	day := at("2026-03-02", "00:00")

	status, err := f.svc.GetTodayStatus(context.Background(), tenant, f.worker.ID, day)
	require.NoError(t, err)
	assert.Equal(t, DayNotStarted, status.Status)
	assert.True(t, status.CanClockIn)
	assert.False(t, status.CanClockOut)
	assert.Empty(t, status.Sessions)

	first := f.mark(t, at("2026-03-02", "09:00"))
	f.checkOut(t, first.Record.ID, at("2026-03-02", "12:00"))
	f.mark(t, at("2026-03-02", "13:00"))
	f.now = at("2026-03-02", "15:00")

	status, err = f.svc.GetTodayStatus(context.Background(), tenant, f.worker.ID, day)
	require.NoError(t, err)
	assert.Equal(t, DayClockedIn, status.Status)
	assert.False(t, status.CanClockIn)
	assert.True(t, status.CanClockOut)
	require.NotNil(t, status.DailySummary.ActiveSession)
	assert.Equal(t, 6.0, status.DailySummary.TotalHours)
	assert.Equal(t, 3.0, status.DailySummary.CompletedHours)
	assert.Equal(t, 3.0, status.DailySummary.CurrentSessionHours)
	assert.Equal(t, 2, status.DailySummary.SessionsCount)

	f.checkOut(t, first.Record.ID, at("2026-03-02", "18:00"))
	status, err = f.svc.GetTodayStatus(context.Background(), tenant, f.worker.ID, day)
	require.NoError(t, err)
	assert.Equal(t, DayAvailable, status.Status)
	assert.Nil(t, status.DailySummary.ActiveSession)
	assert.Equal(t, 9.0, status.DailySummary.TotalHours)
	assert.Equal(t, 0.0, status.DailySummary.CurrentSessionHours)
}

func TestResetToday(t *testing.T) {
	f := newAttendanceFixture(t)
	f.mark(t, at("2026-03-02", "09:00"))

	deleted, err := f.svc.ResetToday(context.Background(), tenant, f.worker.ID, at("2026-03-02", "11:00"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	res := f.mark(t, at("2026-03-02", "11:05"))
	assert.False(t, res.IsUpdate)
}

func TestMonthlyAttendance(t *testing.T) {
	f := newAttendanceFixture(t)
	joined := at("2026-03-02", "00:00")
	f.worker.JoiningDate = &joined
	require.NoError(t, f.users.Update(context.Background(), tenant, f.worker))

	// Monday on time, Tuesday late, Wednesday short, Thursday and Friday missing.
	days := []struct{ day, in, out string }{
		{"2026-03-02", "09:00", "18:00"},
		{"2026-03-03", "09:40", "18:00"},
		{"2026-03-04", "09:00", "11:00"},
	}
	for _, d := range days {
		res := f.mark(t, at(d.day, d.in))
		f.checkOut(t, res.Record.ID, at(d.day, d.out))
	}
	f.now = at("2026-03-07", "10:00")

	month, err := f.svc.GetMonthlyAttendance(context.Background(), tenant, f.worker.ID, 2026, 3)
	require.NoError(t, err)

	assert.Len(t, month.Records, 3)
	assert.Equal(t, 1, month.Summary.PresentDays)
	assert.Equal(t, 1, month.Summary.LateDays)
	assert.Equal(t, 1, month.Summary.HalfDays)
	assert.Equal(t, 2, month.Summary.AbsentDays)
	assert.InDelta(t, 19.33, month.Summary.TotalHours, 0.001)
	assert.InDelta(t, 6.44, month.Summary.AverageHours, 0.001)

	_, err = f.svc.GetMonthlyAttendance(context.Background(), tenant, f.worker.ID, 2026, 13)
	assert.True(t, util.IsKind(err, util.KindValidation))
}

func TestDailyAttendance(t *testing.T) {
	f := newAttendanceFixture(t)
	colleague := &models.User{FullName: "Lee Park", Email: "lee@acme.io", Role: role.Employee,
		Status: models.UserStatusActive, OrganizationCode: testOrg}
	require.NoError(t, f.users.Create(context.Background(), colleague))

	f.mark(t, at("2026-03-02", "09:00"))
	_, err := f.svc.MarkAttendance(context.Background(), tenant, colleague.ID, at("2026-03-02", "09:45"), MarkInput{}, f.actor)
	require.NoError(t, err)

	daily, err := f.svc.GetDailyAttendance(context.Background(), tenant, at("2026-03-02", "12:00"))
	require.NoError(t, err)

	assert.Equal(t, 2, daily.Total)
	assert.Equal(t, 2, daily.ClockedIn)
	assert.Equal(t, 1, daily.Counts[models.AttendancePresent])
	assert.Equal(t, 1, daily.Counts[models.AttendanceLate])
}

func TestSweepStaleSessions(t *testing.T) {
	f := newAttendanceFixture(t)
	f.mark(t, at("2026-03-02", "09:00"))
	f.now = at("2026-03-03", "09:00")
	today := f.mark(t, at("2026-03-03", "09:00"))

	closed, err := f.svc.SweepStaleSessions(context.Background(), at("2026-03-03", "00:00"))
	require.NoError(t, err)
	assert.Equal(t, 1, closed)

	for _, rec := range f.records.docs {
		if rec.ID == today.Record.ID {
			assert.True(t, rec.IsLoggedIn)
			continue
		}
		assert.False(t, rec.IsLoggedIn)
		assert.Nil(t, rec.CheckOut)
		assert.Equal(t, 0.0, rec.TotalHours)
		assert.Equal(t, staleSessionNote, rec.Notes)
	}
}

type countingLookup struct {
	identity *models.Identity
	calls    int
}

func (c *countingLookup) FindUserByID(_ context.Context, _ repository.Tenant, _ primitive.ObjectID) (*models.Identity, error) {
	c.calls++
	if c.identity == nil {
		return nil, util.NotFound(util.EMPLOYEE_NOT_FOUND)
	}
	return c.identity, nil
}

func TestClockOperationsResolveIdentityFirst(t *testing.T) {
	records := newFakeAttendance()
	lookup := &countingLookup{identity: &models.Identity{ID: primitive.NewObjectID(), Status: models.UserStatusInactive}}
	svc := NewAttendanceService(records, lookup, newFakeOrgs(), time.UTC, quietLogger())

	_, err := svc.ClockIn(context.Background(), tenant, lookup.identity.ID, MarkInput{}, SystemActor)
	assert.True(t, util.IsKind(err, util.KindValidation))
	assert.Equal(t, 1, lookup.calls)
	assert.Empty(t, records.docs)

	lookup.identity = nil
	_, err = svc.ClockIn(context.Background(), tenant, primitive.NewObjectID(), MarkInput{}, SystemActor)
	assert.True(t, util.IsKind(err, util.KindNotFound))
	assert.Equal(t, 2, lookup.calls)
}

func TestDailyAttendanceOnReadsDateInFallbackZone(t *testing.T) {
	f := newAttendanceFixture(t)
	west := time.FixedZone("UTC-5", -5*3600)
	people := NewUserService(f.users, newFakeRoles(), f.orgs, quietLogger())
	svc := NewAttendanceService(f.records, people, f.orgs, west, quietLogger()).
		WithClock(func() time.Time { return time.Date(2026, 3, 2, 12, 0, 0, 0, west) })
	require.NoError(t, f.orgs.Create(context.Background(), &models.Organization{Code: testOrg, Name: "Acme",
		Settings: models.DefaultSettings()}))

	_, err := svc.MarkAttendance(context.Background(), tenant, f.worker.ID,
		time.Date(2026, 3, 2, 9, 0, 0, 0, west), MarkInput{}, f.actor)
	require.NoError(t, err)

	daily, err := svc.GetDailyAttendanceOn(context.Background(), tenant, "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, 1, daily.Total)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, west), daily.Date)

	today, err := svc.GetDailyAttendanceOn(context.Background(), tenant, "")
	require.NoError(t, err)
	assert.Equal(t, 1, today.Total)

	_, err = svc.GetDailyAttendanceOn(context.Background(), tenant, "02/03/2026")
	assert.True(t, util.IsKind(err, util.KindValidation))
}
