package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"WorkForce360/models"
	"WorkForce360/repository"
	"WorkForce360/util"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LeaveService struct {
	types repository.LeaveTypeRepository
	apps  repository.LeaveApplicationRepository
	users repository.UserRepository
	orgs  repository.OrganizationRepository
	roles *RoleService
	loc   *time.Location
	now   clock
	log   *logrus.Logger
}

func NewLeaveService(types repository.LeaveTypeRepository, apps repository.LeaveApplicationRepository,
	users repository.UserRepository, orgs repository.OrganizationRepository, roles *RoleService,
	loc *time.Location, log *logrus.Logger) *LeaveService {
	if loc == nil {
		loc = time.UTC
	}
	return &LeaveService{types: types, apps: apps, users: users, orgs: orgs, roles: roles, loc: loc, now: time.Now, log: log}
}

func (s *LeaveService) WithClock(now func() time.Time) *LeaveService {
	s.now = now
	return s
}

type LeaveTypeInput struct {
	Name        string  `json:"name" binding:"required"`
	Code        string  `json:"code"`
	Description string  `json:"description"`
	DaysPerYear float64 `json:"daysPerYear" binding:"gte=0"`
	IsPaid      bool    `json:"isPaid"`
}

type LeaveTypeUpdate struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	DaysPerYear *float64 `json:"daysPerYear" binding:"omitempty,gte=0"`
	IsPaid      *bool    `json:"isPaid"`
	IsActive    *bool    `json:"isActive"`
}

// ApplyLeaveInput dates are YYYY-MM-DD in the organization's timezone.
type ApplyLeaveInput struct {
	EmployeeID  string `json:"employeeId"`
	LeaveTypeID string `json:"leaveTypeId" binding:"required"`
	StartDate   string `json:"startDate" binding:"required"`
	EndDate     string `json:"endDate" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
}

func (s *LeaveService) location(ctx context.Context, t repository.Tenant) *time.Location {
	org, err := s.orgs.FindByCode(ctx, t.Code())
	if err != nil {
		return s.loc
	}
	return organizationLocation(org, s.loc)
}

func (s *LeaveService) CreateLeaveType(ctx context.Context, t repository.Tenant, in LeaveTypeInput, actor Actor) (*models.LeaveType, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, util.Validation("leave type name is required")
	}
	if in.DaysPerYear < 0 {
		return nil, util.Validation("days per year must not be negative")
	}
	_, err := s.types.FindByName(ctx, t, name)
	if err == nil {
		return nil, util.Conflict(util.LEAVE_TYPE_EXISTS)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeError(err, util.LEAVE_TYPE_NOT_FOUND)
	}
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if code == "" {
		code = strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
	}
	now := s.now()
	lt := &models.LeaveType{
		OrganizationCode: t.Code(),
		Name:             name,
		Code:             code,
		Description:      in.Description,
		DaysPerYear:      in.DaysPerYear,
		IsPaid:           in.IsPaid,
		IsActive:         true,
		CreatedAt:        now,
		CreatedBy:        actor.UserID,
		UpdatedAt:        now,
		UpdatedBy:        actor.UserID,
	}
	if err := s.types.Create(ctx, lt); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, util.Conflict(util.LEAVE_TYPE_EXISTS)
		}
		logFailure(s.log, err, logrus.Fields{"organizationCode": t.Code()})
		return nil, storeError(err, util.LEAVE_TYPE_NOT_FOUND)
	}
	return lt, nil
}

func (s *LeaveService) ListLeaveTypes(ctx context.Context, t repository.Tenant) ([]models.LeaveType, error) {
	types, err := s.types.List(ctx, t)
	if err != nil {
		return nil, storeError(err, util.LEAVE_TYPE_NOT_FOUND)
	}
	return types, nil
}

func (s *LeaveService) UpdateLeaveType(ctx context.Context, t repository.Tenant, id primitive.ObjectID, in LeaveTypeUpdate, actor Actor) (*models.LeaveType, error) {
	lt, err := s.types.FindByID(ctx, t, id)
	if err != nil {
		return nil, storeError(err, util.LEAVE_TYPE_NOT_FOUND)
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, util.Validation("leave type name is required")
		}
		if name != lt.Name {
			if _, err := s.types.FindByName(ctx, t, name); err == nil {
				return nil, util.Conflict(util.LEAVE_TYPE_EXISTS)
			}
		}
		lt.Name = name
	}
	if in.Description != nil {
		lt.Description = *in.Description
	}
	if in.DaysPerYear != nil {
		if *in.DaysPerYear < 0 {
			return nil, util.Validation("days per year must not be negative")
		}
		lt.DaysPerYear = *in.DaysPerYear
	}
	if in.IsPaid != nil {
		lt.IsPaid = *in.IsPaid
	}
	if in.IsActive != nil {
		lt.IsActive = *in.IsActive
	}
	lt.UpdatedAt = s.now()
	lt.UpdatedBy = actor.UserID
	if err := s.types.Update(ctx, t, lt); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, util.Conflict(util.LEAVE_TYPE_EXISTS)
		}
		logFailure(s.log, err, logrus.Fields{"leaveTypeId": id.Hex()})
		return nil, storeError(err, util.LEAVE_TYPE_NOT_FOUND)
	}
	return lt, nil
}

func (s *LeaveService) DeleteLeaveType(ctx context.Context, t repository.Tenant, id primitive.ObjectID) error {
	if _, err := s.types.FindByID(ctx, t, id); err != nil {
		return storeError(err, util.LEAVE_TYPE_NOT_FOUND)
	}
	refs, err := s.apps.CountByLeaveType(ctx, t, id)
	if err != nil {
		return storeError(err, util.LEAVE_NOT_FOUND)
	}
	if refs > 0 {
		return util.Conflict(util.LEAVE_TYPE_IN_USE)
	}
	if err := s.types.Delete(ctx, t, id); err != nil {
		return storeError(err, util.LEAVE_TYPE_NOT_FOUND)
	}
	return nil
}

// authorizeFor lets callers act on their own records or on users they outrank.
func (s *LeaveService) authorizeFor(ctx context.Context, t repository.Tenant, employeeID primitive.ObjectID, actor Actor) (*models.User, error) {
	employee, err := s.users.FindByID(ctx, t, employeeID)
	if err != nil {
		return nil, storeError(err, util.EMPLOYEE_NOT_FOUND)
	}
	if employee.ID.Hex() == actor.UserID || actor.IsSuperAdmin() || actor.Level.Outranks(employee.Role) {
		return employee, nil
	}
	return nil, util.Forbidden(util.INSUFFICIENT_AUTHORITY)
}

/*
* Validate the range and the leave type
* Reject overlaps with pending or approved applications
* The year's balance of the type must cover the requested days
 */
func (s *LeaveService) ApplyLeave(ctx context.Context, t repository.Tenant, in ApplyLeaveInput, actor Actor) (*models.LeaveApplication, error) {
	employeeHex := in.EmployeeID
	if employeeHex == "" {
		employeeHex = actor.UserID
	}
	employeeID, err := ParseID(employeeHex)
	if err != nil {
		return nil, err
	}
	employee, err := s.authorizeFor(ctx, t, employeeID, actor)
	if err != nil {
		return nil, err
	}
	if !employee.IsActive() {
		return nil, util.Validation(util.EMPLOYEE_NOT_ACTIVE)
	}

	loc := s.location(ctx, t)
	start, err := util.ParseDate(in.StartDate, loc)
	if err != nil {
		return nil, err
	}
	end, err := util.ParseDate(in.EndDate, loc)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, util.Validation(util.LEAVE_INVALID_RANGE)
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, util.Validation("reason is required")
	}

	leaveTypeID, err := ParseID(in.LeaveTypeID)
	if err != nil {
		return nil, err
	}
	lt, err := s.types.FindByID(ctx, t, leaveTypeID)
	if err != nil {
		return nil, storeError(err, util.LEAVE_TYPE_NOT_FOUND)
	}
	if !lt.IsActive {
		return nil, util.Validation(util.LEAVE_TYPE_INACTIVE)
	}

	overlaps, err := s.apps.FindBlockingOverlaps(ctx, t, employeeID, start, end)
	if err != nil {
		return nil, storeError(err, util.LEAVE_NOT_FOUND)
	}
	if len(overlaps) > 0 {
		return nil, util.Conflict(util.LEAVE_OVERLAP)
	}

	totalDays := util.InclusiveDays(start, end)
	balance, err := s.balanceFor(ctx, t, employeeID, start.Year(), *lt, loc)
	if err != nil {
		return nil, err
	}
	if float64(totalDays) > balance.Available {
		return nil, util.Validation(util.LEAVE_INSUFFICIENT_BALANCE)
	}

	now := s.now()
	app := &models.LeaveApplication{
		OrganizationCode: t.Code(),
		EmployeeID:       employeeID,
		LeaveTypeID:      leaveTypeID,
		StartDate:        start,
		EndDate:          end,
		TotalDays:        totalDays,
		Reason:           strings.TrimSpace(in.Reason),
		Status:           models.LeavePending,
		AppliedAt:        now,
		UpdatedAt:        now,
		UpdatedBy:        actor.UserID,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		logFailure(s.log, err, logrus.Fields{"employeeId": employeeID.Hex()})
		return nil, storeError(err, util.LEAVE_NOT_FOUND)
	}
	return app, nil
}

// decide moves a pending application on behalf of an actor who outranks the applicant.
func (s *LeaveService) decide(ctx context.Context, t repository.Tenant, id primitive.ObjectID, actor Actor,
	apply func(app *models.LeaveApplication, by primitive.ObjectID, at time.Time)) (*models.LeaveApplication, error) {
	app, err := s.apps.FindByID(ctx, t, id)
	if err != nil {
		return nil, storeError(err, util.LEAVE_NOT_FOUND)
	}
	if app.Status != models.LeavePending {
		return nil, util.Conflict(util.LEAVE_NOT_PENDING)
	}
	applicant, err := s.users.FindByID(ctx, t, app.EmployeeID)
	if err != nil {
		return nil, storeError(err, util.EMPLOYEE_NOT_FOUND)
	}
	if !actor.IsSuperAdmin() && !actor.Level.Outranks(applicant.Role) {
		return nil, util.Forbidden(util.INSUFFICIENT_AUTHORITY)
	}
	by, _ := primitive.ObjectIDFromHex(actor.UserID)
	now := s.now()
	apply(app, by, now)
	app.UpdatedAt = now
	app.UpdatedBy = actor.UserID

	if err := s.apps.UpdateIfStatus(ctx, t, app, models.LeavePending); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, util.Conflict(util.LEAVE_NOT_PENDING)
		}
		logFailure(s.log, err, logrus.Fields{"leaveId": id.Hex()})
		return nil, storeError(err, util.LEAVE_NOT_FOUND)
	}
	return app, nil
}

func (s *LeaveService) ApproveLeave(ctx context.Context, t repository.Tenant, id primitive.ObjectID, actor Actor) (*models.LeaveApplication, error) {
	return s.decide(ctx, t, id, actor, func(app *models.LeaveApplication, by primitive.ObjectID, at time.Time) {
		app.Status = models.LeaveApproved
		app.ApprovedBy = &by
		app.ApprovedAt = &at
	})
}

func (s *LeaveService) RejectLeave(ctx context.Context, t repository.Tenant, id primitive.ObjectID, reason string, actor Actor) (*models.LeaveApplication, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, util.Validation(util.REJECTION_REASON)
	}
	return s.decide(ctx, t, id, actor, func(app *models.LeaveApplication, by primitive.ObjectID, at time.Time) {
		app.Status = models.LeaveRejected
		app.RejectedBy = &by
		app.RejectedAt = &at
		app.RejectionReason = reason
	})
}

// CancelLeave is allowed from pending or approved until the leave starts.
func (s *LeaveService) CancelLeave(ctx context.Context, t repository.Tenant, id primitive.ObjectID, actor Actor) (*models.LeaveApplication, error) {
	app, err := s.apps.FindByID(ctx, t, id)
	if err != nil {
		return nil, storeError(err, util.LEAVE_NOT_FOUND)
	}
	if _, err := s.authorizeFor(ctx, t, app.EmployeeID, actor); err != nil {
		return nil, err
	}
	if !app.Blocking() {
		return nil, util.Conflict(util.LEAVE_NOT_CANCELLABLE)
	}
	loc := s.location(ctx, t)
	if app.StartDate.Before(util.NormalizeDate(s.now(), loc)) {
		return nil, util.Validation(util.LEAVE_ALREADY_STARTED)
	}

	previous := app.Status
	now := s.now()
	app.Status = models.LeaveCancelled
	app.CancelledAt = &now
	app.UpdatedAt = now
	app.UpdatedBy = actor.UserID
	if err := s.apps.UpdateIfStatus(ctx, t, app, previous); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, util.Conflict(util.LEAVE_NOT_CANCELLABLE)
		}
		logFailure(s.log, err, logrus.Fields{"leaveId": id.Hex()})
		return nil, storeError(err, util.LEAVE_NOT_FOUND)
	}
	return app, nil
}

func (s *LeaveService) ListLeaveApplications(ctx context.Context, t repository.Tenant, filter repository.LeaveFilter) ([]models.LeaveApplication, error) {
	apps, err := s.apps.List(ctx, t, filter)
	if err != nil {
		return nil, storeError(err, util.LEAVE_NOT_FOUND)
	}
	return apps, nil
}

func (s *LeaveService) yearApplications(ctx context.Context, t repository.Tenant, employeeID primitive.ObjectID,
	year int, loc *time.Location) ([]models.LeaveApplication, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	apps, err := s.apps.FindByEmployeeBetween(ctx, t, employeeID, from, from.AddDate(1, 0, 0))
	if err != nil {
		return nil, storeError(err, util.LEAVE_NOT_FOUND)
	}
	return apps, nil
}

func balanceOf(lt models.LeaveType, apps []models.LeaveApplication) models.LeaveBalance {
	b := models.LeaveBalance{LeaveTypeID: lt.ID, Name: lt.Name, Allocated: lt.DaysPerYear}
	for _, app := range apps {
		if app.LeaveTypeID != lt.ID {
			continue
		}
		switch app.Status {
		case models.LeaveApproved:
			b.Used += float64(app.TotalDays)
		case models.LeavePending:
			b.Pending += float64(app.TotalDays)
		}
	}
	b.Available = b.Allocated - b.Used - b.Pending
	return b
}

func (s *LeaveService) balanceFor(ctx context.Context, t repository.Tenant, employeeID primitive.ObjectID,
	year int, lt models.LeaveType, loc *time.Location) (models.LeaveBalance, error) {
	apps, err := s.yearApplications(ctx, t, employeeID, year, loc)
	if err != nil {
		return models.LeaveBalance{}, err
	}
	return balanceOf(lt, apps), nil
}

// GetLeaveBalance reports allocated, used, pending and available days per leave type.
func (s *LeaveService) GetLeaveBalance(ctx context.Context, t repository.Tenant, employeeID primitive.ObjectID, year int) ([]models.LeaveBalance, error) {
	if _, err := s.users.FindByID(ctx, t, employeeID); err != nil {
		return nil, storeError(err, util.EMPLOYEE_NOT_FOUND)
	}
	types, err := s.types.List(ctx, t)
	if err != nil {
		return nil, storeError(err, util.LEAVE_TYPE_NOT_FOUND)
	}
	apps, err := s.yearApplications(ctx, t, employeeID, year, s.location(ctx, t))
	if err != nil {
		return nil, err
	}
	out := make([]models.LeaveBalance, 0, len(types))
	for _, lt := range types {
		out = append(out, balanceOf(lt, apps))
	}
	return out, nil
}

// GetApprovers is the approval chain of an employee: every active user who outranks them.
func (s *LeaveService) GetApprovers(ctx context.Context, t repository.Tenant, employeeID primitive.ObjectID) ([]models.User, error) {
	employee, err := s.users.FindByID(ctx, t, employeeID)
	if err != nil {
		return nil, storeError(err, util.EMPLOYEE_NOT_FOUND)
	}
	return s.roles.GetUsersAboveRole(ctx, t, employee.Role)
}
