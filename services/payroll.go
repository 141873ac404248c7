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

type PayrollService struct {
	payroll repository.PayrollRepository
	users   repository.UserRepository
	now     clock
	log     *logrus.Logger
}

func NewPayrollService(payroll repository.PayrollRepository, users repository.UserRepository, log *logrus.Logger) *PayrollService {
	return &PayrollService{payroll: payroll, users: users, now: time.Now, log: log}
}

type GeneratePayrollInput struct {
	EmployeeID  string                `json:"employeeId" binding:"required"`
	Month       int                   `json:"month" binding:"required,min=1,max=12"`
	Year        int                   `json:"year" binding:"required,min=2000,max=2100"`
	BasicSalary *float64              `json:"basicSalary" binding:"omitempty,gte=0"`
	Allowances  []models.PayComponent `json:"allowances"`
	Deductions  []models.PayComponent `json:"deductions"`
}

var payrollTransitions = map[string][]string{
	models.PayrollDraft:     {models.PayrollGenerated, models.PayrollCancelled},
	models.PayrollGenerated: {models.PayrollPaid, models.PayrollCancelled},
}

/*
* Fixed components keep their value
* Percentages are taken of the basic salary
 */
func computeComponents(basic float64, components []models.PayComponent) ([]models.PayComponent, float64, error) {
	out := make([]models.PayComponent, 0, len(components))
	total := 0.0
	for _, c := range components {
		if strings.TrimSpace(c.Name) == "" {
			return nil, 0, util.Validation("pay component name is required")
		}
		if c.Value < 0 {
			return nil, 0, util.Validationf("pay component %q must not be negative", c.Name)
		}
		switch c.Type {
		case models.ComponentFixed:
			c.Amount = util.Round2(c.Value)
		case models.ComponentPercentage:
			c.Amount = util.Round2(basic * c.Value / 100)
		default:
			return nil, 0, util.Validation(util.INVALID_COMPONENT)
		}
		total += c.Amount
		out = append(out, c)
	}
	return out, util.Round2(total), nil
}

func (s *PayrollService) GeneratePayroll(ctx context.Context, t repository.Tenant, in GeneratePayrollInput, actor Actor) (*models.PayrollRecord, error) {
	if in.Month < 1 || in.Month > 12 || in.Year < 2000 || in.Year > 2100 {
		return nil, util.Validation(util.INVALID_PERIOD)
	}
	employeeID, err := ParseID(in.EmployeeID)
	if err != nil {
		return nil, err
	}
	employee, err := s.users.FindByID(ctx, t, employeeID)
	if err != nil {
		return nil, storeError(err, util.EMPLOYEE_NOT_FOUND)
	}

	basic := 0.0
	allowances, deductions := in.Allowances, in.Deductions
	if employee.Salary != nil {
		basic = employee.Salary.Basic
		if allowances == nil {
			allowances = employee.Salary.Allowances
		}
		if deductions == nil {
			deductions = employee.Salary.Deductions
		}
	}
	if in.BasicSalary != nil {
		basic = *in.BasicSalary
	}
	if basic < 0 {
		return nil, util.Validation("basic salary must not be negative")
	}

	allowances, totalAllowances, err := computeComponents(basic, allowances)
	if err != nil {
		return nil, err
	}
	deductions, totalDeductions, err := computeComponents(basic, deductions)
	if err != nil {
		return nil, err
	}
	gross := util.Round2(basic + totalAllowances)
	net := util.Round2(gross - totalDeductions)
	if net < 0 {
		return nil, util.Validation(util.NEGATIVE_NET_SALARY)
	}

	_, err = s.payroll.FindByPeriod(ctx, t, employeeID, in.Month, in.Year)
	if err == nil {
		return nil, util.Conflict(util.PAYROLL_EXISTS)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeError(err, util.PAYROLL_NOT_FOUND)
	}

	now := s.now()
	rec := &models.PayrollRecord{
		OrganizationCode: t.Code(),
		EmployeeID:       employeeID,
		Month:            in.Month,
		Year:             in.Year,
		BasicSalary:      util.Round2(basic),
		Allowances:       allowances,
		Deductions:       deductions,
		GrossSalary:      gross,
		TotalDeductions:  totalDeductions,
		NetSalary:        net,
		Status:           models.PayrollDraft,
		GeneratedBy:      actor.UserID,
		GeneratedAt:      now,
		UpdatedAt:        now,
		UpdatedBy:        actor.UserID,
	}
	if err := s.payroll.Create(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, util.Conflict(util.PAYROLL_EXISTS)
		}
		logFailure(s.log, err, logrus.Fields{"employeeId": employeeID.Hex(), "month": in.Month, "year": in.Year})
		return nil, storeError(err, util.PAYROLL_NOT_FOUND)
	}
	s.log.WithFields(logrus.Fields{
		"employeeId": employeeID.Hex(),
		"month":      in.Month,
		"year":       in.Year,
	}).Info("payroll generated")
	return rec, nil
}

func (s *PayrollService) UpdatePayrollStatus(ctx context.Context, t repository.Tenant, id primitive.ObjectID, status string, actor Actor) (*models.PayrollRecord, error) {
	rec, err := s.payroll.FindByID(ctx, t, id)
	if err != nil {
		return nil, storeError(err, util.PAYROLL_NOT_FOUND)
	}
	if !contains(payrollTransitions[rec.Status], status) {
		return nil, util.Conflict(util.PAYROLL_BAD_TRANSITION)
	}
	now := s.now()
	rec.Status = status
	if status == models.PayrollPaid {
		rec.PaidAt = &now
	}
	return s.save(ctx, t, rec, actor)
}

func (s *PayrollService) AttachPayslip(ctx context.Context, t repository.Tenant, id primitive.ObjectID, url string, actor Actor) (*models.PayrollRecord, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, util.Validation("payslip url is required")
	}
	rec, err := s.payroll.FindByID(ctx, t, id)
	if err != nil {
		return nil, storeError(err, util.PAYROLL_NOT_FOUND)
	}
	rec.PayslipURL = url
	return s.save(ctx, t, rec, actor)
}

func (s *PayrollService) GetPayroll(ctx context.Context, t repository.Tenant, id primitive.ObjectID) (*models.PayrollRecord, error) {
	rec, err := s.payroll.FindByID(ctx, t, id)
	if err != nil {
		return nil, storeError(err, util.PAYROLL_NOT_FOUND)
	}
	return rec, nil
}

func (s *PayrollService) ListPayroll(ctx context.Context, t repository.Tenant, filter repository.PayrollFilter) ([]models.PayrollRecord, error) {
	records, err := s.payroll.List(ctx, t, filter)
	if err != nil {
		return nil, storeError(err, util.PAYROLL_NOT_FOUND)
	}
	return records, nil
}

func (s *PayrollService) DeletePayroll(ctx context.Context, t repository.Tenant, id primitive.ObjectID) error {
	rec, err := s.payroll.FindByID(ctx, t, id)
	if err != nil {
		return storeError(err, util.PAYROLL_NOT_FOUND)
	}
	if rec.Status == models.PayrollPaid {
		return util.Conflict(util.PAYROLL_PAID)
	}
	if err := s.payroll.Delete(ctx, t, id); err != nil {
		return storeError(err, util.PAYROLL_NOT_FOUND)
	}
	return nil
}

func (s *PayrollService) save(ctx context.Context, t repository.Tenant, rec *models.PayrollRecord, actor Actor) (*models.PayrollRecord, error) {
	rec.UpdatedAt = s.now()
	rec.UpdatedBy = actor.UserID
	if err := s.payroll.Update(ctx, t, rec); err != nil {
		logFailure(s.log, err, logrus.Fields{"payrollId": rec.ID.Hex()})
		return nil, storeError(err, util.PAYROLL_NOT_FOUND)
	}
	return rec, nil
}
