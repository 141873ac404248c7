package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"WorkForce360/models"
	"WorkForce360/repository"
	"WorkForce360/role"
	"WorkForce360/util"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService struct {
	users repository.UserRepository
	roles repository.RoleRepository
	orgs  repository.OrganizationRepository
	now   clock
	log   *logrus.Logger
}

func NewUserService(users repository.UserRepository, roles repository.RoleRepository,
	orgs repository.OrganizationRepository, log *logrus.Logger) *UserService {
	return &UserService{users: users, roles: roles, orgs: orgs, now: time.Now, log: log}
}

type EmployeeInput struct {
	FullName         string                  `json:"fullName" binding:"required"`
	Email            string                  `json:"email" binding:"required,email"`
	Phone            string                  `json:"phone"`
	Password         string                  `json:"password" binding:"required,min=8"`
	Role             int                     `json:"role" binding:"required,min=1,max=100"`
	EmployeeCode     string                  `json:"employeeCode"`
	Department       string                  `json:"department"`
	Designation      string                  `json:"designation"`
	JoiningDate      *time.Time              `json:"joiningDate"`
	EmployeeType     string                  `json:"employeeType"`
	ReportingManager string                  `json:"reportingManager"`
	Salary           *models.SalaryStructure `json:"salary"`
	Bank             *models.BankDetails     `json:"bank"`
}

type UserUpdate struct {
	FullName         *string                 `json:"fullName"`
	Phone            *string                 `json:"phone"`
	Role             *int                    `json:"role" binding:"omitempty,min=1,max=100"`
	EmployeeCode     *string                 `json:"employeeCode"`
	Department       *string                 `json:"department"`
	Designation      *string                 `json:"designation"`
	JoiningDate      *time.Time              `json:"joiningDate"`
	EmployeeType     *string                 `json:"employeeType"`
	ReportingManager *string                 `json:"reportingManager"`
	Salary           *models.SalaryStructure `json:"salary"`
	Bank             *models.BankDetails     `json:"bank"`
}

func validEmployeeType(t string) bool {
	switch t {
	case "", models.EmployeeTypeFullTime, models.EmployeeTypePartTime, models.EmployeeTypeContract, models.EmployeeTypeIntern:
		return true
	}
	return false
}

func validUserStatus(status string) bool {
	switch status {
	case models.UserStatusActive, models.UserStatusInactive, models.UserStatusSuspended:
		return true
	}
	return false
}

// assignableLevel accepts canonical levels and levels of an active role in the organization.
func (s *UserService) assignableLevel(ctx context.Context, t repository.Tenant, level role.Level, actor Actor) error {
	if !level.Valid() {
		return util.Validation(util.INVALID_ROLE_LEVEL)
	}
	if !actor.IsSuperAdmin() && level.Outranks(actor.Level) {
		return util.Forbidden(util.INSUFFICIENT_AUTHORITY)
	}
	if level.IsCanonical() {
		return nil
	}
	roles, err := s.roles.FindActiveByLevel(ctx, t, level)
	if err != nil {
		return storeError(err, util.ROLE_NOT_FOUND)
	}
	if len(roles) == 0 {
		return util.Validation(util.UNKNOWN_ROLE_LEVEL)
	}
	return nil
}

func (s *UserService) reportingManager(ctx context.Context, t repository.Tenant, raw string) (*primitive.ObjectID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := ParseID(raw)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, t, id); err != nil {
		return nil, storeError(err, util.MANAGER_NOT_FOUND)
	}
	return &id, nil
}

func (s *UserService) ensureEmployeeCodeFree(ctx context.Context, t repository.Tenant, code string) error {
	if code == "" {
		return nil
	}
	exists, err := s.users.ExistsByEmployeeCode(ctx, t, code)
	if err != nil {
		return storeError(err, util.USER_NOT_FOUND)
	}
	if exists {
		return util.Conflict(util.EMPLOYEE_CODE_ALREADY_EXISTS)
	}
	return nil
}

func (s *UserService) CreateEmployee(ctx context.Context, t repository.Tenant, in EmployeeInput, actor Actor) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || strings.TrimSpace(in.FullName) == "" {
		return nil, util.Validation("full name and email are required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, util.Validation(util.PASSWORD_TOO_SHORT)
	}
	if !validEmployeeType(in.EmployeeType) {
		return nil, util.Validation(util.INVALID_EMPLOYEE_TYPE)
	}
	level := role.Level(in.Role)
	if err := s.assignableLevel(ctx, t, level, actor); err != nil {
		return nil, err
	}

	_, err := s.users.FindByEmail(ctx, t, email)
	if err == nil {
		return nil, util.Conflict(util.EMAIL_ALREADY_EXISTS)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeError(err, util.USER_NOT_FOUND)
	}
	code := strings.TrimSpace(in.EmployeeCode)
	if err := s.ensureEmployeeCodeFree(ctx, t, code); err != nil {
		return nil, err
	}
	manager, err := s.reportingManager(ctx, t, in.ReportingManager)
	if err != nil {
		return nil, err
	}
	org, err := s.orgs.FindByCode(ctx, t.Code())
	if err != nil {
		return nil, storeError(err, util.ORGANIZATION_NOT_FOUND)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, util.Internal("hash password", err)
	}
	now := s.now()
	user := &models.User{
		FullName:         strings.TrimSpace(in.FullName),
		Email:            email,
		Phone:            in.Phone,
		Password:         hash,
		Role:             level,
		Status:           models.UserStatusActive,
		OrganizationCode: t.Code(),
		OrganizationName: org.Name,
		EmployeeCode:     code,
		Department:       in.Department,
		Designation:      in.Designation,
		JoiningDate:      in.JoiningDate,
		EmployeeType:     in.EmployeeType,
		ReportingManager: manager,
		Salary:           in.Salary,
		Bank:             in.Bank,
		CreatedAt:        now,
		CreatedBy:        actor.UserID,
		UpdatedAt:        now,
		UpdatedBy:        actor.UserID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, util.Conflict(util.EMAIL_ALREADY_EXISTS)
		}
		logFailure(s.log, err, logrus.Fields{"organizationCode": t.Code()})
		return nil, storeError(err, util.USER_NOT_FOUND)
	}
	s.log.WithFields(logrus.Fields{"userId": user.ID.Hex(), "organizationCode": t.Code()}).Info("employee created")
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, t repository.Tenant, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, t, id)
	if err != nil {
		return nil, storeError(err, util.USER_NOT_FOUND)
	}
	return user, nil
}

// FindUserByID is the identity lookup other modules depend on.
func (s *UserService) FindUserByID(ctx context.Context, t repository.Tenant, id primitive.ObjectID) (*models.Identity, error) {
	user, err := s.users.FindByID(ctx, t, id)
	if err != nil {
		return nil, storeError(err, util.EMPLOYEE_NOT_FOUND)
	}
	identity := user.Identity()
	return &identity, nil
}

func (s *UserService) ListUsers(ctx context.Context, t repository.Tenant, filter repository.UserFilter) ([]models.User, error) {
	if filter.Status != "" && !validUserStatus(filter.Status) {
		return nil, util.Validation(util.INVALID_USER_STATUS)
	}
	users, err := s.users.List(ctx, t, filter)
	if err != nil {
		return nil, storeError(err, util.USER_NOT_FOUND)
	}
	return users, nil
}

/*
* Callers can only manage users they outrank, SuperAdmin excepted
 */
func (s *UserService) managedUser(ctx context.Context, t repository.Tenant, id primitive.ObjectID, actor Actor) (*models.User, error) {
	user, err := s.users.FindByID(ctx, t, id)
	if err != nil {
		return nil, storeError(err, util.USER_NOT_FOUND)
	}
	if !actor.IsSuperAdmin() && user.ID.Hex() != actor.UserID && !actor.Level.Outranks(user.Role) {
		return nil, util.Forbidden(util.INSUFFICIENT_AUTHORITY)
	}
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, t repository.Tenant, id primitive.ObjectID, in UserUpdate, actor Actor) (*models.User, error) {
	user, err := s.managedUser(ctx, t, id, actor)
	if err != nil {
		return nil, err
	}
	if in.FullName != nil {
		if strings.TrimSpace(*in.FullName) == "" {
			return nil, util.Validation("full name is required")
		}
		user.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Role != nil && role.Level(*in.Role) != user.Role {
		if user.ID.Hex() == actor.UserID && !actor.IsSuperAdmin() {
			return nil, util.Forbidden(util.INSUFFICIENT_AUTHORITY)
		}
		level := role.Level(*in.Role)
		if err := s.assignableLevel(ctx, t, level, actor); err != nil {
			return nil, err
		}
		user.Role = level
	}
	if in.EmployeeCode != nil {
		code := strings.TrimSpace(*in.EmployeeCode)
		if code != user.EmployeeCode {
			if err := s.ensureEmployeeCodeFree(ctx, t, code); err != nil {
				return nil, err
			}
			user.EmployeeCode = code
		}
	}
	if in.Department != nil {
		user.Department = *in.Department
	}
	if in.Designation != nil {
		user.Designation = *in.Designation
	}
	if in.JoiningDate != nil {
		user.JoiningDate = in.JoiningDate
	}
	if in.EmployeeType != nil {
		if !validEmployeeType(*in.EmployeeType) {
			return nil, util.Validation(util.INVALID_EMPLOYEE_TYPE)
		}
		user.EmployeeType = *in.EmployeeType
	}
	if in.ReportingManager != nil {
		manager, err := s.reportingManager(ctx, t, *in.ReportingManager)
		if err != nil {
			return nil, err
		}
		user.ReportingManager = manager
	}
	if in.Salary != nil {
		user.Salary = in.Salary
	}
	if in.Bank != nil {
		user.Bank = in.Bank
	}
	return s.save(ctx, t, user, actor)
}

// SetUserStatus is the soft retirement path; reactivation also unblocks the account.
func (s *UserService) SetUserStatus(ctx context.Context, t repository.Tenant, id primitive.ObjectID, status string, actor Actor) (*models.User, error) {
	if !validUserStatus(status) {
		return nil, util.Validation(util.INVALID_USER_STATUS)
	}
	user, err := s.managedUser(ctx, t, id, actor)
	if err != nil {
		return nil, err
	}
	user.Status = status
	if status == models.UserStatusActive {
		user.IsBlocked = false
		user.LoginAttempts = 0
	}
	return s.save(ctx, t, user, actor)
}

func (s *UserService) DeleteUser(ctx context.Context, t repository.Tenant, id primitive.ObjectID, actor Actor) error {
	if id.Hex() == actor.UserID {
		return util.Validation(util.CANNOT_DELETE_SELF)
	}
	if _, err := s.managedUser(ctx, t, id, actor); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, t, id); err != nil {
		logFailure(s.log, err, logrus.Fields{"userId": id.Hex()})
		return storeError(err, util.USER_NOT_FOUND)
	}
	s.log.WithFields(logrus.Fields{"userId": id.Hex(), "by": actor.UserID}).Info("user deleted")
	return nil
}

func (s *UserService) save(ctx context.Context, t repository.Tenant, user *models.User, actor Actor) (*models.User, error) {
	user.UpdatedAt = s.now()
	user.UpdatedBy = actor.UserID
	if err := s.users.Update(ctx, t, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, util.Conflict(util.EMPLOYEE_CODE_ALREADY_EXISTS)
		}
		logFailure(s.log, err, logrus.Fields{"userId": user.ID.Hex()})
		return nil, storeError(err, util.USER_NOT_FOUND)
	}
	return user, nil
}
