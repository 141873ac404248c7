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
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// TokenIssuer signs the bearer credential returned at login.
type TokenIssuer interface {
	Generate(userID, email string, level role.Level, organizationCode string) (string, error)
}

type AuthService struct {
	users       repository.UserRepository
	orgs        *OrganizationService
	permissions *PermissionService
	tokens      TokenIssuer
	maxAttempts int
	now         clock
	log         *logrus.Logger
}

func NewAuthService(users repository.UserRepository, orgs *OrganizationService, permissions *PermissionService,
	tokens TokenIssuer, maxAttempts int, log *logrus.Logger) *AuthService {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &AuthService{
		users:       users,
		orgs:        orgs,
		permissions: permissions,
		tokens:      tokens,
		maxAttempts: maxAttempts,
		now:         time.Now,
		log:         log,
	}
}

type RegisterInput struct {
	Organization OrganizationInput `json:"organization" binding:"required"`
	FullName     string            `json:"fullName" binding:"required"`
	Email        string            `json:"email" binding:"required,email"`
	Phone        string            `json:"phone"`
	Password     string            `json:"password" binding:"required,min=8"`
}

type RegisterResult struct {
	Organization *models.Organization `json:"organization"`
	User         *models.User         `json:"user"`
	Token        string               `json:"token"`
}

type LoginInput struct {
	OrganizationCode string `json:"organizationCode" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

/*
* Generate a bcrypt hash for the password
 */
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func verifyPassword(hash, password string) bool {
	if strings.TrimSpace(hash) == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

/*
* Create the organization, its first administrator and the
* organization's default permission set, then sign the admin in
* Nothing is rolled back if the administrator cannot be stored
 */
func (s *AuthService) RegisterOrganization(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	if len(in.Password) < minPasswordLength {
		return nil, util.Validation(util.PASSWORD_TOO_SHORT)
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, util.Internal("hash password", err)
	}
	org, err := s.orgs.CreateOrganization(ctx, in.Organization, SystemActor)
	if err != nil {
		return nil, err
	}
	t := repository.Tenant(org.Code)

	now := s.now()
	admin := &models.User{
		FullName:         strings.TrimSpace(in.FullName),
		Email:            strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:            in.Phone,
		Password:         hash,
		Role:             role.Admin,
		Status:           models.UserStatusActive,
		OrganizationCode: org.Code,
		OrganizationName: org.Name,
		CreatedAt:        now,
		CreatedBy:        SystemActor.UserID,
		UpdatedAt:        now,
		UpdatedBy:        SystemActor.UserID,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		// The organization stays; its code is taken until an operator removes it.
		s.log.WithError(err).WithFields(logrus.Fields{
			"organizationCode": org.Code,
			"organizationId":   org.ID.Hex(),
			"adminEmail":       admin.Email,
		}).Error("organization registered without an administrator")
		return nil, storeError(err, util.USER_NOT_FOUND)
	}

	actor := Actor{UserID: admin.ID.Hex(), Email: admin.Email, Level: admin.Role, OrganizationCode: org.Code}
	if _, err := s.permissions.InitializeDefaultPermissions(ctx, t, actor); err != nil {
		s.log.WithError(err).WithField("organizationCode", org.Code).Warn("default permissions not initialized")
	}

	token, err := s.tokens.Generate(admin.ID.Hex(), admin.Email, admin.Role, org.Code)
	if err != nil {
		return nil, util.Internal("sign token", err)
	}
	return &RegisterResult{Organization: org, User: admin, Token: token}, nil
}

/*
* Unknown users and wrong passwords look the same to the caller
* Every failed password counts; the account is blocked at the limit
* A successful login resets the counter
 */
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	code, err := util.NormalizeOrganizationCode(in.OrganizationCode)
	if err != nil {
		return nil, err
	}
	t := repository.Tenant(code)
	user, err := s.users.FindByEmail(ctx, t, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, util.Unauthorized(util.INVALID_CREDENTIALS)
		}
		return nil, storeError(err, util.USER_NOT_FOUND)
	}
	if user.IsBlocked {
		return nil, util.Forbidden(util.ACCOUNT_BLOCKED)
	}
	if !user.IsActive() {
		return nil, util.Forbidden(util.ACCOUNT_NOT_ACTIVE)
	}

	if !verifyPassword(user.Password, in.Password) {
		user.LoginAttempts++
		blocked := user.LoginAttempts >= s.maxAttempts
		user.IsBlocked = blocked
		user.UpdatedAt = s.now()
		if err := s.users.Update(ctx, t, user); err != nil {
			logFailure(s.log, err, logrus.Fields{"userId": user.ID.Hex()})
			return nil, storeError(err, util.USER_NOT_FOUND)
		}
		s.log.WithFields(logrus.Fields{
			"userId":   user.ID.Hex(),
			"attempts": user.LoginAttempts,
			"blocked":  blocked,
		}).Warn("failed login")
		if blocked {
			return nil, util.Forbidden(util.ACCOUNT_BLOCKED)
		}
		return nil, util.Unauthorized(util.INVALID_CREDENTIALS)
	}

	now := s.now()
	user.LoginAttempts = 0
	user.LastLoginAt = &now
	user.UpdatedAt = now
	if err := s.users.Update(ctx, t, user); err != nil {
		logFailure(s.log, err, logrus.Fields{"userId": user.ID.Hex()})
		return nil, storeError(err, util.USER_NOT_FOUND)
	}
	token, err := s.tokens.Generate(user.ID.Hex(), user.Email, user.Role, user.OrganizationCode)
	if err != nil {
		return nil, util.Internal("sign token", err)
	}
	return &LoginResult{Token: token, User: user}, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, t repository.Tenant, userID primitive.ObjectID, oldPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return util.Validation(util.PASSWORD_TOO_SHORT)
	}
	user, err := s.users.FindByID(ctx, t, userID)
	if err != nil {
		return storeError(err, util.USER_NOT_FOUND)
	}
	if !verifyPassword(user.Password, oldPassword) {
		return util.Validation(util.PASSWORD_MISMATCH)
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return util.Internal("hash password", err)
	}
	user.Password = hash
	user.UpdatedAt = s.now()
	user.UpdatedBy = userID.Hex()
	if err := s.users.Update(ctx, t, user); err != nil {
		logFailure(s.log, err, logrus.Fields{"userId": userID.Hex()})
		return storeError(err, util.USER_NOT_FOUND)
	}
	return nil
}
