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
)

type OrganizationService struct {
	orgs  repository.OrganizationRepository
	cache Cache
	now   clock
	log   *logrus.Logger
}

func NewOrganizationService(orgs repository.OrganizationRepository, cache Cache, log *logrus.Logger) *OrganizationService {
	if cache == nil {
		cache = NoopCache{}
	}
	return &OrganizationService{orgs: orgs, cache: cache, now: time.Now, log: log}
}

type OrganizationInput struct {
	Code             string                       `json:"code" binding:"required,orgcode"`
	Name             string                       `json:"name" binding:"required"`
	Address          string                       `json:"address"`
	Email            string                       `json:"email" binding:"omitempty,email"`
	Phone            string                       `json:"phone"`
	Currency         string                       `json:"currency"`
	Timezone         string                       `json:"timezone"`
	SubscriptionPlan string                       `json:"subscriptionPlan"`
	Settings         *models.OrganizationSettings `json:"settings"`
}

type OrganizationUpdate struct {
	Name     *string                      `json:"name"`
	Address  *string                      `json:"address"`
	Email    *string                      `json:"email" binding:"omitempty,email"`
	Phone    *string                      `json:"phone"`
	Currency *string                      `json:"currency"`
	Timezone *string                      `json:"timezone"`
	Settings *models.OrganizationSettings `json:"settings"`
}

func validateTimezone(tz string) error {
	if _, err := time.LoadLocation(tz); err != nil {
		return util.Validation(util.INVALID_TIMEZONE)
	}
	return nil
}

func validateSettings(s models.OrganizationSettings) error {
	start, err := util.ParseClock(s.WorkStartTime)
	if err != nil {
		return err
	}
	end, err := util.ParseClock(s.WorkEndTime)
	if err != nil {
		return err
	}
	if end <= start {
		return util.Validation("work end time must be after work start time")
	}
	if s.LateGraceMinutes < 0 || s.HalfDayHours < 0 {
		return util.Validation("grace minutes and half-day hours must not be negative")
	}
	for _, day := range s.WorkingDays {
		if !validWeekday(day) {
			return util.Validationf("invalid working day %q", day)
		}
	}
	return nil
}

func validWeekday(name string) bool {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if d.String() == name {
			return true
		}
	}
	return false
}

func validPlan(plan string) bool {
	switch plan {
	case models.PlanFree, models.PlanBasic, models.PlanPro, models.PlanEnterprise:
		return true
	}
	return false
}

func organizationKey(code string) string {
	return util.OrganizationKey + code
}

func (s *OrganizationService) CreateOrganization(ctx context.Context, in OrganizationInput, actor Actor) (*models.Organization, error) {
	code, err := util.NormalizeOrganizationCode(in.Code)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, util.Validation("organization name is required")
	}
	timezone := strings.TrimSpace(in.Timezone)
	if timezone == "" {
		timezone = "UTC"
	}
	if err := validateTimezone(timezone); err != nil {
		return nil, err
	}
	settings := models.DefaultSettings()
	if in.Settings != nil {
		settings = *in.Settings
	}
	if err := validateSettings(settings); err != nil {
		return nil, err
	}
	plan := strings.ToLower(strings.TrimSpace(in.SubscriptionPlan))
	if plan == "" {
		plan = models.PlanFree
	}
	if !validPlan(plan) {
		return nil, util.Validationf("invalid subscription plan %q", in.SubscriptionPlan)
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "USD"
	}

	_, err = s.orgs.FindByCode(ctx, code)
	if err == nil {
		return nil, util.Conflict(util.ORGANIZATION_EXISTS)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, storeError(err, util.ORGANIZATION_NOT_FOUND)
	}

	now := s.now()
	org := &models.Organization{
		Code:             code,
		Name:             name,
		Address:          in.Address,
		Email:            strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:            in.Phone,
		Settings:         settings,
		Currency:         currency,
		Timezone:         timezone,
		SubscriptionPlan: plan,
		IsActive:         true,
		CreatedAt:        now,
		CreatedBy:        actor.UserID,
		UpdatedAt:        now,
		UpdatedBy:        actor.UserID,
	}
	if err := s.orgs.Create(ctx, org); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, util.Conflict(util.ORGANIZATION_EXISTS)
		}
		logFailure(s.log, err, logrus.Fields{"organizationCode": code})
		return nil, storeError(err, util.ORGANIZATION_NOT_FOUND)
	}
	s.log.WithField("organizationCode", code).Info("organization created")
	return org, nil
}

// GetOrganization reads through the organization cache.
func (s *OrganizationService) GetOrganization(ctx context.Context, code string) (*models.Organization, error) {
	var cached models.Organization
	hit, err := s.cache.GetCache(ctx, organizationKey(code), &cached)
	if err != nil {
		s.log.WithError(err).Warn("organization cache read failed")
	}
	if hit {
		return &cached, nil
	}
	org, err := s.orgs.FindByCode(ctx, code)
	if err != nil {
		return nil, storeError(err, util.ORGANIZATION_NOT_FOUND)
	}
	if err := s.cache.SetCache(ctx, organizationKey(code), org); err != nil {
		s.log.WithError(err).Warn("organization cache write failed")
	}
	return org, nil
}

func (s *OrganizationService) UpdateOrganization(ctx context.Context, code string, in OrganizationUpdate, actor Actor) (*models.Organization, error) {
	org, err := s.orgs.FindByCode(ctx, code)
	if err != nil {
		return nil, storeError(err, util.ORGANIZATION_NOT_FOUND)
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, util.Validation("organization name is required")
		}
		org.Name = name
	}
	if in.Address != nil {
		org.Address = *in.Address
	}
	if in.Email != nil {
		org.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Phone != nil {
		org.Phone = *in.Phone
	}
	if in.Currency != nil {
		org.Currency = strings.ToUpper(strings.TrimSpace(*in.Currency))
	}
	if in.Timezone != nil {
		if err := validateTimezone(*in.Timezone); err != nil {
			return nil, err
		}
		org.Timezone = *in.Timezone
	}
	if in.Settings != nil {
		if err := validateSettings(*in.Settings); err != nil {
			return nil, err
		}
		org.Settings = *in.Settings
	}
	return s.save(ctx, org, actor)
}

func (s *OrganizationService) ListOrganizations(ctx context.Context) ([]models.Organization, error) {
	orgs, err := s.orgs.List(ctx)
	if err != nil {
		return nil, storeError(err, util.ORGANIZATION_NOT_FOUND)
	}
	return orgs, nil
}

func (s *OrganizationService) SetActive(ctx context.Context, code string, active bool, actor Actor) (*models.Organization, error) {
	org, err := s.orgs.FindByCode(ctx, code)
	if err != nil {
		return nil, storeError(err, util.ORGANIZATION_NOT_FOUND)
	}
	org.IsActive = active
	return s.save(ctx, org, actor)
}

func (s *OrganizationService) save(ctx context.Context, org *models.Organization, actor Actor) (*models.Organization, error) {
	org.UpdatedAt = s.now()
	org.UpdatedBy = actor.UserID
	if err := s.orgs.Update(ctx, org); err != nil {
		logFailure(s.log, err, logrus.Fields{"organizationCode": org.Code})
		return nil, storeError(err, util.ORGANIZATION_NOT_FOUND)
	}
	if err := s.cache.DeleteCache(ctx, organizationKey(org.Code)); err != nil {
		s.log.WithError(err).Warn("organization cache invalidation failed")
	}
	return org, nil
}
