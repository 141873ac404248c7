package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PlanFree       = "free"
	PlanBasic      = "basic"
	PlanPro        = "pro"
	PlanEnterprise = "enterprise"
)

const (
	DefaultWorkStartTime    = "09:00"
	DefaultWorkEndTime      = "18:00"
	DefaultLateGraceMinutes = 15
	DefaultHalfDayHours     = 4.0
)

type Organization struct {
	ID               primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Code             string               `json:"code" bson:"code"`
	Name             string               `json:"name" bson:"name"`
	Address          string               `json:"address,omitempty" bson:"address,omitempty"`
	Email            string               `json:"email,omitempty" bson:"email,omitempty"`
	Phone            string               `json:"phone,omitempty" bson:"phone,omitempty"`
	Settings         OrganizationSettings `json:"settings" bson:"settings"`
	Currency         string               `json:"currency" bson:"currency"`
	Timezone         string               `json:"timezone" bson:"timezone"`
	SubscriptionPlan string               `json:"subscriptionPlan" bson:"subscriptionPlan"`
	IsActive         bool                 `json:"isActive" bson:"isActive"`
	CreatedAt        time.Time            `json:"createdAt" bson:"createdAt"`
	CreatedBy        string               `json:"createdBy" bson:"createdBy"`
	UpdatedAt        time.Time            `json:"updatedAt" bson:"updatedAt"`
	UpdatedBy        string               `json:"updatedBy" bson:"updatedBy"`
}

type OrganizationSettings struct {
	WorkingDays      []string `json:"workingDays" bson:"workingDays"`
	WorkStartTime    string   `json:"workStartTime" bson:"workStartTime"`
	WorkEndTime      string   `json:"workEndTime" bson:"workEndTime"`
	LateGraceMinutes int      `json:"lateGraceMinutes" bson:"lateGraceMinutes"`
	HalfDayHours     float64  `json:"halfDayHours" bson:"halfDayHours"`
}

// DefaultSettings is a Monday to Friday, 09:00-18:00 week.
func DefaultSettings() OrganizationSettings {
	return OrganizationSettings{
		WorkingDays:      []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
		WorkStartTime:    DefaultWorkStartTime,
		WorkEndTime:      DefaultWorkEndTime,
		LateGraceMinutes: DefaultLateGraceMinutes,
		HalfDayHours:     DefaultHalfDayHours,
	}
}

// IsWorkingDay falls back to Monday-Friday when no working days are configured.
func (s OrganizationSettings) IsWorkingDay(day time.Weekday) bool {
	days := s.WorkingDays
	if len(days) == 0 {
		days = DefaultSettings().WorkingDays
	}
	for _, d := range days {
		if d == day.String() {
			return true
		}
	}
	return false
}
