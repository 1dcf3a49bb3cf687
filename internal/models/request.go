package models

import (
	"strings"
	"time"
)

// Значения по умолчанию для новой заявки.
const (
	RequestStatusPending  = "pending"
	RequestPriorityNormal = "normal"
	RequestSourceWebsite  = "website"
)

// Request заявка на демо, показ или аудит, собранная трёхшаговой формой.
// Массивы CurrentChallenges и DemoFocusAreas хранятся JSON-строкой,
// RequestTypes через запятую.
type Request struct {
	ID                     string    `json:"id"`
	FirstName              string    `json:"firstName"`
	LastName               string    `json:"lastName"`
	FullName               string    `json:"fullName"`
	Email                  string    `json:"email"`
	Phone                  *string   `json:"phone,omitempty"`
	Company                string    `json:"company"`
	JobTitle               *string   `json:"jobTitle,omitempty"`
	Industry               *string   `json:"industry,omitempty"`
	CompanySize            *string   `json:"companySize,omitempty"`
	CurrentChallenges      *string   `json:"currentChallenges,omitempty"`
	ProjectTimeline        *string   `json:"projectTimeline,omitempty"`
	BudgetRange            *string   `json:"budgetRange,omitempty"`
	RequestTypes           string    `json:"requestTypes"`
	DemoFocusAreas         *string   `json:"demoFocusAreas,omitempty"`
	AdditionalRequirements *string   `json:"additionalRequirements,omitempty"`
	PreferredDate          *string   `json:"preferredDate,omitempty"`
	Status                 string    `json:"status"`
	Priority               string    `json:"priority"`
	Source                 string    `json:"source"`
	IPAddress              *string   `json:"ipAddress,omitempty"`
	UserAgent              *string   `json:"userAgent,omitempty"`
	SubmittedAt            time.Time `json:"submittedAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

// NewRequest тело POST /api/request.
type NewRequest struct {
	FirstName              string  `json:"firstName" validate:"required"`
	LastName               string  `json:"lastName" validate:"required"`
	FullName               string  `json:"fullName"`
	Email                  string  `json:"email" validate:"required,email"`
	Phone                  *string `json:"phone,omitempty"`
	Company                string  `json:"company" validate:"required"`
	JobTitle               *string `json:"jobTitle,omitempty"`
	Industry               *string `json:"industry,omitempty"`
	CompanySize            *string `json:"companySize,omitempty"`
	CurrentChallenges      *string `json:"currentChallenges,omitempty"`
	ProjectTimeline        *string `json:"projectTimeline,omitempty"`
	BudgetRange            *string `json:"budgetRange,omitempty"`
	RequestTypes           string  `json:"requestTypes" validate:"required"`
	DemoFocusAreas         *string `json:"demoFocusAreas,omitempty"`
	AdditionalRequirements *string `json:"additionalRequirements,omitempty"`
	PreferredDate          *string `json:"preferredDate,omitempty"`
}

// RequestMeta сведения о клиенте, взятые из HTTP-запроса.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// Normalize заполняет fullName и чистит email.
func (r *NewRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	if strings.TrimSpace(r.FullName) == "" {
		r.FullName = strings.TrimSpace(r.FirstName + " " + r.LastName)
	}
	r.Email = NormalizeEmail(r.Email)
}

// ToRequest собирает запись для хранилища со статусами по умолчанию.
func (r NewRequest) ToRequest(meta RequestMeta) Request {
	return Request{
		FirstName:              r.FirstName,
		LastName:               r.LastName,
		FullName:               r.FullName,
		Email:                  r.Email,
		Phone:                  r.Phone,
		Company:                r.Company,
		JobTitle:               r.JobTitle,
		Industry:               r.Industry,
		CompanySize:            r.CompanySize,
		CurrentChallenges:      r.CurrentChallenges,
		ProjectTimeline:        r.ProjectTimeline,
		BudgetRange:            r.BudgetRange,
		RequestTypes:           r.RequestTypes,
		DemoFocusAreas:         r.DemoFocusAreas,
		AdditionalRequirements: r.AdditionalRequirements,
		PreferredDate:          r.PreferredDate,
		Status:                 RequestStatusPending,
		Priority:               RequestPriorityNormal,
		Source:                 RequestSourceWebsite,
		IPAddress:              optional(meta.IPAddress),
		UserAgent:              optional(meta.UserAgent),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
