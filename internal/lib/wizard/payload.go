package wizard

import (
	"encoding/json"
	"strings"

	"github.com/magabrotheeeer/lead-capture/internal/models"
)

// Payload собирает тело POST /api/request из формы.
//
// Свободный текст "Other" вливается в свой массив, массивы проблем и
// направлений демо уходят JSON-строкой, типы заявки через запятую.
func Payload(f Form) models.NewRequest {
	challenges := mergeOther(f.CurrentChallenges, f.OtherChallengeText)
	focus := mergeOther(f.DemoFocusAreas, f.OtherDemoFocusText)

	return models.NewRequest{
		FirstName:              f.FirstName,
		LastName:               f.LastName,
		FullName:               strings.TrimSpace(f.FirstName + " " + f.LastName),
		Email:                  f.Email,
		Phone:                  optional(f.Phone),
		Company:                f.CompanyName,
		JobTitle:               optional(f.JobTitle),
		Industry:               optional(f.Industry),
		CompanySize:            optional(f.CompanySize),
		CurrentChallenges:      jsonArray(challenges),
		ProjectTimeline:        optional(f.ProjectTimeline),
		BudgetRange:            optional(f.BudgetRange),
		RequestTypes:           strings.Join(f.RequestTypes, ","),
		DemoFocusAreas:         jsonArray(focus),
		AdditionalRequirements: optional(f.AdditionalRequirements),
		PreferredDate:          optional(f.PreferredDate),
	}
}

// mergeOther заменяет "Other" на "Other: <text>", только если вариант
// выбран и текст не пуст. Иначе массив не меняется.
func mergeOther(values []string, text string) []string {
	if text == "" || !contains(values, OtherOption) {
		return values
	}
	merged := make([]string, 0, len(values))
	for _, v := range values {
		if v != OtherOption {
			merged = append(merged, v)
		}
	}
	return append(merged, OtherOption+": "+text)
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

func jsonArray(values []string) *string {
	if values == nil {
		values = []string{}
	}
	b, _ := json.Marshal(values)
	s := string(b)
	return &s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
