// Package wizard трёхшаговая форма заявки на демо: проверка полноты шагов,
// переходы между шагами и сборка тела POST /api/request.
package wizard

import (
	"regexp"
	"strings"
)

// Step номер шага формы.
type Step int

// Шаги формы.
const (
	StepContact     Step = 1
	StepBusiness    Step = 2
	StepPreferences Step = 3
)

// OtherOption вариант множественного выбора, к которому прилагается свободный текст.
const OtherOption = "Other"

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^\+?[1-9]?[\d\-()]{7,15}$`)
)

// Form все поля формы. Состояние плоское, шаг хранится в Wizard.
type Form struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	CompanyName string
	JobTitle    string

	Industry           string
	CompanySize        string
	CurrentChallenges  []string
	OtherChallengeText string
	ProjectTimeline    string
	BudgetRange        string
	RequestTypes       []string

	DemoFocusAreas         []string
	OtherDemoFocusText     string
	AdditionalRequirements string
	PreferredDate          string
}

// ValidEmail упрощённая проверка адреса.
func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// ValidPhone снисходительная проверка телефона в американском формате.
// Пробелы игнорируются.
func ValidPhone(phone string) bool {
	return phoneRe.MatchString(strings.Join(strings.Fields(phone), ""))
}

// IsStepComplete сообщает, заполнены ли обязательные поля шага.
// Чистая функция от формы.
func IsStepComplete(f Form, step Step) bool {
	if step < StepContact || step > StepPreferences {
		return false
	}
	return len(FieldErrors(f, step)) == 0
}

// FieldErrors сообщения об ошибках по полям шага. Пустая карта значит,
// что шаг заполнен.
func FieldErrors(f Form, step Step) map[string]string {
	errs := make(map[string]string)
	required := func(field, value, msg string) {
		if strings.TrimSpace(value) == "" {
			errs[field] = msg
		}
	}

	switch step {
	case StepContact:
		required("firstName", f.FirstName, "First name is required")
		required("lastName", f.LastName, "Last name is required")
		required("companyName", f.CompanyName, "Company name is required")
		required("email", f.Email, "Email is required")
		required("phone", f.Phone, "Phone number is required")
		if _, ok := errs["email"]; !ok && !ValidEmail(f.Email) {
			errs["email"] = "Please enter a valid email address"
		}
		if _, ok := errs["phone"]; !ok && !ValidPhone(f.Phone) {
			errs["phone"] = "Please enter a valid phone number"
		}
	case StepBusiness:
		required("industry", f.Industry, "Please select an industry")
		required("companySize", f.CompanySize, "Please select a company size")
		required("projectTimeline", f.ProjectTimeline, "Please select a project timeline")
		if len(f.CurrentChallenges) == 0 {
			errs["currentChallenges"] = "Select at least one challenge"
		}
		if len(f.RequestTypes) == 0 {
			errs["requestTypes"] = "Select at least one request type"
		}
	case StepPreferences:
		if len(f.DemoFocusAreas) == 0 {
			errs["demoFocusAreas"] = "Select at least one focus area"
		}
	}
	return errs
}
