package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ContactSubmission сообщение из формы обратной связи.
type ContactSubmission struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	Phone          *string   `json:"phone,omitempty"`
	Company        *string   `json:"company,omitempty"`
	CompanySize    *string   `json:"companySize,omitempty"`
	Message        string    `json:"message"`
	PrivacyConsent string    `json:"privacyConsent"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

// Consent согласие на обработку данных. Клиенты присылают его и как bool,
// и как строку, хранится всегда строкой "true"/"false".
type Consent string

// UnmarshalJSON принимает true/false или произвольную строку.
func (c *Consent) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*c = Consent(strconv.FormatBool(b))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("privacyConsent must be a boolean or a string")
	}
	*c = Consent(s)
	return nil
}

// NewContact входные данные формы обратной связи. Допускается либо name,
// либо пара firstName/lastName.
type NewContact struct {
	Name           string  `json:"name" validate:"required"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	Email          string  `json:"email" validate:"required,email"`
	Phone          *string `json:"phone,omitempty"`
	Company        *string `json:"company,omitempty"`
	CompanySize    *string `json:"companySize,omitempty"`
	Message        string  `json:"message" validate:"required"`
	PrivacyConsent Consent `json:"privacyConsent"`
}

// Normalize выводит недостающее имя и чистит email. Вызывается до валидации.
func (c *NewContact) Normalize() {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		c.Name = strings.TrimSpace(c.FirstName + " " + c.LastName)
	}
	if c.FirstName == "" && c.LastName == "" && c.Name != "" {
		first, last, _ := strings.Cut(c.Name, " ")
		c.FirstName, c.LastName = first, strings.TrimSpace(last)
	}
	c.Email = NormalizeEmail(c.Email)
	if c.PrivacyConsent == "" {
		c.PrivacyConsent = "false"
	}
}

// ToSubmission собирает запись для хранилища. ID и время проставляет хранилище.
func (c NewContact) ToSubmission() ContactSubmission {
	return ContactSubmission{
		Name:           c.Name,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Email:          c.Email,
		Phone:          c.Phone,
		Company:        c.Company,
		CompanySize:    c.CompanySize,
		Message:        c.Message,
		PrivacyConsent: string(c.PrivacyConsent),
	}
}
