package model

import (
	"encoding/json"
	"strings"
)

// Answer is one submitted quiz answer
type Answer struct {
	QuestionID  string `json:"questionId"`
	Question    string `json:"question,omitempty"`   // question text as shown in the form
	OptionValue string `json:"answer"`               // selected option value
	AnswerText  string `json:"answerText,omitempty"` // option text as shown in the form
}

// UnmarshalJSON also accepts "id" for the question id, which is what the
// quiz form sends.
func (a *Answer) UnmarshalJSON(data []byte) error {
	type answerAlias Answer
	var aux struct {
		answerAlias
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*a = Answer(aux.answerAlias)
	if a.QuestionID == "" {
		a.QuestionID = aux.ID
	}
	return nil
}

// Metadata is the contact information collected with the quiz
type Metadata struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	CompanyName string `json:"companyName"`
	WebsiteURL  string `json:"websiteUrl"`
}

// Trimmed returns a copy with surrounding whitespace removed from every field
func (m Metadata) Trimmed() Metadata {
	return Metadata{
		Name:        strings.TrimSpace(m.Name),
		Email:       strings.TrimSpace(m.Email),
		CompanyName: strings.TrimSpace(m.CompanyName),
		WebsiteURL:  strings.TrimSpace(m.WebsiteURL),
	}
}

// FirstName returns the first word of the contact name
func (m Metadata) FirstName() string {
	parts := strings.Fields(m.Name)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// LastName returns everything after the first word of the contact name
func (m Metadata) LastName() string {
	parts := strings.Fields(m.Name)
	if len(parts) < 2 {
		return ""
	}
	return strings.Join(parts[1:], " ")
}
