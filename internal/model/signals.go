package model

import "time"

// BrandClassification is the AI reading of a website's current archetypes
type BrandClassification struct {
	CurrentPrimary   string `json:"currentPrimary"`
	CurrentSecondary string `json:"currentSecondary"`
	Confidence       int    `json:"confidence,omitempty"` // 0-100
	Reasoning        string `json:"reasoning,omitempty"`
}

// UnknownClassification is substituted when classification is skipped or fails
func UnknownClassification() *BrandClassification {
	return &BrandClassification{
		CurrentPrimary:   UnknownArchetype,
		CurrentSecondary: UnknownArchetype,
	}
}

// IsUnknown reports whether the classification is the fallback value
func (c *BrandClassification) IsUnknown() bool {
	return c == nil || (c.CurrentPrimary == UnknownArchetype && c.CurrentSecondary == UnknownArchetype)
}

// AnswerAnalysis is the free-form AI analysis of quiz answers
type AnswerAnalysis struct {
	Archetype       string   `json:"archetype"`
	Description     string   `json:"description"`
	Strengths       []string `json:"strengths"`
	Recommendations []string `json:"recommendations"`
}

// ReportInput is everything the report generator needs
type ReportInput struct {
	Name             string
	CompanyName      string
	WebsiteURL       string
	LogoURL          *string
	DesiredPrimary   Archetype
	DesiredSecondary *Archetype
	CurrentPrimary   string
	CurrentSecondary string
	Reasoning        string
}

// Report is the HTML report emailed to the lead
type Report struct {
	HTML      string `json:"html"`
	Generated bool   `json:"generated"` // false when the templated fallback was used
}

// AnsweredQuestion pairs a question with the text of the chosen option
type AnsweredQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// AnalysisResult is the response of the answer analysis endpoint
type AnalysisResult struct {
	Success   bool            `json:"success"`
	Metadata  Metadata        `json:"metadata"`
	Result    *AnswerAnalysis `json:"result"`
	Timestamp time.Time       `json:"timestamp"`
}
