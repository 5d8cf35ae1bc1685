package model

// SubmitRequest is the body of a quiz submission
type SubmitRequest struct {
	SubmissionID string   `json:"submissionId,omitempty"` // optional, lets the client follow progress
	Metadata     Metadata `json:"metadata"`
	Answers      []Answer `json:"answers"`
}

// RankedArchetype is one entry of the score ranking
type RankedArchetype struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// ScoreResult is the output of scoring a complete answer set
type ScoreResult struct {
	Scores    map[string]int    `json:"scores"`
	Ranking   []RankedArchetype `json:"ranking"`
	Primary   string            `json:"primary"`
	Secondary *string           `json:"secondary"` // nil only when no other pair exists
}

// SecondaryName returns the secondary archetype or "" when absent
func (r *ScoreResult) SecondaryName() string {
	if r.Secondary == nil {
		return ""
	}
	return *r.Secondary
}

// BrandType is a primary/secondary archetype pair
type BrandType struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// SubmissionResults is the archetype summary returned to the caller
type SubmissionResults struct {
	DesiredBrandType BrandType `json:"desiredBrandType"`
	CurrentBrandType BrandType `json:"currentBrandType"`
}

// SubmissionResult is the terminal artifact of a submission
type SubmissionResult struct {
	Success  bool              `json:"success"`
	ReportID string            `json:"reportId"`
	Message  string            `json:"message"`
	Results  SubmissionResults `json:"results"`
}
