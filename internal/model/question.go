package model

// Option is a selectable answer of a quiz question
type Option struct {
	Value           string         `json:"value" bson:"value"` // unique within its question
	Text            string         `json:"text" bson:"text"`
	Description     string         `json:"description" bson:"description"`
	ArchetypePoints map[string]int `json:"archetypePoints,omitempty" bson:"archetypePoints"`
}

// Question is a quiz question with its ordered options
type Question struct {
	ID      string   `json:"id" bson:"id"`
	Text    string   `json:"text" bson:"text"`
	Options []Option `json:"options" bson:"options"`
	Order   int      `json:"-" bson:"order"`
}

// PublicOption is an option as served to the form (no point weights)
type PublicOption struct {
	Value       string `json:"value"`
	Text        string `json:"text"`
	Description string `json:"description"`
}

// PublicQuestion is a question as served to the form
type PublicQuestion struct {
	ID      string         `json:"id"`
	Text    string         `json:"text"`
	Options []PublicOption `json:"options"`
}

// OptionByValue returns the option with the given value
func (q *Question) OptionByValue(value string) (*Option, bool) {
	for i := range q.Options {
		if q.Options[i].Value == value {
			return &q.Options[i], true
		}
	}
	return nil, false
}

// Public strips the scoring weights
func (q *Question) Public() PublicQuestion {
	opts := make([]PublicOption, 0, len(q.Options))
	for _, o := range q.Options {
		opts = append(opts, PublicOption{Value: o.Value, Text: o.Text, Description: o.Description})
	}
	return PublicQuestion{ID: q.ID, Text: q.Text, Options: opts}
}
