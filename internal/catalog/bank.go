package catalog

import (
	"context"
	"fmt"
	"log"

	"brandquiz/internal/model"
)

// QuestionSource loads a stored question bank
type QuestionSource interface {
	Load(ctx context.Context) ([]model.Question, error)
}

// LoadQuestionSet returns the stored bank when it is present and valid for
// c, and the built-in bank otherwise.
func LoadQuestionSet(ctx context.Context, src QuestionSource, c *Catalog) *QuestionSet {
	if src == nil {
		return MustValidDefault(c)
	}

	questions, err := src.Load(ctx)
	if err != nil {
		log.Printf("[Questions] Failed to load stored question bank, using built-in: %v", err)
		return MustValidDefault(c)
	}
	if len(questions) == 0 {
		log.Println("[Questions] Stored question bank is empty, using built-in")
		return MustValidDefault(c)
	}

	set := NewQuestionSet(questions)
	if err := set.Validate(c); err != nil {
		log.Printf("[Questions] Stored question bank is invalid, using built-in: %v", err)
		return MustValidDefault(c)
	}

	log.Printf("[Questions] Loaded %d questions from store", set.Len())
	return set
}

// MustValidDefault panics if the built-in bank does not match c
func MustValidDefault(c *Catalog) *QuestionSet {
	set := NewQuestionSet(DefaultQuestions())
	if err := set.Validate(c); err != nil {
		panic(fmt.Sprintf("built-in question bank is invalid: %v", err))
	}
	return set
}
