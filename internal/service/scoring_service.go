package service

import (
	"sort"

	"brandquiz/internal/catalog"
	"brandquiz/internal/model"
)

// ScoringService turns quiz answers into archetype point totals
type ScoringService struct {
	catalog   *catalog.Catalog
	questions *catalog.QuestionSet
}

// NewScoringService creates a scoring service over a catalog and question bank
func NewScoringService(c *catalog.Catalog, questions *catalog.QuestionSet) *ScoringService {
	return &ScoringService{
		catalog:   c,
		questions: questions,
	}
}

// Score validates that every question is answered, tallies the option
// points and picks the primary and secondary archetypes. Answers that
// reference unknown questions or options are ignored.
func (s *ScoringService) Score(answers []model.Answer) (*model.ScoreResult, error) {
	byQuestion := make(map[string]string, len(answers))
	for _, a := range answers {
		if _, seen := byQuestion[a.QuestionID]; seen {
			continue // first answer wins
		}
		byQuestion[a.QuestionID] = a.OptionValue
	}

	questions := s.questions.Questions()
	for i, q := range questions {
		if v, ok := byQuestion[q.ID]; !ok || v == "" {
			return nil, &model.MissingAnswerError{QuestionIndex: i + 1, QuestionID: q.ID}
		}
	}

	scores := make(map[string]int, s.catalog.Len())
	for _, name := range s.catalog.Names() {
		scores[name] = 0
	}

	for _, q := range questions {
		option, ok := q.OptionByValue(byQuestion[q.ID])
		if !ok {
			continue
		}
		for name, points := range option.ArchetypePoints {
			if _, known := scores[name]; !known {
				continue
			}
			scores[name] += points
		}
	}

	ranking := Rank(scores)
	result := &model.ScoreResult{
		Scores:  scores,
		Ranking: ranking,
	}
	if len(ranking) == 0 {
		return result, nil
	}

	result.Primary = ranking[0].Name
	for _, r := range ranking[1:] {
		if !s.catalog.SamePair(result.Primary, r.Name) {
			secondary := r.Name
			result.Secondary = &secondary
			break
		}
	}

	return result, nil
}

// Rank orders archetypes by score descending, then by name ascending
func Rank(scores map[string]int) []model.RankedArchetype {
	ranking := make([]model.RankedArchetype, 0, len(scores))
	for name, score := range scores {
		ranking = append(ranking, model.RankedArchetype{Name: name, Score: score})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Score != ranking[j].Score {
			return ranking[i].Score > ranking[j].Score
		}
		return ranking[i].Name < ranking[j].Name
	})
	return ranking
}
