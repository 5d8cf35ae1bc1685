package catalog

import (
	"errors"
	"fmt"
	"maps"

	"brandquiz/internal/model"
)

// Point weights of the default question bank. Every option awards
// primaryPoints to the archetype it describes best and supportPoints
// to one neighbouring archetype.
const (
	primaryPoints = 3
	supportPoints = 1
)

// QuestionSet is an ordered, read-only question bank
type QuestionSet struct {
	questions []model.Question
	byID      map[string]int
}

// NewQuestionSet copies the questions into an immutable set
func NewQuestionSet(questions []model.Question) *QuestionSet {
	s := &QuestionSet{
		questions: make([]model.Question, 0, len(questions)),
		byID:      make(map[string]int, len(questions)),
	}
	for i, q := range questions {
		q = cloneQuestion(q)
		q.Order = i
		s.byID[q.ID] = i
		s.questions = append(s.questions, q)
	}
	return s
}

// Len returns the number of questions
func (s *QuestionSet) Len() int {
	return len(s.questions)
}

// Questions returns a copy of the questions in order
func (s *QuestionSet) Questions() []model.Question {
	out := make([]model.Question, len(s.questions))
	for i, q := range s.questions {
		out[i] = cloneQuestion(q)
	}
	return out
}

// ByID looks up a question by id
func (s *QuestionSet) ByID(id string) (model.Question, bool) {
	i, ok := s.byID[id]
	if !ok {
		return model.Question{}, false
	}
	return cloneQuestion(s.questions[i]), true
}

// Public returns the questions without point weights
func (s *QuestionSet) Public() []model.PublicQuestion {
	out := make([]model.PublicQuestion, 0, len(s.questions))
	for i := range s.questions {
		out = append(out, s.questions[i].Public())
	}
	return out
}

// Validate checks ids, option values and weighted archetypes against c
func (s *QuestionSet) Validate(c *Catalog) error {
	var errs []error
	if len(s.questions) == 0 {
		errs = append(errs, errors.New("question set is empty"))
	}

	seenIDs := make(map[string]bool)
	for i, q := range s.questions {
		if q.ID == "" {
			errs = append(errs, fmt.Errorf("question %d has no id", i+1))
		}
		if seenIDs[q.ID] {
			errs = append(errs, fmt.Errorf("duplicate question id %q", q.ID))
		}
		seenIDs[q.ID] = true

		if len(q.Options) == 0 {
			errs = append(errs, fmt.Errorf("question %q has no options", q.ID))
		}
		seenValues := make(map[string]bool)
		for _, o := range q.Options {
			if seenValues[o.Value] {
				errs = append(errs, fmt.Errorf("question %q: duplicate option %q", q.ID, o.Value))
			}
			seenValues[o.Value] = true
			for name := range o.ArchetypePoints {
				if _, ok := c.ByName(name); !ok {
					errs = append(errs, fmt.Errorf("question %q option %q: unknown archetype %q", q.ID, o.Value, name))
				}
			}
		}
	}

	return errors.Join(errs...)
}

func cloneQuestion(q model.Question) model.Question {
	opts := make([]model.Option, len(q.Options))
	for i, o := range q.Options {
		o.ArchetypePoints = maps.Clone(o.ArchetypePoints)
		opts[i] = o
	}
	q.Options = opts
	return q
}

func opt(value, text, description, primary, support string) model.Option {
	return model.Option{
		Value:       value,
		Text:        text,
		Description: description,
		ArchetypePoints: map[string]int{
			primary: primaryPoints,
			support: supportPoints,
		},
	}
}

// DefaultQuestions returns a fresh copy of the built-in quiz
func DefaultQuestions() []model.Question {
	out := make([]model.Question, len(defaultQuestions))
	for i, q := range defaultQuestions {
		out[i] = cloneQuestion(q)
		out[i].Order = i
	}
	return out
}

var defaultQuestions = []model.Question{
	{
		ID:   "q1",
		Text: "What is the primary goal of your brand?",
		Options: []model.Option{
			opt("freedom", "To help people break free from constraints", "Encouraging independence and self-expression", "Iconoclast", "Adventurer"),
			opt("service", "To care for and protect others", "Providing safety, support and comfort", "Shepherd", "Sentinel"),
			opt("mastery", "To help people improve and excel", "Delivering expertise and empowering achievement", "Sage", "Engineer"),
			opt("connection", "To bring people together", "Creating belonging and fostering relationships", "Host", "Storyteller"),
		},
	},
	{
		ID:   "q2",
		Text: "How would you describe your brand's approach to innovation?",
		Options: []model.Option{
			opt("disruptive", "Revolutionary - we challenge the status quo", "Breaking rules and creating new paradigms", "Pioneer", "Iconoclast"),
			opt("evolutionary", "Thoughtful - we improve on what works", "Refining and perfecting existing approaches", "Reformer", "Artisan"),
			opt("visionary", "Transformative - we imagine new possibilities", "Creating new visions of what could be", "Futurist", "Mythmaker"),
			opt("practical", "Pragmatic - we solve real problems", "Focusing on useful, functional solutions", "Engineer", "Executive"),
		},
	},
	{
		ID:   "q3",
		Text: "What tone best describes your brand's communication style?",
		Options: []model.Option{
			opt("playful", "Playful and lighthearted", "Fun, humorous, and entertaining", "Storyteller", "Host"),
			opt("authoritative", "Confident and authoritative", "Expert, decisive, and commanding", "Monarch", "Sage"),
			opt("authentic", "Honest and straightforward", "Genuine, transparent, and direct", "Artisan", "Anchor"),
			opt("inspiring", "Inspiring and uplifting", "Motivational, optimistic, and encouraging", "Catalyst", "Prophet"),
		},
	},
	{
		ID:   "q4",
		Text: "What does your brand help customers achieve?",
		Options: []model.Option{
			opt("belonging", "Feel part of something bigger", "Community, acceptance, and connection", "Host", "Shepherd"),
			opt("control", "Take control of their situation", "Mastery, competence, and capability", "Tactician", "Executive"),
			opt("transformation", "Transform themselves or their world", "Change, growth, and reinvention", "Catalyst", "Enlightener"),
			opt("stability", "Find stability and reliability", "Consistency, dependability, and trust", "Anchor", "Sentinel"),
		},
	},
	{
		ID:   "q5",
		Text: "How does your brand approach challenges?",
		Options: []model.Option{
			opt("creative", "With creativity and imagination", "Finding novel, unexpected solutions", "Mythmaker", "Artisan"),
			opt("methodical", "With careful analysis and planning", "Systematic, thorough approach", "Tactician", "Engineer"),
			opt("bold", "With courage and determination", "Facing challenges head-on", "Daredevil", "Crusader"),
			opt("collaborative", "By bringing people together", "Harnessing collective wisdom and effort", "Pathfinder", "Host"),
		},
	},
	{
		ID:   "q6",
		Text: "What value does your brand emphasize most?",
		Options: []model.Option{
			opt("freedom", "Freedom and independence", "Living life on your own terms", "Adventurer", "Iconoclast"),
			opt("excellence", "Excellence and quality", "Being the best at what you do", "Curator", "Monarch"),
			opt("joy", "Joy and pleasure", "Enjoying life to the fullest", "Daredevil", "Storyteller"),
			opt("wisdom", "Wisdom and truth", "Understanding deeper meanings", "Enlightener", "Sage"),
		},
	},
	{
		ID:   "q7",
		Text: "How would you describe your brand's personality?",
		Options: []model.Option{
			opt("nurturing", "Caring and supportive", "Focused on helping and protecting others", "Shepherd", "Anchor"),
			opt("adventurous", "Bold and adventurous", "Seeking excitement and new experiences", "Adventurer", "Pioneer"),
			opt("orderly", "Organized and structured", "Creating order from chaos", "Executive", "Sentinel"),
			opt("magical", "Magical and transformative", "Creating wonder and possibility", "Mythmaker", "Futurist"),
		},
	},
	{
		ID:   "q8",
		Text: "What fear does your brand help customers overcome?",
		Options: []model.Option{
			opt("insignificance", "Fear of being insignificant", "Helping them stand out and be recognized", "Monarch", "Curator"),
			opt("vulnerability", "Fear of vulnerability", "Providing protection and security", "Sentinel", "Shepherd"),
			opt("conformity", "Fear of conformity", "Helping them express individuality", "Iconoclast", "Pioneer"),
			opt("chaos", "Fear of chaos and uncertainty", "Creating stability and predictability", "Executive", "Anchor"),
		},
	},
	{
		ID:   "q9",
		Text: "What is your brand's approach to tradition?",
		Options: []model.Option{
			opt("revolutionary", "We challenge traditions", "Breaking with the past to create something new", "Crusader", "Iconoclast"),
			opt("respectful", "We honor traditions", "Building on the wisdom of the past", "Sage", "Curator"),
			opt("reinventive", "We reinvent traditions", "Updating the past for modern needs", "Reformer", "Catalyst"),
			opt("timeless", "We create new traditions", "Establishing lasting practices and rituals", "Prophet", "Mythmaker"),
		},
	},
	{
		ID:   "q10",
		Text: "How does your brand make customers feel?",
		Options: []model.Option{
			opt("powerful", "Powerful and capable", "Able to achieve their goals", "Tactician", "Monarch"),
			opt("delighted", "Delighted and entertained", "Experiencing joy and pleasure", "Storyteller", "Daredevil"),
			opt("understood", "Understood and accepted", "Seen for who they truly are", "Pathfinder", "Shepherd"),
			opt("inspired", "Inspired and motivated", "Ready to take action and make changes", "Prophet", "Crusader"),
		},
	},
	{
		ID:   "q11",
		Text: "What best describes your brand's visual aesthetic?",
		Options: []model.Option{
			opt("luxurious", "Elegant and sophisticated", "Refined, high-end, and polished", "Curator", "Monarch"),
			opt("authentic", "Authentic and natural", "Genuine, unfiltered, and organic", "Artisan", "Storyteller"),
			opt("bold", "Bold and striking", "Eye-catching, vibrant, and distinctive", "Crusader", "Daredevil"),
			opt("minimalist", "Clean and minimalist", "Simple, uncluttered, and focused", "Engineer", "Futurist"),
		},
	},
	{
		ID:   "q12",
		Text: "What is your brand's ultimate purpose?",
		Options: []model.Option{
			opt("change", "To change the world", "Creating significant, lasting transformation", "Pioneer", "Crusader"),
			opt("serve", "To serve others", "Meeting needs and solving problems", "Shepherd", "Reformer"),
			opt("delight", "To bring joy and delight", "Making life more enjoyable and fun", "Host", "Storyteller"),
			opt("empower", "To empower individuals", "Helping people realize their potential", "Enlightener", "Pathfinder"),
		},
	},
}
