package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandquiz/internal/model"
)

func TestDefault_HasTwelvePairs(t *testing.T) {
	c := Default()
	assert.Equal(t, 24, c.Len())
	assert.Len(t, c.Pairs(), 12)
	for _, p := range c.Pairs() {
		assert.Len(t, p.Archetypes, 2, "pair %s", p.Key)
	}
}

func TestByName(t *testing.T) {
	c := Default()

	a, ok := c.ByName("Pioneer")
	require.True(t, ok)
	assert.Equal(t, "Pioneer–Pathfinder", a.PairKey)

	_, ok = c.ByName("Nobody")
	assert.False(t, ok)
}

func TestPaired(t *testing.T) {
	c := Default()

	p, ok := c.Paired("Sage")
	require.True(t, ok)
	assert.Equal(t, "Enlightener", p.Name)

	p, ok = c.Paired("Enlightener")
	require.True(t, ok)
	assert.Equal(t, "Sage", p.Name)

	_, ok = c.Paired("Nobody")
	assert.False(t, ok)
}

func TestSamePair(t *testing.T) {
	c := Default()
	assert.True(t, c.SamePair("Host", "Shepherd"))
	assert.False(t, c.SamePair("Host", "Sage"))
	assert.False(t, c.SamePair("Host", "Nobody"))
	assert.False(t, c.SamePair("Nobody", "Nobody"))
}

func TestNames_Sorted(t *testing.T) {
	names := Default().Names()
	require.Len(t, names, 24)
	assert.Equal(t, "Adventurer", names[0])
	assert.IsNonDecreasing(t, names)
}

func TestAll_ReturnsCopy(t *testing.T) {
	c := Default()
	all := c.All()
	all[0].Name = "Mutated"

	_, ok := c.ByName("Pioneer")
	assert.True(t, ok)
	_, ok = c.ByName("Mutated")
	assert.False(t, ok)
}

func TestNew_RejectsBadDefinitions(t *testing.T) {
	tests := []struct {
		name       string
		archetypes []model.Archetype
	}{
		{
			name: "duplicate name",
			archetypes: []model.Archetype{
				{Name: "A1", PairKey: "P1"},
				{Name: "A1", PairKey: "P1"},
			},
		},
		{
			name: "pair with one member",
			archetypes: []model.Archetype{
				{Name: "A1", PairKey: "P1"},
				{Name: "A2", PairKey: "P1"},
				{Name: "B1", PairKey: "P2"},
			},
		},
		{
			name: "pair with three members",
			archetypes: []model.Archetype{
				{Name: "A1", PairKey: "P1"},
				{Name: "A2", PairKey: "P1"},
				{Name: "A3", PairKey: "P1"},
			},
		},
		{
			name:       "reserved name",
			archetypes: []model.Archetype{{Name: "Unknown", PairKey: "P1"}, {Name: "A2", PairKey: "P1"}},
		},
		{
			name:       "empty name",
			archetypes: []model.Archetype{{Name: "", PairKey: "P1"}, {Name: "A2", PairKey: "P1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.archetypes)
			assert.Error(t, err)
		})
	}
}

func TestDefaultQuestions_Valid(t *testing.T) {
	set := NewQuestionSet(DefaultQuestions())
	require.Equal(t, 12, set.Len())
	require.NoError(t, set.Validate(Default()))

	for _, q := range set.Questions() {
		assert.Len(t, q.Options, 4, "question %s", q.ID)
	}
}

func TestDefaultQuestions_EveryArchetypeReachable(t *testing.T) {
	reachable := make(map[string]bool)
	for _, q := range DefaultQuestions() {
		for _, o := range q.Options {
			for name, pts := range o.ArchetypePoints {
				if pts == primaryPoints {
					reachable[name] = true
				}
			}
		}
	}
	for _, name := range Default().Names() {
		assert.True(t, reachable[name], "%s is never a primary option target", name)
	}
}

func TestQuestionSet_ByIDAndPublic(t *testing.T) {
	set := NewQuestionSet(DefaultQuestions())

	q, ok := set.ByID("q3")
	require.True(t, ok)
	assert.Equal(t, 2, q.Order)

	_, ok = set.ByID("q99")
	assert.False(t, ok)

	public := set.Public()
	require.Len(t, public, 12)
	assert.Equal(t, "q1", public[0].ID)
	assert.Equal(t, "freedom", public[0].Options[0].Value)
}

func TestQuestionSet_IsolatedFromCallerMutation(t *testing.T) {
	qs := DefaultQuestions()
	set := NewQuestionSet(qs)

	qs[0].Options[0].ArchetypePoints["Iconoclast"] = 100

	q, _ := set.ByID("q1")
	assert.Equal(t, primaryPoints, q.Options[0].ArchetypePoints["Iconoclast"])
}

func TestQuestionSet_Validate(t *testing.T) {
	c := MustNew([]model.Archetype{
		{Name: "A1", PairKey: "P1"},
		{Name: "A2", PairKey: "P1"},
	})

	set := NewQuestionSet([]model.Question{
		{ID: "x", Options: []model.Option{
			{Value: "a", ArchetypePoints: map[string]int{"A1": 1}},
			{Value: "a", ArchetypePoints: map[string]int{"Ghost": 1}},
		}},
		{ID: "x"},
	})

	err := set.Validate(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate option")
	assert.Contains(t, err.Error(), "unknown archetype")
	assert.Contains(t, err.Error(), "duplicate question id")
	assert.Contains(t, err.Error(), "has no options")

	assert.Error(t, NewQuestionSet(nil).Validate(c))
}
