package catalog

import (
	"fmt"
	"slices"
	"sort"

	"brandquiz/internal/model"
)

// Catalog is an immutable set of archetypes grouped into exclusive pairs
type Catalog struct {
	archetypes []model.Archetype
	byName     map[string]int
	pairs      []model.Pair
}

// New builds a catalog and checks that names are unique and every pair
// key is shared by exactly two archetypes.
func New(archetypes []model.Archetype) (*Catalog, error) {
	c := &Catalog{
		archetypes: make([]model.Archetype, 0, len(archetypes)),
		byName:     make(map[string]int, len(archetypes)),
	}

	members := make(map[string][]model.Archetype)
	var pairOrder []string
	for _, a := range archetypes {
		if a.Name == "" {
			return nil, fmt.Errorf("archetype with empty name")
		}
		if a.Name == model.UnknownArchetype {
			return nil, fmt.Errorf("archetype name %q is reserved", a.Name)
		}
		if _, dup := c.byName[a.Name]; dup {
			return nil, fmt.Errorf("duplicate archetype %q", a.Name)
		}
		a.Keywords = slices.Clone(a.Keywords)
		c.byName[a.Name] = len(c.archetypes)
		c.archetypes = append(c.archetypes, a)

		if _, seen := members[a.PairKey]; !seen {
			pairOrder = append(pairOrder, a.PairKey)
		}
		members[a.PairKey] = append(members[a.PairKey], a)
	}

	for _, key := range pairOrder {
		if len(members[key]) != 2 {
			return nil, fmt.Errorf("pair %q has %d archetypes, want 2", key, len(members[key]))
		}
		c.pairs = append(c.pairs, model.Pair{Key: key, Archetypes: members[key]})
	}

	return c, nil
}

// MustNew is like New but panics on an invalid definition
func MustNew(archetypes []model.Archetype) *Catalog {
	c, err := New(archetypes)
	if err != nil {
		panic(err)
	}
	return c
}

// ByName returns the archetype with the given name
func (c *Catalog) ByName(name string) (model.Archetype, bool) {
	i, ok := c.byName[name]
	if !ok {
		return model.Archetype{}, false
	}
	return c.archetypes[i], true
}

// Paired returns the other archetype of name's pair
func (c *Catalog) Paired(name string) (model.Archetype, bool) {
	a, ok := c.ByName(name)
	if !ok {
		return model.Archetype{}, false
	}
	for _, other := range c.archetypes {
		if other.PairKey == a.PairKey && other.Name != name {
			return other, true
		}
	}
	return model.Archetype{}, false
}

// SamePair reports whether both names are known and share a pair.
func (c *Catalog) SamePair(a, b string) bool {
	x, ok := c.ByName(a)
	if !ok {
		return false
	}
	y, ok := c.ByName(b)
	if !ok {
		return false
	}
	return x.PairKey == y.PairKey
}

// Names returns every archetype name, sorted
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.archetypes))
	for _, a := range c.archetypes {
		names = append(names, a.Name)
	}
	sort.Strings(names)
	return names
}

// All returns the archetypes in definition order
func (c *Catalog) All() []model.Archetype {
	return slices.Clone(c.archetypes)
}

// Pairs returns the pairs in definition order
func (c *Catalog) Pairs() []model.Pair {
	out := make([]model.Pair, len(c.pairs))
	for i, p := range c.pairs {
		out[i] = model.Pair{Key: p.Key, Archetypes: slices.Clone(p.Archetypes)}
	}
	return out
}

// Len returns the number of archetypes
func (c *Catalog) Len() int {
	return len(c.archetypes)
}

var defaultCatalog = MustNew(brandArchetypes)

// Default returns the process-wide brand archetype catalog
func Default() *Catalog {
	return defaultCatalog
}

var brandArchetypes = []model.Archetype{
	{Name: "Pioneer", PairKey: "Pioneer–Pathfinder", Description: "Breaks new ground, leads the way into unexplored territory",
		Keywords: []string{"first", "frontier", "bold", "original"}},
	{Name: "Pathfinder", PairKey: "Pioneer–Pathfinder", Description: "Guides others through journeys of discovery and growth",
		Keywords: []string{"guide", "journey", "discovery", "growth"}},

	{Name: "Monarch", PairKey: "Monarch–Executive", Description: "Projects authority, sets standards of excellence and leadership",
		Keywords: []string{"authority", "prestige", "leadership", "standard"}},
	{Name: "Executive", PairKey: "Monarch–Executive", Description: "Manages systems efficiently, brings order and organization",
		Keywords: []string{"efficient", "organized", "process", "reliable"}},

	{Name: "Iconoclast", PairKey: "Iconoclast–Catalyst", Description: "Breaks rules and challenges conventions to create change",
		Keywords: []string{"disrupt", "rebel", "unconventional", "challenge"}},
	{Name: "Catalyst", PairKey: "Iconoclast–Catalyst", Description: "Inspires transformation and facilitates meaningful change",
		Keywords: []string{"transform", "spark", "momentum", "change"}},

	{Name: "Prophet", PairKey: "Prophet–Futurist", Description: "Delivers wisdom and foresight with conviction and purpose",
		Keywords: []string{"conviction", "purpose", "foresight", "mission"}},
	{Name: "Futurist", PairKey: "Prophet–Futurist", Description: "Envisions possibilities and paints a picture of what could be",
		Keywords: []string{"vision", "tomorrow", "possibility", "innovation"}},

	{Name: "Sentinel", PairKey: "Sentinel–Anchor", Description: "Protects what matters, maintains vigilance over core values",
		Keywords: []string{"protect", "secure", "vigilant", "safeguard"}},
	{Name: "Anchor", PairKey: "Sentinel–Anchor", Description: "Provides stability and safety in changing circumstances",
		Keywords: []string{"stable", "trusted", "dependable", "steady"}},

	{Name: "Storyteller", PairKey: "Storyteller–Mythmaker", Description: "Connects through authentic narratives that resonate",
		Keywords: []string{"story", "narrative", "authentic", "voice"}},
	{Name: "Mythmaker", PairKey: "Storyteller–Mythmaker", Description: "Creates powerful stories that transcend ordinary reality",
		Keywords: []string{"legend", "wonder", "imagination", "magic"}},

	{Name: "Crusader", PairKey: "Crusader–Reformer", Description: "Champions causes with passion and unwavering commitment",
		Keywords: []string{"cause", "passion", "fight", "commitment"}},
	{Name: "Reformer", PairKey: "Crusader–Reformer", Description: "Improves systems and structures to create better outcomes",
		Keywords: []string{"improve", "better", "fair", "progress"}},

	{Name: "Artisan", PairKey: "Artisan–Curator", Description: "Creates with skill and vision, valuing craft and quality",
		Keywords: []string{"craft", "handmade", "quality", "detail"}},
	{Name: "Curator", PairKey: "Artisan–Curator", Description: "Selects and presents the finest elements with discernment",
		Keywords: []string{"selection", "refined", "taste", "exclusive"}},

	{Name: "Tactician", PairKey: "Tactician–Engineer", Description: "Strategizes for advantage, using intelligence and planning",
		Keywords: []string{"strategy", "advantage", "plan", "results"}},
	{Name: "Engineer", PairKey: "Tactician–Engineer", Description: "Builds functional solutions through technical innovation",
		Keywords: []string{"build", "technical", "solution", "function"}},

	{Name: "Sage", PairKey: "Sage–Enlightener", Description: "Offers wisdom and expertise, providing depth of knowledge",
		Keywords: []string{"expertise", "knowledge", "research", "insight"}},
	{Name: "Enlightener", PairKey: "Sage–Enlightener", Description: "Illuminates truths and expands awareness for others",
		Keywords: []string{"learn", "awareness", "teach", "clarity"}},

	{Name: "Shepherd", PairKey: "Shepherd–Host", Description: "Cares for others with compassion and protective guidance",
		Keywords: []string{"care", "compassion", "support", "wellbeing"}},
	{Name: "Host", PairKey: "Shepherd–Host", Description: "Creates welcoming spaces where connections can flourish",
		Keywords: []string{"welcome", "community", "together", "hospitality"}},

	{Name: "Adventurer", PairKey: "Adventurer–Daredevil", Description: "Explores with curiosity and embraces new experiences",
		Keywords: []string{"explore", "curious", "freedom", "experience"}},
	{Name: "Daredevil", PairKey: "Adventurer–Daredevil", Description: "Takes bold risks and pushes boundaries with flair",
		Keywords: []string{"thrill", "risk", "extreme", "fearless"}},
}
