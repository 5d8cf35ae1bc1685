package model

// Archetype is one brand-personality category. Archetypes come in exclusive pairs
// that share a PairKey.
type Archetype struct {
	Name        string   `json:"name" bson:"name"`
	PairKey     string   `json:"pairKey" bson:"pairKey"`
	Description string   `json:"description" bson:"description"`
	Keywords    []string `json:"keywords,omitempty" bson:"keywords,omitempty"`
}

// Pair groups the two archetypes of one axis
type Pair struct {
	Key        string      `json:"key"`
	Archetypes []Archetype `json:"archetypes"`
}

// UnknownArchetype is reported when the current brand type cannot be determined
const UnknownArchetype = "Unknown"
