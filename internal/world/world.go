package world

import "math"

// EntityID is a stable identity for a villager or player (a UUID on
// most hosts).
type EntityID string

// WorldID identifies a world/dimension within the host runtime.
type WorldID string

// DayPhase is the coarse time of day used in prompts.
type DayPhase int

const (
	Day DayPhase = iota
	Night
)

// Position is a point in world coordinates.
type Position struct {
	X float64
	Y float64
	Z float64
}

// DistanceSquaredTo returns the squared straight-line distance to other.
func (p Position) DistanceSquaredTo(other Position) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	dz := p.Z - other.Z
	return dx*dx + dy*dy + dz*dz
}

// DistanceTo returns the straight-line distance to other.
func (p Position) DistanceTo(other Position) float64 {
	return math.Sqrt(p.DistanceSquaredTo(other))
}

// Context is the narrow capability the engine needs from the host game
// runtime. Implementations must be safe for concurrent use; the engine
// calls them from session sweeps and prompt construction.
type Context interface {
	// TimeOfDay reports whether it is day or night in the given world.
	TimeOfDay(w WorldID) DayPhase

	// IsStorming reports whether the given world has a storm.
	IsStorming(w WorldID) bool

	// BiomeAt returns the biome name at a position.
	BiomeAt(w WorldID, pos Position) string

	// ReputationScore returns the weighted reputation the character
	// holds toward the participant. See WeightedScore.
	ReputationScore(character EntityID, participant EntityID) int

	// WorldOf returns the world an entity currently occupies.
	WorldOf(entity EntityID) WorldID

	// LocationOf returns an entity's current position.
	LocationOf(entity EntityID) Position
}
