package model

import (
	"fmt"
	"math"
)

// Coordinate :
// Defines the location of a body within its universe. It
// regroups the galaxy, solar system and position indices
// along with the kind of body (planet, moon or debris
// field) living at that spot.
//
// The `Galaxy` defines the index of the galaxy within the
// universe. Its value is consistent with the maximum number
// of galaxies in the universe.
//
// The `System` defines the index of the solar system that
// contains the body within its galaxy.
//
// The `Position` defines the position of the body within
// its solar system.
//
// The `Kind` defines which of the bodies sharing the same
// location this coordinate points at.
type Coordinate struct {
	Galaxy   int      `json:"galaxy"`
	System   int      `json:"system"`
	Position int      `json:"position"`
	Kind     Location `json:"location"`
}

// Location :
// Describes the kind of body a coordinate points at. Up to
// three bodies can share the same galaxy, system and
// position: a planet, its moon and the debris field
// hovering above them.
type Location string

// Define the possible kinds for a coordinate.
const (
	World  Location = "planet"
	Moon   Location = "moon"
	Debris Location = "debris"
)

// NewCoordinate :
// Used to create a new coordinate object from the input
// data. No controls are performed to verify that the input
// coords are actually consistent with anything.
//
// The `galaxy` represents the index of the galaxy.
//
// The `system` represents the solar system index.
//
// The `position` defines the position of the body within
// its parent solar system.
//
// The `kind` defines the type of body the coordinate
// points at.
//
// Returns the created coordinate object.
func NewCoordinate(galaxy int, system int, position int, kind Location) Coordinate {
	return Coordinate{
		galaxy,
		system,
		position,
		kind,
	}
}

// NewPlanetCoordinate :
// Similar to `NewCoordinate` but assigns a planet kind to
// the created object.
//
// Returns the created coordinate object.
func NewPlanetCoordinate(galaxy int, system int, position int) Coordinate {
	return NewCoordinate(galaxy, system, position, World)
}

// String :
// Implementation of the stringer interface for a coord.
// Helps printing this data structure to a stream or to
// visually see it in the logs.
//
// Returns the string representing the coordinates.
func (c Coordinate) String() string {
	return fmt.Sprintf("[G: %d, S: %d, P: %d, %s]", c.Galaxy, c.System, c.Position, c.Kind)
}

// SameLocation :
// Determines whether this coordinate points at the same
// galaxy, system and position as the other one, without
// considering the kind of body.
//
// The `other` defines the coordinate to compare to.
//
// Returns `true` if both coordinates share the location.
func (c Coordinate) SameLocation(other Coordinate) bool {
	return c.Galaxy == other.Galaxy && c.System == other.System && c.Position == other.Position
}

// Valid :
// Used to determine whether this set of coordinates is
// valid given the dimensions of the universe. Note that we
// also assume that a negative coordinate is not valid.
//
// The `galaxyCount` defines the maximum number of galaxies.
//
// The `galaxySize` defines how many solar systems exist in
// each galaxy.
//
// The `solarSystemSize` defines how many positions can be
// found in each solar system.
//
// Returns `true` if the coordinate is valid.
func (c Coordinate) Valid(galaxyCount int, galaxySize int, solarSystemSize int) bool {
	return c.Galaxy >= 0 && c.Galaxy < galaxyCount &&
		c.System >= 0 && c.System < galaxySize &&
		c.Position >= 0 && c.Position < solarSystemSize
}

// wrappedDelta :
// Computes the shortest difference between two indices on
// a circular axis of the provided size.
//
// Returns the wrapped difference.
func wrappedDelta(a int, b int, size int) int {
	d := int(math.Abs(float64(a - b)))

	if size > 0 && size-d < d {
		d = size - d
	}

	return d
}

// DistanceTo :
// Used to compute the distance from this position to the
// other provided as input. Both the galaxy and the system
// axes wrap around so that the distance is computed along
// the shorter arc.
//
// The `other` defines the other coordinates for which a
// distance should be computed.
//
// The `galaxyCount` defines the number of galaxies in the
// universe.
//
// The `galaxySize` defines the number of solar systems in
// each galaxy.
//
// Returns the distance between the two coordinates.
func (c Coordinate) DistanceTo(other Coordinate, galaxyCount int, galaxySize int) int {
	if c.Galaxy != other.Galaxy {
		return 20000 * wrappedDelta(c.Galaxy, other.Galaxy, galaxyCount)
	}

	if c.System != other.System {
		return 2700 + 95*wrappedDelta(c.System, other.System, galaxySize)
	}

	if c.Position != other.Position {
		dPos := float64(c.Position - other.Position)
		return 1000 + 5*int(math.Abs(dPos))
	}

	// Within same position the cost is always identical.
	return 5
}

// SystemsTo :
// Computes the number of solar systems separating this
// coordinate from the other one along the shorter arc of
// the system ring. This value is used to assess whether a
// missile can reach its target and how long it flies.
//
// The `other` defines the other coordinates.
//
// The `galaxySize` defines the number of solar systems in
// each galaxy.
//
// Returns the wrapped system difference.
func (c Coordinate) SystemsTo(other Coordinate, galaxySize int) int {
	return wrappedDelta(c.System, other.System, galaxySize)
}
