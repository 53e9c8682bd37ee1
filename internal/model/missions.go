package model

import "fmt"

// Mission :
// Describes the objective assigned to a flight. The
// mission determines which targets are valid, which
// ships have to be part of the fleet and how the
// flight is resolved when reaching its destination.
type Mission string

// Define the possible missions for a flight.
const (
	Attack        Mission = "attack"
	Colonization  Mission = "colonization"
	Deployment    Mission = "deployment"
	Destroy       Mission = "destroy"
	Espionage     Mission = "espionage"
	Harvest       Mission = "harvest"
	Hold          Mission = "hold"
	MissileAttack Mission = "missile attack"
	Transport     Mission = "transport"
)

// ErrInvalidMission : Indicates that the mission does
// not correspond to any known objective.
var ErrInvalidMission = fmt.Errorf("invalid mission for flight")

// Missions :
// The list of all the missions a flight can carry out.
var Missions = []Mission{
	Attack,
	Colonization,
	Deployment,
	Destroy,
	Espionage,
	Harvest,
	Hold,
	MissileAttack,
	Transport,
}

// Valid :
// Determines whether the mission corresponds to one of
// the known objectives.
//
// Returns `true` if the mission is valid.
func (m Mission) Valid() bool {
	for _, mission := range Missions {
		if m == mission {
			return true
		}
	}

	return false
}

// Hostile :
// A hostile mission can only target a body that does
// not belong to the sender and makes the flight appear
// as a threat to the defender.
//
// Returns `true` if the mission is hostile.
func (m Mission) Hostile() bool {
	switch m {
	case Attack, Destroy, Espionage, MissileAttack:
		return true
	}

	return false
}

// TargetKinds :
// Provides the kinds of bodies a flight with this
// mission is allowed to target. An attack can target
// a planet or a moon, a harvesting mission only ever
// makes sense against a debris field, the destruction
// of a body only applies to moons and a colonization
// aims at an empty position (represented by a planet
// coordinate).
//
// Returns the list of valid target kinds.
func (m Mission) TargetKinds() []Location {
	switch m {
	case Harvest:
		return []Location{Debris}
	case Destroy:
		return []Location{Moon}
	case Colonization:
		return []Location{World}
	default:
		return []Location{World, Moon}
	}
}

// ValidTarget :
// Convenience wrapper determining whether the kind of
// the provided coordinate is a valid target for this
// mission.
//
// The `target` defines the coordinate to check.
//
// Returns `true` if the mission can be directed at the
// target.
func (m Mission) ValidTarget(target Coordinate) bool {
	for _, kind := range m.TargetKinds() {
		if target.Kind == kind {
			return true
		}
	}

	return false
}

// Recallable :
// Indicates whether a flight carrying out this mission
// can be called back by its owner before reaching the
// destination. Missiles cannot be recalled once fired.
//
// Returns `true` if the mission can be recalled.
func (m Mission) Recallable() bool {
	return m != MissileAttack
}

// PartyCreatable :
// Indicates whether a flight with this mission can be
// the founding member of a party regrouping several
// fleets. Only group attacks are supported.
//
// Returns `true` if a party can be created for the
// mission.
func (m Mission) PartyCreatable() bool {
	return m == Attack
}

// Deterministic :
// A deterministic mission resolves to a single outcome
// once dispatched while other missions involve a random
// draw (combat rolls, counter-espionage).
//
// Returns `true` if the resolution involves no draw.
func (m Mission) Deterministic() bool {
	switch m {
	case Attack, Destroy, Espionage:
		return false
	}

	return true
}
