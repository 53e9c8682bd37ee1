package model

// Technology :
// Describes a research known by a player. Only the
// technologies influencing flights are listed here:
// the drives modify the speed of the ships using
// them, the computer technology grants fleet slots,
// astrophysics limits the planets that can be
// colonized and the military researches alter the
// outcome of attacks and espionage operations.
type Technology string

// Define the technologies influencing flights.
const (
	CombustionDrive Technology = "combustion drive"
	ImpulseDrive    Technology = "impulse drive"
	HyperspaceDrive Technology = "hyperspace drive"
	ComputerTech    Technology = "computer technology"
	Astrophysics    Technology = "astrophysics"
	EspionageTech   Technology = "espionage technology"
	WeaponsTech     Technology = "weapons technology"
	ArmourTech      Technology = "armour technology"
)

// TechLevels :
// Regroups the levels of the technologies researched
// by a player. A missing entry is interpreted as a
// level of `0`.
type TechLevels map[Technology]int

// Level :
// Fetches the level of the input technology, using
// `0` for researches that were never started.
//
// The `tech` defines the technology to fetch.
//
// Returns the level of the technology.
func (t TechLevels) Level(tech Technology) int {
	if t == nil {
		return 0
	}

	return t[tech]
}

// FleetSlots :
// Computes the number of fleets the player can keep
// in flight at any moment. One slot is granted per
// level of the computer technology on top of a base
// slot every player has.
//
// Returns the number of available fleet slots.
func (t TechLevels) FleetSlots() int {
	return 1 + t.Level(ComputerTech)
}

// MaxColonizablePlanets :
// Computes the maximum number of planets the player
// can own given their astrophysics research. The
// first level unlocks a colony on top of the home
// world and every two further levels unlock another
// one.
//
// Returns the maximum number of planets.
func (t TechLevels) MaxColonizablePlanets() int {
	return 1 + (t.Level(Astrophysics)+1)/2
}
