package game

import (
	"math"

	"ogflight_server/internal/model"
)

// Distance :
// Computes the distance separating the two coordinates
// in the input universe. Both the galaxy axis and the
// system axis wrap around so the shorter arc is used.
//
// The `settings` define the dimensions of the universe.
//
// The `from` and `to` define the coordinates.
//
// Returns the distance between the coordinates.
func Distance(settings Settings, from model.Coordinate, to model.Coordinate) int {
	return from.DistanceTo(to, settings.GalaxiesCount, settings.GalaxySize)
}

// FleetSpeed :
// Computes the speed of a fleet, which is the speed of
// its slowest ship once the drive researches of the
// owner are accounted for.
//
// The `ships` define the composition of the fleet.
//
// The `techs` define the researches of the owner.
//
// Returns the speed of the fleet, `0` for an empty
// composition.
func FleetSpeed(ships model.ShipsCount, techs model.TechLevels) float64 {
	speed := 0.0

	for ship, count := range ships {
		if count <= 0 {
			continue
		}

		s := ship.Speed(techs)
		if s <= 0.0 {
			continue
		}

		if speed == 0.0 || s < speed {
			speed = s
		}
	}

	return speed
}

// FlightDuration :
// Computes the one way travel time of a fleet in whole
// seconds. The raw duration is divided by the global
// speed multiplier of the universe and clamped so that
// no trip ever takes less than a second.
//
// The `settings` define the universe constants.
//
// The `distance` defines the distance to cover.
//
// The `speed` defines the speed of the fleet.
//
// The `factor` defines the fraction of the max speed
// selected by the player, in tenths.
//
// Returns the duration of the trip in seconds.
func FlightDuration(settings Settings, distance int, speed float64, factor int) int {
	raw := math.Round(35000.0/float64(factor)*math.Sqrt(10.0*float64(distance)/speed)) + 10.0

	duration := int(raw) / settings.FleetSpeed
	if duration < 1 {
		duration = 1
	}

	return duration
}

// FuelConsumption :
// Computes the fuel needed by a fleet to cover the
// input distance. Each type of ship contributes its
// base consumption scaled by the distance and by how
// hard its drive has to brake to match the speed of
// the slowest ship.
//
// The `ships` define the composition of the fleet.
//
// The `techs` define the researches of the owner.
//
// The `distance` defines the distance to cover.
//
// The `speed` defines the speed of the fleet.
//
// The `factor` defines the fraction of the max speed
// selected by the player, in tenths.
//
// Returns the amount of deuterium needed by the trip.
func FuelConsumption(ships model.ShipsCount, techs model.TechLevels, distance int, speed float64, factor int) float64 {
	total := 0.0

	for ship, count := range ships {
		if count <= 0 {
			continue
		}

		desc, err := ship.Desc()
		if err != nil || !desc.Flyable {
			continue
		}

		unitSpeed := ship.Speed(techs)
		if unitSpeed <= 0.0 {
			continue
		}

		brake := 0.1*float64(factor)*math.Sqrt(speed/unitSpeed) + 1.0

		total += float64(count) * float64(desc.Consumption) * float64(distance) / 35000.0 * brake * brake
	}

	return 1.0 + math.Round(total)
}

// CargoCapacity :
// Computes the capacity left in the bays of a fleet
// once the fuel needed by the trip is loaded.
//
// The `ships` define the composition of the fleet.
//
// The `fuel` defines the fuel loaded for the trip.
//
// Returns the remaining capacity, possibly negative
// when the fleet cannot even carry its own fuel.
func CargoCapacity(ships model.ShipsCount, fuel float64) float64 {
	return float64(ships.TotalCargo()) - fuel
}

// MissileRange :
// Computes the reach of the missiles fired from a
// body, in solar systems, given the impulse drive
// research of the owner.
//
// The `impulseLevel` defines the level of the impulse
// drive research.
//
// Returns the reach in solar systems.
func MissileRange(impulseLevel int) int {
	return 5*impulseLevel - 1
}

// MissileDuration :
// Computes the flight time of a missile strike in
// whole seconds, divided by the global speed
// multiplier and clamped to at least a second.
//
// The `settings` define the universe constants.
//
// The `systems` define the wrapped system distance
// to the target.
//
// Returns the duration of the strike in seconds.
func MissileDuration(settings Settings, systems int) int {
	duration := (30 + 60*systems) / settings.FleetSpeed
	if duration < 1 {
		duration = 1
	}

	return duration
}
