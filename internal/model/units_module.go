package model

import "fmt"

// Ship :
// Identifies a type of ship that can be part of a
// fleet.
type Ship string

// Define the ships known to the game.
const (
	SmallCargo     Ship = "small cargo ship"
	LargeCargo     Ship = "large cargo ship"
	LightFighter   Ship = "light fighter"
	HeavyFighter   Ship = "heavy fighter"
	Cruiser        Ship = "cruiser"
	Battleship     Ship = "battleship"
	ColonyShip     Ship = "colony ship"
	Recycler       Ship = "recycler"
	EspionageProbe Ship = "espionage probe"
	Bomber         Ship = "bomber"
	Destroyer      Ship = "destroyer"
	Deathstar      Ship = "deathstar"
	Battlecruiser  Ship = "battlecruiser"
	SolarSatellite Ship = "solar satellite"
)

// ErrInvalidShip : Indicates that the ship does not
// correspond to any known type.
var ErrInvalidShip = fmt.Errorf("invalid ship type")

// ShipDesc :
// Regroups the static properties of a type of ship
// that matter when it is part of a fleet.
//
// The `Cargo` defines the capacity of the cargo bay
// in resource units.
//
// The `Speed` defines the base speed of the ship,
// before the bonus granted by the drive researches.
//
// The `Consumption` defines the base fuel usage of
// the ship over a reference trip.
//
// The `Weapon` defines the base weapon power of the
// ship.
//
// The `Armour` defines the structural integrity of
// the ship, from which its hull plating derives.
//
// The `Drive` defines the research improving the
// speed of this ship.
//
// The `UpgradedDrive` defines an optional better
// drive the ship switches to once the research
// reaches `UpgradeLevel`. The speed is then based
// on `UpgradedSpeed`.
//
// The `Flyable` defines whether the ship can leave
// its body as part of a fleet.
type ShipDesc struct {
	Cargo         int
	Speed         int
	Consumption   int
	Weapon        float64
	Armour        int
	Drive         Technology
	UpgradedDrive Technology
	UpgradeLevel  int
	UpgradedSpeed int
	Flyable       bool
}

// shipsDesc :
// The catalog of the ships known to the game.
var shipsDesc = map[Ship]ShipDesc{
	SmallCargo: {
		Cargo:         5000,
		Speed:         5000,
		Consumption:   10,
		Weapon:        5,
		Armour:        4000,
		Drive:         CombustionDrive,
		UpgradedDrive: ImpulseDrive,
		UpgradeLevel:  5,
		UpgradedSpeed: 10000,
		Flyable:       true,
	},
	LargeCargo: {
		Cargo:       25000,
		Speed:       7500,
		Consumption: 50,
		Weapon:      5,
		Armour:      12000,
		Drive:       CombustionDrive,
		Flyable:     true,
	},
	LightFighter: {
		Cargo:       50,
		Speed:       12500,
		Consumption: 20,
		Weapon:      50,
		Armour:      4000,
		Drive:       CombustionDrive,
		Flyable:     true,
	},
	HeavyFighter: {
		Cargo:       100,
		Speed:       10000,
		Consumption: 75,
		Weapon:      150,
		Armour:      10000,
		Drive:       ImpulseDrive,
		Flyable:     true,
	},
	Cruiser: {
		Cargo:       800,
		Speed:       15000,
		Consumption: 300,
		Weapon:      400,
		Armour:      27000,
		Drive:       ImpulseDrive,
		Flyable:     true,
	},
	Battleship: {
		Cargo:       1500,
		Speed:       10000,
		Consumption: 500,
		Weapon:      1000,
		Armour:      60000,
		Drive:       HyperspaceDrive,
		Flyable:     true,
	},
	ColonyShip: {
		Cargo:       7500,
		Speed:       2500,
		Consumption: 1000,
		Weapon:      50,
		Armour:      30000,
		Drive:       ImpulseDrive,
		Flyable:     true,
	},
	Recycler: {
		Cargo:       20000,
		Speed:       2000,
		Consumption: 300,
		Weapon:      1,
		Armour:      16000,
		Drive:       CombustionDrive,
		Flyable:     true,
	},
	EspionageProbe: {
		Cargo:       5,
		Speed:       100000000,
		Consumption: 1,
		Weapon:      0.01,
		Armour:      1000,
		Drive:       CombustionDrive,
		Flyable:     true,
	},
	Bomber: {
		Cargo:         500,
		Speed:         4000,
		Consumption:   1000,
		Weapon:        1000,
		Armour:        75000,
		Drive:         ImpulseDrive,
		UpgradedDrive: HyperspaceDrive,
		UpgradeLevel:  8,
		UpgradedSpeed: 5000,
		Flyable:       true,
	},
	Destroyer: {
		Cargo:       2000,
		Speed:       5000,
		Consumption: 1000,
		Weapon:      2000,
		Armour:      110000,
		Drive:       HyperspaceDrive,
		Flyable:     true,
	},
	Deathstar: {
		Cargo:       1000000,
		Speed:       100,
		Consumption: 1,
		Weapon:      200000,
		Armour:      9000000,
		Drive:       HyperspaceDrive,
		Flyable:     true,
	},
	Battlecruiser: {
		Cargo:       750,
		Speed:       10000,
		Consumption: 250,
		Weapon:      700,
		Armour:      70000,
		Drive:       HyperspaceDrive,
		Flyable:     true,
	},
	SolarSatellite: {
		Cargo:   0,
		Speed:   0,
		Weapon:  1,
		Armour:  2000,
		Flyable: false,
	},
}

// Desc :
// Fetches the static properties of this ship.
//
// Returns the description along with any error in
// case the ship does not exist.
func (s Ship) Desc() (ShipDesc, error) {
	desc, ok := shipsDesc[s]
	if !ok {
		return ShipDesc{}, ErrInvalidShip
	}

	return desc, nil
}

// Valid :
// Returns `true` if this ship exists in the catalog.
func (s Ship) Valid() bool {
	_, ok := shipsDesc[s]
	return ok
}

// driveFactor :
// Provides the per-level speed bonus granted by a
// drive research.
//
// The `drive` defines the research to evaluate.
//
// Returns the bonus granted by each level.
func driveFactor(drive Technology) float64 {
	switch drive {
	case CombustionDrive:
		return 0.1
	case ImpulseDrive:
		return 0.2
	case HyperspaceDrive:
		return 0.3
	}

	return 0.0
}

// Speed :
// Computes the effective speed of this ship given
// the drive researches of its owner. Ships with an
// upgradable drive switch to the better one once
// the corresponding research is advanced enough.
//
// The `techs` define the researches of the owner.
//
// Returns the effective speed of the ship.
func (s Ship) Speed(techs TechLevels) float64 {
	desc, err := s.Desc()
	if err != nil || !desc.Flyable {
		return 0.0
	}

	drive := desc.Drive
	speed := float64(desc.Speed)

	if desc.UpgradedDrive != "" && techs.Level(desc.UpgradedDrive) >= desc.UpgradeLevel {
		drive = desc.UpgradedDrive
		speed = float64(desc.UpgradedSpeed)
	}

	return speed * (1.0 + driveFactor(drive)*float64(techs.Level(drive)))
}

// ShipsCount :
// Regroups the composition of a fleet as the number
// of ships of each type it contains.
type ShipsCount map[Ship]int

// Empty :
// Returns `true` if the fleet contains no ship.
func (sc ShipsCount) Empty() bool {
	return !sc.hasShips()
}

// hasShips :
// Returns `true` if at least one ship type has a
// strictly positive count.
func (sc ShipsCount) hasShips() bool {
	for _, count := range sc {
		if count > 0 {
			return true
		}
	}

	return false
}

// Count :
// Fetches the number of ships of the input type in
// this composition.
//
// The `ship` defines the type to fetch.
//
// Returns the count, `0` for absent types.
func (sc ShipsCount) Count(ship Ship) int {
	if sc == nil {
		return 0
	}

	return sc[ship]
}

// TotalCargo :
// Accumulates the capacity of the cargo bays of all
// the ships in this composition.
//
// Returns the total cargo capacity.
func (sc ShipsCount) TotalCargo() int {
	total := 0

	for ship, count := range sc {
		desc, err := ship.Desc()
		if err != nil {
			continue
		}

		total += count * desc.Cargo
	}

	return total
}

// Merge :
// Accumulates the input composition into a copy of
// this one.
//
// The `other` defines the ships to add.
//
// Returns the merged composition.
func (sc ShipsCount) Merge(other ShipsCount) ShipsCount {
	out := make(ShipsCount)

	for ship, count := range sc {
		out[ship] += count
	}
	for ship, count := range other {
		out[ship] += count
	}

	return out
}

// DefenseUnit :
// Identifies a type of defense system installed on
// a body. Defenses matter to flights as they are
// part of combat resolutions, counter-espionage and
// missile strikes.
type DefenseUnit string

// Define the defense systems known to the game.
const (
	RocketLauncher        DefenseUnit = "rocket launcher"
	LightLaser            DefenseUnit = "light laser"
	HeavyLaser            DefenseUnit = "heavy laser"
	GaussCannon           DefenseUnit = "gauss cannon"
	IonCannon             DefenseUnit = "ion cannon"
	PlasmaTurret          DefenseUnit = "plasma turret"
	SmallShieldDome       DefenseUnit = "small shield dome"
	LargeShieldDome       DefenseUnit = "large shield dome"
	AntiBallisticMissile  DefenseUnit = "anti-ballistic missile"
	InterplanetaryMissile DefenseUnit = "interplanetary missile"
)

// DefenseDesc :
// Regroups the static properties of a defense
// system.
//
// The `Weapon` defines the base weapon power of the
// system.
//
// The `Armour` defines its structural integrity.
type DefenseDesc struct {
	Weapon float64
	Armour int
}

// defensesDesc :
// The catalog of the defense systems known to the
// game.
var defensesDesc = map[DefenseUnit]DefenseDesc{
	RocketLauncher:        {Weapon: 80, Armour: 2000},
	LightLaser:            {Weapon: 100, Armour: 2000},
	HeavyLaser:            {Weapon: 250, Armour: 8000},
	GaussCannon:           {Weapon: 1100, Armour: 35000},
	IonCannon:             {Weapon: 150, Armour: 8000},
	PlasmaTurret:          {Weapon: 3000, Armour: 100000},
	SmallShieldDome:       {Weapon: 1, Armour: 20000},
	LargeShieldDome:       {Weapon: 1, Armour: 100000},
	AntiBallisticMissile:  {Weapon: 1, Armour: 8000},
	InterplanetaryMissile: {Weapon: 12000, Armour: 15000},
}

// Desc :
// Fetches the static properties of this defense
// system.
//
// Returns the description along with any error in
// case the system does not exist.
func (d DefenseUnit) Desc() (DefenseDesc, error) {
	desc, ok := defensesDesc[d]
	if !ok {
		return DefenseDesc{}, fmt.Errorf("invalid defense system")
	}

	return desc, nil
}

// DefensesCount :
// Regroups the defenses of a body as the number of
// systems of each type it hosts.
type DefensesCount map[DefenseUnit]int

// Count :
// Fetches the number of systems of the input type.
//
// The `unit` defines the type to fetch.
//
// Returns the count, `0` for absent types.
func (dc DefensesCount) Count(unit DefenseUnit) int {
	if dc == nil {
		return 0
	}

	return dc[unit]
}
