package game

import "fmt"

// ErrInvalidMission : Indicates that the mission cannot be
// carried out in this context.
var ErrInvalidMission = fmt.Errorf("invalid mission for flight")

// ErrSlotsExhausted : Indicates that the player already has
// as many fleets underway as their technologies allow.
var ErrSlotsExhausted = fmt.Errorf("no fleet slot available for player")

// ErrPartyNotFound : Indicates that the requested party does
// not exist.
var ErrPartyNotFound = fmt.Errorf("party does not exist")

// ErrUnauthorizedPartyAccess : Indicates that the player is
// not a participant of the party.
var ErrUnauthorizedPartyAccess = fmt.Errorf("player cannot access party")

// ErrInvalidTarget : Indicates that the target is not valid
// for the flight (self-target or wrong kind of body).
var ErrInvalidTarget = fmt.Errorf("invalid target for flight")

// ErrNoUnitsSelected : Indicates that no flyable ship was
// selected for the flight.
var ErrNoUnitsSelected = fmt.Errorf("no ships selected for flight")

// ErrHoldTimeMissing : Indicates that a hold mission was
// requested without a hold duration.
var ErrHoldTimeMissing = fmt.Errorf("missing hold time for flight")

// ErrMissingRequiredUnit : Indicates that the fleet lacks a
// ship required by its mission.
var ErrMissingRequiredUnit = fmt.Errorf("missing ship required by mission")

// ErrTargetDoesNotExist : Indicates that nothing exists at
// the target coordinate for the flight to interact with.
var ErrTargetDoesNotExist = fmt.Errorf("target of flight does not exist")

// ErrTargetOnVacation : Indicates that the targeted player
// is protected by the vacation mode.
var ErrTargetOnVacation = fmt.Errorf("target of flight is on vacation")

// ErrTargetRelationshipForbidden : Indicates that the noob
// protection forbids interacting with the target.
var ErrTargetRelationshipForbidden = fmt.Errorf("target of flight outside of fair game band")

// ErrInsufficientFuel : Indicates that the origin body does
// not hold the fuel needed by the flight.
var ErrInsufficientFuel = fmt.Errorf("insufficient fuel for flight")

// ErrInsufficientCapacity : Indicates that the cargo bays
// cannot even accomodate the fuel needed by the flight.
var ErrInsufficientCapacity = fmt.Errorf("insufficient cargo capacity for flight")

// ErrInsufficientUnits : Indicates that the origin body no
// longer holds the ships selected for the flight.
var ErrInsufficientUnits = fmt.Errorf("insufficient ships for flight")

// ErrPartyJoinTooLate : Indicates that the flight would
// delay the party beyond the accepted window.
var ErrPartyJoinTooLate = fmt.Errorf("flight would join party too late")

// ErrTooManyCombatants : Indicates that the party already
// regroups as many fleets as the combat engine handles.
var ErrTooManyCombatants = fmt.Errorf("too many fleets in party")

// ErrFlightNotFound : Indicates that the flight does not
// exist.
var ErrFlightNotFound = fmt.Errorf("flight does not exist")

// ErrUnauthorizedFlightAccess : Indicates that the player
// does not own the flight.
var ErrUnauthorizedFlightAccess = fmt.Errorf("player cannot access flight")

// ErrFlightNotRecallable : Indicates that the flight cannot
// be called back anymore.
var ErrFlightNotRecallable = fmt.Errorf("flight cannot be recalled")

// ErrInvalidMissileTarget : Indicates that the main target
// of a missile strike is not a valid defense system.
var ErrInvalidMissileTarget = fmt.Errorf("invalid main target for missile strike")

// ErrOutOfMissileRange : Indicates that the target cannot
// be reached by the missiles of the origin body.
var ErrOutOfMissileRange = fmt.Errorf("target out of missile range")
