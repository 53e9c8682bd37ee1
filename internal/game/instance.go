package game

import (
	"math/rand"
	"time"

	"ogflight_server/internal/locker"
	"ogflight_server/internal/model"
	"ogflight_server/pkg/logger"

	"github.com/google/uuid"
)

// Rank :
// Describes the relative strength of a target compared
// to the player considering an action against it. The
// evaluation itself is delegated to an external ranking
// collaborator.
type Rank int

// Define the possible relative strengths.
const (
	Weaker Rank = iota
	Equal
	Stronger
)

// Ranking :
// External collaborator assessing whether two players
// are fair game for each other. Hostile flights are
// only allowed against targets of comparable strength.
type Ranking interface {
	Rank(caller string, target string) (Rank, error)
}

// AttackResolver :
// External collaborator resolving the battle triggered
// by an attack or destroy flight reaching its target.
// The resolver owns the outcome entirely: losses, loot,
// debris and the fate of the flight itself.
type AttackResolver interface {
	Handle(f Flight, destroyMoon bool) error
}

// ReportRecorder :
// External collaborator producing the user facing
// reports generated by resolutions. Reports are best
// effort from the point of view of this package.
type ReportRecorder interface {
	ReturnReport(f Flight)
	ColonizationFailure(f Flight)
	ColonizationSuccess(f Flight, body Body)
	DeploymentReport(f Flight)
	EspionageReportForSpy(f Flight, target Body)
	EspionageReportForTarget(f Flight, target Body)
	HarvestReport(f Flight, harvested model.Resources)
	TransportOwnReport(f Flight)
	TransportSenderReport(f Flight)
	TransportReceiverReport(f Flight, target Body)
	MissileReport(f Flight, destroyed int)
}

// ActivityTracker :
// External collaborator keeping track of the last
// activity registered on each body.
type ActivityTracker interface {
	RecordActivity(body string, at time.Time)
}

// Settings :
// Regroups the game constants influencing flights. The
// values are read from the configuration and carried
// explicitly so that the state machine stays free of
// ambient constants.
//
// The `FleetSpeed` defines the global speed multiplier
// of the universe. Travel durations are divided by it.
//
// The `GalaxiesCount` defines the number of galaxies
// of the universe, which is the size of the galactic
// ring.
//
// The `GalaxySize` defines the number of solar systems
// per galaxy, which is the size of the system ring.
//
// The `SolarSystemSize` defines the number of positions
// per solar system.
//
// The `MaxPlanets` defines the fixed cap of planets a
// player can own when the astrophysics mode is off.
//
// The `AstrophysicsColonization` defines whether the
// planet cap derives from the astrophysics research
// instead of the fixed cap.
//
// The `MaxCombatants` defines the maximum number of
// fleets a party can regroup, imposed by the combat
// engine.
//
// The `SchedulerInterval` defines how often the due
// events are polled.
type Settings struct {
	FleetSpeed               int
	GalaxiesCount            int
	GalaxySize               int
	SolarSystemSize          int
	MaxPlanets               int
	AstrophysicsColonization bool
	MaxCombatants            int
	SchedulerInterval        time.Duration
}

// Instance :
// Regroups the collaborators and constants needed by
// the flight operations. It is built once when the
// server starts and shared by the routes and by the
// scheduler process.
//
// The stores and collaborators are interfaces so that
// tests can substitute in-memory versions for the DB
// backed production implementations.
//
// The `Roll` produces a uniform draw in `[0; 1)` for
// the resolutions involving randomness. When left nil
// the shared source of `math/rand` is used.
//
// The `Clock` provides the current time. When left
// nil the wall clock is used. Flights only ever work
// at a whole seconds granularity.
type Instance struct {
	Flights  FlightStore
	Bodies   BodyStore
	Players  PlayerStore
	Parties  PartyStore
	Events   EventStore
	Debris   DebrisStore
	Reports  ReportRecorder
	Activity ActivityTracker
	Ranking  Ranking
	Combat   AttackResolver

	Settings Settings

	Roll  func() float64
	Clock func() time.Time

	Locker *locker.ConcurrentLocker
	Log    logger.Logger
}

// now :
// Provides the current time truncated to whole seconds
// using the injected clock when one is available.
//
// Returns the current time.
func (i Instance) now() time.Time {
	if i.Clock != nil {
		return i.Clock().Truncate(time.Second)
	}

	return time.Now().Truncate(time.Second)
}

// roll :
// Provides a uniform draw in `[0; 1)` using the
// injected source when one is available.
//
// Returns the drawn value.
func (i Instance) roll() float64 {
	if i.Roll != nil {
		return i.Roll()
	}

	return rand.Float64()
}

// trace :
// Convenience wrapper around the logger of this
// instance tolerating a nil logger in tests.
//
// The `level` defines the severity of the message.
//
// The `msg` defines the message to log.
func (i Instance) trace(level logger.Severity, msg string) {
	if i.Log != nil {
		i.Log.Trace(level, "game", msg)
	}
}

// lockBody :
// Acquires the lock serializing the operations that
// mutate the input body. The returned function must
// be called to release the lock. When no lock pool
// is available (as in tests) nothing is locked.
//
// The `body` defines the identifier of the body.
//
// Returns the function releasing the lock.
func (i Instance) lockBody(body string) func() {
	if i.Locker == nil {
		return func() {}
	}

	l := i.Locker.Acquire(body)
	l.Lock()

	return func() {
		err := l.Release()
		if err == nil {
			i.Locker.Release(l)
		}
	}
}

// newID :
// Generates a fresh identifier for an entity created
// by a resolution.
//
// Returns the generated identifier.
func newID() string {
	return uuid.New().String()
}

// maxPlanets :
// Computes the number of planets the input player can
// own given the colonization rules of the universe.
//
// The `p` defines the player to evaluate.
//
// Returns the maximum number of planets.
func (i Instance) maxPlanets(p Player) int {
	if i.Settings.AstrophysicsColonization {
		return p.Techs.MaxColonizablePlanets()
	}

	return i.Settings.MaxPlanets
}
