package game

import (
	"fmt"
	"math"
	"time"

	"ogflight_server/internal/model"
	"ogflight_server/pkg/logger"
)

// action :
// Describes what should happen to a flight and its
// event once a resolution routine ran.
type action int

// Define the possible outcomes of a resolution.
const (
	// retire deletes both the flight and its event.
	retire action = iota
	// scheduleReturn retimes the event to the return
	// time of the flight.
	scheduleReturn
	// scheduleAt retimes the event to an explicit
	// moment.
	scheduleAt
)

// disposition :
// The outcome of a resolution routine, an action and
// the moment it refers to when the action needs one.
type disposition struct {
	action action
	at     time.Time
}

// HandleDueEvent :
// Resolves the input due event. The flight it refers
// to either reached its target, finished holding or
// came back home; which one is decided by comparing
// the timestamp of the event with the timeline of the
// flight, so that every mission shares a single
// generic return path.
// Internal inconsistencies never crash the server:
// they are logged and the flight is steered towards a
// safe return or retired.
//
// The `e` defines the due event to resolve.
//
// Returns any error.
func (i Instance) HandleDueEvent(e Event) error {
	if e.Kind != FlightEvent {
		return fmt.Errorf("cannot handle event with kind \"%s\"", e.Kind)
	}

	f, err := i.Flights.Flight(e.Subject)
	if err != nil {
		i.trace(logger.Fatal, fmt.Sprintf("Event \"%s\" references unknown flight \"%s\"", e.ID, e.Subject))
		return i.Events.Delete(e.ID)
	}

	var d disposition

	if e.At.Unix() == f.ReturnTime.Unix() {
		d = i.resolveReturn(f, e.At)
	} else {
		switch f.Mission {
		case model.Colonization:
			d = i.resolveColonization(&f, e.At)
		case model.Deployment:
			d = i.resolveDeployment(f, e.At)
		case model.Attack, model.Destroy:
			d = i.resolveCombat(&f)
		case model.Espionage:
			d = i.resolveEspionage(&f, e.At)
		case model.Harvest:
			d = i.resolveHarvest(&f, e.At)
		case model.Hold:
			d = i.resolveHold(f, e.At)
		case model.Transport:
			d = i.resolveTransport(&f, e.At)
		case model.MissileAttack:
			d = i.resolveMissiles(f, e.At)
		default:
			i.trace(logger.Fatal, fmt.Sprintf("Flight \"%s\" has unknown mission \"%s\"", f.ID, f.Mission))
			d = disposition{action: scheduleReturn}
		}
	}

	return i.applyDisposition(e, f, d)
}

// applyDisposition :
// Applies the outcome of a resolution to the flight
// and its event.
//
// The `e` defines the resolved event.
//
// The `f` defines the flight, reflecting the mutations
// performed by the resolution.
//
// The `d` defines the outcome to apply.
//
// Returns any error.
func (i Instance) applyDisposition(e Event, f Flight, d disposition) error {
	switch d.action {
	case retire:
		// The flight may already be gone when an external
		// resolver consumed it.
		err := i.Flights.Delete(f.ID)
		if err != nil && err != ErrFlightNotFound {
			return err
		}

		return i.Events.Delete(e.ID)
	case scheduleAt:
		e.At = d.at
	default:
		e.At = f.ReturnTime
	}

	return i.Events.Schedule(e)
}

// resolveReturn :
// Generic return handling shared by every mission: the
// origin body is brought up to date, the cargo and the
// surviving ships are credited back and the flight is
// retired. Espionage trips come home silently, every
// other mission records a return report.
//
// The `f` defines the returning flight.
//
// The `at` defines the return time.
//
// Returns the outcome of the resolution.
func (i Instance) resolveReturn(f Flight, at time.Time) disposition {
	release := i.lockBody(f.Origin)
	defer release()

	body, err := i.Bodies.UpdateToTime(f.Origin, at)
	if err != nil {
		i.trace(logger.Fatal, fmt.Sprintf("Cannot credit returning flight \"%s\" to body \"%s\" (err: %v)", f.ID, f.Origin, err))
		return disposition{action: retire}
	}

	body.Resources = body.Resources.Add(f.Cargo)
	body.Ships = body.Ships.Merge(f.Ships)

	err = i.Bodies.Update(body)
	if err != nil {
		i.trace(logger.Fatal, fmt.Sprintf("Cannot credit returning flight \"%s\" to body \"%s\" (err: %v)", f.ID, f.Origin, err))
		return disposition{action: retire}
	}

	i.recordActivity(body.ID, at)

	if f.Mission != model.Espionage {
		i.Reports.ReturnReport(f)
	}

	return disposition{action: retire}
}

// resolveColonization :
// Settles a colonization flight. The attempt fails
// softly when the coordinate got occupied in the
// meantime or when the sender reached their planet
// cap: a failure report is recorded and the fleet
// heads home with colonists and cargo intact. On
// success a new body is created, the cargo seeds its
// stock, one colony ship is consumed and the rest of
// the fleet heads home, or the flight is retired when
// nothing remains.
func (i Instance) resolveColonization(f *Flight, at time.Time) disposition {
	_, occupied, err := i.Bodies.BodyAt(f.Target)
	if err != nil {
		i.trace(logger.Error, fmt.Sprintf("Cannot settle colonization flight \"%s\" (err: %v)", f.ID, err))
		return disposition{action: scheduleReturn}
	}

	player, err := i.Players.Player(f.Player)
	if err != nil {
		i.trace(logger.Error, fmt.Sprintf("Cannot settle colonization flight \"%s\" (err: %v)", f.ID, err))
		return disposition{action: scheduleReturn}
	}

	count, err := i.Bodies.PlanetsCount(f.Player)
	if err != nil {
		i.trace(logger.Error, fmt.Sprintf("Cannot settle colonization flight \"%s\" (err: %v)", f.ID, err))
		return disposition{action: scheduleReturn}
	}

	if occupied || count >= i.maxPlanets(player) {
		i.Reports.ColonizationFailure(*f)
		return disposition{action: scheduleReturn}
	}

	colony := Body{
		ID:         newID(),
		Player:     f.Player,
		Name:       "colony",
		Coordinate: f.Target,
		Resources:  f.Cargo,
		Ships:      model.ShipsCount{},
		Defenses:   model.DefensesCount{},
	}

	err = i.Bodies.Create(colony)
	if err != nil {
		i.trace(logger.Error, fmt.Sprintf("Cannot create colony for flight \"%s\" (err: %v)", f.ID, err))
		return disposition{action: scheduleReturn}
	}

	i.recordActivity(colony.ID, at)
	i.Reports.ColonizationSuccess(*f, colony)

	f.Cargo = model.Resources{}
	f.Ships = deductShips(f.Ships, model.ShipsCount{model.ColonyShip: 1})

	if f.Ships.Empty() {
		return disposition{action: retire}
	}

	err = i.Flights.Update(*f)
	if err != nil {
		i.trace(logger.Error, fmt.Sprintf("Cannot update colonization flight \"%s\" (err: %v)", f.ID, err))
	}

	return disposition{action: scheduleReturn}
}

// resolveDeployment :
// Settles a deployment flight by crediting the cargo
// and the ships to the target body of the same player.
func (i Instance) resolveDeployment(f Flight, at time.Time) disposition {
	target, exists, err := i.Bodies.BodyAt(f.Target)
	if err != nil || !exists {
		i.trace(logger.Error, fmt.Sprintf("Cannot settle deployment flight \"%s\" at %s", f.ID, f.Target))
		return disposition{action: scheduleReturn}
	}

	release := i.lockBody(target.ID)
	defer release()

	body, err := i.Bodies.UpdateToTime(target.ID, at)
	if err != nil {
		i.trace(logger.Error, fmt.Sprintf("Cannot settle deployment flight \"%s\" (err: %v)", f.ID, err))
		return disposition{action: scheduleReturn}
	}

	body.Resources = body.Resources.Add(f.Cargo)
	body.Ships = body.Ships.Merge(f.Ships)

	err = i.Bodies.Update(body)
	if err != nil {
		i.trace(logger.Error, fmt.Sprintf("Cannot settle deployment flight \"%s\" (err: %v)", f.ID, err))
		return disposition{action: scheduleReturn}
	}

	i.recordActivity(body.ID, at)
	i.Reports.DeploymentReport(f)

	return disposition{action: retire}
}

// resolveCombat :
// Hands an attack or destroy flight to the external
// combat resolver, which owns the battle entirely. The
// flight heads home afterwards unless the resolver
// already consumed it.
func (i Instance) resolveCombat(f *Flight) disposition {
	err := i.Combat.Handle(*f, f.Mission == model.Destroy)
	if err != nil {
		i.trace(logger.Error, fmt.Sprintf("Combat resolution failed for flight \"%s\" (err: %v)", f.ID, err))
		return disposition{action: scheduleReturn}
	}

	survivor, err := i.Flights.Flight(f.ID)
	if err != nil {
		return disposition{action: retire}
	}

	*f = survivor

	return disposition{action: scheduleReturn}
}

// resolveEspionage :
// Settles an espionage flight. Both the sender and the
// target always get a report; on top of that the spies
// can be detected, in which case the fleet is thrown
// into a battle instead of slipping away. The chance
// of detection is certain when the fleet carries any
// ship besides probes, and otherwise grows with the
// number of probes, the ships defending the target
// (holding fleets included) and the gap between the
// espionage researches.
func (i Instance) resolveEspionage(f *Flight, at time.Time) disposition {
	target, exists, err := i.Bodies.BodyAt(f.Target)
	if err != nil || !exists {
		i.trace(logger.Error, fmt.Sprintf("Cannot settle espionage flight \"%s\" at %s", f.ID, f.Target))
		return disposition{action: scheduleReturn}
	}

	body, err := i.Bodies.UpdateToTime(target.ID, at)
	if err != nil {
		i.trace(logger.Error, fmt.Sprintf("Cannot settle espionage flight \"%s\" (err: %v)", f.ID, err))
		return disposition{action: scheduleReturn}
	}

	defenders := 0
	for _, count := range body.Ships {
		defenders += count
	}

	// The spy fleet takes one of the combatant slots, the
	// holding fleets can only fill the remaining ones.
	holding, err := i.Flights.HoldingFlightsAt(f.Target, at)
	if err == nil {
		limit := i.Settings.MaxCombatants - 1
		for id, fleet := range holding {
			if id >= limit {
				break
			}
			for _, count := range fleet.Ships {
				defenders += count
			}
		}
	}

	probes := f.Ships.Count(model.EspionageProbe)
	escorted := false
	for ship, count := range f.Ships {
		if ship != model.EspionageProbe && count > 0 {
			escorted = true
		}
	}

	chance := 1.0
	if !escorted {
		owner, errO := i.Players.Player(body.Player)
		sender, errS := i.Players.Player(f.Player)

		diff := 0
		if errO == nil && errS == nil {
			diff = owner.Techs.Level(model.EspionageTech) - sender.Techs.Level(model.EspionageTech)
		}

		chance = math.Min(1.0, 0.0025*float64(probes)*float64(defenders)*math.Pow(2.0, float64(diff)))
	}

	i.Reports.EspionageReportForSpy(*f, body)
	i.Reports.EspionageReportForTarget(*f, body)
	i.recordActivity(body.ID, at)

	if chance >= 0.01 && i.roll() < chance {
		i.trace(logger.Verbose, fmt.Sprintf("Espionage flight \"%s\" detected over %s (chance: %.4f)", f.ID, f.Target, chance))
		return i.resolveCombat(f)
	}

	return disposition{action: scheduleReturn}
}

// resolveHarvest :
// Settles a harvest flight over a debris field. The
// lift capacity left in the bays is split evenly
// between metal and crystal, and whatever one side
// cannot provide is poured into the other.
func (i Instance) resolveHarvest(f *Flight, at time.Time) disposition {
	field, exists, err := i.Debris.FieldAt(f.Target)
	if err != nil || !exists {
		i.trace(logger.Error, fmt.Sprintf("Harvest flight \"%s\" found no debris field at %s", f.ID, f.Target))
		return disposition{action: scheduleReturn}
	}

	recyclers := float64(f.Ships.Count(model.Recycler) * recyclerCargo())

	capacity := float64(f.Ships.TotalCargo()) - math.Ceil(f.Cargo.Total())
	capacity = math.Min(capacity, recyclers)
	capacity = math.Max(capacity, 0)

	metal := math.Min(capacity/2.0, field.Metal)
	crystal := math.Min(capacity/2.0, field.Crystal)

	leftover := capacity - metal - crystal

	extra := math.Min(leftover, field.Metal-metal)
	metal += extra
	leftover -= extra

	crystal += math.Min(leftover, field.Crystal-crystal)

	field.Metal -= metal
	field.Crystal -= crystal
	field.UpdatedAt = at

	err = i.Debris.Update(field)
	if err != nil {
		i.trace(logger.Error, fmt.Sprintf("Cannot update debris field at %s (err: %v)", f.Target, err))
		return disposition{action: scheduleReturn}
	}

	harvested := model.Resources{Metal: metal, Crystal: crystal}
	f.Cargo = f.Cargo.Add(harvested)

	err = i.Flights.Update(*f)
	if err != nil {
		i.trace(logger.Error, fmt.Sprintf("Cannot update harvest flight \"%s\" (err: %v)", f.ID, err))
	}

	i.Reports.HarvestReport(*f, harvested)

	return disposition{action: scheduleReturn}
}

// resolveHold :
// Settles a hold flight, which fires twice: once when
// the fleet reaches its target and starts loitering
// and once when the loitering ends. The timestamp of
// the event tells the two firings apart.
func (i Instance) resolveHold(f Flight, at time.Time) disposition {
	if f.ArrivalTime != nil && at.Unix() == f.ArrivalTime.Unix() {
		if f.HoldUntil == nil {
			i.trace(logger.Fatal, fmt.Sprintf("Holding flight \"%s\" has no hold time", f.ID))
			return disposition{action: scheduleReturn}
		}

		if target, exists, err := i.Bodies.BodyAt(f.Target); err == nil && exists {
			i.recordActivity(target.ID, at)
		}

		return disposition{action: scheduleAt, at: *f.HoldUntil}
	}

	return disposition{action: scheduleReturn}
}

// resolveTransport :
// Settles a transport flight by crediting the cargo
// to the target body. A transport between two bodies
// of the sender produces a single report while one to
// another player notifies both sides.
func (i Instance) resolveTransport(f *Flight, at time.Time) disposition {
	target, exists, err := i.Bodies.BodyAt(f.Target)
	if err != nil || !exists {
		i.trace(logger.Error, fmt.Sprintf("Cannot settle transport flight \"%s\" at %s", f.ID, f.Target))
		return disposition{action: scheduleReturn}
	}

	release := i.lockBody(target.ID)
	defer release()

	body, err := i.Bodies.UpdateToTime(target.ID, at)
	if err != nil {
		i.trace(logger.Error, fmt.Sprintf("Cannot settle transport flight \"%s\" (err: %v)", f.ID, err))
		return disposition{action: scheduleReturn}
	}

	body.Resources = body.Resources.Add(f.Cargo)

	err = i.Bodies.Update(body)
	if err != nil {
		i.trace(logger.Error, fmt.Sprintf("Cannot settle transport flight \"%s\" (err: %v)", f.ID, err))
		return disposition{action: scheduleReturn}
	}

	delivered := *f
	f.Cargo = model.Resources{}

	err = i.Flights.Update(*f)
	if err != nil {
		i.trace(logger.Error, fmt.Sprintf("Cannot update transport flight \"%s\" (err: %v)", f.ID, err))
	}

	if body.Player == f.Player {
		i.Reports.TransportOwnReport(delivered)
	} else {
		i.Reports.TransportSenderReport(delivered)
		i.Reports.TransportReceiverReport(delivered, body)
	}

	// A delivery registers on both ends of the trip.
	i.recordActivity(f.Origin, at)
	i.recordActivity(body.ID, at)

	return disposition{action: scheduleReturn}
}

// resolveMissiles :
// Settles a missile strike. Anti-ballistic missiles
// intercept incoming ones 1-for-1; for a moon the
// batteries of the sibling planet do the defending.
// The power of the surviving missiles is then spent
// against the defense systems of the target, main
// target first, until it runs out. The flight never
// comes back.
func (i Instance) resolveMissiles(f Flight, at time.Time) disposition {
	target, exists, err := i.Bodies.BodyAt(f.Target)
	if err != nil || !exists {
		i.trace(logger.Error, fmt.Sprintf("Cannot settle missile strike \"%s\" at %s", f.ID, f.Target))
		return disposition{action: retire}
	}

	release := i.lockBody(target.ID)
	defer release()

	body, err := i.Bodies.UpdateToTime(target.ID, at)
	if err != nil {
		i.trace(logger.Error, fmt.Sprintf("Cannot settle missile strike \"%s\" (err: %v)", f.ID, err))
		return disposition{action: retire}
	}

	// The anti-missile batteries of a planet also defend
	// its moon: a moon with no sibling planet cannot be
	// resolved and the strike fizzles silently.
	shield := body
	if f.Target.Kind == model.Moon {
		sibling := f.Target
		sibling.Kind = model.World

		planet, ok, errP := i.Bodies.BodyAt(sibling)
		if errP != nil || !ok {
			i.trace(logger.Error, fmt.Sprintf("Missile strike \"%s\" targets moon %s with no sibling planet", f.ID, f.Target))
			i.recordActivity(body.ID, at)

			return disposition{action: retire}
		}

		shield, errP = i.Bodies.UpdateToTime(planet.ID, at)
		if errP != nil {
			shield = planet
		}
	}

	missiles := f.Missiles

	abms := shield.Defenses.Count(model.AntiBallisticMissile)
	intercepted := missiles
	if abms < intercepted {
		intercepted = abms
	}

	if intercepted > 0 {
		shield.Defenses[model.AntiBallisticMissile] -= intercepted

		err = i.Bodies.Update(shield)
		if err != nil {
			i.trace(logger.Error, fmt.Sprintf("Cannot update body \"%s\" after interception (err: %v)", shield.ID, err))
		}

		if shield.ID == body.ID {
			body = shield
		}
	}

	missiles -= intercepted

	if missiles == 0 {
		i.Reports.MissileReport(f, 0)
		i.recordActivity(body.ID, at)

		return disposition{action: retire}
	}

	weapons := 0
	if sender, errS := i.Players.Player(f.Player); errS == nil {
		weapons = sender.Techs.Level(model.WeaponsTech)
	}
	armour := 0
	if owner, errO := i.Players.Player(body.Player); errO == nil {
		armour = owner.Techs.Level(model.ArmourTech)
	}

	missileDesc, _ := model.InterplanetaryMissile.Desc()
	power := float64(missiles) * missileDesc.Weapon * (1.0 + 0.1*float64(weapons))

	main := f.MainTarget
	if _, errM := main.Desc(); errM != nil || body.Defenses.Count(main) == 0 ||
		main == model.AntiBallisticMissile || main == model.InterplanetaryMissile {
		i.trace(logger.Error, fmt.Sprintf("Missile strike \"%s\" has no usable main target \"%s\"", f.ID, main))
		main = model.RocketLauncher
	}

	// The defender's own missile stockpiles cannot be
	// destroyed by a strike.
	destroyed := destroyDefenses(&body, main, &power, armour)
	for kind := range body.Defenses {
		if kind == main || kind == model.AntiBallisticMissile || kind == model.InterplanetaryMissile {
			continue
		}

		destroyed += destroyDefenses(&body, kind, &power, armour)
	}

	err = i.Bodies.Update(body)
	if err != nil {
		i.trace(logger.Error, fmt.Sprintf("Cannot update body \"%s\" after missile strike (err: %v)", body.ID, err))
	}

	i.Reports.MissileReport(f, destroyed)
	i.recordActivity(body.ID, at)

	return disposition{action: retire}
}

// destroyDefenses :
// Spends the remaining missile power against the
// input kind of defense system, destroying as many
// units as the power affords.
//
// The `body` defines the struck body.
//
// The `kind` defines the defense system to destroy.
//
// The `power` defines the remaining missile power,
// decreased by the destructions.
//
// The `armourTech` defines the armour research level
// of the defender.
//
// Returns the number of destroyed units.
func destroyDefenses(body *Body, kind model.DefenseUnit, power *float64, armourTech int) int {
	count := body.Defenses.Count(kind)
	if count == 0 || *power <= 0 {
		return 0
	}

	desc, err := kind.Desc()
	if err != nil {
		return 0
	}

	armour := float64(desc.Armour) * (0.1 + 0.01*float64(armourTech))
	if armour <= 0 {
		return 0
	}

	destroyed := int(math.Floor(*power / armour))
	if destroyed > count {
		destroyed = count
	}

	body.Defenses[kind] -= destroyed
	if body.Defenses[kind] == 0 {
		delete(body.Defenses, kind)
	}

	*power -= float64(destroyed) * armour

	return destroyed
}

// recordActivity :
// Best effort notification of the activity tracker.
//
// The `body` defines the identifier of the body.
//
// The `at` defines the moment of the activity.
func (i Instance) recordActivity(body string, at time.Time) {
	if i.Activity != nil {
		i.Activity.RecordActivity(body, at)
	}
}

// recyclerCargo :
// Provides the capacity of the cargo bay of a single
// recycler.
//
// Returns the capacity.
func recyclerCargo() int {
	desc, err := model.Recycler.Desc()
	if err != nil {
		return 0
	}

	return desc.Cargo
}
