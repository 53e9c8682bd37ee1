package game

import (
	"testing"
	"time"

	"ogflight_server/internal/model"
)

// registerFlight stores the flight and its arrival event.
func (w *world) registerFlight(f Flight) Event {
	w.flights.flights[f.ID] = f
	e := Event{
		ID:      "e-" + f.ID,
		At:      *f.ArrivalTime,
		Kind:    FlightEvent,
		Subject: f.ID,
	}
	w.events.events[e.ID] = e
	return e
}

// holdingFlight registers a fleet loitering over the
// input coordinate, having arrived before `w.now` and
// leaving an hour later.
func (w *world) holdingFlight(id string, player string, target model.Coordinate, ships model.ShipsCount) Flight {
	arrival := w.now.Add(-600 * time.Second)
	hold := w.now.Add(3600 * time.Second)
	f := Flight{
		ID:            id,
		Player:        player,
		Origin:        "b-" + id,
		Source:        model.NewPlanetCoordinate(1, 100, 3),
		Target:        target,
		Mission:       model.Hold,
		Ships:         ships,
		SpeedFactor:   10,
		CreatedAt:     w.now.Add(-900 * time.Second),
		DepartureTime: w.now.Add(-900 * time.Second),
		ArrivalTime:   &arrival,
		HoldUntil:     &hold,
		ReturnTime:    hold.Add(300 * time.Second),
	}
	w.flights.flights[id] = f
	return f
}

// outboundFlight builds a flight departing at `w.now`
// with a 300s trip each way.
func (w *world) outboundFlight(id string, player string, mission model.Mission, target model.Coordinate) Flight {
	arrival := w.now.Add(300 * time.Second)
	return Flight{
		ID:            id,
		Player:        player,
		Origin:        "b1",
		Source:        model.NewPlanetCoordinate(1, 100, 5),
		Target:        target,
		Mission:       mission,
		Ships:         model.ShipsCount{model.SmallCargo: 2},
		SpeedFactor:   10,
		CreatedAt:     w.now,
		DepartureTime: w.now,
		ArrivalTime:   &arrival,
		ReturnTime:    arrival.Add(300 * time.Second),
	}
}

func TestHandleDueEvent_RejectsForeignKinds(t *testing.T) {
	i, _ := newTestInstance()

	err := i.HandleDueEvent(Event{ID: "e1", Kind: EventKind("building_upgrade")})
	if err == nil {
		t.Fatalf("expected an error for a non flight event")
	}
}

func TestHandleDueEvent_DropsOrphanedEvent(t *testing.T) {
	i, w := newTestInstance()

	w.events.events["e1"] = Event{ID: "e1", At: w.now, Kind: FlightEvent, Subject: "ghost"}

	if err := i.HandleDueEvent(w.events.events["e1"]); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if _, ok := w.events.events["e1"]; ok {
		t.Fatalf("orphaned event should be deleted")
	}
}

func TestResolve_ReturnCreditsOriginAndRetires(t *testing.T) {
	i, w := newTestInstance()

	w.addPlayer("p1", model.TechLevels{})
	w.addBody("b1", "p1", model.NewPlanetCoordinate(1, 100, 5),
		model.Resources{Metal: 100}, model.ShipsCount{model.LightFighter: 1})

	f := w.outboundFlight("f1", "p1", model.Transport, model.NewPlanetCoordinate(1, 100, 8))
	f.Cargo = model.Resources{Metal: 10, Crystal: 20, Deuterium: 30}
	e := w.registerFlight(f)
	e.At = f.ReturnTime
	w.events.events[e.ID] = e

	if err := i.HandleDueEvent(e); err != nil {
		t.Fatalf("handle: %v", err)
	}

	body, _ := w.bodies.Body("b1")
	want := model.Resources{Metal: 110, Crystal: 20, Deuterium: 30}
	if body.Resources != want {
		t.Fatalf("resources: got %+v want %+v", body.Resources, want)
	}
	if body.Ships.Count(model.SmallCargo) != 2 || body.Ships.Count(model.LightFighter) != 1 {
		t.Fatalf("ships not credited back: %+v", body.Ships)
	}

	if _, ok := w.flights.flights["f1"]; ok {
		t.Fatalf("flight should be retired")
	}
	if _, ok := w.events.events[e.ID]; ok {
		t.Fatalf("event should be retired")
	}
	if w.reports.returns != 1 {
		t.Fatalf("return reports: got %d want 1", w.reports.returns)
	}
	if w.activity.calls != 1 {
		t.Fatalf("activity calls: got %d want 1", w.activity.calls)
	}
}

func TestResolve_ReturnOfSpiesIsSilent(t *testing.T) {
	i, w := newTestInstance()

	w.addPlayer("p1", model.TechLevels{})
	w.addBody("b1", "p1", model.NewPlanetCoordinate(1, 100, 5),
		model.Resources{}, model.ShipsCount{})

	f := w.outboundFlight("f1", "p1", model.Espionage, model.NewPlanetCoordinate(1, 100, 8))
	f.Ships = model.ShipsCount{model.EspionageProbe: 1}
	e := w.registerFlight(f)
	e.At = f.ReturnTime
	w.events.events[e.ID] = e

	if err := i.HandleDueEvent(e); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if w.reports.returns != 0 {
		t.Fatalf("espionage return should not be reported, got %d", w.reports.returns)
	}
	if _, ok := w.flights.flights["f1"]; ok {
		t.Fatalf("flight should be retired")
	}
}

func TestResolve_TransportDeliversAndHeadsHome(t *testing.T) {
	i, w := newTestInstance()

	w.addPlayer("p1", model.TechLevels{})
	w.addPlayer("p2", model.TechLevels{})
	w.addBody("b2", "p2", model.NewPlanetCoordinate(1, 100, 8),
		model.Resources{Metal: 50}, model.ShipsCount{})

	f := w.outboundFlight("f1", "p1", model.Transport, model.NewPlanetCoordinate(1, 100, 8))
	f.Cargo = model.Resources{Metal: 10, Crystal: 5}
	e := w.registerFlight(f)

	if err := i.HandleDueEvent(e); err != nil {
		t.Fatalf("handle: %v", err)
	}

	body, _ := w.bodies.Body("b2")
	if body.Resources.Metal != 60 || body.Resources.Crystal != 5 {
		t.Fatalf("cargo not delivered: %+v", body.Resources)
	}

	got := w.flights.flights["f1"]
	if !got.Cargo.Empty() {
		t.Fatalf("cargo should be unloaded, got %+v", got.Cargo)
	}

	if w.reports.transportsSent != 1 || w.reports.transportsRecvd != 1 {
		t.Fatalf("foreign transport should notify both sides: %d/%d", w.reports.transportsSent, w.reports.transportsRecvd)
	}
	if w.reports.transportsOwn != 0 {
		t.Fatalf("no own report expected, got %d", w.reports.transportsOwn)
	}

	after := w.events.events[e.ID]
	if !after.At.Equal(f.ReturnTime) {
		t.Fatalf("event at: got %v want %v", after.At, f.ReturnTime)
	}
}

func TestResolve_TransportBetweenOwnBodies(t *testing.T) {
	i, w := newTestInstance()

	w.addPlayer("p1", model.TechLevels{})
	w.addBody("b2", "p1", model.NewPlanetCoordinate(1, 100, 8),
		model.Resources{}, model.ShipsCount{})

	f := w.outboundFlight("f1", "p1", model.Transport, model.NewPlanetCoordinate(1, 100, 8))
	f.Cargo = model.Resources{Metal: 10}
	e := w.registerFlight(f)

	if err := i.HandleDueEvent(e); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if w.reports.transportsOwn != 1 || w.reports.transportsSent != 0 {
		t.Fatalf("own transport should yield a single report: %d/%d", w.reports.transportsOwn, w.reports.transportsSent)
	}
}

func TestResolve_DeploymentMergesFleetAndRetires(t *testing.T) {
	i, w := newTestInstance()

	w.addPlayer("p1", model.TechLevels{})
	w.addBody("b2", "p1", model.NewPlanetCoordinate(1, 100, 8),
		model.Resources{}, model.ShipsCount{model.SmallCargo: 1})

	f := w.outboundFlight("f1", "p1", model.Deployment, model.NewPlanetCoordinate(1, 100, 8))
	f.Cargo = model.Resources{Deuterium: 40}
	e := w.registerFlight(f)

	if err := i.HandleDueEvent(e); err != nil {
		t.Fatalf("handle: %v", err)
	}

	body, _ := w.bodies.Body("b2")
	if body.Ships.Count(model.SmallCargo) != 3 {
		t.Fatalf("ships: got %d want 3", body.Ships.Count(model.SmallCargo))
	}
	if body.Resources.Deuterium != 40 {
		t.Fatalf("deuterium: got %.0f want 40", body.Resources.Deuterium)
	}

	if _, ok := w.flights.flights["f1"]; ok {
		t.Fatalf("deployment flight should be retired")
	}
	if _, ok := w.events.events[e.ID]; ok {
		t.Fatalf("deployment event should be retired")
	}
	if w.reports.deployments != 1 {
		t.Fatalf("deployment reports: got %d want 1", w.reports.deployments)
	}
}

func TestResolve_HoldFiresTwiceThenReturns(t *testing.T) {
	i, w := newTestInstance()

	w.addPlayer("p1", model.TechLevels{})
	w.addPlayer("p2", model.TechLevels{})
	w.addBody("b1", "p1", model.NewPlanetCoordinate(1, 100, 5),
		model.Resources{}, model.ShipsCount{})
	w.addBody("b2", "p2", model.NewPlanetCoordinate(1, 100, 8),
		model.Resources{}, model.ShipsCount{})

	f := w.outboundFlight("f1", "p1", model.Hold, model.NewPlanetCoordinate(1, 100, 8))
	hold := f.ArrivalTime.Add(3600 * time.Second)
	f.HoldUntil = &hold
	f.ReturnTime = hold.Add(300 * time.Second)
	e := w.registerFlight(f)

	// First firing: the fleet reaches its target and
	// starts loitering.
	if err := i.HandleDueEvent(e); err != nil {
		t.Fatalf("arrival: %v", err)
	}

	after := w.events.events[e.ID]
	if !after.At.Equal(hold) {
		t.Fatalf("event should wait for the hold to end: got %v want %v", after.At, hold)
	}

	// Second firing: the loitering ends.
	if err := i.HandleDueEvent(after); err != nil {
		t.Fatalf("hold end: %v", err)
	}

	after = w.events.events[e.ID]
	if !after.At.Equal(f.ReturnTime) {
		t.Fatalf("event should fire at return: got %v want %v", after.At, f.ReturnTime)
	}

	// Third firing: home again.
	if err := i.HandleDueEvent(after); err != nil {
		t.Fatalf("return: %v", err)
	}

	if _, ok := w.flights.flights["f1"]; ok {
		t.Fatalf("flight should be retired")
	}
	if _, ok := w.events.events[e.ID]; ok {
		t.Fatalf("event should be retired")
	}
}

func TestResolve_ColonizationSuccess(t *testing.T) {
	i, w := newTestInstance()

	w.addPlayer("p1", model.TechLevels{})
	w.addBody("b1", "p1", model.NewPlanetCoordinate(1, 100, 5),
		model.Resources{}, model.ShipsCount{})

	f := w.outboundFlight("f1", "p1", model.Colonization, model.NewPlanetCoordinate(1, 100, 12))
	f.Ships = model.ShipsCount{model.ColonyShip: 1, model.SmallCargo: 1}
	f.Cargo = model.Resources{Metal: 500, Crystal: 250}
	e := w.registerFlight(f)

	if err := i.HandleDueEvent(e); err != nil {
		t.Fatalf("handle: %v", err)
	}

	colony, exists, _ := w.bodies.BodyAt(f.Target)
	if !exists {
		t.Fatalf("colony should be created at %s", f.Target)
	}
	if colony.Player != "p1" {
		t.Fatalf("colony owner: got %s want p1", colony.Player)
	}
	if colony.Resources != f.Cargo {
		t.Fatalf("colony stock: got %+v want %+v", colony.Resources, f.Cargo)
	}

	got := w.flights.flights["f1"]
	if got.Ships.Count(model.ColonyShip) != 0 {
		t.Fatalf("colony ship should be consumed")
	}
	if got.Ships.Count(model.SmallCargo) != 1 {
		t.Fatalf("escort should head home, got %+v", got.Ships)
	}
	if !got.Cargo.Empty() {
		t.Fatalf("cargo should seed the colony, got %+v", got.Cargo)
	}

	after := w.events.events[e.ID]
	if !after.At.Equal(f.ReturnTime) {
		t.Fatalf("event at: got %v want %v", after.At, f.ReturnTime)
	}
	if w.reports.colonizeOK != 1 {
		t.Fatalf("success reports: got %d want 1", w.reports.colonizeOK)
	}
	if !w.activity.touched(colony.ID) {
		t.Fatalf("settling should register activity on the colony, touched: %v", w.activity.bodies)
	}
}

func TestResolve_ColonizationLoneShipRetires(t *testing.T) {
	i, w := newTestInstance()

	w.addPlayer("p1", model.TechLevels{})

	f := w.outboundFlight("f1", "p1", model.Colonization, model.NewPlanetCoordinate(1, 100, 12))
	f.Ships = model.ShipsCount{model.ColonyShip: 1}
	e := w.registerFlight(f)

	if err := i.HandleDueEvent(e); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if _, ok := w.flights.flights["f1"]; ok {
		t.Fatalf("empty flight should be retired")
	}
	if _, ok := w.events.events[e.ID]; ok {
		t.Fatalf("event should be retired")
	}
}

func TestResolve_ColonizationFailsSoftly(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(i *Instance, w *world)
	}{
		{
			name: "coordinate got occupied",
			prepare: func(i *Instance, w *world) {
				w.addPlayer("p2", model.TechLevels{})
				w.addBody("b9", "p2", model.NewPlanetCoordinate(1, 100, 12),
					model.Resources{}, model.ShipsCount{})
			},
		},
		{
			name: "planet cap reached",
			prepare: func(i *Instance, w *world) {
				i.Settings.MaxPlanets = 1
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i, w := newTestInstance()

			w.addPlayer("p1", model.TechLevels{})
			w.addBody("b1", "p1", model.NewPlanetCoordinate(1, 100, 5),
				model.Resources{}, model.ShipsCount{})

			tt.prepare(&i, w)

			f := w.outboundFlight("f1", "p1", model.Colonization, model.NewPlanetCoordinate(1, 100, 12))
			f.Ships = model.ShipsCount{model.ColonyShip: 1}
			f.Cargo = model.Resources{Metal: 500}
			e := w.registerFlight(f)

			if err := i.HandleDueEvent(e); err != nil {
				t.Fatalf("handle: %v", err)
			}

			if w.reports.colonizeFailed != 1 {
				t.Fatalf("failure reports: got %d want 1", w.reports.colonizeFailed)
			}

			// The colonists and the cargo head back home.
			got := w.flights.flights["f1"]
			if got.Ships.Count(model.ColonyShip) != 1 || got.Cargo.Metal != 500 {
				t.Fatalf("fleet should head home intact: %+v %+v", got.Ships, got.Cargo)
			}

			after := w.events.events[e.ID]
			if !after.At.Equal(f.ReturnTime) {
				t.Fatalf("event at: got %v want %v", after.At, f.ReturnTime)
			}
		})
	}
}

func TestResolve_CombatDelegation(t *testing.T) {
	i, w := newTestInstance()

	f := w.outboundFlight("f1", "p1", model.Destroy, model.NewCoordinate(1, 100, 8, model.Moon))
	e := w.registerFlight(f)

	if err := i.HandleDueEvent(e); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if w.combat.calls != 1 {
		t.Fatalf("combat calls: got %d want 1", w.combat.calls)
	}
	if !w.combat.destroy {
		t.Fatalf("destroy missions should ask for the moon destruction roll")
	}

	after := w.events.events[e.ID]
	if !after.At.Equal(f.ReturnTime) {
		t.Fatalf("event at: got %v want %v", after.At, f.ReturnTime)
	}
}

func TestResolve_CombatWipeOutRetiresFlight(t *testing.T) {
	i, w := newTestInstance()
	w.combat.wipeOut = true

	f := w.outboundFlight("f1", "p1", model.Attack, model.NewPlanetCoordinate(1, 100, 8))
	e := w.registerFlight(f)

	if err := i.HandleDueEvent(e); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if w.combat.destroy {
		t.Fatalf("attacks should not roll for the moon destruction")
	}
	if _, ok := w.flights.flights["f1"]; ok {
		t.Fatalf("wiped out flight should be gone")
	}
	if _, ok := w.events.events[e.ID]; ok {
		t.Fatalf("event of a wiped out flight should be gone")
	}
}

func TestResolve_EspionageEscortAlwaysDetected(t *testing.T) {
	i, w := newTestInstance()
	i.Roll = func() float64 { return 0.999 }

	w.addPlayer("p1", model.TechLevels{})
	w.addPlayer("p2", model.TechLevels{})
	w.addBody("b2", "p2", model.NewPlanetCoordinate(1, 100, 8),
		model.Resources{}, model.ShipsCount{})

	f := w.outboundFlight("f1", "p1", model.Espionage, model.NewPlanetCoordinate(1, 100, 8))
	f.Ships = model.ShipsCount{model.EspionageProbe: 1, model.LightFighter: 1}
	e := w.registerFlight(f)

	if err := i.HandleDueEvent(e); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if w.combat.calls != 1 {
		t.Fatalf("escorted probes should always be caught, combat calls: %d", w.combat.calls)
	}
	if w.reports.spyReports != 1 || w.reports.spiedReports != 1 {
		t.Fatalf("both sides should get a report: %d/%d", w.reports.spyReports, w.reports.spiedReports)
	}
}

func TestResolve_EspionageLoneProbeSlipsAway(t *testing.T) {
	i, w := newTestInstance()
	i.Roll = func() float64 { return 0.0 }

	w.addPlayer("p1", model.TechLevels{})
	w.addPlayer("p2", model.TechLevels{})
	w.addBody("b2", "p2", model.NewPlanetCoordinate(1, 100, 8),
		model.Resources{}, model.ShipsCount{model.LightFighter: 1})

	f := w.outboundFlight("f1", "p1", model.Espionage, model.NewPlanetCoordinate(1, 100, 8))
	f.Ships = model.ShipsCount{model.EspionageProbe: 1}
	e := w.registerFlight(f)

	if err := i.HandleDueEvent(e); err != nil {
		t.Fatalf("handle: %v", err)
	}

	// One probe against one defender: 0.25% lies under
	// the 1% floor, so even a roll of 0 slips away.
	if w.combat.calls != 0 {
		t.Fatalf("lone probe should slip away, combat calls: %d", w.combat.calls)
	}

	after := w.events.events[e.ID]
	if !after.At.Equal(f.ReturnTime) {
		t.Fatalf("event at: got %v want %v", after.At, f.ReturnTime)
	}
}

func TestResolve_EspionageDetectionScalesWithDefenders(t *testing.T) {
	i, w := newTestInstance()
	i.Roll = func() float64 { return 0.02 }

	w.addPlayer("p1", model.TechLevels{})
	w.addPlayer("p2", model.TechLevels{model.EspionageTech: 1})
	w.addBody("b2", "p2", model.NewPlanetCoordinate(1, 100, 8),
		model.Resources{}, model.ShipsCount{model.LightFighter: 2})

	f := w.outboundFlight("f1", "p1", model.Espionage, model.NewPlanetCoordinate(1, 100, 8))
	f.Ships = model.ShipsCount{model.EspionageProbe: 4}
	e := w.registerFlight(f)

	if err := i.HandleDueEvent(e); err != nil {
		t.Fatalf("handle: %v", err)
	}

	// 0.0025 * 4 probes * 2 defenders * 2^1 = 4%, above
	// the rolled 2%.
	if w.combat.calls != 1 {
		t.Fatalf("probes should be caught, combat calls: %d", w.combat.calls)
	}
}

func TestResolve_HarvestSplitsAndSpillsOver(t *testing.T) {
	i, w := newTestInstance()

	w.addPlayer("p1", model.TechLevels{})

	target := model.NewCoordinate(1, 100, 8, model.Debris)
	w.debris.fields["d1"] = DebrisField{
		ID:         "d1",
		Coordinate: target,
		Metal:      5000,
		Crystal:    30000,
	}

	f := w.outboundFlight("f1", "p1", model.Harvest, target)
	f.Ships = model.ShipsCount{model.Recycler: 1, model.SmallCargo: 1}
	f.Cargo = model.Resources{Deuterium: 100.5}
	e := w.registerFlight(f)

	if err := i.HandleDueEvent(e); err != nil {
		t.Fatalf("handle: %v", err)
	}

	// A single recycler lifts 20000: the metal side only
	// provides 5000 so the crystal side takes the rest.
	want := model.Resources{Metal: 5000, Crystal: 15000}
	if w.reports.lastHarvested != want {
		t.Fatalf("harvested: got %+v want %+v", w.reports.lastHarvested, want)
	}

	field := w.debris.fields["d1"]
	if field.Metal != 0 || field.Crystal != 15000 {
		t.Fatalf("field: got %.0f/%.0f want 0/15000", field.Metal, field.Crystal)
	}
	if !field.UpdatedAt.Equal(e.At) {
		t.Fatalf("field update time: got %v want %v", field.UpdatedAt, e.At)
	}

	got := w.flights.flights["f1"]
	if got.Cargo.Metal != 5000 || got.Cargo.Crystal != 15000 || got.Cargo.Deuterium != 100.5 {
		t.Fatalf("cargo: got %+v", got.Cargo)
	}

	if w.reports.harvests != 1 {
		t.Fatalf("harvest reports: got %d want 1", w.reports.harvests)
	}
}

func TestResolve_HarvestCappedByCarriedCargo(t *testing.T) {
	i, w := newTestInstance()

	w.addPlayer("p1", model.TechLevels{})

	target := model.NewCoordinate(1, 100, 8, model.Debris)
	w.debris.fields["d1"] = DebrisField{
		ID:         "d1",
		Coordinate: target,
		Metal:      50000,
		Crystal:    50000,
	}

	f := w.outboundFlight("f1", "p1", model.Harvest, target)
	f.Ships = model.ShipsCount{model.Recycler: 1}
	f.Cargo = model.Resources{Metal: 19000}
	e := w.registerFlight(f)

	if err := i.HandleDueEvent(e); err != nil {
		t.Fatalf("handle: %v", err)
	}

	// 20000 of bays minus 19000 already carried.
	want := model.Resources{Metal: 500, Crystal: 500}
	if w.reports.lastHarvested != want {
		t.Fatalf("harvested: got %+v want %+v", w.reports.lastHarvested, want)
	}
}

func TestResolve_MissilesFullyIntercepted(t *testing.T) {
	i, w := newTestInstance()

	w.addPlayer("p1", model.TechLevels{})
	w.addPlayer("p2", model.TechLevels{})
	b := w.addBody("b2", "p2", model.NewPlanetCoordinate(1, 100, 8),
		model.Resources{}, model.ShipsCount{})
	b.Defenses = model.DefensesCount{
		model.AntiBallisticMissile: 5,
		model.RocketLauncher:       10,
	}
	w.bodies.bodies["b2"] = b

	f := w.outboundFlight("f1", "p1", model.MissileAttack, model.NewPlanetCoordinate(1, 100, 8))
	f.Ships = model.ShipsCount{}
	f.Missiles = 3
	f.MainTarget = model.RocketLauncher
	e := w.registerFlight(f)

	if err := i.HandleDueEvent(e); err != nil {
		t.Fatalf("handle: %v", err)
	}

	body, _ := w.bodies.Body("b2")
	if got := body.Defenses.Count(model.AntiBallisticMissile); got != 2 {
		t.Fatalf("anti-ballistic missiles left: got %d want 2", got)
	}
	if got := body.Defenses.Count(model.RocketLauncher); got != 10 {
		t.Fatalf("launchers should be untouched, got %d", got)
	}

	if w.reports.missileReports != 1 || w.reports.lastDestroyed != 0 {
		t.Fatalf("report: got %d destroyed, want 0", w.reports.lastDestroyed)
	}

	if _, ok := w.flights.flights["f1"]; ok {
		t.Fatalf("strike should be retired")
	}
	if _, ok := w.events.events[e.ID]; ok {
		t.Fatalf("event should be retired")
	}
}

func TestResolve_MissilesDestroyMainTargetFirst(t *testing.T) {
	i, w := newTestInstance()

	w.addPlayer("p1", model.TechLevels{})
	w.addPlayer("p2", model.TechLevels{})
	b := w.addBody("b2", "p2", model.NewPlanetCoordinate(1, 100, 8),
		model.Resources{}, model.ShipsCount{})
	b.Defenses = model.DefensesCount{
		model.GaussCannon:    5,
		model.RocketLauncher: 10,
	}
	w.bodies.bodies["b2"] = b

	f := w.outboundFlight("f1", "p1", model.MissileAttack, model.NewPlanetCoordinate(1, 100, 8))
	f.Ships = model.ShipsCount{}
	f.Missiles = 1
	f.MainTarget = model.GaussCannon
	e := w.registerFlight(f)

	if err := i.HandleDueEvent(e); err != nil {
		t.Fatalf("handle: %v", err)
	}

	// One missile brings 12000 of power. A gauss cannon
	// absorbs 3500 so three fall for 10500, and the 1500
	// left take out 7 launchers at 200 apiece.
	body, _ := w.bodies.Body("b2")
	if got := body.Defenses.Count(model.GaussCannon); got != 2 {
		t.Fatalf("gauss cannons left: got %d want 2", got)
	}
	if got := body.Defenses.Count(model.RocketLauncher); got != 3 {
		t.Fatalf("launchers left: got %d want 3", got)
	}

	if w.reports.lastDestroyed != 10 {
		t.Fatalf("destroyed: got %d want 10", w.reports.lastDestroyed)
	}

	if _, ok := w.flights.flights["f1"]; ok {
		t.Fatalf("strike should be retired")
	}
}

func TestResolve_MissilesMoonShieldedByPlanet(t *testing.T) {
	i, w := newTestInstance()

	w.addPlayer("p1", model.TechLevels{})
	w.addPlayer("p2", model.TechLevels{})

	moonCoord := model.NewCoordinate(1, 100, 8, model.Moon)
	w.addBody("moon", "p2", moonCoord, model.Resources{}, model.ShipsCount{})

	planet := w.addBody("planet", "p2", model.NewPlanetCoordinate(1, 100, 8),
		model.Resources{}, model.ShipsCount{})
	planet.Defenses = model.DefensesCount{model.AntiBallisticMissile: 3}
	w.bodies.bodies["planet"] = planet

	f := w.outboundFlight("f1", "p1", model.MissileAttack, moonCoord)
	f.Ships = model.ShipsCount{}
	f.Missiles = 2
	f.MainTarget = model.RocketLauncher
	e := w.registerFlight(f)

	if err := i.HandleDueEvent(e); err != nil {
		t.Fatalf("handle: %v", err)
	}

	after, _ := w.bodies.Body("planet")
	if got := after.Defenses.Count(model.AntiBallisticMissile); got != 1 {
		t.Fatalf("planet batteries left: got %d want 1", got)
	}
	if w.reports.lastDestroyed != 0 {
		t.Fatalf("destroyed: got %d want 0", w.reports.lastDestroyed)
	}
}

func TestResolve_MissilesFallBackOnBadMainTarget(t *testing.T) {
	i, w := newTestInstance()

	w.addPlayer("p1", model.TechLevels{})
	w.addPlayer("p2", model.TechLevels{})
	b := w.addBody("b2", "p2", model.NewPlanetCoordinate(1, 100, 8),
		model.Resources{}, model.ShipsCount{})
	b.Defenses = model.DefensesCount{model.RocketLauncher: 4}
	w.bodies.bodies["b2"] = b

	f := w.outboundFlight("f1", "p1", model.MissileAttack, model.NewPlanetCoordinate(1, 100, 8))
	f.Ships = model.ShipsCount{}
	f.Missiles = 1
	f.MainTarget = model.GaussCannon
	e := w.registerFlight(f)

	if err := i.HandleDueEvent(e); err != nil {
		t.Fatalf("handle: %v", err)
	}

	// No gauss cannon on the body: the strike falls back
	// to the launchers.
	body, _ := w.bodies.Body("b2")
	if got := body.Defenses.Count(model.RocketLauncher); got != 0 {
		t.Fatalf("launchers left: got %d want 0", got)
	}
	if w.reports.lastDestroyed != 4 {
		t.Fatalf("destroyed: got %d want 4", w.reports.lastDestroyed)
	}
}

func TestResolve_MissilesSpareDefenderStockpiles(t *testing.T) {
	i, w := newTestInstance()

	w.addPlayer("p1", model.TechLevels{})
	w.addPlayer("p2", model.TechLevels{})
	b := w.addBody("b2", "p2", model.NewPlanetCoordinate(1, 100, 8),
		model.Resources{}, model.ShipsCount{})
	b.Defenses = model.DefensesCount{
		model.RocketLauncher:        1,
		model.InterplanetaryMissile: 10,
	}
	w.bodies.bodies["b2"] = b

	f := w.outboundFlight("f1", "p1", model.MissileAttack, model.NewPlanetCoordinate(1, 100, 8))
	f.Ships = model.ShipsCount{}
	f.Missiles = 2
	f.MainTarget = model.RocketLauncher
	e := w.registerFlight(f)

	if err := i.HandleDueEvent(e); err != nil {
		t.Fatalf("handle: %v", err)
	}

	// The launcher falls but the leftover power cannot be
	// spent against the defender's own missile silos.
	body, _ := w.bodies.Body("b2")
	if got := body.Defenses.Count(model.RocketLauncher); got != 0 {
		t.Fatalf("launchers left: got %d want 0", got)
	}
	if got := body.Defenses.Count(model.InterplanetaryMissile); got != 10 {
		t.Fatalf("missile silos left: got %d want 10 (destroyed reported: %d)", got, w.reports.lastDestroyed)
	}
	if w.reports.lastDestroyed != 1 {
		t.Fatalf("destroyed: got %d want 1", w.reports.lastDestroyed)
	}
}

func TestResolve_MissilesMoonWithoutPlanetFizzles(t *testing.T) {
	i, w := newTestInstance()

	w.addPlayer("p1", model.TechLevels{})
	w.addPlayer("p2", model.TechLevels{})

	moonCoord := model.NewCoordinate(1, 100, 8, model.Moon)
	moon := w.addBody("moon", "p2", moonCoord, model.Resources{}, model.ShipsCount{})
	moon.Defenses = model.DefensesCount{model.AntiBallisticMissile: 3}
	w.bodies.bodies["moon"] = moon

	f := w.outboundFlight("f1", "p1", model.MissileAttack, moonCoord)
	f.Ships = model.ShipsCount{}
	f.Missiles = 2
	f.MainTarget = model.RocketLauncher
	e := w.registerFlight(f)

	if err := i.HandleDueEvent(e); err != nil {
		t.Fatalf("handle: %v", err)
	}

	// No sibling planet: the strike is dropped without a
	// report and the moon's own batteries are not drawn on.
	after, _ := w.bodies.Body("moon")
	if got := after.Defenses.Count(model.AntiBallisticMissile); got != 3 {
		t.Fatalf("moon batteries left: got %d want 3", got)
	}
	if w.reports.missileReports != 0 {
		t.Fatalf("missile reports: got %d want 0", w.reports.missileReports)
	}

	if _, ok := w.flights.flights["f1"]; ok {
		t.Fatalf("strike should be retired")
	}
	if _, ok := w.events.events[e.ID]; ok {
		t.Fatalf("event should be retired")
	}
}

func TestResolve_EspionageCountsOnlyFleetsHoldingAtArrival(t *testing.T) {
	tests := []struct {
		name    string
		shift   time.Duration
		combats int
	}{
		// The friendly fleet loiters over the target when
		// the probe arrives: its four fighters push the
		// detection chance to exactly 1%.
		{name: "fleet currently loitering", shift: 0, combats: 1},
		// The same fleet is still hours away from the
		// target: an empty body detects nothing.
		{name: "fleet still in transit", shift: 4 * time.Hour, combats: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i, w := newTestInstance()
			i.Roll = func() float64 { return 0.0 }

			w.addPlayer("p1", model.TechLevels{})
			w.addPlayer("p2", model.TechLevels{})
			target := model.NewPlanetCoordinate(1, 100, 8)
			w.addBody("b2", "p2", target, model.Resources{}, model.ShipsCount{})

			h := w.holdingFlight("f2", "p2", target, model.ShipsCount{model.LightFighter: 4})
			if tt.shift > 0 {
				arrival := h.ArrivalTime.Add(tt.shift)
				hold := h.HoldUntil.Add(tt.shift)
				h.ArrivalTime = &arrival
				h.HoldUntil = &hold
				w.flights.flights[h.ID] = h
			}

			f := w.outboundFlight("f1", "p1", model.Espionage, target)
			f.Ships = model.ShipsCount{model.EspionageProbe: 1}
			e := w.registerFlight(f)

			if err := i.HandleDueEvent(e); err != nil {
				t.Fatalf("handle: %v", err)
			}

			if w.combat.calls != tt.combats {
				t.Fatalf("combat calls: got %d want %d", w.combat.calls, tt.combats)
			}
		})
	}
}

func TestResolve_EspionageHoldingCapLeavesRoomForSpy(t *testing.T) {
	i, w := newTestInstance()
	i.Roll = func() float64 { return 0.0 }
	i.Settings.MaxCombatants = 2

	w.addPlayer("p1", model.TechLevels{})
	w.addPlayer("p2", model.TechLevels{})
	target := model.NewPlanetCoordinate(1, 100, 8)
	w.addBody("b2", "p2", target, model.Resources{}, model.ShipsCount{})

	// Two identical fleets loiter but the spy takes one of
	// the two combatant slots, so a single fleet defends:
	// two fighters keep the chance at 0.5%, under the floor.
	w.holdingFlight("f2", "p2", target, model.ShipsCount{model.LightFighter: 2})
	w.holdingFlight("f3", "p2", target, model.ShipsCount{model.LightFighter: 2})

	f := w.outboundFlight("f1", "p1", model.Espionage, target)
	f.Ships = model.ShipsCount{model.EspionageProbe: 1}
	e := w.registerFlight(f)

	if err := i.HandleDueEvent(e); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if w.combat.calls != 0 {
		t.Fatalf("probe should slip away, combat calls: %d", w.combat.calls)
	}
}

func TestResolve_TransportTouchesBothBodies(t *testing.T) {
	i, w := newTestInstance()

	w.addPlayer("p1", model.TechLevels{})
	w.addPlayer("p2", model.TechLevels{})
	w.addBody("b1", "p1", model.NewPlanetCoordinate(1, 100, 5),
		model.Resources{}, model.ShipsCount{})
	w.addBody("b2", "p2", model.NewPlanetCoordinate(1, 100, 8),
		model.Resources{}, model.ShipsCount{})

	f := w.outboundFlight("f1", "p1", model.Transport, model.NewPlanetCoordinate(1, 100, 8))
	f.Cargo = model.Resources{Metal: 10}
	e := w.registerFlight(f)

	if err := i.HandleDueEvent(e); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if !w.activity.touched("b1") || !w.activity.touched("b2") {
		t.Fatalf("a delivery should register on both ends, touched: %v", w.activity.bodies)
	}
}
