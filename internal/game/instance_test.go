package game

import (
	"sort"
	"time"

	"ogflight_server/internal/model"
)

// In-memory fakes backing the tests of this package so
// that no DB is needed.

type memFlights struct {
	flights map[string]Flight
}

func newMemFlights() *memFlights {
	return &memFlights{flights: make(map[string]Flight)}
}

func (m *memFlights) Flight(id string) (Flight, error) {
	f, ok := m.flights[id]
	if !ok {
		return Flight{}, ErrFlightNotFound
	}
	return f, nil
}

func (m *memFlights) FlightsForPlayer(player string) ([]Flight, error) {
	out := make([]Flight, 0)
	for _, f := range m.flights {
		if f.Player == player {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memFlights) FlightsForParty(party string) ([]Flight, error) {
	out := make([]Flight, 0)
	for _, f := range m.flights {
		if f.Party == party && party != "" {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memFlights) HoldingFlightsAt(target model.Coordinate, at time.Time) ([]Flight, error) {
	out := make([]Flight, 0)
	for _, f := range m.flights {
		if f.Mission != model.Hold || f.Target != target {
			continue
		}
		if f.ArrivalTime == nil || f.HoldUntil == nil {
			continue
		}
		if f.ArrivalTime.After(at) || f.HoldUntil.Before(at) {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (m *memFlights) Create(f Flight) error {
	m.flights[f.ID] = f
	return nil
}

func (m *memFlights) Update(f Flight) error {
	if _, ok := m.flights[f.ID]; !ok {
		return ErrFlightNotFound
	}
	m.flights[f.ID] = f
	return nil
}

func (m *memFlights) Delete(id string) error {
	if _, ok := m.flights[id]; !ok {
		return ErrFlightNotFound
	}
	delete(m.flights, id)
	return nil
}

type memBodies struct {
	bodies map[string]Body
}

func newMemBodies() *memBodies {
	return &memBodies{bodies: make(map[string]Body)}
}

func (m *memBodies) Body(id string) (Body, error) {
	b, ok := m.bodies[id]
	if !ok {
		return Body{}, ErrTargetDoesNotExist
	}
	return b, nil
}

func (m *memBodies) BodyAt(coord model.Coordinate) (Body, bool, error) {
	for _, b := range m.bodies {
		if b.Coordinate == coord {
			return b, true, nil
		}
	}
	return Body{}, false, nil
}

func (m *memBodies) PlanetsCount(player string) (int, error) {
	count := 0
	for _, b := range m.bodies {
		if b.Player == player && b.Coordinate.Kind == model.World {
			count++
		}
	}
	return count, nil
}

func (m *memBodies) UpdateToTime(id string, at time.Time) (Body, error) {
	return m.Body(id)
}

func (m *memBodies) Create(b Body) error {
	m.bodies[b.ID] = b
	return nil
}

func (m *memBodies) Update(b Body) error {
	m.bodies[b.ID] = b
	return nil
}

type memPlayers struct {
	players map[string]Player
}

func newMemPlayers() *memPlayers {
	return &memPlayers{players: make(map[string]Player)}
}

func (m *memPlayers) Player(id string) (Player, error) {
	p, ok := m.players[id]
	if !ok {
		return Player{}, ErrTargetDoesNotExist
	}
	return p, nil
}

type memParties struct {
	parties map[string]Party
}

func newMemParties() *memParties {
	return &memParties{parties: make(map[string]Party)}
}

func (m *memParties) Party(id string) (Party, error) {
	p, ok := m.parties[id]
	if !ok {
		return Party{}, ErrPartyNotFound
	}
	return p, nil
}

func (m *memParties) Create(p Party) error {
	m.parties[p.ID] = p
	return nil
}

func (m *memParties) Delete(id string) error {
	delete(m.parties, id)
	return nil
}

type memEvents struct {
	events map[string]Event
}

func newMemEvents() *memEvents {
	return &memEvents{events: make(map[string]Event)}
}

func (m *memEvents) Schedule(e Event) error {
	m.events[e.ID] = e
	return nil
}

func (m *memEvents) Delete(id string) error {
	delete(m.events, id)
	return nil
}

func (m *memEvents) FindByKindAndSubject(kind EventKind, subject string) (Event, error) {
	for _, e := range m.events {
		if e.Kind == kind && e.Subject == subject {
			return e, nil
		}
	}
	return Event{}, ErrFlightNotFound
}

func (m *memEvents) DueEvents(now time.Time) ([]Event, error) {
	out := make([]Event, 0)
	for _, e := range m.events {
		if !e.At.After(now) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].At.Before(out[j].At)
	})
	return out, nil
}

type memDebris struct {
	fields map[string]DebrisField
}

func newMemDebris() *memDebris {
	return &memDebris{fields: make(map[string]DebrisField)}
}

func (m *memDebris) FieldAt(coord model.Coordinate) (DebrisField, bool, error) {
	for _, f := range m.fields {
		if f.Coordinate == coord {
			return f, true, nil
		}
	}
	return DebrisField{}, false, nil
}

func (m *memDebris) Update(f DebrisField) error {
	m.fields[f.ID] = f
	return nil
}

// recorder counts the reports produced by resolutions.
type recorder struct {
	returns         int
	colonizeFailed  int
	colonizeOK      int
	deployments     int
	spyReports      int
	spiedReports    int
	harvests        int
	lastHarvested   model.Resources
	transportsOwn   int
	transportsSent  int
	transportsRecvd int
	missileReports  int
	lastDestroyed   int
}

func (r *recorder) ReturnReport(f Flight)                     { r.returns++ }
func (r *recorder) ColonizationFailure(f Flight)              { r.colonizeFailed++ }
func (r *recorder) ColonizationSuccess(f Flight, body Body)   { r.colonizeOK++ }
func (r *recorder) DeploymentReport(f Flight)                 { r.deployments++ }
func (r *recorder) EspionageReportForSpy(f Flight, b Body)    { r.spyReports++ }
func (r *recorder) EspionageReportForTarget(f Flight, b Body) { r.spiedReports++ }
func (r *recorder) TransportOwnReport(f Flight)               { r.transportsOwn++ }
func (r *recorder) TransportSenderReport(f Flight)            { r.transportsSent++ }
func (r *recorder) TransportReceiverReport(f Flight, b Body)  { r.transportsRecvd++ }

func (r *recorder) HarvestReport(f Flight, harvested model.Resources) {
	r.harvests++
	r.lastHarvested = harvested
}

func (r *recorder) MissileReport(f Flight, destroyed int) {
	r.missileReports++
	r.lastDestroyed = destroyed
}

type fairRanking struct{}

func (fairRanking) Rank(caller string, target string) (Rank, error) {
	return Equal, nil
}

// fakeCombat records the battles it was asked to
// resolve and can retire the attacking flight the way
// the real resolver does when a fleet is wiped out.
type fakeCombat struct {
	flights *memFlights
	calls   int
	destroy bool
	wipeOut bool
}

func (c *fakeCombat) Handle(f Flight, destroyMoon bool) error {
	c.calls++
	c.destroy = destroyMoon
	if c.wipeOut {
		return c.flights.Delete(f.ID)
	}
	return nil
}

type activityLog struct {
	calls  int
	bodies []string
}

func (a *activityLog) RecordActivity(body string, at time.Time) {
	a.calls++
	a.bodies = append(a.bodies, body)
}

func (a *activityLog) touched(body string) bool {
	for _, b := range a.bodies {
		if b == body {
			return true
		}
	}
	return false
}

// world bundles the fakes behind a test instance.
type world struct {
	flights  *memFlights
	bodies   *memBodies
	players  *memPlayers
	parties  *memParties
	events   *memEvents
	debris   *memDebris
	reports  *recorder
	combat   *fakeCombat
	activity *activityLog
	now      time.Time
}

func testSettings() Settings {
	return Settings{
		FleetSpeed:               1,
		GalaxiesCount:            5,
		GalaxySize:               500,
		SolarSystemSize:          15,
		MaxPlanets:               9,
		AstrophysicsColonization: false,
		MaxCombatants:            64,
		SchedulerInterval:        time.Second,
	}
}

func newTestInstance() (Instance, *world) {
	w := &world{
		flights:  newMemFlights(),
		bodies:   newMemBodies(),
		players:  newMemPlayers(),
		parties:  newMemParties(),
		events:   newMemEvents(),
		debris:   newMemDebris(),
		reports:  &recorder{},
		activity: &activityLog{},
		now:      time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC),
	}
	w.combat = &fakeCombat{flights: w.flights}

	i := Instance{
		Flights:  w.flights,
		Bodies:   w.bodies,
		Players:  w.players,
		Parties:  w.parties,
		Events:   w.events,
		Debris:   w.debris,
		Reports:  w.reports,
		Activity: w.activity,
		Ranking:  fairRanking{},
		Combat:   w.combat,
		Settings: testSettings(),
		Clock:    func() time.Time { return w.now },
	}

	return i, w
}

// addPlayer registers a player with the given techs.
func (w *world) addPlayer(id string, techs model.TechLevels) Player {
	p := Player{ID: id, Name: id, Techs: techs}
	w.players.players[id] = p
	return p
}

// addBody registers a body for the given player.
func (w *world) addBody(id string, player string, coord model.Coordinate, res model.Resources, ships model.ShipsCount) Body {
	b := Body{
		ID:         id,
		Player:     player,
		Name:       id,
		Coordinate: coord,
		Resources:  res,
		Ships:      ships,
		Defenses:   model.DefensesCount{},
	}
	w.bodies.bodies[id] = b
	return b
}

// singleEventFor fetches the single live event of the
// input flight, failing the lookup when none or more
// than one exists.
func (w *world) singleEventFor(flight string) (Event, bool) {
	found := Event{}
	count := 0
	for _, e := range w.events.events {
		if e.Subject == flight {
			found = e
			count++
		}
	}
	return found, count == 1
}
