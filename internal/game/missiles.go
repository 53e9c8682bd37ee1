package game

import (
	"fmt"
	"time"

	"ogflight_server/internal/model"
	"ogflight_server/pkg/logger"

	"github.com/google/uuid"
)

// MissileRequest :
// Regroups the parameters of a missile strike as
// provided by the player.
//
// The `Source` defines the identifier of the body the
// missiles are fired from.
//
// The `Target` defines the coordinate to strike.
//
// The `Count` defines the number of missiles to fire.
//
// The `MainTarget` defines the defense system the
// strike aims at in priority.
type MissileRequest struct {
	Source     string            `json:"source"`
	Target     model.Coordinate  `json:"target"`
	Count      int               `json:"count"`
	MainTarget model.DefenseUnit `json:"main_target"`
}

// SendMissiles :
// Validates the input strike request and creates the
// corresponding flight along with its arrival event.
// Missiles are deducted from the origin body right
// away and can never be recalled.
//
// The `req` defines the strike request.
//
// Returns the created flight along with any error.
func (i Instance) SendMissiles(req MissileRequest) (Flight, error) {
	_, err := req.MainTarget.Desc()
	if err != nil {
		return Flight{}, ErrInvalidMissileTarget
	}
	if req.MainTarget == model.AntiBallisticMissile || req.MainTarget == model.InterplanetaryMissile {
		return Flight{}, ErrInvalidMissileTarget
	}

	release := i.lockBody(req.Source)
	defer release()

	body, err := i.Bodies.Body(req.Source)
	if err != nil {
		return Flight{}, err
	}

	player, err := i.Players.Player(body.Player)
	if err != nil {
		return Flight{}, err
	}

	if req.Target.Galaxy != body.Coordinate.Galaxy {
		return Flight{}, ErrOutOfMissileRange
	}

	systems := body.Coordinate.SystemsTo(req.Target, i.Settings.GalaxySize)
	if systems > MissileRange(player.Techs.Level(model.ImpulseDrive)) {
		return Flight{}, ErrOutOfMissileRange
	}

	target, exists, err := i.Bodies.BodyAt(req.Target)
	if err != nil {
		return Flight{}, err
	}
	if !exists {
		return Flight{}, ErrTargetDoesNotExist
	}

	owner, err := i.Players.Player(target.Player)
	if err != nil {
		return Flight{}, err
	}

	if owner.ID == player.ID {
		return Flight{}, ErrInvalidTarget
	}
	if owner.Vacation {
		return Flight{}, ErrTargetOnVacation
	}

	rank, err := i.Ranking.Rank(player.ID, owner.ID)
	if err != nil {
		return Flight{}, err
	}
	if rank != Equal {
		return Flight{}, ErrTargetRelationshipForbidden
	}

	if req.Count <= 0 || body.Defenses.Count(model.InterplanetaryMissile) < req.Count {
		return Flight{}, ErrInsufficientUnits
	}

	body.Defenses[model.InterplanetaryMissile] -= req.Count

	err = i.Bodies.Update(body)
	if err != nil {
		return Flight{}, err
	}

	now := i.now()
	duration := MissileDuration(i.Settings, systems)
	arrival := now.Add(time.Duration(duration) * time.Second)

	flight := Flight{
		ID:            uuid.New().String(),
		Player:        player.ID,
		Origin:        body.ID,
		Source:        body.Coordinate,
		Target:        req.Target,
		Mission:       model.MissileAttack,
		Ships:         model.ShipsCount{},
		SpeedFactor:   10,
		Missiles:      req.Count,
		MainTarget:    req.MainTarget,
		CreatedAt:     now,
		DepartureTime: now,
		ArrivalTime:   &arrival,
		// Missiles never come back, the return time only
		// exists to keep the timeline well formed.
		ReturnTime: arrival.Add(time.Duration(duration) * time.Second),
	}

	err = i.Flights.Create(flight)
	if err != nil {
		return Flight{}, err
	}

	err = i.Events.Schedule(Event{
		ID:      uuid.New().String(),
		At:      arrival,
		Kind:    FlightEvent,
		Subject: flight.ID,
	})
	if err != nil {
		return Flight{}, err
	}

	i.trace(logger.Verbose, fmt.Sprintf("Fired %d missile(s) from \"%s\" at %s (main target: %s)", req.Count, body.ID, req.Target, req.MainTarget))

	return flight, nil
}
