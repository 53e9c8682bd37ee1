package game

import (
	"testing"

	"ogflight_server/internal/model"
)

func TestDistance_SymmetryAndRingWrap(t *testing.T) {
	settings := testSettings()

	tests := []struct {
		name string
		from model.Coordinate
		to   model.Coordinate
		want int
	}{
		{
			name: "galaxy ring wraps",
			from: model.NewPlanetCoordinate(0, 10, 4),
			to:   model.NewPlanetCoordinate(4, 200, 8),
			want: 20000,
		},
		{
			name: "galaxy shorter arc",
			from: model.NewPlanetCoordinate(1, 10, 4),
			to:   model.NewPlanetCoordinate(3, 10, 4),
			want: 40000,
		},
		{
			name: "system ring wraps",
			from: model.NewPlanetCoordinate(2, 10, 4),
			to:   model.NewPlanetCoordinate(2, 490, 4),
			want: 2700 + 95*20,
		},
		{
			name: "adjacent systems",
			from: model.NewPlanetCoordinate(2, 10, 4),
			to:   model.NewPlanetCoordinate(2, 11, 4),
			want: 2795,
		},
		{
			name: "same system",
			from: model.NewPlanetCoordinate(2, 10, 1),
			to:   model.NewPlanetCoordinate(2, 10, 5),
			want: 1020,
		},
		{
			name: "same location",
			from: model.NewPlanetCoordinate(2, 10, 4),
			to:   model.NewCoordinate(2, 10, 4, model.Moon),
			want: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forth := Distance(settings, tt.from, tt.to)
			back := Distance(settings, tt.to, tt.from)

			if forth != tt.want {
				t.Fatalf("distance: got %d want %d", forth, tt.want)
			}
			if back != forth {
				t.Fatalf("distance not symmetric: %d vs %d", forth, back)
			}
		})
	}
}

func TestFlightDuration_MonotonicInFactorAndSpeed(t *testing.T) {
	settings := testSettings()

	prev := 0
	for factor := 1; factor <= 10; factor++ {
		d := FlightDuration(settings, 2700, 12000, factor)
		if factor > 1 && d > prev {
			t.Fatalf("duration increased with factor %d: %d > %d", factor, d, prev)
		}
		prev = d
	}

	prev = 0
	for speed := 1000.0; speed <= 20000.0; speed += 1000.0 {
		d := FlightDuration(settings, 2700, speed, 5)
		if speed > 1000.0 && d > prev {
			t.Fatalf("duration increased with speed %.0f: %d > %d", speed, d, prev)
		}
		prev = d
	}
}

func TestFlightDuration_ReferenceScenario(t *testing.T) {
	settings := testSettings()

	// round(35000/10 * sqrt(10*2700/12000)) + 10 = 5260.
	if got := FlightDuration(settings, 2700, 12000, 10); got != 5260 {
		t.Fatalf("duration: got %d want %d", got, 5260)
	}

	// The universe multiplier divides the raw duration.
	settings.FleetSpeed = 2
	if got := FlightDuration(settings, 2700, 12000, 10); got != 2630 {
		t.Fatalf("duration: got %d want %d", got, 2630)
	}

	// Never less than a second.
	settings.FleetSpeed = 100000
	if got := FlightDuration(settings, 5, 100000000, 10); got != 1 {
		t.Fatalf("duration: got %d want %d", got, 1)
	}
}

func TestFuelConsumption_ReferenceScenario(t *testing.T) {
	ships := model.ShipsCount{model.SmallCargo: 10}
	techs := model.TechLevels{}

	speed := FleetSpeed(ships, techs)
	if speed != 5000 {
		t.Fatalf("fleet speed: got %.0f want %d", speed, 5000)
	}

	// 10 ships * 10 consumption * 2700/35000 * (0.1*10*1+1)^2
	// = 30.857..., rounded to 31, plus 1.
	if got := FuelConsumption(ships, techs, 2700, speed, 10); got != 32 {
		t.Fatalf("fuel: got %.0f want %d", got, 32)
	}
}

func TestFleetSpeed_SlowestShipCapsTheFleet(t *testing.T) {
	techs := model.TechLevels{}

	ships := model.ShipsCount{
		model.SmallCargo:   1,
		model.LightFighter: 5,
	}

	if got := FleetSpeed(ships, techs); got != 5000 {
		t.Fatalf("fleet speed: got %.0f want %d", got, 5000)
	}

	// The impulse upgrade of the small cargo kicks in at
	// level 5 and changes the slowest ship.
	techs = model.TechLevels{
		model.ImpulseDrive:    5,
		model.CombustionDrive: 0,
	}

	// Small cargo: 10000*(1+0.2*5) = 20000; fighter: 12500.
	if got := FleetSpeed(ships, techs); got != 12500 {
		t.Fatalf("fleet speed: got %.0f want %d", got, 12500)
	}
}

func TestMissileMath(t *testing.T) {
	settings := testSettings()

	if got := MissileRange(3); got != 14 {
		t.Fatalf("range: got %d want %d", got, 14)
	}

	if got := MissileDuration(settings, 5); got != 330 {
		t.Fatalf("duration: got %d want %d", got, 330)
	}

	settings.FleetSpeed = 100
	if got := MissileDuration(settings, 0); got != 1 {
		t.Fatalf("duration: got %d want %d", got, 1)
	}
}
