package model

import "testing"

func TestMission_ValidTarget(t *testing.T) {
	tests := []struct {
		name     string
		mission  Mission
		kind     Location
		expected bool
	}{
		{"attack on planet", Attack, World, true},
		{"attack on moon", Attack, Moon, true},
		{"attack on debris", Attack, Debris, false},
		{"harvest on debris", Harvest, Debris, true},
		{"harvest on planet", Harvest, World, false},
		{"destroy on moon", Destroy, Moon, true},
		{"destroy on planet", Destroy, World, false},
		{"colonization on planet", Colonization, World, true},
		{"colonization on moon", Colonization, Moon, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			target := NewCoordinate(1, 100, 5, tc.kind)
			if v := tc.mission.ValidTarget(target); v != tc.expected {
				t.Fatalf("target validity: got %t want %t", v, tc.expected)
			}
		})
	}
}

func TestMission_Properties(t *testing.T) {
	if Mission("smuggling").Valid() {
		t.Fatalf("unknown mission reported as valid")
	}

	for _, m := range Missions {
		if !m.Valid() {
			t.Fatalf("mission %q reported as invalid", m)
		}
	}

	if !Attack.Hostile() || Transport.Hostile() {
		t.Fatalf("hostility misreported for attack or transport")
	}
	if MissileAttack.Recallable() {
		t.Fatalf("missiles reported as recallable")
	}
	if !Attack.PartyCreatable() || Destroy.PartyCreatable() {
		t.Fatalf("party creation misreported for attack or destroy")
	}
	if Espionage.Deterministic() || !Transport.Deterministic() {
		t.Fatalf("determinism misreported for espionage or transport")
	}
}
