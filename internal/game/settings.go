package game

import (
	"time"

	"github.com/spf13/viper"
)

// ParseSettings :
// Fetches the game constants from the configuration
// file provided to the server. Unset properties keep
// their default values.
//
// Returns the parsed settings.
func ParseSettings() Settings {
	settings := Settings{
		FleetSpeed:               1,
		GalaxiesCount:            5,
		GalaxySize:               500,
		SolarSystemSize:          15,
		MaxPlanets:               9,
		AstrophysicsColonization: false,
		MaxCombatants:            64,
		SchedulerInterval:        1 * time.Second,
	}

	if viper.IsSet("Game.FleetSpeed") {
		settings.FleetSpeed = viper.GetInt("Game.FleetSpeed")
	}
	if viper.IsSet("Game.GalaxiesCount") {
		settings.GalaxiesCount = viper.GetInt("Game.GalaxiesCount")
	}
	if viper.IsSet("Game.GalaxySize") {
		settings.GalaxySize = viper.GetInt("Game.GalaxySize")
	}
	if viper.IsSet("Game.SolarSystemSize") {
		settings.SolarSystemSize = viper.GetInt("Game.SolarSystemSize")
	}
	if viper.IsSet("Game.MaxPlanets") {
		settings.MaxPlanets = viper.GetInt("Game.MaxPlanets")
	}
	if viper.IsSet("Game.AstrophysicsColonization") {
		settings.AstrophysicsColonization = viper.GetBool("Game.AstrophysicsColonization")
	}
	if viper.IsSet("Game.MaxCombatants") {
		settings.MaxCombatants = viper.GetInt("Game.MaxCombatants")
	}
	if viper.IsSet("Game.SchedulerIntervalMs") {
		settings.SchedulerInterval = time.Duration(viper.GetInt("Game.SchedulerIntervalMs")) * time.Millisecond
	}

	return settings
}
