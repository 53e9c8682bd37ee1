package main

import (
	"flag"
	"fmt"

	"ogflight_server/internal/data"
	"ogflight_server/internal/game"
	"ogflight_server/internal/locker"
	"ogflight_server/internal/routes"
	"ogflight_server/pkg/arguments"
	"ogflight_server/pkg/db"
	"ogflight_server/pkg/logger"
	"ogflight_server/pkg/metrics"
)

// main :
// Starts the flight server: parses the configuration,
// connects to the DB, assembles the game instance from
// its DB backed collaborators, starts the scheduler
// resolving due events and finally serves the routes.
func main() {
	// Define common flags.
	help := flag.Bool("h", false, "Print usage")
	conf := flag.String("config", "", "Configuration file to customize app behavior (without extension)")

	// Parse flags.
	flag.Parse()

	if *help {
		flag.Usage()
		return
	}

	metadata := arguments.Parse(*conf)

	log := logger.NewStdLogger(metadata.InstanceID)
	log.Trace(logger.Notice, "main", fmt.Sprintf("Starting flight server (environment: \"%s\")", metadata.Environment))

	dbase := db.NewPool(log)

	flights := data.NewFlightsProxy(dbase, log)
	bodies := data.NewBodiesProxy(dbase, log)
	players := data.NewPlayersProxy(dbase, log)
	parties := data.NewPartiesProxy(dbase, log)
	events := data.NewEventsProxy(dbase, log)
	debris := data.NewDebrisProxy(dbase, log)
	reports := data.NewReportsProxy(dbase, log)
	activity := data.NewActivityProxy(dbase, log)
	ranking := data.NewRankingProxy(dbase, log)
	combat := data.NewCombatProxy(dbase, log)

	instance := game.Instance{
		Flights:  flights,
		Bodies:   bodies,
		Players:  players,
		Parties:  parties,
		Events:   events,
		Debris:   debris,
		Reports:  reports,
		Activity: activity,
		Ranking:  ranking,
		Combat:   combat,

		Settings: game.ParseSettings(),

		Locker: locker.NewConcurrentLocker(log),
		Log:    log,
	}

	m := metrics.New()

	scheduler := game.NewScheduler(instance, m, log)
	if err := scheduler.Start(); err != nil {
		log.Trace(logger.Fatal, "main", fmt.Sprintf("Could not start the scheduler (err: %v)", err))
		return
	}
	defer scheduler.Stop()

	server := routes.NewServer(metadata.Port, instance, m, log)

	err := server.Serve()
	if err != nil {
		log.Trace(logger.Fatal, "main", fmt.Sprintf("Could not serve flight routes (err: %v)", err))
	}
}
