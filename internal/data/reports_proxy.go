package data

import (
	"fmt"

	"ogflight_server/internal/game"
	"ogflight_server/internal/model"
	"ogflight_server/pkg/db"
	"ogflight_server/pkg/logger"
)

// ReportsProxy :
// DB backed implementation of the report recorder. The
// narrative generation lives in SQL scripts which turn
// the raw data of a resolution into the messages shown
// to the players. Reports are best effort: a failure is
// logged and never interrupts a resolution.
type ReportsProxy struct {
	commonProxy
}

// NewReportsProxy :
// Creates a proxy recording reports into the input DB.
//
// The `dbase` defines the DB to use.
//
// The `log` allows to notify errors and information.
//
// Returns the created proxy.
func NewReportsProxy(dbase *db.DB, log logger.Logger) *ReportsProxy {
	return &ReportsProxy{
		commonProxy: newCommonProxy(dbase, log, "reports"),
	}
}

// record :
// Runs the input report script, logging any failure.
//
// The `script` defines the SQL function to call.
//
// The `args` define the arguments of the script.
func (p *ReportsProxy) record(script string, args ...interface{}) {
	err := p.proxy.InsertToDB(db.InsertReq{
		Script:     script,
		Args:       args,
		SkipReturn: true,
	})
	if err != nil {
		p.trace(logger.Error, fmt.Sprintf("Could not record report \"%s\" (err: %v)", script, err))
	}
}

// ReturnReport :
// Notifies the owner that their fleet came back home.
func (p *ReportsProxy) ReturnReport(f game.Flight) {
	p.record("report_fleet_return", f)
}

// ColonizationFailure :
// Notifies the owner that their colonization attempt
// failed and the fleet is heading home.
func (p *ReportsProxy) ColonizationFailure(f game.Flight) {
	p.record("report_colonization_failure", f)
}

// ColonizationSuccess :
// Notifies the owner that their colony was settled.
func (p *ReportsProxy) ColonizationSuccess(f game.Flight, body game.Body) {
	p.record("report_colonization_success", f, body)
}

// DeploymentReport :
// Notifies the owner that their fleet was deployed.
func (p *ReportsProxy) DeploymentReport(f game.Flight) {
	p.record("report_deployment", f)
}

// EspionageReportForSpy :
// Produces the intelligence gathered over the target
// for the sender of the probes.
func (p *ReportsProxy) EspionageReportForSpy(f game.Flight, target game.Body) {
	p.record("report_espionage_for_spy", f, target)
}

// EspionageReportForTarget :
// Notifies the owner of the spied body that a foreign
// fleet was detected over it.
func (p *ReportsProxy) EspionageReportForTarget(f game.Flight, target game.Body) {
	p.record("report_espionage_for_target", f, target)
}

// HarvestReport :
// Notifies the owner of the amounts salvaged from a
// debris field.
func (p *ReportsProxy) HarvestReport(f game.Flight, harvested model.Resources) {
	p.record("report_harvest", f, harvested)
}

// TransportOwnReport :
// Notifies the owner of a delivery between two of
// their bodies.
func (p *ReportsProxy) TransportOwnReport(f game.Flight) {
	p.record("report_transport_own", f)
}

// TransportSenderReport :
// Notifies the sender of a delivery to another player.
func (p *ReportsProxy) TransportSenderReport(f game.Flight) {
	p.record("report_transport_sender", f)
}

// TransportReceiverReport :
// Notifies the receiver of a delivery from another
// player.
func (p *ReportsProxy) TransportReceiverReport(f game.Flight, target game.Body) {
	p.record("report_transport_receiver", f, target)
}

// MissileReport :
// Notifies both sides of the outcome of a missile
// strike.
func (p *ReportsProxy) MissileReport(f game.Flight, destroyed int) {
	p.record("report_missile_strike", f, destroyed)
}
