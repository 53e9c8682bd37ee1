package routes

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"ogflight_server/internal/game"
	"ogflight_server/pkg/logger"
	"ogflight_server/pkg/metrics"

	"github.com/gorilla/handlers"
)

// server :
// Defines the HTTP surface of the flight service. It
// exposes the dispatch, missile, recall and listing
// operations of the game instance along with the
// prometheus metrics.
//
// The `port` allows to determine which port should be
// used by the server to accept incoming requests. This
// is usually specified in the configuration so as not
// to conflict with any other API.
//
// The `instance` regroups the collaborators needed to
// perform the flight operations.
//
// The `metrics` instrument the requests served by this
// server. It can be left nil.
//
// The `log` allows to perform most of the logging on
// any action done by the server such as logging
// clients' connections, errors and generally some
// elements useful to track the activity of the server.
type server struct {
	port     int
	instance game.Instance
	metrics  *metrics.Metrics
	log      logger.Logger
}

// NewServer :
// Create a new server with the input elements to use
// internally to serve requests and perform logging.
//
// The `port` defines the port to listen to by the
// server.
//
// The `instance` defines the game instance to expose.
//
// The `m` defines the metrics to feed, or nil.
//
// The `log` is used to notify from various processes
// in the server and keep track of the activity.
//
// Returns the created server.
func NewServer(port int, instance game.Instance, m *metrics.Metrics, log logger.Logger) server {
	return server{
		port:     port,
		instance: instance,
		metrics:  m,
		log:      log,
	}
}

// Serve :
// Used to start listening to the port associated to
// this server and handle incoming requests. Requests
// are logged in the combined format and a panicking
// handler produces a `500` instead of tearing the
// server down.
//
// Returns any error.
func (s *server) Serve() error {
	mux := http.NewServeMux()
	s.routes(mux)

	handler := handlers.CombinedLoggingHandler(os.Stdout, mux)
	handler = handlers.RecoveryHandler()(handler)

	s.trace(logger.Info, fmt.Sprintf("Listening on port %d", s.port))

	return http.ListenAndServe(":"+strconv.FormatInt(int64(s.port), 10), handler)
}

// trace :
// Convenience wrapper around the logger of this server.
//
// The `level` defines the severity of the message.
//
// The `msg` defines the message to log.
func (s *server) trace(level logger.Severity, msg string) {
	if s.log != nil {
		s.log.Trace(level, "routes", msg)
	}
}
