package routes

import (
	"net/http"

	"ogflight_server/internal/game"
)

// dispatchFleet :
// Serves the dispatch of a new fleet. The body of the
// request describes the composition, the payload, the
// mission and the target of the flight.
//
// Returns the handler to execute to serve such requests.
func (s *server) dispatchFleet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Only POST is supported", http.StatusMethodNotAllowed)
			return
		}

		var req game.SendRequest
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, "Could not interpret dispatch request", http.StatusBadRequest)
			return
		}

		flight, err := s.instance.Send(req)
		if err != nil {
			if s.metrics != nil {
				s.metrics.DispatchFailures.WithLabelValues(err.Error()).Inc()
			}

			s.answerWithError(w, err)
			return
		}

		if s.metrics != nil {
			s.metrics.FlightsDispatched.WithLabelValues(string(flight.Mission)).Inc()
		}

		s.answerWithJSON(w, http.StatusCreated, flight)
	}
}

// dispatchMissiles :
// Serves the firing of a missile strike.
//
// Returns the handler to execute to serve such requests.
func (s *server) dispatchMissiles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Only POST is supported", http.StatusMethodNotAllowed)
			return
		}

		var req game.MissileRequest
		if err := decodeBody(r, &req); err != nil {
			http.Error(w, "Could not interpret strike request", http.StatusBadRequest)
			return
		}

		flight, err := s.instance.SendMissiles(req)
		if err != nil {
			if s.metrics != nil {
				s.metrics.DispatchFailures.WithLabelValues(err.Error()).Inc()
			}

			s.answerWithError(w, err)
			return
		}

		if s.metrics != nil {
			s.metrics.FlightsDispatched.WithLabelValues(string(flight.Mission)).Inc()
		}

		s.answerWithJSON(w, http.StatusCreated, flight)
	}
}

// recallRequest :
// The body of a recall request, identifying the player
// asking for the recall.
type recallRequest struct {
	Player string `json:"player"`
}

// handleFleet :
// Serves the requests directed at a single flight: the
// details of the flight or its recall.
//
// Returns the handler to execute to serve such requests.
func (s *server) handleFleet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		elems := routeElements(r, "/fleets/")
		if len(elems) == 0 {
			http.Error(w, "No flight specified", http.StatusBadRequest)
			return
		}

		id := elems[0]

		switch {
		case len(elems) == 1 && r.Method == http.MethodGet:
			flight, err := s.instance.Flights.Flight(id)
			if err != nil {
				s.answerWithError(w, err)
				return
			}

			s.answerWithJSON(w, http.StatusOK, flight)
		case len(elems) == 2 && elems[1] == "recall" && r.Method == http.MethodPost:
			var req recallRequest
			if err := decodeBody(r, &req); err != nil {
				http.Error(w, "Could not interpret recall request", http.StatusBadRequest)
				return
			}

			flight, err := s.instance.Recall(id, req.Player)
			if err != nil {
				s.answerWithError(w, err)
				return
			}

			s.answerWithJSON(w, http.StatusOK, flight)
		default:
			http.Error(w, "Unsupported fleet operation", http.StatusNotFound)
		}
	}
}

// playerFleets :
// The answer to a fleet listing request: the flights
// of the player along with their slot usage.
type playerFleets struct {
	Flights       []game.Flight `json:"flights"`
	OccupiedSlots int           `json:"occupied_slots"`
	MaxSlots      int           `json:"max_slots"`
}

// listPlayerFleets :
// Serves the list of the flights owned by a player
// along with the occupied and maximum fleet slots.
//
// Returns the handler to execute to serve such requests.
func (s *server) listPlayerFleets() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		elems := routeElements(r, "/players/")
		if len(elems) != 2 || elems[1] != "fleets" || r.Method != http.MethodGet {
			http.Error(w, "Unsupported player operation", http.StatusNotFound)
			return
		}

		player := elems[0]

		flights, err := s.instance.Flights.FlightsForPlayer(player)
		if err != nil {
			s.answerWithError(w, err)
			return
		}

		max, err := s.instance.MaxSlots(player)
		if err != nil {
			s.answerWithError(w, err)
			return
		}

		s.answerWithJSON(w, http.StatusOK, playerFleets{
			Flights:       flights,
			OccupiedSlots: len(flights),
			MaxSlots:      max,
		})
	}
}

// listFlyableShips :
// Serves the list of the ships available for dispatch
// on a body, with their stats adjusted for the owner's
// researches.
//
// Returns the handler to execute to serve such requests.
func (s *server) listFlyableShips() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		elems := routeElements(r, "/bodies/")
		if len(elems) != 2 || elems[1] != "flyable" || r.Method != http.MethodGet {
			http.Error(w, "Unsupported body operation", http.StatusNotFound)
			return
		}

		ships, err := s.instance.FlyableShips(elems[0])
		if err != nil {
			s.answerWithError(w, err)
			return
		}

		s.answerWithJSON(w, http.StatusOK, ships)
	}
}
