package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	releaseaudit "centinela/contexts/field-operations/release-audit"
	stationregistry "centinela/contexts/field-operations/station-registry"
	tallyengine "centinela/contexts/field-operations/tally-engine"
	witnessassignment "centinela/contexts/field-operations/witness-assignment"
	_ "centinela/internal/platform/httpserver/docs"
	"centinela/internal/shared/actor"

	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	auth     Authenticator
	stations stationregistry.Module
	witness  witnessassignment.Module
	tallies  tallyengine.Module
	audits   releaseaudit.Module
}

func New(
	stations stationregistry.Module,
	witness witnessassignment.Module,
	tallies tallyengine.Module,
	audits releaseaudit.Module,
	auth Authenticator,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		auth:     auth,
		stations: stations,
		witness:  witness,
		tallies:  tallies,
		audits:   audits,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /puestos-votacion", s.handleListStations)
	s.mux.HandleFunc("POST /puestos-votacion", s.handleCreateStation)
	s.mux.HandleFunc("DELETE /puestos-votacion/{puesto_id}", s.handleDeleteStation)
	s.mux.HandleFunc("GET /puestos-votacion/{puesto_id}/mesas-disponibles", s.handleAvailableTables)
	s.mux.HandleFunc("POST /puestos-votacion/{puesto_id}/mesas-disponibles", s.handleAvailableTables)

	s.mux.HandleFunc("GET /testigos", s.handleListWitnesses)
	s.mux.HandleFunc("POST /testigos", s.handleCreateWitness)
	s.mux.HandleFunc("POST /testigos/{testigo_id}/liberar-mesa", s.handleReleaseMesa)

	s.mux.HandleFunc("GET /resultados-mesas", s.handleListTallies)
	s.mux.HandleFunc("GET /resultados-mesas/mesa/{puesto_id}/{mesa}", s.handleMesaForm)
	s.mux.HandleFunc("POST /resultados-mesas/mesa/{puesto_id}/{mesa}", s.handleSubmitTally)

	s.mux.HandleFunc("GET /auditoria-liberaciones", s.handleListReleases)
}

// resolveActor authenticates the request or writes the 401 itself.
func (s *Server) resolveActor(w http.ResponseWriter, r *http.Request) (actor.Actor, bool) {
	caller, err := s.auth.ResolveActor(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
		return actor.Actor{}, false
	}
	return caller, true
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
