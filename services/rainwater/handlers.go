package rainwater

import (
	"net/http"
	"time"

	"github.com/R3E-Network/rainwater/internal/errors"
	"github.com/R3E-Network/rainwater/internal/httputil"
	"github.com/R3E-Network/rainwater/pkg/rainwater"
)

// =============================================================================
// HTTP Handlers
// =============================================================================

// handleTrap computes the water of a JSON profile.
func (s *Service) handleTrap(w http.ResponseWriter, r *http.Request) {
	var req TrapRequest
	if !httputil.DecodeJSON(w, r, &req) {
		s.reject(errors.InvalidInput("invalid JSON body", nil))
		return
	}

	resp, err := s.Trap(r.Context(), req.Heights, req.Method)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// handleTrapQuery computes the water of a profile given as ?heights=0,1,0,2.
func (s *Service) handleTrapQuery(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	heights, err := rainwater.ParseHeights(query.Get("heights"))
	if err != nil {
		s.writeError(w, s.reject(errors.FromError(err)))
		return
	}

	resp, err := s.Trap(r.Context(), heights, query.Get("method"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// handleProfile returns the derived profiles and basins.
func (s *Service) handleProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if !httputil.DecodeJSON(w, r, &req) {
		s.reject(errors.InvalidInput("invalid JSON body", nil))
		return
	}

	resp, err := s.Profile(r.Context(), req.Heights)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// handleBatch computes the water of several profiles.
func (s *Service) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !httputil.DecodeJSON(w, r, &req) {
		s.reject(errors.InvalidInput("invalid JSON body", nil))
		return
	}

	resp, err := s.Batch(r.Context(), req.Profiles, req.Method)
	if err != nil {
		s.writeError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// handleHealth reports whether the service is running.
func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, code := "healthy", http.StatusOK
	if !s.Running() {
		status, code = "unavailable", http.StatusServiceUnavailable
	}

	httputil.WriteJSON(w, code, HealthResponse{
		Status:    status,
		Service:   ServiceID,
		Version:   Version,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// handleInfo reports configuration and running counters.
func (s *Service) handleInfo(w http.ResponseWriter, r *http.Request) {
	methods := make([]string, 0, len(rainwater.Methods()))
	for _, m := range rainwater.Methods() {
		methods = append(methods, m.String())
	}

	status := "active"
	if !s.Running() {
		status = "stopped"
	}

	httputil.WriteJSON(w, http.StatusOK, InfoResponse{
		Status:     status,
		Service:    ServiceID,
		Version:    Version,
		Method:     s.method.String(),
		Methods:    methods,
		Timestamp:  time.Now().Format(time.RFC3339),
		Statistics: s.Stats(),
	})
}

func (s *Service) handleNotFound(w http.ResponseWriter, r *http.Request) {
	httputil.WriteError(w, errors.NotFound(r.URL.Path))
}

func (s *Service) writeError(w http.ResponseWriter, err error) {
	serr := errors.FromError(err)
	if serr.HTTPStatus >= http.StatusInternalServerError {
		s.log.WithError(err).Error("request failed")
	}
	httputil.WriteError(w, serr)
}
