package rainwater

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/R3E-Network/rainwater/internal/middleware"
)

// buildRouter registers the API routes and the middleware chain.
func (s *Service) buildRouter() *mux.Router {
	router := mux.NewRouter()

	router.Use(middleware.NewTracingMiddleware(s.log).Handler)
	router.Use(middleware.MetricsMiddleware(ServiceID, s.metrics))
	router.Use(middleware.NewCORSMiddleware(s.cfg.Server.CORSOrigins).Handler)
	router.Use(s.countRequests)

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/info", s.handleInfo).Methods(http.MethodGet)
	router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/v1").Subrouter()
	api.Use(s.limiter.Handler)
	api.HandleFunc("/trap", s.handleTrap).Methods(http.MethodPost)
	api.HandleFunc("/trap", s.handleTrapQuery).Methods(http.MethodGet)
	api.HandleFunc("/profile", s.handleProfile).Methods(http.MethodPost)
	api.HandleFunc("/batch", s.handleBatch).Methods(http.MethodPost)

	// CORS preflights are answered by the middleware; other OPTIONS get the
	// allowed methods.
	api.HandleFunc("/trap", s.handleOptions("GET, POST, OPTIONS")).Methods(http.MethodOptions)
	api.HandleFunc("/profile", s.handleOptions("POST, OPTIONS")).Methods(http.MethodOptions)
	api.HandleFunc("/batch", s.handleOptions("POST, OPTIONS")).Methods(http.MethodOptions)

	router.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
	return router
}

func (s *Service) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		next.ServeHTTP(w, r)
	})
}

func (s *Service) handleOptions(allow string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", allow)
		w.WriteHeader(http.StatusNoContent)
	}
}
