// Package middleware provides HTTP middleware for the rainwater service
package middleware

import (
	"net/http"
	"strings"
)

// CORSMiddleware answers browser cross-origin checks for the API
type CORSMiddleware struct {
	exact     map[string]bool
	wildcards []string // ".example.com" for "*.example.com"
	allowAll  bool
}

// NewCORSMiddleware creates a CORS middleware. Entries are exact origins,
// "*" for any origin, or "*.domain" for any subdomain of domain.
func NewCORSMiddleware(allowedOrigins []string) *CORSMiddleware {
	m := &CORSMiddleware{exact: make(map[string]bool)}
	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		switch {
		case origin == "*":
			m.allowAll = true
		case strings.HasPrefix(origin, "*."):
			m.wildcards = append(m.wildcards, origin[1:])
		case origin != "":
			m.exact[origin] = true
		}
	}
	return m
}

// Handler returns the CORS middleware handler
func (m *CORSMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Add("Vary", "Origin")
		allowed := m.isOriginAllowed(origin)
		if allowed {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Expose-Headers", TraceIDHeader)
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			if allowed {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+TraceIDHeader)
				w.Header().Set("Access-Control-Max-Age", "3600")
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// isOriginAllowed reports whether origin matches the configured list
func (m *CORSMiddleware) isOriginAllowed(origin string) bool {
	if m.allowAll || m.exact[origin] {
		return true
	}
	host := origin
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	for _, suffix := range m.wildcards {
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}
