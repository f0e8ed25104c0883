package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/financetheory/api/internal/auth"
	"github.com/financetheory/api/internal/extract"
	"github.com/financetheory/api/internal/finance"
	"github.com/financetheory/api/internal/ocr"
	"github.com/financetheory/api/internal/storage"
)

// localUser is the identity used when no verifier is configured
// (single-user local mode, no managed auth provider).
var localUser = &auth.User{ID: "local", Email: "local@localhost"}

type contextKey string

const userKey contextKey = "user"

// Server handles HTTP requests for the finance API.
type Server struct {
	finance  *finance.Service
	parser   *extract.Parser
	gateway  *ocr.Gateway
	storage  storage.Storage
	verifier auth.Verifier
	mux      *http.ServeMux
}

// NewServer wires the API routes. verifier may be nil for local mode;
// storage may be nil to skip receipt upload.
func NewServer(financeSvc *finance.Service, parser *extract.Parser, gateway *ocr.Gateway, store storage.Storage, verifier auth.Verifier) *Server {
	s := &Server{
		finance:  financeSvc,
		parser:   parser,
		gateway:  gateway,
		storage:  store,
		verifier: verifier,
		mux:      http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes, most specific first.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("GET /api/ocr/provider", s.requireAuth(s.handleProviderInfo))
	s.mux.HandleFunc("POST /api/ocr/process", s.requireAuth(s.handleProcessReceipt))
	s.mux.HandleFunc("POST /api/ocr/extract", s.requireAuth(s.handleExtractText))

	s.mux.HandleFunc("GET /api/transactions/{id}", s.requireAuth(s.handleGetTransaction))
	s.mux.HandleFunc("PUT /api/transactions/{id}", s.requireAuth(s.handleUpdateTransaction))
	s.mux.HandleFunc("DELETE /api/transactions/{id}", s.requireAuth(s.handleDeleteTransaction))
	s.mux.HandleFunc("GET /api/transactions", s.requireAuth(s.handleListTransactions))
	s.mux.HandleFunc("POST /api/transactions", s.requireAuth(s.handleCreateTransaction))
	s.mux.HandleFunc("DELETE /api/transactions", s.requireAuth(s.handleDeleteAllTransactions))

	s.mux.HandleFunc("DELETE /api/categories/{id}", s.requireAuth(s.handleDeleteCategory))
	s.mux.HandleFunc("GET /api/categories", s.requireAuth(s.handleListCategories))
	s.mux.HandleFunc("POST /api/categories", s.requireAuth(s.handleCreateCategory))

	s.mux.HandleFunc("GET /api/dashboard/summary", s.requireAuth(s.handleSummary))
	s.mux.HandleFunc("GET /api/dashboard/breakdown", s.requireAuth(s.handleBreakdown))
	s.mux.HandleFunc("GET /api/dashboard/trend", s.requireAuth(s.handleTrend))
	s.mux.HandleFunc("GET /api/dashboard/recent", s.requireAuth(s.handleRecent))

	s.mux.HandleFunc("GET /api/reports/monthly", s.requireAuth(s.handleMonthlyReport))
}

// requireAuth verifies the bearer token with the auth provider and puts
// the resolved user on the request context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.verifier == nil {
			next(w, r.WithContext(context.WithValue(r.Context(), userKey, localUser)))
			return
		}

		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		user, err := s.verifier.Verify(r.Context(), token)
		if err != nil {
			if !errors.Is(err, auth.ErrInvalidToken) {
				slog.Error("Token verification failed", "error", err)
			}
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	}
}

func currentUser(r *http.Request) *auth.User {
	if user, ok := r.Context().Value(userKey).(*auth.User); ok {
		return user
	}
	return localUser
}

// corsMiddleware adds CORS headers and answers preflight requests.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// Start starts the HTTP server.
func (s *Server) Start(addr string) error {
	slog.Info("Starting server", "address", addr)
	return http.ListenAndServe(addr, s.corsMiddleware(s.mux))
}

// ServeHTTP implements http.Handler for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.corsMiddleware(s.mux).ServeHTTP(w, r)
}
