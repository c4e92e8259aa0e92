package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"posrecon-backend/internal/metrics"
	"posrecon-backend/internal/security"
	"posrecon-backend/internal/service"
)

// Services is everything the HTTP API is served from.
type Services struct {
	Auth           service.AuthService
	Managers       service.ManagerService
	Tenants        service.TenantService
	Reports        service.ReportService
	Reconciliation service.ReconciliationService
	Tokens         security.TokenManager
	MaxUploadBytes int64
	AllowedOrigins []string
}

// NewRouter wires every route and middleware and returns the root handler.
func NewRouter(s Services) http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	router.Handle("/metrics", metrics.Handler()).Methods("GET")

	RegisterManagerRoutes(router, s.Managers, s.Auth)
	RegisterTenantRoutes(router, s.Tenants)
	RegisterReportRoutes(router, s.Reports)
	RegisterWorkspaceRoutes(router, s.Reconciliation, s.MaxUploadBytes)

	router.Use(RecoveryMiddleware, LoggingMiddleware, AuthMiddleware(s.Tokens))
	return CORSMiddleware(s.AllowedOrigins)(router)
}
