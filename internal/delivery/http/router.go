package http

import (
	"net/http"

	"healthmon-backend/internal/delivery/http/handler"
	"healthmon-backend/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router            *mux.Router
	authHandler       *handler.AuthHandler
	patientHandler    *handler.PatientHandler
	recordHandler     *handler.RecordHandler
	reportHandler     *handler.ReportHandler
	syncHandler       *handler.SyncHandler
	authMiddleware    *middleware.AuthMiddleware
	corsMiddleware    *middleware.CORSMiddleware
	loggingMiddleware *middleware.LoggingMiddleware
	rateLimiter       *middleware.RateLimiter
	loginRateLimiter  *middleware.RateLimiter
}

func NewRouter(
	authHandler *handler.AuthHandler,
	patientHandler *handler.PatientHandler,
	recordHandler *handler.RecordHandler,
	reportHandler *handler.ReportHandler,
	syncHandler *handler.SyncHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
	rateLimiter *middleware.RateLimiter,
	loginRateLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		authHandler:       authHandler,
		patientHandler:    patientHandler,
		recordHandler:     recordHandler,
		reportHandler:     reportHandler,
		syncHandler:       syncHandler,
		authMiddleware:    authMiddleware,
		corsMiddleware:    corsMiddleware,
		loggingMiddleware: loggingMiddleware,
		rateLimiter:       rateLimiter,
		loginRateLimiter:  loginRateLimiter,
	}
}

func (r *Router) Setup() *mux.Router {
	api := r.router.PathPrefix("/api").Subrouter()

	// Preflight requests must match a route for the CORS middleware to run
	api.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(r.preflight)

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	api.Handle("/auth/login", r.loginRateLimiter.Handle(http.HandlerFunc(r.authHandler.Login))).Methods(http.MethodPost)

	// Read routes (public) for the dashboard and the public lookup page
	api.HandleFunc("/stats", r.reportHandler.GetStats).Methods(http.MethodGet)
	api.HandleFunc("/alerts/recent", r.recordHandler.GetRecentAlerts).Methods(http.MethodGet)
	api.HandleFunc("/patients", r.patientHandler.GetAllPatients).Methods(http.MethodGet)
	api.HandleFunc("/patients/{id:[0-9]+}", r.patientHandler.GetPatient).Methods(http.MethodGet)

	// Admin routes (protected)
	admin := api.NewRoute().Subrouter()
	admin.Use(r.authMiddleware.Authenticate)

	admin.HandleFunc("/auth/logout", r.authHandler.Logout).Methods(http.MethodPost)
	admin.HandleFunc("/auth/me", r.authHandler.GetCurrentAdmin).Methods(http.MethodGet)

	admin.HandleFunc("/patients", r.patientHandler.CreatePatient).Methods(http.MethodPost)
	admin.HandleFunc("/patients/{id:[0-9]+}", r.patientHandler.UpdatePatient).Methods(http.MethodPut)
	admin.HandleFunc("/patients/{id:[0-9]+}", r.patientHandler.DeletePatient).Methods(http.MethodDelete)

	admin.HandleFunc("/patients/{id:[0-9]+}/checkups", r.recordHandler.CreateCheckup).Methods(http.MethodPost)
	admin.HandleFunc("/patients/{id:[0-9]+}/vitamins", r.recordHandler.CreateVitamin).Methods(http.MethodPost)
	admin.HandleFunc("/patients/{id:[0-9]+}/alerts", r.recordHandler.CreateAlert).Methods(http.MethodPost)
	admin.HandleFunc("/checkups/{id:[0-9]+}", r.recordHandler.UpdateCheckup).Methods(http.MethodPut)
	admin.HandleFunc("/vitamins/{id:[0-9]+}", r.recordHandler.UpdateVitamin).Methods(http.MethodPut)

	admin.HandleFunc("/export/patients", r.reportHandler.ExportPatients).Methods(http.MethodGet)
	admin.HandleFunc("/sync", r.syncHandler.TriggerSync).Methods(http.MethodPost)

	// Outermost first: CORS answers preflight before logging and limiting
	r.router.Use(r.corsMiddleware.Handle)
	r.router.Use(r.loggingMiddleware.Handle)
	r.router.Use(r.rateLimiter.Handle)

	return r.router
}

func (r *Router) preflight(w http.ResponseWriter, req *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
