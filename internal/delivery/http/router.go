package http

import (
	"net/http"

	"clinic-schedule/internal/delivery/http/handler"
	"clinic-schedule/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router          *mux.Router
	clinicHandler   *handler.ClinicHandler
	scheduleHandler *handler.ScheduleHandler
	auditLogHandler *handler.AuditLogHandler
	authMiddleware  *middleware.AuthMiddleware
	corsMiddleware  *middleware.CORSMiddleware
	metricsHandler  http.Handler
}

func NewRouter(
	clinicHandler *handler.ClinicHandler,
	scheduleHandler *handler.ScheduleHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	metricsHandler http.Handler,
) *Router {
	return &Router{
		router:          mux.NewRouter(),
		clinicHandler:   clinicHandler,
		scheduleHandler: scheduleHandler,
		auditLogHandler: auditLogHandler,
		authMiddleware:  authMiddleware,
		corsMiddleware:  corsMiddleware,
		metricsHandler:  metricsHandler,
	}
}

func (r *Router) Setup() *mux.Router {
	r.router.Handle("/metrics", r.metricsHandler).Methods(http.MethodGet)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Read routes (any operator)
	read := api.NewRoute().Subrouter()
	read.Use(r.authMiddleware.Authenticate)
	read.HandleFunc("/clinics", r.clinicHandler.ListClinics).Methods(http.MethodGet)
	read.HandleFunc("/clinics/{id}", r.clinicHandler.GetClinic).Methods(http.MethodGet)
	read.HandleFunc("/clinics/{id}/schedule", r.scheduleHandler.GetSchedule).Methods(http.MethodGet)

	// Schedule changes (admin or staff)
	write := api.NewRoute().Subrouter()
	write.Use(r.authMiddleware.Authenticate)
	write.Use(middleware.RequireScheduler)
	write.HandleFunc("/clinics/{id}/schedule/on-calls", r.scheduleHandler.ScheduleOnCall).Methods(http.MethodPost)
	write.HandleFunc("/clinics/{id}/schedule/visits", r.scheduleHandler.ScheduleVisit).Methods(http.MethodPost)
	write.HandleFunc("/clinics/{id}/schedule/erase", r.scheduleHandler.Erase).Methods(http.MethodPost)

	// Clinic management and audit trail (admin only)
	admin := api.NewRoute().Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/clinics", r.clinicHandler.CreateClinic).Methods(http.MethodPost)
	admin.HandleFunc("/clinics/{id}/rooms", r.clinicHandler.RegisterRoom).Methods(http.MethodPost)
	admin.HandleFunc("/clinics/{id}/audit-logs", r.auditLogHandler.GetClinicAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{logId}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
