package http

import (
	"net/http"

	"patient-manager/internal/delivery/http/handler"
	"patient-manager/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	patientHandler      *handler.PatientHandler
	verificationHandler *handler.VerificationHandler
	notificationHandler *handler.NotificationHandler
	fileHandler         *handler.FileHandler
	corsMiddleware      *middleware.CORSMiddleware
	loggingMiddleware   *middleware.LoggingMiddleware
}

func NewRouter(
	patientHandler *handler.PatientHandler,
	verificationHandler *handler.VerificationHandler,
	notificationHandler *handler.NotificationHandler,
	fileHandler *handler.FileHandler,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		patientHandler:      patientHandler,
		verificationHandler: verificationHandler,
		notificationHandler: notificationHandler,
		fileHandler:         fileHandler,
		corsMiddleware:      corsMiddleware,
		loggingMiddleware:   loggingMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Patient registry
	patients := api.PathPrefix("/patients").Subrouter()
	patients.HandleFunc("", r.patientHandler.CreatePatient).Methods(http.MethodPost)
	patients.HandleFunc("", r.patientHandler.ListPatients).Methods(http.MethodGet)
	// Fixed paths must register before the {id} matcher.
	patients.HandleFunc("/deleted", r.patientHandler.ListDeletedPatients).Methods(http.MethodGet)
	patients.HandleFunc("/all", r.patientHandler.ListAllPatients).Methods(http.MethodGet)
	patients.HandleFunc("/{id}", r.patientHandler.GetPatient).Methods(http.MethodGet)
	patients.HandleFunc("/{id}", r.patientHandler.UpdatePatient).Methods(http.MethodPatch)
	patients.HandleFunc("/{id}", r.patientHandler.DeletePatient).Methods(http.MethodDelete)
	patients.HandleFunc("/{id}/restore", r.patientHandler.RestorePatient).Methods(http.MethodPost)

	// Patient documents
	patients.HandleFunc("/{id}/files", r.fileHandler.UploadPatientFile).Methods(http.MethodPost)
	patients.HandleFunc("/{id}/files", r.fileHandler.ListPatientFiles).Methods(http.MethodGet)
	patients.HandleFunc("/{id}/files/{fileId}", r.fileHandler.DeletePatientFile).Methods(http.MethodDelete)

	// Email verification
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/verify-email", r.verificationHandler.VerifyEmail).Methods(http.MethodGet)
	auth.HandleFunc("/resend-verification", r.verificationHandler.ResendVerification).Methods(http.MethodPost)

	// Notification audit log
	notifications := api.PathPrefix("/notifications").Subrouter()
	notifications.HandleFunc("", r.notificationHandler.ListNotifications).Methods(http.MethodGet)
	notifications.HandleFunc("/by-email", r.notificationHandler.ListNotificationsByEmail).Methods(http.MethodGet)

	// Raw file download
	api.HandleFunc("/files/download/{filename}", r.fileHandler.DownloadFile).Methods(http.MethodGet)

	r.router.Use(r.loggingMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
