package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/masjidops/fahs/handlers"
	"github.com/masjidops/fahs/middleware"
	"github.com/masjidops/fahs/models"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/register", handlers.Register).Methods("POST")
	r.HandleFunc("/login", handlers.Login).Methods("POST")
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir("./uploads"))),
	)

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.JWTMiddleware)

	api.HandleFunc("/me", handlers.GetCurrentUser).Methods("GET")

	// Mosques
	api.HandleFunc("/mosques", handlers.GetAllMosques).Methods("GET")
	api.HandleFunc("/mosques", handlers.CreateMosque).Methods("POST")
	api.HandleFunc("/mosques/{id}", handlers.GetMosque).Methods("GET")
	api.HandleFunc("/mosques/{id}", handlers.UpdateMosque).Methods("PATCH", "PUT")
	api.HandleFunc("/mosques/{id}", handlers.DeleteMosque).Methods("DELETE")

	// Inspection catalog (reads)
	api.HandleFunc("/main-items", handlers.GetMainItems).Methods("GET")
	api.HandleFunc("/sub-items", handlers.GetSubItems).Methods("GET")

	// Reports and the issue aggregate
	api.HandleFunc("/reports", handlers.GetAllReports).Methods("GET")
	api.HandleFunc("/reports", handlers.CreateReport).Methods("POST")
	api.HandleFunc("/reports/{id}", handlers.GetReport).Methods("GET")
	api.HandleFunc("/reports/{id}", handlers.UpdateReport).Methods("PATCH", "PUT")
	api.HandleFunc("/reports/{id}", handlers.DeleteReport).Methods("DELETE")
	api.HandleFunc("/reports/{id}/issues/draft", handlers.OpenIssueDraft).Methods("POST")
	api.HandleFunc("/reports/{id}/issues", handlers.CreateIssue).Methods("POST")
	api.HandleFunc("/issues/{id}/draft", handlers.OpenIssueEditDraft).Methods("GET")
	api.HandleFunc("/issues/{id}", handlers.UpdateIssue).Methods("PUT")
	api.HandleFunc("/issues/{id}", handlers.DeleteIssue).Methods("DELETE")

	// Exports
	api.HandleFunc("/reports/{id}/export/pdf", handlers.ExportReportPDF).Methods("GET")
	api.HandleFunc("/reports/{id}/export/excel", handlers.ExportReportToExcel).Methods("GET")
	api.HandleFunc("/reports/{id}/export/csv", handlers.ExportReportToCSV).Methods("GET")

	// Photo uploads
	api.HandleFunc("/uploads/photos", handlers.UploadPhoto).Methods("POST")
	api.HandleFunc("/uploads/slots", handlers.GetPhotoSlot).Methods("GET")
	api.HandleFunc("/uploads/slots/clear", handlers.ClearPhotoSlot).Methods("POST")
	api.HandleFunc("/uploads/pending", handlers.GetPendingUploads).Methods("GET")

	// Map snapshots (POST only; other methods get 405 from the handler)
	api.HandleFunc("/map-photos", handlers.FetchMapPhoto)

	// =====================================================
	// Admin Routes (catalog and user management)
	// =====================================================
	admin := api.PathPrefix("/admin").Subrouter()
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireRole([]string{models.RoleAdmin}, h)
	}
	admin.Handle("/main-items", adminOnly(handlers.CreateMainItem)).Methods("POST")
	admin.Handle("/main-items/{id}", adminOnly(handlers.UpdateMainItem)).Methods("PATCH", "PUT")
	admin.Handle("/main-items/{id}", adminOnly(handlers.DeleteMainItem)).Methods("DELETE")
	admin.Handle("/sub-items", adminOnly(handlers.CreateSubItem)).Methods("POST")
	admin.Handle("/sub-items/{id}", adminOnly(handlers.UpdateSubItem)).Methods("PATCH", "PUT")
	admin.Handle("/sub-items/{id}", adminOnly(handlers.DeleteSubItem)).Methods("DELETE")

	return r
}
