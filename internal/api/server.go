// server.go - HTTP server wiring and route registration

package api

import (
	"github.com/gin-gonic/gin"

	"github.com/arogyalabs/telehealth-backend/internal/ai"
	"github.com/arogyalabs/telehealth-backend/internal/catalog"
	"github.com/arogyalabs/telehealth-backend/internal/notify"
	"github.com/arogyalabs/telehealth-backend/internal/processor"
	"github.com/arogyalabs/telehealth-backend/internal/storage"
)

// Server holds every dependency the HTTP handlers need.
type Server struct {
	store        *storage.Store
	catalog      *catalog.Catalog
	triage       *ai.TriageEngine
	translator   *ai.Translator
	usages       *ai.UsageProvider
	medicines    *processor.MedicinePipeline
	prescription *processor.PrescriptionPipeline
	notifier     *notify.Notifier
}

func NewServer(
	store *storage.Store,
	cat *catalog.Catalog,
	triage *ai.TriageEngine,
	translator *ai.Translator,
	usages *ai.UsageProvider,
	medicines *processor.MedicinePipeline,
	prescription *processor.PrescriptionPipeline,
	notifier *notify.Notifier,
) *Server {
	return &Server{
		store:        store,
		catalog:      cat,
		triage:       triage,
		translator:   translator,
		usages:       usages,
		medicines:    medicines,
		prescription: prescription,
		notifier:     notifier,
	}
}

// RegisterRoutes mounts the full API surface under /api.
func (s *Server) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login", s.handleLogin)
		auth.POST("/register-patient", s.handleRegisterPatient)
		auth.POST("/register-doctor", s.handleRegisterDoctor)
	}

	admin := api.Group("/admin")
	{
		admin.GET("/doctor-registrations", s.handleDoctorRegistrations)
		admin.PUT("/doctor-registrations/:id/review", s.handleReviewDoctorRegistration)
	}

	medicines := api.Group("/medicines")
	{
		medicines.GET("/search", s.handleSearchMedicines)
		medicines.GET("/all", s.handleAllMedicines)
		medicines.GET("/:id", s.handleGetMedicine)
		medicines.GET("/:id/usages", s.handleMedicineUsages)
		medicines.POST("/usages-by-name", s.handleMedicineUsagesByName)
		medicines.POST("/ocr", s.handleMedicineImage)
	}

	api.POST("/chat/analyze", s.handleAnalyzeSymptoms)

	api.POST("/orders", s.handleCreateOrder)
	api.GET("/orders/:userId", s.handleUserOrders)

	consultations := api.Group("/consultations")
	{
		consultations.GET("/pending", s.handlePendingConsultations)
		consultations.GET("/:userId", s.handleUserConsultations)
		consultations.PUT("/:id", s.handleUpdateConsultation)
	}

	notifications := api.Group("/notifications")
	{
		notifications.GET("/:id", s.handleUserNotifications)
		notifications.PUT("/:id/read", s.handleMarkNotificationRead)
		notifications.PUT("/:id/mark-all-read", s.handleMarkAllNotificationsRead)
	}

	api.POST("/prescriptions", s.handleCreatePrescription)
	api.GET("/prescriptions/:userId", s.handleUserPrescriptions)
	api.POST("/prescriptions/ocr", s.handlePrescriptionImage)

	api.GET("/shops/nearby", s.handleNearbyShops)
	api.GET("/health", s.handleHealth)
}

// CORSMiddleware allows the frontend origin set in configuration.
// An empty allowlist means any origin, matching local development.
func CORSMiddleware(allowedOrigins string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := allowedOrigins
		if origin == "" {
			origin = "*"
		}
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
