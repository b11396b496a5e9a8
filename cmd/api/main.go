// main.go - The entry point and server wiring.

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arogyalabs/telehealth-backend/configs"
	"github.com/arogyalabs/telehealth-backend/internal/ai"
	"github.com/arogyalabs/telehealth-backend/internal/api"
	"github.com/arogyalabs/telehealth-backend/internal/catalog"
	"github.com/arogyalabs/telehealth-backend/internal/notify"
	"github.com/arogyalabs/telehealth-backend/internal/ocr"
	"github.com/arogyalabs/telehealth-backend/internal/processor"
	"github.com/arogyalabs/telehealth-backend/internal/ratelimit"
	"github.com/arogyalabs/telehealth-backend/internal/storage"
)

func main() {
	cfg := configs.LoadConfig()

	if ginMode := os.Getenv("GIN_MODE"); ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// MongoDB is optional: without it the AI and catalog endpoints
	// still serve, only accounts and orders are unavailable.
	store, err := storage.New(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Printf("MongoDB unavailable, running without persistence: %v", err)
		store = nil
	} else {
		defer store.Close()
		store.InitializeDemoUsers(ctx)
	}

	cat, err := catalog.Load(cfg.MedicineDataPath)
	if err != nil {
		log.Fatalf("Failed to load medicine dataset: %v", err)
	}
	log.Printf("Medicines in catalog: %d", cat.Size())

	limiter := ratelimit.NewGeminiLimiter()
	gateway, err := ai.NewGateway(ctx, cfg.GeminiAPIKey, cfg.TextModels, cfg.VisionModels, limiter)
	if err != nil {
		log.Fatalf("Failed to initialize AI gateway: %v", err)
	}

	translator := ai.NewTranslator(gateway)
	triage := ai.NewTriageEngine(gateway, translator)
	usages := ai.NewUsageProvider(gateway)

	var engine ocr.Engine = ocr.Disabled{}
	if cfg.OCRServiceURL != "" {
		engine = ocr.NewHTTPEngine(cfg.OCRServiceURL)
		log.Printf("OCR service configured at %s", cfg.OCRServiceURL)
	} else {
		log.Println("OCR service not configured, image analysis uses vision models only")
	}

	medicinePipeline := processor.NewMedicinePipeline(gateway, engine)
	prescriptionPipeline := processor.NewPrescriptionPipeline(gateway, engine)

	var sms notify.SMSSender = notify.DisabledSMS{}
	if cfg.SMSEnabled && cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		sms = notify.NewTwilioSMS(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)
		log.Printf("Twilio SMS configured (from: %s)", cfg.TwilioPhoneNumber)
	}
	notifier := notify.NewNotifier(store, sms)

	server := api.NewServer(store, cat, triage, translator, usages, medicinePipeline, prescriptionPipeline, notifier)

	router := gin.Default()
	router.Use(api.CORSMiddleware(cfg.AllowedOrigins))

	router.GET("/", func(c *gin.Context) {
		c.String(200, "ok")
	})

	server.RegisterRoutes(router)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   3 * time.Minute, // Allow up to 3 minutes for AI processing
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
