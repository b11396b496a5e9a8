// config.go - Configuration loaded from environment variables

package configs

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting. It is built once in main and passed
// into the components that need it; nothing reads the environment after
// startup.
type Config struct {
	// Gemini AI
	GeminiAPIKey string
	// Candidate model identifiers, tried in order until one answers.
	TextModels   []string
	VisionModels []string

	// Server
	Port           string
	AllowedOrigins string

	// MongoDB
	MongoURI    string
	MongoDBName string

	// Medicine catalog
	MedicineDataPath string

	// OCR sidecar (Tesseract service). Empty means OCR is unavailable and
	// the image pipelines skip straight to their vision fallbacks.
	OCRServiceURL string

	// SMS via Twilio
	SMSEnabled        bool
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string
}

// Default model fallback order. The primary text model is listed first and
// again inside the fallback list; the duplicate is harmless and keeps the
// primary independently overridable.
var (
	defaultTextModels = []string{
		"gemini-2.0-flash",
		"gemini-2.0-flash",
		"gemini-2.5-flash",
		"gemini-2.0-flash-lite",
		"gemma-3-4b-it",
	}
	defaultVisionModels = []string{
		"gemini-2.0-flash",
		"gemini-2.5-flash",
		"gemini-2.0-flash-exp",
		"gemini-2.0-flash-lite",
	}
)

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	// Load .env file if exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		TextModels:        getEnvList("GEMINI_TEXT_MODELS", defaultTextModels),
		VisionModels:      getEnvList("GEMINI_VISION_MODELS", defaultVisionModels),
		Port:              getEnv("PORT", "8080"),
		AllowedOrigins:    getEnv("ALLOWED_ORIGINS", "*"),
		MongoURI:          getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDBName:       getEnv("MONGO_DB_NAME", "healthcare_db"),
		MedicineDataPath:  getEnv("MEDICINE_DATA_PATH", "medicines.csv"),
		OCRServiceURL:     getEnv("OCR_SERVICE_URL", ""),
		SMSEnabled:        getEnvBool("SMS_ENABLED", false),
		TwilioAccountSID:  getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:   getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioPhoneNumber: getEnv("TWILIO_PHONE_NUMBER", ""),
	}

	if cfg.GeminiAPIKey == "" {
		log.Println("WARNING: GEMINI_API_KEY not set - AI analysis will fall back to safe defaults")
	}

	log.Println("✓ Configuration loaded successfully")
	return cfg
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var models []string
		for _, m := range strings.Split(value, ",") {
			if m = strings.TrimSpace(m); m != "" {
				models = append(models, m)
			}
		}
		if len(models) > 0 {
			return models
		}
	}
	return defaultValue
}
