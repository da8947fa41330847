package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/dftasks/dftasks-backend/internal/config"
	"github.com/dftasks/dftasks-backend/internal/database"
	"github.com/dftasks/dftasks-backend/internal/handlers"
	"github.com/dftasks/dftasks-backend/internal/mailbox"
	"github.com/dftasks/dftasks-backend/internal/middleware"
	"github.com/dftasks/dftasks-backend/internal/models"
	"github.com/dftasks/dftasks-backend/internal/routes"
	"github.com/dftasks/dftasks-backend/internal/services"
)

func main() {
	// Load env
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found")
	}
	// Load configuration
	cfg := config.Load()

	if cfg.AccessTokenSecret == "change-me-in-production" {
		if cfg.IsProduction() {
			log.Fatal("ACCESS_TOKEN_SECRET must be set in production")
		}
		log.Println("⚠️  WARNING: ACCESS_TOKEN_SECRET not set, using insecure default")
	}

	// Connect to MongoDB
	log.Printf("Connecting to MongoDB...")
	if err := database.Connect(cfg.MongoURL); err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.Disconnect()

	// Connect to Redis
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// Ensure MongoDB indexes (unique email, email dedup, approval lookup)
	if err := database.EnsureIndexes(context.Background()); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure MongoDB indexes: %v", err)
	} else {
		log.Println("✅ MongoDB indexes ensured")
	}

	// Initialize handler services (translator, mailer)
	handlers.Init(cfg)
	if cfg.GoogleTranslateAPIKey == "" && cfg.DeepLAPIKey == "" {
		log.Println("⚠️  WARNING: No translation API key set. Comments will be stored untranslated.")
	}
	if !cfg.HasSMTP() {
		log.Println("⚠️  WARNING: SMTP not configured. Password reset emails will not be sent.")
	}

	// Initialize Cloudinary service
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		if err := handlers.InitCloudinaryService(cfg); err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
			log.Println("File uploads will not be available")
		} else {
			log.Println("✅ Cloudinary service initialized")
		}
	} else {
		log.Println("Warning: Cloudinary credentials not found. File uploads will not be available")
	}

	// Start the Redis subscriber that fans pending-task events out to
	// connected admin dashboards
	services.StartNotifySubscriber(context.Background())

	// Start the IMAP listener that turns tenant emails into pending tasks
	if cfg.HasIMAP() {
		listener := &mailbox.Listener{
			Host:     cfg.IMAPHost,
			Port:     cfg.IMAPPort,
			Username: cfg.IMAPUser,
			Password: cfg.IMAPPassword,
			Store:    &mailbox.MongoStore{},
			OnCreated: func(ctx context.Context, task *models.PendingTask) {
				event := services.PendingTaskEvent{
					ID:              task.ID.Hex(),
					Title:           task.Title,
					Address:         task.Address,
					ApartmentNumber: task.ApartmentNumber,
					CreatedAt:       task.CreatedAt,
				}
				if err := services.PublishPendingTaskEvent(ctx, event); err != nil {
					log.Printf("Error publishing pending task event: %v", err)
				}
			},
		}
		listener.Start()
		defer listener.Stop()
		log.Printf("✅ Mailbox listener started for %s", cfg.IMAPUser)
	} else {
		log.Println("⚠️  WARNING: IMAP not configured. Email reports will not be ingested.")
	}

	// Setup router
	r := chi.NewRouter()

	// Custom CORS: set headers and respond to OPTIONS with 200 so preflight never gets 403
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RateLimit)

	// Health check (no auth)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Setup routes
	routes.SetupRoutes(r, cfg.AccessTokenSecret)

	log.Printf("🚀 DFTasks backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
