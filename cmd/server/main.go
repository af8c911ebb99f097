package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"rider-fleet-backend/internal/attendance"
	"rider-fleet-backend/internal/cache"
	"rider-fleet-backend/internal/config"
	"rider-fleet-backend/internal/database"
	"rider-fleet-backend/internal/handlers"
	"rider-fleet-backend/internal/models"
	"rider-fleet-backend/internal/notify"
	"rider-fleet-backend/internal/ports"
	"rider-fleet-backend/internal/reports"
	"rider-fleet-backend/internal/services"
	"rider-fleet-backend/internal/tracking"
	"rider-fleet-backend/internal/websocket"
	"rider-fleet-backend/internal/zones"
)

func main() {
	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("🚀 RIDER FLEET BACKEND STARTING")
	log.Println("═══════════════════════════════════════════════════════════════════")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("📂 Loading configuration...")
	cfg, err := config.Load()
	if err != nil {
		fatal("Configuration invalid", err,
			"Please set DATABASE_URL in your environment or .env file")
	}

	log.Println("🔌 Connecting to database...")
	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		fatal("Database connection failed", err,
			"This is usually caused by:",
			"1. Wrong DATABASE_URL format",
			"2. PostgreSQL service is down",
			"3. Network connectivity issue")
	}
	defer db.Close()

	log.Println("🔄 Running database migrations...")
	if err := database.Migrate(ctx, db); err != nil {
		fatal("Database migrations failed", err)
	}
	log.Println("✅ Database migrations completed")

	log.Println("🌱 Seeding demand zones...")
	if err := database.SeedZones(ctx, db, seedZones(cfg.ZonesFile)); err != nil {
		fatal("Zone seeding failed", err)
	}

	zoneRepo := database.NewZoneRepo(db)
	loaded, err := zoneRepo.LoadZones(ctx)
	if err != nil {
		fatal("Loading demand zones failed", err)
	}
	registry := zones.NewRegistry(loaded, zoneRepo)
	log.Printf("✅ %d demand zones loaded", len(loaded))

	telemetryRepo := database.NewTelemetryRepo(db)
	bookingRepo := database.NewBookingRepo(db)
	notificationRepo := database.NewNotificationRepo(db)

	hub := websocket.NewHub()
	log.Println("✅ WebSocket hub ready")

	var live ports.LivePositionCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()

		positions := cache.NewLivePositions(rdb)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := positions.Ping(pingCtx); err != nil {
			log.Printf("⚠️  Redis at %s unreachable: %v (live position cache disabled)", cfg.RedisAddr, err)
		} else {
			live = positions
			log.Printf("✅ Live position cache connected (%s)", cfg.RedisAddr)
		}
		cancel()
	} else {
		log.Println("⚠️  REDIS_ADDR not set, live position cache disabled")
	}

	engine := tracking.NewEngine(tracking.EngineDeps{
		Zones:      registry,
		Dispatcher: hub,
		Telemetry:  telemetryRepo,
		Live:       live,
	})

	notifierDeps := notify.Deps{
		Telemetry:     telemetryRepo,
		Notifications: notificationRepo,
		Zones:         registry,
		Live:          hub,
		Tokens:        notificationRepo,
	}
	if fcm := initFCM(ctx, cfg); fcm != nil {
		notifierDeps.Pusher = fcm
	}
	notifier := notify.New(notifierDeps)

	attendanceSvc := attendance.NewService(bookingRepo, telemetryRepo, notifier)
	go attendanceSvc.RunSweeper(ctx, cfg.AttendanceSweep)

	reportsSvc := reports.NewService(telemetryRepo)

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", handlers.Health(db, hub))

	// WebSocket endpoints
	r.Get("/ws/rider/{riderID}", websocket.HandleRiderSocket(ctx, hub, engine))
	r.Get("/ws/admin", websocket.HandleObserverSocket(ctx, hub))

	r.Route("/api", func(r chi.Router) {
		// Demand zones
		r.Get("/zones/status", handlers.GetZoneStatus(registry, engine.Tracker()))
		r.Put("/zones/{id}/weight", handlers.UpdateZoneWeight(registry))

		// Attendance
		r.Post("/attendance/{bookingID}/classify", handlers.ClassifyAttendance(attendanceSvc))
		r.Get("/attendance/{bookingID}", handlers.GetAttendance(attendanceSvc))

		// Rider endpoints
		r.Post("/riders/{riderID}/location", handlers.IngestLocation(engine))
		r.Get("/riders/{riderID}/distance", handlers.GetRiderDistance(reportsSvc))
		r.Post("/riders/{riderID}/fcm-token", handlers.RegisterFCMToken(notificationRepo))

		// Admin dashboard
		r.Get("/admin/live", handlers.GetLiveRiders(engine.Tracker(), hub))
		r.Get("/admin/live/nearby", handlers.GetNearbyRiders(live))
		r.Get("/admin/distance", handlers.GetDistanceLeaderboard(reportsSvc))
		r.Get("/admin/route/{riderID}", handlers.GetRouteToday(reportsSvc))
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("✅ ALL INITIALIZATION COMPLETE")
	log.Printf("🚀 Server starting on http://localhost:%s", cfg.Port)
	log.Println("🔌 Ready to accept requests!")
	log.Println("═══════════════════════════════════════════════════════════════════")

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("Server failed to start", err, "Port: "+cfg.Port)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutdown signal received, draining connections...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Graceful shutdown failed: %v", err)
	}
	log.Println("👋 Server stopped")
}

// seedZones reads ZONES_FILE when set, falling back to the built-in zones
func seedZones(path string) []models.DemandZone {
	if path == "" {
		return zones.DefaultZones()
	}
	zs, err := zones.LoadFile(path)
	if err != nil {
		log.Printf("⚠️  Failed to read zones file %s: %v (using built-in zones)", path, err)
		return zones.DefaultZones()
	}
	log.Printf("✅ %d zones read from %s", len(zs), path)
	return zs
}

// initFCM prefers base64 credentials (cloud deployments) over a file path
func initFCM(ctx context.Context, cfg config.Config) *services.FCMService {
	if !cfg.FirebaseEnabled() {
		log.Println("⚠️  No Firebase credentials configured (push notifications disabled)")
		return nil
	}

	var (
		fcm *services.FCMService
		err error
	)
	if cfg.Firebase.CredentialsBase64 != "" {
		fcm, err = services.NewFCMServiceFromBase64(ctx, cfg.Firebase.CredentialsBase64)
	} else {
		fcm, err = services.NewFCMService(ctx, cfg.Firebase.CredentialsFile)
	}
	if err != nil {
		log.Printf("⚠️  Failed to initialize FCM: %v (push notifications disabled)", err)
		return nil
	}
	log.Println("✅ Firebase Cloud Messaging initialized")
	return fcm
}

func fatal(what string, err error, hints ...string) {
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Printf("❌ FATAL ERROR: %s", what)
	log.Printf("   Error: %v", err)
	for _, h := range hints {
		log.Printf("   %s", h)
	}
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Fatal(err)
}
