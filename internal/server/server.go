package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/cama-app/apiserver/config"
	"github.com/cama-app/apiserver/internal/db"
	"github.com/cama-app/apiserver/internal/handlers"
	"github.com/cama-app/apiserver/internal/mailer"
	"github.com/cama-app/apiserver/internal/mq"
	"github.com/cama-app/apiserver/internal/services"
	"github.com/cama-app/apiserver/internal/storage"
	"github.com/cama-app/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	events     *mq.MQ
}

// New constructs a Server with basic middleware and all routes wired.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	st, local, err := buildStorage(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	events, err := buildMQ(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	otpMailer, err := buildMailer(cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	profileRepo := store.NewProfileRepository(dbConn)
	residentRepo := store.NewResidentRepository(dbConn)
	familyRepo := store.NewFamilyRepository(dbConn)
	rentalRepo := store.NewRentalRepository(dbConn)
	maintenanceRepo := store.NewMaintenanceRepository(dbConn)
	announcementRepo := store.NewAnnouncementRepository(dbConn)
	securityLogRepo := store.NewSecurityLogRepository(dbConn)

	userService := services.NewUserService(userRepo, profileRepo, cfg.Admin)
	profileService := services.NewProfileService(profileRepo, st)
	residentService := services.NewResidentService(residentRepo)
	familyService := services.NewFamilyService(familyRepo)
	rentalService := services.NewRentalService(rentalRepo)
	securityLogService := services.NewSecurityLogService(securityLogRepo)
	maintenanceService := services.NewMaintenanceService(maintenanceRepo, st, events, cfg.Storage.PublicBaseURL)
	announcementService := services.NewAnnouncementService(announcementRepo, events)
	otpService := services.NewOTPService(store.NewMemoryOTPStore(0), otpMailer)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	router.Use(handlers.LimitJSONBody)

	router.Get("/healthz", handlers.Healthz)
	router.Group(func(r chi.Router) {
		handlers.AuthRouter(r, userService, profileService, cfg.JWTSecret)
		handlers.OTPRouter(r, otpService)
		handlers.ResidentRouter(r, residentService, familyService, rentalService, securityLogService)
		handlers.MaintenanceRouter(r, maintenanceService)
		handlers.AnnouncementRouter(r, announcementService)
	})

	// Stored media is served straight off disk when the local backend
	// is active; remote backends front their own URLs.
	if local != nil {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(local.Dir())))
		router.Get("/uploads/*", fileServer.ServeHTTP)
	}

	port := cfg.ServerPort
	if port == 0 {
		port = 5000
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		events:     events,
	}, nil
}

func buildStorage(ctx context.Context, cfg config.Config) (*storage.Storage, *storage.LocalClient, error) {
	switch cfg.Storage.Backend {
	case "minio":
		client, err := storage.NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, nil, err
		}
		if err := client.EnsureBucket(ctx); err != nil {
			return nil, nil, err
		}
		return storage.NewStorage(client), nil, nil
	case "gcs":
		client, err := storage.NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, nil, err
		}
		if err := client.EnsureBucket(ctx); err != nil {
			return nil, nil, err
		}
		return storage.NewStorage(client), nil, nil
	default:
		client, err := storage.NewLocalClient(cfg.Storage.LocalDir)
		if err != nil {
			return nil, nil, err
		}
		if err := client.EnsureBucket(ctx); err != nil {
			return nil, nil, err
		}
		return storage.NewStorage(client), client, nil
	}
}

// buildMailer falls back to the log mailer when no SMTP credentials
// are configured, so OTP codes land in the process log in development.
func buildMailer(cfg config.Config) (mailer.Mailer, error) {
	if cfg.SMTP.Username == "" || cfg.SMTP.Password == "" {
		return mailer.NewLogMailer(), nil
	}
	return mailer.NewSMTPMailer(cfg.SMTP)
}

// buildMQ returns nil when no broker is configured; event publishing is
// optional.
func buildMQ(ctx context.Context, cfg config.Config) (*mq.MQ, error) {
	switch cfg.MQ.Backend {
	case "rabbitmq":
		client, err := mq.NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return mq.New(client), nil
	case "pubsub":
		client, err := mq.NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return mq.New(client), nil
	default:
		return nil, nil
	}
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.events != nil {
		_ = s.events.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}
