package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	agendaHandler "github.com/clinigo/agenda-api/internal/handler/agenda"
	loginHandler "github.com/clinigo/agenda-api/internal/handler/auth"
	healthHandler "github.com/clinigo/agenda-api/internal/handler/health"
	patientHandler "github.com/clinigo/agenda-api/internal/handler/patient"
	practitionerHandler "github.com/clinigo/agenda-api/internal/handler/practitioner"

	"github.com/clinigo/agenda-api/internal/config"
	"github.com/clinigo/agenda-api/internal/email"
	"github.com/clinigo/agenda-api/internal/middleware"
	"github.com/clinigo/agenda-api/internal/repository/postgres"
	"github.com/clinigo/agenda-api/internal/router"
	"github.com/clinigo/agenda-api/internal/schedule"
	agendaService "github.com/clinigo/agenda-api/internal/service/agenda"
	auditService "github.com/clinigo/agenda-api/internal/service/audit"
	authService "github.com/clinigo/agenda-api/internal/service/auth"
	patientService "github.com/clinigo/agenda-api/internal/service/patient"
	practitionerService "github.com/clinigo/agenda-api/internal/service/practitioner"
	"github.com/clinigo/agenda-api/pkg/auth"
	"github.com/clinigo/agenda-api/pkg/locker"
	"github.com/clinigo/agenda-api/pkg/logger"
	"github.com/clinigo/agenda-api/pkg/metrics"
	"github.com/clinigo/agenda-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)
	m := metrics.NewMetrics("agenda_api")

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	appointmentRepo := postgres.NewAppointmentRepository(db, appLogger, m)
	recordRepo := postgres.NewClinicalRecordRepository(db)
	practitionerRepo := postgres.NewPractitionerRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	userRepo := postgres.NewUserRepository(db)
	auditRepo := postgres.NewAuditRepository(db)

	// Per-appointment locking is in-process unless Redis is configured,
	// in which case the lock is shared across instances.
	var locks locker.Locker = locker.NewKeyedLocker()
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		lockTTL := time.Duration(cfg.Agenda.LockTTLSeconds) * time.Second
		if lockTTL <= 0 {
			lockTTL = 10 * time.Second
		}
		locks = locker.NewRedisLocker(client, lockTTL)
	}

	// Services
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	hasher := security.NewHasher(0)
	authSvc := authService.NewService(userRepo, hasher, jwtSvc)
	practitionerSvc := practitionerService.NewService(practitionerRepo)
	patientSvc := patientService.NewService(patientRepo)
	auditor := auditService.NewService(auditRepo, appLogger)
	mailer := email.NewSMTPService(cfg.SMTP)

	agendaSvc := agendaService.NewService(
		appointmentRepo,
		recordRepo,
		patientRepo,
		practitionerRepo,
		schedule.NewGenerator(appLogger),
		locks,
		auditor,
		mailer,
		m,
		appLogger,
		&agendaService.Options{
			GridCacheTTL: time.Duration(cfg.Agenda.GridCacheSeconds) * time.Second,
		},
	)

	// Handlers
	authMiddleware := middleware.NewAuthMiddleware(authSvc)
	agendaH := agendaHandler.NewHandler(agendaSvc)
	loginH := loginHandler.NewHandler(authSvc)
	healthH := healthHandler.NewHandler(db)
	practitionerH := practitionerHandler.NewHandler(practitionerSvc, authMiddleware)
	patientH := patientHandler.NewHandler(patientSvc)

	r := router.NewRouter(
		authMiddleware,
		loginH,
		healthH,
		agendaH,
		practitionerH,
		patientH,
		router.Config{
			RateLimit:     rate.Limit(50),
			RateBurst:     100,
			MetricsPrefix: "agenda_api_http",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
