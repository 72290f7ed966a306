package app

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/recordpair/review-service/internal/config"
	"github.com/recordpair/review-service/internal/delivery/httpd"
	"github.com/recordpair/review-service/internal/repository"
	"github.com/recordpair/review-service/internal/service"
	"github.com/recordpair/review-service/internal/service/integration"
	"github.com/rs/zerolog"
)

type App struct {
	server    *http.Server
	publisher integration.EventPublisher
	logger    zerolog.Logger
	config    *config.Config
	db        *sql.DB
}

func New(cfg *config.Config, log zerolog.Logger, db *sql.DB) (*App, error) {
	// Хранилище
	minioRepo, err := repository.NewMinIORepository(
		cfg.MinIO.Endpoint,
		cfg.MinIO.AccessKey,
		cfg.MinIO.SecretKey,
		cfg.Storage.BucketName,
		cfg.Storage.Region,
		cfg.MinIO.UseSSL,
		cfg.MinIO.Timeout,
		log,
	)
	if err != nil {
		return nil, err
	}

	// Публикация событий. Недоступный брокер не валит сервис:
	// события вторичны относительно основного workflow.
	var publisher integration.EventPublisher
	if cfg.RabbitMQ.Enabled {
		publisher, err = integration.NewRabbitMQPublisher(
			cfg.RabbitMQ.URL,
			cfg.RabbitMQ.Exchange,
			cfg.RabbitMQ.RoutingKey,
			cfg.RabbitMQ.QueueName,
			log,
		)
		if err != nil {
			log.Warn().Err(err).Msg("RabbitMQ unavailable, events disabled")
			publisher = integration.NewNoopPublisher()
		}
	} else {
		publisher = integration.NewNoopPublisher()
	}

	// Репозитории
	baseRepo := repository.NewPostgresRepository(db, log)
	pairRepo := repository.NewFilePairRepository(db, log)
	assignmentRepo := repository.NewAssignmentRepository(db, log)
	reviewRepo := repository.NewReviewRepository(db, log)
	userRepo := repository.NewUserRepository(db, log)
	commentRepo := repository.NewCommentRepository(db, log)

	// Сервисы
	authService := service.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, log)
	uploadService := service.NewUploadService(pairRepo, minioRepo, publisher, log)
	fileService := service.NewFileService(pairRepo, commentRepo, minioRepo, cfg.Storage.PresignedTTL, log)
	assignmentService := service.NewAssignmentService(assignmentRepo, pairRepo, userRepo, log)
	reviewService := service.NewReviewService(reviewRepo, assignmentRepo, publisher, log)
	adminService := service.NewAdminService(userRepo, pairRepo, assignmentRepo, reviewRepo, minioRepo, log)

	handler := httpd.NewHandler(
		authService,
		uploadService,
		fileService,
		assignmentService,
		reviewService,
		adminService,
		baseRepo,
		cfg.Server.MaxUploadSize,
		log,
	)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(cfg.Server.WriteTimeout))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		server:    server,
		publisher: publisher,
		logger:    log,
		config:    cfg,
		db:        db,
	}, nil
}

func (a *App) Run() error {
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	if err := a.publisher.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to close event publisher")
	}
	return a.server.Shutdown(ctx)
}
