package httpd

import (
	"github.com/go-chi/chi/v5"
	"github.com/recordpair/review-service/internal/models"
	"github.com/recordpair/review-service/internal/repository"
	"github.com/recordpair/review-service/internal/service"
	"github.com/rs/zerolog"
)

type Handler struct {
	authService       service.AuthService
	uploadService     service.UploadService
	fileService       service.FileService
	assignmentService service.AssignmentService
	reviewService     service.ReviewService
	adminService      service.AdminService
	baseRepo          *repository.PostgresRepository
	maxUploadSize     int64
	logger            zerolog.Logger
}

func NewHandler(
	authService service.AuthService,
	uploadService service.UploadService,
	fileService service.FileService,
	assignmentService service.AssignmentService,
	reviewService service.ReviewService,
	adminService service.AdminService,
	baseRepo *repository.PostgresRepository,
	maxUploadSize int64,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		authService:       authService,
		uploadService:     uploadService,
		fileService:       fileService,
		assignmentService: assignmentService,
		reviewService:     reviewService,
		adminService:      adminService,
		baseRepo:          baseRepo,
		maxUploadSize:     maxUploadSize,
		logger:            logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	// Health check
	router.Get("/health", h.HealthCheck)
	router.Get("/ready", h.ReadyCheck)

	// Versioned API
	router.Route("/api/v1", func(api chi.Router) {
		// Аутентификация, без токена
		api.Route("/auth", func(r chi.Router) {
			r.Post("/signup", h.Signup)
			r.Post("/login", h.Login)
			r.With(h.Authenticate).Get("/me", h.CurrentUser)
		})

		// Всё остальное — только с токеном
		api.Group(func(r chi.Router) {
			r.Use(h.Authenticate)

			// Загрузка и просмотр пар
			r.Route("/files", func(r chi.Router) {
				r.Post("/upload", h.UploadBatch)
				r.Get("/", h.ListPairs)
				r.Get("/{pair_id}", h.GetPair)
				r.Get("/{pair_id}/content", h.GetTextContent)
				r.Get("/{pair_id}/url", h.GetFileURL)
				r.Get("/{pair_id}/download", h.DownloadFile)
				r.Put("/{pair_id}/sold-status", h.UpdateSoldStatus)
				r.Put("/{pair_id}/review-text", h.SaveReviewText)
				r.Post("/{pair_id}/comments", h.AddComment)
				r.Get("/{pair_id}/comments", h.ListComments)
			})
			r.Delete("/comments/{comment_id}", h.DeleteComment)

			// Менеджерский контур: назначения
			r.Route("/manager", func(r chi.Router) {
				r.Use(h.RequireRoles(models.RoleMonitor, models.RoleAdmin))
				r.Get("/available", h.ListAvailablePairs)
				r.Post("/assign", h.Assign)
				r.Get("/assignments", h.ListAssignments)
				r.Get("/qa-users", h.ListQAUsers)
				r.Get("/agents", h.ListAgents)
			})

			// Контур ревьюера
			r.Route("/review", func(r chi.Router) {
				r.Use(h.RequireRoles(models.RoleQA1, models.RoleQA2))
				r.Get("/assignments", h.ListMyAssignments)
				r.Post("/submit", h.SubmitReview)
				r.Get("/my-reviews", h.ListMyReviews)
			})

			// Админский контур
			r.Route("/admin", func(r chi.Router) {
				r.Use(h.RequireRoles(models.RoleAdmin))
				r.Get("/stats", h.GetStats)
				r.Get("/users", h.ListUsers)
				r.Put("/users/{user_id}/role", h.UpdateUserRole)
				r.Delete("/users/{user_id}", h.DeleteUser)
				r.Delete("/files/{pair_id}", h.DeleteFilePair)
			})
		})
	})
}
