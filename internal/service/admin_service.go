package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/recordpair/review-service/internal/models"
	"github.com/recordpair/review-service/internal/repository"
	"github.com/rs/zerolog"
)

const recentLimit = 20

type AdminService interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
	ListUsers(ctx context.Context) ([]*models.UserDTO, error)
	ListAgents(ctx context.Context) ([]*models.UserDTO, error)
	UpdateUserRole(ctx context.Context, userID string, role models.Role) (*models.UserDTO, error)
	DeleteUser(ctx context.Context, userID string, actor models.Principal) error
	DeleteFilePair(ctx context.Context, pairID string) error
}

type adminService struct {
	userRepo       repository.UserRepository
	pairRepo       repository.FilePairRepository
	assignmentRepo repository.AssignmentRepository
	reviewRepo     repository.ReviewRepository
	storageRepo    repository.StorageRepository
	logger         zerolog.Logger
}

func NewAdminService(
	userRepo repository.UserRepository,
	pairRepo repository.FilePairRepository,
	assignmentRepo repository.AssignmentRepository,
	reviewRepo repository.ReviewRepository,
	storageRepo repository.StorageRepository,
	logger zerolog.Logger,
) AdminService {
	return &adminService{
		userRepo:       userRepo,
		pairRepo:       pairRepo,
		assignmentRepo: assignmentRepo,
		reviewRepo:     reviewRepo,
		storageRepo:    storageRepo,
		logger:         logger,
	}
}

// Stats собирает сводку для панели: счётчики и последние события.
func (s *adminService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	userCount, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	total, processing, completed, err := s.pairRepo.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count file pairs: %w", err)
	}

	recentUploads, err := s.pairRepo.Recent(ctx, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent uploads: %w", err)
	}

	recentAssignments, err := s.assignmentRepo.Recent(ctx, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent assignments: %w", err)
	}

	recentReviews, err := s.reviewRepo.Recent(ctx, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent reviews: %w", err)
	}

	return &models.DashboardStats{
		TotalUsers:        userCount,
		TotalFilePairs:    total,
		ProcessingCount:   processing,
		CompletedCount:    completed,
		RecentUploads:     recentUploads,
		RecentAssignments: recentAssignments,
		RecentReviews:     recentReviews,
	}, nil
}

func (s *adminService) ListUsers(ctx context.Context) ([]*models.UserDTO, error) {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return toDTOs(users), nil
}

// ListAgents — справочник агентов для менеджеров.
func (s *adminService) ListAgents(ctx context.Context) ([]*models.UserDTO, error) {
	users, err := s.userRepo.ListByRoles(ctx, []models.Role{models.RoleAgent})
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}

	return toDTOs(users), nil
}

func (s *adminService) UpdateUserRole(ctx context.Context, userID string, role models.Role) (*models.UserDTO, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Str("role", role.String()).Msg("User role updated")

	return user.ToDTO(), nil
}

// DeleteUser удаляет учётную запись. Удалить самого себя нельзя.
func (s *adminService) DeleteUser(ctx context.Context, userID string, actor models.Principal) error {
	if userID == actor.ID {
		return ErrAccessDenied
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Str("actor_id", actor.ID).Msg("User deleted")

	return nil
}

// DeleteFilePair удаляет запись пары вместе с назначениями и ревью
// (каскад в БД). Объекты в хранилище чистятся best-effort: осиротевший
// blob хуже, чем лишний запрос на удаление.
func (s *adminService) DeleteFilePair(ctx context.Context, pairID string) error {
	pair, err := s.pairRepo.GetByID(ctx, pairID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPairNotFound
		}
		return fmt.Errorf("failed to load file pair: %w", err)
	}

	for _, key := range []*string{pair.AudioKey, pair.TextKey, pair.ReviewTextKey} {
		if key != nil {
			s.storageRepo.Delete(ctx, *key)
		}
	}

	if err := s.pairRepo.Delete(ctx, pairID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPairNotFound
		}
		return fmt.Errorf("failed to delete file pair: %w", err)
	}

	s.logger.Info().Str("file_pair_id", pairID).Msg("File pair deleted")

	return nil
}

func toDTOs(users []*models.User) []*models.UserDTO {
	payload := make([]*models.UserDTO, 0, len(users))
	for _, user := range users {
		payload = append(payload, user.ToDTO())
	}
	return payload
}
