package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/recordpair/review-service/internal/models"
	"github.com/recordpair/review-service/internal/repository"
	"github.com/rs/zerolog"
)

type AssignmentService interface {
	AssignOrReassign(ctx context.Context, req *models.AssignRequest, manager models.Principal) (*models.AssignResponse, error)
	ListAvailablePairs(ctx context.Context, filter models.PairFilter) (*models.PairsResponse, error)
	ListAssignments(ctx context.Context, filter models.AssignmentFilter) (*models.AssignmentsResponse, error)
	ListQAUsers(ctx context.Context) ([]*models.UserDTO, error)
	ListActiveForReviewer(ctx context.Context, reviewerID string) ([]*models.AssignmentWithPair, error)
}

type assignmentService struct {
	assignmentRepo repository.AssignmentRepository
	pairRepo       repository.FilePairRepository
	userRepo       repository.UserRepository
	logger         zerolog.Logger
}

func NewAssignmentService(
	assignmentRepo repository.AssignmentRepository,
	pairRepo repository.FilePairRepository,
	userRepo repository.UserRepository,
	logger zerolog.Logger,
) AssignmentService {
	return &assignmentService{
		assignmentRepo: assignmentRepo,
		pairRepo:       pairRepo,
		userRepo:       userRepo,
		logger:         logger,
	}
}

// AssignOrReassign переводит пару Unassigned → Assigned либо перебрасывает
// активное назначение на другого ревьюера. Завершённая пара заблокирована
// навсегда: новых назначений у неё быть не может.
func (s *assignmentService) AssignOrReassign(ctx context.Context, req *models.AssignRequest, manager models.Principal) (*models.AssignResponse, error) {
	if req.FilePairID == "" || req.QAUserID == "" {
		return nil, ErrMissingFields
	}

	pair, err := s.pairRepo.GetByID(ctx, req.FilePairID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPairNotFound
		}
		return nil, fmt.Errorf("failed to load file pair: %w", err)
	}

	qaUser, err := s.userRepo.GetByID(ctx, req.QAUserID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to load reviewer: %w", err)
	}
	if qaUser == nil || !qaUser.Role.IsQA() {
		return nil, ErrNotQAUser
	}

	if pair.Status == models.PairStatusCompleted {
		return nil, ErrCompletedLocked
	}

	active, err := s.assignmentRepo.GetActiveByPair(ctx, req.FilePairID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check active assignment: %w", err)
	}

	// Переназначение: мутируем ту же строку, новая не создаётся.
	if active != nil {
		active.AssignedTo = qaUser.ID
		active.AssignedToName = qaUser.Name
		active.TeamTag = qaUser.Role
		active.AssignedBy = manager.ID
		active.AssignedByName = manager.Name
		active.AssignedAt = time.Now()

		if err := s.assignmentRepo.Reassign(ctx, active); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// Назначение успело завершиться между чтением и записью.
				return nil, ErrAlreadyCompleted
			}
			return nil, fmt.Errorf("failed to reassign: %w", err)
		}

		s.logger.Info().
			Str("file_pair_id", pair.ID).
			Str("assigned_to", qaUser.ID).
			Str("assigned_by", manager.ID).
			Msg("File pair reassigned")

		return &models.AssignResponse{Assignment: active, Mode: models.AssignModeReassigned}, nil
	}

	assignment := &models.Assignment{
		ID:             uuid.New().String(),
		FilePairID:     pair.ID,
		AssignedBy:     manager.ID,
		AssignedByName: manager.Name,
		AssignedTo:     qaUser.ID,
		AssignedToName: qaUser.Name,
		TeamTag:        qaUser.Role,
		Status:         models.AssignmentStatusAssigned,
		AssignedAt:     time.Now(),
	}

	if err := s.assignmentRepo.Create(ctx, assignment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Конкурентный менеджер выиграл вставку активного назначения.
			return nil, ErrAlreadyAssigned
		}
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	s.logger.Info().
		Str("file_pair_id", pair.ID).
		Str("assigned_to", qaUser.ID).
		Str("assigned_by", manager.ID).
		Str("team_tag", qaUser.Role.String()).
		Msg("File pair assigned")

	return &models.AssignResponse{Assignment: assignment, Mode: models.AssignModeCreated}, nil
}

// ListAvailablePairs возвращает пары без активного назначения.
// По умолчанию показываются только пары в обработке.
func (s *assignmentService) ListAvailablePairs(ctx context.Context, filter models.PairFilter) (*models.PairsResponse, error) {
	if filter.Status == "" {
		filter.Status = models.PairStatusProcessing
	}
	filter.Unassigned = true

	pairs, total, err := s.pairRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list available pairs: %w", err)
	}

	return &models.PairsResponse{
		Items:      pairs,
		Pagination: paginate(total, filter.Page, filter.Limit),
	}, nil
}

func (s *assignmentService) ListAssignments(ctx context.Context, filter models.AssignmentFilter) (*models.AssignmentsResponse, error) {
	if filter.TeamTag != "" && !filter.TeamTag.IsQA() {
		filter.TeamTag = ""
	}

	items, total, err := s.assignmentRepo.ListWithPair(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	return &models.AssignmentsResponse{
		Items:      items,
		Pagination: paginate(total, filter.Page, filter.Limit),
	}, nil
}

func (s *assignmentService) ListQAUsers(ctx context.Context) ([]*models.UserDTO, error) {
	users, err := s.userRepo.ListByRoles(ctx, models.QATeams)
	if err != nil {
		return nil, fmt.Errorf("failed to list QA users: %w", err)
	}

	return toDTOs(users), nil
}

func (s *assignmentService) ListActiveForReviewer(ctx context.Context, reviewerID string) ([]*models.AssignmentWithPair, error) {
	items, err := s.assignmentRepo.ListActiveByReviewer(ctx, reviewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviewer assignments: %w", err)
	}

	return items, nil
}

func paginate(total, page, limit int) models.Pagination {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	pages := (total + limit - 1) / limit
	if pages == 0 {
		pages = 1
	}

	return models.Pagination{Total: total, Page: page, Pages: pages}
}
