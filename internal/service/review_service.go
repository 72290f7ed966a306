package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/recordpair/review-service/internal/models"
	"github.com/recordpair/review-service/internal/repository"
	"github.com/recordpair/review-service/internal/service/integration"
	"github.com/rs/zerolog"
)

type ReviewService interface {
	SubmitReview(ctx context.Context, req *models.SubmitReviewRequest, reviewer models.Principal) (*models.Review, error)
	ListMyReviews(ctx context.Context, reviewerID string) ([]*models.ReviewWithPair, error)
}

type reviewService struct {
	reviewRepo     repository.ReviewRepository
	assignmentRepo repository.AssignmentRepository
	publisher      integration.EventPublisher
	logger         zerolog.Logger
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	assignmentRepo repository.AssignmentRepository,
	publisher integration.EventPublisher,
	logger zerolog.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo:     reviewRepo,
		assignmentRepo: assignmentRepo,
		publisher:      publisher,
		logger:         logger,
	}
}

// SubmitReview фиксирует вердикт и завершает назначение одной транзакцией.
// Порядок проверок: поля → валидность статусов → существование назначения →
// принадлежность ревьюеру → назначение ещё активно.
func (s *reviewService) SubmitReview(ctx context.Context, req *models.SubmitReviewRequest, reviewer models.Principal) (*models.Review, error) {
	if req.AssignmentID == "" || req.SoldStatus == "" || req.ReviewStatus == "" {
		return nil, ErrMissingFields
	}
	if !req.SoldStatus.Valid() {
		return nil, ErrInvalidSoldStatus
	}
	if !req.ReviewStatus.Valid() {
		return nil, ErrInvalidReviewStatus
	}

	assignment, err := s.assignmentRepo.GetByID(ctx, req.AssignmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to load assignment: %w", err)
	}

	if assignment.AssignedTo != reviewer.ID {
		return nil, ErrNotYourAssignment
	}
	if assignment.Status != models.AssignmentStatusAssigned {
		return nil, ErrAlreadyCompleted
	}

	now := time.Now()
	review := &models.Review{
		ID:                  uuid.New().String(),
		FilePairID:          assignment.FilePairID,
		ReviewerID:          reviewer.ID,
		ReviewerName:        reviewer.Name,
		TeamTag:             assignment.TeamTag,
		Status:              req.ReviewStatus,
		SoldStatus:          req.SoldStatus,
		Comment:             req.Comment,
		AssignedManagerID:   assignment.AssignedBy,
		AssignedManagerName: assignment.AssignedByName,
		ReviewedAt:          now,
	}

	if err := s.reviewRepo.SubmitCompletion(ctx, review, assignment.ID, now); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Повторная отправка проиграла гонку: назначение уже завершено.
			return nil, ErrAlreadyCompleted
		}
		return nil, fmt.Errorf("failed to submit review: %w", err)
	}

	s.logger.Info().
		Str("review_id", review.ID).
		Str("file_pair_id", review.FilePairID).
		Str("reviewer_id", reviewer.ID).
		Str("review_status", review.Status.String()).
		Str("sold_status", review.SoldStatus.String()).
		Msg("Review submitted")

	// Событие публикуется best-effort, сбой брокера не откатывает ревью.
	event := &models.ReviewCompletedEvent{
		ReviewID:     review.ID,
		FilePairID:   review.FilePairID,
		ReviewerID:   review.ReviewerID,
		TeamTag:      review.TeamTag.String(),
		ReviewStatus: review.Status.String(),
		SoldStatus:   review.SoldStatus.String(),
		Timestamp:    review.ReviewedAt.UnixMilli(),
	}
	if err := s.publisher.PublishReviewCompleted(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("review_id", review.ID).Msg("Failed to publish review completed event")
	}

	return review, nil
}

func (s *reviewService) ListMyReviews(ctx context.Context, reviewerID string) ([]*models.ReviewWithPair, error) {
	items, err := s.reviewRepo.ListByReviewer(ctx, reviewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	return items, nil
}
