package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/recordpair/review-service/internal/models"
	"github.com/recordpair/review-service/internal/repository"
	"github.com/rs/zerolog"
)

var reviewer = models.Principal{ID: "qa-1", Name: "Reviewer", Role: models.RoleQA1}

func activeAssignment() *models.Assignment {
	return &models.Assignment{
		ID:             "a-1",
		FilePairID:     "p-1",
		AssignedBy:     "m-1",
		AssignedByName: "Manager",
		AssignedTo:     "qa-1",
		TeamTag:        models.RoleQA1,
		Status:         models.AssignmentStatusAssigned,
		AssignedAt:     time.Now().Add(-time.Hour),
	}
}

func validSubmit() *models.SubmitReviewRequest {
	return &models.SubmitReviewRequest{
		AssignmentID: "a-1",
		SoldStatus:   models.SoldStatusSold,
		ReviewStatus: models.ReviewStatusOK,
		Comment:      "всё в порядке",
	}
}

// TestSubmitReview_Success: успешная фиксация вердикта.
func TestSubmitReview_Success(t *testing.T) {
	var submitted *models.Review
	var submittedAssignmentID string
	reviewRepo := &mockReviewRepo{
		SubmitCompletionFn: func(ctx context.Context, review *models.Review, assignmentID string, completedAt time.Time) error {
			submitted = review
			submittedAssignmentID = assignmentID
			return nil
		},
	}
	assignmentRepo := &mockAssignmentRepo{
		GetByIDFn: func(ctx context.Context, id string) (*models.Assignment, error) {
			return activeAssignment(), nil
		},
	}
	publisher := &mockPublisher{}
	svc := NewReviewService(reviewRepo, assignmentRepo, publisher, zerolog.Nop())

	review, err := svc.SubmitReview(context.Background(), validSubmit(), reviewer)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if submitted == nil {
		t.Fatal("ревью не записано")
	}
	if submittedAssignmentID != "a-1" {
		t.Errorf("assignmentID = %q, ожидался a-1", submittedAssignmentID)
	}
	if review.FilePairID != "p-1" {
		t.Errorf("FilePairID = %q, должен браться из назначения", review.FilePairID)
	}
	if review.TeamTag != models.RoleQA1 {
		t.Errorf("TeamTag = %q, должен браться из назначения", review.TeamTag)
	}
	if review.AssignedManagerID != "m-1" || review.AssignedManagerName != "Manager" {
		t.Errorf("менеджер = %q/%q, ожидался снапшот из назначения", review.AssignedManagerID, review.AssignedManagerName)
	}
	if publisher.reviewCompleted != 1 {
		t.Errorf("событий review.completed = %d, ожидалось 1", publisher.reviewCompleted)
	}
}

// TestSubmitReview_MissingFields: обязательные поля проверяются первыми.
func TestSubmitReview_MissingFields(t *testing.T) {
	svc := NewReviewService(&mockReviewRepo{}, &mockAssignmentRepo{}, &mockPublisher{}, zerolog.Nop())

	req := validSubmit()
	req.SoldStatus = ""

	_, err := svc.SubmitReview(context.Background(), req, reviewer)
	if !errors.Is(err, ErrMissingFields) {
		t.Fatalf("err = %v, ожидался ErrMissingFields", err)
	}
}

// TestSubmitReview_InvalidEnums: валидность статусов проверяется до похода в БД.
func TestSubmitReview_InvalidEnums(t *testing.T) {
	svc := NewReviewService(&mockReviewRepo{}, &mockAssignmentRepo{}, &mockPublisher{}, zerolog.Nop())

	req := validSubmit()
	req.SoldStatus = "Maybe"
	if _, err := svc.SubmitReview(context.Background(), req, reviewer); !errors.Is(err, ErrInvalidSoldStatus) {
		t.Errorf("err = %v, ожидался ErrInvalidSoldStatus", err)
	}

	req = validSubmit()
	req.ReviewStatus = "Great"
	if _, err := svc.SubmitReview(context.Background(), req, reviewer); !errors.Is(err, ErrInvalidReviewStatus) {
		t.Errorf("err = %v, ожидался ErrInvalidReviewStatus", err)
	}
}

// TestSubmitReview_NotFound: несуществующее назначение.
func TestSubmitReview_NotFound(t *testing.T) {
	assignmentRepo := &mockAssignmentRepo{
		GetByIDFn: func(ctx context.Context, id string) (*models.Assignment, error) {
			return nil, repository.ErrNotFound
		},
	}
	svc := NewReviewService(&mockReviewRepo{}, assignmentRepo, &mockPublisher{}, zerolog.Nop())

	_, err := svc.SubmitReview(context.Background(), validSubmit(), reviewer)
	if !errors.Is(err, ErrAssignmentNotFound) {
		t.Fatalf("err = %v, ожидался ErrAssignmentNotFound", err)
	}
}

// TestSubmitReview_NotYourAssignment: чужое назначение отклоняется.
func TestSubmitReview_NotYourAssignment(t *testing.T) {
	assignmentRepo := &mockAssignmentRepo{
		GetByIDFn: func(ctx context.Context, id string) (*models.Assignment, error) {
			a := activeAssignment()
			a.AssignedTo = "qa-other"
			return a, nil
		},
	}
	svc := NewReviewService(&mockReviewRepo{}, assignmentRepo, &mockPublisher{}, zerolog.Nop())

	_, err := svc.SubmitReview(context.Background(), validSubmit(), reviewer)
	if !errors.Is(err, ErrNotYourAssignment) {
		t.Fatalf("err = %v, ожидался ErrNotYourAssignment", err)
	}
}

// TestSubmitReview_AlreadyCompleted: повторная отправка по завершённому назначению.
func TestSubmitReview_AlreadyCompleted(t *testing.T) {
	assignmentRepo := &mockAssignmentRepo{
		GetByIDFn: func(ctx context.Context, id string) (*models.Assignment, error) {
			a := activeAssignment()
			a.Status = models.AssignmentStatusCompleted
			return a, nil
		},
	}
	svc := NewReviewService(&mockReviewRepo{}, assignmentRepo, &mockPublisher{}, zerolog.Nop())

	_, err := svc.SubmitReview(context.Background(), validSubmit(), reviewer)
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("err = %v, ожидался ErrAlreadyCompleted", err)
	}
}

// TestSubmitReview_DoubleSubmitRace: конкурентная отправка проигрывает
// на уровне транзакции и превращается в конфликт.
func TestSubmitReview_DoubleSubmitRace(t *testing.T) {
	reviewRepo := &mockReviewRepo{
		SubmitCompletionFn: func(ctx context.Context, review *models.Review, assignmentID string, completedAt time.Time) error {
			return repository.ErrDuplicate
		},
	}
	assignmentRepo := &mockAssignmentRepo{
		GetByIDFn: func(ctx context.Context, id string) (*models.Assignment, error) {
			return activeAssignment(), nil
		},
	}
	svc := NewReviewService(reviewRepo, assignmentRepo, &mockPublisher{}, zerolog.Nop())

	_, err := svc.SubmitReview(context.Background(), validSubmit(), reviewer)
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("err = %v, ожидался ErrAlreadyCompleted", err)
	}
}

// TestSubmitReview_PublishFailureTolerated: сбой брокера не откатывает ревью.
func TestSubmitReview_PublishFailureTolerated(t *testing.T) {
	reviewRepo := &mockReviewRepo{
		SubmitCompletionFn: func(ctx context.Context, review *models.Review, assignmentID string, completedAt time.Time) error {
			return nil
		},
	}
	assignmentRepo := &mockAssignmentRepo{
		GetByIDFn: func(ctx context.Context, id string) (*models.Assignment, error) {
			return activeAssignment(), nil
		},
	}
	svc := NewReviewService(reviewRepo, assignmentRepo, &mockPublisher{failPublish: true}, zerolog.Nop())

	review, err := svc.SubmitReview(context.Background(), validSubmit(), reviewer)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if review == nil {
		t.Fatal("ревью должно вернуться несмотря на сбой публикации")
	}
}

// TestSubmitReview_PendingAccepted: Pending — валидный вердикт.
func TestSubmitReview_PendingAccepted(t *testing.T) {
	reviewRepo := &mockReviewRepo{
		SubmitCompletionFn: func(ctx context.Context, review *models.Review, assignmentID string, completedAt time.Time) error {
			return nil
		},
	}
	assignmentRepo := &mockAssignmentRepo{
		GetByIDFn: func(ctx context.Context, id string) (*models.Assignment, error) {
			return activeAssignment(), nil
		},
	}
	svc := NewReviewService(reviewRepo, assignmentRepo, &mockPublisher{}, zerolog.Nop())

	req := validSubmit()
	req.ReviewStatus = models.ReviewStatusPending

	if _, err := svc.SubmitReview(context.Background(), req, reviewer); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
}
