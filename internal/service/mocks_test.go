package service

import (
	"context"
	"time"

	"github.com/recordpair/review-service/internal/models"
)

// Моки репозиториев с функциональными полями: тест подставляет
// только то, что ему нужно, остальное паникует при вызове.

type mockFilePairRepo struct {
	CreateFn           func(ctx context.Context, pair *models.FilePair) error
	GetByIDFn          func(ctx context.Context, id string) (*models.FilePair, error)
	ListFn             func(ctx context.Context, filter models.PairFilter) ([]*models.FilePair, int, error)
	UpdateSoldStatusFn func(ctx context.Context, id string, status models.SoldStatus) error
	SetReviewTextKeyFn func(ctx context.Context, id, key string) error
	DeleteFn           func(ctx context.Context, id string) error
	CountsFn           func(ctx context.Context) (int, int, int, error)
	RecentFn           func(ctx context.Context, limit int) ([]*models.FilePair, error)
}

func (m *mockFilePairRepo) Create(ctx context.Context, pair *models.FilePair) error {
	return m.CreateFn(ctx, pair)
}
func (m *mockFilePairRepo) GetByID(ctx context.Context, id string) (*models.FilePair, error) {
	return m.GetByIDFn(ctx, id)
}
func (m *mockFilePairRepo) List(ctx context.Context, filter models.PairFilter) ([]*models.FilePair, int, error) {
	return m.ListFn(ctx, filter)
}
func (m *mockFilePairRepo) UpdateSoldStatus(ctx context.Context, id string, status models.SoldStatus) error {
	return m.UpdateSoldStatusFn(ctx, id, status)
}
func (m *mockFilePairRepo) SetReviewTextKey(ctx context.Context, id, key string) error {
	return m.SetReviewTextKeyFn(ctx, id, key)
}
func (m *mockFilePairRepo) Delete(ctx context.Context, id string) error {
	return m.DeleteFn(ctx, id)
}
func (m *mockFilePairRepo) Counts(ctx context.Context) (int, int, int, error) {
	return m.CountsFn(ctx)
}
func (m *mockFilePairRepo) Recent(ctx context.Context, limit int) ([]*models.FilePair, error) {
	return m.RecentFn(ctx, limit)
}

type mockAssignmentRepo struct {
	CreateFn               func(ctx context.Context, assignment *models.Assignment) error
	GetByIDFn              func(ctx context.Context, id string) (*models.Assignment, error)
	GetActiveByPairFn      func(ctx context.Context, filePairID string) (*models.Assignment, error)
	ReassignFn             func(ctx context.Context, assignment *models.Assignment) error
	ListWithPairFn         func(ctx context.Context, filter models.AssignmentFilter) ([]*models.AssignmentWithPair, int, error)
	ListActiveByReviewerFn func(ctx context.Context, reviewerID string) ([]*models.AssignmentWithPair, error)
	RecentFn               func(ctx context.Context, limit int) ([]*models.AssignmentWithPair, error)
}

func (m *mockAssignmentRepo) Create(ctx context.Context, assignment *models.Assignment) error {
	return m.CreateFn(ctx, assignment)
}
func (m *mockAssignmentRepo) GetByID(ctx context.Context, id string) (*models.Assignment, error) {
	return m.GetByIDFn(ctx, id)
}
func (m *mockAssignmentRepo) GetActiveByPair(ctx context.Context, filePairID string) (*models.Assignment, error) {
	return m.GetActiveByPairFn(ctx, filePairID)
}
func (m *mockAssignmentRepo) Reassign(ctx context.Context, assignment *models.Assignment) error {
	return m.ReassignFn(ctx, assignment)
}
func (m *mockAssignmentRepo) ListWithPair(ctx context.Context, filter models.AssignmentFilter) ([]*models.AssignmentWithPair, int, error) {
	return m.ListWithPairFn(ctx, filter)
}
func (m *mockAssignmentRepo) ListActiveByReviewer(ctx context.Context, reviewerID string) ([]*models.AssignmentWithPair, error) {
	return m.ListActiveByReviewerFn(ctx, reviewerID)
}
func (m *mockAssignmentRepo) Recent(ctx context.Context, limit int) ([]*models.AssignmentWithPair, error) {
	return m.RecentFn(ctx, limit)
}

type mockReviewRepo struct {
	SubmitCompletionFn func(ctx context.Context, review *models.Review, assignmentID string, completedAt time.Time) error
	ListByReviewerFn   func(ctx context.Context, reviewerID string) ([]*models.ReviewWithPair, error)
	RecentFn           func(ctx context.Context, limit int) ([]*models.Review, error)
}

func (m *mockReviewRepo) SubmitCompletion(ctx context.Context, review *models.Review, assignmentID string, completedAt time.Time) error {
	return m.SubmitCompletionFn(ctx, review, assignmentID, completedAt)
}
func (m *mockReviewRepo) ListByReviewer(ctx context.Context, reviewerID string) ([]*models.ReviewWithPair, error) {
	return m.ListByReviewerFn(ctx, reviewerID)
}
func (m *mockReviewRepo) Recent(ctx context.Context, limit int) ([]*models.Review, error) {
	return m.RecentFn(ctx, limit)
}

type mockUserRepo struct {
	CreateFn      func(ctx context.Context, user *models.User) error
	GetByIDFn     func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFn  func(ctx context.Context, email string) (*models.User, error)
	ListByRolesFn func(ctx context.Context, roles []models.Role) ([]*models.User, error)
	ListAllFn     func(ctx context.Context) ([]*models.User, error)
	UpdateRoleFn  func(ctx context.Context, id string, role models.Role) error
	DeleteFn      func(ctx context.Context, id string) error
	CountFn       func(ctx context.Context) (int, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	return m.CreateFn(ctx, user)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return m.GetByIDFn(ctx, id)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.GetByEmailFn(ctx, email)
}
func (m *mockUserRepo) ListByRoles(ctx context.Context, roles []models.Role) ([]*models.User, error) {
	return m.ListByRolesFn(ctx, roles)
}
func (m *mockUserRepo) ListAll(ctx context.Context) ([]*models.User, error) {
	return m.ListAllFn(ctx)
}
func (m *mockUserRepo) UpdateRole(ctx context.Context, id string, role models.Role) error {
	return m.UpdateRoleFn(ctx, id, role)
}
func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	return m.DeleteFn(ctx, id)
}
func (m *mockUserRepo) Count(ctx context.Context) (int, error) {
	return m.CountFn(ctx)
}

type mockCommentRepo struct {
	AddFn        func(ctx context.Context, comment *models.Comment) error
	GetByIDFn    func(ctx context.Context, id string) (*models.Comment, error)
	ListByPairFn func(ctx context.Context, filePairID string) ([]*models.Comment, error)
	DeleteFn     func(ctx context.Context, id string) error
}

func (m *mockCommentRepo) Add(ctx context.Context, comment *models.Comment) error {
	return m.AddFn(ctx, comment)
}
func (m *mockCommentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	return m.GetByIDFn(ctx, id)
}
func (m *mockCommentRepo) ListByPair(ctx context.Context, filePairID string) ([]*models.Comment, error) {
	return m.ListByPairFn(ctx, filePairID)
}
func (m *mockCommentRepo) Delete(ctx context.Context, id string) error {
	return m.DeleteFn(ctx, id)
}

// mockStorage запоминает залитые и удалённые ключи.
type mockStorage struct {
	PutFn          func(ctx context.Context, key string, data []byte, contentType string) error
	GetFn          func(ctx context.Context, key string) ([]byte, error)
	PresignedURLFn func(ctx context.Context, key string, ttl time.Duration) (string, error)

	putKeys     []string
	deletedKeys []string
}

func (m *mockStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if m.PutFn != nil {
		if err := m.PutFn(ctx, key, data, contentType); err != nil {
			return err
		}
	}
	m.putKeys = append(m.putKeys, key)
	return nil
}
func (m *mockStorage) Get(ctx context.Context, key string) ([]byte, error) {
	return m.GetFn(ctx, key)
}
func (m *mockStorage) Delete(ctx context.Context, key string) {
	m.deletedKeys = append(m.deletedKeys, key)
}
func (m *mockStorage) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return m.PresignedURLFn(ctx, key, ttl)
}

// mockPublisher считает опубликованные события.
type mockPublisher struct {
	pairCreated     int
	reviewCompleted int
	failPublish     bool
}

func (m *mockPublisher) PublishPairCreated(ctx context.Context, event *models.PairCreatedEvent) error {
	m.pairCreated++
	if m.failPublish {
		return context.DeadlineExceeded
	}
	return nil
}
func (m *mockPublisher) PublishReviewCompleted(ctx context.Context, event *models.ReviewCompletedEvent) error {
	m.reviewCompleted++
	if m.failPublish {
		return context.DeadlineExceeded
	}
	return nil
}
func (m *mockPublisher) Close() error { return nil }
