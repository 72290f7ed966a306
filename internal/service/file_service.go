package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/recordpair/review-service/internal/models"
	"github.com/recordpair/review-service/internal/repository"
	"github.com/rs/zerolog"
)

// ReviewTextSuffix — расширение отредактированного текста ревьюера.
// Ключи оригинала и правки различаются только суффиксом.
const ReviewTextSuffix = ".F.txt"

type FileService interface {
	ListPairs(ctx context.Context, filter models.PairFilter, viewer models.Principal) (*models.PairsResponse, error)
	GetPair(ctx context.Context, pairID string, viewer models.Principal) (*models.FilePair, error)
	GetTextContent(ctx context.Context, pairID string, viewer models.Principal) (*models.TextContentResponse, error)
	SaveReviewText(ctx context.Context, pairID, content string, editor models.Principal) (string, error)
	FileURL(ctx context.Context, pairID, fileType string, viewer models.Principal) (*models.FileURLResponse, error)
	Download(ctx context.Context, pairID, fileType string, viewer models.Principal) ([]byte, string, string, error)
	UpdateSoldStatus(ctx context.Context, pairID string, status models.SoldStatus, actor models.Principal) error
	AddComment(ctx context.Context, pairID, message string, author models.Principal) (*models.Comment, error)
	ListComments(ctx context.Context, pairID string, viewer models.Principal) ([]*models.Comment, error)
	DeleteComment(ctx context.Context, commentID string, actor models.Principal) error
}

type fileService struct {
	pairRepo     repository.FilePairRepository
	commentRepo  repository.CommentRepository
	storageRepo  repository.StorageRepository
	presignedTTL time.Duration
	logger       zerolog.Logger
}

func NewFileService(
	pairRepo repository.FilePairRepository,
	commentRepo repository.CommentRepository,
	storageRepo repository.StorageRepository,
	presignedTTL time.Duration,
	logger zerolog.Logger,
) FileService {
	return &fileService{
		pairRepo:     pairRepo,
		commentRepo:  commentRepo,
		storageRepo:  storageRepo,
		presignedTTL: presignedTTL,
		logger:       logger,
	}
}

// canViewPair: владелец видит свои пары, QA/Monitor/Admin — все.
func canViewPair(pair *models.FilePair, viewer models.Principal) bool {
	if pair.UploaderID == viewer.ID {
		return true
	}
	switch viewer.Role {
	case models.RoleAdmin, models.RoleMonitor:
		return true
	}
	return viewer.Role.IsQA()
}

// ListPairs: обычный пользователь видит только свои загрузки,
// остальные роли — весь список.
func (s *fileService) ListPairs(ctx context.Context, filter models.PairFilter, viewer models.Principal) (*models.PairsResponse, error) {
	if viewer.Role == models.RoleUser || viewer.Role == models.RoleAgent {
		filter.UploaderID = viewer.ID
	}

	pairs, total, err := s.pairRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list file pairs: %w", err)
	}

	return &models.PairsResponse{
		Items:      pairs,
		Pagination: paginate(total, filter.Page, filter.Limit),
	}, nil
}

func (s *fileService) GetPair(ctx context.Context, pairID string, viewer models.Principal) (*models.FilePair, error) {
	pair, err := s.loadPair(ctx, pairID)
	if err != nil {
		return nil, err
	}
	if !canViewPair(pair, viewer) {
		return nil, ErrAccessDenied
	}

	return pair, nil
}

// GetTextContent отдаёт оригинальный текст и, если есть, правку ревьюера.
// Отсутствие правки в хранилище не считается ошибкой.
func (s *fileService) GetTextContent(ctx context.Context, pairID string, viewer models.Principal) (*models.TextContentResponse, error) {
	pair, err := s.loadPair(ctx, pairID)
	if err != nil {
		return nil, err
	}
	if !canViewPair(pair, viewer) {
		return nil, ErrAccessDenied
	}
	if pair.TextKey == nil {
		return nil, ErrFileNotAvailable
	}

	original, err := s.storageRepo.Get(ctx, *pair.TextKey)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFileNotAvailable
		}
		return nil, fmt.Errorf("%w: text %q: %v", ErrStorageFailure, *pair.TextKey, err)
	}

	resp := &models.TextContentResponse{
		TextContent: string(original),
		OriginalKey: *pair.TextKey,
	}

	if pair.ReviewTextKey != nil {
		resp.EditorKey = *pair.ReviewTextKey
		edited, err := s.storageRepo.Get(ctx, *pair.ReviewTextKey)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				s.logger.Warn().Err(err).Str("key", *pair.ReviewTextKey).Msg("Failed to read review text")
			}
		} else {
			resp.ReviewContent = string(edited)
		}
	}

	return resp, nil
}

// SaveReviewText сохраняет правку ревьюера отдельным объектом, не трогая
// оригинал. Ключ фиксируется в паре один раз, повторные сохранения
// перезаписывают тот же объект.
func (s *fileService) SaveReviewText(ctx context.Context, pairID, content string, editor models.Principal) (string, error) {
	if !editor.Role.IsQA() && editor.Role != models.RoleMonitor && editor.Role != models.RoleAdmin {
		return "", ErrAccessDenied
	}

	pair, err := s.loadPair(ctx, pairID)
	if err != nil {
		return "", err
	}

	var key string
	if pair.ReviewTextKey != nil {
		key = *pair.ReviewTextKey
	} else {
		key = StorageKey(pair.UploaderID, pair.BaseName, ReviewTextSuffix, time.Now())
	}

	if err := s.storageRepo.Put(ctx, key, []byte(content), "text/plain"); err != nil {
		return "", fmt.Errorf("%w: review text %q: %v", ErrStorageFailure, key, err)
	}

	if pair.ReviewTextKey == nil {
		if err := s.pairRepo.SetReviewTextKey(ctx, pair.ID, key); err != nil {
			return "", fmt.Errorf("failed to save review text key: %w", err)
		}
	}

	s.logger.Info().
		Str("file_pair_id", pair.ID).
		Str("key", key).
		Str("editor_id", editor.ID).
		Msg("Review text saved")

	return key, nil
}

// FileURL выдаёт временную presigned-ссылку на объект пары.
func (s *fileService) FileURL(ctx context.Context, pairID, fileType string, viewer models.Principal) (*models.FileURLResponse, error) {
	pair, err := s.loadPair(ctx, pairID)
	if err != nil {
		return nil, err
	}
	if !canViewPair(pair, viewer) {
		return nil, ErrAccessDenied
	}

	key, fileName, err := resolveKey(pair, fileType)
	if err != nil {
		return nil, err
	}

	url, err := s.storageRepo.PresignedURL(ctx, key, s.presignedTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: presign %q: %v", ErrStorageFailure, key, err)
	}

	return &models.FileURLResponse{
		URL:       url,
		FileName:  fileName,
		Type:      fileType,
		ExpiresIn: int64(s.presignedTTL.Seconds()),
	}, nil
}

// Download отдаёт содержимое объекта напрямую, минуя presigned-ссылку.
// Возвращает данные, имя файла и content-type.
func (s *fileService) Download(ctx context.Context, pairID, fileType string, viewer models.Principal) ([]byte, string, string, error) {
	pair, err := s.loadPair(ctx, pairID)
	if err != nil {
		return nil, "", "", err
	}
	if !canViewPair(pair, viewer) {
		return nil, "", "", ErrAccessDenied
	}

	key, fileName, err := resolveKey(pair, fileType)
	if err != nil {
		return nil, "", "", err
	}

	data, err := s.storageRepo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", "", ErrFileNotAvailable
		}
		return nil, "", "", fmt.Errorf("%w: download %q: %v", ErrStorageFailure, key, err)
	}

	contentType := "text/plain"
	if fileType == "audio" {
		contentType = pair.AudioMimeType
		if contentType == "" {
			contentType = defaultAudioMimeType
		}
	}

	return data, fileName, contentType, nil
}

// resolveKey сопоставляет тип файла ключу объекта в хранилище.
func resolveKey(pair *models.FilePair, fileType string) (key, fileName string, err error) {
	switch strings.ToLower(fileType) {
	case "audio":
		if pair.AudioKey == nil {
			return "", "", ErrFileNotAvailable
		}
		return *pair.AudioKey, pair.BaseName + AudioExt, nil
	case "text":
		if pair.TextKey == nil {
			return "", "", ErrFileNotAvailable
		}
		return *pair.TextKey, pair.BaseName + TextExt, nil
	case "review":
		if pair.ReviewTextKey == nil {
			return "", "", ErrFileNotAvailable
		}
		return *pair.ReviewTextKey, pair.BaseName + ReviewTextSuffix, nil
	default:
		return "", "", ErrFileNotAvailable
	}
}

// UpdateSoldStatus меняет статус продажи на самой паре. Разрешено
// владельцу записи, администратору и монитору.
func (s *fileService) UpdateSoldStatus(ctx context.Context, pairID string, status models.SoldStatus, actor models.Principal) error {
	if !status.Valid() {
		return ErrInvalidSoldStatus
	}

	pair, err := s.loadPair(ctx, pairID)
	if err != nil {
		return err
	}

	if pair.UploaderID != actor.ID && actor.Role != models.RoleAdmin && actor.Role != models.RoleMonitor {
		return ErrAccessDenied
	}

	if err := s.pairRepo.UpdateSoldStatus(ctx, pair.ID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPairNotFound
		}
		return fmt.Errorf("failed to update sold status: %w", err)
	}

	s.logger.Info().
		Str("file_pair_id", pair.ID).
		Str("sold_status", status.String()).
		Str("actor_id", actor.ID).
		Msg("Sold status updated")

	return nil
}

func (s *fileService) AddComment(ctx context.Context, pairID, message string, author models.Principal) (*models.Comment, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrMissingFields
	}
	if !author.Role.IsQA() && author.Role != models.RoleMonitor && author.Role != models.RoleAdmin {
		return nil, ErrAccessDenied
	}

	pair, err := s.loadPair(ctx, pairID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:         uuid.New().String(),
		FilePairID: pair.ID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Role:       author.Role,
		Message:    message,
		CreatedAt:  time.Now(),
	}

	if err := s.commentRepo.Add(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	return comment, nil
}

func (s *fileService) ListComments(ctx context.Context, pairID string, viewer models.Principal) ([]*models.Comment, error) {
	pair, err := s.loadPair(ctx, pairID)
	if err != nil {
		return nil, err
	}
	if !canViewPair(pair, viewer) {
		return nil, ErrAccessDenied
	}

	comments, err := s.commentRepo.ListByPair(ctx, pair.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, nil
}

// DeleteComment: удалять может автор комментария или администратор.
func (s *fileService) DeleteComment(ctx context.Context, commentID string, actor models.Principal) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to load comment: %w", err)
	}

	if comment.AuthorID != actor.ID && actor.Role != models.RoleAdmin {
		return ErrAccessDenied
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCommentNotFound
		}
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	return nil
}

func (s *fileService) loadPair(ctx context.Context, pairID string) (*models.FilePair, error) {
	pair, err := s.pairRepo.GetByID(ctx, pairID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPairNotFound
		}
		return nil, fmt.Errorf("failed to load file pair: %w", err)
	}

	return pair, nil
}
