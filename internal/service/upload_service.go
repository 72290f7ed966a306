package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/recordpair/review-service/internal/models"
	"github.com/recordpair/review-service/internal/repository"
	"github.com/recordpair/review-service/internal/service/integration"
	"github.com/rs/zerolog"
)

const defaultAudioMimeType = "audio/mpeg"

type UploadService interface {
	ProcessBatch(ctx context.Context, blobs []models.UploadedBlob, uploader models.Principal) (*models.UploadBatchResponse, error)
}

type uploadService struct {
	pairRepo    repository.FilePairRepository
	storageRepo repository.StorageRepository
	events      integration.EventPublisher
	logger      zerolog.Logger
}

func NewUploadService(
	pairRepo repository.FilePairRepository,
	storageRepo repository.StorageRepository,
	events integration.EventPublisher,
	logger zerolog.Logger,
) UploadService {
	return &uploadService{
		pairRepo:    pairRepo,
		storageRepo: storageRepo,
		events:      events,
		logger:      logger,
	}
}

// ProcessBatch обрабатывает пакет загрузки: группирует файлы в пары,
// отсеивает дубликаты, заливает содержимое в хранилище и создаёт записи.
// Пары обрабатываются последовательно и независимо; ошибка хранилища
// обрывает остаток пакета, уже сохранённые пары не откатываются.
func (s *uploadService) ProcessBatch(ctx context.Context, blobs []models.UploadedBlob, uploader models.Principal) (*models.UploadBatchResponse, error) {
	if len(blobs) == 0 {
		return nil, ErrNoFiles
	}

	pairs := BuildPairs(blobs)

	response := &models.UploadBatchResponse{
		Saved:      []*models.FilePair{},
		Duplicates: []string{},
		Summary: models.UploadSummary{
			TotalFiles:      len(blobs),
			UniqueFilenames: len(pairs),
		},
	}

	for _, candidate := range pairs {
		pair, err := s.persistPair(ctx, candidate, uploader)
		if err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				response.Duplicates = append(response.Duplicates, candidate.BaseName)
				continue
			}
			// Ошибка хранилища или БД фатальна для остатка пакета.
			return nil, fmt.Errorf("%w: pair %q: %v", ErrStorageFailure, candidate.BaseName, err)
		}

		response.Saved = append(response.Saved, pair)

		event := &models.PairCreatedEvent{
			FilePairID:     pair.ID,
			BaseName:       pair.BaseName,
			UploaderID:     pair.UploaderID,
			AudioAvailable: pair.AudioAvailable,
			TextAvailable:  pair.TextAvailable,
			Timestamp:      time.Now().Unix(),
		}
		if err := s.events.PublishPairCreated(ctx, event); err != nil {
			s.logger.Error().Err(err).Str("file_pair_id", pair.ID).Msg("Failed to publish pair.created event")
		}
	}

	s.fillSummary(response)

	s.logger.Info().
		Str("uploader_id", uploader.ID).
		Int("total_files", response.Summary.TotalFiles).
		Int("uploaded_records", response.Summary.UploadedRecords).
		Int("duplicates", len(response.Duplicates)).
		Msg("Upload batch processed")

	return response, nil
}

// persistPair заливает стороны пары в хранилище и вставляет запись.
// Проверка дубликатов делегирована уникальному ограничению БД:
// конкурентные пакеты с одинаковым (uploader, base_name) не могут
// вставить запись дважды. При конфликте уже залитые объекты подчищаются.
func (s *uploadService) persistPair(ctx context.Context, candidate *PairCandidate, uploader models.Principal) (*models.FilePair, error) {
	now := time.Now()

	pair := &models.FilePair{
		ID:            uuid.New().String(),
		BaseName:      candidate.BaseName,
		UploaderID:    uploader.ID,
		UploaderName:  uploader.Name,
		AudioMimeType: defaultAudioMimeType,
		SoldStatus:    models.SoldStatusUnsold,
		Status:        models.PairStatusProcessing,
		UploadedAt:    now,
	}

	var uploadedKeys []string
	cleanup := func() {
		for _, key := range uploadedKeys {
			s.storageRepo.Delete(ctx, key)
		}
	}

	if candidate.Audio != nil {
		key := StorageKey(uploader.ID, candidate.BaseName, AudioExt, now)
		mime := candidate.Audio.ContentType
		if mime == "" {
			mime = defaultAudioMimeType
		}
		if err := s.storageRepo.Put(ctx, key, candidate.Audio.Content, mime); err != nil {
			return nil, fmt.Errorf("failed to upload audio: %w", err)
		}
		uploadedKeys = append(uploadedKeys, key)
		pair.AudioKey = &key
		pair.AudioAvailable = true
		pair.AudioMimeType = mime
	}

	if candidate.Text != nil {
		key := StorageKey(uploader.ID, candidate.BaseName, TextExt, now)
		if err := s.storageRepo.Put(ctx, key, candidate.Text.Content, "text/plain; charset=utf-8"); err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to upload text: %w", err)
		}
		uploadedKeys = append(uploadedKeys, key)
		pair.TextKey = &key
		pair.TextAvailable = true
	}

	if err := s.pairRepo.Create(ctx, pair); err != nil {
		cleanup()
		return nil, err
	}

	return pair, nil
}

func (s *uploadService) fillSummary(response *models.UploadBatchResponse) {
	summary := &response.Summary
	summary.UploadedRecords = len(response.Saved)

	for _, pair := range response.Saved {
		switch {
		case pair.AudioAvailable && pair.TextAvailable:
			summary.FullyMapped++
		case pair.AudioAvailable:
			summary.AudioOnly++
		case pair.TextAvailable:
			summary.TextOnly++
		}
	}
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// StorageKey строит ключ объекта: uploads/{uploader}/{millis}-{base}{ext}.
// Миллисекундная метка разводит ключи повторных загрузок одного имени.
func StorageKey(uploaderID, baseName, ext string, at time.Time) string {
	sanitized := unsafeKeyChars.ReplaceAllString(baseName, "_")
	return fmt.Sprintf("uploads/%s/%d-%s%s", uploaderID, at.UnixMilli(), sanitized, ext)
}
