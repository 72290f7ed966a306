package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/recordpair/review-service/internal/models"
	"github.com/recordpair/review-service/internal/repository"
	"github.com/rs/zerolog"
)

func newUploadService(pairRepo *mockFilePairRepo, storage *mockStorage, publisher *mockPublisher) UploadService {
	return NewUploadService(pairRepo, storage, publisher, zerolog.Nop())
}

var uploader = models.Principal{ID: "u-1", Name: "Uploader", Role: models.RoleUser}

// TestProcessBatch_EmptyBatch: пустой пакет отклоняется.
func TestProcessBatch_EmptyBatch(t *testing.T) {
	svc := newUploadService(&mockFilePairRepo{}, &mockStorage{}, &mockPublisher{})

	_, err := svc.ProcessBatch(context.Background(), nil, uploader)
	if !errors.Is(err, ErrNoFiles) {
		t.Fatalf("err = %v, ожидался ErrNoFiles", err)
	}
}

// TestProcessBatch_Summary проверяет сводку на смешанном пакете:
// полная пара + аудио без текста.
func TestProcessBatch_Summary(t *testing.T) {
	pairRepo := &mockFilePairRepo{
		CreateFn: func(ctx context.Context, pair *models.FilePair) error { return nil },
	}
	storage := &mockStorage{}
	publisher := &mockPublisher{}
	svc := newUploadService(pairRepo, storage, publisher)

	resp, err := svc.ProcessBatch(context.Background(), []models.UploadedBlob{
		blob("a.mp3"), blob("a.txt"), blob("b.mp3"),
	}, uploader)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	s := resp.Summary
	if s.TotalFiles != 3 {
		t.Errorf("TotalFiles = %d, ожидалось 3", s.TotalFiles)
	}
	if s.UniqueFilenames != 2 {
		t.Errorf("UniqueFilenames = %d, ожидалось 2", s.UniqueFilenames)
	}
	if s.UploadedRecords != 2 {
		t.Errorf("UploadedRecords = %d, ожидалось 2", s.UploadedRecords)
	}
	if s.FullyMapped != 1 {
		t.Errorf("FullyMapped = %d, ожидалась 1", s.FullyMapped)
	}
	if s.AudioOnly != 1 {
		t.Errorf("AudioOnly = %d, ожидалась 1", s.AudioOnly)
	}
	if s.TextOnly != 0 {
		t.Errorf("TextOnly = %d, ожидался 0", s.TextOnly)
	}
	if publisher.pairCreated != 2 {
		t.Errorf("событий pair.created = %d, ожидалось 2", publisher.pairCreated)
	}
}

// TestProcessBatch_DuplicateSkipped: конфликт уникальности пропускает пару,
// не прерывая пакет, и подчищает залитые объекты.
func TestProcessBatch_DuplicateSkipped(t *testing.T) {
	pairRepo := &mockFilePairRepo{
		CreateFn: func(ctx context.Context, pair *models.FilePair) error {
			if pair.BaseName == "dup" {
				return repository.ErrDuplicate
			}
			return nil
		},
	}
	storage := &mockStorage{}
	svc := newUploadService(pairRepo, storage, &mockPublisher{})

	resp, err := svc.ProcessBatch(context.Background(), []models.UploadedBlob{
		blob("dup.mp3"), blob("dup.txt"), blob("fresh.txt"),
	}, uploader)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if len(resp.Duplicates) != 1 || resp.Duplicates[0] != "dup" {
		t.Errorf("Duplicates = %v, ожидался [dup]", resp.Duplicates)
	}
	if len(resp.Saved) != 1 || resp.Saved[0].BaseName != "fresh" {
		t.Errorf("Saved = %v, ожидалась одна пара 'fresh'", resp.Saved)
	}
	// Объекты дубликата подчищены из хранилища
	if len(storage.deletedKeys) != 2 {
		t.Errorf("удалено объектов = %d, ожидалось 2", len(storage.deletedKeys))
	}
}

// TestProcessBatch_StorageFailureAborts: ошибка хранилища обрывает остаток
// пакета, уже сохранённые пары остаются.
func TestProcessBatch_StorageFailureAborts(t *testing.T) {
	pairRepo := &mockFilePairRepo{
		CreateFn: func(ctx context.Context, pair *models.FilePair) error { return nil },
	}
	storage := &mockStorage{
		PutFn: func(ctx context.Context, key string, data []byte, contentType string) error {
			if strings.Contains(key, "broken") {
				return errors.New("minio down")
			}
			return nil
		},
	}
	svc := newUploadService(pairRepo, storage, &mockPublisher{})

	_, err := svc.ProcessBatch(context.Background(), []models.UploadedBlob{
		blob("ok.txt"), blob("broken.mp3"),
	}, uploader)
	if !errors.Is(err, ErrStorageFailure) {
		t.Fatalf("err = %v, ожидался ErrStorageFailure", err)
	}
}

// TestProcessBatch_PublishFailureTolerated: падение брокера не влияет на ответ.
func TestProcessBatch_PublishFailureTolerated(t *testing.T) {
	pairRepo := &mockFilePairRepo{
		CreateFn: func(ctx context.Context, pair *models.FilePair) error { return nil },
	}
	svc := newUploadService(pairRepo, &mockStorage{}, &mockPublisher{failPublish: true})

	resp, err := svc.ProcessBatch(context.Background(), []models.UploadedBlob{blob("a.txt")}, uploader)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(resp.Saved) != 1 {
		t.Errorf("Saved = %d, ожидалась 1", len(resp.Saved))
	}
}

// TestProcessBatch_PairFields проверяет поля созданной записи.
func TestProcessBatch_PairFields(t *testing.T) {
	var created *models.FilePair
	pairRepo := &mockFilePairRepo{
		CreateFn: func(ctx context.Context, pair *models.FilePair) error {
			created = pair
			return nil
		},
	}
	svc := newUploadService(pairRepo, &mockStorage{}, &mockPublisher{})

	_, err := svc.ProcessBatch(context.Background(), []models.UploadedBlob{blob("rec.mp3")}, uploader)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if created == nil {
		t.Fatal("запись не создана")
	}
	if created.Status != models.PairStatusProcessing {
		t.Errorf("Status = %q, ожидался Processing", created.Status)
	}
	if created.SoldStatus != models.SoldStatusUnsold {
		t.Errorf("SoldStatus = %q, ожидался Unsold", created.SoldStatus)
	}
	if created.UploaderID != uploader.ID || created.UploaderName != uploader.Name {
		t.Errorf("uploader = %q/%q, ожидался снапшот загрузившего", created.UploaderID, created.UploaderName)
	}
	if !created.AudioAvailable || created.AudioKey == nil {
		t.Error("аудио-сторона должна быть отмечена как доступная")
	}
	if created.TextAvailable || created.TextKey != nil {
		t.Error("текстовой стороны быть не должно")
	}
}

// TestStorageKey проверяет формат ключа и санитизацию базового имени.
func TestStorageKey(t *testing.T) {
	at := time.UnixMilli(1700000000000)

	key := StorageKey("u-1", "call 01 (final)", ".mp3", at)
	want := "uploads/u-1/1700000000000-call_01__final_.mp3"
	if key != want {
		t.Errorf("key = %q, ожидался %q", key, want)
	}
}
