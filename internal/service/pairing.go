package service

import (
	"strings"

	"github.com/recordpair/review-service/internal/models"
)

// Поддерживаемые расширения пары: аудио и его расшифровка.
const (
	AudioExt = ".mp3"
	TextExt  = ".txt"
)

// PairCandidate — группа загруженных файлов с общим базовым именем.
// Хотя бы одна сторона всегда присутствует: группа создаётся только
// когда файл в неё попал.
type PairCandidate struct {
	BaseName string
	Audio    *models.UploadedBlob
	Text     *models.UploadedBlob
}

// BuildPairs группирует файлы пакета по базовому имени.
// Расширение сравнивается без учёта регистра, базовое имя — с учётом.
// Файлы с другими расширениями молча отбрасываются. Порядок результата
// стабилен: по первому вхождению базового имени.
func BuildPairs(blobs []models.UploadedBlob) []*PairCandidate {
	index := make(map[string]*PairCandidate)
	var order []*PairCandidate

	for i := range blobs {
		blob := &blobs[i]
		base, ext := splitBlobName(blob.FileName)
		if ext != AudioExt && ext != TextExt {
			continue
		}

		candidate, ok := index[base]
		if !ok {
			candidate = &PairCandidate{BaseName: base}
			index[base] = candidate
			order = append(order, candidate)
		}

		switch ext {
		case AudioExt:
			candidate.Audio = blob
		case TextExt:
			candidate.Text = blob
		}
	}

	return order
}

// splitBlobName отделяет базовое имя от расширения, отбрасывая
// компоненты пути (браузеры могут прислать относительный путь папки).
func splitBlobName(name string) (base, ext string) {
	if idx := strings.LastIndexAny(name, "/\\"); idx >= 0 {
		name = name[idx+1:]
	}

	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		return name, ""
	}

	return name[:dot], strings.ToLower(name[dot:])
}
