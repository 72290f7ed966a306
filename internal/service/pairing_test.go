package service

import (
	"testing"

	"github.com/recordpair/review-service/internal/models"
)

func blob(name string) models.UploadedBlob {
	return models.UploadedBlob{FileName: name, Content: []byte("data")}
}

// TestBuildPairs_AudioAndText проверяет склейку аудио и текста по базовому имени.
func TestBuildPairs_AudioAndText(t *testing.T) {
	pairs := BuildPairs([]models.UploadedBlob{blob("call-001.mp3"), blob("call-001.txt")})

	if len(pairs) != 1 {
		t.Fatalf("pairs = %d, ожидалась 1", len(pairs))
	}
	if pairs[0].BaseName != "call-001" {
		t.Errorf("BaseName = %q, ожидалось 'call-001'", pairs[0].BaseName)
	}
	if pairs[0].Audio == nil || pairs[0].Text == nil {
		t.Errorf("обе стороны пары должны присутствовать: audio=%v text=%v", pairs[0].Audio, pairs[0].Text)
	}
}

// TestBuildPairs_ExtensionCaseInsensitive: расширение матчится без учёта регистра.
func TestBuildPairs_ExtensionCaseInsensitive(t *testing.T) {
	pairs := BuildPairs([]models.UploadedBlob{blob("rec.MP3"), blob("rec.TXT")})

	if len(pairs) != 1 {
		t.Fatalf("pairs = %d, ожидалась 1", len(pairs))
	}
	if pairs[0].Audio == nil || pairs[0].Text == nil {
		t.Error("ожидалась полная пара при расширениях в верхнем регистре")
	}
}

// TestBuildPairs_BaseNameCaseSensitive: базовое имя матчится с учётом регистра.
func TestBuildPairs_BaseNameCaseSensitive(t *testing.T) {
	pairs := BuildPairs([]models.UploadedBlob{blob("Call.mp3"), blob("call.txt")})

	if len(pairs) != 2 {
		t.Fatalf("pairs = %d, ожидались 2 (разный регистр — разные пары)", len(pairs))
	}
}

// TestBuildPairs_UnsupportedDropped: чужие расширения молча отбрасываются.
func TestBuildPairs_UnsupportedDropped(t *testing.T) {
	pairs := BuildPairs([]models.UploadedBlob{blob("a.mp3"), blob("notes.pdf"), blob("video.mp4"), blob("noext")})

	if len(pairs) != 1 {
		t.Fatalf("pairs = %d, ожидалась 1", len(pairs))
	}
	if pairs[0].BaseName != "a" {
		t.Errorf("BaseName = %q, ожидалось 'a'", pairs[0].BaseName)
	}
}

// TestBuildPairs_NoEmptyGroups: группа без единого поддерживаемого файла не создаётся.
func TestBuildPairs_NoEmptyGroups(t *testing.T) {
	pairs := BuildPairs([]models.UploadedBlob{blob("x.doc"), blob("y.wav")})

	if len(pairs) != 0 {
		t.Fatalf("pairs = %d, ожидался 0", len(pairs))
	}
}

// TestBuildPairs_OrderStable: порядок групп — по первому вхождению базового имени.
func TestBuildPairs_OrderStable(t *testing.T) {
	pairs := BuildPairs([]models.UploadedBlob{
		blob("b.txt"), blob("a.mp3"), blob("b.mp3"), blob("a.txt"),
	})

	if len(pairs) != 2 {
		t.Fatalf("pairs = %d, ожидались 2", len(pairs))
	}
	if pairs[0].BaseName != "b" || pairs[1].BaseName != "a" {
		t.Errorf("порядок = [%q, %q], ожидался [b, a]", pairs[0].BaseName, pairs[1].BaseName)
	}
}

// TestBuildPairs_PathStripped: компоненты пути в имени файла отбрасываются.
func TestBuildPairs_PathStripped(t *testing.T) {
	pairs := BuildPairs([]models.UploadedBlob{blob("folder/sub/rec.mp3"), blob(`folder\rec.txt`)})

	if len(pairs) != 1 {
		t.Fatalf("pairs = %d, ожидалась 1", len(pairs))
	}
	if pairs[0].BaseName != "rec" {
		t.Errorf("BaseName = %q, ожидалось 'rec'", pairs[0].BaseName)
	}
}

// TestBuildPairs_DotsInBaseName: расширением считается только последний суффикс.
func TestBuildPairs_DotsInBaseName(t *testing.T) {
	pairs := BuildPairs([]models.UploadedBlob{blob("call.v2.final.mp3"), blob("call.v2.final.txt")})

	if len(pairs) != 1 {
		t.Fatalf("pairs = %d, ожидалась 1", len(pairs))
	}
	if pairs[0].BaseName != "call.v2.final" {
		t.Errorf("BaseName = %q, ожидалось 'call.v2.final'", pairs[0].BaseName)
	}
}

// TestBuildPairs_LastWinsWithinBatch: повтор имени внутри пакета перезаписывает сторону.
func TestBuildPairs_LastWinsWithinBatch(t *testing.T) {
	first := models.UploadedBlob{FileName: "a.txt", Content: []byte("old")}
	second := models.UploadedBlob{FileName: "a.txt", Content: []byte("new")}

	pairs := BuildPairs([]models.UploadedBlob{first, second})

	if len(pairs) != 1 {
		t.Fatalf("pairs = %d, ожидалась 1", len(pairs))
	}
	if string(pairs[0].Text.Content) != "new" {
		t.Errorf("Content = %q, последний файл должен побеждать", pairs[0].Text.Content)
	}
}
