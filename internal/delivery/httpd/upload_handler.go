package httpd

import (
	"io"
	"net/http"

	"github.com/recordpair/review-service/internal/models"
)

// UploadBatch принимает multipart-форму с полем "files" (несколько файлов)
// и прогоняет пакет через pairing и сохранение.
func (h *Handler) UploadBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "Failed to parse form data or upload too large")
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "At least one file is required in the 'files' field")
		return
	}

	blobs := make([]models.UploadedBlob, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "Failed to open uploaded file")
			return
		}

		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to read uploaded file")
			return
		}

		blobs = append(blobs, models.UploadedBlob{
			FileName:    header.Filename,
			Content:     content,
			ContentType: header.Header.Get("Content-Type"),
		})
	}

	principal, ok := principalFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	response, err := h.uploadService.ProcessBatch(r.Context(), blobs, principal)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeCreated(w, response)
}
