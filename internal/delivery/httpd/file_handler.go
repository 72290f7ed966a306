package httpd

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/recordpair/review-service/internal/models"
)

func (h *Handler) ListPairs(w http.ResponseWriter, r *http.Request) {
	principal, _ := principalFrom(r)

	filter := models.PairFilter{
		UploaderID: r.URL.Query().Get("uploader_id"),
		Status:     models.PairStatus(r.URL.Query().Get("status")),
		SoldStatus: models.SoldStatus(r.URL.Query().Get("sold_status")),
		Search:     r.URL.Query().Get("search"),
		Unassigned: getBoolQueryParam(r, "unassigned", false),
		Page:       getIntQueryParam(r, "page", 1),
		Limit:      getIntQueryParam(r, "limit", 10),
	}

	response, err := h.fileService.ListPairs(r.Context(), filter, principal)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, response)
}

func (h *Handler) GetPair(w http.ResponseWriter, r *http.Request) {
	principal, _ := principalFrom(r)

	pair, err := h.fileService.GetPair(r.Context(), chi.URLParam(r, "pair_id"), principal)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, pair)
}

func (h *Handler) GetTextContent(w http.ResponseWriter, r *http.Request) {
	principal, _ := principalFrom(r)

	content, err := h.fileService.GetTextContent(r.Context(), chi.URLParam(r, "pair_id"), principal)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, content)
}

// GetFileURL выдаёт presigned-ссылку, type=audio|text|review.
func (h *Handler) GetFileURL(w http.ResponseWriter, r *http.Request) {
	principal, _ := principalFrom(r)

	fileType := r.URL.Query().Get("type")
	if fileType == "" {
		writeError(w, http.StatusBadRequest, "Query parameter 'type' is required (audio, text or review)")
		return
	}

	response, err := h.fileService.FileURL(r.Context(), chi.URLParam(r, "pair_id"), fileType, principal)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, response)
}

// DownloadFile отдаёт содержимое объекта напрямую через сервис.
func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	principal, _ := principalFrom(r)

	fileType := r.URL.Query().Get("type")
	if fileType == "" {
		writeError(w, http.StatusBadRequest, "Query parameter 'type' is required (audio, text or review)")
		return
	}

	data, fileName, contentType, err := h.fileService.Download(r.Context(), chi.URLParam(r, "pair_id"), fileType, principal)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) UpdateSoldStatus(w http.ResponseWriter, r *http.Request) {
	principal, _ := principalFrom(r)

	var req models.UpdateSoldStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.fileService.UpdateSoldStatus(r.Context(), chi.URLParam(r, "pair_id"), req.SoldStatus, principal); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"sold_status": req.SoldStatus,
	})
}

func (h *Handler) SaveReviewText(w http.ResponseWriter, r *http.Request) {
	principal, _ := principalFrom(r)

	var req models.SaveReviewTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	key, err := h.fileService.SaveReviewText(r.Context(), chi.URLParam(r, "pair_id"), req.Content, principal)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"review_text_key": key,
	})
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	principal, _ := principalFrom(r)

	var req models.AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	comment, err := h.fileService.AddComment(r.Context(), chi.URLParam(r, "pair_id"), req.Message, principal)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeCreated(w, comment)
}

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	principal, _ := principalFrom(r)

	comments, err := h.fileService.ListComments(r.Context(), chi.URLParam(r, "pair_id"), principal)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, comments)
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	principal, _ := principalFrom(r)

	if err := h.fileService.DeleteComment(r.Context(), chi.URLParam(r, "comment_id"), principal); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"deleted": true,
	})
}
