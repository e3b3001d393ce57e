package delivery

import (
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/newsroom/internal/domain"
	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/go-chi/chi/v5"
)

type CommentHandler struct {
	comments *domain.CommentService
	log      *logger.ZapLogger
}

func NewCommentHandler(comments *domain.CommentService, log *logger.ZapLogger) *CommentHandler {
	return &CommentHandler{comments: comments, log: log}
}

func (h *CommentHandler) ListForArticle(w http.ResponseWriter, r *http.Request) {
	items, err := h.comments.ListApproved(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, items)
}

type commentRequest struct {
	Content  string  `json:"content"`
	ParentID *string `json:"parent_id"`
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, r, h.log, err)
		return
	}

	c, err := h.comments.Create(r.Context(), *ClaimsFrom(r.Context()), chi.URLParam(r, "id"), req.ParentID, req.Content)
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusCreated, c)
}

func (h *CommentHandler) ListForModeration(w http.ResponseWriter, r *http.Request) {
	status := models.CommentStatus(r.URL.Query().Get("status"))
	items, err := h.comments.ListForModeration(r.Context(), status, pageFrom(r))
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, items)
}

type moderateRequest struct {
	Status models.CommentStatus `json:"status"`
}

func (h *CommentHandler) Moderate(w http.ResponseWriter, r *http.Request) {
	var req moderateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, r, h.log, err)
		return
	}

	c, err := h.comments.Moderate(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.comments.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"deleted": true})
}
