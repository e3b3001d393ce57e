package delivery

import (
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/newsroom/internal/domain"
	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/go-chi/chi/v5"
)

type AudioHandler struct {
	audio *domain.AudioNewsletterService
	log   *logger.ZapLogger
}

func NewAudioHandler(audio *domain.AudioNewsletterService, log *logger.ZapLogger) *AudioHandler {
	return &AudioHandler{audio: audio, log: log}
}

// canSeeDrafts is true for admins and editors.
func canSeeDrafts(r *http.Request) bool {
	c := ClaimsFrom(r.Context())
	return c != nil && (c.Role == models.RoleAdmin || c.Role == models.RoleEditor)
}

func (h *AudioHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.audio.List(r.Context(), canSeeDrafts(r), pageFrom(r))
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, items)
}

func (h *AudioHandler) Get(w http.ResponseWriter, r *http.Request) {
	n, err := h.audio.Get(r.Context(), chi.URLParam(r, "id"), canSeeDrafts(r))
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, n)
}

func (h *AudioHandler) Play(w http.ResponseWriter, r *http.Request) {
	plays, err := h.audio.Play(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, map[string]int64{"play_count": plays})
}

func (h *AudioHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.AudioNewsletterInput
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, r, h.log, err)
		return
	}

	n, err := h.audio.Create(r.Context(), in)
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusCreated, n)
}

type publishRequest struct {
	Published bool `json:"published"`
}

func (h *AudioHandler) SetPublished(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, r, h.log, err)
		return
	}

	n, err := h.audio.SetPublished(r.Context(), chi.URLParam(r, "id"), req.Published)
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, n)
}

func (h *AudioHandler) Feature(w http.ResponseWriter, r *http.Request) {
	n, err := h.audio.Feature(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, n)
}

func (h *AudioHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.audio.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"deleted": true})
}
