package delivery

import (
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/newsroom/internal/domain"
	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/go-chi/chi/v5"
)

type MediaHandler struct {
	media *domain.MediaService
	log   *logger.ZapLogger
}

func NewMediaHandler(media *domain.MediaService, log *logger.ZapLogger) *MediaHandler {
	return &MediaHandler{media: media, log: log}
}

type folderRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id"`
}

func (h *MediaHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req folderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, r, h.log, err)
		return
	}

	f, err := h.media.CreateFolder(r.Context(), req.Name, req.ParentID)
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusCreated, f)
}

func (h *MediaHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	items, err := h.media.ListFolders(r.Context())
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, items)
}

func (h *MediaHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	if err := h.media.DeleteFolder(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *MediaHandler) RegisterAsset(w http.ResponseWriter, r *http.Request) {
	var in domain.AssetInput
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, r, h.log, err)
		return
	}

	a, err := h.media.RegisterAsset(r.Context(), ClaimsFrom(r.Context()).UserID, in)
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "media asset registered",
		Fields:  map[string]any{"asset_id": a.ID, "type": a.Type, "size": a.Size},
	})
	writeData(w, http.StatusCreated, a)
}

// ListAssets filters by folder_id when present; an empty folder_id means
// the root folder.
func (h *MediaHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var folderID *string
	if q.Has("folder_id") {
		v := q.Get("folder_id")
		folderID = &v
	}

	page, err := h.media.ListAssets(r.Context(), folderID, models.MediaType(q.Get("type")), q.Get("search"), pageFrom(r))
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, page)
}

func (h *MediaHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	a, err := h.media.GetAsset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, a)
}

func (h *MediaHandler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	if err := h.media.DeleteAsset(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"deleted": true})
}
