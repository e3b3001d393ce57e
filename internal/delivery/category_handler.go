package delivery

import (
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/newsroom/internal/domain"
	"github.com/go-chi/chi/v5"
)

type CategoryHandler struct {
	categories *domain.CategoryService
	log        *logger.ZapLogger
}

func NewCategoryHandler(categories *domain.CategoryService, log *logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{categories: categories, log: log}
}

// List shows active categories unless is_active says otherwise. Only staff
// may see inactive ones.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	active := boolParam(r, "is_active")
	if c := ClaimsFrom(r.Context()); c == nil || !c.Role.IsStaff() {
		t := true
		active = &t
	}

	items, err := h.categories.List(r.Context(), active)
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, items)
}

func (h *CategoryHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	c, err := h.categories.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.CategoryInput
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, r, h.log, err)
		return
	}

	c, err := h.categories.Create(r.Context(), in)
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusCreated, c)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in domain.CategoryInput
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, r, h.log, err)
		return
	}

	c, err := h.categories.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.categories.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"deleted": true})
}
