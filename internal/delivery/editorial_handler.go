package delivery

import (
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/newsroom/internal/domain"
	"github.com/go-chi/chi/v5"
)

// EditorialHandler serves reporter profiles, muqtarab corners and the
// dashboard.
type EditorialHandler struct {
	reporters *domain.ReporterService
	muqtarab  *domain.MuqtarabService
	dashboard *domain.DashboardService
	log       *logger.ZapLogger
}

func NewEditorialHandler(
	reporters *domain.ReporterService,
	muqtarab *domain.MuqtarabService,
	dashboard *domain.DashboardService,
	log *logger.ZapLogger,
) *EditorialHandler {
	return &EditorialHandler{reporters: reporters, muqtarab: muqtarab, dashboard: dashboard, log: log}
}

func (h *EditorialHandler) Reporters(w http.ResponseWriter, r *http.Request) {
	items, err := h.reporters.ListActive(r.Context())
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, items)
}

func (h *EditorialHandler) Reporter(w http.ResponseWriter, r *http.Request) {
	rep, err := h.reporters.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, rep)
}

func (h *EditorialHandler) Corners(w http.ResponseWriter, r *http.Request) {
	items, err := h.muqtarab.ListCorners(r.Context())
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, items)
}

func (h *EditorialHandler) Corner(w http.ResponseWriter, r *http.Request) {
	c, err := h.muqtarab.GetCorner(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, c)
}

func (h *EditorialHandler) CornerArticles(w http.ResponseWriter, r *http.Request) {
	items, err := h.muqtarab.ListArticles(r.Context(), chi.URLParam(r, "slug"), pageFrom(r))
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, items)
}

func (h *EditorialHandler) CreateCornerArticle(w http.ResponseWriter, r *http.Request) {
	var in domain.MuqtarabArticleInput
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, r, h.log, err)
		return
	}

	a, err := h.muqtarab.CreateArticle(r.Context(), chi.URLParam(r, "slug"), in)
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusCreated, a)
}

func (h *EditorialHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Stats(r.Context())
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, stats)
}
