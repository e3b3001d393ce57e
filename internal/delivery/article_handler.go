package delivery

import (
	"context"
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/newsroom/internal/domain"
	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports"
	"github.com/go-chi/chi/v5"
)

type ViewTracker interface {
	Track(articleID string)
}

type DueRunner interface {
	RunOnce(ctx context.Context) ([]models.Article, error)
}

type ArticleHandler struct {
	articles     *domain.ArticleService
	interactions *domain.InteractionService
	views        ViewTracker
	due          DueRunner
	log          *logger.ZapLogger
}

func NewArticleHandler(
	articles *domain.ArticleService,
	interactions *domain.InteractionService,
	views ViewTracker,
	due DueRunner,
	log *logger.ZapLogger,
) *ArticleHandler {
	return &ArticleHandler{articles: articles, interactions: interactions, views: views, due: due, log: log}
}

func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	search := q.Get("search")
	if search == "" {
		search = q.Get("q")
	}
	query := domain.ArticleQuery{
		Status:     models.ArticleStatus(q.Get("status")),
		CategoryID: q.Get("category_id"),
		AuthorID:   q.Get("author_id"),
		Featured:   boolParam(r, "featured"),
		Breaking:   boolParam(r, "breaking"),
		Search:     search,
		Sort:       ports.ArticleSort(q.Get("sort")),
		Page:       pageFrom(r),
	}

	page, err := h.articles.List(r.Context(), query, ClaimsFrom(r.Context()))
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, page)
}

func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.articles.Get(r.Context(), chi.URLParam(r, "id"), ClaimsFrom(r.Context()))
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, a)
}

func (h *ArticleHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	a, err := h.articles.GetBySlug(r.Context(), chi.URLParam(r, "slug"), ClaimsFrom(r.Context()))
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, a)
}

func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in domain.ArticleInput
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, r, h.log, err)
		return
	}

	a, err := h.articles.Create(r.Context(), *ClaimsFrom(r.Context()), in)
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusCreated, a)
}

func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var p domain.ArticlePatch
	if err := decodeJSON(r, &p); err != nil {
		writeErr(w, r, h.log, err)
		return
	}

	a, err := h.articles.Update(r.Context(), *ClaimsFrom(r.Context()), chi.URLParam(r, "id"), p)
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, a)
}

func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.articles.Delete(r.Context(), *ClaimsFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, map[string]bool{"deleted": true})
}

type statusRequest struct {
	Status       models.ArticleStatus `json:"status"`
	ScheduledFor *time.Time           `json:"scheduled_for"`
}

func (h *ArticleHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, r, h.log, err)
		return
	}

	a, err := h.articles.ChangeStatus(r.Context(), *ClaimsFrom(r.Context()), chi.URLParam(r, "id"), req.Status, req.ScheduledFor)
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, a)
}

// View counts a read. The counter goes through the batcher; signed-in
// readers also get a view interaction for recommendations.
func (h *ArticleHandler) View(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.articles.Get(r.Context(), id, nil); err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	h.views.Track(id)

	if c := ClaimsFrom(r.Context()); c != nil {
		if err := h.interactions.RecordView(r.Context(), c.UserID, id); err != nil {
			h.log.Log(logger.LogEntry{
				Level:   "warn",
				Message: "record view interaction failed",
				Fields:  map[string]any{"article_id": id, "user_id": c.UserID},
				Error:   err,
			})
		}
	}
	writeData(w, http.StatusAccepted, map[string]bool{"counted": true})
}

func (h *ArticleHandler) Save(w http.ResponseWriter, r *http.Request) {
	res, err := h.interactions.ToggleSave(r.Context(), ClaimsFrom(r.Context()).UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"saved": res.Active, "count": res.Count})
}

func (h *ArticleHandler) Like(w http.ResponseWriter, r *http.Request) {
	res, err := h.interactions.ToggleLike(r.Context(), ClaimsFrom(r.Context()).UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"liked": res.Active, "count": res.Count})
}

func (h *ArticleHandler) Share(w http.ResponseWriter, r *http.Request) {
	n, err := h.interactions.Share(r.Context(), ClaimsFrom(r.Context()).UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, map[string]int64{"count": n})
}

func (h *ArticleHandler) Saved(w http.ResponseWriter, r *http.Request) {
	items, err := h.interactions.Saved(r.Context(), ClaimsFrom(r.Context()).UserID, pageFrom(r))
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, items)
}

func (h *ArticleHandler) Scheduled(w http.ResponseWriter, r *http.Request) {
	page, err := h.articles.ListScheduled(r.Context(), pageFrom(r))
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, page)
}

// PublishScheduled is the cron entry point; the in-process scheduler runs
// the same code.
func (h *ArticleHandler) PublishScheduled(w http.ResponseWriter, r *http.Request) {
	published, err := h.due.RunOnce(r.Context())
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}

	ids := make([]string, 0, len(published))
	for _, a := range published {
		ids = append(ids, a.ID)
	}
	writeData(w, http.StatusOK, map[string]any{"published": len(ids), "ids": ids})
}
