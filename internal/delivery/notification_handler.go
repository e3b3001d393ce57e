package delivery

import (
	"net/http"
	"strconv"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/newsroom/internal/domain"
)

const (
	defaultRecommendations = 10
	maxRecommendations     = 50
)

type NotificationHandler struct {
	notifications   *domain.NotificationService
	recommendations *domain.RecommendationService
	log             *logger.ZapLogger
}

func NewNotificationHandler(
	notifications *domain.NotificationService,
	recommendations *domain.RecommendationService,
	log *logger.ZapLogger,
) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, recommendations: recommendations, log: log}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	unread := boolParam(r, "unread")
	page, err := h.notifications.List(r.Context(), ClaimsFrom(r.Context()).UserID, unread != nil && *unread, pageFrom(r))
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, page)
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.notifications.UnreadCount(r.Context(), ClaimsFrom(r.Context()).UserID)
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, map[string]int{"count": n})
}

type markReadRequest struct {
	IDs []string `json:"ids"`
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	var req markReadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, r, h.log, err)
		return
	}

	n, err := h.notifications.MarkRead(r.Context(), ClaimsFrom(r.Context()).UserID, req.IDs)
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, map[string]int64{"updated": n})
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.notifications.MarkAllRead(r.Context(), ClaimsFrom(r.Context()).UserID)
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, map[string]int64{"updated": n})
}

func (h *NotificationHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultRecommendations
	}
	limit = min(limit, maxRecommendations)

	recs, err := h.recommendations.Recommend(r.Context(), ClaimsFrom(r.Context()).UserID, limit)
	if err != nil {
		writeErr(w, r, h.log, err)
		return
	}
	writeData(w, http.StatusOK, recs)
}
