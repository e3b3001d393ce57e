package delivery

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/Vovarama1992/newsroom/internal/domain"
	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthAndMetrics(t *testing.T) {
	e := newTestEnv(t)

	code, resp := e.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Success)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "newsroom_http_requests_total")
}

func TestAuthEndpoints(t *testing.T) {
	e := newTestEnv(t)

	code, resp := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "reader@example.com", "password": "reader-pass",
	})
	require.Equal(t, http.StatusOK, code)
	login := decodeData[loginResponse](t, resp)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, models.RoleReader, login.User.Role)

	code, resp = e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "reader@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)

	code, _ = e.do(t, http.MethodPost, "/api/auth/login", "", "{not json")
	assert.Equal(t, http.StatusBadRequest, code)

	reg := map[string]string{"email": "new@example.com", "name": "قارئ جديد", "password": "long-enough"}
	code, resp = e.do(t, http.MethodPost, "/api/auth/register", "", reg)
	require.Equal(t, http.StatusCreated, code)
	assert.NotEmpty(t, decodeData[loginResponse](t, resp).Token)

	code, _ = e.do(t, http.MethodPost, "/api/auth/register", "", reg)
	assert.Equal(t, http.StatusConflict, code)

	code, resp = e.do(t, http.MethodGet, "/api/auth/me", models.RoleEditor, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"user_id":"editor-1","role":"editor"}`, string(resp.Data))

	code, _ = e.do(t, http.MethodGet, "/api/auth/roles", models.RoleEditor, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = e.do(t, http.MethodGet, "/api/auth/roles", models.RoleAdmin, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestBadTokenIsRejected(t *testing.T) {
	e := newTestEnv(t)

	code, _ := e.doWithHeaders(t, http.MethodGet, "/api/articles", "", nil, map[string]string{
		"Authorization": "Bearer forged.token",
	})
	assert.Equal(t, http.StatusUnauthorized, code)

	// X-Auth carries the same token
	code, _ = e.doWithHeaders(t, http.MethodGet, "/api/notifications", "", nil, map[string]string{
		"X-Auth": e.tokens[models.RoleReader],
	})
	assert.Equal(t, http.StatusOK, code)
}

func TestArticleLifecycleThroughAPI(t *testing.T) {
	e := newTestEnv(t)
	e.putPublished("pub-1", false)

	in := map[string]any{
		"title":       "قمة اقتصادية في الرياض",
		"content":     "<p>انطلقت أعمال القمة</p>",
		"category_id": "cat-politics",
	}

	code, _ := e.do(t, http.MethodPost, "/api/articles", "", in)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = e.do(t, http.MethodPost, "/api/articles", models.RoleReader, in)
	assert.Equal(t, http.StatusForbidden, code)

	code, resp := e.do(t, http.MethodPost, "/api/articles", models.RoleReporter, in)
	require.Equal(t, http.StatusCreated, code)
	created := decodeData[models.Article](t, resp)
	assert.Equal(t, models.StatusDraft, created.Status)
	assert.Equal(t, "reporter-1", created.AuthorID)

	// drafts stay hidden from the public
	code, _ = e.do(t, http.MethodGet, "/api/articles/"+created.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, resp = e.do(t, http.MethodGet, "/api/articles", "", nil)
	require.Equal(t, http.StatusOK, code)
	page := decodeData[domain.ArticlePage](t, resp)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "pub-1", page.Items[0].ID)

	code, _ = e.do(t, http.MethodPost, "/api/articles/"+created.ID+"/status", models.RoleReporter,
		map[string]string{"status": "published"})
	assert.Equal(t, http.StatusForbidden, code)

	code, resp = e.do(t, http.MethodPost, "/api/articles/"+created.ID+"/status", models.RoleEditor,
		map[string]string{"status": "published"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.StatusPublished, decodeData[models.Article](t, resp).Status)
	assert.Equal(t, []string{created.ID}, e.events.PublishedIDs())

	code, resp = e.do(t, http.MethodGet, "/api/articles/slug/"+url.PathEscape(created.Slug), "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, created.ID, decodeData[models.Article](t, resp).ID)

	code, resp = e.do(t, http.MethodPut, "/api/articles/"+created.ID, models.RoleEditor,
		map[string]any{"breaking": true})
	require.Equal(t, http.StatusOK, code)
	assert.True(t, decodeData[models.Article](t, resp).Breaking)

	// published articles are archived, not removed
	code, _ = e.do(t, http.MethodDelete, "/api/articles/"+created.ID, models.RoleEditor, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.StatusArchived, e.articles.Snapshot(created.ID).Status)

	code, resp = e.do(t, http.MethodPost, "/api/articles/"+created.ID+"/status", models.RoleEditor,
		map[string]string{"status": "scheduled"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, resp.Success)
}

func TestArticleInteractions(t *testing.T) {
	e := newTestEnv(t)
	e.putPublished("pub-1", false)

	code, _ := e.do(t, http.MethodPost, "/api/articles/pub-1/save", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, resp := e.do(t, http.MethodPost, "/api/articles/pub-1/save", models.RoleReader, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"saved":true,"count":1}`, string(resp.Data))

	code, resp = e.do(t, http.MethodGet, "/api/user/saved", models.RoleReader, nil)
	require.Equal(t, http.StatusOK, code)
	saved := decodeData[[]models.Article](t, resp)
	require.Len(t, saved, 1)
	assert.Equal(t, "pub-1", saved[0].ID)

	code, resp = e.do(t, http.MethodPost, "/api/articles/pub-1/save", models.RoleReader, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"saved":false,"count":0}`, string(resp.Data))

	code, resp = e.do(t, http.MethodPost, "/api/articles/pub-1/like", models.RoleReader, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"liked":true,"count":1}`, string(resp.Data))

	code, resp = e.do(t, http.MethodPost, "/api/articles/pub-1/share", models.RoleReader, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"count":1}`, string(resp.Data))

	code, _ = e.do(t, http.MethodPost, "/api/articles/missing/like", models.RoleReader, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestViewEndpoint(t *testing.T) {
	e := newTestEnv(t)
	e.putPublished("pub-1", false)

	code, _ := e.do(t, http.MethodPost, "/api/articles/pub-1/view", "", nil)
	require.Equal(t, http.StatusAccepted, code)
	code, _ = e.do(t, http.MethodPost, "/api/articles/pub-1/view", models.RoleReader, nil)
	require.Equal(t, http.StatusAccepted, code)
	code, _ = e.do(t, http.MethodPost, "/api/articles/missing/view", "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	assert.Equal(t, []string{"pub-1", "pub-1"}, e.views.Tracked())
	assert.Equal(t, 1, e.interactions.Count("reader-1", models.InteractionView))
}

func TestCommentsAndModeration(t *testing.T) {
	e := newTestEnv(t)
	e.putPublished("pub-1", false)

	code, resp := e.do(t, http.MethodPost, "/api/articles/pub-1/comments", models.RoleReader,
		map[string]string{"content": "تعليق مفيد"})
	require.Equal(t, http.StatusCreated, code)
	c := decodeData[models.Comment](t, resp)
	assert.Equal(t, models.CommentPending, c.Status)

	code, resp = e.do(t, http.MethodGet, "/api/articles/pub-1/comments", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(resp.Data))

	code, _ = e.do(t, http.MethodGet, "/api/comments", models.RoleReporter, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, resp = e.do(t, http.MethodGet, "/api/comments?status=pending", models.RoleEditor, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decodeData[[]models.Comment](t, resp), 1)

	code, _ = e.do(t, http.MethodPut, "/api/comments/"+c.ID+"/status", models.RoleEditor,
		map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, code)

	code, resp = e.do(t, http.MethodGet, "/api/articles/pub-1/comments", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decodeData[[]models.Comment](t, resp), 1)
	assert.EqualValues(t, 1, e.articles.Snapshot("pub-1").CommentsCount)

	code, _ = e.do(t, http.MethodPut, "/api/comments/"+c.ID+"/status", models.RoleEditor,
		map[string]string{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestNotificationsAPI(t *testing.T) {
	e := newTestEnv(t)

	code, _ := e.do(t, http.MethodGet, "/api/notifications", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	e.articles.Put(models.Article{
		ID: "brk-1", Title: "عاجل", Slug: "brk-1", Content: "<p>x</p>",
		CategoryID: "cat-politics", AuthorID: "editor-1", Status: models.StatusDraft, Breaking: true,
	})
	code, _ = e.do(t, http.MethodPost, "/api/articles/brk-1/status", models.RoleEditor,
		map[string]string{"status": "published"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, e.pusher.Count("reader-1"))
	assert.Zero(t, e.pusher.Count("editor-1"), "author is not notified")

	code, resp := e.do(t, http.MethodGet, "/api/notifications/unread-count", models.RoleReader, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"count":1}`, string(resp.Data))

	code, resp = e.do(t, http.MethodGet, "/api/notifications?unread=true", models.RoleReader, nil)
	require.Equal(t, http.StatusOK, code)
	page := decodeData[domain.NotificationPage](t, resp)
	require.Len(t, page.Items, 1)
	assert.Equal(t, models.NotificationBreaking, page.Items[0].Type)

	code, _ = e.do(t, http.MethodPost, "/api/notifications/read", models.RoleReader, map[string]any{"ids": []string{}})
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp = e.do(t, http.MethodPost, "/api/notifications/read", models.RoleReader,
		map[string]any{"ids": []string{page.Items[0].ID}})
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"updated":1}`, string(resp.Data))

	code, resp = e.do(t, http.MethodGet, "/api/notifications/unread-count", models.RoleReader, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"count":0}`, string(resp.Data))

	code, resp = e.do(t, http.MethodPost, "/api/notifications/read-all", models.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"updated":1}`, string(resp.Data))
}

func TestRecommendationsAPI(t *testing.T) {
	e := newTestEnv(t)
	e.putPublished("pub-1", false)

	code, _ := e.do(t, http.MethodGet, "/api/recommendations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, resp := e.do(t, http.MethodGet, "/api/recommendations?limit=5", models.RoleReader, nil)
	require.Equal(t, http.StatusOK, code)
	recs := decodeData[[]domain.Recommendation](t, resp)
	require.Len(t, recs, 1)
	assert.Equal(t, "pub-1", recs[0].ID)
}

func TestPublishScheduledCron(t *testing.T) {
	e := newTestEnv(t)
	due := time.Now().Add(-time.Minute)
	later := time.Now().Add(time.Hour)
	e.articles.Put(models.Article{ID: "due-1", Title: "a", Slug: "due-1", CategoryID: "cat-politics",
		AuthorID: "editor-1", Status: models.StatusScheduled, ScheduledFor: &due})
	e.articles.Put(models.Article{ID: "later-1", Title: "b", Slug: "later-1", CategoryID: "cat-politics",
		AuthorID: "editor-1", Status: models.StatusScheduled, ScheduledFor: &later})

	code, resp := e.do(t, http.MethodGet, "/api/articles/scheduled", models.RoleReporter, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, decodeData[domain.ArticlePage](t, resp).Total)

	code, _ = e.do(t, http.MethodPost, "/api/articles/scheduled", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = e.doWithHeaders(t, http.MethodPost, "/api/articles/scheduled", "", nil,
		map[string]string{"X-Cron-Secret": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, resp = e.doWithHeaders(t, http.MethodPost, "/api/articles/scheduled", "", nil,
		map[string]string{"Authorization": "Bearer " + cronSecret})
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"published":1,"ids":["due-1"]}`, string(resp.Data))
	assert.Equal(t, models.StatusPublished, e.articles.Snapshot("due-1").Status)
	assert.Equal(t, models.StatusScheduled, e.articles.Snapshot("later-1").Status)

	code, resp = e.doWithHeaders(t, http.MethodPost, "/api/articles/scheduled", "", nil,
		map[string]string{"X-Cron-Secret": cronSecret})
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"published":0,"ids":[]}`, string(resp.Data))
}

func TestCategoriesAPI(t *testing.T) {
	e := newTestEnv(t)

	code, resp := e.do(t, http.MethodGet, "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decodeData[[]models.Category](t, resp), 1, "inactive categories are hidden")

	code, resp = e.do(t, http.MethodGet, "/api/categories?is_active=false", models.RoleEditor, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decodeData[[]models.Category](t, resp), 1)

	code, resp = e.do(t, http.MethodGet, "/api/categories/politics", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "cat-politics", decodeData[models.Category](t, resp).ID)

	in := map[string]string{"name": "اقتصاد", "name_en": "Economy"}
	code, _ = e.do(t, http.MethodPost, "/api/categories", models.RoleReporter, in)
	assert.Equal(t, http.StatusForbidden, code)
	code, resp = e.do(t, http.MethodPost, "/api/categories", models.RoleEditor, in)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "economy", decodeData[models.Category](t, resp).Slug)
}

func TestAudioAndDashboardAccess(t *testing.T) {
	e := newTestEnv(t)

	in := map[string]any{"title": "النشرة الصباحية", "audio_url": "https://cdn.example.com/a.mp3", "is_published": true}
	code, _ := e.do(t, http.MethodPost, "/api/audio-newsletters", models.RoleReporter, in)
	assert.Equal(t, http.StatusForbidden, code)
	code, resp := e.do(t, http.MethodPost, "/api/audio-newsletters", models.RoleEditor, in)
	require.Equal(t, http.StatusCreated, code)
	n := decodeData[models.AudioNewsletter](t, resp)

	code, resp = e.do(t, http.MethodPost, "/api/audio-newsletters/"+n.ID+"/play", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"play_count":1}`, string(resp.Data))

	code, resp = e.do(t, http.MethodGet, "/api/audio-newsletters", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decodeData[[]models.AudioNewsletter](t, resp), 1)

	code, _ = e.do(t, http.MethodGet, "/api/dashboard/stats", models.RoleReporter, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = e.do(t, http.MethodGet, "/api/dashboard/stats", models.RoleAdmin, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = e.do(t, http.MethodGet, "/api/reporters/nobody", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = e.do(t, http.MethodGet, "/api/muqtarab/corners", "", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestMediaRoutesRequireStaff(t *testing.T) {
	e := newTestEnv(t)

	in := map[string]any{"url": "https://cdn.example.com/photos/summit.jpg", "size": 2048}
	code, _ := e.do(t, http.MethodPost, "/api/media", models.RoleReader, in)
	assert.Equal(t, http.StatusForbidden, code)

	code, resp := e.do(t, http.MethodPost, "/api/media", models.RoleReporter, in)
	require.Equal(t, http.StatusCreated, code)
	asset := decodeData[models.MediaAsset](t, resp)
	assert.Equal(t, models.MediaImage, asset.Type)

	code, resp = e.do(t, http.MethodGet, "/api/media?type=image", models.RoleEditor, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, decodeData[domain.AssetPage](t, resp).Total)

	code, _ = e.do(t, http.MethodPost, "/api/media", models.RoleReporter, map[string]any{"url": "ftp://x/y.png"})
	assert.Equal(t, http.StatusBadRequest, code)
}
