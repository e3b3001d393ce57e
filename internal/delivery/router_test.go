package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Vovarama1992/newsroom/internal/domain"
	"github.com/Vovarama1992/newsroom/internal/infra"
	"github.com/Vovarama1992/newsroom/internal/logging"
	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports/portstest"
	"github.com/stretchr/testify/require"
)

const cronSecret = "cron-test-secret"

type recordingTracker struct {
	mu  sync.Mutex
	ids []string
}

func (t *recordingTracker) Track(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ids = append(t.ids, id)
}

func (t *recordingTracker) Tracked() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.ids...)
}

type testEnv struct {
	router        http.Handler
	articles      *portstest.ArticleRepo
	categories    *portstest.CategoryRepo
	interactions  *portstest.InteractionRepo
	notifications *portstest.NotificationRepo
	comments      *portstest.CommentRepo
	audio         *portstest.AudioRepo
	events        *portstest.Publisher
	pusher        *portstest.Pusher
	views         *recordingTracker
	tokens        map[models.Role]string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logging.Nop()

	e := &testEnv{
		articles:      portstest.NewArticleRepo(),
		categories:    portstest.NewCategoryRepo(),
		notifications: portstest.NewNotificationRepo(),
		audio:         portstest.NewAudioRepo(),
		events:        &portstest.Publisher{},
		pusher:        portstest.NewPusher(),
		views:         &recordingTracker{},
		tokens:        map[models.Role]string{},
	}
	e.interactions = portstest.NewInteractionRepo(e.articles)
	e.comments = portstest.NewCommentRepo(e.articles)
	e.categories.Put(models.Category{ID: "cat-politics", Name: "سياسة", Slug: "politics", IsActive: true})
	e.categories.Put(models.Category{ID: "cat-old", Name: "أرشيف", Slug: "old", IsActive: false})

	users := portstest.NewUserRepo()
	users.AddUser("admin-1", "admin@example.com", "admin-pass", models.RoleAdmin)
	users.AddUser("editor-1", "editor@example.com", "editor-pass", models.RoleEditor)
	users.AddUser("reporter-1", "reporter@example.com", "reporter-pass", models.RoleReporter)
	users.AddUser("reader-1", "reader@example.com", "reader-pass", models.RoleReader)

	auth := domain.NewAuthService(users, "test-secret", time.Hour)
	for role, email := range map[models.Role]string{
		models.RoleAdmin:    "admin@example.com",
		models.RoleEditor:   "editor@example.com",
		models.RoleReporter: "reporter@example.com",
		models.RoleReader:   "reader@example.com",
	} {
		token, _, err := auth.Login(context.Background(), email, string(role)+"-pass")
		require.NoError(t, err)
		e.tokens[role] = token
	}

	cache := infra.NewMemoryCache()
	notifySvc := domain.NewNotificationService(e.notifications, users, e.interactions, e.pusher, e.events, time.Minute, log)
	articleSvc := domain.NewArticleService(e.articles, e.categories, cache, e.events, notifySvc, time.Minute, log)
	interactionSvc := domain.NewInteractionService(e.interactions)
	recommendSvc := domain.NewRecommendationService(e.interactions, e.articles, domain.RecommendationConfig{
		HalfLifeDays:  7,
		WindowDays:    14,
		TopCategories: 3,
		Weights: map[models.InteractionType]float64{
			models.InteractionView: 1,
			models.InteractionLike: 3,
		},
	})

	h := Handlers{
		Auth:          NewAuthHandler(auth, users, log),
		Articles:      NewArticleHandler(articleSvc, interactionSvc, e.views, domain.NewScheduler(articleSvc, time.Minute, log), log),
		Comments:      NewCommentHandler(domain.NewCommentService(e.comments, e.articles, e.interactions, notifySvc, log), log),
		Categories:    NewCategoryHandler(domain.NewCategoryService(e.categories, e.articles, cache), log),
		Notifications: NewNotificationHandler(notifySvc, recommendSvc, log),
		Media:         NewMediaHandler(domain.NewMediaService(portstest.NewMediaRepo()), log),
		Audio:         NewAudioHandler(domain.NewAudioNewsletterService(e.audio), log),
		Editorial: NewEditorialHandler(
			domain.NewReporterService(&portstest.ReporterRepo{}),
			domain.NewMuqtarabService(&portstest.MuqtarabRepo{}),
			domain.NewDashboardService(&portstest.StatsRepo{}),
			log,
		),
	}
	e.router = NewRouter(h, RouterConfig{
		Auth:        auth,
		CronSecret:  cronSecret,
		CORSOrigins: []string{"*"},
		Log:         log,
	})
	return e
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, path string, role models.Role, body any) (int, apiResponse) {
	t.Helper()
	return e.doWithHeaders(t, method, path, role, body, nil)
}

func (e *testEnv) doWithHeaders(t *testing.T, method, path string, role models.Role, body any, headers map[string]string) (int, apiResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+e.tokens[role])
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var resp apiResponse
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	}
	return rec.Code, resp
}

func decodeData[T any](t *testing.T, resp apiResponse) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Data, &v), string(resp.Data))
	return v
}

func (e *testEnv) putPublished(id string, breaking bool) models.Article {
	at := time.Now().Add(-time.Hour)
	a := models.Article{
		ID:          id,
		Title:       "خبر " + id,
		Slug:        "slug-" + id,
		Content:     "<p>نص الخبر</p>",
		CategoryID:  "cat-politics",
		AuthorID:    "editor-1",
		Status:      models.StatusPublished,
		Breaking:    breaking,
		PublishedAt: &at,
		CreatedAt:   at,
	}
	e.articles.Put(a)
	return a
}
