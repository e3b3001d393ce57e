package domain

import (
	"time"

	"github.com/Vovarama1992/newsroom/internal/infra"
	"github.com/Vovarama1992/newsroom/internal/logging"
	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports"
	"github.com/Vovarama1992/newsroom/internal/ports/portstest"
)

var (
	testNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	editor   = ports.Claims{UserID: "editor-1", Role: models.RoleEditor}
	reporter = ports.Claims{UserID: "reporter-1", Role: models.RoleReporter}
	reader   = ports.Claims{UserID: "reader-1", Role: models.RoleReader}
)

type fixture struct {
	articles      *portstest.ArticleRepo
	categories    *portstest.CategoryRepo
	interactions  *portstest.InteractionRepo
	notifications *portstest.NotificationRepo
	users         *portstest.UserRepo
	events        *portstest.Publisher
	pusher        *portstest.Pusher
	cache         *infra.MemoryCache

	articleSvc *ArticleService
	notifySvc  *NotificationService
}

func newFixture() *fixture {
	f := &fixture{
		articles:      portstest.NewArticleRepo(),
		categories:    portstest.NewCategoryRepo(),
		notifications: portstest.NewNotificationRepo(),
		users:         portstest.NewUserRepo(),
		events:        &portstest.Publisher{},
		pusher:        portstest.NewPusher(),
		cache:         infra.NewMemoryCache(),
	}
	f.interactions = portstest.NewInteractionRepo(f.articles)
	f.categories.Put(models.Category{ID: "cat-politics", Name: "سياسة", Slug: "politics", IsActive: true})
	f.categories.Put(models.Category{ID: "cat-sports", Name: "رياضة", Slug: "sports", IsActive: true})

	log := logging.Nop()
	f.notifySvc = NewNotificationService(f.notifications, f.users, f.interactions, f.pusher, f.events, 10*time.Second, log)
	f.notifySvc.now = func() time.Time { return testNow }

	f.articleSvc = NewArticleService(f.articles, f.categories, f.cache, f.events, f.notifySvc, time.Minute, log)
	f.articleSvc.now = func() time.Time { return testNow }
	return f
}

func ptr[T any](v T) *T { return &v }

func publishedArticle(id, categoryID string, publishedAt time.Time, views int64) models.Article {
	return models.Article{
		ID:          id,
		Title:       "مقال " + id,
		Slug:        id,
		Content:     "<p>نص</p>",
		CategoryID:  categoryID,
		AuthorID:    "editor-1",
		Status:      models.StatusPublished,
		PublishedAt: &publishedAt,
		CreatedAt:   publishedAt,
		Views:       views,
	}
}
