package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addActivity(f *fixture, userID, categoryID string, at time.Time) {
	id := fmt.Sprintf("seen-%s-%s-%d", userID, categoryID, at.Unix())
	f.articles.Put(publishedArticle(id, categoryID, at, 0))
	f.interactions.Add(models.Interaction{UserID: userID, ArticleID: id, Type: models.InteractionView, CreatedAt: at})
}

func TestNotifyArticlePublished_TargetsCategoryAudience(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	addActivity(f, "u1", "cat-politics", testNow.Add(-24*time.Hour))
	addActivity(f, "u2", "cat-politics", testNow.Add(-40*24*time.Hour)) // too old
	addActivity(f, "u3", "cat-sports", testNow.Add(-time.Hour))
	addActivity(f, "editor-1", "cat-politics", testNow.Add(-time.Hour)) // the author

	a := publishedArticle("news", "cat-politics", testNow, 0)
	n, err := f.notifySvc.NotifyArticlePublished(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	all := f.notifications.All()
	require.Len(t, all, 1)
	assert.Equal(t, "u1", all[0].UserID)
	assert.Equal(t, models.NotificationNewArticle, all[0].Type)
	assert.Equal(t, "news", *all[0].ArticleID)

	require.Equal(t, 1, f.pusher.Count("u1"))
	var msg PushMessage
	require.NoError(t, json.Unmarshal(f.pusher.Pushed["u1"][0], &msg))
	assert.Equal(t, "notification", msg.Type)
	assert.Len(t, f.events.Notifications, 1)

	// publishing the same article again notifies nobody twice
	n, err = f.notifySvc.NotifyArticlePublished(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Len(t, f.notifications.All(), 1)
}

func TestNotifyArticlePublished_BreakingReachesEveryone(t *testing.T) {
	f := newFixture()
	f.users.AddUser("u1", "u1@example.com", "password1", models.RoleReader)
	f.users.AddUser("u2", "u2@example.com", "password1", models.RoleReader)
	f.users.AddUser("u3", "u3@example.com", "password1", models.RoleReader)
	f.users.AddUser("editor-1", "ed@example.com", "password1", models.RoleEditor)
	f.users.Deactivate("u3")
	addActivity(f, "u1", "cat-politics", testNow.Add(-time.Hour))

	a := publishedArticle("flash", "cat-politics", testNow, 0)
	a.Breaking = true
	n, err := f.notifySvc.NotifyArticlePublished(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, item := range f.notifications.All() {
		assert.Equal(t, models.NotificationBreaking, item.Type)
		assert.Equal(t, "high", item.Priority)
		assert.NotEqual(t, "editor-1", item.UserID)
		assert.NotEqual(t, "u3", item.UserID)
	}
}

func TestNotifyArticlePublished_InsertsInChunks(t *testing.T) {
	f := newFixture()
	for i := 0; i < 1203; i++ {
		addActivity(f, fmt.Sprintf("u%04d", i), "cat-politics", testNow.Add(-time.Hour))
	}

	n, err := f.notifySvc.NotifyArticlePublished(context.Background(), publishedArticle("big", "cat-politics", testNow, 0))
	require.NoError(t, err)
	assert.Equal(t, 1203, n)

	sizes := map[int]int{}
	for _, b := range f.notifications.InsertBatches {
		sizes[len(b)]++
	}
	assert.Equal(t, map[int]int{500: 2, 203: 1}, sizes)
}

func TestNotifyArticlePublished_StoreFailure(t *testing.T) {
	f := newFixture()
	addActivity(f, "u1", "cat-politics", testNow.Add(-time.Hour))
	f.notifications.InsertErr = errors.New("db down")

	_, err := f.notifySvc.NotifyArticlePublished(context.Background(), publishedArticle("x", "cat-politics", testNow, 0))
	assert.Error(t, err)
	assert.Equal(t, 0, f.pusher.Count("u1"))
}

func TestUnreadCount_CachedAndInvalidated(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	addActivity(f, "u1", "cat-politics", testNow.Add(-time.Hour))

	n, err := f.notifySvc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	_, _ = f.notifySvc.UnreadCount(ctx, "u1")
	assert.Equal(t, 1, f.notifications.UnreadQueries)

	_, err = f.notifySvc.NotifyArticlePublished(ctx, publishedArticle("a1", "cat-politics", testNow, 0))
	require.NoError(t, err)
	_, err = f.notifySvc.NotifyArticlePublished(ctx, publishedArticle("a2", "cat-politics", testNow, 0))
	require.NoError(t, err)

	n, err = f.notifySvc.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, f.notifications.UnreadQueries)

	page, err := f.notifySvc.List(ctx, "u1", true, Page{})
	require.NoError(t, err)
	require.Equal(t, 2, page.Total)

	marked, err := f.notifySvc.MarkRead(ctx, "u1", []string{page.Items[0].ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), marked)
	n, _ = f.notifySvc.UnreadCount(ctx, "u1")
	assert.Equal(t, 1, n)

	// entries expire after the ttl
	f.notifySvc.now = func() time.Time { return testNow.Add(11 * time.Second) }
	_, _ = f.notifySvc.UnreadCount(ctx, "u1")
	assert.Equal(t, 4, f.notifications.UnreadQueries)

	marked, err = f.notifySvc.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), marked)
	n, _ = f.notifySvc.UnreadCount(ctx, "u1")
	assert.Equal(t, 0, n)

	_, err = f.notifySvc.MarkRead(ctx, "u1", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNotifyCommentReply(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	parent := models.Comment{ID: "c1", ArticleID: "a1", UserID: "u1"}
	require.NoError(t, f.notifySvc.NotifyCommentReply(ctx, parent, models.Comment{ID: "c2", ArticleID: "a1", UserID: "u1"}))
	assert.Empty(t, f.notifications.All())

	require.NoError(t, f.notifySvc.NotifyCommentReply(ctx, parent, models.Comment{ID: "c3", ArticleID: "a1", UserID: "u2", Content: "أوافق"}))
	require.NoError(t, f.notifySvc.NotifyCommentReply(ctx, parent, models.Comment{ID: "c4", ArticleID: "a1", UserID: "u3", Content: "لا أوافق"}))

	all := f.notifications.All()
	require.Len(t, all, 2)
	assert.Equal(t, models.NotificationCommentReply, all[0].Type)
	assert.Equal(t, 2, f.pusher.Count("u1"))
}
