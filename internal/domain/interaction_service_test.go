package domain

import (
	"context"
	"testing"
	"time"

	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleSave_CounterMovesByOne(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.articles.Put(publishedArticle("a1", "cat-politics", testNow, 0))
	svc := NewInteractionService(f.interactions)

	res, err := svc.ToggleSave(ctx, "u1", "a1")
	require.NoError(t, err)
	assert.Equal(t, ToggleResult{Active: true, Count: 1}, res)

	res, err = svc.ToggleSave(ctx, "u2", "a1")
	require.NoError(t, err)
	assert.Equal(t, ToggleResult{Active: true, Count: 2}, res)

	res, err = svc.ToggleSave(ctx, "u1", "a1")
	require.NoError(t, err)
	assert.Equal(t, ToggleResult{Active: false, Count: 1}, res)

	assert.Equal(t, int64(1), f.articles.Snapshot("a1").Saves)
	assert.Equal(t, int64(0), f.articles.Snapshot("a1").Likes)
}

func TestToggleLike_NeverBelowZero(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	svc := NewInteractionService(f.interactions)

	// counter drifted to zero while a like row still exists
	f.articles.Put(publishedArticle("a1", "cat-politics", testNow, 0))
	f.interactions.Add(models.Interaction{UserID: "u1", ArticleID: "a1", Type: models.InteractionLike, CreatedAt: testNow})

	res, err := svc.ToggleLike(ctx, "u1", "a1")
	require.NoError(t, err)
	assert.False(t, res.Active)
	assert.Equal(t, int64(0), res.Count)
}

func TestToggle_UnknownArticle(t *testing.T) {
	f := newFixture()
	svc := NewInteractionService(f.interactions)

	_, err := svc.ToggleLike(context.Background(), "u1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ToggleLike(context.Background(), "", "a1")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestShareAndSaved(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	svc := NewInteractionService(f.interactions)

	f.articles.Put(publishedArticle("a1", "cat-politics", testNow.Add(-time.Hour), 0))
	f.articles.Put(publishedArticle("a2", "cat-politics", testNow, 0))

	n, err := svc.Share(ctx, "u1", "a1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = svc.Share(ctx, "u1", "a1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = svc.ToggleSave(ctx, "u1", "a1")
	require.NoError(t, err)
	_, err = svc.ToggleSave(ctx, "u1", "a2")
	require.NoError(t, err)

	saved, err := svc.Saved(ctx, "u1", Page{})
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, "a2", saved[0].ID)

	empty, err := svc.Saved(ctx, "nobody", Page{})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
