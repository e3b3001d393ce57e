package domain

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultRecommendationConfig() RecommendationConfig {
	return RecommendationConfig{
		HalfLifeDays:  7,
		WindowDays:    14,
		TopCategories: 3,
		Weights: map[models.InteractionType]float64{
			models.InteractionView:    1,
			models.InteractionLike:    3,
			models.InteractionSave:    5,
			models.InteractionShare:   4,
			models.InteractionComment: 4,
		},
	}
}

func newRecommendationService(f *fixture) *RecommendationService {
	s := NewRecommendationService(f.interactions, f.articles, defaultRecommendationConfig())
	s.now = func() time.Time { return testNow }
	return s
}

func TestInterestScores_WeightsAndDecay(t *testing.T) {
	s := newRecommendationService(newFixture())

	history := []models.Interaction{
		{Type: models.InteractionSave, CategoryID: "politics", CreatedAt: testNow},
		{Type: models.InteractionView, CategoryID: "politics", CreatedAt: testNow.Add(-7 * 24 * time.Hour)},
		{Type: models.InteractionLike, CategoryID: "sports", CreatedAt: testNow.Add(-14 * 24 * time.Hour)},
		{Type: models.InteractionShare, CategoryID: ""},
	}
	scores := s.InterestScores(history, testNow)

	require.Len(t, scores, 2)
	assert.Equal(t, "politics", scores[0].CategoryID)
	assert.InDelta(t, 5.5, scores[0].Score, 1e-9)
	assert.Equal(t, "sports", scores[1].CategoryID)
	assert.InDelta(t, 0.75, scores[1].Score, 1e-9)
}

func TestRecommend_RanksByInterestAndPopularity(t *testing.T) {
	f := newFixture()
	s := newRecommendationService(f)
	ctx := context.Background()

	f.articles.Put(publishedArticle("seen", "cat-politics", testNow.Add(-time.Hour), 1000))
	f.articles.Put(publishedArticle("p-hot", "cat-politics", testNow.Add(-2*time.Hour), 100))
	f.articles.Put(publishedArticle("p-cold", "cat-politics", testNow.Add(-time.Hour), 0))
	f.articles.Put(publishedArticle("s-hot", "cat-sports", testNow.Add(-time.Hour), 100))
	f.articles.Put(publishedArticle("p-old", "cat-politics", testNow.Add(-20*24*time.Hour), 5000))
	f.articles.Put(publishedArticle("other", "cat-economy", testNow.Add(-time.Hour), 9000))

	f.interactions.Add(models.Interaction{UserID: "u1", ArticleID: "seen", Type: models.InteractionView, CreatedAt: testNow.Add(-time.Hour)})
	f.interactions.Add(models.Interaction{UserID: "u1", ArticleID: "seen", Type: models.InteractionSave, CreatedAt: testNow.Add(-time.Hour)})
	f.interactions.Add(models.Interaction{UserID: "u1", ArticleID: "s-hot", Type: models.InteractionLike, CreatedAt: testNow.Add(-time.Hour)})

	recs, err := s.Recommend(ctx, "u1", 10)
	require.NoError(t, err)

	ids := make([]string, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.ID)
	}
	// s-hot was liked but not viewed, so it stays eligible
	assert.Equal(t, []string{"p-hot", "s-hot", "p-cold"}, ids)

	politics := recs[0].Score / (1 + math.Log1p(100))
	assert.InDelta(t, politics, recs[2].Score, 1e-9)
}

func TestRecommend_ColdStartFallsBackToPopular(t *testing.T) {
	f := newFixture()
	s := newRecommendationService(f)

	f.articles.Put(publishedArticle("a", "cat-politics", testNow.Add(-time.Hour), 5))
	f.articles.Put(publishedArticle("b", "cat-sports", testNow.Add(-time.Hour), 50))
	f.articles.Put(publishedArticle("old", "cat-sports", testNow.Add(-30*24*time.Hour), 500))

	recs, err := s.Recommend(context.Background(), "new-user", 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "b", recs[0].ID)
	assert.Equal(t, "a", recs[1].ID)
}
