package domain

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports"
)

type RecommendationConfig struct {
	HalfLifeDays  float64
	WindowDays    int
	TopCategories int
	Weights       map[models.InteractionType]float64
}

// Recommendation is an article with the score that ranked it.
type Recommendation struct {
	models.Article
	Score float64 `json:"score"`
}

type CategoryScore struct {
	CategoryID string  `json:"category_id"`
	Score      float64 `json:"score"`
}

type RecommendationService struct {
	interactions ports.InteractionRepository
	articles     ports.ArticleRepository
	cfg          RecommendationConfig
	now          func() time.Time
}

func NewRecommendationService(
	interactions ports.InteractionRepository,
	articles ports.ArticleRepository,
	cfg RecommendationConfig,
) *RecommendationService {
	return &RecommendationService{
		interactions: interactions,
		articles:     articles,
		cfg:          cfg,
		now:          time.Now,
	}
}

// InterestScores sums weight(type) * 0.5^(age/halfLife) per category over
// the user's interactions, highest first.
func (s *RecommendationService) InterestScores(history []models.Interaction, now time.Time) []CategoryScore {
	byCategory := map[string]float64{}
	for _, it := range history {
		if it.CategoryID == "" {
			continue
		}
		w := s.cfg.Weights[it.Type]
		if w == 0 {
			continue
		}
		byCategory[it.CategoryID] += w * decay(now.Sub(it.CreatedAt), s.cfg.HalfLifeDays)
	}

	out := make([]CategoryScore, 0, len(byCategory))
	for id, score := range byCategory {
		out = append(out, CategoryScore{CategoryID: id, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].CategoryID < out[j].CategoryID
	})
	return out
}

func decay(age time.Duration, halfLifeDays float64) float64 {
	if halfLifeDays <= 0 {
		return 1
	}
	days := age.Hours() / 24
	if days < 0 {
		days = 0
	}
	return math.Pow(0.5, days/halfLifeDays)
}

// Recommend ranks recent published articles from the user's strongest
// categories, skipping what the user already viewed. Users with no history
// get the most viewed recent articles.
func (s *RecommendationService) Recommend(ctx context.Context, userID string, limit int) ([]Recommendation, error) {
	limit = NewPage(1, limit).Limit
	now := s.now()
	since := now.AddDate(0, 0, -s.cfg.WindowDays)

	// history reaches back further than the article window so older interests still count
	history, err := s.interactions.ListSince(ctx, userID, now.Add(-historyWindow(s.cfg.HalfLifeDays)))
	if err != nil {
		return nil, err
	}

	scores := s.InterestScores(history, now)
	if len(scores) > s.cfg.TopCategories {
		scores = scores[:s.cfg.TopCategories]
	}
	if len(scores) == 0 {
		return s.popular(ctx, since, limit)
	}

	weight := make(map[string]float64, len(scores))
	categories := make([]string, 0, len(scores))
	for _, c := range scores {
		weight[c.CategoryID] = c.Score
		categories = append(categories, c.CategoryID)
	}

	seen := map[string]struct{}{}
	for _, it := range history {
		if it.Type == models.InteractionView {
			seen[it.ArticleID] = struct{}{}
		}
	}
	exclude := make([]string, 0, len(seen))
	for id := range seen {
		exclude = append(exclude, id)
	}
	sort.Strings(exclude)

	candidates, _, err := s.articles.List(ctx, ports.ArticleFilter{
		Status:         models.StatusPublished,
		CategoryIDs:    categories,
		PublishedAfter: &since,
		ExcludeIDs:     exclude,
		Sort:           ports.SortPublishedAt,
		Limit:          maxLimit,
	})
	if err != nil {
		return nil, err
	}

	out := make([]Recommendation, 0, len(candidates))
	for _, a := range candidates {
		out = append(out, Recommendation{
			Article: a,
			Score:   weight[a.CategoryID] * (1 + math.Log1p(float64(a.Views))),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return publishedAt(out[i].Article).After(publishedAt(out[j].Article))
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *RecommendationService) popular(ctx context.Context, since time.Time, limit int) ([]Recommendation, error) {
	items, _, err := s.articles.List(ctx, ports.ArticleFilter{
		Status:         models.StatusPublished,
		PublishedAfter: &since,
		Sort:           ports.SortViews,
		Limit:          limit,
	})
	if err != nil {
		return nil, err
	}
	out := make([]Recommendation, 0, len(items))
	for _, a := range items {
		out = append(out, Recommendation{Article: a, Score: math.Log1p(float64(a.Views))})
	}
	return out, nil
}

// historyWindow keeps interactions until their weight falls under 1/64.
func historyWindow(halfLifeDays float64) time.Duration {
	if halfLifeDays <= 0 {
		halfLifeDays = 7
	}
	return time.Duration(6*halfLifeDays*24) * time.Hour
}

func publishedAt(a models.Article) time.Time {
	if a.PublishedAt != nil {
		return *a.PublishedAt
	}
	return a.CreatedAt
}
