package models

type ArticleStat struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Views int64  `json:"views"`
}

type DashboardStats struct {
	ArticlesByStatus map[ArticleStatus]int64 `json:"articles_by_status"`
	TotalViews       int64                   `json:"total_views"`
	Users            int64                   `json:"users"`
	PendingComments  int64                   `json:"pending_comments"`
	TopArticles      []ArticleStat           `json:"top_articles"`
}
