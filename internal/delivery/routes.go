package delivery

import (
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Auth          *AuthHandler
	Articles      *ArticleHandler
	Comments      *CommentHandler
	Categories    *CategoryHandler
	Notifications *NotificationHandler
	Media         *MediaHandler
	Audio         *AudioHandler
	Editorial     *EditorialHandler
	WS            http.Handler
}

type RouterConfig struct {
	Auth        ports.AuthService
	CronSecret  string
	CORSOrigins []string
	Log         *logger.ZapLogger
}

var (
	staff       = RequireRole(models.RoleAdmin, models.RoleEditor, models.RoleReporter)
	adminEditor = RequireRole(models.RoleAdmin, models.RoleEditor)
)

func NewRouter(h Handlers, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Auth", "X-Cron-Secret"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(Observe(cfg.Log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeData(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	// the socket authenticates on its own query token
	if h.WS != nil {
		r.Handle("/ws", h.WS)
	}

	authn := AuthMiddleware(cfg.Auth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/articles", func(r chi.Router) {
			// cron callers carry a shared secret, not a user token
			r.With(CronAuth(cfg.CronSecret)).Post("/scheduled", h.Articles.PublishScheduled)

			r.Group(func(r chi.Router) {
				r.Use(authn)
				r.Get("/", h.Articles.List)
				r.Get("/slug/{slug}", h.Articles.GetBySlug)
				r.With(staff).Get("/scheduled", h.Articles.Scheduled)
				r.With(staff).Post("/", h.Articles.Create)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Articles.Get)
					r.Post("/view", h.Articles.View)
					r.Get("/comments", h.Comments.ListForArticle)

					r.Group(func(r chi.Router) {
						r.Use(RequireAuth)
						r.Post("/save", h.Articles.Save)
						r.Post("/like", h.Articles.Like)
						r.Post("/share", h.Articles.Share)
						r.Post("/comments", h.Comments.Create)
					})

					r.Group(func(r chi.Router) {
						r.Use(staff)
						r.Put("/", h.Articles.Update)
						r.Delete("/", h.Articles.Delete)
						r.Post("/status", h.Articles.ChangeStatus)
					})
				})
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(authn)

			r.Post("/auth/login", h.Auth.Login)
			r.Post("/auth/register", h.Auth.Register)
			r.With(RequireAuth).Get("/auth/me", h.Auth.Me)
			r.With(RequireRole(models.RoleAdmin)).Get("/auth/roles", h.Auth.Roles)

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", h.Categories.List)
				r.Get("/{slug}", h.Categories.GetBySlug)
				r.With(adminEditor).Post("/", h.Categories.Create)
				r.With(adminEditor).Put("/{id}", h.Categories.Update)
				r.With(adminEditor).Delete("/{id}", h.Categories.Delete)
			})

			r.Route("/comments", func(r chi.Router) {
				r.Use(adminEditor)
				r.Get("/", h.Comments.ListForModeration)
				r.Put("/{id}/status", h.Comments.Moderate)
				r.Delete("/{id}", h.Comments.Delete)
			})

			r.Group(func(r chi.Router) {
				r.Use(RequireAuth)
				r.Get("/user/saved", h.Articles.Saved)
				r.Get("/notifications", h.Notifications.List)
				r.Get("/notifications/unread-count", h.Notifications.UnreadCount)
				r.Post("/notifications/read", h.Notifications.MarkRead)
				r.Post("/notifications/read-all", h.Notifications.MarkAllRead)
				r.Get("/recommendations", h.Notifications.Recommendations)
			})

			r.Route("/media", func(r chi.Router) {
				r.Use(staff)
				r.Get("/folders", h.Media.ListFolders)
				r.Post("/folders", h.Media.CreateFolder)
				r.Delete("/folders/{id}", h.Media.DeleteFolder)
				r.Get("/", h.Media.ListAssets)
				r.Post("/", h.Media.RegisterAsset)
				r.Get("/{id}", h.Media.GetAsset)
				r.Delete("/{id}", h.Media.DeleteAsset)
			})

			r.Route("/audio-newsletters", func(r chi.Router) {
				r.Get("/", h.Audio.List)
				r.Get("/{id}", h.Audio.Get)
				r.Post("/{id}/play", h.Audio.Play)

				r.Group(func(r chi.Router) {
					r.Use(adminEditor)
					r.Post("/", h.Audio.Create)
					r.Post("/{id}/publish", h.Audio.SetPublished)
					r.Post("/{id}/feature", h.Audio.Feature)
					r.Delete("/{id}", h.Audio.Delete)
				})
			})

			r.Get("/reporters", h.Editorial.Reporters)
			r.Get("/reporters/{slug}", h.Editorial.Reporter)

			r.Route("/muqtarab/corners", func(r chi.Router) {
				r.Get("/", h.Editorial.Corners)
				r.Get("/{slug}", h.Editorial.Corner)
				r.Get("/{slug}/articles", h.Editorial.CornerArticles)
				r.With(staff).Post("/{slug}/articles", h.Editorial.CreateCornerArticle)
			})

			r.With(adminEditor).Get("/dashboard/stats", h.Editorial.Stats)
		})
	})

	return r
}
