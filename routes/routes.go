package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gocongress/prizes-sub001/handlers"
	"github.com/gocongress/prizes-sub001/middleware"
	"github.com/gocongress/prizes-sub001/models"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Dependencies struct {
	AuthHandler       *handlers.AuthHandler
	PlayerHandler     *handlers.PlayerHandler
	PrizeHandler      *handlers.PrizeHandler
	EventHandler      *handlers.EventHandler
	AwardHandler      *handlers.AwardHandler
	PreferenceHandler *handlers.PreferenceHandler
	ResultHandler     *handlers.ResultHandler
	WebhookHandler    *handlers.WebhookHandler
	WebSocketHandler  *handlers.WebSocketHandler

	Authenticator *middleware.Authenticator
	RateLimiter   *middleware.RateLimiter
	ResponseCache *middleware.ResponseCache

	CORSAllowedOrigins []string
}

func SetupRoutes(router *chi.Mux, deps Dependencies) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Registration-Signature"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Post("/auth/register", deps.AuthHandler.Register)
	router.Post("/auth/login", deps.AuthHandler.Login)

	// Вебхук внешней регистрации: аутентификация по HMAC-подписи тела.
	router.Post("/webhooks/registration", deps.WebhookHandler.HandleRegistration)

	// Публичные таблицы: лимитер и короткий кэш на пике после раунда.
	router.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.Middleware)
		r.Use(deps.ResponseCache.Middleware)

		r.Get("/events", deps.EventHandler.List)
		r.Get("/events/{eventID}", deps.EventHandler.GetByID)
		r.Get("/events/{eventID}/awards", deps.EventHandler.ListAwards)
		r.Get("/prizes", deps.PrizeHandler.List)
		r.Get("/prizes/{prizeID}", deps.PrizeHandler.GetByID)
		r.Get("/results/{resultID}", deps.ResultHandler.GetDetail)
	})

	// Портал игрока: всё от имени привязанного к аккаунту игрока.
	router.Group(func(r chi.Router) {
		r.Use(deps.Authenticator.Authenticate)

		r.Get("/auth/me", deps.AuthHandler.Me)
		r.Post("/auth/logout", deps.AuthHandler.Logout)

		r.Get("/me/awards", deps.PreferenceHandler.ListMyAwards)
		r.Get("/me/preferences", deps.PreferenceHandler.ListMine)
		r.Put("/me/preferences/{awardID}", deps.PreferenceHandler.SetOrder)
		r.Delete("/me/preferences/{awardID}", deps.PreferenceHandler.Remove)
	})

	// Админские маршруты.
	router.Group(func(r chi.Router) {
		r.Use(deps.Authenticator.Authenticate)
		r.Use(middleware.Authorize(models.RoleAdmin))
		r.Use(invalidateCacheOnWrite(deps.ResponseCache))

		r.Get("/players", deps.PlayerHandler.List)
		r.Get("/players/{playerID}", deps.PlayerHandler.GetByID)
		r.Patch("/players/{playerID}/rank", deps.PlayerHandler.CorrectRank)
		r.Get("/players/{playerID}/preferences", deps.PreferenceHandler.ListForPlayer)

		r.Post("/prizes", deps.PrizeHandler.Create)
		r.Put("/prizes/{prizeID}", deps.PrizeHandler.Update)
		r.Delete("/prizes/{prizeID}", deps.PrizeHandler.Delete)

		r.Post("/events", deps.EventHandler.Create)
		r.Put("/events/{eventID}", deps.EventHandler.Update)
		r.Delete("/events/{eventID}", deps.EventHandler.Delete)

		r.Post("/awards", deps.AwardHandler.Create)
		r.Get("/awards/{awardID}", deps.AwardHandler.GetByID)
		r.Delete("/awards/{awardID}", deps.AwardHandler.Delete)

		r.Post("/results", deps.ResultHandler.Create)
		r.Put("/results/{resultID}/winners", deps.ResultHandler.UpdateWinners)
		r.Post("/results/{resultID}/recompute", deps.ResultHandler.Recompute)
		r.Put("/results/{resultID}/awards/{awardID}/override", deps.ResultHandler.Override)
		r.Post("/results/{resultID}/lock", deps.ResultHandler.Lock)
		r.Post("/results/{resultID}/unlock", deps.ResultHandler.Unlock)
		r.Post("/results/{resultID}/finalize", deps.ResultHandler.Finalize)
		r.Post("/results/{resultID}/export", deps.ResultHandler.Export)
	})

	router.Get("/ws/results/{resultID}", deps.WebSocketHandler.ServeWs)

	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
}

// invalidateCacheOnWrite сбрасывает публичный кэш после любой админской
// записи: таблицы должны отражать правку сразу, а не по истечении TTL.
func invalidateCacheOnWrite(cache *middleware.ResponseCache) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if r.Method != http.MethodGet {
				cache.Invalidate()
			}
		})
	}
}
