package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/campusbites/canteenhub/internal/account"
	"github.com/campusbites/canteenhub/internal/auth"
	"github.com/campusbites/canteenhub/internal/cache"
	"github.com/campusbites/canteenhub/internal/config"
	"github.com/campusbites/canteenhub/internal/domain/user"
	"github.com/campusbites/canteenhub/internal/http/handlers"
	"github.com/campusbites/canteenhub/internal/http/middlewares"
	"github.com/campusbites/canteenhub/internal/observability"
	"github.com/campusbites/canteenhub/internal/redisclient"
	"github.com/campusbites/canteenhub/internal/repo/memory"
	"github.com/campusbites/canteenhub/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxRequestBody = 1 << 20 // 1 MiB

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, rdb *redisclient.Client, cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// own registry per router so tests can build routers freely
	registry := prometheus.NewRegistry()
	prom := observability.NewProm(registry)

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(maxRequestBody))
	r.Use(middlewares.RequireJSON())
	r.Use(otelgin.Middleware("canteenhub"))
	r.Use(prom.GinHandleMiddleware())

	// health + metrics

	ping := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		if pool != nil {
			if err := pool.Ping(ctx); err != nil {
				return err
			}
		}

		if rdb != nil {
			return rdb.Ping(ctx)
		}

		return nil
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// wire up stores; without a pool everything runs in memory (tests,
	// local poking around)

	var users account.UserStore
	var feedbackStore handlers.FeedbackStore

	if pool != nil {
		users = postgres.NewUsersRepo(pool, prom)
		feedbackStore = postgres.NewFeedbackRepo(pool, prom)
	} else {
		users = memory.NewUsersRepo()
		feedbackStore = memory.NewFeedbackRepo()
	}

	jwtManager := auth.NewManager(cfg.JWTSecret, time.Duration(cfg.JWTTTLMinutes)*time.Minute)
	accounts := account.NewService(users, jwtManager, log)

	authHandler := handlers.NewAuthHandler(accounts, prom)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackStore, cache.New(30*time.Second))

	authMiddleware := middlewares.NewAuthMiddleware(jwtManager)

	// brute-force protection on the credential endpoints: a local
	// fixed-window limiter always, the shared Redis throttle when
	// configured
	authLimiter := middlewares.NewRateLimiter(20, time.Minute)

	authGroup := r.Group("/")
	authGroup.Use(authLimiter.RateLimiterMiddleware(middlewares.KeyByIP))

	if rdb != nil {
		throttle := middlewares.NewLoginThrottle(rdb.Raw(), 50, 10*time.Minute)
		authGroup.Use(throttle.Middleware())
	}

	authGroup.POST("/signup", authHandler.SignUp)
	authGroup.POST("/login", authHandler.Login)

	// protected routes

	protected := r.Group("/")
	protected.Use(authMiddleware.RequireAuth())

	protected.GET("/profile", authHandler.Profile)
	protected.POST("/feedback/submitFeedback", feedbackHandler.Submit)
	protected.GET("/feedback/getUserFeedback", feedbackHandler.GetUserFeedback)

	admin := protected.Group("/")
	admin.Use(authMiddleware.RequireRole(user.RoleAdmin))
	admin.GET("/feedback/all", feedbackHandler.ListAll)

	return r
}
