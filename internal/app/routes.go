package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/sitecms/internal/middleware"
	"github.com/mx-space/sitecms/internal/modules/auth/auth"
	"github.com/mx-space/sitecms/internal/modules/content/comment"
	"github.com/mx-space/sitecms/internal/modules/content/page"
	"github.com/mx-space/sitecms/internal/modules/content/site"
	"github.com/mx-space/sitecms/internal/modules/stats/dashboard"
	"github.com/mx-space/sitecms/internal/modules/storage/media"
	"github.com/mx-space/sitecms/internal/modules/system/admin"
	"github.com/mx-space/sitecms/internal/modules/system/docs"
	"github.com/mx-space/sitecms/internal/modules/system/health"
	"github.com/mx-space/sitecms/internal/pkg/assetstore"
	jwtpkg "github.com/mx-space/sitecms/internal/pkg/jwt"
	"github.com/mx-space/sitecms/internal/pkg/response"
)

const (
	apiVersion = "1.0.0"
	docsPath   = "/api-docs"
)

func (a *App) registerRoutes(store assetstore.Store) error {
	r := a.router
	db := a.db
	log := a.logger
	cfg := a.cfg

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Endpoint not found")
	})
	r.NoMethod(func(c *gin.Context) {
		response.Error(c, http.StatusMethodNotAllowed, "Method not allowed")
	})

	secret, _ := cfg.Secret()
	signer := jwtpkg.NewSigner(secret, cfg.Auth.TokenTTL)
	authMW := middleware.Auth(signer)
	adminMW := middleware.RequireAdmin()

	limiter := a.newLimiter()
	authLimit := middleware.RateLimit(limiter, "auth", log)
	commentLimit := middleware.RateLimit(limiter, "comments", log)

	mediaSvc := media.NewService(db, store,
		media.WithLogger(log),
		media.WithKeyPrefix(cfg.Media.Prefix),
		media.WithMaxSize(cfg.Media.MaxSizeBytes()),
	)
	siteSvc := site.NewService(db, mediaSvc, log)
	authSvc := auth.NewService(db, signer,
		auth.WithLogger(log),
		auth.WithAdminSignup(cfg.Auth.AllowAdminSignup),
	)
	a.registerJobs(mediaSvc)

	info := func(c *gin.Context) {
		response.OK(c, gin.H{
			"message": "CMS Backend API is running!",
			"version": apiVersion,
			"endpoints": gin.H{
				"auth":     "/api/auth",
				"sites":    "/api/sites",
				"pages":    "/api/pages",
				"media":    "/api/media",
				"comments": "/api/comments",
				"admin":    "/api/admin",
				"stats":    "/api/stats",
				"health":   "/api/health",
				"docs":     docsPath,
			},
		})
	}
	r.GET("/", info)

	api := r.Group("/api")
	api.GET("", info)
	api.GET("/ping", func(c *gin.Context) {
		response.OK(c, gin.H{"data": "pong"})
	})

	auth.NewHandler(authSvc).RegisterRoutes(api, authMW, authLimit)
	site.NewHandler(siteSvc).RegisterRoutes(api, authMW)
	page.NewHandler(page.NewService(db, log)).RegisterRoutes(api, authMW)
	media.NewHandler(mediaSvc).RegisterRoutes(api, authMW)
	comment.NewHandler(comment.NewService(db, log)).RegisterRoutes(api, authMW, adminMW, commentLimit)
	admin.NewHandler(admin.NewService(db, mediaSvc, log), siteSvc, a.sched).RegisterRoutes(api, authMW, adminMW)
	dashboard.NewHandler(dashboard.NewService(db, a.loc)).RegisterRoutes(api, authMW)
	health.NewHandler(db, a.redis, cfg.LogDir()).RegisterRoutes(api, authMW, adminMW)

	apiDocs, err := docs.NewHandler(docsPath)
	if err != nil {
		return err
	}
	apiDocs.RegisterRoutes(r, docsPath)
	return nil
}

// newLimiter shares counters through Redis when it is configured and falls
// back to a per-process limiter. A non-positive budget disables limiting.
func (a *App) newLimiter() middleware.Limiter {
	rl := a.cfg.RateLimit
	if rl.Requests <= 0 || rl.Window <= 0 {
		return nil
	}
	if a.redis != nil {
		return middleware.NewRedisLimiter(a.redis, rl.Requests, rl.Window)
	}
	return middleware.NewMemoryLimiter(rl.Requests, rl.Window)
}
