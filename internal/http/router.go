package http

import (
	"context"
	"database/sql"
	"time"

	"github.com/folioworks/portfolio-api/internal/auth"
	"github.com/folioworks/portfolio-api/internal/cache"
	"github.com/folioworks/portfolio-api/internal/config"
	"github.com/folioworks/portfolio-api/internal/domain/user"
	"github.com/folioworks/portfolio-api/internal/http/handlers"
	"github.com/folioworks/portfolio-api/internal/http/middlewares"
	"github.com/folioworks/portfolio-api/internal/observability"
	"github.com/folioworks/portfolio-api/internal/repo/sqlite"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const (
	maxBodyBytes   = 1 << 20 // 1 MiB request bodies are plenty for JSON payloads
	readCacheTTL   = 30 * time.Second
	loginRateLimit = 5
	loginRateSpan  = time.Minute
)

func NewRouter(cfg config.Config, pool *sql.DB, jwtManager *auth.Manager, reg *prometheus.Registry) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	mx := observability.NewProm(reg)

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequireJSON())
	r.Use(mx.GinHandleMiddleware())
	r.Use(otelgin.Middleware("portfolio-api"))

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.PingContext(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	r.GET("/swagger", handlers.SwaggerUI)
	r.GET("/docs/openapi.yaml", handlers.OpenAPISpec)

	// wire up repositories
	usersRepo := sqlite.NewUsersRepo(pool, mx)
	projectsRepo := sqlite.NewProjectsRepo(pool, mx)
	skillsRepo := sqlite.NewSkillsRepo(pool, mx)
	heroBannerRepo := sqlite.NewHeroBannerRepo(pool, mx)
	blogRepo := sqlite.NewBlogRepo(pool, mx)
	aboutMeRepo := sqlite.NewAboutMeRepo(pool, mx)

	readCache := cache.New(readCacheTTL)

	// handlers
	authHandler := handlers.NewAuthHandler(usersRepo, jwtManager)
	projectsHandler := handlers.NewProjectsHandler(projectsRepo)
	skillsHandler := handlers.NewSkillsHandler(skillsRepo)
	heroBannerHandler := handlers.NewHeroBannerHandler(heroBannerRepo, readCache)
	blogHandler := handlers.NewBlogHandler(blogRepo)
	aboutMeHandler := handlers.NewAboutMeHandler(aboutMeRepo, readCache)

	// auth: brute-force protection on the single login endpoint
	loginLimiter := middlewares.NewRateLimiter(loginRateLimit, loginRateSpan)
	r.POST("/auth/login", loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Login)

	// public read surface
	r.GET("/projects", projectsHandler.ListProjects)
	r.GET("/projects/:id", projectsHandler.GetProjectByID)
	r.GET("/skills", skillsHandler.ListSkills)
	r.GET("/skills/:id", skillsHandler.GetSkillByID)
	r.GET("/hero-banner", heroBannerHandler.ListTexts)
	r.GET("/hero-banner/:id", heroBannerHandler.GetTextByID)
	r.GET("/blog", blogHandler.ListPosts)
	r.GET("/blog/:id", blogHandler.GetPostByID)
	r.GET("/about-me", aboutMeHandler.GetAboutMe)

	// admin-only mutations
	am := middlewares.NewAuthMiddleware(jwtManager)
	admin := r.Group("/", am.RequireAuth(), am.RequireRole(user.RoleAdmin))

	admin.POST("/projects", projectsHandler.CreateProject)
	admin.PUT("/projects/:id", projectsHandler.UpdateProject)
	admin.DELETE("/projects/:id", projectsHandler.DeleteProject)

	admin.POST("/skills", skillsHandler.CreateSkill)
	admin.PUT("/skills/:id", skillsHandler.UpdateSkill)
	admin.DELETE("/skills/:id", skillsHandler.DeleteSkill)

	admin.POST("/hero-banner", heroBannerHandler.CreateText)
	admin.PUT("/hero-banner/:id", heroBannerHandler.UpdateText)
	admin.DELETE("/hero-banner/:id", heroBannerHandler.DeleteText)

	admin.POST("/blog", blogHandler.CreatePost)
	admin.PUT("/blog/:id", blogHandler.UpdatePost)
	admin.DELETE("/blog/:id", blogHandler.DeletePost)

	admin.PUT("/about-me", aboutMeHandler.UpdateAboutMe)

	return r
}
