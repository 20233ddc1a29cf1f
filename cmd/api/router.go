package main

import (
	"context"
	"net/http"
	"time"

	"catalog-backend/internal/shared/middleware"
	"catalog-backend/pkg/container"

	"github.com/gin-gonic/gin"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.CORS.AllowedOrigins),
	)
	// Multipart uploads above this spill to temp files.
	router.MaxMultipartMemory = c.Config.Storage.MaxUploadBytes

	// Image files are served outside /api so stored URLs stay short.
	c.ImageHandler.RegisterPublic(router)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		c.AuthHandler.RegisterRoutes(v1)
		c.CategoryHandler.RegisterPublic(v1.Group("/categories"))
		c.ProductHandler.RegisterPublic(v1)

		setupAdminRoutes(v1, c)
	}

	return router
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(
		middleware.AuthMiddleware(c.JWTManager, c.AuthService),
		middleware.AdminMiddleware(),
	)

	c.CategoryHandler.RegisterAdmin(admin.Group("/categories"))

	products := admin.Group("/products")
	c.ProductHandler.RegisterAdmin(products)
	c.ImageHandler.RegisterAdmin(products)

	c.MigrationHandler.RegisterAdmin(admin.Group("/migration"))
}

// ========================================
// HEALTH CHECK
// ========================================

// healthProbe checks one dependency. Only required probes turn the
// endpoint into a 503; Redis is optional for the catalog.
type healthProbe struct {
	name     string
	required bool
	check    func(ctx context.Context) string
}

func healthProbes(appCtx *container.Container) []healthProbe {
	return []healthProbe{
		{name: "database", required: true, check: func(ctx context.Context) string {
			if appCtx.DB == nil || appCtx.DB.Pool == nil {
				return "disconnected"
			}
			return pingStatus(appCtx.DB.Ping(ctx))
		}},
		{name: "redis", check: func(ctx context.Context) string {
			if appCtx.Redis == nil {
				return "disabled"
			}
			return pingStatus(appCtx.Redis.HealthCheck(ctx))
		}},
	}
}

func pingStatus(err error) string {
	if err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}

func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	probes := healthProbes(appCtx)

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		services := gin.H{
			"storage": appCtx.Storage.Primary().Kind(),
			"s3":      appCtx.Storage.HasRemote(),
		}
		status, code := "ok", http.StatusOK
		for _, p := range probes {
			result := p.check(ctx)
			services[p.name] = result
			if p.required && result != "ok" {
				status, code = "degraded", http.StatusServiceUnavailable
			}
		}

		c.JSON(code, gin.H{
			"status":    status,
			"version":   appCtx.Config.App.Version,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"services":  services,
		})
	}
}
