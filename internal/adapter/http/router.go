package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/luckydevstar/custom-frame-sizes-sub010/configs"
	"github.com/luckydevstar/custom-frame-sizes-sub010/internal/adapter/http/middleware"
	"github.com/luckydevstar/custom-frame-sizes-sub010/internal/logging"
)

func NewRouter(
	cfg configs.Config,
	sh *StorefrontHandler,
	fh *OrderFileHandler,
	th *TokenHandler,
	authz *middleware.Authz,
	limiter *middleware.RateLimiter,
) *gin.Engine {
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.Metrics())
	r.Use(middleware.Logging(logging.New("http")))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/api/token", th.IssueToken)

	api := r.Group("/api")
	{
		api.POST("/cart", limiter.Limit(middleware.BucketCart), sh.CreateCart)
		api.DELETE("/cart", limiter.Limit(middleware.BucketCart), sh.ClearCart)
		api.POST("/checkout", limiter.Limit(middleware.BucketCheckout), sh.CreateCheckout)

		// Both registrations so a missing :id is a validation error, not a
		// bare 404 from the router.
		api.GET("/orders/files", limiter.Limit(middleware.BucketOrderFiles), fh.GetByID)
		api.GET("/orders/files/:id", limiter.Limit(middleware.BucketOrderFiles), fh.GetByID)

		api.POST("/orders/files", authz.Require("orders.files.write"), fh.Create)
	}

	return r
}
