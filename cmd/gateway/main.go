package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/corpdesk/corpdesk/internal/config"
	"github.com/corpdesk/corpdesk/internal/gateway"
	"github.com/corpdesk/corpdesk/internal/tokens"
	"github.com/corpdesk/corpdesk/pkg/logger"
	"github.com/corpdesk/corpdesk/pkg/metrics"
	"github.com/corpdesk/corpdesk/pkg/middleware"
)

// cors is intentionally permissive for dev/test; production should front this
// with a stricter policy.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), cors())

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && cfg.Redis.Host != "" {
			client := redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(client, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	g := gateway.New(tokens.NewIssuer(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL))

	// Credential exchange happens before a bearer token exists, so the auth
	// surface is proxied without verification. Trust headers are still
	// stripped: the auth service ignores them, but nothing spoofed may pass.
	r.Any("/auth/*path", g.Proxy(cfg.Gateway.AuthServiceURL))

	// Every internal API route requires a verified token; the proxy rewrites
	// the proven identity into trust headers.
	r.Any("/api/*path", g.Authenticate(), g.Proxy(cfg.Gateway.HRServiceURL))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting gateway on %s (auth=%s hr=%s)", addr, cfg.Gateway.AuthServiceURL, cfg.Gateway.HRServiceURL)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
