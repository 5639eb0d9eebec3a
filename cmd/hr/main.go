package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/corpdesk/corpdesk/internal/config"
	"github.com/corpdesk/corpdesk/internal/database"
	"github.com/corpdesk/corpdesk/internal/directory/handler"
	"github.com/corpdesk/corpdesk/internal/directory/repository"
	"github.com/corpdesk/corpdesk/internal/provisioning"
	"github.com/corpdesk/corpdesk/pkg/logger"
	"github.com/corpdesk/corpdesk/pkg/metrics"
	"github.com/corpdesk/corpdesk/pkg/middleware"
)

var startTime = time.Now()

// The HR service trusts the X-User-* headers outright. It must only be
// reachable from the gateway (private network); exposing it directly lets a
// caller impersonate anyone.
func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	var repo repository.Repository
	var mongoUp bool
	if cfg.MongoDB.URI != "" {
		const maxAttempts = 5
		backoff := time.Second
		var client *mongo.Client
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			client, errConn = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if errConn == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if errConn != nil {
			logger.Warnf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
		} else {
			defer func() { _ = client.Disconnect(ctx) }()
			db := client.Database(cfg.MongoDB.Database)
			repo = repository.NewMongoRepository(db.Collection("employees"), db.Collection("departments"))
			mongoUp = true
		}
	}
	if repo == nil {
		logger.Warnf("MongoDB unavailable; falling back to in-memory directory store")
		repo = repository.NewMemoryRepository()
	}

	// provisioning consumer keeps the shadow directory in sync with identity
	// lifecycle events
	if len(cfg.Kafka.Brokers) > 0 {
		consumer := provisioning.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID, repo)
		defer func() { _ = consumer.Close() }()
		go func() {
			if err := consumer.Run(ctx); err != nil {
				logger.Errorf("provisioning consumer stopped: %v", err)
			}
		}()
		logger.Infof("provisioning consumer started (topic=%s group=%s)", cfg.Kafka.Topic, cfg.Kafka.GroupID)
	} else {
		logger.Warnf("KAFKA_BROKERS not set; provisioning sync disabled")
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.TrustHeaders())

	handler.New(repo).Register(r.Group("/api"))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		deps := map[string]bool{"mongodb": mongoUp, "kafka": len(cfg.Kafka.Brokers) > 0}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": time.Since(startTime).String()})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting hr service on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
