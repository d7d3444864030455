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
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/globaldevelopmentfuture/gdfuture-management/handlers"
	"github.com/globaldevelopmentfuture/gdfuture-management/internal/accounts"
	"github.com/globaldevelopmentfuture/gdfuture-management/internal/config"
	"github.com/globaldevelopmentfuture/gdfuture-management/internal/database"
	"github.com/globaldevelopmentfuture/gdfuture-management/internal/resettokens"
	"github.com/globaldevelopmentfuture/gdfuture-management/pkg/logger"
	"github.com/globaldevelopmentfuture/gdfuture-management/pkg/metrics"
	"github.com/globaldevelopmentfuture/gdfuture-management/pkg/middleware"
)

var startTime = time.Now()

// main runs the management API: the login/password-reset contract the
// dashboard client talks to, plus the bearer-protected member routes.
func main() {
	// logging level comes from LOG_LEVEL (debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v jwt_secret_set=%v",
		cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.JWT.Secret != "")

	r := gin.New()

	// Lightweight CORS middleware for dev: the dashboard runs on a different
	// origin. Production should sit behind a stricter policy.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})
	r.Use(gin.Logger(), gin.Recovery())

	// Connect to Redis early so both the rate limiter and the reset-token
	// store can use it when configured.
	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			rdb = nil
		} else {
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// Optional global rate limiter (per-user when authenticated, otherwise per-IP)
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimit(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Reset tokens live in Redis when available so links survive restarts.
	var resets resettokens.Store
	if rdb != nil {
		resets = resettokens.NewRedisStore(rdb, "reset:")
	} else {
		resets = resettokens.NewMemoryStore()
		logger.Warnf("using in-memory reset tokens; links will not survive a restart")
	}

	// Accounts come from MongoDB when configured; the dev fallback keeps the
	// whole contract usable with no infrastructure at all.
	ctx := context.Background()
	var repo accounts.Repository
	var mongoClient *mongo.Client
	if cfg.MongoDB.URI != "" {
		// retry with backoff to tolerate container startup races
		const maxAttempts = 5
		backoff := time.Second
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			mongoClient, errConn = database.Connect(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
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
			defer func() { _ = mongoClient.Disconnect(ctx) }()
			col := mongoClient.Database(cfg.MongoDB.Database).Collection("users")
			repo = accounts.NewMongoRepository(col)
			logger.Infof("using MongoDB account storage (database=%s)", cfg.MongoDB.Database)
		}
	}
	if repo == nil {
		repo = accounts.NewMemoryRepository()
		logger.Warnf("using in-memory account storage")
	}
	svc := accounts.NewService(repo)

	h := handlers.NewAuthHandler(cfg, svc, resets)
	h.Register(r.Group("/"))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness reports each backing dependency; memory fallbacks still count
	// as ready since the contract stays functional on them.
	r.GET("/ready", func(c *gin.Context) {
		deps := gin.H{
			"accounts": mongoClient != nil || repo != nil,
			"redis":    rdb != nil || cfg.Redis.Host == "",
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "ready",
			"deps":   deps,
			"uptime": time.Since(startTime).String(),
		})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting management API on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
