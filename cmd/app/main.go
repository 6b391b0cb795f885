package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	dbadapter "devhub/internal/adapters/database"
	"devhub/internal/adapters/httpapi"
	redisadapter "devhub/internal/adapters/redis"
	"devhub/internal/adapters/viewtoken"
	"devhub/internal/config"
	commentapp "devhub/internal/core/comment/service"
	likeapp "devhub/internal/core/like/service"
	notificationapp "devhub/internal/core/notification/service"
	postapp "devhub/internal/core/post/service"
	userapp "devhub/internal/core/user/service"
	viewapp "devhub/internal/core/view/service"
	"devhub/internal/workers"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.InitLogger()
	defer func() { _ = config.Logger.Sync() }()
	settings := config.Init() // load .env and validate

	if settings.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// one storage handle and one Redis client for the whole process
	db := config.InitDB(settings)
	if err := dbadapter.Migrate(db); err != nil {
		config.Logger.Fatal("Error during migrations", zap.Error(err))
	}
	config.Logger.Info("✅ Database migrations completed")

	redisClient := config.InitRedis(settings)
	defer closeResources(config.Logger)

	logger := config.Logger
	store := dbadapter.NewStore(db)                                                                      // output adapter
	unreadCache := redisadapter.NewUnreadCacheRedis(redisClient, settings.UnreadCacheTTL)                // output adapter
	viewCodec := viewtoken.NewCodecJWT([]byte(settings.ViewTokenSecret))                                 // output adapter
	userSvc := userapp.NewUserService(store.Repositories().Users, []byte(settings.JWTSecret), logger)    // use case
	notificationSvc := notificationapp.NewNotificationService(store.Repositories().Notifications, unreadCache, logger)
	postSvc := postapp.NewPostService(store, logger)
	viewSvc := viewapp.NewViewService(store, viewCodec, settings.ViewWindow, settings.ViewMaxEntries, logger)
	likeSvc := likeapp.NewLikeService(store, notificationSvc, logger)
	commentSvc := commentapp.NewCommentService(store, notificationSvc, logger)

	// inject the use cases into the inbound adapter
	r := httpapi.SetupRoutes(httpapi.UseCases{
		Users:         userSvc,
		Actors:        userSvc,
		Posts:         postSvc,
		Views:         viewSvc,
		Likes:         likeSvc,
		Comments:      commentSvc,
		Notifications: notificationSvc,
		ViewCookie: httpapi.ViewCookie{
			Name:   "post_views",
			MaxAge: int(settings.ViewWindow.Seconds()),
			Secure: settings.AppEnv == "production",
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	auditWorker := workers.NewCounterAuditWorker(store, settings.AuditInterval, settings.AuditBatchSize, logger)
	go auditWorker.Run(ctx)

	srv := &http.Server{
		Addr:              ":" + settings.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		config.Logger.Info("App is running...", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			config.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	config.Logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		config.Logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}

// closeResources closes the Redis client and the database pool.
func closeResources(logger *zap.Logger) {
	if err := config.RedisClient.Close(); err != nil {
		logger.Error("Error closing Redis connection", zap.Error(err))
	}

	sqlDB, err := config.DB.DB()
	if err != nil {
		logger.Error("Error getting raw DB", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Error closing database connection", zap.Error(err))
	}
}
