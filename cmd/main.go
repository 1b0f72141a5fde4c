package main

import (
	"context"
	"log"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/videotube/account-service/internal/config"
	"github.com/videotube/account-service/internal/domain"
	"github.com/videotube/account-service/internal/handler"
	"github.com/videotube/account-service/internal/repository"
	"github.com/videotube/account-service/internal/service"
	"github.com/videotube/account-service/internal/storage"
	"github.com/videotube/account-service/pkg/jwt"
	"github.com/videotube/account-service/pkg/logger"
	"github.com/videotube/account-service/pkg/middleware"
)

func main() {

	conf := config.LoadAccountConfig()
	appLog := logger.New("info")

	db, err := gorm.Open(postgres.Open(conf.PostgresDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	blobClient, err := azblob.NewClientFromConnectionString(conf.AzureStorageConnectionString, nil)
	if err != nil {
		log.Fatalf("failed to create blob client: %v", err)
	}
	assetStore := storage.NewBlobStore(blobClient, conf.BlobContainerName)
	if err := assetStore.EnsureContainer(context.Background()); err != nil {
		log.Fatalf("failed to prepare blob container: %v", err)
	}

	var tokenManager jwt.TokenManager
	if conf.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     conf.RedisAddr,
			Password: conf.RedisPassword,
			DB:       0, // use default DB
		})
		tokenManager = jwt.NewTokenManager(conf.AccessTokenSecret, conf.RefreshTokenSecret, redisClient)
	} else {
		appLog.Warn("REDIS_ADDR not set, running without refresh token denylist")
		tokenManager = jwt.NewTokenManagerWithoutRedis(conf.AccessTokenSecret, conf.RefreshTokenSecret)
	}

	repo := repository.NewUserRepository(db)
	accessTTL := time.Duration(conf.AccessTokenTTL) * time.Minute
	refreshTTL := time.Duration(conf.RefreshTokenTTL) * time.Minute
	svc := service.NewAccountService(repo, assetStore, tokenManager, accessTTL, refreshTTL, appLog)
	h := handler.NewAccountHandler(svc, conf.TempDir, int(accessTTL.Seconds()), int(refreshTTL.Seconds()))

	authMw := middleware.AuthMiddleware(tokenManager, svc.GetUserByID)
	limitMw := middleware.RateLimit(5, 10)
	jsonLimitMw := middleware.BodyLimit(16 << 10) // 16KB

	r := gin.Default()
	r.MaxMultipartMemory = 8 << 20 // 8MB
	r.Use(middleware.CORSMiddleware(conf.CORSOrigin))
	r.Static("/public", "./public")

	h.RegisterRoutes(r.Group("/api/v1/users"), authMw, limitMw, jsonLimitMw)

	if err := r.Run(":" + conf.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
