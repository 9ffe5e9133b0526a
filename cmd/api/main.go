package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	dbadapter "github.com/gagovictor/task-manager-sub000/internal/adapter/db"
	httpadapter "github.com/gagovictor/task-manager-sub000/internal/adapter/http"
	"github.com/gagovictor/task-manager-sub000/internal/adapter/http/handlers"
	httpmiddleware "github.com/gagovictor/task-manager-sub000/internal/adapter/http/middleware"
	appservice "github.com/gagovictor/task-manager-sub000/internal/app/service"
	"github.com/gagovictor/task-manager-sub000/internal/config"
	"github.com/gagovictor/task-manager-sub000/internal/crypto"
	"github.com/gagovictor/task-manager-sub000/pkg/translator"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	// Make zap available to packages that log through zap.L().
	zap.ReplaceGlobals(logger)
	defer func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}()

	translator.InitTranslator(translator.Config{
		TranslationFolder:  "pkg/translator/translation",
		SupportedLanguages: []string{translator.LanguageFr, translator.LanguageEn},
	})

	cfg := config.LoadConfig()

	encryptor, err := crypto.NewAESGCM(cfg.EncryptionKey)
	if err != nil {
		logger.Fatal("invalid encryption key", zap.Error(err))
	}

	ctx := context.Background()
	store := dbadapter.NewStore(cfg, encryptor)
	taskRepository, err := store.Repository(ctx)
	if err != nil {
		logger.Fatal("failed to initialize task engine", zap.String("engine", cfg.TaskEngine), zap.Error(err))
	}
	defer func() {
		if err := store.Close(ctx); err != nil {
			logger.Warn("failed to close task engine", zap.Error(err))
		}
	}()

	taskService := appservice.NewTaskService(taskRepository)

	r := gin.New()
	r.Use(gin.Recovery(), httpmiddleware.GinZapMiddleware(logger))
	if len(cfg.TrustedProxies) > 0 {
		if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			logger.Fatal("invalid trusted proxies", zap.Error(err))
		}
	}

	healthHandler := handlers.NewHealthHandler(store)
	taskHandler := handlers.NewTaskHandler(taskService)
	httpadapter.RegisterRoutes(r, healthHandler, taskHandler)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	addr := ":" + port
	logger.Info("starting server", zap.String("addr", addr), zap.String("engine", cfg.TaskEngine))
	if err := r.Run(addr); err != nil {
		logger.Fatal("could not start server", zap.Error(err))
	}
}
