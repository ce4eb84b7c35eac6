package router

import (
	"net/http"
	"time"

	"vecindo/config"
	"vecindo/internal/domain"
	"vecindo/internal/handler"
	"vecindo/internal/middleware"
	"vecindo/internal/repository"
	"vecindo/internal/service"
	"vecindo/internal/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, hub *ws.Hub) (*gin.Engine, *service.SubscriptionService) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	businessRepo := repository.NewBusinessRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	notifSvc := service.NewNotificationService(notificationRepo, hub)
	couponSvc := service.NewCouponService(couponRepo)
	subscriptionSvc := service.NewSubscriptionService(subscriptionRepo, notifSvc, cfg.Billing.PremiumPriceCents)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, userRepo)
	couponHandler := handler.NewCouponHandler(couponSvc, couponRepo, notifSvc)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionSvc)
	businessHandler := handler.NewBusinessHandler(businessRepo, productRepo)
	productHandler := handler.NewProductHandler(productRepo, businessRepo, userRepo)
	orderHandler := handler.NewOrderHandler(orderRepo, productRepo, businessRepo, couponRepo, couponSvc, notifSvc)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "ws_connections": hub.ConnectionCount()})
	})

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
			authGroup.GET("/me", authMw, authHandler.Me)
		}

		coupons := api.Group("/coupons")
		coupons.Use(authMw)
		{
			coupons.POST("/validate", couponHandler.Validate)
			coupons.POST("/redeem", couponHandler.Redeem)
			coupons.GET("/mine", couponHandler.MyRedemptions)
		}
		api.GET("/benefits/active", authMw, couponHandler.ActiveBenefits)
		api.POST("/benefits/:id/consume", authMw, couponHandler.ConsumeBenefit)

		admin := api.Group("/admin/coupons")
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.GET("", couponHandler.AdminList)
			admin.POST("", couponHandler.AdminCreate)
			admin.PATCH("/:id", couponHandler.AdminUpdate)
			admin.DELETE("/:id", couponHandler.AdminDelete)
		}

		subscription := api.Group("/subscription")
		subscription.Use(authMw, middleware.RequireRole(domain.RoleMerchant, domain.RoleAdmin))
		{
			subscription.POST("/subscribe", subscriptionHandler.Subscribe)
			subscription.POST("/cancel", subscriptionHandler.Cancel)
			subscription.GET("/status", subscriptionHandler.Status)
			subscription.GET("/history", subscriptionHandler.History)
		}

		api.GET("/businesses", businessHandler.List)
		api.GET("/businesses/:id", businessHandler.Get)
		api.GET("/businesses/:id/products", productHandler.ListByBusiness)

		merchant := api.Group("/merchant")
		merchant.Use(authMw, middleware.RequireRole(domain.RoleMerchant, domain.RoleAdmin))
		{
			merchant.POST("/businesses", businessHandler.Create)
			merchant.GET("/businesses", businessHandler.ListMine)
			merchant.POST("/businesses/:id/products", productHandler.Create)
			merchant.PATCH("/businesses/:id/products/:productId", productHandler.Update)
			merchant.GET("/orders", orderHandler.ListReceived)
			merchant.PATCH("/orders/:id/status", orderHandler.UpdateStatus)
		}

		api.POST("/orders", authMw, orderHandler.Create)
		api.GET("/orders/mine", authMw, orderHandler.ListMine)

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/notifications", notificationHandler.List)
			me.PUT("/notifications/:id/read", notificationHandler.MarkRead)
		}
	}

	r.GET("/ws/notifications", ws.UpgradeNotificationWS(&cfg.JWT, hub))

	return r, subscriptionSvc
}
