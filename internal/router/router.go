package router

import (
	"time"

	"heavenlist/config"
	"heavenlist/internal/domain"
	"heavenlist/internal/handler"
	"heavenlist/internal/middleware"
	"heavenlist/internal/repository"
	"heavenlist/internal/service"
	"heavenlist/internal/ws"
	"heavenlist/pkg/cloudinary"
	"heavenlist/pkg/mailer"
	"heavenlist/pkg/payment"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(100, 60*time.Second)))
	// Tighter budget on endpoints that accept OTP codes or passwords.
	otpLimit := middleware.OTPRateLimit(middleware.NewRateLimiter(10, 60*time.Second))

	// Repositories
	tenantRepo := repository.NewTenantRepository(db)
	landlordRepo := repository.NewLandlordRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	listingRepo := repository.NewListingRepository(db)
	txnRepo := repository.NewTransactionRepository(db)
	inspectionRepo := repository.NewInspectionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	hub := ws.NewHub()
	mail := mailer.NewBrevoMailer(cfg.Mail.APIKey, cfg.Mail.SenderEmail, cfg.Mail.SenderName)
	provider := payment.NewKorapayProvider(cfg.Korapay.BaseURL, cfg.Korapay.SecretKey)

	// Services
	notifSvc := service.NewNotificationService(notificationRepo, hub, mail)
	authSvc := service.NewAuthService(cfg, tenantRepo, landlordRepo, adminRepo, mail)
	listingSvc := service.NewListingService(listingRepo)
	paymentSvc := service.NewPaymentService(cfg, provider, listingRepo, txnRepo, tenantRepo, landlordRepo, notifSvc)
	inspectionSvc := service.NewInspectionService(inspectionRepo, listingRepo, tenantRepo, landlordRepo, txnRepo, notifSvc)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc)
	listingHandler := handler.NewListingHandler(listingSvc)
	adminHandler := handler.NewAdminHandler(listingSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	inspectionHandler := handler.NewInspectionHandler(inspectionSvc)
	notificationHandler := handler.NewNotificationHandler(notifSvc)
	uploadHandler := handler.NewUploadHandler(cloud, listingSvc)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/tenants/register", authHandler.RegisterTenant)
			authGroup.POST("/landlords/register", authHandler.RegisterLandlord)
			authGroup.POST("/verify-email", otpLimit, authHandler.VerifyEmail)
			authGroup.POST("/login", otpLimit, authHandler.Login)
			authGroup.POST("/logout", authMw, authHandler.Logout)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/forgot-password", otpLimit, authHandler.ForgotPassword)
			authGroup.POST("/verify-reset-otp", otpLimit, authHandler.VerifyResetOTP)
			authGroup.POST("/reset-password", authHandler.ResetPassword)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
		}

		// Public browsing
		api.GET("/listings", listingHandler.Browse)
		api.GET("/listings/:id", listingHandler.Get)

		landlords := api.Group("/landlords")
		landlords.Use(authMw, middleware.RequireRole(domain.RoleLandlord))
		{
			landlords.POST("/listings", listingHandler.Create)
			landlords.GET("/listings", listingHandler.ListMine)
			landlords.PUT("/listings/:id", listingHandler.Update)
			landlords.DELETE("/listings/:id", listingHandler.Delete)
			landlords.POST("/listings/:id/image", uploadHandler.UploadListingImage)
			landlords.GET("/transactions", paymentHandler.LandlordTransactions)
			landlords.GET("/inspections", inspectionHandler.ListForLandlord)
			landlords.PATCH("/inspections/:id", inspectionHandler.Confirm)
		}

		tenants := api.Group("/tenants")
		tenants.Use(authMw, middleware.RequireRole(domain.RoleTenant))
		{
			tenants.POST("/payments/initiate", paymentHandler.Initiate)
			tenants.POST("/payments/balance", paymentHandler.PayBalance)
			tenants.GET("/transactions", paymentHandler.TenantTransactions)
			tenants.POST("/inspections", inspectionHandler.Schedule)
			tenants.GET("/inspections", inspectionHandler.ListForTenant)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.RequireRole(domain.RoleAdmin))
		{
			admin.GET("/listings", adminHandler.ListListings)
			admin.PATCH("/listings/:id/verify", adminHandler.Verify)
			admin.PATCH("/listings/:id/unverify", adminHandler.Unverify)
		}

		// Gateway redirect and webhook; both settle at most once.
		api.GET("/payments/verify", paymentHandler.Verify)
		api.POST("/webhooks/korapay", paymentHandler.Webhook)

		notifications := api.Group("/notifications")
		notifications.Use(authMw)
		{
			notifications.GET("", notificationHandler.List)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
		}
	}

	r.GET("/ws/notifications", ws.UpgradeNotificationsWS(&cfg.JWT, hub))

	return r
}
