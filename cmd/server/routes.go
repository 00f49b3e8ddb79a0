package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"seller-onboarding.backend/internal/interfaces/http/handlers"
)

const (
	serviceName    = "seller-onboarding-backend"
	serviceVersion = "0.1.0"
)

type routeDeps struct {
	onboardingHandler   *handlers.OnboardingHandler
	verificationHandler *handlers.VerificationHandler
	storeHandler        *handlers.StoreHandler
	authMiddleware      gin.HandlerFunc
	submissionGuard     gin.HandlerFunc
	otpLimiter          gin.HandlerFunc
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
			"version": serviceVersion,
		})
	})
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	v1.Use(d.authMiddleware)
	{
		onboarding := v1.Group("/onboarding")
		{
			onboarding.GET("", d.onboardingHandler.GetState)
			onboarding.DELETE("", d.onboardingHandler.Reset)

			onboarding.PATCH("/store-info", d.onboardingHandler.UpdateStoreInfo)
			onboarding.PATCH("/verification", d.onboardingHandler.UpdateVerification)
			onboarding.PATCH("/kyc", d.onboardingHandler.UpdateKYC)
			onboarding.PATCH("/bank", d.onboardingHandler.UpdateBank)

			// transitions of one seller are serialized across replicas
			onboarding.POST("/next", d.submissionGuard, d.onboardingHandler.Next)
			onboarding.POST("/back", d.submissionGuard, d.onboardingHandler.Back)
			onboarding.POST("/skip", d.submissionGuard, d.onboardingHandler.Skip)
			onboarding.POST("/finish", d.submissionGuard, d.onboardingHandler.Finish)
			onboarding.POST("/jump", d.submissionGuard, d.onboardingHandler.Jump)

			onboarding.POST("/otp/:channel", d.otpLimiter, d.submissionGuard, d.verificationHandler.SendOTP)
			onboarding.POST("/otp/:channel/verify", d.submissionGuard, d.verificationHandler.VerifyOTP)
		}

		stores := v1.Group("/stores")
		{
			stores.GET("/active", d.storeHandler.GetActive)
			stores.PUT("/active", d.storeHandler.SwitchActive)
		}
	}
}
