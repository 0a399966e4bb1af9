package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/structfi/bondledger/internal/api/middleware"
)

// SetupRoutes configures all REST API routes. Controller operations require
// API key authentication; holder-initiated operations require a bearer token
// whose subject is the acting holder; read views are public.
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Class and nonce endpoints (public read access, controller writes)
		v1.POST("/classes", middleware.APIKeyAuth(authCfg), handler.CreateClass)
		v1.GET("/classes/:class_id", handler.GetClass)
		v1.POST("/classes/:class_id/nonces", middleware.APIKeyAuth(authCfg), handler.CreateNonce)
		v1.GET("/classes/:class_id/nonces/:nonce_id", handler.GetNonce)
		v1.POST("/classes/:class_id/nonces/:nonce_id/redeemable", middleware.APIKeyAuth(authCfg), handler.MarkRedeemable)

		// Bond unit movements
		v1.POST("/bonds/issue", middleware.APIKeyAuth(authCfg), handler.Issue)
		v1.POST("/bonds/transfer", middleware.HolderAuth(authCfg), handler.Transfer)
		v1.POST("/bonds/redeem", middleware.APIKeyAuth(authCfg), handler.Redeem)
		v1.POST("/bonds/burn", middleware.APIKeyAuth(authCfg), handler.Burn)

		// Operator approvals
		v1.PUT("/approvals", middleware.HolderAuth(authCfg), handler.SetApproval)
		v1.GET("/approvals/:owner/:operator", handler.GetApproval)

		// Balance and agent views (public read access)
		v1.GET("/balances/:holder/:class_id/:nonce_id", handler.GetBalance)
		v1.GET("/agents/:agent_id/classes", handler.ListAgentClasses)

		// Dividend accounting
		v1.POST("/dividends/deposit", middleware.APIKeyAuth(authCfg), handler.Deposit)
		v1.POST("/dividends/waterfall", middleware.APIKeyAuth(authCfg), handler.DepositWaterfall)
		v1.POST("/dividends/settle", middleware.APIKeyAuth(authCfg), handler.Settle)
		v1.POST("/dividends/claim", middleware.HolderAuth(authCfg), handler.Claim)
		v1.POST("/dividends/claim-all", middleware.HolderAuth(authCfg), handler.ClaimAll)
		v1.GET("/dividends/claimable/:holder/:class_id/:nonce_id", handler.GetClaimable)
		v1.GET("/dividends/assets/:class_id/:nonce_id", handler.ListDepositedAssets)

		// Event journal (public read access)
		v1.GET("/events", handler.GetEvents)

		// Admin settings (requires API key authentication)
		v1.GET("/settings", middleware.APIKeyAuth(authCfg), handler.GetSettings)
		v1.PUT("/settings/controller", middleware.APIKeyAuth(authCfg), handler.SetController)
		v1.PUT("/settings/accounting-engine", middleware.APIKeyAuth(authCfg), handler.SetAccountingEngine)
		v1.PUT("/settings/tranching-helper", middleware.APIKeyAuth(authCfg), handler.SetTranchingHelper)

		// Webhook endpoints (requires API key authentication only)
		v1.POST("/webhooks/clients", middleware.APIKeyAuth(authCfg), handler.CreateWebhookClient)
	}
}
