package api

import (
	"log"
	stdhttp "net/http"

	intconfig "backend/internal/config"
	h "backend/internal/http/handlers"
	"backend/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "rota não encontrada",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	secret := []byte(env.JWTSecret)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		// Auth & customer portal
		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)
		api.GET("/me", middleware.RequireAuth(secret), h.Me)

		customers := api.Group("/customers", middleware.RequireAuth(secret))
		customers.GET("/:id", h.GetCustomerByID)
		customers.PATCH("/:id", h.UpdateCustomer)

		// Catalog (public, feeds the wizard's early steps)
		catalog := api.Group("/catalog")
		catalog.GET("/categories", h.GetCategories)
		catalog.GET("/plans", h.GetPlans)
		catalog.GET("/optionals", h.GetOptionals)

		// Fleet
		vehicles := api.Group("/vehicles")
		vehicles.GET("", h.GetVehicles)
		vehicles.GET("/available", h.GetAvailableVehicles)
		vehicles.GET("/:id", h.GetVehicleByID)
		admin := vehicles.Group("", middleware.RequireAuth(secret), middleware.RequireRole("admin"))
		admin.POST("", h.CreateVehicle)
		admin.PUT("/:id", h.UpdateVehicle)
		admin.DELETE("/:id", h.DeleteVehicle)

		// Checkout wizard
		checkout := api.Group("/checkout")
		checkout.GET("/steps", h.GetCheckoutSteps)
		checkout.POST("/sessions", h.CreateCheckoutSession)
		checkout.GET("/sessions/:id", h.GetCheckoutSession)
		checkout.POST("/sessions/:id/selection", h.SelectCheckoutVehicle)
		checkout.POST("/sessions/:id/items", h.UpsertCartItem)
		checkout.DELETE("/sessions/:id/items/:code", h.RemoveCartItem)
		checkout.POST("/sessions/:id/schedule", h.ScheduleCheckout)
		checkout.PUT("/sessions/:id/step", h.SetCheckoutStep)
		checkout.GET("/sessions/:id/confirmation", h.GetCheckoutConfirmation)
		checkout.POST("/sessions/:id/payment", h.DispatchPayment)
		checkout.GET("/sessions/:id/payment", h.GetLatestPayment)
		checkout.GET("/sessions/:id/voucher", h.GetVoucherPDF)
		checkout.GET("/sessions/:id/boleto", h.GetBoletoPDF)

		// Payments
		payments := api.Group("/payments")
		payments.POST("/webhook", h.PaymentWebhook)
		payments.GET("/:id", h.GetPaymentAttempt)

		// External lookups
		lookups := api.Group("/lookup")
		lookups.GET("/cep/:cep", h.LookupCEP)
		lookups.GET("/plate/:plate", h.LookupPlate)
		lookups.GET("/price", h.LookupPrice)
	}

	return r
}
