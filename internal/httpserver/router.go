package httpserver

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// buildRouter wires routes for the storefront checkout API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, allowedOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = allowedOrigins
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", cartKeyHeader)
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	ch := cartHandlers{carts: deps.CartSvc}
	cart := router.Group("/cart")
	{
		cart.GET("", ch.get)
		cart.POST("/items", ch.add)
		cart.POST("/items/:productId/increment", ch.increment)
		cart.POST("/items/:productId/decrement", ch.decrement)
		cart.DELETE("/items/:productId", ch.remove)
	}

	sh := sessionHandlers{checkout: deps.CheckoutSvc}
	sessions := router.Group("/checkout/sessions")
	{
		sessions.POST("", sh.start)
		sessions.GET("/:sessionId", sh.get)
		sessions.DELETE("/:sessionId", sh.end)
		sessions.POST("/:sessionId/step", sh.goTo)
		sessions.PUT("/:sessionId/shipping", sh.setShipping)
		sessions.PUT("/:sessionId/payment", sh.setPayment)
		sessions.POST("/:sessionId/finalize", sh.finalize)

		sessions.POST("/:sessionId/addresses/refresh", sh.refreshAddresses)
		sessions.POST("/:sessionId/addresses", sh.createAddress)
		sessions.POST("/:sessionId/addresses/select", sh.selectAddress)
		sessions.PUT("/:sessionId/addresses/draft", sh.setDraft)
		sessions.POST("/:sessionId/addresses/draft/lookup", sh.lookupPostal)
		sessions.POST("/:sessionId/addresses/:addressId/default", sh.promoteDefault)
		sessions.DELETE("/:sessionId/addresses/:addressId", sh.deleteAddress)
	}

	return router
}
