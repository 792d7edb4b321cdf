package routes

import (
	"time"

	"charterdesk/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the settlement engine's HTTP surface.
func RegisterRoutes(r *gin.Engine, settlement *handlers.SettlementHandler, storage *handlers.StorageHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	api := r.Group("/api/settlement")
	{
		api.GET("/bookings", settlement.ListBookings)
		api.GET("/bookings/:id", settlement.GetBooking)
		api.PUT("/bookings/:id/slots/:slot/amount", settlement.SetAmount)
		api.POST("/bookings/:id/slots/:slot/sign", settlement.Sign)
		api.POST("/bookings/:id/slots/:slot/signature", storage.UploadSignature)
		api.PUT("/bookings/:id/client-payments/:slot", settlement.SetClientPayment)
		api.GET("/alerts", settlement.Alerts)
		api.GET("/export", settlement.Export)
	}
}
