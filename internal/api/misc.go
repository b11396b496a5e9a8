// misc.go - Nearby shops and health check

package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// nearbyShops is static until a real location provider is wired in.
var nearbyShops = []gin.H{
	{
		"id":           1,
		"name":         "Apollo Pharmacy",
		"distance":     "0.5 km",
		"rating":       4.5,
		"address":      "123 Main Street, City Center",
		"phone":        "+91 98765 43210",
		"openNow":      true,
		"deliveryTime": "20-30 mins",
	},
	{
		"id":           2,
		"name":         "MedPlus",
		"distance":     "1.2 km",
		"rating":       4.3,
		"address":      "456 Park Avenue, Downtown",
		"phone":        "+91 98765 43211",
		"openNow":      true,
		"deliveryTime": "30-40 mins",
	},
	{
		"id":           3,
		"name":         "Wellness Forever",
		"distance":     "2.1 km",
		"rating":       4.7,
		"address":      "789 Health Road, Medical District",
		"phone":        "+91 98765 43212",
		"openNow":      true,
		"deliveryTime": "40-50 mins",
	},
}

func (s *Server) handleNearbyShops(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"shops": nearbyShops})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"timestamp":        time.Now().Format(time.RFC3339),
		"medicinesLoaded":  s.catalog != nil && s.catalog.Size() > 0,
		"totalMedicines":   s.catalog.Size(),
		"mongodbConnected": s.store.Connected(),
	})
}
