package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"artistic-unity-backend/internal/models"
)

const healthMessage = "Artistic Unity Backend is running!"

// HealthHandler godoc
// @Summary     Health check
// @Description Reports that the service is up
// @Tags        health
// @Produce     json
// @Success     200 {object} models.HealthResponse
// @Router      / [get]
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Message:   healthMessage,
		Timestamp: time.Now().UTC().Format(models.TimestampLayout),
	})
}
