package handlers

import (
	"net/http"

	"github.com/farmmitra/farmmitra-api/internal/logger"
	"github.com/farmmitra/farmmitra-api/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PriceHandler handles mandi price lookup requests.
type PriceHandler struct {
	Service *service.PriceService
}

// NewPriceHandler creates a new PriceHandler.
func NewPriceHandler(priceService *service.PriceService) *PriceHandler {
	return &PriceHandler{Service: priceService}
}

// GetPrices handles GET /v1/prices
//
// Query params: commodity (required), state.
func (h *PriceHandler) GetPrices(c *gin.Context) {
	commodity := c.Query("commodity")
	if commodity == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "commodity query parameter is required"})
		return
	}
	state := c.Query("state")

	resp, err := h.Service.GetPrices(c.Request.Context(), commodity, state)
	if err != nil {
		logger.Get().Error("failed to get mandi prices", zap.String("commodity", commodity), zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
