package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ligna-erp/ligna-api/internal/services"
)

// StockHandler serves read-only views of the weighted-average stock
// positions. Positions move only through posted journal entries.
type StockHandler struct {
	stockService *services.StockService
}

func NewStockHandler(stockService *services.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// Index lists stock positions
func (h *StockHandler) Index(c *gin.Context) {
	query := listQueryFromContext(c)
	query.Filters["production_unit"] = c.Query("production_unit")
	query.Filters["family"] = c.Query("family")

	positions, total, err := h.stockService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, p := range positions {
		responses = append(responses, p.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"positions": responses,
		"pagination": gin.H{
			"page":     query.Page,
			"per_page": query.PerPage,
			"total":    total,
		},
	})
}

// ByProduct returns every position one product holds across units
func (h *StockHandler) ByProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("product_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	positions, err := h.stockService.ByProduct(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, p := range positions {
		responses = append(responses, p.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"positions": responses})
}

// Valuation returns the total value of all positions
func (h *StockHandler) Valuation(c *gin.Context) {
	total, err := h.stockService.TotalValue(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"total_value": total})
}
