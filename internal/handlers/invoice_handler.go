package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ligna-erp/ligna-api/internal/services"
	"github.com/ligna-erp/ligna-api/internal/storage"
)

// InvoiceHandler serves invoice generation and settlement. Receipt
// scans attached to settlements go through local storage.
type InvoiceHandler struct {
	invoiceService *services.InvoiceService
	storage        *storage.LocalStorage
}

func NewInvoiceHandler(invoiceService *services.InvoiceService, store *storage.LocalStorage) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, storage: store}
}

// Index lists invoices
func (h *InvoiceHandler) Index(c *gin.Context) {
	query := listQueryFromContext(c)
	query.Filters["status"] = c.Query("status")
	query.Filters["customer_id"] = c.Query("customer_id")
	query.Filters["from"] = c.Query("from")
	query.Filters["to"] = c.Query("to")

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, inv := range invoices {
		responses = append(responses, inv.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"invoices": responses,
		"pagination": gin.H{
			"page":     query.Page,
			"per_page": query.PerPage,
			"total":    total,
		},
	})
}

// Show returns one invoice with its lines and settlements
func (h *InvoiceHandler) Show(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("invoice_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), uint(id))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, invoice.ToResponse())
}

type GenerateInvoiceRequest struct {
	CustomerID  uint   `json:"customer_id" binding:"required"`
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`
}

// Generate aggregates a customer's unbilled delivery notes into one invoice
func (h *InvoiceHandler) Generate(c *gin.Context) {
	var req GenerateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	periodStart, err := time.Parse("2006-01-02", req.PeriodStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "period_start must be YYYY-MM-DD"})
		return
	}
	periodEnd, err := time.Parse("2006-01-02", req.PeriodEnd)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "period_end must be YYYY-MM-DD"})
		return
	}
	if periodEnd.Before(periodStart) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "period_end is before period_start"})
		return
	}

	invoice, err := h.invoiceService.GenerateFromDeliveryNotes(c.Request.Context(), req.CustomerID, periodStart, periodEnd)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReferenceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
		case errors.Is(err, services.ErrNoEligibleEntries):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "no unbilled delivery notes in the period"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, invoice.ToResponse())
}

// Settle records a payment against an invoice. The request is multipart
// so a cheque scan or receipt can ride along.
func (h *InvoiceHandler) Settle(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("invoice_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}

	amount, err := strconv.ParseFloat(c.PostForm("amount"), 64)
	if err != nil || amount <= 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "amount must be a positive number"})
		return
	}

	mode := c.PostForm("mode")
	if mode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode is required"})
		return
	}

	settledOn := time.Now()
	if raw := c.PostForm("settled_on"); raw != "" {
		settledOn, err = time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "settled_on must be YYYY-MM-DD"})
			return
		}
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), uint(id))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if amount > invoice.RemainingDue() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": fmt.Sprintf("amount %.2f exceeds remaining due %.2f", amount, invoice.RemainingDue()),
		})
		return
	}

	input := services.SettlementInput{
		Amount:    amount,
		Mode:      mode,
		SettledOn: settledOn,
	}
	if cheque := c.PostForm("cheque_number"); cheque != "" {
		input.ChequeNumber = &cheque
	}
	if comment := c.PostForm("comment"); comment != "" {
		input.Comment = &comment
	}

	// Optional receipt scan
	file, header, err := c.Request.FormFile("receipt")
	if err == nil {
		defer file.Close()

		if header.Size > storage.MaxFileSize() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "receipt exceeds the 10MB limit"})
			return
		}
		if !storage.IsValidContentType(header.Header.Get("Content-Type")) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "receipt must be a PDF or an image"})
			return
		}

		path, err := h.storage.Upload(file, header, "receipts")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store receipt"})
			return
		}
		input.ReceiptPath = &path
	}

	updated, err := h.invoiceService.RecordSettlement(c.Request.Context(), uint(id), input)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAmount) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, updated.ToResponse())
}

// Receipt streams the stored receipt of a settlement
func (h *InvoiceHandler) Receipt(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("invoice_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}
	settlementID, err := strconv.ParseUint(c.Param("settlement_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settlement id"})
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), uint(id))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	for _, s := range invoice.Settlements {
		if s.ID == uint(settlementID) {
			if s.ReceiptPath == nil || !h.storage.Exists(*s.ReceiptPath) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no receipt on file"})
				return
			}
			c.File(h.storage.GetFullPath(*s.ReceiptPath))
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "settlement not found"})
}
