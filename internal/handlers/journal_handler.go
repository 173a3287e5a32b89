package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ligna-erp/ligna-api/internal/services"
)

// JournalHandler serves the daily journal and the general ledger it
// posts into.
type JournalHandler struct {
	journalService *services.JournalService
}

func NewJournalHandler(journalService *services.JournalService) *JournalHandler {
	return &JournalHandler{journalService: journalService}
}

// Index lists journal entries
func (h *JournalHandler) Index(c *gin.Context) {
	query := listQueryFromContext(c)
	query.Filters["type"] = c.Query("type")
	query.Filters["posted"] = c.Query("posted")
	query.Filters["production_unit"] = c.Query("production_unit")
	query.Filters["from"] = c.Query("from")
	query.Filters["to"] = c.Query("to")

	entries, total, err := h.journalService.ListEntries(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var responses []interface{}
	for _, e := range entries {
		responses = append(responses, e.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": responses,
		"pagination": gin.H{
			"page":     query.Page,
			"per_page": query.PerPage,
			"total":    total,
		},
	})
}

type CreateEntryRequest struct {
	OperationDate   string  `json:"operation_date" binding:"required"`
	Type            string  `json:"type" binding:"required,oneof=PURCHASE SALE CASH PRODUCTION CONSUMPTION CHARGE"`
	DocumentType    string  `json:"document_type"`
	PieceNumber     string  `json:"piece_number" binding:"required"`
	Label           string  `json:"label" binding:"required"`
	ProductID       *uint   `json:"product_id"`
	CustomerID      *uint   `json:"customer_id"`
	SupplierID      *uint   `json:"supplier_id"`
	ProductionUnit  string  `json:"production_unit"`
	Quantity        float64 `json:"quantity"`
	UnitPrice       float64 `json:"unit_price"`
	GrossAmount     float64 `json:"gross_amount"`
	VATRate         float64 `json:"vat_rate"`
	VATApplicable   *bool   `json:"vat_applicable"`
	StampApplicable *bool   `json:"stamp_applicable"`
	ChargeType      *string `json:"charge_type"`
	ReversalOfID    *uint   `json:"reversal_of_id"`
}

// Create records a new journal entry
func (h *JournalHandler) Create(c *gin.Context) {
	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	operationDate, err := time.Parse("2006-01-02", req.OperationDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "operation_date must be YYYY-MM-DD"})
		return
	}

	input := services.CreateEntryInput{
		OperationDate:   operationDate,
		Type:            req.Type,
		DocumentType:    req.DocumentType,
		PieceNumber:     req.PieceNumber,
		Label:           req.Label,
		ProductID:       req.ProductID,
		CustomerID:      req.CustomerID,
		SupplierID:      req.SupplierID,
		ProductionUnit:  req.ProductionUnit,
		Quantity:        req.Quantity,
		UnitPrice:       req.UnitPrice,
		GrossAmount:     req.GrossAmount,
		VATRate:         req.VATRate,
		VATApplicable:   req.VATApplicable == nil || *req.VATApplicable,
		StampApplicable: req.StampApplicable == nil || *req.StampApplicable,
		ChargeType:      req.ChargeType,
		ReversalOfID:    req.ReversalOfID,
	}

	entry, err := h.journalService.CreateEntry(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, entry.ToResponse())
}

// Show returns one journal entry
func (h *JournalHandler) Show(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("entry_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}

	entry, err := h.journalService.GetEntry(c.Request.Context(), uint(id))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "journal entry not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entry.ToResponse())
}

// Post turns an entry into ledger postings
func (h *JournalHandler) Post(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("entry_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}

	postings, err := h.journalService.PostEntry(c.Request.Context(), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "journal entry not found"})
		case errors.Is(err, services.ErrAlreadyPosted):
			c.JSON(http.StatusConflict, gin.H{"error": "entry is already posted"})
		case errors.Is(err, services.ErrInsufficientStock),
			errors.Is(err, services.ErrInvalidAmount),
			errors.Is(err, services.ErrReferenceNotFound),
			errors.Is(err, services.ErrUnknownJournalType):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"postings": postings})
}

// Postings returns the ledger lines an entry generated
func (h *JournalHandler) Postings(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("entry_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}

	postings, err := h.journalService.EntryPostings(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"postings": postings})
}

// Ledger lists ledger postings across entries
func (h *JournalHandler) Ledger(c *gin.Context) {
	query := listQueryFromContext(c)
	query.Filters["debit_account"] = c.Query("debit_account")
	query.Filters["credit_account"] = c.Query("credit_account")
	query.Filters["book"] = c.Query("book")
	query.Filters["from"] = c.Query("from")
	query.Filters["to"] = c.Query("to")

	postings, total, err := h.journalService.ListPostings(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"postings": postings,
		"pagination": gin.H{
			"page":     query.Page,
			"per_page": query.PerPage,
			"total":    total,
		},
	})
}

// Balance returns the debit minus credit balance of one account
func (h *JournalHandler) Balance(c *gin.Context) {
	code := c.Param("code")

	balance, err := h.journalService.AccountBalance(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": code, "balance": balance})
}
