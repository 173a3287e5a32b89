package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ligna-erp/ligna-api/internal/models"
	"github.com/ligna-erp/ligna-api/internal/repository"
	"github.com/ligna-erp/ligna-api/internal/services"
)

// CatalogHandler serves the reference data the journal builds on:
// chart of accounts, products, customers, suppliers and production units.
type CatalogHandler struct {
	catalogService *services.CatalogService
}

func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func listQueryFromContext(c *gin.Context) *repository.ListQuery {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search")
	query.SortBy = c.Query("sort_by")
	query.SortDir = c.Query("sort_dir")
	return query
}

// ListAccounts returns the chart of accounts
func (h *CatalogHandler) ListAccounts(c *gin.Context) {
	query := listQueryFromContext(c)
	query.Filters["class"] = c.Query("class")
	query.Filters["type"] = c.Query("type")

	accounts, total, err := h.catalogService.ListAccounts(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accounts": accounts,
		"pagination": gin.H{
			"page":     query.Page,
			"per_page": query.PerPage,
			"total":    total,
		},
	})
}

// ShowAccount returns one account by code
func (h *CatalogHandler) ShowAccount(c *gin.Context) {
	account, err := h.catalogService.GetAccountByCode(c.Request.Context(), c.Param("code"))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, account)
}

type CreateAccountRequest struct {
	Code  string `json:"code" binding:"required"`
	Label string `json:"label" binding:"required"`
	Class int    `json:"class" binding:"required,min=1,max=8"`
	Type  string `json:"type"`
	Level int    `json:"level"`
}

// CreateAccount adds an account to the chart
func (h *CatalogHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account := &models.Account{
		Code:  req.Code,
		Label: req.Label,
		Class: req.Class,
		Type:  req.Type,
		Level: req.Level,
	}
	if err := h.catalogService.CreateAccount(c.Request.Context(), account); err != nil {
		if errors.Is(err, services.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "account code already exists"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, account)
}

// ListProducts returns products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	query := listQueryFromContext(c)
	query.Filters["family"] = c.Query("family")

	products, total, err := h.catalogService.ListProducts(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"pagination": gin.H{
			"page":     query.Page,
			"per_page": query.PerPage,
			"total":    total,
		},
	})
}

// ShowProduct returns one product
func (h *CatalogHandler) ShowProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("product_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), uint(id))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, product)
}

type ProductRequest struct {
	Code            string  `json:"code" binding:"required"`
	Designation     string  `json:"designation" binding:"required"`
	Family          string  `json:"family" binding:"required,oneof=MP SF PF DECHET SERVICE"`
	MeasureUnit     string  `json:"measure_unit"`
	PurchasePrice   float64 `json:"purchase_price"`
	SalePrice       float64 `json:"sale_price"`
	VATRate         float64 `json:"vat_rate"`
	StockAccount    string  `json:"stock_account"`
	PurchaseAccount string  `json:"purchase_account"`
	SalesAccount    string  `json:"sales_account"`
}

// CreateProduct adds a product
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product := &models.Product{
		Code:            req.Code,
		Designation:     req.Designation,
		Family:          req.Family,
		MeasureUnit:     req.MeasureUnit,
		PurchasePrice:   req.PurchasePrice,
		SalePrice:       req.SalePrice,
		VATRate:         req.VATRate,
		StockAccount:    req.StockAccount,
		PurchaseAccount: req.PurchaseAccount,
		SalesAccount:    req.SalesAccount,
		Active:          true,
	}
	if err := h.catalogService.CreateProduct(c.Request.Context(), product); err != nil {
		if errors.Is(err, services.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "product code already exists"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProduct modifies a product
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("product_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), uint(id))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product.Designation = req.Designation
	product.Family = req.Family
	product.MeasureUnit = req.MeasureUnit
	product.PurchasePrice = req.PurchasePrice
	product.SalePrice = req.SalePrice
	product.VATRate = req.VATRate
	product.StockAccount = req.StockAccount
	product.PurchaseAccount = req.PurchaseAccount
	product.SalesAccount = req.SalesAccount

	if err := h.catalogService.UpdateProduct(c.Request.Context(), product); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, product)
}

// ListCustomers returns customers
func (h *CatalogHandler) ListCustomers(c *gin.Context) {
	query := listQueryFromContext(c)

	customers, total, err := h.catalogService.ListCustomers(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customers": customers,
		"pagination": gin.H{
			"page":     query.Page,
			"per_page": query.PerPage,
			"total":    total,
		},
	})
}

// ShowCustomer returns one customer
func (h *CatalogHandler) ShowCustomer(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("customer_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}

	customer, err := h.catalogService.GetCustomer(c.Request.Context(), uint(id))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, customer)
}

type PartyRequest struct {
	Code        string  `json:"code" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Address     *string `json:"address"`
	Phone       string  `json:"phone"`
	Email       string  `json:"email"`
	TaxID       string  `json:"tax_id"`
	TradeRegID  string  `json:"trade_reg_id"`
	AccountCode string  `json:"account_code"`
}

// CreateCustomer adds a customer
func (h *CatalogHandler) CreateCustomer(c *gin.Context) {
	var req PartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer := &models.Customer{
		Code:        req.Code,
		Name:        req.Name,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
		TaxID:       req.TaxID,
		TradeRegID:  req.TradeRegID,
		AccountCode: req.AccountCode,
		Active:      true,
	}
	if err := h.catalogService.CreateCustomer(c.Request.Context(), customer); err != nil {
		if errors.Is(err, services.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "customer code already exists"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// UpdateCustomer modifies a customer
func (h *CatalogHandler) UpdateCustomer(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("customer_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}

	customer, err := h.catalogService.GetCustomer(c.Request.Context(), uint(id))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var req PartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer.Name = req.Name
	customer.Address = req.Address
	customer.Phone = req.Phone
	customer.Email = req.Email
	customer.TaxID = req.TaxID
	customer.TradeRegID = req.TradeRegID
	if req.AccountCode != "" {
		customer.AccountCode = req.AccountCode
	}

	if err := h.catalogService.UpdateCustomer(c.Request.Context(), customer); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, customer)
}

// ListSuppliers returns suppliers
func (h *CatalogHandler) ListSuppliers(c *gin.Context) {
	query := listQueryFromContext(c)

	suppliers, total, err := h.catalogService.ListSuppliers(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"suppliers": suppliers,
		"pagination": gin.H{
			"page":     query.Page,
			"per_page": query.PerPage,
			"total":    total,
		},
	})
}

// ShowSupplier returns one supplier
func (h *CatalogHandler) ShowSupplier(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("supplier_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid supplier id"})
		return
	}

	supplier, err := h.catalogService.GetSupplier(c.Request.Context(), uint(id))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "supplier not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, supplier)
}

// CreateSupplier adds a supplier
func (h *CatalogHandler) CreateSupplier(c *gin.Context) {
	var req PartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	supplier := &models.Supplier{
		Code:        req.Code,
		Name:        req.Name,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
		TaxID:       req.TaxID,
		TradeRegID:  req.TradeRegID,
		AccountCode: req.AccountCode,
		Active:      true,
	}
	if err := h.catalogService.CreateSupplier(c.Request.Context(), supplier); err != nil {
		if errors.Is(err, services.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "supplier code already exists"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, supplier)
}

// UpdateSupplier modifies a supplier
func (h *CatalogHandler) UpdateSupplier(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("supplier_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid supplier id"})
		return
	}

	supplier, err := h.catalogService.GetSupplier(c.Request.Context(), uint(id))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "supplier not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var req PartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	supplier.Name = req.Name
	supplier.Address = req.Address
	supplier.Phone = req.Phone
	supplier.Email = req.Email
	supplier.TaxID = req.TaxID
	supplier.TradeRegID = req.TradeRegID
	if req.AccountCode != "" {
		supplier.AccountCode = req.AccountCode
	}

	if err := h.catalogService.UpdateSupplier(c.Request.Context(), supplier); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, supplier)
}

// ListProductionUnits returns all production units
func (h *CatalogHandler) ListProductionUnits(c *gin.Context) {
	units, err := h.catalogService.ListProductionUnits(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"production_units": units})
}

type ProductionUnitRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateProductionUnit adds a production unit
func (h *CatalogHandler) CreateProductionUnit(c *gin.Context) {
	var req ProductionUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	unit := &models.ProductionUnit{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.catalogService.CreateProductionUnit(c.Request.Context(), unit); err != nil {
		if errors.Is(err, services.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "production unit code already exists"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, unit)
}
