package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/Taylan474/winter-service-manager-sub001/cache"
	"github.com/Taylan474/winter-service-manager-sub001/config"
	"github.com/Taylan474/winter-service-manager-sub001/database"
	"github.com/Taylan474/winter-service-manager-sub001/middleware"
	"github.com/Taylan474/winter-service-manager-sub001/models"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BillingHandler struct {
	config *config.Config
	cache  *cache.Cache
}

func NewBillingHandler(cfg *config.Config, c *cache.Cache) *BillingHandler {
	return &BillingHandler{config: cfg, cache: c}
}

const (
	cacheKeyCustomers = "customers:all"
	cacheKeyPrices    = "prices:all"
	cacheKeyTemplates = "templates:all"
)

// --- customers ---

func (h *BillingHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	if cached, ok := h.cache.Get(cacheKeyCustomers); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	value, err := cache.FetchWithRetry(r.Context(), func(ctx context.Context) (interface{}, error) {
		var customers []models.Customer
		err := database.GetDB().WithContext(ctx).Order("name asc").Find(&customers).Error
		return customers, err
	}, h.config.FetchTimeout, h.config.FetchAttempts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load customers")
		return
	}

	h.cache.Set(cacheKeyCustomers, value, cache.TTLCustomers)
	writeJSON(w, http.StatusOK, value)
}

type customerRequest struct {
	Name    string `json:"name"`
	Street  string `json:"street"`
	ZipCode string `json:"zip_code"`
	City    string `json:"city"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Notes   string `json:"notes"`
}

func (h *BillingHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	var count int64
	database.GetDB().Model(&models.Customer{}).Where("name = ?", req.Name).Count(&count)
	if count > 0 {
		writeError(w, http.StatusBadRequest, "customer already exists")
		return
	}

	customer := models.Customer{
		Name:    req.Name,
		Street:  req.Street,
		ZipCode: req.ZipCode,
		City:    req.City,
		Email:   req.Email,
		Phone:   req.Phone,
		Notes:   req.Notes,
	}
	if err := database.GetDB().Create(&customer).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create customer")
		return
	}
	h.cache.Invalidate(cacheKeyCustomers)
	writeJSON(w, http.StatusCreated, customer)
}

func (h *BillingHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer ID")
		return
	}

	var customer models.Customer
	if err := database.GetDB().First(&customer, id).Error; err != nil {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}

	var req customerRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	customer.Name = req.Name
	customer.Street = req.Street
	customer.ZipCode = req.ZipCode
	customer.City = req.City
	customer.Email = req.Email
	customer.Phone = req.Phone
	customer.Notes = req.Notes

	if err := database.GetDB().Save(&customer).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update customer")
		return
	}
	h.cache.Invalidate(cacheKeyCustomers)
	writeJSON(w, http.StatusOK, customer)
}

func (h *BillingHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer ID")
		return
	}

	var customer models.Customer
	if err := database.GetDB().First(&customer, id).Error; err != nil {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}

	var invoiceCount int64
	database.GetDB().Model(&models.Invoice{}).Where("customer_id = ?", customer.ID).Count(&invoiceCount)
	if invoiceCount > 0 {
		writeError(w, http.StatusBadRequest, "customer still has invoices")
		return
	}

	if err := database.GetDB().Delete(&customer).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete customer")
		return
	}
	h.cache.Invalidate(cacheKeyCustomers)
	writeJSON(w, http.StatusOK, MessageResponse{Message: "customer deleted"})
}

// --- price list ---

func (h *BillingHandler) ListPrices(w http.ResponseWriter, r *http.Request) {
	if cached, ok := h.cache.Get(cacheKeyPrices); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	value, err := cache.FetchWithRetry(r.Context(), func(ctx context.Context) (interface{}, error) {
		var prices []models.PriceItem
		err := database.GetDB().WithContext(ctx).Order("name asc").Find(&prices).Error
		return prices, err
	}, h.config.FetchTimeout, h.config.FetchAttempts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load price list")
		return
	}

	h.cache.Set(cacheKeyPrices, value, cache.TTLPrices)
	writeJSON(w, http.StatusOK, value)
}

type priceRequest struct {
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Active    *bool           `json:"active"`
}

func (h *BillingHandler) CreatePrice(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" || req.Unit == "" {
		writeError(w, http.StatusBadRequest, "name and unit are required")
		return
	}
	if req.UnitPrice.IsNegative() {
		writeError(w, http.StatusBadRequest, "unit price must not be negative")
		return
	}

	item := models.PriceItem{
		Name:      req.Name,
		Unit:      req.Unit,
		UnitPrice: req.UnitPrice,
		Active:    true,
	}
	if req.Active != nil {
		item.Active = *req.Active
	}
	if err := database.GetDB().Create(&item).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create price item")
		return
	}
	h.cache.Invalidate(cacheKeyPrices)
	writeJSON(w, http.StatusCreated, item)
}

func (h *BillingHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid price item ID")
		return
	}

	var item models.PriceItem
	if err := database.GetDB().First(&item, id).Error; err != nil {
		writeError(w, http.StatusNotFound, "price item not found")
		return
	}

	var req priceRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" || req.Unit == "" {
		writeError(w, http.StatusBadRequest, "name and unit are required")
		return
	}
	if req.UnitPrice.IsNegative() {
		writeError(w, http.StatusBadRequest, "unit price must not be negative")
		return
	}

	item.Name = req.Name
	item.Unit = req.Unit
	item.UnitPrice = req.UnitPrice
	if req.Active != nil {
		item.Active = *req.Active
	}

	if err := database.GetDB().Save(&item).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update price item")
		return
	}
	h.cache.Invalidate(cacheKeyPrices)
	writeJSON(w, http.StatusOK, item)
}

// --- invoice templates ---

func (h *BillingHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	if cached, ok := h.cache.Get(cacheKeyTemplates); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	value, err := cache.FetchWithRetry(r.Context(), func(ctx context.Context) (interface{}, error) {
		var templates []models.InvoiceTemplate
		err := database.GetDB().WithContext(ctx).Order("name asc").Find(&templates).Error
		return templates, err
	}, h.config.FetchTimeout, h.config.FetchAttempts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load templates")
		return
	}

	h.cache.Set(cacheKeyTemplates, value, cache.TTLTemplates)
	writeJSON(w, http.StatusOK, value)
}

type templateRequest struct {
	Name       string `json:"name"`
	HeaderText string `json:"header_text"`
	FooterText string `json:"footer_text"`
	IsDefault  bool   `json:"is_default"`
}

func (h *BillingHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	tmpl := models.InvoiceTemplate{
		Name:       req.Name,
		HeaderText: req.HeaderText,
		FooterText: req.FooterText,
		IsDefault:  req.IsDefault,
	}
	if err := database.GetDB().Create(&tmpl).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create template")
		return
	}
	h.cache.Invalidate(cacheKeyTemplates)
	writeJSON(w, http.StatusCreated, tmpl)
}

func (h *BillingHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid template ID")
		return
	}

	var tmpl models.InvoiceTemplate
	if err := database.GetDB().First(&tmpl, id).Error; err != nil {
		writeError(w, http.StatusNotFound, "template not found")
		return
	}

	var req templateRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	tmpl.Name = req.Name
	tmpl.HeaderText = req.HeaderText
	tmpl.FooterText = req.FooterText
	tmpl.IsDefault = req.IsDefault

	if err := database.GetDB().Save(&tmpl).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update template")
		return
	}
	h.cache.Invalidate(cacheKeyTemplates)
	writeJSON(w, http.StatusOK, tmpl)
}

// --- invoices ---

func (h *BillingHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	query := database.GetDB().Preload("Customer").Preload("Template")
	if customerIDStr := r.URL.Query().Get("customer_id"); customerIDStr != "" {
		if cid, err := strconv.ParseUint(customerIDStr, 10, 32); err == nil && cid > 0 {
			query = query.Where("customer_id = ?", uint(cid))
		}
	}

	var invoices []models.Invoice
	if err := query.Order("number desc").Find(&invoices).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load invoices")
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

type invoiceRequest struct {
	CustomerID  uint            `json:"customer_id"`
	TemplateID  *uint           `json:"template_id"`
	PeriodStart string          `json:"period_start"`
	PeriodEnd   string          `json:"period_end"`
	NetAmount   decimal.Decimal `json:"net_amount"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

func (h *BillingHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req invoiceRequest
	if err := decodeJSON(r, &req); err != nil || req.CustomerID == 0 {
		writeError(w, http.StatusBadRequest, "customer_id is required")
		return
	}

	start, err := parseDate(req.PeriodStart)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period_start")
		return
	}
	end, err := parseDate(req.PeriodEnd)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period_end")
		return
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "period_end must not be before period_start")
		return
	}
	if req.NetAmount.IsNegative() || req.TaxRate.IsNegative() {
		writeError(w, http.StatusBadRequest, "amounts must not be negative")
		return
	}

	var customer models.Customer
	if err := database.GetDB().First(&customer, req.CustomerID).Error; err != nil {
		writeError(w, http.StatusBadRequest, "customer not found")
		return
	}

	number, err := database.NextNumber(database.GetDB(), database.ScopeInvoice, time.Now().Year())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to assign invoice number")
		return
	}

	hundred := decimal.NewFromInt(100)
	taxAmount := req.NetAmount.Mul(req.TaxRate).Div(hundred).Round(2)

	invoice := models.Invoice{
		Number:      number,
		Reference:   uuid.NewString(),
		CustomerID:  req.CustomerID,
		TemplateID:  req.TemplateID,
		PeriodStart: start,
		PeriodEnd:   end,
		NetAmount:   req.NetAmount.Round(2),
		TaxRate:     req.TaxRate,
		TaxAmount:   taxAmount,
		GrossAmount: req.NetAmount.Round(2).Add(taxAmount),
		Status:      models.InvoiceDraft,
		CreatedBy:   user.ID,
	}
	if err := database.GetDB().Create(&invoice).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create invoice")
		return
	}
	writeJSON(w, http.StatusCreated, invoice)
}

type invoiceStatusRequest struct {
	Status models.InvoiceStatus `json:"status"`
}

func (h *BillingHandler) UpdateInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid invoice ID")
		return
	}

	var invoice models.Invoice
	if err := database.GetDB().First(&invoice, id).Error; err != nil {
		writeError(w, http.StatusNotFound, "invoice not found")
		return
	}

	var req invoiceStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !invoice.CanTransitionTo(req.Status) {
		writeError(w, http.StatusBadRequest, "invalid status transition")
		return
	}

	invoice.Status = req.Status
	if err := database.GetDB().Save(&invoice).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update invoice")
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}
