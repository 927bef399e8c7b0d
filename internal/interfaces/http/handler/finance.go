package handler

import (
	financeapp "github.com/erp/erpcore/internal/application/finance"
	"github.com/erp/erpcore/internal/domain/finance"
	"github.com/erp/erpcore/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// FinanceHandler serves transactions, expenses and invoices
type FinanceHandler struct {
	BaseHandler
	reconciler *financeapp.ReconcilerService
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(reconciler *financeapp.ReconcilerService) *FinanceHandler {
	return &FinanceHandler{reconciler: reconciler}
}

// ListTransactionsQuery holds the filters of GET /finance/transactions
type ListTransactionsQuery struct {
	dto.ListQuery
	Type      string `form:"type" binding:"omitempty,oneof=income expense"`
	PartnerID string `form:"partner_id" binding:"omitempty,uuid"`
	OrderID   string `form:"order_id" binding:"omitempty,uuid"`
}

// ListInvoicesQuery holds the filters of GET /finance/invoices
type ListInvoicesQuery struct {
	dto.ListQuery
	OrderID string `form:"order_id" binding:"omitempty,uuid"`
	Status  string `form:"status" binding:"omitempty,oneof=issued voided"`
}

// RecordTransaction handles POST /finance/transactions
//
//	@Summary		Record a payment
//	@Tags			finance
//	@Accept			json
//	@Produce		json
//	@Param			X-Tenant-ID	header	string	false	"Tenant a platform administrator acts as"	format(uuid)
//	@Param			request	body	financeapp.RecordTransactionRequest	true	"Request body"
//	@Success		201	{object}	dto.Response
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/finance/transactions [post]
func (h *FinanceHandler) RecordTransaction(c *gin.Context) {
	var req financeapp.RecordTransactionRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.reconciler.RecordTransaction(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListTransactions handles GET /finance/transactions
//
//	@Summary		List financial transactions
//	@Tags			finance
//	@Produce		json
//	@Param			X-Tenant-ID	header	string	false	"Tenant a platform administrator acts as"	format(uuid)
//	@Param			page	query	integer	false	"Page number"	minimum(1)
//	@Param			page_size	query	integer	false	"Page size"	minimum(1) maximum(100)
//	@Param			order_by	query	string	false	"Sort field"	Enums(created_at, updated_at)
//	@Param			order_dir	query	string	false	"Sort direction"	Enums(asc, desc)
//	@Param			type	query	string	false	"Transaction type"	Enums(income, expense)
//	@Param			partner_id	query	string	false	"Partner ID"	format(uuid)
//	@Param			order_id	query	string	false	"Order ID"	format(uuid)
//	@Success		200	{object}	dto.Response
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/finance/transactions [get]
func (h *FinanceHandler) ListTransactions(c *gin.Context) {
	var q ListTransactionsQuery
	if !bindQuery(c, &q) {
		return
	}

	page, err := h.reconciler.ListTransactions(c.Request.Context(), finance.TransactionFilter{
		Filter:    q.ListQuery.Filter(),
		Type:      finance.TransactionType(q.Type),
		PartnerID: optionalUUID(q.PartnerID),
		OrderID:   optionalUUID(q.OrderID),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// RecordExpense handles POST /finance/expenses
//
//	@Summary		Record an expense
//	@Tags			finance
//	@Accept			json
//	@Produce		json
//	@Param			X-Tenant-ID	header	string	false	"Tenant a platform administrator acts as"	format(uuid)
//	@Param			request	body	financeapp.RecordExpenseRequest	true	"Request body"
//	@Success		201	{object}	dto.Response
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/finance/expenses [post]
func (h *FinanceHandler) RecordExpense(c *gin.Context) {
	var req financeapp.RecordExpenseRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.reconciler.RecordExpense(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// CreateInvoice handles POST /finance/invoices
//
//	@Summary		Issue an invoice
//	@Tags			finance
//	@Accept			json
//	@Produce		json
//	@Param			X-Tenant-ID	header	string	false	"Tenant a platform administrator acts as"	format(uuid)
//	@Param			request	body	financeapp.CreateInvoiceRequest	true	"Request body"
//	@Success		201	{object}	dto.Response
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/finance/invoices [post]
func (h *FinanceHandler) CreateInvoice(c *gin.Context) {
	var req financeapp.CreateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.reconciler.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListInvoices handles GET /finance/invoices
//
//	@Summary		List invoices
//	@Tags			finance
//	@Produce		json
//	@Param			X-Tenant-ID	header	string	false	"Tenant a platform administrator acts as"	format(uuid)
//	@Param			page	query	integer	false	"Page number"	minimum(1)
//	@Param			page_size	query	integer	false	"Page size"	minimum(1) maximum(100)
//	@Param			order_by	query	string	false	"Sort field"	Enums(created_at, updated_at)
//	@Param			order_dir	query	string	false	"Sort direction"	Enums(asc, desc)
//	@Param			order_id	query	string	false	"Order ID"	format(uuid)
//	@Param			status	query	string	false	"Invoice status"	Enums(issued, voided)
//	@Success		200	{object}	dto.Response
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/finance/invoices [get]
func (h *FinanceHandler) ListInvoices(c *gin.Context) {
	var q ListInvoicesQuery
	if !bindQuery(c, &q) {
		return
	}

	page, err := h.reconciler.ListInvoices(c.Request.Context(), finance.InvoiceFilter{
		Filter:  q.ListQuery.Filter(),
		OrderID: optionalUUID(q.OrderID),
		Status:  finance.InvoiceStatus(q.Status),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// GetInvoice handles GET /finance/invoices/:id
//
//	@Summary		Get an invoice
//	@Tags			finance
//	@Produce		json
//	@Param			X-Tenant-ID	header	string	false	"Tenant a platform administrator acts as"	format(uuid)
//	@Param			id	path	string	true	"Invoice ID"	format(uuid)
//	@Success		200	{object}	dto.Response
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/finance/invoices/{id} [get]
func (h *FinanceHandler) GetInvoice(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	resp, err := h.reconciler.GetInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
