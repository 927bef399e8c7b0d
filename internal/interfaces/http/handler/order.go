package handler

import (
	orderapp "github.com/erp/erpcore/internal/application/order"
	"github.com/erp/erpcore/internal/domain/order"
	"github.com/erp/erpcore/internal/interfaces/http/dto"
	"github.com/erp/erpcore/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// OrderHandler serves order and POS endpoints
type OrderHandler struct {
	BaseHandler
	workflow *orderapp.WorkflowService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(workflow *orderapp.WorkflowService) *OrderHandler {
	return &OrderHandler{workflow: workflow}
}

// ListOrdersQuery holds the filters of GET /orders
type ListOrdersQuery struct {
	dto.ListQuery
	Type          string `form:"type" binding:"omitempty,oneof=sales purchase return_sales return_purchase"`
	Status        string `form:"status" binding:"omitempty,oneof=draft pending_approval approved rejected completed cancelled"`
	PaymentStatus string `form:"payment_status" binding:"omitempty,oneof=unpaid partial paid"`
	WarehouseID   string `form:"warehouse_id" binding:"omitempty,uuid"`
	PartnerID     string `form:"partner_id" binding:"omitempty,uuid"`
	Search        string `form:"search" binding:"max=100"`
}

// Create handles POST /orders
//
//	@Summary		Create an order
//	@Description	Creates a draft order and assigns its document number
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			X-Tenant-ID	header	string	false	"Tenant a platform administrator acts as"	format(uuid)
//	@Param			request	body	orderapp.CreateOrderRequest	true	"Request body"
//	@Success		201	{object}	dto.Response
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req orderapp.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	req.CreatedBy = actorID(c)

	resp, err := h.workflow.CreateOrder(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List handles GET /orders
//
//	@Summary		List orders
//	@Tags			orders
//	@Produce		json
//	@Param			X-Tenant-ID	header	string	false	"Tenant a platform administrator acts as"	format(uuid)
//	@Param			page	query	integer	false	"Page number"	minimum(1)
//	@Param			page_size	query	integer	false	"Page size"	minimum(1) maximum(100)
//	@Param			order_by	query	string	false	"Sort field"	Enums(created_at, updated_at)
//	@Param			order_dir	query	string	false	"Sort direction"	Enums(asc, desc)
//	@Param			type	query	string	false	"Order type"	Enums(sales, purchase, return_sales, return_purchase)
//	@Param			status	query	string	false	"Order status"	Enums(draft, pending_approval, approved, rejected, completed, cancelled)
//	@Param			payment_status	query	string	false	"Payment status"	Enums(unpaid, partial, paid)
//	@Param			warehouse_id	query	string	false	"Warehouse ID"	format(uuid)
//	@Param			partner_id	query	string	false	"Partner ID"	format(uuid)
//	@Param			search	query	string	false	"Substring of the order number"	maxlength(100)
//	@Success		200	{object}	dto.Response
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var q ListOrdersQuery
	if !bindQuery(c, &q) {
		return
	}

	page, err := h.workflow.ListOrders(c.Request.Context(), order.Filter{
		Filter:        q.ListQuery.Filter(),
		Type:          order.Type(q.Type),
		Status:        order.Status(q.Status),
		PaymentStatus: order.PaymentStatus(q.PaymentStatus),
		WarehouseID:   optionalUUID(q.WarehouseID),
		PartnerID:     optionalUUID(q.PartnerID),
		Search:        q.Search,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// Get handles GET /orders/:id
//
//	@Summary		Get an order with its items
//	@Tags			orders
//	@Produce		json
//	@Param			X-Tenant-ID	header	string	false	"Tenant a platform administrator acts as"	format(uuid)
//	@Param			id	path	string	true	"Order ID"	format(uuid)
//	@Success		200	{object}	dto.Response
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	resp, err := h.workflow.GetOrder(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateStatus handles PUT /orders/:id/status
//
//	@Summary		Move an order to a new status
//	@Description	Completing an order moves stock; orders awaiting approval only leave that state through the approval endpoints
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			X-Tenant-ID	header	string	false	"Tenant a platform administrator acts as"	format(uuid)
//	@Param			id	path	string	true	"Order ID"	format(uuid)
//	@Param			request	body	orderapp.UpdateStatusRequest	true	"Request body"
//	@Success		200	{object}	dto.Response
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		422	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req orderapp.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.workflow.TransitionStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CheckoutPOS handles POST /pos/checkout
//
//	@Summary		Check out a point-of-sale sale
//	@Description	Creates, completes and pays a sales order in one transaction
//	@Tags			pos
//	@Accept			json
//	@Produce		json
//	@Param			X-Tenant-ID	header	string	false	"Tenant a platform administrator acts as"	format(uuid)
//	@Param			Idempotency-Key	header	string	false	"Replays the first response for a repeated key"	maxlength(128)
//	@Param			request	body	orderapp.POSCheckoutRequest	true	"Request body"
//	@Success		201	{object}	dto.Response
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		409	{object}	dto.Response
//	@Failure		422	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/pos/checkout [post]
func (h *OrderHandler) CheckoutPOS(c *gin.Context) {
	var req orderapp.POSCheckoutRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Cashier = actorID(c)
	req.IdempotencyKey = middleware.GetIdempotencyKey(c)

	resp, err := h.workflow.CheckoutPOS(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}
