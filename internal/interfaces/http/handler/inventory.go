package handler

import (
	inventoryapp "github.com/erp/erpcore/internal/application/inventory"
	"github.com/erp/erpcore/internal/domain/inventory"
	"github.com/erp/erpcore/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InventoryHandler serves the inventory ledger endpoints
type InventoryHandler struct {
	BaseHandler
	ledger *inventoryapp.LedgerService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(ledger *inventoryapp.LedgerService) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// ListStockQuery holds the filters of GET /inventory/stocks
type ListStockQuery struct {
	dto.ListQuery
	WarehouseID string `form:"warehouse_id" binding:"omitempty,uuid"`
	ProductID   string `form:"product_id" binding:"omitempty,uuid"`
}

// StockKeyQuery addresses one stock row
type StockKeyQuery struct {
	WarehouseID  string `form:"warehouse_id" binding:"required,uuid"`
	ProductID    string `form:"product_id" binding:"required,uuid"`
	LocationCode string `form:"location_code" binding:"max=50"`
}

// ListLogsQuery holds the filters of GET /inventory/logs
type ListLogsQuery struct {
	dto.ListQuery
	WarehouseID string `form:"warehouse_id" binding:"omitempty,uuid"`
	ProductID   string `form:"product_id" binding:"omitempty,uuid"`
	Type        string `form:"type" binding:"omitempty,oneof=inbound outbound transfer_in transfer_out adjustment"`
	ReferenceID string `form:"reference_id" binding:"omitempty,uuid"`
}

// StatsQuery optionally narrows stats to one warehouse
type StatsQuery struct {
	WarehouseID string `form:"warehouse_id" binding:"omitempty,uuid"`
}

// ListStock handles GET /inventory/stocks
//
//	@Summary		List stock positions
//	@Tags			inventory
//	@Produce		json
//	@Param			X-Tenant-ID	header	string	false	"Tenant a platform administrator acts as"	format(uuid)
//	@Param			page	query	integer	false	"Page number"	minimum(1)
//	@Param			page_size	query	integer	false	"Page size"	minimum(1) maximum(100)
//	@Param			order_by	query	string	false	"Sort field"	Enums(created_at, updated_at)
//	@Param			order_dir	query	string	false	"Sort direction"	Enums(asc, desc)
//	@Param			warehouse_id	query	string	false	"Warehouse ID"	format(uuid)
//	@Param			product_id	query	string	false	"Product ID"	format(uuid)
//	@Success		200	{object}	dto.Response
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/inventory/stocks [get]
func (h *InventoryHandler) ListStock(c *gin.Context) {
	var q ListStockQuery
	if !bindQuery(c, &q) {
		return
	}

	page, err := h.ledger.ListStock(c.Request.Context(), inventory.StockFilter{
		Filter:      q.ListQuery.Filter(),
		WarehouseID: optionalUUID(q.WarehouseID),
		ProductID:   optionalUUID(q.ProductID),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// LookupStock handles GET /inventory/stocks/lookup
//
//	@Summary		Get one stock position
//	@Tags			inventory
//	@Produce		json
//	@Param			X-Tenant-ID	header	string	false	"Tenant a platform administrator acts as"	format(uuid)
//	@Param			warehouse_id	query	string	true	"Warehouse ID"	format(uuid)
//	@Param			product_id	query	string	true	"Product ID"	format(uuid)
//	@Param			location_code	query	string	false	"Bin; the default location when empty"	maxlength(50)
//	@Success		200	{object}	dto.Response
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/inventory/stocks/lookup [get]
func (h *InventoryHandler) LookupStock(c *gin.Context) {
	var q StockKeyQuery
	if !bindQuery(c, &q) {
		return
	}

	resp, err := h.ledger.GetStock(c.Request.Context(),
		uuid.MustParse(q.WarehouseID), uuid.MustParse(q.ProductID), q.LocationCode)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// VerifyStock handles GET /inventory/stocks/verify.
// It answers 200 when the row matches its ledger and 500 CONSISTENCY_VIOLATION otherwise.
//
//	@Summary		Check a stock row against its ledger
//	@Tags			inventory
//	@Produce		json
//	@Param			X-Tenant-ID	header	string	false	"Tenant a platform administrator acts as"	format(uuid)
//	@Param			warehouse_id	query	string	true	"Warehouse ID"	format(uuid)
//	@Param			product_id	query	string	true	"Product ID"	format(uuid)
//	@Param			location_code	query	string	false	"Bin; the default location when empty"	maxlength(50)
//	@Success		200	{object}	dto.Response
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		500	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/inventory/stocks/verify [get]
func (h *InventoryHandler) VerifyStock(c *gin.Context) {
	var q StockKeyQuery
	if !bindQuery(c, &q) {
		return
	}

	err := h.ledger.VerifyKey(c.Request.Context(),
		uuid.MustParse(q.WarehouseID), uuid.MustParse(q.ProductID), q.LocationCode)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"consistent": true})
}

// Adjust handles POST /inventory/adjust
//
//	@Summary		Set a stock quantity
//	@Tags			inventory
//	@Accept			json
//	@Produce		json
//	@Param			X-Tenant-ID	header	string	false	"Tenant a platform administrator acts as"	format(uuid)
//	@Param			request	body	inventoryapp.AdjustStockRequest	true	"Request body"
//	@Success		200	{object}	dto.Response
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/inventory/adjust [post]
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req inventoryapp.AdjustStockRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.ledger.AdjustStock(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Transfer handles POST /inventory/transfer
//
//	@Summary		Move stock between locations
//	@Tags			inventory
//	@Accept			json
//	@Produce		json
//	@Param			X-Tenant-ID	header	string	false	"Tenant a platform administrator acts as"	format(uuid)
//	@Param			request	body	inventoryapp.TransferRequest	true	"Request body"
//	@Success		200	{object}	dto.Response
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		422	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/inventory/transfer [post]
func (h *InventoryHandler) Transfer(c *gin.Context) {
	var req inventoryapp.TransferRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.ledger.Transfer(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RunAudit handles POST /inventory/audits
//
//	@Summary		Record a stock count
//	@Tags			inventory
//	@Accept			json
//	@Produce		json
//	@Param			X-Tenant-ID	header	string	false	"Tenant a platform administrator acts as"	format(uuid)
//	@Param			request	body	inventoryapp.RunAuditRequest	true	"Request body"
//	@Success		201	{object}	dto.Response
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/inventory/audits [post]
func (h *InventoryHandler) RunAudit(c *gin.Context) {
	var req inventoryapp.RunAuditRequest
	if !bindJSON(c, &req) {
		return
	}
	req.CreatedBy = actorID(c)

	resp, err := h.ledger.RunAudit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetAudit handles GET /inventory/audits/:id
//
//	@Summary		Get an audit with its count lines
//	@Tags			inventory
//	@Produce		json
//	@Param			X-Tenant-ID	header	string	false	"Tenant a platform administrator acts as"	format(uuid)
//	@Param			id	path	string	true	"Audit ID"	format(uuid)
//	@Success		200	{object}	dto.Response
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/inventory/audits/{id} [get]
func (h *InventoryHandler) GetAudit(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	resp, err := h.ledger.GetAudit(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListLogs handles GET /inventory/logs
//
//	@Summary		List ledger entries
//	@Tags			inventory
//	@Produce		json
//	@Param			X-Tenant-ID	header	string	false	"Tenant a platform administrator acts as"	format(uuid)
//	@Param			page	query	integer	false	"Page number"	minimum(1)
//	@Param			page_size	query	integer	false	"Page size"	minimum(1) maximum(100)
//	@Param			order_by	query	string	false	"Sort field"	Enums(created_at, updated_at)
//	@Param			order_dir	query	string	false	"Sort direction"	Enums(asc, desc)
//	@Param			warehouse_id	query	string	false	"Warehouse ID"	format(uuid)
//	@Param			product_id	query	string	false	"Product ID"	format(uuid)
//	@Param			type	query	string	false	"Movement type"	Enums(inbound, outbound, transfer_in, transfer_out, adjustment)
//	@Param			reference_id	query	string	false	"Reference ID"	format(uuid)
//	@Success		200	{object}	dto.Response
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/inventory/logs [get]
func (h *InventoryHandler) ListLogs(c *gin.Context) {
	var q ListLogsQuery
	if !bindQuery(c, &q) {
		return
	}

	page, err := h.ledger.ListLogs(c.Request.Context(), inventory.LogFilter{
		Filter:      q.ListQuery.Filter(),
		WarehouseID: optionalUUID(q.WarehouseID),
		ProductID:   optionalUUID(q.ProductID),
		Type:        inventory.MovementType(q.Type),
		ReferenceID: optionalUUID(q.ReferenceID),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// Stats handles GET /inventory/stats
//
//	@Summary		Summarize stock
//	@Tags			inventory
//	@Produce		json
//	@Param			X-Tenant-ID	header	string	false	"Tenant a platform administrator acts as"	format(uuid)
//	@Param			warehouse_id	query	string	false	"Warehouse ID"	format(uuid)
//	@Success		200	{object}	dto.Response
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/inventory/stats [get]
func (h *InventoryHandler) Stats(c *gin.Context) {
	var q StatsQuery
	if !bindQuery(c, &q) {
		return
	}

	stats, err := h.ledger.GetStats(c.Request.Context(), optionalUUID(q.WarehouseID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
