package handler

import (
	approvalapp "github.com/erp/erpcore/internal/application/approval"
	"github.com/erp/erpcore/internal/domain/approval"
	"github.com/erp/erpcore/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ApprovalHandler serves the approval gate endpoints
type ApprovalHandler struct {
	BaseHandler
	approvals *approvalapp.ApprovalService
}

// NewApprovalHandler creates a new ApprovalHandler
func NewApprovalHandler(approvals *approvalapp.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvals: approvals}
}

// ListApprovalsQuery holds the filters of GET /approvals
type ListApprovalsQuery struct {
	dto.ListQuery
	Status     string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	TargetType string `form:"target_type" binding:"max=50"`
	TargetID   string `form:"target_id" binding:"omitempty,uuid"`
}

// Request handles POST /approvals
//
//	@Summary		Request approval for a target
//	@Tags			approvals
//	@Accept			json
//	@Produce		json
//	@Param			X-Tenant-ID	header	string	false	"Tenant a platform administrator acts as"	format(uuid)
//	@Param			request	body	approvalapp.RequestApprovalRequest	true	"Request body"
//	@Success		201	{object}	dto.Response
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		409	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/approvals [post]
func (h *ApprovalHandler) Request(c *gin.Context) {
	var req approvalapp.RequestApprovalRequest
	if !bindJSON(c, &req) {
		return
	}
	req.RequestedBy = actorID(c)

	resp, err := h.approvals.RequestApproval(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List handles GET /approvals
//
//	@Summary		List approvals
//	@Tags			approvals
//	@Produce		json
//	@Param			X-Tenant-ID	header	string	false	"Tenant a platform administrator acts as"	format(uuid)
//	@Param			page	query	integer	false	"Page number"	minimum(1)
//	@Param			page_size	query	integer	false	"Page size"	minimum(1) maximum(100)
//	@Param			order_by	query	string	false	"Sort field"	Enums(created_at, updated_at)
//	@Param			order_dir	query	string	false	"Sort direction"	Enums(asc, desc)
//	@Param			status	query	string	false	"Approval status"	Enums(pending, approved, rejected)
//	@Param			target_type	query	string	false	"Target type"	maxlength(50)
//	@Param			target_id	query	string	false	"Target ID"	format(uuid)
//	@Success		200	{object}	dto.Response
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/approvals [get]
func (h *ApprovalHandler) List(c *gin.Context) {
	var q ListApprovalsQuery
	if !bindQuery(c, &q) {
		return
	}

	page, err := h.approvals.ListApprovals(c.Request.Context(), approval.Filter{
		Filter:     q.ListQuery.Filter(),
		Status:     approval.Status(q.Status),
		TargetType: approval.TargetType(q.TargetType),
		TargetID:   optionalUUID(q.TargetID),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// Get handles GET /approvals/:id
//
//	@Summary		Get an approval
//	@Tags			approvals
//	@Produce		json
//	@Param			X-Tenant-ID	header	string	false	"Tenant a platform administrator acts as"	format(uuid)
//	@Param			id	path	string	true	"Approval ID"	format(uuid)
//	@Success		200	{object}	dto.Response
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/approvals/{id} [get]
func (h *ApprovalHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	resp, err := h.approvals.GetApproval(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Resolve handles PUT /approvals/:id/resolve
//
//	@Summary		Approve or reject a pending request
//	@Description	Applies the decision to the target in the same transaction
//	@Tags			approvals
//	@Accept			json
//	@Produce		json
//	@Param			X-Tenant-ID	header	string	false	"Tenant a platform administrator acts as"	format(uuid)
//	@Param			id	path	string	true	"Approval ID"	format(uuid)
//	@Param			request	body	approvalapp.ResolveApprovalRequest	true	"Request body"
//	@Success		200	{object}	dto.Response
//	@Failure		400	{object}	dto.Response
//	@Failure		401	{object}	dto.Response
//	@Failure		403	{object}	dto.Response
//	@Failure		404	{object}	dto.Response
//	@Failure		422	{object}	dto.Response
//	@Security		BearerAuth
//	@Router			/approvals/{id}/resolve [put]
func (h *ApprovalHandler) Resolve(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req approvalapp.ResolveApprovalRequest
	if !bindJSON(c, &req) {
		return
	}
	req.ResolvedBy = actorID(c)

	resp, err := h.approvals.ResolveApproval(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
