package approval

import (
	"time"

	"github.com/erp/erpcore/internal/domain/approval"
	"github.com/google/uuid"
)

// RequestApprovalRequest asks for sign-off on a document
type RequestApprovalRequest struct {
	TargetType  string     `json:"target_type" binding:"required,max=50"`
	TargetID    uuid.UUID  `json:"target_id" binding:"required"`
	Comment     string     `json:"comment" binding:"max=500"`
	RequestedBy *uuid.UUID `json:"-"`
}

// ResolveApprovalRequest records a decision on a pending request
type ResolveApprovalRequest struct {
	Decision   string     `json:"decision" binding:"required,oneof=approved rejected"`
	Comment    string     `json:"comment" binding:"max=500"`
	ResolvedBy *uuid.UUID `json:"-"`
}

// ApprovalResponse represents an approval in API responses
type ApprovalResponse struct {
	ID                uuid.UUID  `json:"id"`
	TargetType        string     `json:"target_type"`
	TargetID          uuid.UUID  `json:"target_id"`
	Status            string     `json:"status"`
	RequestedBy       *uuid.UUID `json:"requested_by,omitempty"`
	Comment           string     `json:"comment,omitempty"`
	ResolvedBy        *uuid.UUID `json:"resolved_by,omitempty"`
	ResolutionComment string     `json:"resolution_comment,omitempty"`
	ResolvedAt        *time.Time `json:"resolved_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// ToApprovalResponse converts a domain Approval to its response
func ToApprovalResponse(a *approval.Approval) *ApprovalResponse {
	return &ApprovalResponse{
		ID:                a.ID,
		TargetType:        a.TargetType.String(),
		TargetID:          a.TargetID,
		Status:            string(a.Status),
		RequestedBy:       a.RequestedBy,
		Comment:           a.Comment,
		ResolvedBy:        a.ResolvedBy,
		ResolutionComment: a.ResolutionComment,
		ResolvedAt:        a.ResolvedAt,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}
