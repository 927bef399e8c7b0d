// Package approval models approval requests gating status changes of other documents.
package approval

import (
	"context"
	"strings"
	"time"

	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/google/uuid"
)

// TargetType names the kind of document an approval gates
type TargetType string

// TargetOrder is the order target, registered by default
const TargetOrder TargetType = "order"

// String returns the string representation of TargetType
func (t TargetType) String() string {
	return string(t)
}

// Status of an approval request
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// IsValid checks if the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsDecision reports whether s can be used to resolve a request
func (s Status) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

// Approval is a single request for sign-off on a target
type Approval struct {
	shared.BaseEntity
	TargetType        TargetType
	TargetID          uuid.UUID
	Status            Status
	RequestedBy       *uuid.UUID
	Comment           string
	ResolvedBy        *uuid.UUID
	ResolutionComment string
	ResolvedAt        *time.Time
}

// NewApproval creates a pending request
func NewApproval(targetType TargetType, targetID uuid.UUID, requestedBy *uuid.UUID, comment string) (*Approval, error) {
	if strings.TrimSpace(string(targetType)) == "" {
		return nil, shared.NewValidationError("target_type is required")
	}
	if targetID == uuid.Nil {
		return nil, shared.NewValidationError("target_id is required")
	}
	return &Approval{
		BaseEntity:  shared.NewBaseEntity(),
		TargetType:  targetType,
		TargetID:    targetID,
		Status:      StatusPending,
		RequestedBy: requestedBy,
		Comment:     strings.TrimSpace(comment),
	}, nil
}

// Resolve records the decision. Only pending requests can be resolved.
func (a *Approval) Resolve(decision Status, resolvedBy *uuid.UUID, comment string) error {
	if !decision.IsDecision() {
		return shared.NewValidationError("decision must be approved or rejected")
	}
	if a.Status != StatusPending {
		return shared.NewInvalidTransitionError(string(a.Status), string(decision)).
			WithDetail("approval_id", a.ID.String())
	}
	now := time.Now().UTC()
	a.Status = decision
	a.ResolvedBy = resolvedBy
	a.ResolutionComment = strings.TrimSpace(comment)
	a.ResolvedAt = &now
	a.UpdatedAt = now
	return nil
}

// Filter narrows approval listings
type Filter struct {
	shared.Filter
	Status     Status
	TargetType TargetType
	TargetID   *uuid.UUID
}

// Repository persists approvals
type Repository interface {
	Create(ctx context.Context, approval *Approval) error
	FindByID(ctx context.Context, id uuid.UUID) (*Approval, error)
	LockByID(ctx context.Context, id uuid.UUID) (*Approval, error)
	Update(ctx context.Context, approval *Approval) error
	// ExistsPending reports whether the target already has an unresolved request
	ExistsPending(ctx context.Context, targetType TargetType, targetID uuid.UUID) (bool, error)
	List(ctx context.Context, filter Filter) (shared.Paginated[Approval], error)
}
