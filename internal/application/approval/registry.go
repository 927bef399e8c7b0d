package approval

import (
	"context"
	"sync"

	orderapp "github.com/erp/erpcore/internal/application/order"
	"github.com/erp/erpcore/internal/application/uow"
	"github.com/erp/erpcore/internal/domain/approval"
	"github.com/erp/erpcore/internal/domain/order"
	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/google/uuid"
)

// Updater moves a gated document to the status matching an approval state.
// It runs inside the approval's unit of work.
type Updater interface {
	SetStatus(ctx context.Context, repos uow.Repositories, targetID uuid.UUID, status approval.Status) error
}

// UpdaterFunc adapts a function to Updater
type UpdaterFunc func(ctx context.Context, repos uow.Repositories, targetID uuid.UUID, status approval.Status) error

// SetStatus calls f
func (f UpdaterFunc) SetStatus(ctx context.Context, repos uow.Repositories, targetID uuid.UUID, status approval.Status) error {
	return f(ctx, repos, targetID, status)
}

// Registry maps target types to their updaters. It is populated at start-up.
type Registry struct {
	mu       sync.RWMutex
	updaters map[approval.TargetType]Updater
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{updaters: make(map[approval.TargetType]Updater)}
}

// Register adds or replaces the updater for a target type
func (r *Registry) Register(targetType approval.TargetType, updater Updater) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updaters[targetType] = updater
}

// Lookup returns the updater for a target type
func (r *Registry) Lookup(targetType approval.TargetType) (Updater, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	updater, ok := r.updaters[targetType]
	if !ok {
		return nil, shared.ErrUnknownTargetType.WithDetail("target_type", targetType.String())
	}
	return updater, nil
}

// OrderUpdater gates orders through the order status machine
type OrderUpdater struct {
	workflow *orderapp.WorkflowService
}

// NewOrderUpdater creates an updater backed by the order workflow
func NewOrderUpdater(workflow *orderapp.WorkflowService) *OrderUpdater {
	return &OrderUpdater{workflow: workflow}
}

// orderStatusFor maps an approval state onto the order status it implies.
// A rejected request sends the order back to draft for rework.
var orderStatusFor = map[approval.Status]order.Status{
	approval.StatusPending:  order.StatusPendingApproval,
	approval.StatusApproved: order.StatusApproved,
	approval.StatusRejected: order.StatusDraft,
}

// SetStatus transitions the order, failing with InvalidTransition when the edge is not allowed
func (u *OrderUpdater) SetStatus(ctx context.Context, repos uow.Repositories, targetID uuid.UUID, status approval.Status) error {
	target, ok := orderStatusFor[status]
	if !ok {
		return shared.NewValidationError("no order status for approval status %q", status)
	}
	_, _, _, err := u.workflow.Bind(repos).Transition(ctx, targetID, target)
	return err
}
