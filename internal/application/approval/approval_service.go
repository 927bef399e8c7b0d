// Package approval provides the approval gate. Requesting and resolving an
// approval update the gated document through its registered Updater in the
// same unit of work.
package approval

import (
	"context"

	"github.com/erp/erpcore/internal/application/uow"
	"github.com/erp/erpcore/internal/domain/approval"
	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Metrics receives counters for resolved approvals
type Metrics interface {
	RecordApprovalResolved(ctx context.Context, decision string)
}

type noopMetrics struct{}

func (noopMetrics) RecordApprovalResolved(context.Context, string) {}

// ApprovalService manages approval requests
type ApprovalService struct {
	scope    uow.TransactionScope
	registry *Registry
	logger   *zap.Logger
	metrics  Metrics
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(scope uow.TransactionScope, registry *Registry, logger *zap.Logger) *ApprovalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApprovalService{
		scope:    scope,
		registry: registry,
		logger:   logger,
		metrics:  noopMetrics{},
	}
}

// SetMetrics sets the metrics sink
func (s *ApprovalService) SetMetrics(m Metrics) {
	if m != nil {
		s.metrics = m
	}
}

// RequestApproval creates a pending request and moves the target into its pending state
func (s *ApprovalService) RequestApproval(ctx context.Context, req RequestApprovalRequest) (*ApprovalResponse, error) {
	targetType := approval.TargetType(req.TargetType)
	updater, err := s.registry.Lookup(targetType)
	if err != nil {
		return nil, err
	}

	a, err := approval.NewApproval(targetType, req.TargetID, req.RequestedBy, req.Comment)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos uow.Repositories) error {
		pending, err := repos.Approvals().ExistsPending(ctx, targetType, req.TargetID)
		if err != nil {
			return err
		}
		if pending {
			return shared.NewInvalidTransitionError(string(approval.StatusPending), string(approval.StatusPending)).
				WithDetail("target_id", req.TargetID.String()).
				WithDetail("reason", "target already has a pending approval")
		}
		if err := updater.SetStatus(ctx, repos, req.TargetID, approval.StatusPending); err != nil {
			return err
		}
		return repos.Approvals().Create(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Approval requested",
		zap.String("approval_id", a.ID.String()),
		zap.String("target_type", targetType.String()),
		zap.String("target_id", a.TargetID.String()),
	)
	return ToApprovalResponse(a), nil
}

// ResolveApproval records the decision and moves the target accordingly
func (s *ApprovalService) ResolveApproval(ctx context.Context, id uuid.UUID, req ResolveApprovalRequest) (*ApprovalResponse, error) {
	decision := approval.Status(req.Decision)

	var a *approval.Approval
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		if a, err = repos.Approvals().LockByID(ctx, id); err != nil {
			return err
		}
		updater, err := s.registry.Lookup(a.TargetType)
		if err != nil {
			return err
		}
		if err := a.Resolve(decision, req.ResolvedBy, req.Comment); err != nil {
			return err
		}
		if err := repos.Approvals().Update(ctx, a); err != nil {
			return err
		}
		return updater.SetStatus(ctx, repos, a.TargetID, decision)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordApprovalResolved(ctx, string(decision))
	s.logger.Info("Approval resolved",
		zap.String("approval_id", a.ID.String()),
		zap.String("decision", string(decision)),
		zap.String("target_id", a.TargetID.String()),
	)
	return ToApprovalResponse(a), nil
}

// GetApproval returns one approval
func (s *ApprovalService) GetApproval(ctx context.Context, id uuid.UUID) (*ApprovalResponse, error) {
	var a *approval.Approval
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		a, err = repos.Approvals().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToApprovalResponse(a), nil
}

// ListApprovals lists approvals
func (s *ApprovalService) ListApprovals(ctx context.Context, filter approval.Filter) (shared.Paginated[ApprovalResponse], error) {
	var page shared.Paginated[approval.Approval]
	err := s.scope.Execute(ctx, func(repos uow.Repositories) error {
		var err error
		page, err = repos.Approvals().List(ctx, filter)
		return err
	})
	if err != nil {
		return shared.Paginated[ApprovalResponse]{}, err
	}
	return shared.MapPaginated(page, func(a approval.Approval) ApprovalResponse {
		return *ToApprovalResponse(&a)
	}), nil
}
