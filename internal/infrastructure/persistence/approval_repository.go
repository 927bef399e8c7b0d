package persistence

import (
	"context"

	"github.com/erp/erpcore/internal/domain/approval"
	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/erp/erpcore/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormApprovalRepository implements approval.Repository using GORM
type GormApprovalRepository struct {
	db *gorm.DB
}

// NewGormApprovalRepository creates a new GormApprovalRepository
func NewGormApprovalRepository(db *gorm.DB) *GormApprovalRepository {
	return &GormApprovalRepository{db: db}
}

// Create inserts an approval request
func (r *GormApprovalRepository) Create(ctx context.Context, a *approval.Approval) error {
	return r.db.WithContext(ctx).Create(models.ApprovalModelFromDomain(a)).Error
}

// FindByID loads one approval
func (r *GormApprovalRepository) FindByID(ctx context.Context, id uuid.UUID) (*approval.Approval, error) {
	var model models.ApprovalModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "approval", id)
	}
	return model.ToDomain(), nil
}

// LockByID selects the approval FOR UPDATE
func (r *GormApprovalRepository) LockByID(ctx context.Context, id uuid.UUID) (*approval.Approval, error) {
	var model models.ApprovalModel
	if err := r.db.WithContext(ctx).Clauses(lockForUpdate()).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "approval", id)
	}
	return model.ToDomain(), nil
}

// Update writes the resolution fields
func (r *GormApprovalRepository) Update(ctx context.Context, a *approval.Approval) error {
	result := r.db.WithContext(ctx).
		Model(&models.ApprovalModel{}).
		Where("id = ?", a.ID).
		Updates(map[string]any{
			"status":             string(a.Status),
			"resolved_by":        a.ResolvedBy,
			"resolution_comment": a.ResolutionComment,
			"resolved_at":        a.ResolvedAt,
			"updated_at":         a.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("approval", a.ID)
	}
	return nil
}

// ExistsPending reports whether the target has an unresolved request
func (r *GormApprovalRepository) ExistsPending(ctx context.Context, targetType approval.TargetType, targetID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ApprovalModel{}).
		Where("target_type = ? AND target_id = ? AND status = ?", string(targetType), targetID, string(approval.StatusPending)).
		Count(&count).Error
	return count > 0, err
}

// List returns a page of approvals
func (r *GormApprovalRepository) List(ctx context.Context, filter approval.Filter) (shared.Paginated[approval.Approval], error) {
	page := filter.Filter.Normalize()
	scope := func(db *gorm.DB) *gorm.DB {
		if filter.Status != "" {
			db = db.Where("status = ?", string(filter.Status))
		}
		if filter.TargetType != "" {
			db = db.Where("target_type = ?", string(filter.TargetType))
		}
		if filter.TargetID != nil {
			db = db.Where("target_id = ?", *filter.TargetID)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.ApprovalModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return shared.Paginated[approval.Approval]{}, err
	}

	var rows []models.ApprovalModel
	query := applyOrdering(r.db.WithContext(ctx).Scopes(scope), page, ApprovalSortFields, "created_at")
	if err := applyPaging(query, page).Find(&rows).Error; err != nil {
		return shared.Paginated[approval.Approval]{}, err
	}

	items := make([]approval.Approval, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return shared.NewPaginated(items, total, page.Page, page.PageSize), nil
}

var _ approval.Repository = (*GormApprovalRepository)(nil)
