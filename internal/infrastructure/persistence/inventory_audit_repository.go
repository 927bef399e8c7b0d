package persistence

import (
	"context"

	"github.com/erp/erpcore/internal/domain/inventory"
	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/erp/erpcore/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInventoryAuditRepository implements inventory.AuditRepository using GORM
type GormInventoryAuditRepository struct {
	db *gorm.DB
}

// NewGormInventoryAuditRepository creates a new GormInventoryAuditRepository
func NewGormInventoryAuditRepository(db *gorm.DB) *GormInventoryAuditRepository {
	return &GormInventoryAuditRepository{db: db}
}

// Create inserts the audit header
func (r *GormInventoryAuditRepository) Create(ctx context.Context, audit *inventory.Audit) error {
	return r.db.WithContext(ctx).Omit("Items").Create(models.InventoryAuditModelFromDomain(audit)).Error
}

// AddItem inserts one counted line
func (r *GormInventoryAuditRepository) AddItem(ctx context.Context, item *inventory.AuditItem) error {
	return r.db.WithContext(ctx).Create(models.InventoryAuditItemModelFromDomain(item)).Error
}

// UpdateStatus writes status and completion time
func (r *GormInventoryAuditRepository) UpdateStatus(ctx context.Context, audit *inventory.Audit) error {
	result := r.db.WithContext(ctx).
		Model(&models.InventoryAuditModel{}).
		Where("id = ?", audit.ID).
		Updates(map[string]any{
			"status":       string(audit.Status),
			"completed_at": audit.CompletedAt,
			"updated_at":   audit.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("inventory audit", audit.ID)
	}
	return nil
}

// FindByID loads an audit with its items
func (r *GormInventoryAuditRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Audit, error) {
	var model models.InventoryAuditModel
	if err := r.db.WithContext(ctx).Preload("Items").First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "inventory audit", id)
	}
	return model.ToDomain(), nil
}

var _ inventory.AuditRepository = (*GormInventoryAuditRepository)(nil)
