package persistence

import (
	"context"
	"time"

	"github.com/erp/erpcore/internal/domain/order"
	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/erp/erpcore/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts the order header together with its items
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	if err := r.db.WithContext(ctx).Create(models.OrderModelFromDomain(o)).Error; err != nil {
		return translateError(err, "order", o.OrderNo)
	}
	return nil
}

// FindByID loads an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).Preload("Items").First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "order", id)
	}
	return model.ToDomain(), nil
}

// LockByID selects the order header FOR UPDATE, then loads its items
func (r *GormOrderRepository) LockByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Clauses(lockForUpdate()).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "order", id)
	}
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", id).
		Order("id").
		Find(&model.Items).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// UpdateStatus writes the order status
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, o *order.Order) error {
	return r.update(ctx, o.ID, map[string]any{
		"status":     string(o.Status),
		"updated_at": o.UpdatedAt,
	})
}

// UpdatePaymentStatus writes the derived payment status
func (r *GormOrderRepository) UpdatePaymentStatus(ctx context.Context, o *order.Order) error {
	return r.update(ctx, o.ID, map[string]any{
		"payment_status": string(o.PaymentStatus),
		"updated_at":     o.UpdatedAt,
	})
}

func (r *GormOrderRepository) update(ctx context.Context, id uuid.UUID, values map[string]any) error {
	if t, ok := values["updated_at"].(time.Time); ok && t.IsZero() {
		values["updated_at"] = time.Now().UTC()
	}
	result := r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("order", id)
	}
	return nil
}

// List returns a page of order headers, without items
func (r *GormOrderRepository) List(ctx context.Context, filter order.Filter) (shared.Paginated[order.Order], error) {
	page := filter.Filter.Normalize()
	scope := func(db *gorm.DB) *gorm.DB {
		if filter.Type != "" {
			db = db.Where("type = ?", string(filter.Type))
		}
		if filter.Status != "" {
			db = db.Where("status = ?", string(filter.Status))
		}
		if filter.PaymentStatus != "" {
			db = db.Where("payment_status = ?", string(filter.PaymentStatus))
		}
		if filter.WarehouseID != nil {
			db = db.Where("warehouse_id = ?", *filter.WarehouseID)
		}
		if filter.PartnerID != nil {
			db = db.Where("partner_id = ?", *filter.PartnerID)
		}
		if filter.Search != "" {
			db = db.Where(`order_no LIKE ? ESCAPE '\'`, containsPattern(filter.Search))
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return shared.Paginated[order.Order]{}, err
	}

	var rows []models.OrderModel
	query := applyOrdering(r.db.WithContext(ctx).Scopes(scope), page, OrderSortFields, "created_at")
	if err := applyPaging(query, page).Find(&rows).Error; err != nil {
		return shared.Paginated[order.Order]{}, err
	}

	items := make([]order.Order, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return shared.NewPaginated(items, total, page.Page, page.PageSize), nil
}

// CountAwaitingStock counts approved orders of the given types
func (r *GormOrderRepository) CountAwaitingStock(ctx context.Context, warehouseID *uuid.UUID, types ...order.Type) (int64, error) {
	if len(types) == 0 {
		return 0, nil
	}
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	query := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("status = ? AND type IN ?", string(order.StatusApproved), names)
	if warehouseID != nil {
		query = query.Where("warehouse_id = ?", *warehouseID)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

var _ order.Repository = (*GormOrderRepository)(nil)

// GormSequenceRepository implements order.SequenceRepository using GORM
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// Next materialises the counter if needed, locks it and increments it
func (r *GormSequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&models.DocumentSequenceModel{Name: name, Value: 0}).Error; err != nil {
		return 0, err
	}

	var seq models.DocumentSequenceModel
	if err := db.Clauses(lockForUpdate()).
		First(&seq, "name = ?", name).Error; err != nil {
		return 0, translateError(err, "document sequence", name)
	}

	seq.Value++
	if err := db.Model(&models.DocumentSequenceModel{}).
		Where("name = ?", name).
		Update("value", seq.Value).Error; err != nil {
		return 0, err
	}
	return seq.Value, nil
}

var _ order.SequenceRepository = (*GormSequenceRepository)(nil)
