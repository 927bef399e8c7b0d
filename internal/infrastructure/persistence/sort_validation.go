package persistence

import (
	"strings"

	"github.com/erp/erpcore/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// StockSortFields contains allowed sort fields for stock positions
var StockSortFields = map[string]bool{
	"id":            true,
	"updated_at":    true,
	"quantity":      true,
	"location_code": true,
	"product_id":    true,
}

// InventoryLogSortFields contains allowed sort fields for ledger entries
var InventoryLogSortFields = map[string]bool{
	"created_at": true,
	"change_qty": true,
	"type":       true,
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]bool{
	"created_at":   true,
	"updated_at":   true,
	"order_no":     true,
	"status":       true,
	"total_amount": true,
}

// TransactionSortFields contains allowed sort fields for financial transactions
var TransactionSortFields = map[string]bool{
	"created_at": true,
	"amount":     true,
	"type":       true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"created_at": true,
	"invoice_no": true,
	"amount":     true,
}

// ApprovalSortFields contains allowed sort fields for approvals
var ApprovalSortFields = map[string]bool{
	"created_at":  true,
	"updated_at":  true,
	"status":      true,
	"resolved_at": true,
}

// applyOrdering adds a whitelisted ORDER BY clause
func applyOrdering(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	return query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
}

// applyPaging adds LIMIT/OFFSET for a normalized filter
func applyPaging(query *gorm.DB, filter shared.Filter) *gorm.DB {
	return query.Offset(filter.Offset()).Limit(filter.PageSize)
}
