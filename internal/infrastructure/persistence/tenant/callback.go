package tenant

import (
	"github.com/erp/erpcore/internal/domain/shared"
	domaintenant "github.com/erp/erpcore/internal/domain/tenant"
	"gorm.io/gorm"
)

// Guard is a GORM callback set that refuses model statements issued without a
// resolved namespace in their context. Tables of the shared registry are exempt.
type Guard struct {
	sharedTables map[string]bool
}

// NewGuard creates a guard exempting the given shared tables
func NewGuard(sharedTables ...string) *Guard {
	g := &Guard{sharedTables: make(map[string]bool, len(sharedTables))}
	for _, t := range sharedTables {
		g.sharedTables[t] = true
	}
	return g
}

// RegisterCallbacks registers the guard with GORM
func (g *Guard) RegisterCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	if err := cb.Query().Before("gorm:query").Register("namespace:guard_query", g.check); err != nil {
		return err
	}
	if err := cb.Create().Before("gorm:create").Register("namespace:guard_create", g.check); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("namespace:guard_update", g.check); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("namespace:guard_delete", g.check); err != nil {
		return err
	}
	return cb.Row().Before("gorm:row").Register("namespace:guard_row", g.check)
}

func (g *Guard) check(db *gorm.DB) {
	table := db.Statement.Table
	// raw statements carry no model; the namespace was checked when the transaction began
	if table == "" || g.sharedTables[table] {
		return
	}
	if db.Statement.Context == nil {
		_ = db.AddError(shared.ErrNamespaceResolution)
		return
	}
	if _, ok := domaintenant.NamespaceFromContext(db.Statement.Context); !ok {
		_ = db.AddError(shared.ErrNamespaceResolution.WithDetail("table", table))
	}
}
