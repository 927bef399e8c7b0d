// Package tenant binds GORM transactions to a tenant's PostgreSQL schema.
//
// Every tenant owns one schema holding the core tables. A transaction is pinned
// to that schema with SET LOCAL search_path as its first statement, so the
// binding ends with the transaction and never leaks to another request through
// the connection pool.
//
// Usage:
//
//	ndb := tenant.NewNamespaceDB(gormDB)
//	err := ndb.Transaction(ctx, func(tx *gorm.DB) error {
//		return tx.Find(&stocks).Error // reads "<tenant schema>".stocks
//	})
package tenant

import (
	"context"
	"fmt"

	"github.com/erp/erpcore/internal/domain/shared"
	domaintenant "github.com/erp/erpcore/internal/domain/tenant"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// SearchPathStatement returns the statement pinning a transaction to ns.
// The schema has already passed the allow-list and is quoted as an identifier.
func SearchPathStatement(ns domaintenant.Namespace) string {
	if ns.IsShared() {
		return "SET LOCAL search_path TO " + pq.QuoteIdentifier(domaintenant.SharedSchema)
	}
	return fmt.Sprintf("SET LOCAL search_path TO %s, %s",
		pq.QuoteIdentifier(ns.Schema()), pq.QuoteIdentifier(domaintenant.SharedSchema))
}

// Bind pins tx to ns. It must be the first statement of the transaction.
// Dialects without schemas (sqlite in tests) only get the validity check.
func Bind(tx *gorm.DB, ns domaintenant.Namespace) error {
	if ns.IsZero() {
		return shared.ErrNamespaceResolution
	}
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	if err := tx.Exec(SearchPathStatement(ns)).Error; err != nil {
		return fmt.Errorf("bind namespace %s: %w", ns.Schema(), err)
	}
	return nil
}

// NamespaceDB wraps GORM DB with per-transaction namespace binding
type NamespaceDB struct {
	db *gorm.DB
}

// NewNamespaceDB creates a new NamespaceDB
func NewNamespaceDB(db *gorm.DB) *NamespaceDB {
	return &NamespaceDB{db: db}
}

// Transaction runs fn in a transaction bound to the namespace carried by ctx.
// A context without a resolved namespace is rejected before any SQL is sent.
func (n *NamespaceDB) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	ns, ok := domaintenant.NamespaceFromContext(ctx)
	if !ok {
		return shared.ErrNamespaceResolution
	}
	return n.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := Bind(tx, ns); err != nil {
			return err
		}
		return fn(tx)
	})
}
