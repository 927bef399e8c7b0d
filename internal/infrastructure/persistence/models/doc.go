// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
// - base.go: BaseModel and the tenant table list
// - identity.go: shared-namespace tenant registry
// - catalog.go: products (read-only to the core)
// - inventory.go: stocks, inventory logs, audits
// - trade.go: orders and order items
// - finance.go: financial transactions and invoices
// - partner.go: partners and their balances
// - approval.go: approval requests
// - sequence.go: per-tenant document counters
package models
