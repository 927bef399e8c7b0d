// Package testutil provides common test utilities for the ERP core.
// It contains helpers for database fixtures bound to a tenant namespace and
// for driving gin handlers in tests.
package testutil

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/erpcore/internal/domain/tenant"
	"github.com/erp/erpcore/internal/infrastructure/persistence/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestSchema is the namespace TenantContext binds
const TestSchema = "tenant_test"

func init() {
	gin.SetMode(gin.TestMode)
}

// MockDB wraps a GORM database with sqlmock for testing.
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SqlDB *sql.DB
}

// NewMockDB creates a new mock database speaking the postgres dialect.
// The caller is responsible for calling Close() when done.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create sqlmock")

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err, "Failed to open GORM connection")

	return &MockDB{
		DB:    gormDB,
		Mock:  mock,
		SqlDB: mockDB,
	}
}

// Close closes the mock database connection.
func (m *MockDB) Close() error {
	return m.SqlDB.Close()
}

// ExpectationsWereMet verifies that all expectations were met.
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	err := m.Mock.ExpectationsWereMet()
	require.NoError(t, err, "Unmet database expectations")
}

// NewSQLiteDB opens an in-memory database holding every tenant table.
// The pool is limited to one connection, so concurrent units of work run one
// after another the way row locks would order them on postgres.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open sqlite")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.TenantTables()...), "Failed to migrate tenant tables")
	return db
}

// TenantContext returns a context bound to the test tenant namespace.
func TenantContext(t *testing.T) context.Context {
	t.Helper()
	ns, err := tenant.NewNamespace(TestTenantID(), TestSchema)
	require.NoError(t, err)
	return tenant.WithNamespace(context.Background(), ns)
}

// SeedProduct inserts a catalog row used by stats queries.
func SeedProduct(t *testing.T, db *gorm.DB, name string, cost decimal.Decimal, safety int64) uuid.UUID {
	t.Helper()
	p := models.ProductModel{
		ID:               uuid.New(),
		Name:             name,
		SKU:              name,
		CostPrice:        cost,
		SafetyStockLevel: safety,
	}
	require.NoError(t, db.Create(&p).Error)
	return p.ID
}

// SeedPartner inserts a partner with an opening balance.
func SeedPartner(t *testing.T, db *gorm.DB, partnerType string, balance decimal.Decimal) uuid.UUID {
	t.Helper()
	p := models.PartnerModel{
		ID:      uuid.New(),
		Name:    "partner-" + uuid.NewString()[:8],
		Type:    partnerType,
		Balance: balance,
	}
	require.NoError(t, db.Create(&p).Error)
	return p.ID
}

// TestContext wraps a Gin test context with HTTP recorder.
type TestContext struct {
	Context  *gin.Context
	Recorder *httptest.ResponseRecorder
	Engine   *gin.Engine
}

// NewTestContext creates a new Gin test context.
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()

	w := httptest.NewRecorder()
	c, engine := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	return &TestContext{
		Context:  c,
		Recorder: w,
		Engine:   engine,
	}
}

// ResponseBody returns the response body as bytes.
func (tc *TestContext) ResponseBody() []byte {
	return tc.Recorder.Body.Bytes()
}

// ResponseCode returns the HTTP status code.
func (tc *TestContext) ResponseCode() int {
	return tc.Recorder.Code
}

// NewTestUUID generates a deterministic UUID for testing.
// Uses the provided seed string to create a reproducible UUID.
func NewTestUUID(seed string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}

// TestTenantID returns a standard tenant ID for tests.
func TestTenantID() uuid.UUID {
	return NewTestUUID("test-tenant")
}

// TestUserID returns a standard user ID for tests.
func TestUserID() uuid.UUID {
	return NewTestUUID("test-user")
}
