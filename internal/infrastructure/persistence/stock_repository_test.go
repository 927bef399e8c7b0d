package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/erpcore/internal/domain/inventory"
	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockGormDB opens GORM with the postgres dialector over a mocked connection
func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func stockRows(key inventory.Key, qty int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "warehouse_id", "product_id", "location_code", "quantity", "updated_at"}).
		AddRow(uuid.New().String(), key.WarehouseID.String(), key.ProductID.String(), key.LocationCode, qty, time.Now())
}

func TestGormStockRepository_LockOrCreate(t *testing.T) {
	t.Run("materialises the key then locks it", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormStockRepository(db)
		key := inventory.NewKey(uuid.New(), uuid.New(), "A-01")

		mock.ExpectExec(`INSERT INTO "stocks" .* ON CONFLICT \("warehouse_id","product_id","location_code"\) DO NOTHING`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT \* FROM "stocks" WHERE warehouse_id = \$1 AND product_id = \$2 AND location_code = \$3 .*FOR UPDATE`).
			WillReturnRows(stockRows(key, 12))

		stock, err := repo.LockOrCreate(context.Background(), key)
		require.NoError(t, err)
		assert.Equal(t, int64(12), stock.Quantity)
		assert.Equal(t, key, stock.Key)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockRepository_Lock(t *testing.T) {
	t.Run("missing key is not found", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormStockRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "stocks" .*FOR UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.Lock(context.Background(), inventory.NewKey(uuid.New(), uuid.New(), "A"))
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockRepository_Save(t *testing.T) {
	t.Run("updates quantity by id", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormStockRepository(db)
		stock := inventory.NewStock(inventory.NewKey(uuid.New(), uuid.New(), "A"))
		stock.Quantity = 5

		mock.ExpectExec(`UPDATE "stocks" SET "quantity"=\$1,"updated_at"=\$2 WHERE id = \$3`).
			WithArgs(int64(5), sqlmock.AnyArg(), stock.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Save(context.Background(), stock))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows affected is not found", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormStockRepository(db)

		mock.ExpectExec(`UPDATE "stocks"`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Save(context.Background(), inventory.NewStock(inventory.NewKey(uuid.New(), uuid.New(), "A")))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil, "order", 1))
	assert.ErrorIs(t, translateError(gorm.ErrRecordNotFound, "order", 1), shared.ErrNotFound)

	dup := &pgconn.PgError{Code: "23505", ConstraintName: "idx_orders_order_no"}
	err := translateError(dup, "order", "SO-1")
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)

	other := &pgconn.PgError{Code: "40001"}
	assert.Equal(t, error(other), translateError(other, "order", "SO-1"))
}
