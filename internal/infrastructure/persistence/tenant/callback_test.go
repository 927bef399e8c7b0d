package tenant

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SharedModel lives in the shared registry
type SharedModel struct {
	Name string
}

func (SharedModel) TableName() string {
	return "tenants"
}

func TestGuard(t *testing.T) {
	t.Run("rejects statement without namespace", func(t *testing.T) {
		db, mock, mockDB := setupMockDB(t)
		defer mockDB.Close()
		require.NoError(t, NewGuard("tenants").RegisterCallbacks(db))

		var rows []TestModel
		err := db.WithContext(context.Background()).Find(&rows).Error
		assert.ErrorIs(t, err, shared.ErrNamespaceResolution)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("allows statement with namespace", func(t *testing.T) {
		db, mock, mockDB := setupMockDB(t)
		defer mockDB.Close()
		require.NoError(t, NewGuard("tenants").RegisterCallbacks(db))

		mock.ExpectQuery(`SELECT \* FROM "test_models"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

		var rows []TestModel
		err := db.WithContext(tenantContext(t, "tenant_acme")).Find(&rows).Error
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exempts shared tables", func(t *testing.T) {
		db, mock, mockDB := setupMockDB(t)
		defer mockDB.Close()
		require.NoError(t, NewGuard("tenants").RegisterCallbacks(db))

		mock.ExpectQuery(`SELECT \* FROM "tenants"`).
			WillReturnRows(sqlmock.NewRows([]string{"name"}))

		var rows []SharedModel
		require.NoError(t, db.WithContext(context.Background()).Find(&rows).Error)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
