package testutil

import (
	"net/http"
	"testing"

	"github.com/erp/erpcore/internal/domain/tenant"
	"github.com/erp/erpcore/internal/infrastructure/persistence/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMockDB(t *testing.T) {
	mockDB := NewMockDB(t)
	defer mockDB.Close()

	assert.NotNil(t, mockDB.DB)
	assert.Equal(t, "postgres", mockDB.DB.Dialector.Name())
	mockDB.ExpectationsWereMet(t)
}

func TestNewSQLiteDB(t *testing.T) {
	db := NewSQLiteDB(t)

	id := SeedProduct(t, db, "widget", decimal.NewFromInt(3), 5)
	var product models.ProductModel
	require.NoError(t, db.First(&product, "id = ?", id).Error)
	assert.Equal(t, int64(5), product.SafetyStockLevel)

	partnerID := SeedPartner(t, db, "customer", decimal.NewFromInt(10))
	var partner models.PartnerModel
	require.NoError(t, db.First(&partner, "id = ?", partnerID).Error)
	assert.True(t, partner.Balance.Equal(decimal.NewFromInt(10)))
}

func TestTenantContext(t *testing.T) {
	ns, ok := tenant.NamespaceFromContext(TenantContext(t))
	require.True(t, ok)
	assert.Equal(t, TestSchema, ns.Schema())
	assert.Equal(t, TestTenantID(), ns.TenantID())
}

func TestNewTestUUID(t *testing.T) {
	assert.Equal(t, NewTestUUID("a"), NewTestUUID("a"))
	assert.NotEqual(t, NewTestUUID("a"), NewTestUUID("b"))
}

func TestPerformRequest(t *testing.T) {
	engine := gin.New()
	engine.POST("/echo", func(c *gin.Context) {
		var body map[string]any
		_ = c.ShouldBindJSON(&body)
		c.JSON(http.StatusOK, gin.H{"success": true, "data": body})
	})
	engine.GET("/fail", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": gin.H{"code": "ERR_NOT_FOUND"}})
	})

	w := PerformRequest(t, engine, http.MethodPost, "/echo", map[string]any{"x": "y"}, nil)
	data := AssertSuccessResponse(t, w)
	assert.Equal(t, map[string]any{"x": "y"}, data)

	w = PerformRequest(t, engine, http.MethodGet, "/fail", nil, nil)
	AssertErrorResponse(t, w, http.StatusNotFound, "ERR_NOT_FOUND")
}
