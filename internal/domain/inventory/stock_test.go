package inventory

import (
	"errors"
	"strings"
	"testing"

	"github.com/erp/erpcore/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey() Key {
	return NewKey(uuid.New(), uuid.New(), DefaultLocationCode)
}

func TestKey_Validate(t *testing.T) {
	assert.NoError(t, testKey().Validate())
	assert.ErrorIs(t, NewKey(uuid.Nil, uuid.New(), "A").Validate(), shared.ErrValidation)
	assert.ErrorIs(t, NewKey(uuid.New(), uuid.Nil, "A").Validate(), shared.ErrValidation)
	assert.ErrorIs(t, NewKey(uuid.New(), uuid.New(), "   ").Validate(), shared.ErrValidation)
	assert.ErrorIs(t, NewKey(uuid.New(), uuid.New(), strings.Repeat("x", 51)).Validate(), shared.ErrValidation)
}

func TestKey_Less(t *testing.T) {
	a := testKey()
	b := a
	b.LocationCode = "Z"
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.False(t, a.Less(a))
}

func TestStock_Consume(t *testing.T) {
	s := NewStock(testKey())
	require.NoError(t, s.Receive(10))

	require.NoError(t, s.Consume(7))
	assert.Equal(t, int64(3), s.Quantity)

	err := s.Consume(5)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.Equal(t, int64(3), s.Quantity)

	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, int64(3), de.Details["available"])
	assert.Equal(t, int64(5), de.Details["requested"])
	assert.Equal(t, DefaultLocationCode, de.Details["location_code"])

	assert.ErrorIs(t, s.Consume(0), shared.ErrValidation)
	assert.ErrorIs(t, s.Receive(-1), shared.ErrValidation)
}

func TestStock_SetCount(t *testing.T) {
	s := NewStock(testKey())
	require.NoError(t, s.Receive(4))

	delta, err := s.SetCount(7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), delta)
	assert.Equal(t, int64(7), s.Quantity)

	delta, err = s.SetCount(0)
	require.NoError(t, err)
	assert.Equal(t, int64(-7), delta)

	_, err = s.SetCount(-1)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestValidateCounts(t *testing.T) {
	wh := uuid.New()
	p := uuid.New()

	assert.ErrorIs(t, ValidateCounts(wh, nil, 10), shared.ErrValidation)
	assert.ErrorIs(t, ValidateCounts(wh, []CountedItem{{ProductID: p, LocationCode: "A", CountedQty: -1}}, 10), shared.ErrValidation)
	assert.ErrorIs(t, ValidateCounts(wh, []CountedItem{
		{ProductID: p, LocationCode: "A", CountedQty: 1},
		{ProductID: p, LocationCode: " A ", CountedQty: 2},
	}, 10), shared.ErrValidation)
	assert.ErrorIs(t, ValidateCounts(wh, []CountedItem{
		{ProductID: p, LocationCode: "A"},
		{ProductID: p, LocationCode: "B"},
	}, 1), shared.ErrValidation)
	assert.NoError(t, ValidateCounts(wh, []CountedItem{
		{ProductID: p, LocationCode: "A", CountedQty: 0},
		{ProductID: p, LocationCode: "B", CountedQty: 3},
	}, 10))
}

func TestAudit_RecordAndComplete(t *testing.T) {
	a, err := NewAudit(uuid.New(), nil)
	require.NoError(t, err)

	key := a.KeyFor(CountedItem{ProductID: uuid.New(), LocationCode: "A"})
	item := a.Record(key, 4, 7)
	assert.Equal(t, int64(3), item.Difference)
	assert.Equal(t, a.ID, item.AuditID)

	require.NoError(t, a.Complete())
	assert.Equal(t, AuditStatusCompleted, a.Status)
	assert.NotNil(t, a.CompletedAt)
	assert.ErrorIs(t, a.Complete(), shared.ErrInvalidTransition)
}

func TestClassifyHealth(t *testing.T) {
	b := ClassifyHealth([]ProductLevel{
		{Quantity: 0, SafetyStockLevel: 5},
		{Quantity: 3, SafetyStockLevel: 5},
		{Quantity: 5, SafetyStockLevel: 5},
		{Quantity: 9, SafetyStockLevel: 0},
	})
	assert.Equal(t, HealthBuckets{Out: 1, Low: 1, Healthy: 2}, b)
}
