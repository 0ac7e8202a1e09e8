package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	for want := int64(1); want <= 3; want++ {
		got, err := NextSequence(db, CounterOrders)
		require.NoError(t, err)
		assert.Equal(t, want, got, "sequence must advance by one")
	}

	// Independent counters do not interfere.
	got, err := NextSequence(db, CounterProducts)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "LT-STATIONERY-0007", FormatSKU("stationery", 7))
	assert.Equal(t, "LT-BAGS-0012", FormatSKU("Bags", 12))
	assert.Equal(t, "LT000042", FormatOrderNumber(42))
}
