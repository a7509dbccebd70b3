package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sangkips/receiptflow/internal/domain/entity"
	"github.com/sangkips/receiptflow/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// unreachable points at a port nothing listens on, so every Redis call fails
func unreachable() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestReceiptRepository_FallsBackWithoutRedis(t *testing.T) {
	ctx := context.Background()
	rdb := unreachable()
	defer rdb.Close()

	inner := memory.NewReceiptRepository()
	repo := NewReceiptRepository(inner, rdb, time.Minute, zap.NewNop())

	receipt := &entity.Receipt{OrderID: "ORD-1", CustomerName: "A", Items: []entity.ReceiptItem{{ProductName: "X", Quantity: 1, UnitPrice: 100, Total: 100}}}
	require.NoError(t, repo.Create(ctx, receipt))

	got, err := repo.GetByID(ctx, receipt.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ORD-1", got.OrderID)
	assert.Len(t, got.Items, 1)

	got.CustomerName = "B"
	require.NoError(t, repo.Update(ctx, got))

	again, err := repo.GetByID(ctx, receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", again.CustomerName)

	require.NoError(t, repo.Delete(ctx, receipt.ID))
	missing, err := repo.GetByID(ctx, receipt.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestReceiptKey(t *testing.T) {
	assert.Equal(t, "receipt:42", receiptKey(42))
}
