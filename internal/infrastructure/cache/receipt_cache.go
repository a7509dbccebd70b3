// Package cache puts a Redis read-through cache in front of receipt lookups.
package cache

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sangkips/receiptflow/internal/domain/entity"
	domainRepo "github.com/sangkips/receiptflow/internal/domain/repository"
	"go.uber.org/zap"
)

// NewRedisClient creates a client for addr
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// ReceiptRepository caches GetByID results and drops them on every write.
// Redis failures are logged and the inner repository answers instead.
type ReceiptRepository struct {
	domainRepo.ReceiptRepository
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewReceiptRepository wraps inner with a cache
func NewReceiptRepository(inner domainRepo.ReceiptRepository, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *ReceiptRepository {
	return &ReceiptRepository{ReceiptRepository: inner, rdb: rdb, ttl: ttl, logger: logger}
}

var _ domainRepo.ReceiptRepository = (*ReceiptRepository)(nil)

func receiptKey(id int64) string {
	return fmt.Sprintf("receipt:%d", id)
}

func (r *ReceiptRepository) GetByID(ctx context.Context, id int64) (*entity.Receipt, error) {
	key := receiptKey(id)

	cached, err := r.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var receipt entity.Receipt
		if err := gob.NewDecoder(bytes.NewReader(cached)).Decode(&receipt); err == nil {
			return &receipt, nil
		}
		r.logger.Warn("Discarding undecodable cached receipt", zap.Int64("receipt_id", id))
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("Receipt cache unavailable", zap.Int64("receipt_id", id), zap.Error(err))
	}

	receipt, err := r.ReceiptRepository.GetByID(ctx, id)
	if err != nil || receipt == nil {
		return receipt, err
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(receipt); err != nil {
		r.logger.Warn("Failed to encode receipt for cache", zap.Int64("receipt_id", id), zap.Error(err))
		return receipt, nil
	}
	if err := r.rdb.Set(ctx, key, buf.Bytes(), r.ttl).Err(); err != nil {
		r.logger.Warn("Failed to cache receipt", zap.Int64("receipt_id", id), zap.Error(err))
	}
	return receipt, nil
}

func (r *ReceiptRepository) evict(ctx context.Context, id int64) {
	if err := r.rdb.Del(ctx, receiptKey(id)).Err(); err != nil {
		r.logger.Warn("Failed to evict cached receipt", zap.Int64("receipt_id", id), zap.Error(err))
	}
}

func (r *ReceiptRepository) Update(ctx context.Context, receipt *entity.Receipt) error {
	if err := r.ReceiptRepository.Update(ctx, receipt); err != nil {
		return err
	}
	r.evict(ctx, receipt.ID)
	return nil
}

func (r *ReceiptRepository) ReplaceItems(ctx context.Context, receipt *entity.Receipt) error {
	if err := r.ReceiptRepository.ReplaceItems(ctx, receipt); err != nil {
		return err
	}
	r.evict(ctx, receipt.ID)
	return nil
}

func (r *ReceiptRepository) Delete(ctx context.Context, id int64) error {
	if err := r.ReceiptRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}
