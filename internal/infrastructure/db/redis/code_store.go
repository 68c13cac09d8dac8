package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/v-pascoal/radar-hub/internal/core/domain"
)

// CodeStore keeps pending login code hashes with a TTL.
// Key format: radarhub:otp:<phone>
type CodeStore struct {
	client *redis.Client
}

func NewCodeStore(client *redis.Client) *CodeStore {
	return &CodeStore{client: client}
}

func (s *CodeStore) Save(ctx context.Context, phone, codeHash string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(phone), codeHash, ttl).Err(); err != nil {
		return fmt.Errorf("save code: %w", err)
	}
	return nil
}

// Consume uses GETDEL so two concurrent verifications cannot both read the code.
func (s *CodeStore) Consume(ctx context.Context, phone string) (string, error) {
	hash, err := s.client.GetDel(ctx, s.key(phone)).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrInvalidOrExpiredCode
	}
	if err != nil {
		return "", fmt.Errorf("consume code: %w", err)
	}
	return hash, nil
}

func (s *CodeStore) key(phone string) string {
	return namespaced("otp", phone)
}
