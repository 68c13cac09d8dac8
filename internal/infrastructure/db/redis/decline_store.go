package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DeclineStore keeps one set of declined case ids per professional.
// Key format: radarhub:declined:<professional_id>
type DeclineStore struct {
	client *redis.Client
}

func NewDeclineStore(client *redis.Client) *DeclineStore {
	return &DeclineStore{client: client}
}

func (s *DeclineStore) Add(ctx context.Context, professionalID, caseID string) error {
	if err := s.client.SAdd(ctx, s.key(professionalID), caseID).Err(); err != nil {
		return fmt.Errorf("add decline: %w", err)
	}
	return nil
}

func (s *DeclineStore) Declined(ctx context.Context, professionalID string) (map[string]struct{}, error) {
	ids, err := s.client.SMembers(ctx, s.key(professionalID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list declines: %w", err)
	}
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}

func (s *DeclineStore) key(professionalID string) string {
	return namespaced("declined", professionalID)
}
