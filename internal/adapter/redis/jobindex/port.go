package jobindex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"gitlab.com/codearena-2025.net/internal/core/ports/primary"
	"gitlab.com/codearena-2025.net/internal/core/ports/secondary"
	"gitlab.com/codearena-2025.net/internal/domain"
)

const (
	jobKeyPrefix  = "job:"
	jobExpiration = 30 * time.Minute
)

var _ secondary.JobIndex = (*JobIndexRepository)(nil)

// JobIndexRepository implements the JobIndex interface with Redis. Entries
// carry a TTL so a crashed relay or skipped delete never leaks a key.
type JobIndexRepository struct {
	redisClient *redis.Client
	logger      primary.Logger
}

// NewJobIndexRepository creates a new Redis job index repository
func NewJobIndexRepository(redisClient *redis.Client, logger primary.Logger) *JobIndexRepository {
	return &JobIndexRepository{
		redisClient: redisClient,
		logger:      logger,
	}
}

// Put saves a job record to Redis
func (r *JobIndexRepository) Put(ctx context.Context, record *domain.JobRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal job record: %w", err)
	}

	if err := r.redisClient.Set(ctx, jobKeyPrefix+record.JobID, data, jobExpiration).Err(); err != nil {
		return fmt.Errorf("failed to save job record: %w", err)
	}

	return nil
}

// Get retrieves a job record from Redis, nil when the key is absent
func (r *JobIndexRepository) Get(ctx context.Context, jobID string) (*domain.JobRecord, error) {
	data, err := r.redisClient.Get(ctx, jobKeyPrefix+jobID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve job record: %w", err)
	}

	var record domain.JobRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job record: %w", err)
	}

	return &record, nil
}

// SetPhase updates the lifecycle phase of an indexed job. The rewrite also
// refreshes the TTL, keeping long-running jobs visible.
func (r *JobIndexRepository) SetPhase(ctx context.Context, jobID string, phase domain.JobPhase) error {
	record, err := r.Get(ctx, jobID)
	if err != nil {
		return err
	}
	if record == nil {
		return nil
	}

	record.Phase = phase
	return r.Put(ctx, record)
}

// Remove deletes a job record from Redis
func (r *JobIndexRepository) Remove(ctx context.Context, jobID string) error {
	if err := r.redisClient.Del(ctx, jobKeyPrefix+jobID).Err(); err != nil {
		return fmt.Errorf("failed to delete job record: %w", err)
	}
	return nil
}
