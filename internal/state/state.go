package state

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Job status values, in lifecycle order.
const (
	StatusQueued  = "queued"
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

const statusTTL = 24 * time.Hour

// JobStatus is the stored progress record for one batch import job.
type JobStatus struct {
	JobID     string    `json:"job_id"`
	Status    string    `json:"status"`
	Total     int       `json:"total"`
	Processed int       `json:"processed"`
	Failed    int       `json:"failed"`
	UpdatedAt time.Time `json:"updated_at"`
}

type StateManager interface {
	GetJobStatus(ctx context.Context, jobID string) (*JobStatus, error)
	SetJobStatus(ctx context.Context, status *JobStatus) error
	// MarkProcessed advances a job's counters by one URL and flips the
	// status to done when the last URL lands.
	MarkProcessed(ctx context.Context, jobID string, failed bool) error
}

// The record is a Redis hash so that concurrent workers can advance the
// counters with server-side HINCRBY; a read-modify-write JSON blob would
// lose increments under the worker pool.
type redisStateManager struct {
	redisClient *redis.Client
	keyPrefix   string
}

func NewRedisStateManager(redisClient *redis.Client) StateManager {
	return &redisStateManager{
		redisClient: redisClient,
		keyPrefix:   "oglasnik:import:status:",
	}
}

func (s *redisStateManager) GetJobStatus(ctx context.Context, jobID string) (*JobStatus, error) {
	key := s.keyPrefix + jobID
	fields, err := s.redisClient.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get status for job %s: %w", jobID, err)
	}
	if len(fields) == 0 {
		return nil, nil // Unknown job
	}

	status := &JobStatus{
		JobID:     jobID,
		Status:    fields["status"],
		Total:     atoi(fields["total"]),
		Processed: atoi(fields["processed"]),
		Failed:    atoi(fields["failed"]),
	}
	if ts := fields["updated_at"]; ts != "" {
		status.UpdatedAt, _ = time.Parse(time.RFC3339Nano, ts)
	}

	// Only the final increment writes the done status; a partially
	// processed job still stored as queued reports as running.
	if status.Status == StatusQueued && status.Processed > 0 {
		status.Status = StatusRunning
	}
	return status, nil
}

func (s *redisStateManager) SetJobStatus(ctx context.Context, status *JobStatus) error {
	status.UpdatedAt = time.Now().UTC()

	key := s.keyPrefix + status.JobID
	pipe := s.redisClient.TxPipeline()
	pipe.HSet(ctx, key,
		"status", status.Status,
		"total", status.Total,
		"processed", status.Processed,
		"failed", status.Failed,
		"updated_at", status.UpdatedAt.Format(time.RFC3339Nano),
	)
	pipe.Expire(ctx, key, statusTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set status for job %s: %w", status.JobID, err)
	}
	return nil
}

// MarkProcessed advances the counters with HINCRBY so that concurrent
// workers finishing URLs of the same job never lose an increment. The done
// status is written only by the increment that lands the final URL, so a
// slower worker can never overwrite it afterwards.
func (s *redisStateManager) MarkProcessed(ctx context.Context, jobID string, failed bool) error {
	key := s.keyPrefix + jobID

	total, err := s.redisClient.HGet(ctx, key, "total").Int()
	if err != nil {
		if err == redis.Nil {
			return fmt.Errorf("no status record for job %s", jobID)
		}
		return fmt.Errorf("failed to read status for job %s: %w", jobID, err)
	}

	processed, err := s.redisClient.HIncrBy(ctx, key, "processed", 1).Result()
	if err != nil {
		return fmt.Errorf("failed to update status for job %s: %w", jobID, err)
	}
	if failed {
		if err := s.redisClient.HIncrBy(ctx, key, "failed", 1).Err(); err != nil {
			return fmt.Errorf("failed to update status for job %s: %w", jobID, err)
		}
	}

	fields := []interface{}{"updated_at", time.Now().UTC().Format(time.RFC3339Nano)}
	if processed >= int64(total) {
		fields = append(fields, "status", StatusDone)
	}
	if err := s.redisClient.HSet(ctx, key, fields...).Err(); err != nil {
		return fmt.Errorf("failed to update status for job %s: %w", jobID, err)
	}
	return nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
