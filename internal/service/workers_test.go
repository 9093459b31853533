package service

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oglasnik/importer/internal/domain/task"
	"oglasnik/importer/internal/state"
)

type recordingQueue struct {
	calls *[]string
	tasks []task.Task
}

func (q *recordingQueue) AddTask(ctx context.Context, t task.Task) (string, error) {
	*q.calls = append(*q.calls, "task")
	q.tasks = append(q.tasks, t)
	return "msg-1", nil
}

func (q *recordingQueue) GetTask(ctx context.Context, group, consumer, stream string) (*redis.XMessage, error) {
	return nil, nil
}

func (q *recordingQueue) AckTask(ctx context.Context, stream, group, msgID string) error { return nil }

func (q *recordingQueue) CreateGroup(ctx context.Context, stream, group string) error { return nil }

func (q *recordingQueue) AutoClaim(ctx context.Context, group, consumer, stream string, minIdleTime time.Duration) ([]redis.XMessage, error) {
	return nil, nil
}

func (q *recordingQueue) EnsureStreamsExist(ctx context.Context) error { return nil }

func (q *recordingQueue) StreamName(taskType string) string { return "stream:" + taskType }

type recordingState struct {
	calls    *[]string
	statuses []*state.JobStatus
}

func (s *recordingState) GetJobStatus(ctx context.Context, jobID string) (*state.JobStatus, error) {
	return nil, nil
}

func (s *recordingState) SetJobStatus(ctx context.Context, status *state.JobStatus) error {
	*s.calls = append(*s.calls, "status")
	s.statuses = append(s.statuses, status)
	return nil
}

func (s *recordingState) MarkProcessed(ctx context.Context, jobID string, failed bool) error {
	return nil
}

func TestEnqueueBatchWritesStatusBeforeTasks(t *testing.T) {
	var calls []string
	q := &recordingQueue{calls: &calls}
	st := &recordingState{calls: &calls}
	svc := NewService(nil, nil, nil, pipelineTaxonomy(), q, st, nil, "test_group", 60)

	jobID, err := svc.EnqueueBatch(context.Background(),
		[]string{"https://example.com/oglas/1", "ftp://bad", "example.com/oglas/2"})
	require.NoError(t, err)
	require.NotEmpty(t, jobID)

	// The status record lands before the first task becomes visible, so a
	// worker finishing a URL immediately always finds it.
	require.Equal(t, []string{"status", "task", "task"}, calls)

	require.Len(t, st.statuses, 1)
	assert.Equal(t, state.StatusQueued, st.statuses[0].Status)
	assert.Equal(t, 2, st.statuses[0].Total)
	assert.Equal(t, jobID, st.statuses[0].JobID)

	require.Len(t, q.tasks, 2)
	first, ok := q.tasks[0].(*task.ImportTask)
	require.True(t, ok)
	assert.Equal(t, jobID, first.JobID)
	assert.Equal(t, "https://example.com/oglas/1", first.URL)
}

func TestEnqueueBatchRejectsAllInvalid(t *testing.T) {
	var calls []string
	svc := NewService(nil, nil, nil, pipelineTaxonomy(),
		&recordingQueue{calls: &calls}, &recordingState{calls: &calls}, nil, "test_group", 60)

	_, err := svc.EnqueueBatch(context.Background(), []string{"ftp://bad", "   "})
	assert.ErrorIs(t, err, ErrInvalidURL)
	assert.Empty(t, calls)
}
