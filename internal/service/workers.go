package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"oglasnik/importer/internal/domain"
	"oglasnik/importer/internal/domain/task"
	"oglasnik/importer/internal/fetch"
	"oglasnik/importer/internal/state"
)

// A retryable failure is re-queued exactly once.
const maxImportRetries = 1

// EnqueueBatch normalizes the given URLs and queues an ImportTask per
// valid URL under a fresh job ID. Invalid URLs are skipped with a warning;
// a batch with zero valid URLs is rejected.
func (s *Service) EnqueueBatch(ctx context.Context, urls []string) (string, error) {
	jobID := uuid.NewString()

	normalized := make([]string, 0, len(urls))
	for _, raw := range urls {
		u, err := NormalizeURL(raw)
		if err != nil {
			log.Warnf("Skipping invalid URL in batch %s: %q", jobID, raw)
			continue
		}
		normalized = append(normalized, u)
	}

	if len(normalized) == 0 {
		return "", ErrInvalidURL
	}

	// The status record must exist before any task becomes visible to the
	// workers; a fast worker finishing the first URL would otherwise have
	// nowhere to record the completion.
	err := s.stateManager.SetJobStatus(ctx, &state.JobStatus{
		JobID:  jobID,
		Status: state.StatusQueued,
		Total:  len(normalized),
	})
	if err != nil {
		return "", err
	}

	for _, u := range normalized {
		if _, err := s.queue.AddTask(ctx, &task.ImportTask{JobID: jobID, URL: u}); err != nil {
			return "", err
		}
	}

	log.Infof("Queued batch job %s with %d URLs", jobID, len(normalized))
	return jobID, nil
}

// JobStatus reports the stored progress of a batch job; nil for unknown
// job IDs.
func (s *Service) JobStatus(ctx context.Context, jobID string) (*state.JobStatus, error) {
	return s.stateManager.GetJobStatus(ctx, jobID)
}

func (s *Service) RunWorkers(ctx context.Context, numWorkers int) error {
	var wg sync.WaitGroup

	// Run workers for both regular and retry tasks
	s.runWorkersForStream(ctx, &wg, numWorkers, s.queue.StreamName(task.ImportTaskType), "main")
	s.runWorkersForStream(ctx, &wg, max(1, numWorkers/2), s.queue.StreamName(task.ImportRetryTaskType), "retry")

	wg.Wait()
	return nil
}

func (s *Service) runWorkersForStream(ctx context.Context, wg *sync.WaitGroup, numWorkers int, streamName, workerType string) {
	// Auto-claimer for this stream
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(s.minIdleTime)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				consumer := fmt.Sprintf("autoclaimer-%s-%d", workerType, time.Now().UnixNano())
				claimedMessages, err := s.queue.AutoClaim(ctx, s.groupName, consumer, streamName, s.minIdleTime)
				if err != nil {
					log.Errorf("Failed to auto-claim messages for %s: %v", streamName, err)
					continue
				}
				if len(claimedMessages) > 0 {
					log.Infof("Auto-claimed %d messages from %s stream", len(claimedMessages), workerType)
					for _, msg := range claimedMessages {
						err := s.processMessage(ctx, &msg)
						if err != nil {
							log.Errorf("Failed to process auto-claimed message %s: %v", msg.ID, err)
						}
					}
				}
			}
		}
	}()

	// Regular workers for this stream
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			consumer := fmt.Sprintf("%s-worker-%d", workerType, workerID)
			log.Infof("Starting %s worker %d as consumer %s", workerType, workerID, consumer)
			for {
				select {
				case <-ctx.Done():
					log.Infof("%s worker %d stopping", workerType, workerID)
					return
				default:
					msg, err := s.queue.GetTask(ctx, s.groupName, consumer, streamName)
					if err != nil {
						log.Errorf("Failed to get task from %s: %v", streamName, err)
						continue
					}

					if msg != nil {
						err := s.processMessage(ctx, msg)
						if err != nil {
							log.Errorf("Failed to process message %s: %v", msg.ID, err)
						}
					}
				}
			}
		}(i + 1)
	}
}

func (s *Service) processMessage(ctx context.Context, msg *redis.XMessage) error {
	taskType, ok := msg.Values["task_type"].(string)
	if !ok {
		return fmt.Errorf("invalid task type in message %s", msg.ID)
	}

	taskData, ok := msg.Values["task_data"].(string)
	if !ok {
		return fmt.Errorf("invalid task data in message %s", msg.ID)
	}

	streamName := s.queue.StreamName(taskType)

	switch taskType {
	case task.ImportTaskType:
		importTask, err := task.UnmarshalTask[*task.ImportTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("failed to unmarshal import task data: %w", err)
		}
		s.processImport(ctx, importTask)

	case task.ImportRetryTaskType:
		retryTask, err := task.UnmarshalTask[*task.ImportRetryTask]([]byte(taskData))
		if err != nil {
			return fmt.Errorf("failed to unmarshal retry task data: %w", err)
		}
		s.retryImport(ctx, retryTask)

	default:
		return fmt.Errorf("unknown task type: %s", taskType)
	}

	if err := s.queue.AckTask(ctx, streamName, s.groupName, msg.ID); err != nil {
		return fmt.Errorf("failed to ack message %s: %w", msg.ID, err)
	}

	return nil
}

func (s *Service) processImport(ctx context.Context, importTask *task.ImportTask) {
	listing, err := s.ImportListing(ctx, importTask.URL)
	if err != nil {
		if isRetryable(err) {
			retryTask := &task.ImportRetryTask{
				JobID:      importTask.JobID,
				URL:        importTask.URL,
				RetryCount: 0,
				Error:      err.Error(),
			}
			if _, addErr := s.queue.AddTask(ctx, retryTask); addErr != nil {
				log.Errorf("Failed to add retry task for %s: %v", importTask.URL, addErr)
				s.markProcessed(ctx, importTask.JobID, true)
			} else {
				log.Warnf("Added %s to retry queue due to error: %v", importTask.URL, err)
			}
			return
		}

		log.Errorf("Import of %s failed: %v", importTask.URL, err)
		s.markProcessed(ctx, importTask.JobID, true)
		return
	}

	s.persist(ctx, importTask.JobID, listing)
}

func (s *Service) retryImport(ctx context.Context, retryTask *task.ImportRetryTask) {
	retryTask.RetryCount++
	log.Infof("Retrying import of %s (attempt %d)", retryTask.URL, retryTask.RetryCount)

	listing, err := s.ImportListing(ctx, retryTask.URL)
	if err != nil {
		if isRetryable(err) && retryTask.RetryCount < maxImportRetries {
			newRetryTask := &task.ImportRetryTask{
				JobID:      retryTask.JobID,
				URL:        retryTask.URL,
				RetryCount: retryTask.RetryCount,
				Error:      err.Error(),
			}
			if _, addErr := s.queue.AddTask(ctx, newRetryTask); addErr != nil {
				log.Errorf("Failed to re-add retry task for %s: %v", retryTask.URL, addErr)
				s.markProcessed(ctx, retryTask.JobID, true)
			}
			return
		}

		log.Errorf("Import of %s failed after %d retries: %v", retryTask.URL, retryTask.RetryCount, err)
		s.markProcessed(ctx, retryTask.JobID, true)
		return
	}

	log.Infof("Recovered import of %s after %d attempts", retryTask.URL, retryTask.RetryCount)
	s.persist(ctx, retryTask.JobID, listing)
}

func (s *Service) persist(ctx context.Context, jobID string, listing *domain.Listing) {
	if err := s.repository.SaveListing(ctx, listing); err != nil {
		log.Errorf("Failed to save listing %s: %v", listing.ID, err)
		s.markProcessed(ctx, jobID, true)
		return
	}
	s.markProcessed(ctx, jobID, false)
}

func (s *Service) markProcessed(ctx context.Context, jobID string, failed bool) {
	if err := s.stateManager.MarkProcessed(ctx, jobID, failed); err != nil {
		log.Errorf("Failed to update status for job %s: %v", jobID, err)
	}
}

func isRetryable(err error) bool {
	var fetchErr *fetch.Error
	return errors.As(err, &fetchErr) && fetchErr.Retryable()
}
