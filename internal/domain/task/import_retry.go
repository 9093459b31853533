package task

// ImportRetryTask re-queues a URL whose import failed with a retryable
// retrieval error (timeout, rate limited). Non-retryable failures never
// become retry tasks.
type ImportRetryTask struct {
	JobID      string `json:"job_id"`
	URL        string `json:"url"`
	RetryCount int    `json:"retry_count"` // Number of times this URL has been retried
	Error      string `json:"error"`       // Error message from the original failure
}

func (t *ImportRetryTask) TaskType() string {
	return ImportRetryTaskType
}

func (t *ImportRetryTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
