package task

// ImportTask is one URL queued for batch import.
type ImportTask struct {
	JobID string `json:"job_id"` // Batch job this URL belongs to
	URL   string `json:"url"`    // Normalized source URL
}

func (t *ImportTask) TaskType() string {
	return ImportTaskType
}

func (t *ImportTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
