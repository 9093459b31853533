package task

import "encoding/json"

// Stream-routing task type names.
const (
	ImportTaskType      = "ImportTask"
	ImportRetryTaskType = "ImportRetryTask"
)

// Task is anything that can be placed on the import queue.
type Task interface {
	TaskType() string
	TaskValue() ([]byte, error)
}

// DefaultTaskValue provides the common JSON serialization for TaskValue.
func DefaultTaskValue(task interface{}) ([]byte, error) {
	return json.Marshal(task)
}

func UnmarshalTask[T Task](data []byte) (T, error) {
	var t T
	err := json.Unmarshal(data, &t)
	return t, err
}
