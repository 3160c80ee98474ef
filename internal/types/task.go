package types

// TaskKind identifies one of the two background operations the backend tracks.
type TaskKind string

const (
	TaskKindDownload TaskKind = "download"
	TaskKindAnalyze  TaskKind = "analyze"
)

// TaskKinds is the fixed render order of the task indicator.
var TaskKinds = []TaskKind{TaskKindDownload, TaskKindAnalyze}

func (k TaskKind) Valid() bool {
	return k == TaskKindDownload || k == TaskKindAnalyze
}

// Title is the heading shown for a running task of this kind.
func (k TaskKind) Title() string {
	switch k {
	case TaskKindDownload:
		return "Downloading Games"
	case TaskKindAnalyze:
		return "Analyzing Games"
	}
	return string(k)
}

// TaskStatus mirrors one entry of GET /api/task_status. The client only renders it.
type TaskStatus struct {
	Running        bool    `json:"running"`
	Status         *string `json:"status"`
	Percentage     float64 `json:"percentage"`
	Current        int     `json:"current"`
	Total          int     `json:"total"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	LastMessage    *string `json:"last_message,omitempty"`
}

// StatusText returns the reported status or the generic placeholder.
func (s TaskStatus) StatusText() string {
	if s.Status == nil || *s.Status == "" {
		return "Processing..."
	}
	return *s.Status
}

// TaskStatusReport is the whole GET /api/task_status payload keyed by kind.
type TaskStatusReport map[TaskKind]TaskStatus

// Running returns the running kinds in render order.
func (r TaskStatusReport) Running() []TaskKind {
	running := make([]TaskKind, 0, len(TaskKinds))
	for _, kind := range TaskKinds {
		if r[kind].Running {
			running = append(running, kind)
		}
	}
	return running
}

// TaskHistoryEntry is one record of GET /api/task_history/<kind>.
type TaskHistoryEntry struct {
	Timestamp      string  `json:"timestamp"`
	Status         string  `json:"status"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	Result         any     `json:"result"`
	Success        bool    `json:"success"`
}
