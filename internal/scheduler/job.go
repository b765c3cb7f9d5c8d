package scheduler

import (
	"context"
	"time"
)

// Job represents a scheduled job
type Job interface {
	// Name returns the job name
	Name() string

	// Run executes the job
	Run(ctx context.Context) error

	// Schedule returns the cron schedule expression, with seconds.
	// Example: "0 0 6 * * *" (every day at 6 AM).
	Schedule() string
}

// JobResult represents the result of one job execution
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// jobHistory keeps the most recent results per job
type jobHistory struct {
	results []JobResult
}

const historyLimit = 50

func (h *jobHistory) add(result JobResult) {
	h.results = append(h.results, result)
	if len(h.results) > historyLimit {
		h.results = h.results[len(h.results)-historyLimit:]
	}
}

func (h *jobHistory) latest(n int) []JobResult {
	if n > len(h.results) {
		n = len(h.results)
	}
	if n == 0 {
		return []JobResult{}
	}
	return h.results[len(h.results)-n:]
}
