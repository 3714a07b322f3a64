package job

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/beer-inventory/logger"
)

// Status is the lifecycle state of an Execution.
type Status string

const (
	StatusStarted   Status = "STARTED"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Execution records one run of the job. It lives in memory only.
type Execution struct {
	RunID       int64
	ExecutionID uuid.UUID
	JobName     string
	StartTime   time.Time
	EndTime     time.Time
	Status      Status
	ReadCount   int64
	WriteCount  int64
	Err         error
}

// Duration returns how long the run took, or zero while it is still running.
func (e *Execution) Duration() time.Duration {
	if e.EndTime.IsZero() {
		return 0
	}
	return e.EndTime.Sub(e.StartTime)
}

// Fields returns the identifying log fields of the run.
func (e *Execution) Fields() map[string]interface{} {
	return logger.Fields(
		logger.FieldJob, e.JobName,
		logger.FieldRunID, e.RunID,
		logger.FieldExecutionID, e.ExecutionID.String(),
	)
}

// RunIDIncrementer hands out strictly increasing run ids. It is safe for
// concurrent use.
type RunIDIncrementer struct {
	last atomic.Int64
}

// NewRunIDIncrementer returns an incrementer whose first id is start+1.
func NewRunIDIncrementer(start int64) *RunIDIncrementer {
	r := &RunIDIncrementer{}
	r.last.Store(start)
	return r
}

// Next returns the next run id.
func (r *RunIDIncrementer) Next() int64 {
	return r.last.Add(1)
}

// Last returns the most recently issued id, or the start value if none.
func (r *RunIDIncrementer) Last() int64 {
	return r.last.Load()
}
