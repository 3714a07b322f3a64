package scheduler

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"github.com/kbukum/beer-inventory/logger"
)

// gocronLogger routes gocron's own messages through the service logger.
type gocronLogger struct {
	log *logger.Logger
}

func (l gocronLogger) Debug(msg string, args ...any) { l.log.Debug(msg, logger.Fields(args...)) }
func (l gocronLogger) Info(msg string, args ...any)  { l.log.Info(msg, logger.Fields(args...)) }
func (l gocronLogger) Warn(msg string, args ...any)  { l.log.Warn(msg, logger.Fields(args...)) }
func (l gocronLogger) Error(msg string, args ...any) { l.log.Error(msg, logger.Fields(args...)) }

// skipMonitor reports ticks gocron dropped in singleton mode.
type skipMonitor struct {
	onSkip func(name string)
}

func (m skipMonitor) IncrementJob(_ uuid.UUID, name string, _ []string, status gocron.JobStatus) {
	if status == gocron.SingletonRescheduled {
		m.onSkip(name)
	}
}

func (skipMonitor) RecordJobTiming(time.Time, time.Time, uuid.UUID, string, []string) {}
