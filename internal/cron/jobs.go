package cron

import (
	"context"
	"fmt"
	"log/slog"
)

// Clearer is the part of an agent a ClearMemoryJob needs.
type Clearer interface {
	Clear()
}

// ClearMemoryJob empties a conversation's memory on a schedule, starting
// the next conversation from nothing.
type ClearMemoryJob struct {
	Memory       Clearer
	Logger       *slog.Logger
	ScheduleExpr string // empty = default "@daily"
}

// Compile-time interface check.
var _ Job = (*ClearMemoryJob)(nil)

// Name implements Job.
func (j *ClearMemoryJob) Name() string { return "memory_clear" }

// Schedule implements Job.
func (j *ClearMemoryJob) Schedule() string {
	if j.ScheduleExpr != "" {
		return j.ScheduleExpr
	}
	return "@daily"
}

// Run clears the memory unless ctx is already done.
func (j *ClearMemoryJob) Run(ctx context.Context) error {
	if ctx.Err() != nil {
		return fmt.Errorf("cron: memory clear cancelled: %w", ctx.Err())
	}
	j.Memory.Clear()
	if j.Logger != nil {
		j.Logger.Info("cron: memory cleared", "schedule", j.Schedule())
	}
	return nil
}
