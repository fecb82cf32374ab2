package scheduler

import "time"

// ScanJob represents a pending scheduled scan in the scheduler heap.
// It is an in-memory only type; the heap is rebuilt from the stored
// schedule setting on daemon restart.
type ScanJob struct {
	// Website scopes the scan. Empty string scans the whole store.
	Website string
	// TriggerAt is the wall-clock time when this scan should run.
	TriggerAt time.Time
	// CronExpr is the cron expression for recurring scans.
	// Empty string means one-shot, no re-scheduling after firing.
	CronExpr string
}
