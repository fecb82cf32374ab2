// Package scheduler runs scheduled cookie scans. It implements a
// single-goroutine scheduler using a min-heap of ScanJobs sorted by
// trigger time, with a 60-second max-sleep-cap to handle NTP steps,
// DST transitions, and system sleep.
//
// The scheduler fires jobs and calls a registered onTrigger callback to
// run scans through the monitor. It does not persist state; the heap is
// rebuilt from the stored scan schedule setting on daemon restart.
package scheduler
