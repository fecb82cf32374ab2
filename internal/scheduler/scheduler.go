package scheduler

import (
	"container/heap"
	"context"
	"time"

	"github.com/adhocore/gronx"
)

const maxSleepCap = 60 * time.Second

// Scheduler manages scheduled scans using a min-heap. It runs a
// background goroutine that sleeps until the next job's trigger time,
// then calls the onTrigger callback with the job's website scope.
type Scheduler struct {
	addChan    chan ScanJob
	removeChan chan string
	ctx        context.Context
}

// New creates and starts a new Scheduler. The onTrigger callback is
// invoked when a scheduled scan fires. The scheduler goroutine exits
// when ctx is cancelled.
func New(ctx context.Context, onTrigger func(website string)) *Scheduler {
	s := &Scheduler{
		addChan:    make(chan ScanJob, 64),
		removeChan: make(chan string, 64),
		ctx:        ctx,
	}
	go s.run(onTrigger)
	return s
}

// Add enqueues a new scan job.
func (s *Scheduler) Add(job ScanJob) {
	select {
	case s.addChan <- job:
	case <-s.ctx.Done():
	}
}

// Remove cancels a scheduled scan by website scope.
func (s *Scheduler) Remove(website string) {
	select {
	case s.removeChan <- website:
	case <-s.ctx.Done():
	}
}

// run is the core scheduler goroutine. It maintains a min-heap of jobs
// and sleeps with a 60s max-sleep-cap. For recurring jobs
// (CronExpr != ""), after firing it computes the next occurrence and
// re-adds it to the heap.
func (s *Scheduler) run(onTrigger func(string)) {
	h := &scanHeap{}
	heap.Init(h)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	resetTimer := func() <-chan time.Time {
		if timer != nil {
			timer.Stop()
		}
		if h.Len() == 0 {
			// No jobs, block indefinitely on channels.
			return nil
		}
		next := (*h)[0].TriggerAt
		dur := time.Until(next)
		if dur > maxSleepCap {
			dur = maxSleepCap
		}
		if dur < 0 {
			dur = 0
		}
		timer = time.NewTimer(dur)
		return timer.C
	}

	timerCh := resetTimer()

	for {
		select {
		case <-s.ctx.Done():
			return

		case job := <-s.addChan:
			heapPush(h, job)
			timerCh = resetTimer()

		case website := <-s.removeChan:
			heapRemoveByWebsite(h, website)
			timerCh = resetTimer()

		case <-timerCh:
			// Fire all jobs whose time has arrived.
			now := time.Now()
			for h.Len() > 0 && !(*h)[0].TriggerAt.After(now) {
				job := heapPop(h)
				onTrigger(job.Website)
				if job.CronExpr != "" {
					next, err := nextCronOccurrence(job.CronExpr, time.Now())
					if err == nil {
						heapPush(h, ScanJob{
							Website:   job.Website,
							TriggerAt: next,
							CronExpr:  job.CronExpr,
						})
					}
				}
			}
			timerCh = resetTimer()
		}
	}
}

// nextCronOccurrence returns the next time the cron expression fires
// strictly after start.
func nextCronOccurrence(expr string, start time.Time) (time.Time, error) {
	return gronx.NextTickAfter(expr, start, false)
}

// ValidSchedule reports whether the cron expression is valid and has an
// occurrence within one year, which guards against expressions that
// never fire.
func ValidSchedule(expr string) bool {
	next, err := gronx.NextTickAfter(expr, time.Now(), false)
	if err != nil {
		return false
	}
	return next.Before(time.Now().Add(365 * 24 * time.Hour))
}

// RecurringJob builds the first occurrence of a recurring scan from a
// cron expression. The returned job re-schedules itself each time it
// fires.
func RecurringJob(website, expr string) (ScanJob, error) {
	next, err := nextCronOccurrence(expr, time.Now())
	if err != nil {
		return ScanJob{}, err
	}
	return ScanJob{
		Website:   website,
		TriggerAt: next,
		CronExpr:  expr,
	}, nil
}
