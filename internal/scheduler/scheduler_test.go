package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestSchedulerAddAndFire(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	fired := make(map[string]bool)
	s := New(ctx, func(website string) {
		mu.Lock()
		fired[website] = true
		mu.Unlock()
	})

	s.Add(ScanJob{
		Website:   "shop.com",
		TriggerAt: time.Now().Add(100 * time.Millisecond),
	})

	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if !fired["shop.com"] {
		t.Fatal("expected shop.com scan to fire")
	}
}

func TestSchedulerCancelBeforeFire(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	fired := make(map[string]bool)
	s := New(ctx, func(website string) {
		mu.Lock()
		fired[website] = true
		mu.Unlock()
	})

	s.Add(ScanJob{
		Website:   "shop.com",
		TriggerAt: time.Now().Add(2 * time.Second),
	})
	time.Sleep(100 * time.Millisecond)

	s.Remove("shop.com")
	time.Sleep(100 * time.Millisecond)

	time.Sleep(2 * time.Second)

	mu.Lock()
	defer mu.Unlock()
	if fired["shop.com"] {
		t.Fatal("expected scan NOT to fire after cancel")
	}
}

func TestSchedulerShutdownViaContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	fired := make(map[string]bool)
	s := New(ctx, func(website string) {
		mu.Lock()
		fired[website] = true
		mu.Unlock()
	})

	s.Add(ScanJob{
		Website:   "shop.com",
		TriggerAt: time.Now().Add(500 * time.Millisecond),
	})
	cancel()

	time.Sleep(700 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if fired["shop.com"] {
		t.Fatal("expected scan NOT to fire after context cancel")
	}
	_ = s
}

func TestSchedulerEmptyDoesNotFire(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	firedCount := 0
	_ = New(ctx, func(string) {
		mu.Lock()
		firedCount++
		mu.Unlock()
	})

	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if firedCount != 0 {
		t.Fatalf("expected no triggers on empty scheduler, got %d", firedCount)
	}
}

func TestSchedulerMultipleJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	fired := []string{}
	s := New(ctx, func(website string) {
		mu.Lock()
		fired = append(fired, website)
		mu.Unlock()
	})

	s.Add(ScanJob{
		Website:   "first.com",
		TriggerAt: time.Now().Add(100 * time.Millisecond),
	})
	s.Add(ScanJob{
		Website:   "second.com",
		TriggerAt: time.Now().Add(200 * time.Millisecond),
	})

	time.Sleep(400 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(fired) != 2 {
		t.Fatalf("expected 2 triggers, got %d", len(fired))
	}
	if fired[0] != "first.com" {
		t.Errorf("expected first.com to fire first, got %s", fired[0])
	}
	if fired[1] != "second.com" {
		t.Errorf("expected second.com to fire second, got %s", fired[1])
	}
}

func TestSchedulerRemoveNonexistent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New(ctx, func(string) {})
	s.Remove("nonexistent.com")
}

func TestSchedulerRecurringStaysAlive(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	fireCount := 0
	s := New(ctx, func(string) {
		mu.Lock()
		fireCount++
		mu.Unlock()
	})

	// A recurring job fires and re-enqueues itself at the next cron
	// occurrence. A one-minute cron will not fire twice within the test
	// window, so verify a single firing.
	s.Add(ScanJob{
		Website:   "",
		TriggerAt: time.Now().Add(100 * time.Millisecond),
		CronExpr:  "* * * * *",
	})

	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if fireCount < 1 {
		t.Fatal("expected recurring scan to fire at least once")
	}
}

func TestNextCronOccurrenceValidExpr(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	next, err := nextCronOccurrence("0 2 * * *", now)
	if err != nil {
		t.Fatalf("expected no error: %v", err)
	}
	if next.Hour() != 2 || next.Minute() != 0 {
		t.Errorf("expected 02:00, got %v", next)
	}
}

func TestNextCronOccurrenceInvalidExpr(t *testing.T) {
	if _, err := nextCronOccurrence("bad-expr", time.Now()); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestValidSchedule(t *testing.T) {
	if !ValidSchedule("0 2 * * *") {
		t.Error("expected daily cron to be valid")
	}
	if ValidSchedule("bad-cron") {
		t.Error("invalid cron should not validate")
	}
}

func TestRecurringJob(t *testing.T) {
	job, err := RecurringJob("shop.com", "*/30 * * * *")
	if err != nil {
		t.Fatalf("RecurringJob: %v", err)
	}
	if job.Website != "shop.com" || job.CronExpr != "*/30 * * * *" {
		t.Fatalf("job = %+v", job)
	}
	if !job.TriggerAt.After(time.Now()) {
		t.Errorf("expected TriggerAt in the future, got %v", job.TriggerAt)
	}

	if _, err := RecurringJob("", "nonsense"); err == nil {
		t.Fatal("expected error for invalid expression")
	}
}
