package scheduler

import "container/heap"

// scanHeap implements container/heap.Interface for ScanJob, sorted by
// TriggerAt (earliest first).
type scanHeap []ScanJob

func (h scanHeap) Len() int           { return len(h) }
func (h scanHeap) Less(i, j int) bool { return h[i].TriggerAt.Before(h[j].TriggerAt) }
func (h scanHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *scanHeap) Push(x any) {
	*h = append(*h, x.(ScanJob))
}

func (h *scanHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// heapPush adds a ScanJob to the heap, maintaining the heap invariant.
func heapPush(h *scanHeap, j ScanJob) {
	heap.Push(h, j)
}

// heapPop removes and returns the ScanJob with the earliest TriggerAt.
// Panics if the heap is empty.
func heapPop(h *scanHeap) ScanJob {
	return heap.Pop(h).(ScanJob)
}

// heapRemoveByWebsite removes the first ScanJob for the given website.
// Returns true if a job was found and removed.
func heapRemoveByWebsite(h *scanHeap, website string) bool {
	for i, j := range *h {
		if j.Website == website {
			heap.Remove(h, i)
			return true
		}
	}
	return false
}
