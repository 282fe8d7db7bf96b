// Package queue — FIFO job queue with deduplication.
// Maintains a seen set so a book listed twice in the workbook runs once.
package queue

// Job is one pending book: the workbook row it came from and its id.
type Job struct {
	Row    int
	BookID string
}

// Queue is a FIFO queue of jobs, deduplicated by book id.
type Queue struct {
	items []Job
	seen  map[string]bool
	idx   int // current read position
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{
		seen: make(map[string]bool),
	}
}

// Add enqueues a job if its book id hasn't been seen before. It reports
// whether the job was added.
func (q *Queue) Add(job Job) bool {
	if q.seen[job.BookID] {
		return false
	}
	q.seen[job.BookID] = true
	q.items = append(q.items, job)
	return true
}

// HasNext returns true if there are unprocessed jobs.
func (q *Queue) HasNext() bool {
	return q.idx < len(q.items)
}

// Next returns the next unprocessed job and advances the pointer.
func (q *Queue) Next() Job {
	job := q.items[q.idx]
	q.idx++
	return job
}

// Len returns the total number of unique jobs enqueued.
func (q *Queue) Len() int {
	return len(q.items)
}
