package parallel

import "sync"

// BlockingQueue is a bounded FIFO queue safe for concurrent use.
//
// Push blocks while the queue holds capacity elements; Pop and Front block
// while it is empty.
type BlockingQueue[E any] struct {
	capacity int
	items    []E

	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond
}

// NewBlockingQueue creates a queue holding at most capacity elements.
// A capacity below one is treated as one.
func NewBlockingQueue[E any](capacity int) *BlockingQueue[E] {
	q := &BlockingQueue[E]{
		capacity: max(capacity, 1),
	}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	return q
}

// Push appends e, waiting for room if the queue is full.
func (q *BlockingQueue[E]) Push(e E) {
	q.mu.Lock()
	for len(q.items) >= q.capacity {
		q.notFull.Wait()
	}
	q.items = append(q.items, e)
	q.mu.Unlock()
	q.notEmpty.Signal()
}

// Front returns the oldest element without removing it, waiting until one exists.
func (q *BlockingQueue[E]) Front() E {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 {
		q.notEmpty.Wait()
	}
	return q.items[0]
}

// Pop removes and returns the oldest element, waiting until one exists.
func (q *BlockingQueue[E]) Pop() E {
	q.mu.Lock()
	for len(q.items) == 0 {
		q.notEmpty.Wait()
	}
	e := q.items[0]
	var zero E
	q.items[0] = zero
	q.items = q.items[1:]
	q.mu.Unlock()
	q.notFull.Signal()
	return e
}

// Size returns the number of queued elements.
func (q *BlockingQueue[E]) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Cap returns the queue capacity.
func (q *BlockingQueue[E]) Cap() int {
	return q.capacity
}
