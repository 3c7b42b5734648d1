package parallel

import (
	"errors"
	"sync"
)

// ErrStarted is returned when work is submitted to, or Start is called on, a
// pool that is already running.
var ErrStarted = errors.New("parallel: pool already started")

// Pool runs submitted tasks on a fixed number of goroutines and publishes
// their results in completion order.
//
// All tasks must be submitted before Start. Callers read exactly Size()
// results with Get; results carry no submission index, so tasks that need
// identity must embed it in E.
//
// Example:
//
//	pool := parallel.NewPool[int](4)
//	for i := 0; i < 10; i++ {
//	    _ = pool.Submit(func() int { return i * i })
//	}
//	_ = pool.Start()
//	for range pool.Size() {
//	    sq := pool.Get()
//	    ...
//	}
type Pool[E any] struct {
	workers int

	mu      sync.Mutex
	work    []func() E
	started bool
	submits int

	results *BlockingQueue[E]
	wg      sync.WaitGroup
}

// NewPool creates a pool with the given number of workers (at least one).
func NewPool[E any](workers int) *Pool[E] {
	return &Pool[E]{workers: max(workers, 1)}
}

// Workers returns the number of goroutines Start spawns.
func (p *Pool[E]) Workers() int {
	return p.workers
}

// Submit enqueues one task.
func (p *Pool[E]) Submit(task func() E) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return ErrStarted
	}
	p.work = append(p.work, task)
	p.submits++
	return nil
}

// Size returns the number of tasks ever submitted.
func (p *Pool[E]) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.submits
}

// Start spawns the worker goroutines. Each worker pops tasks until the work
// queue is empty.
func (p *Pool[E]) Start() error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return ErrStarted
	}
	p.started = true
	// Sized to the submission count so a worker never blocks on publish.
	p.results = NewBlockingQueue[E](p.submits)
	p.mu.Unlock()

	p.wg.Add(p.workers)
	for range p.workers {
		go p.drain()
	}
	return nil
}

func (p *Pool[E]) drain() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		if len(p.work) == 0 {
			p.mu.Unlock()
			return
		}
		task := p.work[0]
		p.work[0] = nil
		p.work = p.work[1:]
		p.mu.Unlock()

		p.results.Push(task())
	}
}

// Get blocks until a result is available and returns it.
// Get must not be called before Start.
func (p *Pool[E]) Get() E {
	return p.results.Pop()
}

// Wait blocks until every worker has exited.
func (p *Pool[E]) Wait() {
	p.wg.Wait()
}
