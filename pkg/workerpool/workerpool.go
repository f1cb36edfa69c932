package workerpool

import (
	"errors"
	"sync"
)

var ErrClosed = errors.New("workerpool: closed")

// Task is a unit of work. Tasks sharing a Key run on the same worker, one
// after another, in submission order.
type Task struct {
	Key     int64
	Fn      func() (any, error)
	ResultC chan Result
}

type Result struct {
	Value any
	Err   error
}

type WorkerPool struct {
	queues []chan Task
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewWorkerPool starts workerCount workers, each with its own queue of
// queueSize tasks.
func NewWorkerPool(workerCount int, queueSize int) *WorkerPool {
	if workerCount < 1 {
		workerCount = 1
	}
	wp := &WorkerPool{queues: make([]chan Task, workerCount)}
	for i := range wp.queues {
		wp.queues[i] = make(chan Task, queueSize)
		wp.wg.Add(1)
		go wp.worker(wp.queues[i])
	}
	return wp
}

func (wp *WorkerPool) worker(tasks <-chan Task) {
	defer wp.wg.Done()
	for task := range tasks {
		res, err := run(task.Fn)
		if task.ResultC != nil {
			task.ResultC <- Result{Value: res, Err: err}
		}
	}
}

// run keeps a panicking task from taking its worker down.
func run(fn func() (any, error)) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return fn()
}

type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return "workerpool: task panicked"
}

func (wp *WorkerPool) queueFor(key int64) chan Task {
	n := uint64(len(wp.queues))
	return wp.queues[uint64(key)%n]
}

// Submit enqueues task, blocking while the worker's queue is full.
func (wp *WorkerPool) Submit(task Task) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return ErrClosed
	}
	wp.queueFor(task.Key) <- task
	return nil
}

// Close stops accepting tasks, lets queued tasks finish and waits for the
// workers to exit.
func (wp *WorkerPool) Close() {
	wp.mu.Lock()
	if wp.closed {
		wp.mu.Unlock()
		return
	}
	wp.closed = true
	for _, q := range wp.queues {
		close(q)
	}
	wp.mu.Unlock()
	wp.wg.Wait()
}
