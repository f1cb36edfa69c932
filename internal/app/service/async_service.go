package service

import (
	"shift-bot/pkg/workerpool"
)

// AsyncService runs work on the pool keyed by user id, so commands from one
// user never interleave.
type AsyncService struct {
	Pool *workerpool.WorkerPool
}

func NewAsyncService(pool *workerpool.WorkerPool) *AsyncService {
	return &AsyncService{Pool: pool}
}

// SubmitAsync blocks until fn has run on the key's worker. A nil service
// runs fn inline.
func (a *AsyncService) SubmitAsync(key int64, fn func() (any, error)) (any, error) {
	if a == nil || a.Pool == nil {
		return fn()
	}
	resCh := make(chan workerpool.Result, 1)
	if err := a.Pool.Submit(workerpool.Task{
		Key:     key,
		Fn:      fn,
		ResultC: resCh,
	}); err != nil {
		return nil, err
	}
	res := <-resCh
	return res.Value, res.Err
}

// Do is the typed form of SubmitAsync.
func Do[T any](a *AsyncService, key int64, fn func() (T, error)) (T, error) {
	v, err := a.SubmitAsync(key, func() (any, error) { return fn() })
	if err != nil {
		var zero T
		if t, ok := v.(T); ok {
			return t, err
		}
		return zero, err
	}
	return v.(T), nil
}
