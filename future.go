package xflow // import "github.com/orkestr8/xflow"

import (
	"sync"
)

// Async is the pending result of a call started by Future.
type Async[T any] interface {
	// Value blocks until the call returns.
	Value() T
	Error() error
	Done() <-chan struct{}
}

type Do[T any] func() (T, error)

type future[T any] struct {
	value T
	err   error
	done  chan struct{}
	lock  sync.RWMutex
}

func (f *future[T]) results(v T, err error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.value = v
	f.err = err
	close(f.done)
}

func (f *future[T]) Done() <-chan struct{} {
	return f.done
}

func (f *future[T]) Value() T {
	<-f.done
	f.lock.RLock()
	defer f.lock.RUnlock()
	return f.value
}

func (f *future[T]) Error() error {
	<-f.done
	f.lock.RLock()
	defer f.lock.RUnlock()
	return f.err
}

// Future runs do in its own goroutine. The call is never abandoned: do is
// expected to observe cancellation itself.
func Future[T any](do Do[T]) Async[T] {
	f := &future[T]{
		done: make(chan struct{}),
	}
	go func() {
		f.results(do())
	}()
	return f
}
