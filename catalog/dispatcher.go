package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrStopped is returned for events submitted after the dispatcher stopped.
var ErrStopped = errors.New("catalog: dispatcher stopped")

// Dispatcher runs submitted events one at a time on a single goroutine, so
// the state they touch never needs a lock.
type Dispatcher struct {
	events chan func()
	quit   chan struct{}
	done   chan struct{}
	once   sync.Once
}

// NewDispatcher starts a dispatcher. Call Stop to release its goroutine.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		events: make(chan func()),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for {
		select {
		case fn := <-d.events:
			fn()
		case <-d.quit:
			return
		}
	}
}

// Post queues fn without waiting for it to run. It reports false when the
// dispatcher has stopped.
func (d *Dispatcher) Post(fn func()) bool {
	select {
	case d.events <- func() { _ = safeCall(fn) }:
		return true
	case <-d.quit:
		return false
	}
}

// Call runs fn on the dispatcher goroutine and waits for it to finish.
// A panic inside fn is returned as an error.
func (d *Dispatcher) Call(ctx context.Context, fn func()) error {
	result := make(chan error, 1)
	select {
	case d.events <- func() { result <- safeCall(fn) }:
	case <-d.quit:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-result:
		return err
	case <-d.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop ends the run loop and waits for the in-flight event. It must not be
// called from inside an event.
func (d *Dispatcher) Stop() {
	d.once.Do(func() { close(d.quit) })
	<-d.done
}

// Done is closed once the run loop has exited.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

func safeCall(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("catalog: event panicked: %v", r)
		}
	}()
	fn()
	return nil
}
