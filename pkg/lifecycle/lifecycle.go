// Package lifecycle coordinates startup and shutdown across subsystems.
// Startup hooks run concurrently and are awaited with WaitForStartup;
// shutdown hooks observe the coordinator context and are awaited by Shutdown.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ReadinessChecker reports whether a subsystem has completed startup.
type ReadinessChecker interface {
	Ready() bool
}

// Coordinator tracks subsystem startup and shutdown hooks against a shared context.
type Coordinator struct {
	ctx    context.Context
	cancel context.CancelFunc

	startup  sync.WaitGroup
	shutdown sync.WaitGroup
	ready    atomic.Bool
}

// New creates a Coordinator with a fresh root context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context returns the coordinator context. It is canceled when Shutdown begins.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// Ready reports whether all registered startup hooks have completed.
func (c *Coordinator) Ready() bool {
	return c.ready.Load()
}

// OnStartup runs fn asynchronously and tracks it for WaitForStartup.
func (c *Coordinator) OnStartup(fn func()) {
	c.startup.Add(1)
	go func() {
		defer c.startup.Done()
		fn()
	}()
}

// OnShutdown runs fn asynchronously and tracks it for Shutdown. Hooks typically
// block on Context().Done() before performing their teardown work.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdown.Add(1)
	go func() {
		defer c.shutdown.Done()
		fn()
	}()
}

// WaitForStartup blocks until all startup hooks registered so far have completed.
func (c *Coordinator) WaitForStartup() {
	c.startup.Wait()
	c.ready.Store(true)
}

// Shutdown cancels the coordinator context and waits for shutdown hooks to finish.
// It returns an error if the hooks do not complete within the timeout.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdown.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timed out after %s", timeout)
	}
}
