package graphics

import (
	"sync"

	"github.com/spaghettifunk/xnagfx/engine/core"
	"github.com/spaghettifunk/xnagfx/engine/systems"
)

const backgroundQueueSize = 16

// backgroundContext serializes native calls between the main goroutine and
// the worker that owns resource creation.
type backgroundContext struct {
	worker *systems.JobSystem
	mutex  sync.Mutex
}

func newBackgroundContext() (*backgroundContext, error) {
	worker, err := systems.NewContextWorker(backgroundQueueSize)
	if err != nil {
		return nil, err
	}
	return &backgroundContext{worker: worker}, nil
}

// run executes fn against the backend. In background mode fn runs on the
// context worker and run blocks until it returns.
func (d *GraphicsDevice) run(fn func()) {
	if d.background == nil {
		fn()
		return
	}
	err := d.background.worker.SubmitAndWait(func() error {
		d.background.mutex.Lock()
		defer d.background.mutex.Unlock()
		fn()
		return nil
	})
	if err != nil {
		core.LogError("background context: %s", err)
	}
}

// lock guards a main goroutine entry point while a background context is
// active. The returned func releases it. Code holding the lock must not call run.
func (d *GraphicsDevice) lock() func() {
	if d.background == nil {
		return func() {}
	}
	d.background.mutex.Lock()
	return d.background.mutex.Unlock
}

func (b *backgroundContext) shutdown() {
	if err := b.worker.Shutdown(); err != nil {
		core.LogError("shutting down background context: %s", err)
	}
}
