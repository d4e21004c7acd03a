package graphics

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/spaghettifunk/xnagfx/engine/core"
)

/**
 * @brief Common state of every object created against a GraphicsDevice.
 *
 * The device keeps a handle to each live resource for leak reporting but does
 * not own it. Dispose releases that handle and queues the native objects for
 * destruction at the next Present; it may be called from any goroutine.
 */
type GraphicsResource struct {
	ID   uuid.UUID
	Name string
	Tag  interface{}

	device   *GraphicsDevice
	owner    interface{}
	handle   core.Handle
	disposed atomic.Bool
	release  func()
}

// track registers r with device. release queues the native objects of the
// owning resource and runs at most once.
func (r *GraphicsResource) track(device *GraphicsDevice, owner interface{}, release func()) {
	r.ID = uuid.New()
	r.device = device
	r.owner = owner
	r.release = release
	r.handle = device.resources.Acquire(r)
	device.events.Fire(core.EVENT_CODE_RESOURCE_CREATED, device, core.EventContext{Resource: owner})
}

func (r *GraphicsResource) GraphicsDevice() *GraphicsDevice {
	return r.device
}

func (r *GraphicsResource) IsDisposed() bool {
	return r.disposed.Load()
}

func (r *GraphicsResource) Dispose() {
	if r.disposed.Swap(true) {
		return
	}
	if r.release != nil {
		r.release()
	}
	if err := r.device.resources.Release(r.handle); err != nil {
		core.LogWarn("releasing graphics resource %s: %s", r.ID, err)
	}
	r.device.events.Fire(core.EVENT_CODE_RESOURCE_DESTROYED, r.device, core.EventContext{Resource: r.owner})
}

func (r *GraphicsResource) String() string {
	if r.Name != "" {
		return r.Name + " (" + r.ID.String() + ")"
	}
	return r.ID.String()
}
