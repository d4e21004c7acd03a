package graphics

import (
	"github.com/spaghettifunk/xnagfx/engine/core"
	"github.com/spaghettifunk/xnagfx/engine/renderer"
	"github.com/spaghettifunk/xnagfx/engine/renderer/metadata"
)

// BackendFactory creates the native device for a set of presentation parameters.
type BackendFactory func(params *metadata.PresentationParameters) (renderer.Backend, error)

type deviceOptions struct {
	rendererType      renderer.RendererType
	backendFactory    BackendFactory
	profile           metadata.GraphicsProfile
	debug             bool
	backgroundContext bool
	events            *core.EventSystem
}

type DeviceOption func(*deviceOptions)

func defaultDeviceOptions() deviceOptions {
	return deviceOptions{
		rendererType: renderer.Software,
		profile:      metadata.GraphicsProfileHiDef,
	}
}

// WithRenderer selects one of the built-in backends. Ignored when a
// BackendFactory is given.
func WithRenderer(rendererType renderer.RendererType) DeviceOption {
	return func(o *deviceOptions) {
		o.rendererType = rendererType
	}
}

func WithBackendFactory(factory BackendFactory) DeviceOption {
	return func(o *deviceOptions) {
		o.backendFactory = factory
	}
}

// WithProfile limits the device to the Reach or HiDef feature set.
func WithProfile(profile metadata.GraphicsProfile) DeviceOption {
	return func(o *deviceOptions) {
		o.profile = profile
	}
}

// WithDebug makes discarded render targets clear to a visible colour.
func WithDebug(debug bool) DeviceOption {
	return func(o *deviceOptions) {
		o.debug = debug
	}
}

/**
 * @brief Routes resource creation and data transfers through a dedicated
 * worker that owns the native context. Callers block until the work is done.
 */
func WithBackgroundContext(enabled bool) DeviceOption {
	return func(o *deviceOptions) {
		o.backgroundContext = enabled
	}
}

func WithEventSystem(events *core.EventSystem) DeviceOption {
	return func(o *deviceOptions) {
		o.events = events
	}
}
