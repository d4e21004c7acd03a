package core

import "sync"

// EventContext is the payload delivered with an event.
type EventContext struct {
	// Resource is set for resource lifecycle events.
	Resource interface{}
	// Data carries event specific values (e.g. the new presentation parameters on reset).
	Data interface{}
}

// EventCode identifies an event. Application codes should start at EVENT_CODE_USER.
type EventCode int

const (
	// Fired before the device resets its backbuffer.
	EVENT_CODE_DEVICE_RESETTING EventCode = 0x01
	// Fired once the device finished resetting.
	/* Context usage:
	 * params := data.Data.(*metadata.PresentationParameters)
	 */
	EVENT_CODE_DEVICE_RESET EventCode = 0x02
	// A graphics resource was registered with the device.
	/* Context usage:
	 * res := data.Resource
	 */
	EVENT_CODE_RESOURCE_CREATED EventCode = 0x03
	// A graphics resource was disposed.
	/* Context usage:
	 * res := data.Resource
	 */
	EVENT_CODE_RESOURCE_DESTROYED EventCode = 0x04
	// The device is being disposed.
	EVENT_CODE_DISPOSING EventCode = 0x05
	// Shut the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT EventCode = 0x06
	// The window framebuffer changed size.
	/* Context usage:
	 * size := data.Data.([2]int32)
	 */
	EVENT_CODE_RESIZED EventCode = 0x07

	EVENT_CODE_USER EventCode = 0x100
)

// FnOnEvent is invoked for every fired event the listener registered for.
type FnOnEvent func(code EventCode, sender interface{}, listener interface{}, data EventContext)

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

// EventSystem is an explicit observer list per event code. Listeners are called
// in registration order. It is safe for concurrent use: resources may be created
// and disposed from any goroutine.
type EventSystem struct {
	mu         sync.RWMutex
	registered map[EventCode][]registeredEvent
}

func NewEventSystem() *EventSystem {
	return &EventSystem{
		registered: make(map[EventCode][]registeredEvent),
	}
}

/**
 * Register to listen for when events are sent with the provided code. Events with duplicate
 * listeners will not be registered again and will cause this to return false.
 * @param code The event code to listen for.
 * @param listener The listener identity, used for unregistering. Must be comparable.
 * @param onEvent The callback to be invoked when the event code is fired.
 * @returns true if the event is successfully registered; otherwise false.
 */
func (es *EventSystem) Register(code EventCode, listener interface{}, onEvent FnOnEvent) bool {
	if onEvent == nil {
		return false
	}
	es.mu.Lock()
	defer es.mu.Unlock()

	for _, e := range es.registered[code] {
		if e.listener == listener {
			LogWarn("listener already registered for event code %d", code)
			return false
		}
	}
	es.registered[code] = append(es.registered[code], registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

/**
 * Unregister from listening for when events are sent with the provided code.
 * @returns true if the listener was found and removed; otherwise false.
 */
func (es *EventSystem) Unregister(code EventCode, listener interface{}) bool {
	es.mu.Lock()
	defer es.mu.Unlock()

	events := es.registered[code]
	for i, e := range events {
		if e.listener == listener {
			// keep the remaining listeners in registration order
			next := make([]registeredEvent, 0, len(events)-1)
			next = append(next, events[:i]...)
			next = append(next, events[i+1:]...)
			es.registered[code] = next
			return true
		}
	}
	return false
}

// Fire delivers the event to every listener of code, in registration order.
// Callbacks run on the calling goroutine, outside the lock, so they may register
// or unregister listeners themselves.
func (es *EventSystem) Fire(code EventCode, sender interface{}, context EventContext) {
	es.mu.RLock()
	events := es.registered[code]
	es.mu.RUnlock()

	for _, e := range events {
		e.callback(code, sender, e.listener, context)
	}
}

// Shutdown drops every registration.
func (es *EventSystem) Shutdown() {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.registered = make(map[EventCode][]registeredEvent)
}
