package core

import "sync"

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// Resized/resolution changed from the OS.
	/* Context usage:
	 * data := context.Data.(*SystemEvent)
	 */
	EVENT_CODE_RESIZED SystemEventCode = 0x08

	// The swapchain was rebuilt.
	/* Context usage:
	 * data := context.Data.(*SwapchainEvent)
	 */
	EVENT_CODE_SWAPCHAIN_RECREATED SystemEventCode = 0x09

	// The configuration file changed on disk and was reloaded.
	EVENT_CODE_CONFIG_RELOADED SystemEventCode = 0x0A

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

type SystemEvent struct {
	WindowWidth  uint32
	WindowHeight uint32
}

type SwapchainEvent struct {
	Generation string
	Width      uint32
	Height     uint32
	Rebuilds   uint64
}

type EventContext struct {
	Type SystemEventCode
	Data interface{}
}

// Should return true if handled.
type FnOnEvent func(context EventContext) bool

type registeredEvent struct {
	id       uint32
	callback FnOnEvent
}

type eventSystemState struct {
	mu         sync.RWMutex
	nextID     uint32
	registered map[SystemEventCode][]registeredEvent
}

var eventState *eventSystemState

// EventSystemInitialize (re)creates the event system, dropping every registration.
func EventSystemInitialize() bool {
	eventState = &eventSystemState{
		nextID:     1,
		registered: make(map[SystemEventCode][]registeredEvent),
	}
	return true
}

func EventSystemShutdown() error {
	if eventState == nil {
		return nil
	}
	eventState.mu.Lock()
	defer eventState.mu.Unlock()
	eventState.registered = make(map[SystemEventCode][]registeredEvent)
	return nil
}

/**
 * Register to listen for when events are sent with the provided code.
 * @returns the registration id, or 0 if the event system is not initialized.
 */
func EventRegister(code SystemEventCode, onEvent FnOnEvent) uint32 {
	if eventState == nil || onEvent == nil {
		return 0
	}
	eventState.mu.Lock()
	defer eventState.mu.Unlock()

	id := eventState.nextID
	eventState.nextID++
	eventState.registered[code] = append(eventState.registered[code], registeredEvent{id: id, callback: onEvent})
	return id
}

// EventUnregister removes the registration returned by EventRegister.
func EventUnregister(code SystemEventCode, id uint32) bool {
	if eventState == nil {
		return false
	}
	eventState.mu.Lock()
	defer eventState.mu.Unlock()

	events := eventState.registered[code]
	for i := range events {
		if events[i].id == id {
			eventState.registered[code] = append(events[:i], events[i+1:]...)
			return true
		}
	}
	return false
}

/**
 * Fires an event to listeners of the given code. If an event handler returns
 * true, the event is considered handled and is not passed on to any more listeners.
 * @returns true if handled, otherwise false.
 */
func EventFire(context EventContext) bool {
	if eventState == nil {
		return false
	}
	eventState.mu.RLock()
	events := append([]registeredEvent(nil), eventState.registered[context.Type]...)
	eventState.mu.RUnlock()

	for _, e := range events {
		if e.callback(context) {
			return true
		}
	}
	return false
}
