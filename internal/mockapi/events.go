package mockapi

// Event names a kind of change notification.
type Event string

const (
	EventUpdateMock  Event = "update-mock"
	EventUpdateGroup Event = "update-group"
)

// Change describes one mutation. ID is the mock or group that changed.
type Change struct {
	Event Event
	ID    string
}

// Handler receives change notifications.
type Handler func(Change)

// Subscription identifies a registered handler for Off.
type Subscription uint64

type subscriber struct {
	event   Event
	handler Handler
}

// On registers handler for event and returns its subscription.
func (a *API) On(event Event, handler Handler) Subscription {
	a.subsMu.Lock()
	defer a.subsMu.Unlock()

	a.nextSub++
	sub := a.nextSub
	a.subs[sub] = subscriber{event: event, handler: handler}
	return sub
}

// Off removes a subscription. Unknown subscriptions are ignored.
func (a *API) Off(sub Subscription) {
	a.subsMu.Lock()
	defer a.subsMu.Unlock()
	delete(a.subs, sub)
}

// emit calls every handler registered for the change's event, in
// subscription order. It must be called without a.mu held.
func (a *API) emit(change Change) {
	a.subsMu.Lock()
	var handlers []Handler
	for sub := Subscription(1); sub <= a.nextSub; sub++ {
		s, ok := a.subs[sub]
		if ok && s.event == change.Event {
			handlers = append(handlers, s.handler)
		}
	}
	a.subsMu.Unlock()

	for _, h := range handlers {
		h(change)
	}
}
