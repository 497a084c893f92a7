package loadout

// Event identifies a notification raised to subscribers.
type Event int

const (
	// EventDataLoaded fires once after LoadPersistent has repaired and activated the loaded data.
	EventDataLoaded Event = iota + 1
	// EventLoadoutChanged fires after any operation that mutates engine state.
	// Subscribers should re-read everything they display.
	EventLoadoutChanged
)

// String implements fmt.Stringer.
func (e Event) String() string {
	switch e {
	case EventDataLoaded:
		return "data_loaded"
	case EventLoadoutChanged:
		return "loadout_changed"
	default:
		return "unknown"
	}
}

type subscriber struct {
	fn func(Event)
}

// Subscribe registers fn to receive engine events and returns a function that removes it.
// Events are delivered synchronously, in subscription order, after the operation that
// raised them has completed.
//
// Precondition: fn must be non-nil.
func (e *Engine) Subscribe(fn func(Event)) (unsubscribe func()) {
	s := &subscriber{fn: fn}
	e.subs = append(e.subs, s)
	return func() {
		for i, o := range e.subs {
			if o == s {
				e.subs = append(e.subs[:i:i], e.subs[i+1:]...)
				return
			}
		}
	}
}

// begin opens an operation; notifications are held until the outermost operation ends.
func (e *Engine) begin() {
	e.depth++
}

// end closes an operation and, at the outermost level, delivers at most one
// EventDataLoaded followed by at most one EventLoadoutChanged.
func (e *Engine) end() {
	e.depth--
	if e.depth > 0 {
		return
	}
	loaded, changed := e.loaded, e.changed
	e.loaded, e.changed = false, false
	if loaded {
		e.emit(EventDataLoaded)
	}
	if changed {
		e.emit(EventLoadoutChanged)
	}
}

func (e *Engine) emit(ev Event) {
	subs := append([]*subscriber(nil), e.subs...)
	for _, s := range subs {
		s.fn(ev)
	}
}
