package domain

// EventKind tags a ChangeEvent.
type EventKind int

const (
	EventAdded EventKind = iota + 1
	EventChanged
	EventRemoved
)

func (k EventKind) String() string {
	switch k {
	case EventAdded:
		return "added"
	case EventChanged:
		return "changed"
	case EventRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// ChangeEvent is one mutation pushed by the remote store for a collection.
// Delivery is the zero value for EventRemoved.
type ChangeEvent struct {
	Kind     EventKind
	Key      string
	Delivery Delivery
}

func Added(key string, d Delivery) ChangeEvent {
	return ChangeEvent{Kind: EventAdded, Key: key, Delivery: d}
}

func Changed(key string, d Delivery) ChangeEvent {
	return ChangeEvent{Kind: EventChanged, Key: key, Delivery: d}
}

func Removed(key string) ChangeEvent {
	return ChangeEvent{Kind: EventRemoved, Key: key}
}
