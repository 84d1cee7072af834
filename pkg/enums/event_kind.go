package enums

import "fmt"

// EventKind classifies an inbound chat event.
type EventKind string

const (
	EventKindCommand  EventKind = "command"
	EventKindText     EventKind = "text"
	EventKindMedia    EventKind = "media"
	EventKindContact  EventKind = "contact"
	EventKindLocation EventKind = "location"
	EventKindButton   EventKind = "button"
)

var validEventKinds = []EventKind{
	EventKindCommand,
	EventKindText,
	EventKindMedia,
	EventKindContact,
	EventKindLocation,
	EventKindButton,
}

// String implements fmt.Stringer.
func (k EventKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known EventKind.
func (k EventKind) IsValid() bool {
	for _, candidate := range validEventKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseEventKind converts raw input into an EventKind.
func ParseEventKind(value string) (EventKind, error) {
	for _, candidate := range validEventKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event kind %q", value)
}
