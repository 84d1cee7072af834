package chat

import (
	"strconv"

	"github.com/angelmondragon/chatshop-backend/pkg/enums"
)

// Event is one inbound interaction from a user, independent of transport.
type Event struct {
	UpdateID    int64
	UserID      int64
	ChatID      int64
	DisplayName string
	// MessageID is the message the event came from; for buttons it is the
	// message carrying the keyboard.
	MessageID  int64
	CallbackID string

	Kind     enums.EventKind
	Command  string
	Text     string
	Media    *Media
	Phone    string
	Location *Location
	Payload  string
}

// Media references an attachment already stored by the transport.
type Media struct {
	Ref  string
	Kind enums.MediaKind
}

type Location struct {
	Lat float64
	Lon float64
}

// String renders the location as a geo URI, e.g. "geo:41.3,69.24".
func (l Location) String() string {
	return "geo:" + strconv.FormatFloat(l.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(l.Lon, 'f', -1, 64)
}

func CommandEvent(userID int64, name string) Event {
	return Event{UserID: userID, ChatID: userID, Kind: enums.EventKindCommand, Command: name}
}

func TextEvent(userID int64, text string) Event {
	return Event{UserID: userID, ChatID: userID, Kind: enums.EventKindText, Text: text}
}

func MediaEvent(userID int64, ref string, kind enums.MediaKind) Event {
	return Event{UserID: userID, ChatID: userID, Kind: enums.EventKindMedia, Media: &Media{Ref: ref, Kind: kind}}
}

func ContactEvent(userID int64, phone string) Event {
	return Event{UserID: userID, ChatID: userID, Kind: enums.EventKindContact, Phone: phone}
}

func LocationEvent(userID int64, lat, lon float64) Event {
	return Event{UserID: userID, ChatID: userID, Kind: enums.EventKindLocation, Location: &Location{Lat: lat, Lon: lon}}
}

func ButtonEvent(userID int64, payload string) Event {
	return Event{UserID: userID, ChatID: userID, Kind: enums.EventKindButton, Payload: payload}
}
