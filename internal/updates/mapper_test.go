package updates

import (
	"testing"

	"github.com/angelmondragon/chatshop-backend/pkg/enums"
	"github.com/angelmondragon/chatshop-backend/pkg/telegram"
)

func message(text string) *telegram.Message {
	return &telegram.Message{
		MessageID: 9,
		From:      &telegram.User{ID: 42, FirstName: "Ann", LastName: "Lee"},
		Chat:      telegram.Chat{ID: 42},
		Text:      text,
	}
}

func TestToEventCommand(t *testing.T) {
	msg := message("/start@shop_bot hello")
	msg.Entities = []telegram.MessageSpan{{Type: "bot_command", Offset: 0, Length: 15}}

	ev, ok := ToEvent(telegram.Update{UpdateID: 1, Message: msg})
	if !ok {
		t.Fatalf("expected event")
	}
	if ev.Kind != enums.EventKindCommand || ev.Command != "start" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.DisplayName != "Ann Lee" {
		t.Fatalf("unexpected display name %q", ev.DisplayName)
	}
}

func TestToEventText(t *testing.T) {
	ev, ok := ToEvent(telegram.Update{UpdateID: 2, Message: message("1000000")})
	if !ok || ev.Kind != enums.EventKindText || ev.Text != "1000000" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.UserID != 42 || ev.ChatID != 42 || ev.MessageID != 9 {
		t.Fatalf("unexpected ids %+v", ev)
	}
}

func TestToEventPhotoUsesLargestSize(t *testing.T) {
	msg := message("")
	msg.Photo = []telegram.PhotoSize{{FileID: "small", Width: 90}, {FileID: "large", Width: 1280}}
	msg.Caption = "receipt"

	ev, ok := ToEvent(telegram.Update{UpdateID: 3, Message: msg})
	if !ok || ev.Kind != enums.EventKindMedia {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.Media.Ref != "large" || ev.Media.Kind != enums.MediaKindImage {
		t.Fatalf("unexpected media %+v", ev.Media)
	}
}

func TestToEventDocumentContactLocation(t *testing.T) {
	doc := message("")
	doc.Document = &telegram.Document{FileID: "doc-1", FileName: "scan.pdf"}
	ev, ok := ToEvent(telegram.Update{UpdateID: 4, Message: doc})
	if !ok || ev.Media == nil || ev.Media.Kind != enums.MediaKindFile || ev.Media.Ref != "doc-1" {
		t.Fatalf("unexpected document event %+v", ev)
	}

	contact := message("")
	contact.Contact = &telegram.Contact{PhoneNumber: "+998901234567"}
	ev, ok = ToEvent(telegram.Update{UpdateID: 5, Message: contact})
	if !ok || ev.Kind != enums.EventKindContact || ev.Phone != "+998901234567" {
		t.Fatalf("unexpected contact event %+v", ev)
	}

	loc := message("")
	loc.Location = &telegram.Location{Latitude: 41.31, Longitude: 69.24}
	ev, ok = ToEvent(telegram.Update{UpdateID: 6, Message: loc})
	if !ok || ev.Kind != enums.EventKindLocation || ev.Location.String() != "geo:41.31,69.24" {
		t.Fatalf("unexpected location event %+v", ev)
	}
}

func TestToEventCallback(t *testing.T) {
	ev, ok := ToEvent(telegram.Update{UpdateID: 7, CallbackQuery: &telegram.CallbackQuery{
		ID:      "cb-1",
		From:    telegram.User{ID: 42, Username: "ann"},
		Message: &telegram.Message{MessageID: 77, Chat: telegram.Chat{ID: 42}},
		Data:    "page:1",
	}})
	if !ok || ev.Kind != enums.EventKindButton {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.Payload != "page:1" || ev.CallbackID != "cb-1" || ev.MessageID != 77 {
		t.Fatalf("unexpected callback fields %+v", ev)
	}
	if ev.DisplayName != "@ann" {
		t.Fatalf("unexpected display name %q", ev.DisplayName)
	}
}

func TestToEventSkipsUnsupported(t *testing.T) {
	cases := []telegram.Update{
		{UpdateID: 8},
		{UpdateID: 9, Message: &telegram.Message{Chat: telegram.Chat{ID: 1}, Text: "no sender"}},
		{UpdateID: 10, Message: message("")},
		{UpdateID: 11, Message: &telegram.Message{From: &telegram.User{ID: 5, IsBot: true}, Text: "hi"}},
	}
	for _, u := range cases {
		if ev, ok := ToEvent(u); ok {
			t.Fatalf("expected update %d to be skipped, got %+v", u.UpdateID, ev)
		}
	}
}
