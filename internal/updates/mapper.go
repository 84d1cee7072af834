package updates

import (
	"strings"

	"github.com/angelmondragon/chatshop-backend/internal/chat"
	"github.com/angelmondragon/chatshop-backend/pkg/enums"
	"github.com/angelmondragon/chatshop-backend/pkg/telegram"
)

// ToEvent maps a Bot API update to a chat event. Updates the shop does not
// react to (stickers, edits, bot senders) report false.
func ToEvent(u telegram.Update) (chat.Event, bool) {
	switch {
	case u.CallbackQuery != nil:
		return callbackEvent(u.UpdateID, u.CallbackQuery)
	case u.Message != nil:
		return messageEvent(u.UpdateID, u.Message)
	}
	return chat.Event{}, false
}

func callbackEvent(updateID int64, cq *telegram.CallbackQuery) (chat.Event, bool) {
	if cq.From.ID == 0 || cq.From.IsBot {
		return chat.Event{}, false
	}
	ev := chat.Event{
		UpdateID:    updateID,
		UserID:      cq.From.ID,
		ChatID:      cq.From.ID,
		DisplayName: displayName(cq.From),
		CallbackID:  cq.ID,
		Kind:        enums.EventKindButton,
		Payload:     cq.Data,
	}
	if cq.Message != nil {
		ev.ChatID = cq.Message.Chat.ID
		ev.MessageID = cq.Message.MessageID
	}
	return ev, true
}

func messageEvent(updateID int64, msg *telegram.Message) (chat.Event, bool) {
	if msg.From == nil || msg.From.IsBot {
		return chat.Event{}, false
	}
	ev := chat.Event{
		UpdateID:    updateID,
		UserID:      msg.From.ID,
		ChatID:      msg.Chat.ID,
		DisplayName: displayName(*msg.From),
		MessageID:   msg.MessageID,
	}
	if ev.ChatID == 0 {
		ev.ChatID = ev.UserID
	}

	switch {
	case len(msg.Photo) > 0:
		// sizes are ascending; the last one is the original
		ev.Kind = enums.EventKindMedia
		ev.Media = &chat.Media{Ref: msg.Photo[len(msg.Photo)-1].FileID, Kind: enums.MediaKindImage}
		ev.Text = msg.Caption
	case msg.Document != nil:
		ev.Kind = enums.EventKindMedia
		ev.Media = &chat.Media{Ref: msg.Document.FileID, Kind: enums.MediaKindFile}
		ev.Text = msg.Caption
	case msg.Contact != nil:
		ev.Kind = enums.EventKindContact
		ev.Phone = msg.Contact.PhoneNumber
	case msg.Location != nil:
		ev.Kind = enums.EventKindLocation
		ev.Location = &chat.Location{Lat: msg.Location.Latitude, Lon: msg.Location.Longitude}
	case msg.Text != "":
		if name, ok := commandName(msg); ok {
			ev.Kind = enums.EventKindCommand
			ev.Command = name
			return ev, true
		}
		ev.Kind = enums.EventKindText
		ev.Text = msg.Text
	default:
		return chat.Event{}, false
	}
	return ev, true
}

// commandName extracts "start" from "/start" or "/start@shop_bot payload".
func commandName(msg *telegram.Message) (string, bool) {
	isCommand := false
	for _, span := range msg.Entities {
		if span.Type == "bot_command" && span.Offset == 0 {
			isCommand = true
			break
		}
	}
	if !isCommand && !strings.HasPrefix(msg.Text, "/") {
		return "", false
	}
	word := strings.Fields(msg.Text)
	if len(word) == 0 {
		return "", false
	}
	name := strings.TrimPrefix(word[0], "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	if name == "" {
		return "", false
	}
	return strings.ToLower(name), true
}

func displayName(u telegram.User) string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" && u.Username != "" {
		return "@" + u.Username
	}
	return name
}
