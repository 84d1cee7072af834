package chat

// EffectKind names an outbound operation on the chat surface.
type EffectKind string

const (
	EffectSendText      EffectKind = "send_text"
	EffectSendMedia     EffectKind = "send_media"
	EffectEditMessage   EffectKind = "edit_message"
	EffectDeleteMessage EffectKind = "delete_message"
	// EffectNotice is a transient toast answering a button press.
	EffectNotice EffectKind = "notice"
)

// Effect is one outbound message operation produced by the dialog engine.
type Effect struct {
	Kind       EffectKind
	ChatID     int64
	MessageID  int64
	CallbackID string
	Text       string
	Media      *Media
	Buttons    [][]Button
	Menu       *Menu
	RemoveMenu bool
}

// Button is an inline button carrying an encoded payload.
type Button struct {
	Label   string
	Payload string
}

// Menu is a persistent reply keyboard.
type Menu struct {
	Rows [][]MenuButton
}

type MenuButton struct {
	Label           string
	RequestContact  bool
	RequestLocation bool
}

func SendText(chatID int64, text string) Effect {
	return Effect{Kind: EffectSendText, ChatID: chatID, Text: text}
}

func SendMedia(chatID int64, media Media, caption string) Effect {
	return Effect{Kind: EffectSendMedia, ChatID: chatID, Media: &media, Text: caption}
}

func EditMessage(chatID, messageID int64, text string) Effect {
	return Effect{Kind: EffectEditMessage, ChatID: chatID, MessageID: messageID, Text: text}
}

func DeleteMessage(chatID, messageID int64) Effect {
	return Effect{Kind: EffectDeleteMessage, ChatID: chatID, MessageID: messageID}
}

func Notice(chatID int64, callbackID, text string) Effect {
	return Effect{Kind: EffectNotice, ChatID: chatID, CallbackID: callbackID, Text: text}
}

// WithButtons attaches inline buttons, one slice per row.
func (e Effect) WithButtons(rows ...[]Button) Effect {
	e.Buttons = rows
	return e
}

func (e Effect) WithMenu(menu Menu) Effect {
	e.Menu = &menu
	return e
}

func (e Effect) WithoutMenu() Effect {
	e.RemoveMenu = true
	return e
}

// Row is a convenience for a single row of inline buttons.
func Row(buttons ...Button) []Button {
	return buttons
}
