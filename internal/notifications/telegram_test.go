package notifications

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/chatshop-backend/internal/chat"
	"github.com/angelmondragon/chatshop-backend/pkg/enums"
	"github.com/angelmondragon/chatshop-backend/pkg/telegram"
)

type fakeBotAPI struct {
	messages []telegram.SendMessageParams
	photos   []telegram.SendMediaParams
	docs     []telegram.SendMediaParams
	edits    []telegram.EditMessageTextParams
}

func (f *fakeBotAPI) SendMessage(_ context.Context, p telegram.SendMessageParams) (*telegram.Message, error) {
	f.messages = append(f.messages, p)
	return &telegram.Message{MessageID: 1}, nil
}

func (f *fakeBotAPI) SendPhoto(_ context.Context, p telegram.SendMediaParams) (*telegram.Message, error) {
	f.photos = append(f.photos, p)
	return &telegram.Message{MessageID: 2}, nil
}

func (f *fakeBotAPI) SendDocument(_ context.Context, p telegram.SendMediaParams) (*telegram.Message, error) {
	f.docs = append(f.docs, p)
	return &telegram.Message{MessageID: 3}, nil
}

func (f *fakeBotAPI) EditMessageText(_ context.Context, p telegram.EditMessageTextParams) error {
	f.edits = append(f.edits, p)
	return nil
}

func (f *fakeBotAPI) DeleteMessage(context.Context, int64, int64) error        { return nil }
func (f *fakeBotAPI) AnswerCallbackQuery(context.Context, string, string) error { return nil }

func TestTelegramMessengerInlineButtons(t *testing.T) {
	api := &fakeBotAPI{}
	m, err := NewTelegramMessenger(api)
	require.NoError(t, err)

	effect := chat.SendText(7, "Cart").WithButtons(
		chat.Row(chat.Button{Label: "Checkout", Payload: "checkout"}),
		chat.Row(),
		chat.Row(chat.Button{Label: "Clear", Payload: "clear"}, chat.Button{Label: "Back", Payload: "back"}),
	)
	require.NoError(t, m.SendText(context.Background(), effect))

	require.Len(t, api.messages, 1)
	markup, ok := api.messages[0].ReplyMarkup.(telegram.InlineKeyboardMarkup)
	require.True(t, ok, "expected inline keyboard, got %T", api.messages[0].ReplyMarkup)
	require.Len(t, markup.InlineKeyboard, 2)
	assert.Equal(t, "checkout", markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "Back", markup.InlineKeyboard[1][1].Text)
}

func TestTelegramMessengerMenus(t *testing.T) {
	api := &fakeBotAPI{}
	m, err := NewTelegramMessenger(api)
	require.NoError(t, err)

	menu := chat.Menu{Rows: [][]chat.MenuButton{{{Label: "Share phone", RequestContact: true}}}}
	require.NoError(t, m.SendText(context.Background(), chat.SendText(7, "phone?").WithMenu(menu)))
	require.NoError(t, m.SendText(context.Background(), chat.SendText(7, "done").WithoutMenu()))
	require.NoError(t, m.SendText(context.Background(), chat.SendText(7, "plain")))

	require.Len(t, api.messages, 3)
	kb, ok := api.messages[0].ReplyMarkup.(telegram.ReplyKeyboardMarkup)
	require.True(t, ok)
	assert.True(t, kb.Keyboard[0][0].RequestContact)
	assert.True(t, kb.ResizeKeyboard)

	remove, ok := api.messages[1].ReplyMarkup.(telegram.ReplyKeyboardRemove)
	require.True(t, ok)
	assert.True(t, remove.RemoveKeyboard)

	assert.Nil(t, api.messages[2].ReplyMarkup)
}

func TestTelegramMessengerMedia(t *testing.T) {
	api := &fakeBotAPI{}
	m, err := NewTelegramMessenger(api)
	require.NoError(t, err)

	effect := chat.SendMedia(7, chat.Media{Ref: "file-9", Kind: enums.MediaKindFile}, "Phone\nPrice: 1000000")
	require.NoError(t, m.SendDocument(context.Background(), effect))
	require.NoError(t, m.SendPhoto(context.Background(), effect))

	require.Len(t, api.docs, 1)
	require.Len(t, api.photos, 1)
	assert.Equal(t, "file-9", api.docs[0].File)
	assert.Equal(t, "Phone\nPrice: 1000000", api.photos[0].Caption)

	assert.Error(t, m.SendPhoto(context.Background(), chat.SendText(7, "no media")))
}

func TestTelegramMessengerEditRequiresMessageID(t *testing.T) {
	api := &fakeBotAPI{}
	m, err := NewTelegramMessenger(api)
	require.NoError(t, err)

	assert.Error(t, m.EditText(context.Background(), chat.EditMessage(7, 0, "x")))

	effect := chat.EditMessage(7, 55, "page 2").WithButtons(chat.Row(chat.Button{Label: "Prev", Payload: "page:0"}))
	require.NoError(t, m.EditText(context.Background(), effect))
	require.Len(t, api.edits, 1)
	require.NotNil(t, api.edits[0].ReplyMarkup)
	assert.Equal(t, int64(55), api.edits[0].MessageID)
}
