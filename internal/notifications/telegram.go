package notifications

import (
	"context"
	"fmt"

	"github.com/angelmondragon/chatshop-backend/internal/chat"
	"github.com/angelmondragon/chatshop-backend/pkg/telegram"
)

// botAPI is the subset of the Bot API client the messenger needs.
type botAPI interface {
	SendMessage(ctx context.Context, params telegram.SendMessageParams) (*telegram.Message, error)
	SendPhoto(ctx context.Context, params telegram.SendMediaParams) (*telegram.Message, error)
	SendDocument(ctx context.Context, params telegram.SendMediaParams) (*telegram.Message, error)
	EditMessageText(ctx context.Context, params telegram.EditMessageTextParams) error
	DeleteMessage(ctx context.Context, chatID, messageID int64) error
	AnswerCallbackQuery(ctx context.Context, callbackID, text string) error
}

// TelegramMessenger renders effects as Bot API calls.
type TelegramMessenger struct {
	api botAPI
}

var _ Messenger = (*TelegramMessenger)(nil)

func NewTelegramMessenger(api botAPI) (*TelegramMessenger, error) {
	if api == nil {
		return nil, fmt.Errorf("telegram api client required")
	}
	return &TelegramMessenger{api: api}, nil
}

func (m *TelegramMessenger) SendText(ctx context.Context, effect chat.Effect) error {
	_, err := m.api.SendMessage(ctx, telegram.SendMessageParams{
		ChatID:      effect.ChatID,
		Text:        effect.Text,
		ReplyMarkup: replyMarkup(effect),
	})
	return err
}

func (m *TelegramMessenger) SendPhoto(ctx context.Context, effect chat.Effect) error {
	params, err := mediaParams(effect)
	if err != nil {
		return err
	}
	_, err = m.api.SendPhoto(ctx, params)
	return err
}

func (m *TelegramMessenger) SendDocument(ctx context.Context, effect chat.Effect) error {
	params, err := mediaParams(effect)
	if err != nil {
		return err
	}
	_, err = m.api.SendDocument(ctx, params)
	return err
}

func (m *TelegramMessenger) EditText(ctx context.Context, effect chat.Effect) error {
	if effect.MessageID == 0 {
		return fmt.Errorf("edit requires a message id")
	}
	return m.api.EditMessageText(ctx, telegram.EditMessageTextParams{
		ChatID:      effect.ChatID,
		MessageID:   effect.MessageID,
		Text:        effect.Text,
		ReplyMarkup: inlineKeyboard(effect.Buttons),
	})
}

func (m *TelegramMessenger) Delete(ctx context.Context, chatID, messageID int64) error {
	return m.api.DeleteMessage(ctx, chatID, messageID)
}

func (m *TelegramMessenger) AnswerCallback(ctx context.Context, callbackID, text string) error {
	return m.api.AnswerCallbackQuery(ctx, callbackID, text)
}

func mediaParams(effect chat.Effect) (telegram.SendMediaParams, error) {
	if effect.Media == nil || effect.Media.Ref == "" {
		return telegram.SendMediaParams{}, fmt.Errorf("media reference missing")
	}
	return telegram.SendMediaParams{
		ChatID:      effect.ChatID,
		File:        effect.Media.Ref,
		Caption:     effect.Text,
		ReplyMarkup: replyMarkup(effect),
	}, nil
}

// replyMarkup picks one markup per message; inline buttons win over menus.
func replyMarkup(effect chat.Effect) telegram.ReplyMarkup {
	if kb := inlineKeyboard(effect.Buttons); kb != nil {
		return *kb
	}
	if effect.Menu != nil && len(effect.Menu.Rows) > 0 {
		rows := make([][]telegram.KeyboardButton, 0, len(effect.Menu.Rows))
		for _, row := range effect.Menu.Rows {
			buttons := make([]telegram.KeyboardButton, 0, len(row))
			for _, b := range row {
				buttons = append(buttons, telegram.KeyboardButton{
					Text:            b.Label,
					RequestContact:  b.RequestContact,
					RequestLocation: b.RequestLocation,
				})
			}
			rows = append(rows, buttons)
		}
		return telegram.ReplyKeyboardMarkup{Keyboard: rows, ResizeKeyboard: true}
	}
	if effect.RemoveMenu {
		return telegram.ReplyKeyboardRemove{RemoveKeyboard: true}
	}
	return nil
}

func inlineKeyboard(rows [][]chat.Button) *telegram.InlineKeyboardMarkup {
	if len(rows) == 0 {
		return nil
	}
	keyboard := make([][]telegram.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		buttons := make([]telegram.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, telegram.InlineKeyboardButton{Text: b.Label, CallbackData: b.Payload})
		}
		keyboard = append(keyboard, buttons)
	}
	if len(keyboard) == 0 {
		return nil
	}
	return &telegram.InlineKeyboardMarkup{InlineKeyboard: keyboard}
}
