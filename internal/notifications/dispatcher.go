package notifications

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/angelmondragon/chatshop-backend/internal/chat"
	"github.com/angelmondragon/chatshop-backend/pkg/enums"
	"github.com/angelmondragon/chatshop-backend/pkg/logger"
	"github.com/angelmondragon/chatshop-backend/pkg/metrics"
)

// Messenger performs single outbound operations on the chat surface.
type Messenger interface {
	SendText(ctx context.Context, effect chat.Effect) error
	SendPhoto(ctx context.Context, effect chat.Effect) error
	SendDocument(ctx context.Context, effect chat.Effect) error
	EditText(ctx context.Context, effect chat.Effect) error
	Delete(ctx context.Context, chatID, messageID int64) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// Delivery shapes, used as metric labels.
const (
	ShapeText     = "text"
	ShapeImage    = "image"
	ShapeFile     = "file"
	ShapeEdit     = "edit"
	ShapeDelete   = "delete"
	ShapeCallback = "callback"
)

// Dispatcher delivers effects best-effort. A failed delivery falls back
// through alternative shapes and is logged; it never fails the caller's
// state change.
type Dispatcher struct {
	messenger Messenger
	logg      *logger.Logger
	metrics   *metrics.ShopMetrics
}

func NewDispatcher(messenger Messenger, logg *logger.Logger, m *metrics.ShopMetrics) (*Dispatcher, error) {
	if messenger == nil {
		return nil, fmt.Errorf("messenger required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Dispatcher{messenger: messenger, logg: logg, metrics: m}, nil
}

// Deliver sends every effect in order. The returned error lists the effects
// that could not be delivered in any shape; it is informational only.
func (d *Dispatcher) Deliver(ctx context.Context, effects []chat.Effect) error {
	var undelivered error
	for _, effect := range effects {
		if err := d.deliver(ctx, effect); err != nil {
			logCtx := d.logg.WithFields(ctx, map[string]any{
				"effect":  string(effect.Kind),
				"chat_id": effect.ChatID,
			})
			d.logg.WarnErr(logCtx, "effect not delivered", err)
			undelivered = multierr.Append(undelivered, err)
		}
	}
	return undelivered
}

func (d *Dispatcher) deliver(ctx context.Context, effect chat.Effect) error {
	switch effect.Kind {
	case chat.EffectSendText:
		return d.attempt(ShapeText, func() error { return d.messenger.SendText(ctx, effect) })
	case chat.EffectSendMedia:
		return d.deliverMedia(ctx, effect)
	case chat.EffectEditMessage:
		err := d.attempt(ShapeEdit, func() error { return d.messenger.EditText(ctx, effect) })
		if err == nil {
			return nil
		}
		// media messages and stale messages cannot be edited; send a fresh one
		fallback := effect
		fallback.Kind = chat.EffectSendText
		if sendErr := d.attempt(ShapeText, func() error { return d.messenger.SendText(ctx, fallback) }); sendErr != nil {
			return multierr.Append(err, sendErr)
		}
		return nil
	case chat.EffectDeleteMessage:
		return d.attempt(ShapeDelete, func() error { return d.messenger.Delete(ctx, effect.ChatID, effect.MessageID) })
	case chat.EffectNotice:
		if effect.CallbackID != "" {
			return d.attempt(ShapeCallback, func() error {
				return d.messenger.AnswerCallback(ctx, effect.CallbackID, effect.Text)
			})
		}
		return d.attempt(ShapeText, func() error { return d.messenger.SendText(ctx, chat.SendText(effect.ChatID, effect.Text)) })
	default:
		return fmt.Errorf("unknown effect kind %q", effect.Kind)
	}
}

// deliverMedia tries the stored media kind, then the other kind, then the
// caption as plain text.
func (d *Dispatcher) deliverMedia(ctx context.Context, effect chat.Effect) error {
	if effect.Media == nil {
		return d.attempt(ShapeText, func() error { return d.messenger.SendText(ctx, effect) })
	}

	primary := effect.Media.Kind
	if !primary.IsValid() {
		primary = enums.MediaKindImage
	}
	var errs error
	for _, kind := range []enums.MediaKind{primary, primary.Alternate()} {
		err := d.attempt(string(kind), func() error { return d.sendAs(ctx, kind, effect) })
		if err == nil {
			return nil
		}
		errs = multierr.Append(errs, err)
	}

	if effect.Text == "" {
		return errs
	}
	textOnly := effect
	textOnly.Kind = chat.EffectSendText
	textOnly.Media = nil
	if err := d.attempt(ShapeText, func() error { return d.messenger.SendText(ctx, textOnly) }); err != nil {
		return multierr.Append(errs, err)
	}
	d.logg.WarnErr(d.logg.WithField(ctx, "chat_id", effect.ChatID), "media undeliverable, sent text only", errs)
	return nil
}

func (d *Dispatcher) sendAs(ctx context.Context, kind enums.MediaKind, effect chat.Effect) error {
	if kind == enums.MediaKindFile {
		return d.messenger.SendDocument(ctx, effect)
	}
	return d.messenger.SendPhoto(ctx, effect)
}

func (d *Dispatcher) attempt(shape string, fn func() error) error {
	if err := fn(); err != nil {
		d.metrics.IncDeliveryFailure(shape)
		return fmt.Errorf("%s delivery: %w", shape, err)
	}
	return nil
}
