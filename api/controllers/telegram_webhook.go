package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/chatshop-backend/api/responses"
	"github.com/angelmondragon/chatshop-backend/api/validators"
	"github.com/angelmondragon/chatshop-backend/pkg/logger"
	"github.com/angelmondragon/chatshop-backend/pkg/telegram"
)

// UpdateProcessor handles one decoded Bot API update.
type UpdateProcessor interface {
	Process(ctx context.Context, u telegram.Update) error
}

// TelegramWebhook accepts pushed updates. Once an update decodes it is
// acknowledged with 200 even if handling failed, so the Bot API does not
// redeliver it.
func TelegramWebhook(processor UpdateProcessor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update telegram.Update
		if err := validators.DecodeJSONBody(w, r, &update, validators.AllowUnknownFields()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// failures are logged inside Process
		_ = processor.Process(r.Context(), update)

		responses.WriteSuccess(w, map[string]bool{"ok": true})
	}
}
