package middleware

import (
	"net/http"

	"github.com/angelmondragon/chatshop-backend/api/responses"
	"github.com/angelmondragon/chatshop-backend/api/validators"
	pkgerrors "github.com/angelmondragon/chatshop-backend/pkg/errors"
	"github.com/angelmondragon/chatshop-backend/pkg/logger"
)

// TelegramSecretHeader carries the secret_token registered with setWebhook.
const TelegramSecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// TelegramSecret rejects webhook calls whose secret header does not match.
// An empty secret matches nothing, so every call is rejected.
func TelegramSecret(secret string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := validators.MatchSecretToken(r.Header.Get(TelegramSecretHeader), secret); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid webhook secret"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
