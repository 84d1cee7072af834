package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/chatshop-backend/pkg/telegram"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type recordingProcessor struct {
	updates []telegram.Update
	err     error
}

func (p *recordingProcessor) Process(_ context.Context, u telegram.Update) error {
	p.updates = append(p.updates, u)
	return p.err
}

func TestHealthLive(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthLive("test")(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "test", rec.Header().Get(envHeader))
	require.Contains(t, rec.Body.String(), `"live"`)
}

func TestHealthReadyReportsFailingDependency(t *testing.T) {
	deps := map[string]Pinger{
		"db":    stubPinger{},
		"redis": stubPinger{err: errors.New("connection refused")},
	}
	rec := httptest.NewRecorder()
	HealthReady("test", nil, deps)(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), `"redis"`)
}

func TestHealthReadySkipsNilDependencies(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthReady("test", nil, map[string]Pinger{"db": stubPinger{}, "redis": nil})(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"ready"`)
}

func TestTelegramWebhookProcessesUpdate(t *testing.T) {
	processor := &recordingProcessor{err: errors.New("handler failed")}
	body := `{"update_id":42,"message":{"message_id":1,"from":{"id":100,"first_name":"Ann"},"chat":{"id":100},"text":"hi","via_bot":null}}`
	rec := httptest.NewRecorder()

	TelegramWebhook(processor, nil)(rec, httptest.NewRequest(http.MethodPost, "/api/v1/telegram/webhook", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, processor.updates, 1)
	require.Equal(t, int64(42), processor.updates[0].UpdateID)
	require.Equal(t, "hi", processor.updates[0].Message.Text)
}

func TestTelegramWebhookRejectsInvalidBody(t *testing.T) {
	processor := &recordingProcessor{}
	for _, body := range []string{`not json`, `{"update_id":0}`} {
		rec := httptest.NewRecorder()
		TelegramWebhook(processor, nil)(rec, httptest.NewRequest(http.MethodPost, "/api/v1/telegram/webhook", strings.NewReader(body)))
		require.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	require.Empty(t, processor.updates)
}
