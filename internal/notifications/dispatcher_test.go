package notifications

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/chatshop-backend/internal/chat"
	"github.com/angelmondragon/chatshop-backend/pkg/enums"
	"github.com/angelmondragon/chatshop-backend/pkg/logger"
	"github.com/angelmondragon/chatshop-backend/pkg/metrics"
)

type recordingMessenger struct {
	calls []string
	fail  map[string]bool
	texts []string
}

func (m *recordingMessenger) record(shape string) error {
	m.calls = append(m.calls, shape)
	if m.fail[shape] {
		return errors.New(shape + " rejected")
	}
	return nil
}

func (m *recordingMessenger) SendText(_ context.Context, e chat.Effect) error {
	if err := m.record("text"); err != nil {
		return err
	}
	m.texts = append(m.texts, e.Text)
	return nil
}

func (m *recordingMessenger) SendPhoto(context.Context, chat.Effect) error    { return m.record("photo") }
func (m *recordingMessenger) SendDocument(context.Context, chat.Effect) error { return m.record("document") }
func (m *recordingMessenger) EditText(context.Context, chat.Effect) error     { return m.record("edit") }
func (m *recordingMessenger) Delete(context.Context, int64, int64) error      { return m.record("delete") }
func (m *recordingMessenger) AnswerCallback(context.Context, string, string) error {
	return m.record("callback")
}

func newTestDispatcher(t *testing.T, m *recordingMessenger) (*Dispatcher, *bytes.Buffer) {
	t.Helper()
	logs := &bytes.Buffer{}
	d, err := NewDispatcher(m, logger.New(logger.Options{ServiceName: "test", Output: logs}), metrics.NewShopMetrics(prometheus.NewRegistry()))
	require.NoError(t, err)
	return d, logs
}

func receipt() chat.Effect {
	return chat.SendMedia(10, chat.Media{Ref: "receipt-1", Kind: enums.MediaKindImage}, "Order #00000001")
}

func TestMediaPrefersStoredKind(t *testing.T) {
	m := &recordingMessenger{}
	d, _ := newTestDispatcher(t, m)

	require.NoError(t, d.Deliver(context.Background(), []chat.Effect{receipt()}))
	assert.Equal(t, []string{"photo"}, m.calls)

	m.calls = nil
	doc := chat.SendMedia(10, chat.Media{Ref: "doc", Kind: enums.MediaKindFile}, "caption")
	require.NoError(t, d.Deliver(context.Background(), []chat.Effect{doc}))
	assert.Equal(t, []string{"document"}, m.calls)
}

func TestMediaFallsBackImageFileText(t *testing.T) {
	m := &recordingMessenger{fail: map[string]bool{"photo": true, "document": true}}
	d, logs := newTestDispatcher(t, m)

	require.NoError(t, d.Deliver(context.Background(), []chat.Effect{receipt()}))
	assert.Equal(t, []string{"photo", "document", "text"}, m.calls)
	assert.Equal(t, []string{"Order #00000001"}, m.texts)
	assert.Contains(t, logs.String(), "media undeliverable, sent text only")
}

func TestFailuresNeverStopLaterEffects(t *testing.T) {
	m := &recordingMessenger{fail: map[string]bool{"photo": true, "document": true, "text": true}}
	d, logs := newTestDispatcher(t, m)

	err := d.Deliver(context.Background(), []chat.Effect{receipt(), chat.DeleteMessage(10, 5)})
	require.Error(t, err)
	assert.Equal(t, []string{"photo", "document", "text", "delete"}, m.calls)
	assert.Contains(t, logs.String(), "effect not delivered")
}

func TestEditFallsBackToSend(t *testing.T) {
	m := &recordingMessenger{fail: map[string]bool{"edit": true}}
	d, _ := newTestDispatcher(t, m)

	require.NoError(t, d.Deliver(context.Background(), []chat.Effect{chat.EditMessage(1, 2, "Cart cleared")}))
	assert.Equal(t, []string{"edit", "text"}, m.calls)
	assert.Equal(t, []string{"Cart cleared"}, m.texts)
}

func TestNoticeUsesCallbackWhenAvailable(t *testing.T) {
	m := &recordingMessenger{}
	d, _ := newTestDispatcher(t, m)

	require.NoError(t, d.Deliver(context.Background(), []chat.Effect{
		chat.Notice(1, "cb-1", "No orders"),
		chat.Notice(1, "", "No orders"),
	}))
	assert.Equal(t, []string{"callback", "text"}, m.calls)
}

func TestNewDispatcherRequiresDependencies(t *testing.T) {
	_, err := NewDispatcher(nil, logger.New(logger.Options{}), nil)
	assert.Error(t, err)
	_, err = NewDispatcher(&recordingMessenger{}, nil, nil)
	assert.Error(t, err)
}
