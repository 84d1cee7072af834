package updates

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/chatshop-backend/internal/chat"
	"github.com/angelmondragon/chatshop-backend/pkg/logger"
	"github.com/angelmondragon/chatshop-backend/pkg/metrics"
	"github.com/angelmondragon/chatshop-backend/pkg/telegram"
)

type stubHandler struct {
	events  []chat.Event
	effects []chat.Effect
	err     error
}

func (h *stubHandler) Handle(_ context.Context, ev chat.Event) ([]chat.Effect, error) {
	h.events = append(h.events, ev)
	return h.effects, h.err
}

type stubDeliverer struct {
	batches [][]chat.Effect
}

func (d *stubDeliverer) Deliver(_ context.Context, effects []chat.Effect) error {
	d.batches = append(d.batches, effects)
	return nil
}

type memoryClaimer struct {
	seen map[int64]bool
	err  error
}

func (c *memoryClaimer) Claim(_ context.Context, _ string, id int64, _ time.Duration) (bool, error) {
	if c.err != nil {
		return false, c.err
	}
	if c.seen[id] {
		return false, nil
	}
	c.seen[id] = true
	return true, nil
}

func newTestProcessor(t *testing.T, h Handler, d Deliverer, c Claimer) (*Processor, *bytes.Buffer) {
	t.Helper()
	logs := &bytes.Buffer{}
	p, err := NewProcessor(ProcessorParams{
		Handler:   h,
		Deliverer: d,
		Claimer:   c,
		Logger:    logger.New(logger.Options{ServiceName: "test", Output: logs}),
		Metrics:   metrics.NewShopMetrics(prometheus.NewRegistry()),
	})
	require.NoError(t, err)
	return p, logs
}

func textUpdate(id int64, text string) telegram.Update {
	return telegram.Update{UpdateID: id, Message: message(text)}
}

func TestProcessDeliversEffects(t *testing.T) {
	h := &stubHandler{effects: []chat.Effect{chat.SendText(42, "hello")}}
	d := &stubDeliverer{}
	p, _ := newTestProcessor(t, h, d, nil)

	require.NoError(t, p.Process(context.Background(), textUpdate(1, "hi")))
	require.Len(t, h.events, 1)
	require.Len(t, d.batches, 1)
	assert.Equal(t, "hello", d.batches[0][0].Text)
}

func TestProcessSkipsDuplicates(t *testing.T) {
	h := &stubHandler{}
	p, _ := newTestProcessor(t, h, &stubDeliverer{}, &memoryClaimer{seen: map[int64]bool{}})

	require.NoError(t, p.Process(context.Background(), textUpdate(5, "a")))
	require.NoError(t, p.Process(context.Background(), textUpdate(5, "a")))
	assert.Len(t, h.events, 1)
}

func TestProcessProceedsWhenClaimStoreFails(t *testing.T) {
	h := &stubHandler{}
	p, logs := newTestProcessor(t, h, &stubDeliverer{}, &memoryClaimer{err: errors.New("redis down")})

	require.NoError(t, p.Process(context.Background(), textUpdate(5, "a")))
	assert.Len(t, h.events, 1)
	assert.Contains(t, logs.String(), "update dedup unavailable")
}

func TestProcessAnswersCallbacks(t *testing.T) {
	d := &stubDeliverer{}
	p, _ := newTestProcessor(t, &stubHandler{}, d, nil)

	u := telegram.Update{UpdateID: 3, CallbackQuery: &telegram.CallbackQuery{
		ID:   "cb-9",
		From: telegram.User{ID: 42},
		Data: "unknown",
	}}
	require.NoError(t, p.Process(context.Background(), u))
	require.Len(t, d.batches, 1)
	require.Len(t, d.batches[0], 1)
	assert.Equal(t, chat.EffectNotice, d.batches[0][0].Kind)
	assert.Equal(t, "cb-9", d.batches[0][0].CallbackID)
}

func TestProcessKeepsEngineNotice(t *testing.T) {
	d := &stubDeliverer{}
	h := &stubHandler{effects: []chat.Effect{chat.Notice(42, "cb-9", "Deleted")}}
	p, _ := newTestProcessor(t, h, d, nil)

	u := telegram.Update{UpdateID: 3, CallbackQuery: &telegram.CallbackQuery{ID: "cb-9", From: telegram.User{ID: 42}, Data: "x"}}
	require.NoError(t, p.Process(context.Background(), u))
	require.Len(t, d.batches[0], 1)
	assert.Equal(t, "Deleted", d.batches[0][0].Text)
}

func TestProcessDeliversEffectsOnHandlerError(t *testing.T) {
	d := &stubDeliverer{}
	h := &stubHandler{effects: []chat.Effect{chat.SendText(42, "try again")}, err: errors.New("db down")}
	p, logs := newTestProcessor(t, h, d, nil)

	err := p.Process(context.Background(), textUpdate(1, "hi"))
	require.Error(t, err)
	require.Len(t, d.batches, 1)
	assert.Contains(t, logs.String(), "event handling failed")
}
