package updates

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/chatshop-backend/internal/chat"
	"github.com/angelmondragon/chatshop-backend/pkg/logger"
	"github.com/angelmondragon/chatshop-backend/pkg/metrics"
	"github.com/angelmondragon/chatshop-backend/pkg/telegram"
)

const (
	dedupScope      = "tg_update"
	defaultDedupTTL = 24 * time.Hour
)

// Handler applies one event to conversation state.
type Handler interface {
	Handle(ctx context.Context, ev chat.Event) ([]chat.Effect, error)
}

// Deliverer sends effects best-effort.
type Deliverer interface {
	Deliver(ctx context.Context, effects []chat.Effect) error
}

// Claimer records an update id and reports whether it was seen first here.
type Claimer interface {
	Claim(ctx context.Context, scope string, id int64, ttl time.Duration) (bool, error)
}

type ProcessorParams struct {
	Handler   Handler
	Deliverer Deliverer
	// Claimer is optional; without it updates are not de-duplicated.
	Claimer  Claimer
	DedupTTL time.Duration
	Logger   *logger.Logger
	Metrics  *metrics.ShopMetrics
}

// Processor turns one Bot API update into delivered effects.
type Processor struct {
	handler   Handler
	deliverer Deliverer
	claimer   Claimer
	dedupTTL  time.Duration
	logg      *logger.Logger
	metrics   *metrics.ShopMetrics
}

func NewProcessor(params ProcessorParams) (*Processor, error) {
	if params.Handler == nil {
		return nil, fmt.Errorf("event handler required")
	}
	if params.Deliverer == nil {
		return nil, fmt.Errorf("effect deliverer required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	ttl := params.DedupTTL
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &Processor{
		handler:   params.Handler,
		deliverer: params.Deliverer,
		claimer:   params.Claimer,
		dedupTTL:  ttl,
		logg:      params.Logger,
		metrics:   params.Metrics,
	}, nil
}

// Process handles a single update. Handler failures are logged and the
// effects produced so far are still delivered; the returned error is for
// the caller's logs only.
func (p *Processor) Process(ctx context.Context, u telegram.Update) error {
	ctx = p.logg.WithField(ctx, "update_id", u.UpdateID)
	if !p.claim(ctx, u.UpdateID) {
		p.logg.Debug(ctx, "duplicate update skipped")
		return nil
	}

	ev, ok := ToEvent(u)
	if !ok {
		p.logg.Debug(ctx, "update ignored")
		return nil
	}
	ctx = p.logg.WithUserID(ctx, ev.UserID)
	ctx = p.logg.WithChatID(ctx, ev.ChatID)
	ctx = p.logg.WithField(ctx, "event_kind", ev.Kind.String())

	start := time.Now()
	effects, err := p.handler.Handle(ctx, ev)
	p.metrics.ObserveEvent(ev.Kind.String(), time.Since(start))
	if err != nil {
		p.logg.Error(ctx, "event handling failed", err)
	}

	effects = answerCallback(ev, effects)
	if len(effects) > 0 {
		// failures were already logged per effect
		_ = p.deliverer.Deliver(ctx, effects)
	}
	return err
}

// claim reports whether the update should be processed. A failing claim
// store lets the update through.
func (p *Processor) claim(ctx context.Context, updateID int64) bool {
	if p.claimer == nil || updateID <= 0 {
		return true
	}
	first, err := p.claimer.Claim(ctx, dedupScope, updateID, p.dedupTTL)
	if err != nil {
		p.logg.WarnErr(ctx, "update dedup unavailable", err)
		return true
	}
	return first
}

// answerCallback makes sure every button press is answered once, so the
// client stops its loading indicator.
func answerCallback(ev chat.Event, effects []chat.Effect) []chat.Effect {
	if ev.CallbackID == "" {
		return effects
	}
	for _, e := range effects {
		if e.Kind == chat.EffectNotice && e.CallbackID == ev.CallbackID {
			return effects
		}
	}
	return append([]chat.Effect{chat.Notice(ev.ChatID, ev.CallbackID, "")}, effects...)
}
