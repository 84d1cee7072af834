package updates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/chatshop-backend/pkg/logger"
	"github.com/angelmondragon/chatshop-backend/pkg/telegram"
)

const (
	defaultPollTimeout = 30 * time.Second
	defaultErrorPause  = 3 * time.Second
)

// Source is the long-polling side of the Bot API.
type Source interface {
	DeleteWebhook(ctx context.Context, dropPending bool) error
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]telegram.Update, error)
}

// UpdateProcessor handles one update.
type UpdateProcessor interface {
	Process(ctx context.Context, u telegram.Update) error
}

type PollerParams struct {
	Source      Source
	Processor   UpdateProcessor
	Logger      *logger.Logger
	PollTimeout time.Duration
	ErrorPause  time.Duration
}

// Poller pulls updates with getUpdates and processes them in order.
type Poller struct {
	source      Source
	processor   UpdateProcessor
	logg        *logger.Logger
	pollTimeout time.Duration
	errorPause  time.Duration
	offset      int64
}

func NewPoller(params PollerParams) (*Poller, error) {
	if params.Source == nil {
		return nil, fmt.Errorf("update source required")
	}
	if params.Processor == nil {
		return nil, fmt.Errorf("update processor required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	timeout := params.PollTimeout
	if timeout <= 0 {
		timeout = defaultPollTimeout
	}
	pause := params.ErrorPause
	if pause <= 0 {
		pause = defaultErrorPause
	}
	return &Poller{
		source:      params.Source,
		processor:   params.Processor,
		logg:        params.Logger,
		pollTimeout: timeout,
		errorPause:  pause,
	}, nil
}

// Run drops any webhook together with updates queued while the bot was
// down, then polls until ctx is canceled.
func (p *Poller) Run(ctx context.Context) error {
	if err := p.source.DeleteWebhook(ctx, true); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	p.logg.Info(ctx, "polling for updates")

	for {
		if ctx.Err() != nil {
			p.logg.Info(ctx, "poller context canceled")
			return ctx.Err()
		}
		if err := p.poll(ctx); err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				continue
			}
			p.logg.Error(ctx, "getUpdates failed", err)
			select {
			case <-ctx.Done():
			case <-time.After(p.errorPause):
			}
		}
	}
}

// poll fetches one batch. The offset advances past every update, including
// ones whose handling failed, so a poisonous update is never redelivered.
func (p *Poller) poll(ctx context.Context) error {
	batch, err := p.source.GetUpdates(ctx, p.offset, p.pollTimeout)
	if err != nil {
		return err
	}
	for _, u := range batch {
		if u.UpdateID >= p.offset {
			p.offset = u.UpdateID + 1
		}
		_ = p.processor.Process(ctx, u)
	}
	return nil
}
