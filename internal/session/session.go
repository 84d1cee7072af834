package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/angelmondragon/chatshop-backend/internal/cart"
)

// Session is the per-user conversation state. The cart outlives individual
// flows; the draft lives only while Step is not idle.
type Session struct {
	UserID    int64
	Step      Step
	Draft     Draft
	Cart      cart.Cart
	UpdatedAt time.Time
}

// New returns an idle session for userID.
func New(userID int64) *Session {
	return &Session{UserID: userID, Step: StepNone}
}

// Begin enters step with the given draft.
func (s *Session) Begin(step Step, draft Draft) {
	s.Step = step
	s.Draft = draft
}

// Advance moves to the next step of the current flow, keeping the draft.
func (s *Session) Advance(step Step) {
	s.Step = step
}

// Reset returns to idle and drops the draft. The cart is kept.
func (s *Session) Reset() {
	s.Step = StepNone
	s.Draft = nil
}

// ResetAll returns to idle and empties the cart too.
func (s *Session) ResetAll() {
	s.Reset()
	s.Cart.Clear()
}

// IsEmpty reports whether storing the session would hold no information.
func (s *Session) IsEmpty() bool {
	return s.Step.IsIdle() && s.Draft == nil && s.Cart.IsEmpty()
}

// Validate checks that the draft variant matches the step.
func (s *Session) Validate() error {
	if !s.Step.IsValid() && s.Step != "" {
		return fmt.Errorf("invalid session step %q", s.Step)
	}
	want := s.Step.DraftKind()
	switch {
	case want == "" && s.Draft != nil:
		return fmt.Errorf("idle session holds %s draft", s.Draft.Kind())
	case want != "" && s.Draft == nil:
		return fmt.Errorf("step %s requires %s draft", s.Step, want)
	case want != "" && s.Draft.Kind() != want:
		return fmt.Errorf("step %s requires %s draft, got %s", s.Step, want, s.Draft.Kind())
	}
	return nil
}

func (s *Session) ProductDraft() (*ProductDraft, bool) {
	d, ok := s.Draft.(*ProductDraft)
	return d, ok
}

func (s *Session) StockDraft() (*StockDraft, bool) {
	d, ok := s.Draft.(*StockDraft)
	return d, ok
}

func (s *Session) QuantityDraft() (*QuantityDraft, bool) {
	d, ok := s.Draft.(*QuantityDraft)
	return d, ok
}

func (s *Session) CheckoutDraft() (*CheckoutDraft, bool) {
	d, ok := s.Draft.(*CheckoutDraft)
	return d, ok
}

type sessionJSON struct {
	UserID    int64          `json:"user_id"`
	Step      Step           `json:"step"`
	Draft     *draftEnvelope `json:"draft,omitempty"`
	Cart      cart.Cart      `json:"cart"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// MarshalJSON encodes the draft as a {kind, data} envelope.
func (s Session) MarshalJSON() ([]byte, error) {
	env, err := encodeDraft(s.Draft)
	if err != nil {
		return nil, err
	}
	return json.Marshal(sessionJSON{
		UserID:    s.UserID,
		Step:      s.Step,
		Draft:     env,
		Cart:      s.Cart,
		UpdatedAt: s.UpdatedAt,
	})
}

func (s *Session) UnmarshalJSON(data []byte) error {
	var raw sessionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	draft, err := decodeDraft(raw.Draft)
	if err != nil {
		return err
	}
	step := raw.Step
	if step == "" {
		step = StepNone
	}
	*s = Session{
		UserID:    raw.UserID,
		Step:      step,
		Draft:     draft,
		Cart:      raw.Cart,
		UpdatedAt: raw.UpdatedAt,
	}
	return nil
}
