package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"socialsync/internal/model"
	"socialsync/internal/observe"
)

// Action is a staged destructive operation.
type Action func(ctx context.Context) error

// Pending describes the staged action for the confirmation dialog.
type Pending struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Danger  bool   `json:"danger"`
}

// ConfirmQueue is a single slot for a destructive action awaiting the user's
// decision. Staging replaces whatever was staged before.
type ConfirmQueue struct {
	log zerolog.Logger

	mu      sync.Mutex
	pending *Pending
	action  Action

	observers observe.Set[*Pending]
}

func NewConfirmQueue(log zerolog.Logger) *ConfirmQueue {
	return &ConfirmQueue{
		log: log.With().Str("component", "ConfirmQueue").Logger(),
	}
}

// Stage records action and its dialog text, discarding any earlier staged
// action without running it.
func (q *ConfirmQueue) Stage(title, message string, danger bool, action Action) Pending {
	p := Pending{
		ID:      uuid.NewString(),
		Title:   title,
		Message: message,
		Danger:  danger,
	}

	q.mu.Lock()
	if q.pending != nil {
		q.log.Debug().Str("replaced", q.pending.ID).Str("id", p.ID).Msg("Stage replaced pending action")
	}
	q.pending = &p
	q.action = action
	version := q.observers.Stamp()
	q.mu.Unlock()

	staged := p
	q.observers.Publish(version, &staged)
	return p
}

// Pending returns the staged entry, if any.
func (q *ConfirmQueue) Pending() (Pending, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pending == nil {
		return Pending{}, false
	}
	return *q.pending, true
}

// Confirm clears the slot and runs the staged action once, returning its
// error. It returns model.ErrNothingStaged when the slot is empty.
func (q *ConfirmQueue) Confirm(ctx context.Context) error {
	return q.confirm(ctx, "")
}

// ConfirmID confirms only if id is still the staged entry, so a dialog
// answered after being replaced cannot run the newer action.
func (q *ConfirmQueue) ConfirmID(ctx context.Context, id string) error {
	if id == "" {
		return model.ErrNothingStaged
	}
	return q.confirm(ctx, id)
}

func (q *ConfirmQueue) confirm(ctx context.Context, id string) error {
	q.mu.Lock()
	if q.pending == nil || (id != "" && q.pending.ID != id) {
		q.mu.Unlock()
		return model.ErrNothingStaged
	}
	action := q.action
	pending := *q.pending
	q.action = nil
	q.pending = nil
	version := q.observers.Stamp()
	q.mu.Unlock()

	q.observers.Publish(version, nil)
	q.log.Debug().Str("id", pending.ID).Str("title", pending.Title).Msg("Confirm")
	if action == nil {
		return nil
	}
	return action(ctx)
}

// Cancel discards the staged action. It reports whether one was staged.
func (q *ConfirmQueue) Cancel() bool {
	q.mu.Lock()
	had := q.pending != nil
	q.pending = nil
	q.action = nil
	version := q.observers.Stamp()
	q.mu.Unlock()

	if had {
		q.observers.Publish(version, nil)
	}
	return had
}

// Subscribe registers fn for slot changes; nil means the slot is empty.
func (q *ConfirmQueue) Subscribe(fn func(*Pending)) func() {
	return q.observers.Add(fn)
}

func (q *ConfirmQueue) Close() {
	q.Cancel()
	q.observers.Clear()
}
