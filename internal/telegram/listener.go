package telegram

import (
	"context"
	"fmt"
)

// Poller is the part of Client a Listener needs.
type Poller interface {
	GetUpdates(ctx context.Context, opts GetUpdatesOptions) ([]Update, error)
}

var _ Poller = (*Client)(nil)

// UpdateHandler processes one update. Returning an error stops the Listener.
type UpdateHandler func(ctx context.Context, u Update) error

// ListenerConfig holds configuration for a Listener.
type ListenerConfig struct {
	Poller  Poller
	Handler UpdateHandler
	Limit   int
	Timeout int

	// AllowedChats restricts delivery to these chat ids. Empty allows all.
	// Filtered updates still advance the offset.
	AllowedChats []int64
}

// Listener runs the long-polling loop.
type Listener struct {
	config ListenerConfig
}

// NewListener validates cfg and creates a Listener.
func NewListener(cfg ListenerConfig) (*Listener, error) {
	if cfg.Poller == nil {
		return nil, fmt.Errorf("listener: poller is required")
	}
	if cfg.Handler == nil {
		return nil, fmt.Errorf("listener: handler is required")
	}
	if cfg.Limit < 0 {
		return nil, &ArgumentError{Name: "limit", Value: cfg.Limit}
	}
	if cfg.Timeout < 0 {
		return nil, &ArgumentError{Name: "timeout", Value: cfg.Timeout}
	}
	return &Listener{config: cfg}, nil
}

// Run polls until ctx is cancelled, which returns nil. Any poll or handler
// error is returned as is; there is no retry.
func (l *Listener) Run(ctx context.Context) error {
	opts := GetUpdatesOptions{Limit: l.config.Limit, Timeout: l.config.Timeout}

	for {
		if ctx.Err() != nil {
			return nil
		}

		updates, err := l.config.Poller.GetUpdates(ctx, opts)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		for _, update := range updates {
			if !l.isAllowed(update) {
				continue
			}
			if err := l.config.Handler(ctx, update); err != nil {
				return fmt.Errorf("handle update %d: %w", update.UpdateID, err)
			}
		}
	}
}

func (l *Listener) isAllowed(u Update) bool {
	if len(l.config.AllowedChats) == 0 {
		return true
	}
	msg := u.EffectiveMessage()
	if msg == nil {
		return false
	}
	for _, id := range l.config.AllowedChats {
		if id == msg.Chat.ID {
			return true
		}
	}
	return false
}
