// Package notify queues short-lived toast messages for a presentation layer.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind selects the toast style
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// DefaultMaxToasts bounds the queue; the oldest toast is dropped first
const DefaultMaxToasts = 20

// Toast is one visual message
type Toast struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Presenter holds the toasts of one session. It is safe for concurrent use
// because background timers and event workers push into it.
type Presenter struct {
	mu     sync.Mutex
	toasts []Toast
	ttl    time.Duration
	max    int
	now    func() time.Time
}

// NewPresenter creates a presenter whose toasts live for ttl
func NewPresenter(ttl time.Duration) *Presenter {
	return &Presenter{ttl: ttl, max: DefaultMaxToasts, now: time.Now}
}

// Push queues a toast with the default lifetime
func (p *Presenter) Push(kind Kind, message string) Toast {
	return p.PushFor(kind, message, p.ttl)
}

// PushFor queues a toast that expires after d
func (p *Presenter) PushFor(kind Kind, message string, d time.Duration) Toast {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	toast := Toast{
		ID:        uuid.New().String(),
		Kind:      kind,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(d),
	}
	p.toasts = append(p.toasts, toast)
	if len(p.toasts) > p.max {
		p.toasts = append([]Toast(nil), p.toasts[len(p.toasts)-p.max:]...)
	}
	return toast
}

// Active prunes expired toasts and returns the rest, oldest first
func (p *Presenter) Active() []Toast {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	kept := p.toasts[:0]
	for _, t := range p.toasts {
		if now.Before(t.ExpiresAt) {
			kept = append(kept, t)
		}
	}
	p.toasts = kept
	return append([]Toast(nil), kept...)
}
