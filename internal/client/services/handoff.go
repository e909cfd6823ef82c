package services

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/gymkeeper/internal/client/models"
)

// Confirmation is what the confirmation view shows after a purchase.
type Confirmation struct {
	Plan      models.Plan
	Branch    models.Branch
	PaymentID string
	Start     time.Time
	End       time.Time
}

// Handoff passes a Confirmation from enrollment to the confirmation view.
// The payload can be taken exactly once.
type Handoff struct {
	mu      sync.Mutex
	payload *Confirmation
}

func NewHandoff() *Handoff {
	return &Handoff{}
}

// Put replaces any payload not yet taken.
func (h *Handoff) Put(c Confirmation) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.payload = &c
}

func (h *Handoff) Take() (*Confirmation, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c := h.payload
	h.payload = nil
	return c, c != nil
}

// Resolve takes the payload and tells the view what to do: render it, or go
// to the dashboard when there is nothing to show.
func (h *Handoff) Resolve() (*Confirmation, Decision) {
	c, ok := h.Take()
	if !ok {
		return nil, RedirectToDashboard
	}
	return c, RenderConfirmation
}
