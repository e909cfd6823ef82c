package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"
)

type PaymentMethod string

const (
	MethodUPI        PaymentMethod = "upi"
	MethodCard       PaymentMethod = "card"
	MethodNetBanking PaymentMethod = "netbanking"
)

// PaymentMethods lists the accepted methods in display order.
var PaymentMethods = []PaymentMethod{MethodUPI, MethodCard, MethodNetBanking}

func (m PaymentMethod) valid() bool {
	for _, pm := range PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

// PaymentGateway charges the member and returns a transaction id.
type PaymentGateway interface {
	Charge(ctx context.Context, method PaymentMethod) (string, error)
}

const DefaultPaymentDelay = 2 * time.Second

// MockGateway approves every charge after a fixed delay. Cancelling ctx
// aborts the wait and nothing is charged.
type MockGateway struct {
	delay time.Duration
}

func NewMockGateway(delay time.Duration) *MockGateway {
	if delay < 0 {
		delay = DefaultPaymentDelay
	}
	return &MockGateway{delay: delay}
}

func (g *MockGateway) Charge(ctx context.Context, method PaymentMethod) (string, error) {
	timer := time.NewTimer(g.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
	}

	return fmt.Sprintf("TXN%05d", rand.IntN(100000)), nil
}
