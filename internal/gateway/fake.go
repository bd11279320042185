package gateway

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// FakeGateway is an in-memory PaymentGateway for local development and
// tests. Intents start in processing; tests and the seeder move them to a
// terminal state with MarkSucceeded / MarkFailed.
type FakeGateway struct {
	mu      sync.Mutex
	intents map[string]*Intent
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{intents: make(map[string]*Intent)}
}

func (g *FakeGateway) CreateIntent(ctx context.Context, p CreateIntentParams) (*IntentRef, error) {
	id := "pi_fake_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:24]

	md := make(map[string]string, len(p.Metadata))
	for k, v := range p.Metadata {
		md[k] = v
	}

	g.mu.Lock()
	g.intents[id] = &Intent{
		ID:        id,
		Status:    StatusProcessing,
		RawStatus: "processing",
		Amount:    p.Amount,
		Currency:  p.Currency,
		Metadata:  md,
	}
	g.mu.Unlock()

	return &IntentRef{ID: id, ClientSecret: id + "_secret_" + uuid.NewString()[:8]}, nil
}

func (g *FakeGateway) RetrieveIntent(ctx context.Context, id string) (*Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	in, ok := g.intents[id]
	if !ok {
		return nil, fmt.Errorf("payment intent not found: %s", id)
	}
	cp := *in
	return &cp, nil
}

func (g *FakeGateway) MarkSucceeded(id string) {
	g.setStatus(id, StatusSucceeded, "succeeded")
}

func (g *FakeGateway) MarkFailed(id string) {
	g.setStatus(id, StatusFailed, "canceled")
}

// SetRawStatus forces an arbitrary processor status, for exercising the
// unknown-status path.
func (g *FakeGateway) SetRawStatus(id, raw string) {
	g.setStatus(id, StatusUnknown, raw)
}

func (g *FakeGateway) setStatus(id string, status IntentStatus, raw string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if in, ok := g.intents[id]; ok {
		in.Status = status
		in.RawStatus = raw
	}
}
