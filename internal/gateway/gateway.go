package gateway

import "context"

// IntentStatus is the engine-facing view of a processor payment-intent
// state. Anything the processor reports that does not map cleanly is
// carried as StatusUnknown with the raw value preserved for logging.
type IntentStatus string

const (
	StatusSucceeded  IntentStatus = "succeeded"
	StatusProcessing IntentStatus = "processing"
	StatusFailed     IntentStatus = "failed"
	StatusUnknown    IntentStatus = "unknown"
)

// CreateIntentParams describes a new charge. Amount is in minor currency
// units. Metadata binds the intent to a resource and user so a confirmed
// payment cannot be replayed against a different booking.
type CreateIntentParams struct {
	Amount      int64
	Currency    string
	Description string
	CustomerRef string
	Metadata    map[string]string
}

// IntentRef is what the client needs to complete the payment.
type IntentRef struct {
	ID           string
	ClientSecret string
}

// Intent is a retrieved payment intent as reported by the processor.
type Intent struct {
	ID        string
	Status    IntentStatus
	RawStatus string
	Amount    int64
	Currency  string
	Metadata  map[string]string
}

// PaymentGateway is the port to the external payment processor.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, params CreateIntentParams) (*IntentRef, error)
	RetrieveIntent(ctx context.Context, id string) (*Intent, error)
}
