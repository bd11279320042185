package domain

import "time"

type PaymentRecordStatus string

const (
	PaymentRecordPending   PaymentRecordStatus = "pending"
	PaymentRecordSucceeded PaymentRecordStatus = "succeeded"
	PaymentRecordFailed    PaymentRecordStatus = "failed"
)

type ResourceKind string

const (
	ResourceClass   ResourceKind = "class"
	ResourceRetreat ResourceKind = "retreat"
)

// PaymentRecord mirrors one external payment intent. Created pending when
// the intent is issued and transitioned exactly once, by the confirmation
// path, to succeeded or failed. Rows are never deleted.
type PaymentRecord struct {
	ID              int64               `json:"id" gorm:"primaryKey"`
	PaymentIntentID string              `json:"payment_intent_id" gorm:"column:payment_intent_id;uniqueIndex;not null"`
	Amount          int64               `json:"amount" gorm:"not null"` // minor currency units
	Currency        string              `json:"currency" gorm:"size:3"`
	Status          PaymentRecordStatus `json:"status" gorm:"default:pending"`
	UserID          int64               `json:"user_id" gorm:"index;not null"`
	ResourceKind    ResourceKind        `json:"resource_kind" gorm:"not null"`
	ResourceID      int64               `json:"resource_id" gorm:"not null"`
	FailureReason   string              `json:"failure_reason,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}
