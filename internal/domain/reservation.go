package domain

import "time"

type ReservationStatus string

const (
	// ReservationConfirmed is the only reservation state: a row exists iff
	// the payment for it succeeded.
	ReservationConfirmed ReservationStatus = "confirmed"
)

// Reservation is a confirmed claim on one seat of a class instance. The
// unique (user_id, class_instance_id) index doubles as the idempotency key
// for confirmation retries.
type Reservation struct {
	ID              int64             `json:"id" gorm:"primaryKey"`
	UserID          int64             `json:"user_id" gorm:"uniqueIndex:idx_one_seat_per_user;not null"`
	ClassInstanceID int64             `json:"class_instance_id" gorm:"uniqueIndex:idx_one_seat_per_user;not null"`
	Status          ReservationStatus `json:"status" gorm:"default:confirmed"`
	Notes           string            `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`

	User          *User          `json:"user,omitempty" gorm:"foreignKey:UserID"`
	ClassInstance *ClassInstance `json:"class_instance,omitempty" gorm:"foreignKey:ClassInstanceID"`
}

type RetreatPaymentStatus string

const (
	RetreatPaymentPending     RetreatPaymentStatus = "pending"
	RetreatPaymentDepositPaid RetreatPaymentStatus = "deposit_paid"
	RetreatPaymentPaidInFull  RetreatPaymentStatus = "paid_in_full"
	RetreatPaymentCancelled   RetreatPaymentStatus = "cancelled"
	RetreatPaymentRefunded    RetreatPaymentStatus = "refunded"
)

// CountsAgainstCapacity reports whether a booking in this state occupies a
// retreat spot.
func (s RetreatPaymentStatus) CountsAgainstCapacity() bool {
	return s == RetreatPaymentDepositPaid || s == RetreatPaymentPaidInFull
}

// RetreatBooking tracks the two-stage deposit/balance payment lifecycle for
// a retreat spot. Created pending when the deposit intent is issued; a spot
// is only held once the deposit is confirmed.
type RetreatBooking struct {
	ID             int64                `json:"id" gorm:"primaryKey"`
	UserID         int64                `json:"user_id" gorm:"uniqueIndex:idx_one_spot_per_user;not null"`
	RetreatID      int64                `json:"retreat_id" gorm:"uniqueIndex:idx_one_spot_per_user;not null"`
	TotalPrice     int64                `json:"total_price"`
	AmountPaid     int64                `json:"amount_paid"`
	PaymentStatus  RetreatPaymentStatus `json:"payment_status" gorm:"default:pending"`
	BalanceDueDate time.Time            `json:"balance_due_date"`
	DepositPaidAt  *time.Time           `json:"deposit_paid_at,omitempty"`
	FinalPaidAt    *time.Time           `json:"final_paid_at,omitempty"`
	Notes          string               `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`

	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Retreat *Retreat `json:"retreat,omitempty" gorm:"foreignKey:RetreatID"`
}
