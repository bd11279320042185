package domain

import "time"

type RetreatStatus string

const (
	RetreatOpen      RetreatStatus = "open"
	RetreatClosed    RetreatStatus = "closed"
	RetreatCancelled RetreatStatus = "cancelled"
)

// BalanceDueOffset is how long before the retreat starts the remaining
// balance must be settled.
const BalanceDueOffset = 30 * 24 * time.Hour

type Retreat struct {
	ID           int64         `json:"id" gorm:"primaryKey"`
	Title        string        `json:"title" gorm:"not null"`
	Location     string        `json:"location"`
	Capacity     int           `json:"capacity" gorm:"not null"`
	TotalPrice   int64         `json:"total_price" gorm:"not null"`   // minor currency units
	DepositPrice int64         `json:"deposit_price" gorm:"not null"` // minor currency units
	Currency     string        `json:"currency" gorm:"size:3;default:usd"`
	StartDate    time.Time     `json:"start_date" gorm:"index"`
	EndDate      time.Time     `json:"end_date"`
	Status       RetreatStatus `json:"status" gorm:"default:open"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (r *Retreat) Bookable(now time.Time) bool {
	return r.Status == RetreatOpen && r.StartDate.After(now)
}

// BalanceDueDate is the latest date the remaining balance can be paid.
func (r *Retreat) BalanceDueDate() time.Time {
	return r.StartDate.Add(-BalanceDueOffset)
}
