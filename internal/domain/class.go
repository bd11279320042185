package domain

import "time"

type ClassStatus string

const (
	ClassOpen      ClassStatus = "open"
	ClassCancelled ClassStatus = "cancelled"
	ClassCompleted ClassStatus = "completed"
)

// ClassInstance is a single scheduled class with a fixed number of seats.
// The number of taken seats is never stored; it is always derived from
// confirmed reservations.
type ClassInstance struct {
	ID         int64       `json:"id" gorm:"primaryKey"`
	Title      string      `json:"title" gorm:"not null"`
	Instructor string      `json:"instructor"`
	Capacity   int         `json:"capacity" gorm:"not null"`
	Price      int64       `json:"price" gorm:"not null"` // minor currency units
	Currency   string      `json:"currency" gorm:"size:3;default:usd"`
	StartTime  time.Time   `json:"start_time" gorm:"index"`
	DurationM  int         `json:"duration_minutes" gorm:"column:duration_minutes"`
	Status     ClassStatus `json:"status" gorm:"default:open"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

func (ClassInstance) TableName() string { return "class_instances" }

// Bookable reports whether new reservations may still be issued for the
// class, capacity aside.
func (c *ClassInstance) Bookable(now time.Time) bool {
	return c.Status == ClassOpen && c.StartTime.After(now)
}
