package catalog

import "time"

type ClassSummary struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Instructor     string    `json:"instructor"`
	StartTime      time.Time `json:"start_time"`
	DurationM      int       `json:"duration_minutes"`
	Price          int64     `json:"price"`
	Currency       string    `json:"currency"`
	Capacity       int       `json:"capacity"`
	SpotsRemaining int       `json:"spots_remaining"`
}

type RetreatSummary struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Location       string    `json:"location"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	TotalPrice     int64     `json:"total_price"`
	DepositPrice   int64     `json:"deposit_price"`
	Currency       string    `json:"currency"`
	Capacity       int       `json:"capacity"`
	SpotsRemaining int       `json:"spots_remaining"`
}
