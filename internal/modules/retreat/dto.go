package retreat

type DepositIntentRequest struct {
	RetreatID int64  `json:"retreat_id" binding:"required" example:"7"`
	Amount    int64  `json:"amount" binding:"required" example:"50000"`
	Currency  string `json:"currency" binding:"required" example:"usd"`
}

type DepositIntentResponse struct {
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
	BookingID       int64  `json:"booking_id"`
	DepositAmount   int64  `json:"deposit_amount"`
	TotalPrice      int64  `json:"total_price"`
	Currency        string `json:"currency"`
	BalanceDueDate  string `json:"balance_due_date"`
}

type ConfirmDepositRequest struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
	RetreatID       int64  `json:"retreat_id" binding:"required"`
	Notes           string `json:"notes"`
}
