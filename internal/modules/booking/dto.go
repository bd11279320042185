package booking

type IssueIntentRequest struct {
	ClassInstanceID int64  `json:"class_instance_id" binding:"required" example:"42"`
	Amount          int64  `json:"amount" binding:"required" example:"2000"`
	Currency        string `json:"currency" binding:"required" example:"usd"`
}

type IssueIntentResponse struct {
	PaymentIntentID string `json:"payment_intent_id" example:"pi_3MtwBwLkdIwHu7ix28a3tqPa"`
	ClientSecret    string `json:"client_secret" example:"pi_3MtwBwLkdIwHu7ix28a3tqPa_secret_..."`
	Amount          int64  `json:"amount" example:"2000"`
	Currency        string `json:"currency" example:"usd"`
}

type ConfirmRequest struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required" example:"pi_3MtwBwLkdIwHu7ix28a3tqPa"`
	ClassInstanceID int64  `json:"class_instance_id" binding:"required" example:"42"`
	Notes           string `json:"notes"`
}
