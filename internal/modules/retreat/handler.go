package retreat

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"yogastudio/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/retreats/bookings/intent", h.IssueDepositIntent)
	rg.POST("/retreats/bookings/confirm", h.ConfirmDeposit)
	rg.GET("/retreats/bookings/me", h.MyBookings)
}

// IssueDepositIntent godoc
// @Summary      Create a payment intent for a retreat deposit
// @Tags         Retreats
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body body DepositIntentRequest true "Deposit request"
// @Success      200 {object} DepositIntentResponse
// @Router       /retreats/bookings/intent [post]
func (h *Handler) IssueDepositIntent(c *gin.Context) {
	var req DepositIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	userID := c.GetInt64("user_id")
	userEmail := c.GetString("user_email")

	resp, err := h.service.IssueDepositIntent(c.Request.Context(), userID, userEmail, req)
	if err != nil {
		writeRetreatError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ConfirmDeposit godoc
// @Summary      Confirm a paid retreat deposit
// @Tags         Retreats
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body body ConfirmDepositRequest true "Confirmation payload"
// @Router       /retreats/bookings/confirm [post]
func (h *Handler) ConfirmDeposit(c *gin.Context) {
	var req ConfirmDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	userID := c.GetInt64("user_id")

	b, err := h.service.ConfirmDeposit(c.Request.Context(), userID, req)
	if err != nil {
		writeRetreatError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

// MyBookings godoc
// @Summary      List the caller's retreat bookings
// @Tags         Retreats
// @Security     BearerAuth
// @Produce      json
// @Router       /retreats/bookings/me [get]
func (h *Handler) MyBookings(c *gin.Context) {
	userID := c.GetInt64("user_id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	out, err := h.service.MyBookings(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load bookings")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": out})
}

func writeRetreatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request")
	case errors.Is(err, ErrRetreatNotFound):
		response.Error(c, http.StatusNotFound, "RESOURCE_NOT_FOUND", "Retreat not found")
	case errors.Is(err, ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, "RESOURCE_NOT_FOUND", "No booking found for this retreat")
	case errors.Is(err, ErrRetreatNotAvailable):
		response.Error(c, http.StatusBadRequest, "RESOURCE_NOT_AVAILABLE", "This retreat is not open for booking")
	case errors.Is(err, ErrCapacityFull):
		response.Error(c, http.StatusBadRequest, "CAPACITY_FULL", "This retreat is fully booked")
	case errors.Is(err, ErrDuplicateBooking):
		response.Error(c, http.StatusBadRequest, "DUPLICATE_RESERVATION", "You already hold a spot on this retreat")
	case errors.Is(err, ErrAmountMismatch):
		response.Error(c, http.StatusBadRequest, "AMOUNT_MISMATCH", "Amount does not match the deposit price")
	case errors.Is(err, ErrPaymentNotSucceeded):
		response.Error(c, http.StatusBadRequest, "PAYMENT_NOT_SUCCEEDED", "Payment could not be verified")
	case errors.Is(err, ErrMetadataMismatch):
		response.Error(c, http.StatusBadRequest, "METADATA_MISMATCH", "Payment does not match this booking")
	case errors.Is(err, ErrAlreadyProcessed):
		response.Error(c, http.StatusBadRequest, "DUPLICATE_RESERVATION", "This booking has already been paid")
	default:
		response.Error(c, http.StatusInternalServerError, "CONFIRMATION_FAILED", "Something went wrong, please try again")
	}
}
