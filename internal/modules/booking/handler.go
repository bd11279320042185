package booking

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
	rg.POST("/bookings/intent", h.IssueIntent)
	rg.POST("/bookings/confirm", h.Confirm)
	rg.GET("/bookings/me", h.MyReservations)
}

// IssueIntent godoc
// @Summary      Create a payment intent for a class seat
// @Description  Validates availability and price, then creates a payment intent the client completes with the processor
// @Tags         Bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body body IssueIntentRequest true "Reservation request"
// @Success      200 {object} IssueIntentResponse
// @Router       /bookings/intent [post]
func (h *Handler) IssueIntent(c *gin.Context) {
	var req IssueIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	userID := c.GetInt64("user_id")
	userEmail := c.GetString("user_email")

	resp, err := h.service.IssueIntent(c.Request.Context(), userID, userEmail, req)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Confirm godoc
// @Summary      Confirm a paid booking
// @Description  Verifies the payment intent and atomically reserves the seat; idempotent on retries
// @Tags         Bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body body ConfirmRequest true "Confirmation payload"
// @Router       /bookings/confirm [post]
func (h *Handler) Confirm(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	userID := c.GetInt64("user_id")

	res, err := h.service.Confirm(c.Request.Context(), userID, req)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"booking": res})
}

// MyReservations godoc
// @Summary      List the caller's reservations
// @Tags         Bookings
// @Security     BearerAuth
// @Produce      json
// @Router       /bookings/me [get]
func (h *Handler) MyReservations(c *gin.Context) {
	userID := c.GetInt64("user_id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	out, err := h.service.MyReservations(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load reservations")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": out})
}

func writeBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request")
	case errors.Is(err, ErrClassNotFound):
		response.Error(c, http.StatusNotFound, "RESOURCE_NOT_FOUND", "Class not found")
	case errors.Is(err, ErrClassNotAvailable):
		response.Error(c, http.StatusBadRequest, "RESOURCE_NOT_AVAILABLE", "This class is not open for booking")
	case errors.Is(err, ErrCapacityFull):
		response.Error(c, http.StatusBadRequest, "CAPACITY_FULL", "This class is fully booked")
	case errors.Is(err, ErrDuplicateBooking):
		response.Error(c, http.StatusBadRequest, "DUPLICATE_RESERVATION", "You already have a spot in this class")
	case errors.Is(err, ErrAmountMismatch):
		response.Error(c, http.StatusBadRequest, "AMOUNT_MISMATCH", "Amount does not match the current class price")
	case errors.Is(err, ErrPaymentNotSucceeded):
		response.Error(c, http.StatusBadRequest, "PAYMENT_NOT_SUCCEEDED", "Payment could not be verified")
	case errors.Is(err, ErrMetadataMismatch):
		response.Error(c, http.StatusBadRequest, "METADATA_MISMATCH", "Payment does not match this booking")
	default:
		response.Error(c, http.StatusInternalServerError, "CONFIRMATION_FAILED", "Something went wrong, please try again")
	}
}
