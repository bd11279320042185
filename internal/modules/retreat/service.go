package retreat

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"yogastudio/internal/domain"
	"yogastudio/internal/gateway"
	"yogastudio/internal/mailer"
)

var nowFunc = time.Now

const (
	metaKeyUserID    = "user_id"
	metaKeyRetreatID = "retreat_id"
	metaKeyKind      = "kind"
)

type Service struct {
	db       *gorm.DB
	retreats RetreatReader
	bookings BookingStore
	payments PaymentRecordStore
	users    UserReader
	gw       gateway.PaymentGateway
	notifs   Notifier
	log      *zap.SugaredLogger
}

func NewService(
	db *gorm.DB,
	retreats RetreatReader,
	bookings BookingStore,
	payments PaymentRecordStore,
	users UserReader,
	gw gateway.PaymentGateway,
	notifs Notifier,
	log *zap.SugaredLogger,
) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{
		db:       db,
		retreats: retreats,
		bookings: bookings,
		payments: payments,
		users:    users,
		gw:       gw,
		notifs:   notifs,
		log:      log,
	}
}

// IssueDepositIntent validates a retreat booking request and creates a
// payment intent for the deposit. A pending booking row is created (or
// reused, when the user abandoned an earlier payment attempt); it holds no
// spot until the deposit is confirmed.
func (s *Service) IssueDepositIntent(ctx context.Context, userID int64, userEmail string, req DepositIntentRequest) (*DepositIntentResponse, error) {
	ret, err := s.retreats.GetByID(ctx, req.RetreatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRetreatNotFound
		}
		return nil, err
	}

	if !ret.Bookable(nowFunc()) {
		return nil, ErrRetreatNotAvailable
	}

	held, err := s.bookings.CountHeldSpots(ctx, ret.ID)
	if err != nil {
		return nil, err
	}
	if held >= int64(ret.Capacity) {
		return nil, ErrCapacityFull
	}

	if req.Amount != ret.DepositPrice || !strings.EqualFold(req.Currency, ret.Currency) {
		return nil, ErrAmountMismatch
	}

	booking, err := s.bookings.GetByUserAndRetreat(ctx, userID, ret.ID)
	if err != nil {
		return nil, err
	}
	switch {
	case booking == nil:
		booking = &domain.RetreatBooking{
			UserID:         userID,
			RetreatID:      ret.ID,
			TotalPrice:     ret.TotalPrice,
			AmountPaid:     0,
			PaymentStatus:  domain.RetreatPaymentPending,
			BalanceDueDate: ret.BalanceDueDate(),
		}
		if err := s.bookings.Create(ctx, booking); err != nil {
			return nil, err
		}
	case booking.PaymentStatus == domain.RetreatPaymentPending:
		// an abandoned attempt; refresh the terms and issue a new intent
		booking.TotalPrice = ret.TotalPrice
		booking.BalanceDueDate = ret.BalanceDueDate()
		if err := s.bookings.Save(ctx, booking); err != nil {
			return nil, err
		}
	default:
		return nil, ErrDuplicateBooking
	}

	ref, err := s.gw.CreateIntent(ctx, gateway.CreateIntentParams{
		Amount:      ret.DepositPrice,
		Currency:    ret.Currency,
		Description: "Retreat deposit: " + ret.Title,
		CustomerRef: userEmail,
		Metadata: map[string]string{
			metaKeyKind:      string(domain.ResourceRetreat),
			metaKeyUserID:    strconv.FormatInt(userID, 10),
			metaKeyRetreatID: strconv.FormatInt(ret.ID, 10),
		},
	})
	if err != nil {
		s.log.Errorw("failed to create deposit intent", "user_id", userID, "retreat_id", ret.ID, "err", err)
		return nil, ErrConfirmationFailed
	}

	rec := &domain.PaymentRecord{
		PaymentIntentID: ref.ID,
		Amount:          ret.DepositPrice,
		Currency:        ret.Currency,
		Status:          domain.PaymentRecordPending,
		UserID:          userID,
		ResourceKind:    domain.ResourceRetreat,
		ResourceID:      ret.ID,
	}
	if err := s.payments.Create(ctx, rec); err != nil {
		s.log.Errorw("failed to persist payment record", "intent_id", ref.ID, "user_id", userID, "err", err)
		return nil, ErrConfirmationFailed
	}

	return &DepositIntentResponse{
		PaymentIntentID: ref.ID,
		ClientSecret:    ref.ClientSecret,
		BookingID:       booking.ID,
		DepositAmount:   ret.DepositPrice,
		TotalPrice:      ret.TotalPrice,
		Currency:        ret.Currency,
		BalanceDueDate:  booking.BalanceDueDate.Format("2006-01-02"),
	}, nil
}

// ConfirmDeposit moves a pending booking to deposit_paid once the deposit
// intent has succeeded, holding the spot. Repeat calls for an already
// confirmed deposit return the booking unchanged. Bookings that progressed
// past the deposit stage are rejected, not silently succeeded.
func (s *Service) ConfirmDeposit(ctx context.Context, userID int64, req ConfirmDepositRequest) (*domain.RetreatBooking, error) {
	booking, err := s.bookings.GetByUserAndRetreat(ctx, userID, req.RetreatID)
	if err != nil {
		s.log.Errorw("idempotency lookup failed", "intent_id", req.PaymentIntentID, "user_id", userID, "err", err)
		return nil, ErrConfirmationFailed
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	switch booking.PaymentStatus {
	case domain.RetreatPaymentDepositPaid:
		return booking, nil
	case domain.RetreatPaymentPending:
		// proceed
	default:
		return nil, ErrAlreadyProcessed
	}

	// processor call stays outside the transaction
	intent, err := s.gw.RetrieveIntent(ctx, req.PaymentIntentID)
	if err != nil {
		s.log.Errorw("failed to retrieve deposit intent", "intent_id", req.PaymentIntentID, "user_id", userID, "err", err)
		return nil, ErrConfirmationFailed
	}

	if intent.Status != gateway.StatusSucceeded {
		s.log.Infow("deposit confirmation rejected, intent not succeeded",
			"intent_id", intent.ID, "user_id", userID, "raw_status", intent.RawStatus)
		s.markFailed(ctx, req.PaymentIntentID, "intent status "+intent.RawStatus)
		return nil, ErrPaymentNotSucceeded
	}

	if intent.Metadata[metaKeyUserID] != strconv.FormatInt(userID, 10) ||
		intent.Metadata[metaKeyRetreatID] != strconv.FormatInt(req.RetreatID, 10) {
		s.log.Warnw("deposit confirmation rejected, metadata mismatch",
			"intent_id", intent.ID, "user_id", userID, "retreat_id", req.RetreatID)
		s.markFailed(ctx, req.PaymentIntentID, "metadata mismatch")
		return nil, ErrMetadataMismatch
	}

	var result *domain.RetreatBooking
	var ret domain.Retreat

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// lock the retreat row; the held-spot count and the status flip
		// must be one atomic step
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ret, req.RetreatID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRetreatNotFound
			}
			return err
		}

		var held int64
		if err := tx.Model(&domain.RetreatBooking{}).
			Where("retreat_id = ? AND payment_status IN ?", ret.ID,
				[]domain.RetreatPaymentStatus{domain.RetreatPaymentDepositPaid, domain.RetreatPaymentPaidInFull}).
			Count(&held).Error; err != nil {
			return err
		}
		if held >= int64(ret.Capacity) {
			return ErrCapacityFull
		}

		var b domain.RetreatBooking
		if err := tx.Where("user_id = ? AND retreat_id = ?", userID, ret.ID).First(&b).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		switch b.PaymentStatus {
		case domain.RetreatPaymentDepositPaid:
			// a concurrent confirmation won; commit as a no-op
			result = &b
			return nil
		case domain.RetreatPaymentPending:
			// proceed
		default:
			return ErrAlreadyProcessed
		}

		now := nowFunc()
		b.PaymentStatus = domain.RetreatPaymentDepositPaid
		b.AmountPaid = ret.DepositPrice
		b.DepositPaidAt = &now
		if req.Notes != "" {
			b.Notes = req.Notes
		}
		if err := tx.Save(&b).Error; err != nil {
			return err
		}

		if err := tx.Model(&domain.PaymentRecord{}).
			Where("payment_intent_id = ? AND status = ?", req.PaymentIntentID, domain.PaymentRecordPending).
			Update("status", domain.PaymentRecordSucceeded).Error; err != nil {
			return err
		}

		result = &b
		return nil
	})

	if txErr != nil {
		switch {
		case errors.Is(txErr, ErrRetreatNotFound),
			errors.Is(txErr, ErrCapacityFull),
			errors.Is(txErr, ErrBookingNotFound),
			errors.Is(txErr, ErrAlreadyProcessed):
			s.markFailed(ctx, req.PaymentIntentID, txErr.Error())
			return nil, txErr
		default:
			s.log.Errorw("deposit confirmation transaction failed",
				"intent_id", req.PaymentIntentID, "user_id", userID, "retreat_id", req.RetreatID, "err", txErr)
			return nil, ErrConfirmationFailed
		}
	}

	s.notifyConfirmed(ctx, userID, &ret)

	return result, nil
}

// MyBookings returns the caller's retreat bookings with retreat details.
func (s *Service) MyBookings(ctx context.Context, userID int64, limit, offset int) ([]domain.RetreatBooking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.bookings.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) markFailed(ctx context.Context, intentID, reason string) {
	if err := s.payments.MarkFailed(ctx, intentID, reason); err != nil {
		s.log.Errorw("failed to mark payment record failed", "intent_id", intentID, "reason", reason, "err", err)
	}
}

func (s *Service) notifyConfirmed(ctx context.Context, userID int64, ret *domain.Retreat) {
	if s.notifs == nil {
		return
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.log.Errorw("skipping confirmation email, user lookup failed", "user_id", userID, "err", err)
		return
	}

	err = s.notifs.SendConfirmation(ctx, user.Email, user.Name, mailer.ConfirmationDetails{
		Title:     ret.Title,
		StartTime: ret.StartDate,
		Amount:    ret.DepositPrice,
		Currency:  ret.Currency,
	})
	if err != nil {
		s.log.Errorw("confirmation email failed", "user_id", userID, "retreat_id", ret.ID, "err", err)
	}
}
