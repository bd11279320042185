package booking

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"yogastudio/internal/domain"
	"yogastudio/internal/gateway"
	"yogastudio/internal/mailer"
)

// nowFunc is swapped in tests to pin the clock.
var nowFunc = time.Now

const (
	metaKeyUserID  = "user_id"
	metaKeyClassID = "class_instance_id"
	metaKeyKind    = "kind"
)

type Service struct {
	db           *gorm.DB
	classes      ClassReader
	reservations ReservationReader
	payments     PaymentRecordStore
	users        UserReader
	gw           gateway.PaymentGateway
	notifs       Notifier
	log          *zap.SugaredLogger
}

func NewService(
	db *gorm.DB,
	classes ClassReader,
	reservations ReservationReader,
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
		db:           db,
		classes:      classes,
		reservations: reservations,
		payments:     payments,
		users:        users,
		gw:           gw,
		notifs:       notifs,
		log:          log,
	}
}

// IssueIntent validates a reservation request and creates a payment intent
// for it. The capacity check here is advisory only; the authoritative check
// runs inside the Confirm transaction. No reservation is created and no
// counter is mutated at this stage.
func (s *Service) IssueIntent(ctx context.Context, userID int64, userEmail string, req IssueIntentRequest) (*IssueIntentResponse, error) {
	class, err := s.classes.GetByID(ctx, req.ClassInstanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}

	if !class.Bookable(nowFunc()) {
		return nil, ErrClassNotAvailable
	}

	taken, err := s.reservations.CountConfirmedForClass(ctx, class.ID)
	if err != nil {
		return nil, err
	}
	if taken >= int64(class.Capacity) {
		return nil, ErrCapacityFull
	}

	existing, err := s.reservations.GetByUserAndClass(ctx, userID, class.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateBooking
	}

	// the client echoes the price it displayed; reject any tampering
	if req.Amount != class.Price || !strings.EqualFold(req.Currency, class.Currency) {
		return nil, ErrAmountMismatch
	}

	ref, err := s.gw.CreateIntent(ctx, gateway.CreateIntentParams{
		Amount:      class.Price,
		Currency:    class.Currency,
		Description: "Class booking: " + class.Title,
		CustomerRef: userEmail,
		Metadata: map[string]string{
			metaKeyKind:    string(domain.ResourceClass),
			metaKeyUserID:  strconv.FormatInt(userID, 10),
			metaKeyClassID: strconv.FormatInt(class.ID, 10),
		},
	})
	if err != nil {
		s.log.Errorw("failed to create payment intent", "user_id", userID, "class_instance_id", class.ID, "err", err)
		return nil, ErrConfirmationFailed
	}

	rec := &domain.PaymentRecord{
		PaymentIntentID: ref.ID,
		Amount:          class.Price,
		Currency:        class.Currency,
		Status:          domain.PaymentRecordPending,
		UserID:          userID,
		ResourceKind:    domain.ResourceClass,
		ResourceID:      class.ID,
	}
	if err := s.payments.Create(ctx, rec); err != nil {
		s.log.Errorw("failed to persist payment record", "intent_id", ref.ID, "user_id", userID, "err", err)
		return nil, ErrConfirmationFailed
	}

	return &IssueIntentResponse{
		PaymentIntentID: ref.ID,
		ClientSecret:    ref.ClientSecret,
		Amount:          class.Price,
		Currency:        class.Currency,
	}, nil
}

// Confirm turns a succeeded payment intent into a reservation, exactly once
// per (user, class) pair. Safe to call any number of times: retries either
// return the already-created reservation or a clean business error, never a
// duplicate row and never a seat past capacity.
func (s *Service) Confirm(ctx context.Context, userID int64, req ConfirmRequest) (*domain.Reservation, error) {
	// fast idempotency path, no transaction needed
	existing, err := s.reservations.GetByUserAndClass(ctx, userID, req.ClassInstanceID)
	if err != nil {
		s.log.Errorw("idempotency lookup failed", "intent_id", req.PaymentIntentID, "user_id", userID, "err", err)
		return nil, ErrConfirmationFailed
	}
	if existing != nil {
		return existing, nil
	}

	// the intent must have been issued here, for this user and class
	rec, err := s.payments.GetByIntentID(ctx, req.PaymentIntentID)
	if err != nil {
		s.log.Errorw("payment record lookup failed", "intent_id", req.PaymentIntentID, "user_id", userID, "err", err)
		return nil, ErrConfirmationFailed
	}
	if rec == nil || rec.UserID != userID || rec.ResourceKind != domain.ResourceClass || rec.ResourceID != req.ClassInstanceID {
		s.log.Warnw("confirmation rejected, intent was not issued for this booking",
			"intent_id", req.PaymentIntentID, "user_id", userID, "class_instance_id", req.ClassInstanceID)
		s.markFailed(ctx, req.PaymentIntentID, "intent not issued for this booking")
		return nil, ErrMetadataMismatch
	}

	// the processor call must finish before the transaction opens so a slow
	// network hop never holds a database transaction
	intent, err := s.gw.RetrieveIntent(ctx, req.PaymentIntentID)
	if err != nil {
		s.log.Errorw("failed to retrieve payment intent", "intent_id", req.PaymentIntentID, "user_id", userID, "err", err)
		return nil, ErrConfirmationFailed
	}

	if intent.Status != gateway.StatusSucceeded {
		s.log.Infow("confirmation rejected, intent not succeeded",
			"intent_id", intent.ID, "user_id", userID, "raw_status", intent.RawStatus)
		s.markFailed(ctx, req.PaymentIntentID, "intent status "+intent.RawStatus)
		return nil, ErrPaymentNotSucceeded
	}

	if intent.Metadata[metaKeyUserID] != strconv.FormatInt(userID, 10) ||
		intent.Metadata[metaKeyClassID] != strconv.FormatInt(req.ClassInstanceID, 10) {
		s.log.Warnw("confirmation rejected, metadata mismatch",
			"intent_id", intent.ID, "user_id", userID, "class_instance_id", req.ClassInstanceID)
		s.markFailed(ctx, req.PaymentIntentID, "metadata mismatch")
		return nil, ErrMetadataMismatch
	}

	var result *domain.Reservation
	var class domain.ClassInstance

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// lock the class row so two confirmations cannot both observe a
		// free seat and both insert
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&class, req.ClassInstanceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClassNotFound
			}
			return err
		}

		var taken int64
		if err := tx.Model(&domain.Reservation{}).
			Where("class_instance_id = ? AND status = ?", class.ID, domain.ReservationConfirmed).
			Count(&taken).Error; err != nil {
			return err
		}
		if taken >= int64(class.Capacity) {
			return ErrCapacityFull
		}

		// a concurrent confirmation may have landed since the check above
		var dup domain.Reservation
		err := tx.Where("user_id = ? AND class_instance_id = ?", userID, class.ID).First(&dup).Error
		if err == nil {
			result = &dup
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		res := domain.Reservation{
			UserID:          userID,
			ClassInstanceID: class.ID,
			Status:          domain.ReservationConfirmed,
			Notes:           req.Notes,
		}
		if err := tx.Create(&res).Error; err != nil {
			if isUniqueViolation(err) {
				// lost the insert race; the winner's row is the result
				var winner domain.Reservation
				if ferr := tx.Where("user_id = ? AND class_instance_id = ?", userID, class.ID).First(&winner).Error; ferr != nil {
					return ferr
				}
				result = &winner
				return nil
			}
			return err
		}

		if err := tx.Model(&domain.PaymentRecord{}).
			Where("payment_intent_id = ? AND status = ?", req.PaymentIntentID, domain.PaymentRecordPending).
			Update("status", domain.PaymentRecordSucceeded).Error; err != nil {
			return err
		}

		result = &res
		return nil
	})

	if txErr != nil {
		switch {
		case errors.Is(txErr, ErrClassNotFound), errors.Is(txErr, ErrCapacityFull):
			s.markFailed(ctx, req.PaymentIntentID, txErr.Error())
			return nil, txErr
		default:
			s.log.Errorw("confirmation transaction failed",
				"intent_id", req.PaymentIntentID, "user_id", userID, "class_instance_id", req.ClassInstanceID, "err", txErr)
			return nil, ErrConfirmationFailed
		}
	}

	s.notifyConfirmed(ctx, userID, &class)

	return result, nil
}

// MyReservations returns the caller's reservations with class details.
func (s *Service) MyReservations(ctx context.Context, userID int64, limit, offset int) ([]domain.Reservation, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.reservations.ListByUser(ctx, userID, limit, offset)
}

// markFailed flips the pending payment record to failed. Best-effort: a
// failure here is logged and never surfaces to the caller.
func (s *Service) markFailed(ctx context.Context, intentID, reason string) {
	if err := s.payments.MarkFailed(ctx, intentID, reason); err != nil {
		s.log.Errorw("failed to mark payment record failed", "intent_id", intentID, "reason", reason, "err", err)
	}
}

// notifyConfirmed sends the confirmation email after the transaction has
// committed. Failures never roll back the reservation.
func (s *Service) notifyConfirmed(ctx context.Context, userID int64, class *domain.ClassInstance) {
	if s.notifs == nil {
		return
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.log.Errorw("skipping confirmation email, user lookup failed", "user_id", userID, "err", err)
		return
	}

	err = s.notifs.SendConfirmation(ctx, user.Email, user.Name, mailer.ConfirmationDetails{
		Title:     class.Title,
		StartTime: class.StartTime,
		Amount:    class.Price,
		Currency:  class.Currency,
	})
	if err != nil {
		s.log.Errorw("confirmation email failed", "user_id", userID, "class_instance_id", class.ID, "err", err)
	}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint") || strings.Contains(msg, "unique failed")
}
