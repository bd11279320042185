package retreat

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"yogastudio/internal/database"
	"yogastudio/internal/domain"
	"yogastudio/internal/gateway"
	"yogastudio/internal/repository"
)

func setupRetreatTest(t *testing.T) (*Service, *gorm.DB, *gateway.FakeGateway) {
	t.Helper()
	dsn := fmt.Sprintf("file:retreat_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true},
	)
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}

	gw := gateway.NewFakeGateway()
	svc := NewService(
		db,
		repository.NewRetreatRepository(db),
		repository.NewRetreatBookingRepository(db),
		repository.NewPaymentRecordRepository(db),
		repository.NewUserRepository(db),
		gw,
		nil,
		nil,
	)
	return svc, db, gw
}

func createTestRetreat(t *testing.T, db *gorm.DB, capacity int) *domain.Retreat {
	t.Helper()
	ret := &domain.Retreat{
		Title:        "Alpine Retreat",
		Location:     "Chamonix",
		Capacity:     capacity,
		TotalPrice:   120000,
		DepositPrice: 30000,
		Currency:     "usd",
		StartDate:    time.Now().Add(90 * 24 * time.Hour),
		EndDate:      time.Now().Add(97 * 24 * time.Hour),
		Status:       domain.RetreatOpen,
	}
	if err := db.Create(ret).Error; err != nil {
		t.Fatalf("failed to create retreat: %v", err)
	}
	return ret
}

func createRetreatUser(t *testing.T, db *gorm.DB, email string) *domain.User {
	t.Helper()
	user := &domain.User{Email: email, PasswordHash: "x", Name: "Test", Role: domain.RoleClient}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func issueSucceededDeposit(t *testing.T, svc *Service, gw *gateway.FakeGateway, user *domain.User, ret *domain.Retreat) string {
	t.Helper()
	resp, err := svc.IssueDepositIntent(context.Background(), user.ID, user.Email, DepositIntentRequest{
		RetreatID: ret.ID,
		Amount:    ret.DepositPrice,
		Currency:  ret.Currency,
	})
	if err != nil {
		t.Fatalf("IssueDepositIntent returned error: %v", err)
	}
	gw.MarkSucceeded(resp.PaymentIntentID)
	return resp.PaymentIntentID
}

func TestDepositFlow(t *testing.T) {
	svc, db, gw := setupRetreatTest(t)
	ctx := context.Background()

	ret := createTestRetreat(t, db, 10)
	user := createRetreatUser(t, db, "a@example.com")

	resp, err := svc.IssueDepositIntent(ctx, user.ID, user.Email, DepositIntentRequest{
		RetreatID: ret.ID,
		Amount:    ret.DepositPrice,
		Currency:  ret.Currency,
	})
	if err != nil {
		t.Fatalf("IssueDepositIntent returned error: %v", err)
	}
	if resp.DepositAmount != ret.DepositPrice {
		t.Fatalf("expected deposit %d, got %d", ret.DepositPrice, resp.DepositAmount)
	}

	// the pending booking holds no spot yet
	var held int64
	if err := db.Model(&domain.RetreatBooking{}).
		Where("retreat_id = ? AND payment_status IN ?", ret.ID,
			[]domain.RetreatPaymentStatus{domain.RetreatPaymentDepositPaid, domain.RetreatPaymentPaidInFull}).
		Count(&held).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if held != 0 {
		t.Fatalf("pending booking must not hold a spot, held=%d", held)
	}

	gw.MarkSucceeded(resp.PaymentIntentID)

	booking, err := svc.ConfirmDeposit(ctx, user.ID, ConfirmDepositRequest{
		PaymentIntentID: resp.PaymentIntentID,
		RetreatID:       ret.ID,
	})
	if err != nil {
		t.Fatalf("ConfirmDeposit returned error: %v", err)
	}
	if booking.PaymentStatus != domain.RetreatPaymentDepositPaid {
		t.Fatalf("expected deposit_paid, got %s", booking.PaymentStatus)
	}
	if booking.AmountPaid != ret.DepositPrice {
		t.Fatalf("expected amount paid %d, got %d", ret.DepositPrice, booking.AmountPaid)
	}
	if booking.DepositPaidAt == nil {
		t.Fatal("expected deposit_paid_at to be set")
	}

	var rec domain.PaymentRecord
	if err := db.Where("payment_intent_id = ?", resp.PaymentIntentID).First(&rec).Error; err != nil {
		t.Fatalf("payment record not found: %v", err)
	}
	if rec.Status != domain.PaymentRecordSucceeded {
		t.Fatalf("expected succeeded payment record, got %s", rec.Status)
	}
}

func TestConfirmDepositIsIdempotent(t *testing.T) {
	svc, db, gw := setupRetreatTest(t)
	ctx := context.Background()

	ret := createTestRetreat(t, db, 10)
	user := createRetreatUser(t, db, "a@example.com")
	intentID := issueSucceededDeposit(t, svc, gw, user, ret)

	first, err := svc.ConfirmDeposit(ctx, user.ID, ConfirmDepositRequest{PaymentIntentID: intentID, RetreatID: ret.ID})
	if err != nil {
		t.Fatalf("first ConfirmDeposit returned error: %v", err)
	}
	second, err := svc.ConfirmDeposit(ctx, user.ID, ConfirmDepositRequest{PaymentIntentID: intentID, RetreatID: ret.ID})
	if err != nil {
		t.Fatalf("second ConfirmDeposit returned error: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the same booking on retry, got %d and %d", first.ID, second.ID)
	}
	if second.AmountPaid != ret.DepositPrice {
		t.Fatalf("retry must not change amount paid, got %d", second.AmountPaid)
	}
}

func TestConfirmDepositRejectsProgressedBooking(t *testing.T) {
	svc, db, gw := setupRetreatTest(t)
	ctx := context.Background()

	ret := createTestRetreat(t, db, 10)
	user := createRetreatUser(t, db, "a@example.com")
	intentID := issueSucceededDeposit(t, svc, gw, user, ret)

	if err := db.Model(&domain.RetreatBooking{}).
		Where("user_id = ? AND retreat_id = ?", user.ID, ret.ID).
		Updates(map[string]interface{}{
			"payment_status": domain.RetreatPaymentPaidInFull,
			"amount_paid":    ret.TotalPrice,
		}).Error; err != nil {
		t.Fatalf("failed to progress booking: %v", err)
	}

	_, err := svc.ConfirmDeposit(ctx, user.ID, ConfirmDepositRequest{PaymentIntentID: intentID, RetreatID: ret.ID})
	if !errors.Is(err, ErrAlreadyProcessed) {
		t.Fatalf("expected ErrAlreadyProcessed, got %v", err)
	}
}

func TestIssueDepositIntentRejectsWrongAmount(t *testing.T) {
	svc, db, _ := setupRetreatTest(t)
	ctx := context.Background()

	ret := createTestRetreat(t, db, 10)
	user := createRetreatUser(t, db, "a@example.com")

	// paying the full price up front is not the deposit flow
	_, err := svc.IssueDepositIntent(ctx, user.ID, user.Email, DepositIntentRequest{
		RetreatID: ret.ID,
		Amount:    ret.TotalPrice,
		Currency:  ret.Currency,
	})
	if !errors.Is(err, ErrAmountMismatch) {
		t.Fatalf("expected ErrAmountMismatch, got %v", err)
	}
}

func TestIssueDepositIntentReusesAbandonedBooking(t *testing.T) {
	svc, db, _ := setupRetreatTest(t)
	ctx := context.Background()

	ret := createTestRetreat(t, db, 10)
	user := createRetreatUser(t, db, "a@example.com")

	req := DepositIntentRequest{RetreatID: ret.ID, Amount: ret.DepositPrice, Currency: ret.Currency}
	first, err := svc.IssueDepositIntent(ctx, user.ID, user.Email, req)
	if err != nil {
		t.Fatalf("first IssueDepositIntent returned error: %v", err)
	}
	second, err := svc.IssueDepositIntent(ctx, user.ID, user.Email, req)
	if err != nil {
		t.Fatalf("second IssueDepositIntent returned error: %v", err)
	}
	if first.BookingID != second.BookingID {
		t.Fatalf("expected the pending booking to be reused, got %d and %d", first.BookingID, second.BookingID)
	}
	if first.PaymentIntentID == second.PaymentIntentID {
		t.Fatal("expected a fresh payment intent per attempt")
	}

	var count int64
	if err := db.Model(&domain.RetreatBooking{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single booking row, got %d", count)
	}
}

func TestIssueDepositIntentRejectsHeldSpot(t *testing.T) {
	svc, db, gw := setupRetreatTest(t)
	ctx := context.Background()

	ret := createTestRetreat(t, db, 10)
	user := createRetreatUser(t, db, "a@example.com")
	intentID := issueSucceededDeposit(t, svc, gw, user, ret)
	if _, err := svc.ConfirmDeposit(ctx, user.ID, ConfirmDepositRequest{PaymentIntentID: intentID, RetreatID: ret.ID}); err != nil {
		t.Fatalf("ConfirmDeposit returned error: %v", err)
	}

	_, err := svc.IssueDepositIntent(ctx, user.ID, user.Email, DepositIntentRequest{
		RetreatID: ret.ID,
		Amount:    ret.DepositPrice,
		Currency:  ret.Currency,
	})
	if !errors.Is(err, ErrDuplicateBooking) {
		t.Fatalf("expected ErrDuplicateBooking, got %v", err)
	}
}

func TestConfirmDepositRejectsWhenFull(t *testing.T) {
	svc, db, gw := setupRetreatTest(t)
	ctx := context.Background()

	ret := createTestRetreat(t, db, 1)
	alice := createRetreatUser(t, db, "alice@example.com")
	bob := createRetreatUser(t, db, "bob@example.com")

	// both paid deposits while the spot still looked free
	aliceIntent := issueSucceededDeposit(t, svc, gw, alice, ret)
	bobIntent := issueSucceededDeposit(t, svc, gw, bob, ret)

	if _, err := svc.ConfirmDeposit(ctx, alice.ID, ConfirmDepositRequest{PaymentIntentID: aliceIntent, RetreatID: ret.ID}); err != nil {
		t.Fatalf("alice ConfirmDeposit returned error: %v", err)
	}

	_, err := svc.ConfirmDeposit(ctx, bob.ID, ConfirmDepositRequest{PaymentIntentID: bobIntent, RetreatID: ret.ID})
	if !errors.Is(err, ErrCapacityFull) {
		t.Fatalf("expected ErrCapacityFull, got %v", err)
	}

	// bob's booking stays pending, his spot was never held
	var bobBooking domain.RetreatBooking
	if err := db.Where("user_id = ? AND retreat_id = ?", bob.ID, ret.ID).First(&bobBooking).Error; err != nil {
		t.Fatalf("bob's booking not found: %v", err)
	}
	if bobBooking.PaymentStatus != domain.RetreatPaymentPending {
		t.Fatalf("expected bob's booking pending, got %s", bobBooking.PaymentStatus)
	}

	var rec domain.PaymentRecord
	if err := db.Where("payment_intent_id = ?", bobIntent).First(&rec).Error; err != nil {
		t.Fatalf("payment record not found: %v", err)
	}
	if rec.Status != domain.PaymentRecordFailed {
		t.Fatalf("expected bob's payment record failed, got %s", rec.Status)
	}
}

func TestConfirmDepositWithoutBooking(t *testing.T) {
	svc, db, _ := setupRetreatTest(t)
	ctx := context.Background()

	ret := createTestRetreat(t, db, 10)
	user := createRetreatUser(t, db, "a@example.com")

	_, err := svc.ConfirmDeposit(ctx, user.ID, ConfirmDepositRequest{PaymentIntentID: "pi_fake_none", RetreatID: ret.ID})
	if !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}
