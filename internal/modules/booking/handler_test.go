package booking

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"yogastudio/internal/database"
	"yogastudio/internal/domain"
	"yogastudio/internal/gateway"
	"yogastudio/internal/repository"
)

type handlerFixture struct {
	router *gin.Engine
	db     *gorm.DB
	gw     *gateway.FakeGateway
}

func setupHandlerTest(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:booking_handler_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true},
	)
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}

	gw := gateway.NewFakeGateway()
	svc := NewService(
		db,
		repository.NewClassRepository(db),
		repository.NewReservationRepository(db),
		repository.NewPaymentRecordRepository(db),
		repository.NewUserRepository(db),
		gw,
		nil,
		nil,
	)
	h := NewHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		// stands in for the auth middleware
		c.Set("user_id", int64(42))
		c.Set("user_email", "yogi@example.com")
		c.Next()
	})
	v1 := r.Group("/api/v1")
	h.RegisterRoutes(v1)

	return &handlerFixture{router: r, db: db, gw: gw}
}

func (f *handlerFixture) postJSON(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func (f *handlerFixture) seedClass(t *testing.T) *domain.ClassInstance {
	t.Helper()
	class := &domain.ClassInstance{
		Title:     "Yin Yoga",
		Capacity:  8,
		Price:     1800,
		Currency:  "usd",
		StartTime: time.Now().Add(24 * time.Hour),
		Status:    domain.ClassOpen,
	}
	if err := f.db.Create(class).Error; err != nil {
		t.Fatalf("failed to create class: %v", err)
	}
	return class
}

func TestIntentEndpoint(t *testing.T) {
	f := setupHandlerTest(t)
	class := f.seedClass(t)

	rr := f.postJSON(t, "/api/v1/bookings/intent", IssueIntentRequest{
		ClassInstanceID: class.ID,
		Amount:          class.Price,
		Currency:        class.Currency,
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var envelope struct {
		Success bool                `json:"success"`
		Data    IssueIntentResponse `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !envelope.Success {
		t.Fatal("expected success envelope")
	}
	if envelope.Data.PaymentIntentID == "" || envelope.Data.ClientSecret == "" {
		t.Fatalf("expected intent id and client secret, got %+v", envelope.Data)
	}
}

func TestIntentEndpoint_PriceTampering(t *testing.T) {
	f := setupHandlerTest(t)
	class := f.seedClass(t)

	rr := f.postJSON(t, "/api/v1/bookings/intent", IssueIntentRequest{
		ClassInstanceID: class.ID,
		Amount:          1, // not the listed price
		Currency:        class.Currency,
	})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
	if body := rr.Body.String(); !bytes.Contains([]byte(body), []byte("AMOUNT_MISMATCH")) {
		t.Fatalf("expected AMOUNT_MISMATCH code, got %s", body)
	}
}

func TestIntentEndpoint_UnknownClass(t *testing.T) {
	f := setupHandlerTest(t)

	rr := f.postJSON(t, "/api/v1/bookings/intent", IssueIntentRequest{
		ClassInstanceID: 9999,
		Amount:          1800,
		Currency:        "usd",
	})

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestConfirmEndpoint_PaymentNotSettled(t *testing.T) {
	f := setupHandlerTest(t)
	class := f.seedClass(t)

	rr := f.postJSON(t, "/api/v1/bookings/intent", IssueIntentRequest{
		ClassInstanceID: class.ID,
		Amount:          class.Price,
		Currency:        class.Currency,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("intent failed: %d %s", rr.Code, rr.Body.String())
	}
	var envelope struct {
		Data IssueIntentResponse `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	// confirm without the payment ever settling
	rr = f.postJSON(t, "/api/v1/bookings/confirm", ConfirmRequest{
		PaymentIntentID: envelope.Data.PaymentIntentID,
		ClassInstanceID: class.ID,
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
	}
	if body := rr.Body.String(); !bytes.Contains([]byte(body), []byte("PAYMENT_NOT_SUCCEEDED")) {
		t.Fatalf("expected PAYMENT_NOT_SUCCEEDED code, got %s", body)
	}
}

func TestConfirmEndpoint_FullFlow(t *testing.T) {
	f := setupHandlerTest(t)
	class := f.seedClass(t)

	rr := f.postJSON(t, "/api/v1/bookings/intent", IssueIntentRequest{
		ClassInstanceID: class.ID,
		Amount:          class.Price,
		Currency:        class.Currency,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("intent failed: %d %s", rr.Code, rr.Body.String())
	}
	var envelope struct {
		Data IssueIntentResponse `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	f.gw.MarkSucceeded(envelope.Data.PaymentIntentID)

	rr = f.postJSON(t, "/api/v1/bookings/confirm", ConfirmRequest{
		PaymentIntentID: envelope.Data.PaymentIntentID,
		ClassInstanceID: class.ID,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var count int64
	if err := f.db.Model(&domain.Reservation{}).Where("user_id = ?", 42).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one reservation, got %d", count)
	}
}
