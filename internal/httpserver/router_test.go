package httpserver

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"giftlink/internal/domain"
	giftrepo "giftlink/internal/repository/gift"
	orderrepo "giftlink/internal/repository/order"
	"giftlink/internal/service/adminauth"
	"giftlink/internal/service/checkout"
	"giftlink/internal/service/pricing"

	"github.com/gin-gonic/gin"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type stubProducts struct {
	products []domain.Product
	err      error
}

func (s *stubProducts) ListActive(_ context.Context) ([]domain.Product, error) {
	return s.products, s.err
}

func (s *stubProducts) GetBySKU(_ context.Context, sku string) (*domain.Product, error) {
	for _, p := range s.products {
		if p.SKU == sku {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

type stubDiscounts struct {
	record    *domain.DiscountCode
	list      []domain.DiscountCode
	createErr error
	created   *domain.DiscountCode
}

func (s *stubDiscounts) GetByCode(_ context.Context, _ string) (*domain.DiscountCode, error) {
	if s.record == nil {
		return nil, domain.ErrNotFound
	}
	return s.record, nil
}

func (s *stubDiscounts) List(_ context.Context) ([]domain.DiscountCode, error) {
	return s.list, nil
}

func (s *stubDiscounts) Create(_ context.Context, in domain.DiscountCode) (*domain.DiscountCode, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = &in
	return &in, nil
}

func (s *stubDiscounts) Update(_ context.Context, in domain.DiscountCode) (*domain.DiscountCode, error) {
	return &in, nil
}

func (s *stubDiscounts) ConsumeRedemption(_ context.Context, _ string) error {
	return nil
}

type stubOrders struct{}

func (s *stubOrders) List(_ context.Context, _ int) ([]domain.Order, error) {
	return nil, nil
}

func (s *stubOrders) Create(_ context.Context, in orderrepo.CreateOrderInput) (*domain.Order, error) {
	return &domain.Order{ID: "order-1", OrderNumber: in.OrderNumber}, nil
}

type stubGifts struct {
	gift *domain.Gift
}

func (s *stubGifts) GetByClaimCode(_ context.Context, _ string) (*domain.Gift, error) {
	if s.gift == nil {
		return nil, domain.ErrNotFound
	}
	return s.gift, nil
}

func (s *stubGifts) Claim(_ context.Context, _ string) (*domain.Gift, error) {
	if s.gift == nil || s.gift.Status != domain.GiftStatusPending {
		return nil, domain.ErrNotFound
	}
	claimed := *s.gift
	claimed.Status = domain.GiftStatusClaimed
	return &claimed, nil
}

func (s *stubGifts) List(_ context.Context, _ int) ([]domain.Gift, error) {
	return nil, nil
}

func (s *stubGifts) Create(_ context.Context, in giftrepo.CreateGiftInput) (*domain.Gift, error) {
	return &domain.Gift{ID: "gift-1", OrderID: in.OrderID, ClaimCode: in.ClaimCode, Status: domain.GiftStatusPending}, nil
}

func testAuth(t *testing.T) *adminauth.Service {
	t.Helper()
	svc, err := adminauth.New(adminauth.Config{
		Secret:   []byte("router-test-secret"),
		Password: "correct horse",
		TTL:      12 * time.Hour,
	})
	if err != nil {
		t.Fatalf("adminauth.New: %v", err)
	}
	return svc
}

func buildTestRouter(t *testing.T, products *stubProducts, discounts *stubDiscounts, gifts *stubGifts) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	pricingSvc := pricing.New(products, discounts)
	checkoutSvc := checkout.New(pricingSvc, discounts, &stubOrders{}, gifts)

	router, err := buildRouter(logDiscard(), nil, Deps{
		Products:    products,
		Discounts:   discounts,
		Orders:      &stubOrders{},
		Gifts:       gifts,
		PricingSvc:  pricingSvc,
		CheckoutSvc: checkoutSvc,
		AdminAuth:   testAuth(t),
	})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func defaultProducts() *stubProducts {
	return &stubProducts{products: []domain.Product{
		{ID: "p1", SKU: "CARD-BDAY", Name: "Birthday Card", PriceCents: 500, Currency: "USD", Active: true},
	}}
}

func TestBuildRouter_FailsClosedWithoutAdminAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, err := buildRouter(logDiscard(), nil, Deps{})
	if err == nil {
		t.Fatalf("expected error without admin auth service")
	}
}

func TestListProducts(t *testing.T) {
	router := buildTestRouter(t, defaultProducts(), &stubDiscounts{}, &stubGifts{})

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "CARD-BDAY") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestDiscountPreview_Success(t *testing.T) {
	ten := int64(10)
	discounts := &stubDiscounts{record: &domain.DiscountCode{
		Code: "SAVE10", Active: true,
		DiscountType: domain.DiscountTypePercent, DiscountValue: &ten,
	}}
	router := buildTestRouter(t, defaultProducts(), discounts, &stubGifts{})

	body := `{"items":[{"sku":"CARD-BDAY","quantity":20}],"code":"save10"}`
	req := httptest.NewRequest(http.MethodPost, "/api/discount/preview", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	for _, want := range []string{`"ok":true`, `"discountAmountCents":1000`, `"productSubtotalCents":10000`, `"productSubtotalAfterDiscountCents":9000`} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Fatalf("body missing %s: %s", want, rec.Body.String())
		}
	}
}

func TestDiscountPreview_BusinessFailureIs200(t *testing.T) {
	router := buildTestRouter(t, defaultProducts(), &stubDiscounts{}, &stubGifts{})

	body := `{"items":[{"sku":"CARD-BDAY","quantity":1}],"code":"NOPE"}`
	req := httptest.NewRequest(http.MethodPost, "/api/discount/preview", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"ok":false`) || !strings.Contains(rec.Body.String(), "InvalidCode") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestDiscountPreview_MalformedBody(t *testing.T) {
	router := buildTestRouter(t, defaultProducts(), &stubDiscounts{}, &stubGifts{})

	req := httptest.NewRequest(http.MethodPost, "/api/discount/preview", strings.NewReader(`{"items":`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestGetGift(t *testing.T) {
	gifts := &stubGifts{gift: &domain.Gift{
		ID: "g1", OrderID: "o1", ClaimCode: "abc", AmountCents: 5000, Status: domain.GiftStatusPending,
	}}
	router := buildTestRouter(t, defaultProducts(), &stubDiscounts{}, gifts)

	req := httptest.NewRequest(http.MethodGet, "/api/gifts/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"amountCents":5000`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestClaimGift_AlreadyClaimed(t *testing.T) {
	gifts := &stubGifts{gift: &domain.Gift{
		ID: "g1", ClaimCode: "abc", Status: domain.GiftStatusClaimed,
	}}
	router := buildTestRouter(t, defaultProducts(), &stubDiscounts{}, gifts)

	req := httptest.NewRequest(http.MethodPost, "/api/gifts/abc/claim", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestCreateOrder(t *testing.T) {
	router := buildTestRouter(t, defaultProducts(), &stubDiscounts{}, &stubGifts{})

	body := `{"items":[{"sku":"CARD-BDAY","quantity":1}],"gifts":[{"amountCents":2500,"recipientName":"Sam"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"claimCode"`) {
		t.Fatalf("body missing claim code: %s", rec.Body.String())
	}
}
