package service

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"onionpay-api/internal/constant"
	"onionpay-api/internal/dao"
	"onionpay-api/internal/dto"
	"onionpay-api/internal/model"
	"onionpay-api/internal/testutil"
)

const testBaseURL = "https://pay.example.com"

type checkoutFixture struct {
	db    *gorm.DB
	svc   *CheckoutService
	order *orderFixture
}

func newCheckoutFixture(t *testing.T, withQr bool) *checkoutFixture {
	t.Helper()
	f := newOrderFixture(t)
	db := f.dao.DB
	if withQr {
		testutil.SeedQrCode(t, db, "merchant@upi")
	}
	svc := NewCheckoutService(f.svc, dao.NewProductDao(db), dao.NewQrCodeDao(db), CheckoutConfig{MinAmount: 1, MaxAmount: 100000})
	return &checkoutFixture{db: db, svc: svc, order: f}
}

func sessionReq(t *testing.T, body string) dto.CreateSessionReq {
	t.Helper()
	var req dto.CreateSessionReq
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal %s: %v", body, err)
	}
	return req
}

func TestCreateSessionAmounts(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		paise        int64
		autoDetected bool
	}{
		{"number", `{"amount": 250, "description": "Tea"}`, 25000, false},
		{"decimal number", `{"amount": 99.99, "description": "Tea"}`, 9999, false},
		{"currency string", `{"amount": "₹1,499.50", "description": "Tea"}`, 149950, true},
		{"price text fallback", `{"priceText": "Rs. 500", "description": "Tea"}`, 50000, true},
		{"unparseable amount falls back to price text", `{"amount": "free", "priceText": "₹10", "description": "Tea"}`, 1000, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCheckoutFixture(t, true)
			resp, err := f.svc.CreateSession(context.Background(), nil, sessionReq(t, tt.body), testBaseURL)
			if err != nil {
				t.Fatalf("CreateSession: %v", err)
			}
			if resp.AmountInPaise != tt.paise {
				t.Errorf("amountInPaise = %d, want %d", resp.AmountInPaise, tt.paise)
			}
			if resp.Amount != float64(tt.paise)/100 {
				t.Errorf("amount = %v", resp.Amount)
			}
			if resp.IntegrationInfo.AutoDetected != tt.autoDetected {
				t.Errorf("autoDetected = %v", resp.IntegrationInfo.AutoDetected)
			}
		})
	}
}

func TestCreateSessionResponse(t *testing.T) {
	f := newCheckoutFixture(t, true)
	req := sessionReq(t, `{"amount": 100, "description": "Monthly plan", "itemName": "Pro", "customerEmail": "a@b.co", "callbackUrl": "https://m.example/hook"}`)
	resp, err := f.svc.CreateSession(context.Background(), nil, req, testBaseURL)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if !strings.HasPrefix(resp.OrderID, "ONP-") {
		t.Errorf("orderId = %q", resp.OrderID)
	}
	if resp.PaymentURL != testBaseURL+"/payment/"+resp.OrderID {
		t.Errorf("paymentUrl = %q", resp.PaymentURL)
	}
	if resp.QrCodeURL != testBaseURL+"/v1/checkout/qr/"+resp.OrderID {
		t.Errorf("qrCodeUrl = %q", resp.QrCodeURL)
	}
	if resp.UpiID != "merchant@upi" || resp.Currency != "INR" {
		t.Errorf("upiId = %q currency = %q", resp.UpiID, resp.Currency)
	}
	if resp.Description != "Pro - Monthly plan" || resp.ItemName != "Pro" {
		t.Errorf("description = %q itemName = %q", resp.Description, resp.ItemName)
	}
	if want := fixtureStart.Add(5 * time.Minute).Format("2006-01-02T15:04:05.000Z07:00"); resp.ExpiresAt != want {
		t.Errorf("expiresAt = %q, want %q", resp.ExpiresAt, want)
	}

	stored, _ := f.order.dao.GetByOrderID(context.Background(), resp.OrderID)
	if stored == nil || stored.CustomerEmail == nil || *stored.CustomerEmail != "a@b.co" {
		t.Fatalf("stored = %+v", stored)
	}
	if stored.CallbackURL == nil || *stored.CallbackURL != "https://m.example/hook" {
		t.Errorf("callbackUrl = %v", stored.CallbackURL)
	}
}

func TestCreateSessionUploadedImage(t *testing.T) {
	f := newCheckoutFixture(t, false)
	if err := f.db.Create(&model.QrCode{UpiID: "shop@upi", ImageURL: "/uploads/qr.png", IsActive: true}).Error; err != nil {
		t.Fatal(err)
	}
	resp, err := f.svc.CreateSession(context.Background(), nil, sessionReq(t, `{"amount": 10, "description": "Tea"}`), testBaseURL)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if resp.QrCodeURL != testBaseURL+"/uploads/qr.png" {
		t.Errorf("qrCodeUrl = %q", resp.QrCodeURL)
	}
}

func TestCreateSessionProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("price from product", func(t *testing.T) {
		f := newCheckoutFixture(t, true)
		p := testutil.SeedProduct(t, f.db, "Course", 129900, true)
		body := `{"productId": "` + jsonNumber(p.ID) + `", "itemName": "Course", "description": "Go basics"}`
		resp, err := f.svc.CreateSession(ctx, nil, sessionReq(t, body), testBaseURL)
		if err != nil {
			t.Fatalf("CreateSession: %v", err)
		}
		if resp.AmountInPaise != 129900 || resp.Description != "Course - Go basics" {
			t.Errorf("resp = %+v", resp)
		}
		stored, _ := f.order.dao.GetByOrderID(ctx, resp.OrderID)
		if stored.ProductID == nil || *stored.ProductID != p.ID {
			t.Errorf("productId = %v", stored.ProductID)
		}
	})

	t.Run("explicit amount wins", func(t *testing.T) {
		f := newCheckoutFixture(t, true)
		p := testutil.SeedProduct(t, f.db, "Course", 129900, true)
		body := `{"amount": 5, "productId": ` + jsonNumber(p.ID) + `, "itemName": "X", "description": "Y"}`
		resp, err := f.svc.CreateSession(ctx, nil, sessionReq(t, body), testBaseURL)
		if err != nil {
			t.Fatalf("CreateSession: %v", err)
		}
		if resp.AmountInPaise != 500 || resp.Description != "Y" {
			t.Errorf("resp = %+v", resp)
		}
	})

	t.Run("product name fills description", func(t *testing.T) {
		f := newCheckoutFixture(t, true)
		p := testutil.SeedProduct(t, f.db, "Mug", 49900, true)
		resp, err := f.svc.CreateSession(ctx, nil, sessionReq(t, `{"productId": `+jsonNumber(p.ID)+`}`), testBaseURL)
		if err != nil {
			t.Fatalf("CreateSession: %v", err)
		}
		if resp.Description != "Mug" || resp.AmountInPaise != 49900 {
			t.Errorf("resp = %+v", resp)
		}
	})

	t.Run("item name alone is a description", func(t *testing.T) {
		f := newCheckoutFixture(t, true)
		resp, err := f.svc.CreateSession(ctx, nil, sessionReq(t, `{"amount": 10, "itemName": "Sticker"}`), testBaseURL)
		if err != nil {
			t.Fatalf("CreateSession: %v", err)
		}
		if resp.Description != "Sticker" {
			t.Errorf("description = %q", resp.Description)
		}
	})

	t.Run("inactive product", func(t *testing.T) {
		f := newCheckoutFixture(t, true)
		p := testutil.SeedProduct(t, f.db, "Old", 1000, false)
		_, err := f.svc.CreateSession(ctx, nil, sessionReq(t, `{"productId": `+jsonNumber(p.ID)+`}`), testBaseURL)
		if !constant.IsCode(err, constant.CodeProductNotFound) {
			t.Errorf("got %v", err)
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newCheckoutFixture(t, true)
		_, err := f.svc.CreateSession(ctx, nil, sessionReq(t, `{"productId": 424242}`), testBaseURL)
		if !constant.IsCode(err, constant.CodeProductNotFound) {
			t.Errorf("got %v", err)
		}
	})
}

func jsonNumber(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestCreateSessionRejects(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		withQr bool
		code   int
	}{
		{"no amount", `{"description": "x"}`, true, constant.CodeOrderAmountInvalid},
		{"zero", `{"amount": 0}`, true, constant.CodeOrderAmountInvalid},
		{"negative", `{"amount": -5}`, true, constant.CodeOrderAmountInvalid},
		{"boolean", `{"amount": true}`, true, constant.CodeOrderAmountInvalid},
		{"below minimum", `{"amount": 0.5}`, true, constant.CodeParamsRangeError},
		{"above maximum", `{"amount": 100000.01}`, true, constant.CodeParamsRangeError},
		{"no qr configured", `{"amount": 10, "description": "x"}`, false, constant.CodeGatewayNotConfigured},
		{"no description", `{"amount": 10}`, true, constant.CodeInvalidParams},
		{"blank description", `{"amount": 10, "description": "   "}`, true, constant.CodeInvalidParams},
		{"bad product id", `{"productId": "abc"}`, true, constant.CodeProductInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCheckoutFixture(t, tt.withQr)
			_, err := f.svc.CreateSession(context.Background(), nil, sessionReq(t, tt.body), testBaseURL)
			if !constant.IsCode(err, tt.code) {
				t.Fatalf("got %v, want code %d", err, tt.code)
			}
		})
	}
}

func TestCreateSessionRangeMessage(t *testing.T) {
	f := newCheckoutFixture(t, true)
	_, err := f.svc.CreateSession(context.Background(), nil, sessionReq(t, `{"amount": 200000}`), testBaseURL)
	e, ok := constant.AsError(err)
	if !ok {
		t.Fatalf("got %v", err)
	}
	if e.Message() != "Amount must be between ₹1 and ₹1,00,000" {
		t.Errorf("message = %q", e.Message())
	}
}

func TestStatusAndPaymentPage(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t, true)
	resp, err := f.svc.CreateSession(ctx, nil, sessionReq(t, `{"amount": 42, "description": "Gift"}`), testBaseURL)
	if err != nil {
		t.Fatal(err)
	}

	st, err := f.svc.Status(ctx, resp.OrderID)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Status != "pending" || st.Amount != 4200 || st.OrderID != resp.OrderID {
		t.Errorf("status = %+v", st)
	}

	page, err := f.svc.PaymentPage(ctx, resp.OrderID, testBaseURL)
	if err != nil {
		t.Fatalf("PaymentPage: %v", err)
	}
	if page.UpiID != "merchant@upi" || page.HasUTR || page.Description != "Gift" {
		t.Errorf("page = %+v", page)
	}
	if !strings.HasPrefix(page.UpiURI, "upi://pay?") || !strings.Contains(page.UpiURI, "am=42.00") {
		t.Errorf("upiUri = %q", page.UpiURI)
	}

	f.order.clock.Advance(5 * time.Minute)
	st, err = f.svc.Status(ctx, resp.OrderID)
	if err != nil {
		t.Fatal(err)
	}
	if st.Status != "expired" {
		t.Errorf("status after ttl = %s", st.Status)
	}

	if _, err := f.svc.Status(ctx, "ONP-404"); !constant.IsCode(err, constant.CodeOrderNotFound) {
		t.Errorf("unknown: %v", err)
	}
}

func TestQRImage(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t, true)
	resp, err := f.svc.CreateSession(ctx, nil, sessionReq(t, `{"amount": 10, "description": "Tea"}`), testBaseURL)
	if err != nil {
		t.Fatal(err)
	}

	png, err := f.svc.QRImage(ctx, resp.OrderID, 256)
	if err != nil {
		t.Fatalf("QRImage: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("not a png")
	}

	if _, err := f.order.svc.Approve(ctx, resp.OrderID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.QRImage(ctx, resp.OrderID, 256); !constant.IsCode(err, constant.CodeOrderStatusInvalid) {
		t.Errorf("approved order: %v", err)
	}
}

func TestSubmitTrimsInput(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t, true)
	resp, err := f.svc.CreateSession(ctx, nil, sessionReq(t, `{"amount": 10, "description": "Tea"}`), testBaseURL)
	if err != nil {
		t.Fatal(err)
	}
	o, err := f.svc.Submit(ctx, dto.SubmitUTRReq{OrderID: " " + resp.OrderID + " ", UTR: " 123456789012 "})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if o.UTR == nil || *o.UTR != "123456789012" {
		t.Errorf("utr = %v", o.UTR)
	}
}
