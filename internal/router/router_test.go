package router

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"onionpay-api/internal/app"
	"onionpay-api/internal/callback"
	"onionpay-api/internal/constant"
	"onionpay-api/internal/testutil"
	"onionpay-api/internal/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type env struct {
	t     *testing.T
	app   *app.App
	r     *gin.Engine
	admin string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	a := app.New(app.Options{Config: testutil.Config(t), DB: testutil.NewDB(t)})
	return &env{t: t, app: a, r: New(a), admin: testutil.AdminToken(t, "admin-1", "admin@example.com")}
}

func (e *env) do(method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	e.t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			e.t.Fatal(err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func (e *env) adminHeaders() map[string]string {
	return map[string]string{"Authorization": "Bearer " + e.admin}
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
}

func (e *env) issueKey(tier string) string {
	e.t.Helper()
	w := e.do(http.MethodPost, "/api/api-keys", map[string]string{"name": tier + " key", "type": tier}, e.adminHeaders())
	if w.Code != http.StatusOK {
		e.t.Fatalf("issue key: %d %s", w.Code, w.Body.String())
	}
	var resp struct {
		Key string `json:"key"`
	}
	decode(e.t, w, &resp)
	return resp.Key
}

func (e *env) uploadQr(upiID string, image []byte) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("upiId", upiID)
	if image != nil {
		fw, err := mw.CreateFormFile("qrImage", "qr.png")
		if err != nil {
			e.t.Fatal(err)
		}
		_, _ = fw.Write(image)
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/qr-code", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+e.admin)
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"traceId"`
}

func TestHealthzAndNotFound(t *testing.T) {
	e := newEnv(t)
	if w := e.do(http.MethodGet, "/healthz", nil, nil); w.Code != http.StatusOK {
		t.Errorf("healthz = %d", w.Code)
	}

	w := e.do(http.MethodGet, "/api/nope", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	var body errorBody
	decode(t, w, &body)
	if body.Code != 1007 || body.Message != "Not Found" || body.TraceID == "" {
		t.Errorf("body = %+v", body)
	}
	if w.Header().Get("X-Trace-ID") != body.TraceID {
		t.Errorf("trace header mismatch")
	}
}

func TestCheckoutFlow(t *testing.T) {
	e := newEnv(t)

	var hookMu sync.Mutex
	var hookBody callback.WebhookPayload
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hookMu.Lock()
		defer hookMu.Unlock()
		_ = json.NewDecoder(r.Body).Decode(&hookBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer hook.Close()

	if w := e.uploadQr("merchant@upi", nil); w.Code != http.StatusOK {
		t.Fatalf("qr upload: %d %s", w.Code, w.Body.String())
	}
	pk := e.issueKey("publishable")
	sk := e.issueKey("secret")

	w := e.do(http.MethodPost, "/v1/checkout/sessions", map[string]interface{}{
		"amount":      "₹249",
		"description": "Sticker pack",
		"callbackUrl": hook.URL,
	}, map[string]string{"Authorization": "Bearer " + pk})
	if w.Code != http.StatusOK {
		t.Fatalf("create session: %d %s", w.Code, w.Body.String())
	}
	var session struct {
		OrderID       string `json:"orderId"`
		PaymentURL    string `json:"paymentUrl"`
		AmountInPaise int64  `json:"amountInPaise"`
	}
	decode(t, w, &session)
	if session.AmountInPaise != 24900 || session.PaymentURL != "http://example.com/payment/"+session.OrderID {
		t.Fatalf("session = %+v", session)
	}

	w = e.do(http.MethodGet, "/v1/checkout/status/"+session.OrderID, nil, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"pending"`) {
		t.Fatalf("status: %d %s", w.Code, w.Body.String())
	}

	w = e.do(http.MethodPost, "/v1/checkout/submit", map[string]string{"orderId": session.OrderID, "utr": "412345678901"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("submit: %d %s", w.Code, w.Body.String())
	}
	var ack utils.MessageResponse
	decode(t, w, &ack)
	if ack.Message != "Payment proof submitted successfully" || ack.OrderID != session.OrderID {
		t.Errorf("ack = %+v", ack)
	}

	w = e.do(http.MethodGet, "/api/dashboard/pending-orders", nil, e.adminHeaders())
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), session.OrderID) {
		t.Fatalf("pending orders: %d %s", w.Code, w.Body.String())
	}

	w = e.do(http.MethodPost, "/api/dashboard/approve-payment/"+session.OrderID, nil, e.adminHeaders())
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"approved"`) {
		t.Fatalf("approve: %d %s", w.Code, w.Body.String())
	}
	w = e.do(http.MethodPost, "/api/dashboard/approve-payment/"+session.OrderID, nil, e.adminHeaders())
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "Order is not pending") {
		t.Errorf("second approve: %d %s", w.Code, w.Body.String())
	}

	e.app.Webhook.Wait()
	hookMu.Lock()
	if hookBody.OrderID != session.OrderID || hookBody.Status != "approved" || hookBody.Amount != 24900 {
		t.Errorf("webhook payload = %+v", hookBody)
	}
	hookMu.Unlock()

	w = e.do(http.MethodGet, "/v1/orders/"+session.OrderID, nil, map[string]string{"X-API-Key": pk})
	if w.Code != http.StatusForbidden {
		t.Errorf("publishable on server route: %d", w.Code)
	}
	w = e.do(http.MethodGet, "/v1/orders/"+session.OrderID, nil, map[string]string{"X-API-Key": sk})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"utr":"412345678901"`) {
		t.Errorf("server order lookup: %d %s", w.Code, w.Body.String())
	}

	w = e.do(http.MethodGet, "/api/dashboard/stats", nil, e.adminHeaders())
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"successfulPayments":1`) {
		t.Errorf("stats: %d %s", w.Code, w.Body.String())
	}
}

func TestCreateSessionRequiresDescription(t *testing.T) {
	e := newEnv(t)
	if w := e.uploadQr("merchant@upi", nil); w.Code != http.StatusOK {
		t.Fatalf("qr upload: %d %s", w.Code, w.Body.String())
	}
	pk := e.issueKey("publishable")

	for _, body := range []map[string]interface{}{
		{"amount": 100},
		{"amount": 100, "description": "  "},
	} {
		w := e.do(http.MethodPost, "/v1/checkout/sessions", body, map[string]string{"X-API-Key": pk})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%v: status = %d (%s)", body, w.Code, w.Body.String())
		}
		var eb errorBody
		decode(t, w, &eb)
		if eb.Code != constant.CodeInvalidParams || eb.Message != "Description is required" {
			t.Errorf("%v: body = %+v", body, eb)
		}
	}

	w := e.do(http.MethodPost, "/v1/checkout/sessions", map[string]interface{}{"amount": 100, "description": "Widget"}, map[string]string{"X-API-Key": pk})
	if w.Code != http.StatusOK {
		t.Fatalf("with description: %d %s", w.Code, w.Body.String())
	}
}

func TestLegacyRoutes(t *testing.T) {
	e := newEnv(t)
	e.uploadQr("merchant@upi", nil)
	pk := e.issueKey("publishable")
	sk := e.issueKey("secret")

	body := map[string]interface{}{"amount": 10, "description": "legacy"}
	if w := e.do(http.MethodPost, "/api/onionpay/initiate", body, map[string]string{"X-API-Key": pk}); w.Code != http.StatusForbidden {
		t.Errorf("initiate with publishable key: %d", w.Code)
	}
	w := e.do(http.MethodPost, "/api/onionpay/initiate", body, map[string]string{"X-API-Key": sk})
	if w.Code != http.StatusOK {
		t.Fatalf("initiate: %d %s", w.Code, w.Body.String())
	}
	var session struct {
		OrderID string `json:"orderId"`
	}
	decode(t, w, &session)

	if w := e.do(http.MethodGet, "/api/onionpay/status/"+session.OrderID, nil, nil); w.Code != http.StatusOK {
		t.Errorf("legacy status: %d", w.Code)
	}
	if w := e.do(http.MethodPost, "/api/onionpay/submit", map[string]string{"orderId": session.OrderID, "utr": "UTR12345678"}, nil); w.Code != http.StatusOK {
		t.Errorf("legacy submit: %d %s", w.Code, w.Body.String())
	}
}

func TestAuthErrors(t *testing.T) {
	e := newEnv(t)
	tests := []struct {
		name    string
		method  string
		path    string
		headers map[string]string
		status  int
		code    int
	}{
		{"session without key", http.MethodPost, "/v1/checkout/sessions", nil, http.StatusUnauthorized, 1200},
		{"session with malformed key", http.MethodPost, "/v1/checkout/sessions", map[string]string{"X-API-Key": "sk_live_123"}, http.StatusUnauthorized, 2004},
		{"admin without token", http.MethodGet, "/api/api-keys", nil, http.StatusUnauthorized, 1202},
		{"admin with bad token", http.MethodGet, "/api/api-keys", map[string]string{"Authorization": "Bearer abc.def.ghi"}, http.StatusUnauthorized, 1202},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.do(tt.method, tt.path, `{}`, tt.headers)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.status, w.Body.String())
			}
			var body errorBody
			decode(t, w, &body)
			if body.Code != tt.code {
				t.Errorf("code = %d, want %d", body.Code, tt.code)
			}
		})
	}
}

func TestSubmitValidationAndRateLimit(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodPost, "/v1/checkout/submit", map[string]string{"orderId": "ONP-1-x", "utr": "123"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("short utr: %d", w.Code)
	}
	var body errorBody
	decode(t, w, &body)
	if !strings.Contains(body.Message, "utr must be at least 8 characters") {
		t.Errorf("message = %q", body.Message)
	}

	// burst 为 3，第一次请求已消耗一个令牌
	codes := []int{}
	for i := 0; i < 3; i++ {
		w := e.do(http.MethodPost, "/v1/checkout/submit", map[string]string{"orderId": "ONP-1-x", "utr": "123456789"}, nil)
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusNotFound || codes[1] != http.StatusNotFound || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v", codes)
	}
}

func TestApiKeyManagement(t *testing.T) {
	e := newEnv(t)
	e.issueKey("secret")

	w := e.do(http.MethodPost, "/api/api-keys", map[string]string{"type": "live"}, e.adminHeaders())
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad type: %d %s", w.Code, w.Body.String())
	}

	w = e.do(http.MethodGet, "/api/api-keys", nil, e.adminHeaders())
	var keys []struct {
		ID   uint   `json:"id"`
		Type string `json:"type"`
	}
	decode(t, w, &keys)
	if len(keys) != 1 || keys[0].Type != "secret" {
		t.Fatalf("keys = %+v", keys)
	}

	other := testutil.AdminToken(t, "admin-2", "other@example.com")
	path := "/api/api-keys/" + jsonID(keys[0].ID)
	if w := e.do(http.MethodDelete, path, nil, map[string]string{"Authorization": "Bearer " + other}); w.Code != http.StatusOK {
		t.Errorf("foreign revoke: %d", w.Code)
	}
	w = e.do(http.MethodGet, "/api/api-keys", nil, e.adminHeaders())
	decode(t, w, &keys)
	if len(keys) != 1 {
		t.Fatalf("foreign revoke removed key")
	}

	if w := e.do(http.MethodDelete, path, nil, e.adminHeaders()); w.Code != http.StatusOK {
		t.Errorf("revoke: %d", w.Code)
	}
	w = e.do(http.MethodGet, "/api/api-keys", nil, e.adminHeaders())
	decode(t, w, &keys)
	if len(keys) != 0 {
		t.Errorf("revoked key still listed")
	}
}

func jsonID(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestProductsAndUser(t *testing.T) {
	e := newEnv(t)

	w := e.do(http.MethodGet, "/api/auth/user", nil, e.adminHeaders())
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"email":"admin@example.com"`) {
		t.Fatalf("auth user: %d %s", w.Code, w.Body.String())
	}

	w = e.do(http.MethodPost, "/api/products", map[string]interface{}{"name": "Mug", "price": 349.5}, e.adminHeaders())
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"price":34950`) {
		t.Fatalf("create product: %d %s", w.Code, w.Body.String())
	}
	var p struct {
		ID uint `json:"id"`
	}
	decode(t, w, &p)

	w = e.do(http.MethodPut, "/api/products/"+jsonID(p.ID), map[string]interface{}{"description": "Ceramic"}, e.adminHeaders())
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"description":"Ceramic"`) {
		t.Errorf("update product: %d %s", w.Code, w.Body.String())
	}
	if w := e.do(http.MethodDelete, "/api/products/"+jsonID(p.ID), nil, e.adminHeaders()); w.Code != http.StatusOK {
		t.Errorf("delete product: %d", w.Code)
	}
	if w := e.do(http.MethodGet, "/api/products/"+jsonID(p.ID), nil, e.adminHeaders()); w.Code != http.StatusNotFound {
		t.Errorf("get deleted product: %d", w.Code)
	}
}

func TestQrUploadServedWithCacheHeader(t *testing.T) {
	e := newEnv(t)
	png, err := utils.RenderQRPNG("upi://pay?pa=shop@upi", 128)
	if err != nil {
		t.Fatal(err)
	}
	w := e.uploadQr("shop@upi", png)
	if w.Code != http.StatusOK {
		t.Fatalf("upload: %d %s", w.Code, w.Body.String())
	}
	var qr struct {
		ImageURL string `json:"imageUrl"`
	}
	decode(t, w, &qr)

	w = e.do(http.MethodGet, qr.ImageURL, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET %s: %d", qr.ImageURL, w.Code)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "public, max-age=31536000" {
		t.Errorf("Cache-Control = %q", cc)
	}

	if w := e.uploadQr("", nil); w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "UPI ID is required") {
		t.Errorf("missing upi: %d %s", w.Code, w.Body.String())
	}
	if w := e.uploadQr("x@upi", []byte("plain text")); w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "Only image files are allowed") {
		t.Errorf("text upload: %d %s", w.Code, w.Body.String())
	}
}

func TestCORS(t *testing.T) {
	e := newEnv(t)
	w := e.do(http.MethodOptions, "/v1/checkout/sessions", nil, map[string]string{
		"Origin":                        "https://shop.example",
		"Access-Control-Request-Method": "POST",
	})
	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q", got)
	}
}
