package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MikeMC777/checkout-ecom/internal/checkout"
	ord "github.com/MikeMC777/checkout-ecom/internal/order"
	"github.com/MikeMC777/checkout-ecom/internal/postgres"
)

//
// ---------- STUBS & FAKES ----------
//

type stubPlacer struct {
	orderID string
	err     error

	gotBuyer string
	gotReq   *checkout.PlaceOrderRequest
}

func (s *stubPlacer) PlaceOrder(ctx context.Context, buyerID string, req *checkout.PlaceOrderRequest) (string, error) {
	s.gotBuyer = buyerID
	s.gotReq = req
	return s.orderID, s.err
}

// stubOrderRepo implements ord.Repository in memory.
type stubOrderRepo struct {
	detail    *ord.Detail
	summaries []ord.Summary
	total     int
	err       error
}

func (s *stubOrderRepo) Insert(ctx context.Context, q postgres.Querier, o *ord.Order, lines []ord.Line) error {
	return fmt.Errorf("not implemented")
}

func (s *stubOrderRepo) ListByBuyer(ctx context.Context, q postgres.Querier, buyerID string, page int) ([]ord.Summary, int, error) {
	return s.summaries, s.total, s.err
}

func (s *stubOrderRepo) GetDetail(ctx context.Context, q postgres.Querier, buyerID, orderID string) (*ord.Detail, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.detail == nil || s.detail.Order.ID != orderID {
		return nil, ord.ErrNotFound
	}
	return s.detail, nil
}

func doRequest(r *gin.Engine, method, path, body, userID string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	r.ServeHTTP(w, req)
	return w
}

func placeBody(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf(`{
		"shipping_name": "Ana Torres",
		"shipping_phone": "0912345678",
		"shipping_address": "Av. Siempre Viva 742",
		"payment_method_id": 1,
		"order_items": [{"product_id": %q, "variant_id": %q, "quantity": 2}]
	}`, uuid.NewString(), uuid.NewString())
}

//
// ---------- TESTS ----------
//

func TestCreateOrder_Created(t *testing.T) {
	t.Parallel()

	placer := &stubPlacer{orderID: uuid.NewString()}
	r := gin.New()
	r.POST("/orders", createOrderHandler(placer))

	buyer := uuid.NewString()
	w := doRequest(r, http.MethodPost, "/orders", placeBody(t), buyer)

	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		OrderID string `json:"order_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.OrderID != placer.orderID {
		t.Errorf("order_id=%q, quería %q", resp.OrderID, placer.orderID)
	}
	if placer.gotBuyer != buyer {
		t.Errorf("buyer=%q, quería %q", placer.gotBuyer, buyer)
	}
	if placer.gotReq == nil || len(placer.gotReq.OrderItems) != 1 {
		t.Errorf("request no llegó completo: %+v", placer.gotReq)
	}
}

func TestCreateOrder_MissingIdentity(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.POST("/orders", createOrderHandler(&stubPlacer{}))

	w := doRequest(r, http.MethodPost, "/orders", placeBody(t), "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, esperaba 401", w.Code)
	}
}

func TestCreateOrder_MalformedIdentity(t *testing.T) {
	t.Parallel()

	placer := &stubPlacer{orderID: uuid.NewString()}
	r := gin.New()
	r.POST("/orders", createOrderHandler(placer))

	// un id que no es uuid no debe llegar a la columna uuid de orders
	w := doRequest(r, http.MethodPost, "/orders", placeBody(t), "not-a-uuid")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, esperaba 401", w.Code)
	}
	if placer.gotReq != nil {
		t.Error("el servicio no debe recibir una identidad inválida")
	}
}

func TestCreateOrder_BadJSON(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.POST("/orders", createOrderHandler(&stubPlacer{}))

	w := doRequest(r, http.MethodPost, "/orders", `{"order_items": "nope"`, uuid.NewString())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, esperaba 400", w.Code)
	}
}

func TestCreateOrder_ErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"invalid input", fmt.Errorf("shipping_phone: %w", checkout.ErrInvalidInput), http.StatusBadRequest, "shipping_phone"},
		{"not found", fmt.Errorf("product abc: %w", checkout.ErrNotFound), http.StatusNotFound, "product abc"},
		{"conflict", fmt.Errorf("variant xyz: %w", checkout.ErrInsufficientStock), http.StatusConflict, "variant xyz"},
		{"internal", fmt.Errorf("commit: connection reset"), http.StatusInternalServerError, "internal error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/orders", createOrderHandler(&stubPlacer{err: tc.err}))

			w := doRequest(r, http.MethodPost, "/orders", placeBody(t), uuid.NewString())
			if w.Code != tc.wantStatus {
				t.Fatalf("status=%d, esperaba %d", w.Code, tc.wantStatus)
			}
			if !bytes.Contains(w.Body.Bytes(), []byte(tc.wantBody)) {
				t.Errorf("body=%s, esperaba que contenga %q", w.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestCreateOrder_InternalDoesNotLeak(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.POST("/orders", createOrderHandler(&stubPlacer{err: fmt.Errorf("pq: relation orders does not exist")}))

	w := doRequest(r, http.MethodPost, "/orders", placeBody(t), uuid.NewString())
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d, esperaba 500", w.Code)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("relation")) {
		t.Errorf("body=%s, filtra detalle interno", w.Body.String())
	}
}

func TestListOrders_OK(t *testing.T) {
	t.Parallel()

	repo := &stubOrderRepo{
		summaries: []ord.Summary{{
			OrderID:   uuid.NewString(),
			Status:    ord.StatusPending,
			Subtotal:  "2400",
			Payment:   "credit card",
			CreatedAt: time.Now(),
		}},
		total: 1,
	}
	r := gin.New()
	r.GET("/orders", listOrdersHandler(repo, nil))

	w := doRequest(r, http.MethodGet, "/orders?page=1", "", uuid.NewString())
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Orders     []ord.Summary `json:"orders"`
		Pagination struct {
			Page  int `json:"page"`
			Limit int `json:"limit"`
			Total int `json:"total"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Orders) != 1 || resp.Pagination.Total != 1 || resp.Pagination.Limit != 10 {
		t.Errorf("resp inesperada: %+v", resp)
	}
}

func TestListOrders_BadPage(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.GET("/orders", listOrdersHandler(&stubOrderRepo{}, nil))

	for _, page := range []string{"abc", "-1", "0", "1.5"} {
		w := doRequest(r, http.MethodGet, "/orders?page="+page, "", uuid.NewString())
		if w.Code != http.StatusBadRequest {
			t.Errorf("page=%q: status=%d, esperaba 400", page, w.Code)
		}
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.GET("/orders/:order_id", getOrderHandler(&stubOrderRepo{}, nil))

	w := doRequest(r, http.MethodGet, "/orders/"+uuid.NewString(), "", uuid.NewString())
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d, esperaba 404", w.Code)
	}
}

func TestGetOrder_BadID(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.GET("/orders/:order_id", getOrderHandler(&stubOrderRepo{}, nil))

	w := doRequest(r, http.MethodGet, "/orders/not-a-uuid", "", uuid.NewString())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, esperaba 400", w.Code)
	}
}

func TestGetOrder_OK(t *testing.T) {
	t.Parallel()

	oid := uuid.NewString()
	repo := &stubOrderRepo{detail: &ord.Detail{
		Order: ord.Order{
			ID:       oid,
			Status:   ord.StatusPending,
			Subtotal: "2400",
		},
		Payment: "ATM",
		Lines: []ord.DetailLine{{
			ProductName: "Mecanical Keyboard",
			OptionName:  "color",
			Value:       "black",
			Quantity:    3,
			UnitPrice:   "800",
			Subtotal:    "2400",
		}},
	}}
	r := gin.New()
	r.GET("/orders/:order_id", getOrderHandler(repo, nil))

	w := doRequest(r, http.MethodGet, "/orders/"+oid, "", uuid.NewString())
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("Mecanical Keyboard")) {
		t.Errorf("body=%s, falta el detalle de items", w.Body.String())
	}
}

func init() {
	gin.SetMode(gin.TestMode)
}
