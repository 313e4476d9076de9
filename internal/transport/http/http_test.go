package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/corray333/backend-labs/lanchonete/internal/service/apperr"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/currency"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/order"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/payment"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/product"
	"github.com/corray333/backend-labs/lanchonete/internal/service/services/paymentsvc"
	"github.com/corray333/backend-labs/lanchonete/internal/transport/http/auth"
	"github.com/corray333/backend-labs/lanchonete/pkg/authtoken"
	"github.com/stretchr/testify/suite"
)

const customerCPF = "52998224725"

// fakeOrders records the last call. Methods a test does not need panic through the nil embedded interface.
type fakeOrders struct {
	orderService
	created    order.CreateOrderModel
	changed    string
	byStatus   string
	orders     map[int64]order.Order
	payerEmail string
}

func (f *fakeOrders) Create(_ context.Context, model order.CreateOrderModel) (order.Order, error) {
	f.created = model
	if len(model.Items) == 0 {
		return order.Order{}, apperr.Validation("order must have at least one item")
	}

	return order.Order{
		ID:         1,
		Status:     order.StatusPending,
		TotalCents: 1198,
		Currency:   currency.CurrencyBRL,
		Items: []orderitem.OrderItem{
			{ProductID: 1, Quantity: 2, ProductName: "Batata frita", SalePriceCents: 599},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

func (f *fakeOrders) Get(_ context.Context, id int64) (order.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return order.Order{}, apperr.NotFound("order with id '%d' does not exist", id)
	}

	return o, nil
}

func (f *fakeOrders) GetAllByStatus(_ context.Context, status string) ([]order.Order, error) {
	f.byStatus = status
	if _, err := order.ParseStatus(status); err != nil {
		return nil, apperr.Validation("invalid status")
	}

	return nil, nil
}

func (f *fakeOrders) ChangeStatus(_ context.Context, id int64, newStatus string) (order.Order, error) {
	f.changed = newStatus
	o, ok := f.orders[id]
	if !ok {
		return order.Order{}, apperr.NotFound("order with id '%d' does not exist", id)
	}
	o.Status = order.Status(newStatus)

	return o, nil
}

func (f *fakeOrders) RequestPayment(_ context.Context, id int64, payerEmail string) (order.Order, error) {
	f.payerEmail = payerEmail

	return f.Get(context.Background(), id)
}

func (f *fakeOrders) ListStatuses() []order.Status {
	return order.Statuses
}

type fakePayments struct {
	paymentService
	ids []string
}

func (f *fakePayments) HandleWebhook(_ context.Context, id string) (paymentsvc.WebhookResult, error) {
	f.ids = append(f.ids, id)
	if id == "" {
		return paymentsvc.WebhookResult{Message: paymentsvc.WebhookActive}, nil
	}

	return paymentsvc.WebhookResult{Payment: id, Status: payment.StatusApproved}, nil
}

type fakeProducts struct {
	productService
	saved product.Product
}

func (f *fakeProducts) Save(_ context.Context, p product.Product) (product.Product, error) {
	p.ID = 3
	f.saved = p

	return p, nil
}

func (f *fakeProducts) Update(_ context.Context, p product.Product) (product.Product, error) {
	f.saved = p

	return p, nil
}

type HTTPTransportSuite struct {
	suite.Suite
	handler  http.Handler
	orders   *fakeOrders
	products *fakeProducts
	payments *fakePayments
	token    string
}

func (s *HTTPTransportSuite) SetupTest() {
	codec := authtoken.NewCodec("secret", "lanchonete", time.Hour)
	token, err := codec.Issue(authtoken.Identity{CustomerID: 7, CPF: customerCPF, Email: "ana@example.com"})
	s.Require().NoError(err)

	s.orders = &fakeOrders{orders: map[int64]order.Order{
		5: {ID: 5, Status: order.StatusPending, Payment: payment.Payment{QRCode: "00020126580014br.gov.bcb.pix"}},
		6: {ID: 6, Status: order.StatusPending},
	}}
	s.products = &fakeProducts{}
	s.payments = &fakePayments{}
	s.token = token

	tr := NewHTTPTransport(Services{Orders: s.orders, Products: s.products, Payments: s.payments, Tokens: codec})
	tr.RegisterRoutes()
	s.handler = tr.Handler()
}

func (s *HTTPTransportSuite) SetupSubTest() {
	s.SetupTest()
}

func (s *HTTPTransportSuite) do(method, path, body string, withToken bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if withToken {
		req.Header.Set(auth.Header, s.token)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)

	return w
}

func (s *HTTPTransportSuite) TestCreateOrder() {
	w := s.do(http.MethodPost, "/api/orders", `{"items":[{"productId":1,"amount":2}]}`, false)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		Total     json.Number `json:"total"`
		Status    string      `json:"status"`
		AwaitTime string      `json:"awaitTime"`
		Items     []struct {
			Amount    int         `json:"amount"`
			SalePrice json.Number `json:"salePrice"`
		} `json:"items"`
	}
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&body))
	s.Equal(json.Number("11.98"), body.Total)
	s.Equal("Pending", body.Status)
	s.Equal("0 minuto(s)", body.AwaitTime)
	s.Require().Len(body.Items, 1)
	s.Equal(2, body.Items[0].Amount)
	s.Equal(json.Number("5.99"), body.Items[0].SalePrice)
	s.Empty(s.orders.created.CustomerCPF, "anonymous order")
}

func (s *HTTPTransportSuite) TestCreateOrder_AsCustomer() {
	w := s.do(http.MethodPost, "/api/orders", `{"items":[{"productId":1,"amount":1}]}`, true)
	s.Require().Equal(http.StatusCreated, w.Code)
	s.Equal(customerCPF, s.orders.created.CustomerCPF)
}

func (s *HTTPTransportSuite) TestCreateOrder_Errors() {
	s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/api/orders", `{"items":[]}`, false).Code)
	s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/api/orders", `not json`, false).Code)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(`{"items":[]}`))
	req.Header.Set(auth.Header, "forged")
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HTTPTransportSuite) TestCreateProduct_DecimalPrice() {
	cases := []struct {
		name  string
		price string
		code  int
		cents int64
		view  json.Number
	}{
		{"number", `5.99`, http.StatusCreated, 599, "5.99"},
		{"string", `"12.5"`, http.StatusCreated, 1250, "12.50"},
		{"rounds half up", `5.995`, http.StatusCreated, 600, "6.00"},
		{"no float drift", `2.675`, http.StatusCreated, 268, "2.68"},
		{"zero", `0`, http.StatusBadRequest, 0, ""},
		{"negative", `-1`, http.StatusBadRequest, 0, ""},
		{"out of range", `1e17`, http.StatusBadRequest, 0, ""},
	}

	for _, c := range cases {
		s.Run(c.name, func() {
			body := `{"name":"Batata frita","description":"Porção média","categoryId":2,"price":` + c.price + `}`
			w := s.do(http.MethodPost, "/api/products", body, true)
			s.Require().Equal(c.code, w.Code, w.Body.String())
			if c.code != http.StatusCreated {
				s.Zero(s.products.saved.ID, "nothing may be saved")

				return
			}

			s.Equal(c.cents, s.products.saved.PriceCents)

			var got struct {
				Price json.Number `json:"price"`
			}
			s.Require().NoError(json.NewDecoder(w.Body).Decode(&got))
			s.Equal(c.view, got.Price)
		})
	}
}

func (s *HTTPTransportSuite) TestUpdateProduct_DecimalPrice() {
	body := `{"name":"Coca-cola","description":"Lata","categoryId":3,"price":"8.99"}`
	w := s.do(http.MethodPut, "/api/products/9", body, true)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal(int64(9), s.products.saved.ID)
	s.Equal(int64(899), s.products.saved.PriceCents)
}

func (s *HTTPTransportSuite) TestChangeStatus() {
	s.Equal(http.StatusUnauthorized, s.do(http.MethodPatch, "/api/orders/6/status", `{"status":"Received"}`, false).Code)

	w := s.do(http.MethodPatch, "/api/orders/6/status", `{"status":"Received"}`, true)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("Received", s.orders.changed)

	s.Equal(http.StatusNotFound, s.do(http.MethodPatch, "/api/orders/99/status", `{"status":"Received"}`, true).Code)
	s.Equal(http.StatusBadRequest, s.do(http.MethodPatch, "/api/orders/abc/status", `{"status":"Received"}`, true).Code)
}

func (s *HTTPTransportSuite) TestOrdersByStatus() {
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/orders/by-status?status=Ready", "", true).Code)
	s.Equal("Ready", s.orders.byStatus)
	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/api/orders/by-status?status=Lost", "", true).Code)
}

func (s *HTTPTransportSuite) TestListStatuses() {
	w := s.do(http.MethodGet, "/api/orders/statuses", "", false)

	var got []string
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&got))
	s.Require().Len(got, 6)
	s.Equal("Pending", got[0])
}

func (s *HTTPTransportSuite) TestRequestPayment_UsesTokenEmail() {
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/orders/5/payment", "", true).Code)
	s.Equal("ana@example.com", s.orders.payerEmail)

	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/orders/5/payment", `{"email":"bia@example.com"}`, true).Code)
	s.Equal("bia@example.com", s.orders.payerEmail)
}

func (s *HTTPTransportSuite) TestPaymentQRCode() {
	w := s.do(http.MethodGet, "/api/orders/5/payment/qrcode", "", false)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("image/png", w.Header().Get("Content-Type"))
	s.True(bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")), "PNG signature")

	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/api/orders/6/payment/qrcode", "", false).Code)
}

func (s *HTTPTransportSuite) TestPaymentWebhook() {
	cases := []struct {
		path, body, id string
	}{
		{"/api/payments/webhook", "", ""},
		{"/api/payments/webhook?data.id=123&type=payment", "", "123"},
		{"/api/payments/webhook", `{"type":"payment","data":{"id":"456"}}`, "456"},
		{"/api/payments/webhook", `{"type":"payment","data":{"id":789}}`, "789"},
	}

	want := make([]string, 0, len(cases))
	for _, tc := range cases {
		s.Equal(http.StatusOK, s.do(http.MethodPost, tc.path, tc.body, false).Code, "%s %s", tc.path, tc.body)
		want = append(want, tc.id)
	}
	s.Equal(want, s.payments.ids)
}

func (s *HTTPTransportSuite) TestCustomerRoutesRequireOwner() {
	s.Equal(http.StatusForbidden, s.do(http.MethodGet, "/api/customers/11144477735/orders", "", true).Code)
	s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/api/customers/"+customerCPF+"/orders", "", false).Code)
}

func (s *HTTPTransportSuite) TestSwaggerDoc() {
	w := s.do(http.MethodGet, "/swagger/doc.json", "", false)
	s.Require().Equal(http.StatusOK, w.Code)

	var doc map[string]any
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&doc))
	s.Equal("3.0.3", doc["openapi"])
}

func TestHTTPTransport(t *testing.T) {
	suite.Run(t, new(HTTPTransportSuite))
}
