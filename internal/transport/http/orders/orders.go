package orders

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/lanchonete/internal/service/apperr"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/order"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/lanchonete/internal/transport/http/auth"
	"github.com/corray333/backend-labs/lanchonete/internal/transport/http/respond"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
	"github.com/skip2/go-qrcode"
)

// qrSize is the side of the QR PNG in pixels.
const qrSize = 256

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

type service interface {
	Create(ctx context.Context, model order.CreateOrderModel) (order.Order, error)
	Get(ctx context.Context, id int64) (order.Order, error)
	ListActive(ctx context.Context) ([]order.Order, error)
	ListByCustomer(ctx context.Context, cpf string) ([]order.Order, error)
	GetAllByStatus(ctx context.Context, status string) ([]order.Order, error)
	GetStatus(ctx context.Context, id int64) (order.Status, error)
	ListStatuses() []order.Status
	ChangeStatus(ctx context.Context, id int64, newStatus string) (order.Order, error)
	RequestPayment(ctx context.Context, id int64, payerEmail string) (order.Order, error)
}

type itemRequest struct {
	ProductID int64 `json:"productId"`
	Amount    int   `json:"amount"`
}

// createRequest items are checked by the service so that every item error carries its own message.
type createRequest struct {
	Items []itemRequest `json:"items"`
	CPF   string        `json:"cpf"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type paymentRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
}

type byStatusQuery struct {
	Status string `schema:"status"`
}

type statusView struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// Create places an order. A caller with a token orders as that customer.
func Create(w http.ResponseWriter, r *http.Request, service service) {
	var req createRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)

		return
	}

	model := order.CreateOrderModel{
		Items:       make([]orderitem.OrderItem, 0, len(req.Items)),
		CustomerCPF: req.CPF,
	}
	if id, ok := auth.FromContext(r.Context()); ok {
		model.CustomerCPF = id.CPF
	}
	for _, it := range req.Items {
		model.Items = append(model.Items, orderitem.OrderItem{ProductID: it.ProductID, Quantity: it.Amount})
	}

	o, err := service.Create(r.Context(), model)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusCreated, toView(o))
}

// List returns the orders still being worked on, kitchen priority first.
func List(w http.ResponseWriter, r *http.Request, service service) {
	list, err := service.ListActive(r.Context())
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, toViews(list))
}

func Statuses(w http.ResponseWriter, _ *http.Request, service service) {
	respond.JSON(w, http.StatusOK, service.ListStatuses())
}

func ByStatus(w http.ResponseWriter, r *http.Request, service service) {
	var q byStatusQuery
	if err := decoder.Decode(&q, r.URL.Query()); err != nil {
		respond.Error(w, r, apperr.Validation("invalid query"))

		return
	}

	list, err := service.GetAllByStatus(r.Context(), q.Status)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, toViews(list))
}

// ByCustomer serves /customers/{cpf}/orders for the owner of the CPF.
func ByCustomer(w http.ResponseWriter, r *http.Request, service service) {
	cpf := chi.URLParam(r, "cpf")
	if !auth.Owns(r.Context(), cpf) {
		respond.Fail(w, r, http.StatusForbidden, "forbidden")

		return
	}

	list, err := service.ListByCustomer(r.Context(), cpf)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, toViews(list))
}

func Get(w http.ResponseWriter, r *http.Request, service service) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	o, err := service.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, toView(o))
}

func GetStatus(w http.ResponseWriter, r *http.Request, service service) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	st, err := service.GetStatus(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, statusView{ID: id, Status: st.String()})
}

func ChangeStatus(w http.ResponseWriter, r *http.Request, service service) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	var req statusRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)

		return
	}

	o, err := service.ChangeStatus(r.Context(), id, req.Status)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, toView(o))
}

// RequestPayment opens a pix charge for the order. The payer email falls back to the token's.
func RequestPayment(w http.ResponseWriter, r *http.Request, service service) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	var req paymentRequest
	if r.ContentLength != 0 {
		if err := respond.Decode(r, &req); err != nil {
			respond.Error(w, r, err)

			return
		}
	}
	if ident, ok := auth.FromContext(r.Context()); ok && req.Email == "" {
		req.Email = ident.Email
	}

	o, err := service.RequestPayment(r.Context(), id, req.Email)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, toView(o))
}

// QRCode renders the pix code of the order payment as a PNG.
func QRCode(w http.ResponseWriter, r *http.Request, service service) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	o, err := service.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)

		return
	}
	if o.Payment.QRCode == "" {
		respond.Error(w, r, apperr.NotFound("order with id '%d' has no payment", id))

		return
	}

	png, err := qrcode.Encode(o.Payment.QRCode, qrcode.Medium, qrSize)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := bytes.NewReader(png).WriteTo(w); err != nil {
		slog.Error("Error writing qr code", "error", err)
	}
}
