package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/lanchonete/internal/service/models/category"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/customer"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/order"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/product"
	"github.com/corray333/backend-labs/lanchonete/internal/service/services/paymentsvc"
	"github.com/corray333/backend-labs/lanchonete/internal/transport/http/auth"
	"github.com/corray333/backend-labs/lanchonete/internal/transport/http/categories"
	"github.com/corray333/backend-labs/lanchonete/internal/transport/http/customers"
	"github.com/corray333/backend-labs/lanchonete/internal/transport/http/docs"
	"github.com/corray333/backend-labs/lanchonete/internal/transport/http/orders"
	"github.com/corray333/backend-labs/lanchonete/internal/transport/http/payments"
	"github.com/corray333/backend-labs/lanchonete/internal/transport/http/products"
	"github.com/corray333/backend-labs/lanchonete/pkg/authtoken"
	"github.com/corray333/backend-labs/lanchonete/pkg/http/middleware/trace"
	"github.com/corray333/backend-labs/lanchonete/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
)

type categoryService interface {
	Save(ctx context.Context, c category.Category) (category.Category, error)
	Update(ctx context.Context, c category.Category) (category.Category, error)
	Get(ctx context.Context, id int64) (category.Category, error)
	List(ctx context.Context) ([]category.Category, error)
	Delete(ctx context.Context, id int64) error
}

type productService interface {
	Save(ctx context.Context, p product.Product) (product.Product, error)
	Update(ctx context.Context, p product.Product) (product.Product, error)
	Get(ctx context.Context, id int64) (product.Product, error)
	Delete(ctx context.Context, id int64) error
	ListByCategory(ctx context.Context, categoryID int64) ([]product.Product, error)
}

type customerService interface {
	Save(ctx context.Context, c customer.Customer) (customer.Customer, error)
	GetByCPF(ctx context.Context, cpf string) (customer.Customer, error)
	Update(ctx context.Context, cpf string, c customer.Customer) (customer.Customer, error)
	Delete(ctx context.Context, cpf string) error
	IssueToken(ctx context.Context, cpf string) (string, error)
}

type orderService interface {
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

type paymentService interface {
	HandleWebhook(ctx context.Context, paymentID string) (paymentsvc.WebhookResult, error)
}

type tokenParser interface {
	Parse(raw string) (authtoken.Identity, error)
}

// Services are the handlers' dependencies. All of them are required.
type Services struct {
	Categories categoryService
	Products   productService
	Customers  customerService
	Orders     orderService
	Payments   paymentService
	Tokens     tokenParser
}

type HTTPTransport struct {
	server   *http.Server
	router   *chi.Mux
	services Services
}

func NewHTTPTransport(services Services) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:   server,
		router:   router,
		services: services,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (h *HTTPTransport) Handler() http.Handler {
	return h.router
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	docs.Mount(h.router)

	h.router.Route("/api", func(r chi.Router) {
		r.Use(auth.Identify(h.services.Tokens))

		r.Get("/categories", h.listCategories)
		r.Get("/categories/{id}", h.getCategory)
		r.Get("/categories/{id}/products", h.listProductsByCategory)
		r.Get("/products/{id}", h.getProduct)

		r.Post("/customers", h.createCustomer)
		r.Post("/customers/token", h.issueToken)

		r.Post("/orders", h.createOrder)
		r.Get("/orders", h.listOrders)
		r.Get("/orders/statuses", h.listStatuses)
		r.Get("/orders/{id}", h.getOrder)
		r.Get("/orders/{id}/status", h.getOrderStatus)
		r.Post("/orders/{id}/payment", h.requestPayment)
		r.Get("/orders/{id}/payment/qrcode", h.paymentQRCode)

		r.Post("/payments/webhook", h.paymentWebhook)

		r.Group(func(r chi.Router) {
			r.Use(auth.Require)

			r.Post("/categories", h.createCategory)
			r.Put("/categories/{id}", h.updateCategory)
			r.Delete("/categories/{id}", h.deleteCategory)

			r.Post("/products", h.createProduct)
			r.Put("/products/{id}", h.updateProduct)
			r.Delete("/products/{id}", h.deleteProduct)

			r.Get("/customers/{cpf}", h.getCustomer)
			r.Put("/customers/{cpf}", h.updateCustomer)
			r.Delete("/customers/{cpf}", h.deleteCustomer)
			r.Get("/customers/{cpf}/orders", h.listCustomerOrders)

			r.Get("/orders/by-status", h.listOrdersByStatus)
			r.Patch("/orders/{id}/status", h.changeOrderStatus)
		})
	})
}

func (h *HTTPTransport) listCategories(w http.ResponseWriter, r *http.Request) {
	categories.List(w, r, h.services.Categories)
}

func (h *HTTPTransport) getCategory(w http.ResponseWriter, r *http.Request) {
	categories.Get(w, r, h.services.Categories)
}

func (h *HTTPTransport) createCategory(w http.ResponseWriter, r *http.Request) {
	categories.Create(w, r, h.services.Categories)
}

func (h *HTTPTransport) updateCategory(w http.ResponseWriter, r *http.Request) {
	categories.Update(w, r, h.services.Categories)
}

func (h *HTTPTransport) deleteCategory(w http.ResponseWriter, r *http.Request) {
	categories.Delete(w, r, h.services.Categories)
}

func (h *HTTPTransport) listProductsByCategory(w http.ResponseWriter, r *http.Request) {
	products.ListByCategory(w, r, h.services.Products)
}

func (h *HTTPTransport) getProduct(w http.ResponseWriter, r *http.Request) {
	products.Get(w, r, h.services.Products)
}

func (h *HTTPTransport) createProduct(w http.ResponseWriter, r *http.Request) {
	products.Create(w, r, h.services.Products)
}

func (h *HTTPTransport) updateProduct(w http.ResponseWriter, r *http.Request) {
	products.Update(w, r, h.services.Products)
}

func (h *HTTPTransport) deleteProduct(w http.ResponseWriter, r *http.Request) {
	products.Delete(w, r, h.services.Products)
}

func (h *HTTPTransport) createCustomer(w http.ResponseWriter, r *http.Request) {
	customers.Create(w, r, h.services.Customers)
}

func (h *HTTPTransport) issueToken(w http.ResponseWriter, r *http.Request) {
	customers.Token(w, r, h.services.Customers)
}

func (h *HTTPTransport) getCustomer(w http.ResponseWriter, r *http.Request) {
	customers.Get(w, r, h.services.Customers)
}

func (h *HTTPTransport) updateCustomer(w http.ResponseWriter, r *http.Request) {
	customers.Update(w, r, h.services.Customers)
}

func (h *HTTPTransport) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	customers.Delete(w, r, h.services.Customers)
}

func (h *HTTPTransport) listCustomerOrders(w http.ResponseWriter, r *http.Request) {
	orders.ByCustomer(w, r, h.services.Orders)
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	orders.Create(w, r, h.services.Orders)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	orders.List(w, r, h.services.Orders)
}

func (h *HTTPTransport) listStatuses(w http.ResponseWriter, r *http.Request) {
	orders.Statuses(w, r, h.services.Orders)
}

func (h *HTTPTransport) listOrdersByStatus(w http.ResponseWriter, r *http.Request) {
	orders.ByStatus(w, r, h.services.Orders)
}

func (h *HTTPTransport) getOrder(w http.ResponseWriter, r *http.Request) {
	orders.Get(w, r, h.services.Orders)
}

func (h *HTTPTransport) getOrderStatus(w http.ResponseWriter, r *http.Request) {
	orders.GetStatus(w, r, h.services.Orders)
}

func (h *HTTPTransport) changeOrderStatus(w http.ResponseWriter, r *http.Request) {
	orders.ChangeStatus(w, r, h.services.Orders)
}

func (h *HTTPTransport) requestPayment(w http.ResponseWriter, r *http.Request) {
	orders.RequestPayment(w, r, h.services.Orders)
}

func (h *HTTPTransport) paymentQRCode(w http.ResponseWriter, r *http.Request) {
	orders.QRCode(w, r, h.services.Orders)
}

func (h *HTTPTransport) paymentWebhook(w http.ResponseWriter, r *http.Request) {
	payments.Webhook(w, r, h.services.Payments)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:              "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler:           router,
		ReadHeaderTimeout: viper.GetDuration("server.http.read_header_timeout"),
	}
}
