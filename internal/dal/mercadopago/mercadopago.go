package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/corray333/backend-labs/lanchonete/internal/service/apperr"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/currency"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/payment"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
)

const defaultBaseURL = "https://api.mercadopago.com"

// Client talks to the Mercado Pago payments API.
type Client struct {
	baseURL         string
	accessToken     string
	notificationURL string
	http            *http.Client
}

// NewClient creates a client for baseURL authenticated with accessToken.
func NewClient(baseURL, accessToken, notificationURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		accessToken:     accessToken,
		notificationURL: notificationURL,
		http:            httpClient,
	}
}

// MustNewClient creates a client from configuration.
func MustNewClient() *Client {
	token := os.Getenv("MP_ACCESS_TOKEN")
	if token == "" {
		panic("MP_ACCESS_TOKEN is not set")
	}

	baseURL := viper.GetString("payment.base_url")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := viper.GetDuration("payment.timeout")
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return NewClient(baseURL, token, viper.GetString("payment.notification_url"), &http.Client{Timeout: timeout})
}

type paymentResponse struct {
	ID                 json.Number `json:"id"`
	Status             string      `json:"status"`
	PointOfInteraction struct {
		TransactionData struct {
			QRCode string `json:"qr_code"`
		} `json:"transaction_data"`
	} `json:"point_of_interaction"`
}

func (r paymentResponse) toModel() payment.ProviderPayment {
	return payment.ProviderPayment{
		ID:     r.ID.String(),
		Status: r.Status,
		QRCode: r.PointOfInteraction.TransactionData.QRCode,
	}
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

type payerRequest struct {
	Email string `json:"email"`
}

type createPaymentRequest struct {
	TransactionAmount json.Number  `json:"transaction_amount"`
	Description       string       `json:"description"`
	PaymentMethodID   string       `json:"payment_method_id"`
	ExternalReference string       `json:"external_reference"`
	NotificationURL   string       `json:"notification_url,omitempty"`
	Payer             payerRequest `json:"payer"`
}

// GetPayment fetches the current state of payment id.
func (c *Client) GetPayment(ctx context.Context, id string) (payment.ProviderPayment, error) {
	ctx, span := otel.Tracer("mercadopago").Start(ctx, "MercadoPago.GetPayment")
	defer span.End()

	var resp paymentResponse
	if err := c.do(ctx, http.MethodGet, "/v1/payments/"+id, nil, "", &resp); err != nil {
		return payment.ProviderPayment{}, err
	}

	return resp.toModel(), nil
}

// CreateCharge opens a pix payment and returns its id and QR code.
// The external reference doubles as idempotency key.
func (c *Client) CreateCharge(ctx context.Context, charge payment.Charge) (payment.ProviderPayment, error) {
	ctx, span := otel.Tracer("mercadopago").Start(ctx, "MercadoPago.CreateCharge")
	defer span.End()

	body := createPaymentRequest{
		TransactionAmount: currency.Amount(charge.AmountCents),
		Description:       charge.Description,
		PaymentMethodID:   "pix",
		ExternalReference: charge.ExternalReference,
		NotificationURL:   c.notificationURL,
		Payer:             payerRequest{Email: charge.PayerEmail},
	}

	var resp paymentResponse
	if err := c.do(ctx, http.MethodPost, "/v1/payments", body, charge.ExternalReference, &resp); err != nil {
		return payment.ProviderPayment{}, err
	}

	return resp.toModel(), nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, idempotencyKey string, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode payment request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build payment request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("X-Idempotency-Key", idempotencyKey)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return apperr.Upstream(err, "payment provider unavailable")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var e errorResponse
		_ = json.NewDecoder(res.Body).Decode(&e)
		msg := e.Message
		if msg == "" {
			msg = http.StatusText(res.StatusCode)
		}

		return apperr.Upstream(fmt.Errorf("status %d", res.StatusCode), "%s", msg)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return apperr.Upstream(err, "invalid payment provider response")
	}

	return nil
}
