package payments

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/corray333/backend-labs/lanchonete/internal/service/services/paymentsvc"
	"github.com/corray333/backend-labs/lanchonete/internal/transport/http/respond"
	"github.com/gorilla/schema"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

type service interface {
	HandleWebhook(ctx context.Context, paymentID string) (paymentsvc.WebhookResult, error)
}

// notification is the provider's webhook body. The id may also arrive as the "data.id" query parameter.
type notification struct {
	Type string `json:"type"`
	Data struct {
		ID json.Number `json:"id"`
	} `json:"data"`
}

type notificationQuery struct {
	Data struct {
		ID string `schema:"id"`
	} `schema:"data"`
	ID string `schema:"id"`
}

func paymentID(r *http.Request) string {
	var q notificationQuery
	if err := decoder.Decode(&q, r.URL.Query()); err == nil {
		if q.Data.ID != "" {
			return q.Data.ID
		}
		if q.ID != "" {
			return q.ID
		}
	}

	var n notification
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		return ""
	}

	return n.Data.ID.String()
}

// Webhook applies a payment notification to its order. Notifications without a payment id
// are answered as a liveness check.
func Webhook(w http.ResponseWriter, r *http.Request, service service) {
	res, err := service.HandleWebhook(r.Context(), paymentID(r))
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, res)
}
