package orders

import (
	"encoding/json"
	"time"

	"github.com/corray333/backend-labs/lanchonete/internal/service/models/currency"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/order"
)

var now = time.Now

type itemView struct {
	ProductID   int64       `json:"productId"`
	ProductName string      `json:"productName"`
	Amount      int         `json:"amount"`
	SalePrice   json.Number `json:"salePrice"`
}

type paymentView struct {
	Amount      json.Number `json:"amount"`
	Description string      `json:"description,omitempty"`
	Status      string      `json:"status,omitempty"`
	ProviderID  string      `json:"providerId,omitempty"`
	QRCode      string      `json:"qrCode,omitempty"`
}

type view struct {
	ID         int64       `json:"id"`
	CustomerID *int64      `json:"customerId,omitempty"`
	Status     string      `json:"status"`
	Total      json.Number `json:"total"`
	Currency   string      `json:"currency"`
	AwaitTime  string      `json:"awaitTime"`
	Items      []itemView  `json:"items"`
	Payment    paymentView `json:"payment"`
	CreatedAt  string      `json:"createdAt"`
	UpdatedAt  string      `json:"updatedAt"`
}

// toView renders o for clients. Wait time runs until now, or until the last update for closed orders.
func toView(o order.Order) view {
	end := now()
	if o.Status.IsTerminal() {
		end = o.UpdatedAt
	}

	items := make([]itemView, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, itemView{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Amount:      it.Quantity,
			SalePrice:   currency.Amount(it.SalePriceCents),
		})
	}

	return view{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		Status:     o.Status.String(),
		Total:      currency.Amount(o.TotalCents),
		Currency:   o.Currency.String(),
		AwaitTime:  order.WaitTime(o.CreatedAt, end),
		Items:      items,
		Payment: paymentView{
			Amount:      currency.Amount(o.Payment.AmountCents),
			Description: o.Payment.Description,
			Status:      o.Payment.Status,
			ProviderID:  o.Payment.ProviderID,
			QRCode:      o.Payment.QRCode,
		},
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
		UpdatedAt: o.UpdatedAt.Format(time.RFC3339),
	}
}

func toViews(list []order.Order) []view {
	views := make([]view, 0, len(list))
	for _, o := range list {
		views = append(views, toView(o))
	}

	return views
}
