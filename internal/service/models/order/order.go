package order

import (
	"time"

	"github.com/corray333/backend-labs/lanchonete/internal/service/models/currency"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/payment"
)

// Order represents a customer order in the system.
type Order struct {
	ID         int64                 `json:"id"`
	CustomerID *int64                `json:"customerId,omitempty"`
	Items      []orderitem.OrderItem `json:"items"`
	TotalCents int64                 `json:"totalCents"`
	Currency   currency.Currency     `json:"currency"`
	Status     Status                `json:"status"`
	Payment    payment.Payment       `json:"payment"`
	CreatedAt  time.Time             `json:"createdAt"`
	UpdatedAt  time.Time             `json:"updatedAt"`
}

// ItemsTotalCents sums quantity times snapshot price over all items.
// It fails with currency.ErrOutOfRange when the sum does not fit in int64.
func (o *Order) ItemsTotalCents() (int64, error) {
	var total int64
	for _, item := range o.Items {
		sub, err := item.SubtotalCents()
		if err != nil {
			return 0, err
		}
		if total, err = currency.AddCents(total, sub); err != nil {
			return 0, err
		}
	}

	return total, nil
}

// CreateOrderModel is the input of order creation.
// Only ProductID and Quantity of each item are taken into account.
type CreateOrderModel struct {
	Items       []orderitem.OrderItem
	CustomerCPF string
}
