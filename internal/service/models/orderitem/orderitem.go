package orderitem

import (
	"math"
	"time"

	"github.com/corray333/backend-labs/lanchonete/internal/service/models/currency"
)

// MaxQuantity is the largest quantity a single item can carry (order_items.quantity is INT).
const MaxQuantity = math.MaxInt32

// OrderItem represents an item within an order.
// ProductName and SalePriceCents are a snapshot of the catalog taken when the order was created.
type OrderItem struct {
	ID             int64             `json:"id"`
	OrderID        int64             `json:"orderId"`
	ProductID      int64             `json:"productId"`
	Quantity       int               `json:"quantity"`
	ProductName    string            `json:"productName"`
	SalePriceCents int64             `json:"salePriceCents"`
	Currency       currency.Currency `json:"currency"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// SubtotalCents is quantity times the snapshot price. It fails with currency.ErrOutOfRange on overflow.
func (i OrderItem) SubtotalCents() (int64, error) {
	return currency.MulCents(int64(i.Quantity), i.SalePriceCents)
}
