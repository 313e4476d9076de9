package product

import (
	"time"

	"github.com/corray333/backend-labs/lanchonete/internal/service/models/currency"
)

// Product represents an item of the catalog.
type Product struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	PriceCents  int64             `json:"priceCents"`
	Currency    currency.Currency `json:"currency"`
	Image       string            `json:"image,omitempty"`
	CategoryID  int64             `json:"categoryId"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}
