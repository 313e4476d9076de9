package products

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/corray333/backend-labs/lanchonete/internal/service/apperr"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/currency"
	"github.com/corray333/backend-labs/lanchonete/internal/service/models/product"
	"github.com/corray333/backend-labs/lanchonete/internal/transport/http/respond"
	"github.com/shopspring/decimal"
)

type service interface {
	Save(ctx context.Context, p product.Product) (product.Product, error)
	Update(ctx context.Context, p product.Product) (product.Product, error)
	Get(ctx context.Context, id int64) (product.Product, error)
	Delete(ctx context.Context, id int64) error
	ListByCategory(ctx context.Context, categoryID int64) ([]product.Product, error)
}

// request carries the price as a decimal amount in BRL, either as a JSON number or a string.
type request struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image" validate:"omitempty,url"`
	CategoryID  int64           `json:"categoryId" validate:"required"`
}

func (req request) toModel(id int64) (product.Product, error) {
	cents, err := currency.FromDecimal(req.Price)
	if err != nil || cents <= 0 {
		return product.Product{}, apperr.Validation("price must be greater than zero and fit in the catalog")
	}

	return product.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  cents,
		Currency:    currency.CurrencyBRL,
		Image:       req.Image,
		CategoryID:  req.CategoryID,
	}, nil
}

type view struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
	Currency    string      `json:"currency"`
	Image       string      `json:"image,omitempty"`
	CategoryID  int64       `json:"categoryId"`
}

func toView(p product.Product) view {
	return view{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       currency.Amount(p.PriceCents),
		Currency:    p.Currency.String(),
		Image:       p.Image,
		CategoryID:  p.CategoryID,
	}
}

func Get(w http.ResponseWriter, r *http.Request, service service) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	p, err := service.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, toView(p))
}

// ListByCategory serves /categories/{id}/products.
func ListByCategory(w http.ResponseWriter, r *http.Request, service service) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	list, err := service.ListByCategory(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	views := make([]view, 0, len(list))
	for _, p := range list {
		views = append(views, toView(p))
	}

	respond.JSON(w, http.StatusOK, views)
}

func Create(w http.ResponseWriter, r *http.Request, service service) {
	var req request
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)

		return
	}

	model, err := req.toModel(0)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	p, err := service.Save(r.Context(), model)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusCreated, toView(p))
}

func Update(w http.ResponseWriter, r *http.Request, service service) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	var req request
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)

		return
	}

	model, err := req.toModel(id)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	p, err := service.Update(r.Context(), model)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, toView(p))
}

func Delete(w http.ResponseWriter, r *http.Request, service service) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	if err := service.Delete(r.Context(), id); err != nil {
		respond.Error(w, r, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
