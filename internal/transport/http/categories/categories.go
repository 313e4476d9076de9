package categories

import (
	"context"
	"net/http"

	"github.com/corray333/backend-labs/lanchonete/internal/service/models/category"
	"github.com/corray333/backend-labs/lanchonete/internal/transport/http/respond"
)

type service interface {
	Save(ctx context.Context, c category.Category) (category.Category, error)
	Update(ctx context.Context, c category.Category) (category.Category, error)
	Get(ctx context.Context, id int64) (category.Category, error)
	List(ctx context.Context) ([]category.Category, error)
	Delete(ctx context.Context, id int64) error
}

type request struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func List(w http.ResponseWriter, r *http.Request, service service) {
	list, err := service.List(r.Context())
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, list)
}

func Get(w http.ResponseWriter, r *http.Request, service service) {
	id, err := respond.IDParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	c, err := service.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, c)
}

func Create(w http.ResponseWriter, r *http.Request, service service) {
	var req request
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)

		return
	}

	c, err := service.Save(r.Context(), category.Category{Name: req.Name, Description: req.Description})
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusCreated, c)
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

	c, err := service.Update(r.Context(), category.Category{ID: id, Name: req.Name, Description: req.Description})
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, c)
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
