package customers

import (
	"context"
	"net/http"

	"github.com/corray333/backend-labs/lanchonete/internal/service/models/customer"
	"github.com/corray333/backend-labs/lanchonete/internal/transport/http/auth"
	"github.com/corray333/backend-labs/lanchonete/internal/transport/http/respond"
	"github.com/go-chi/chi/v5"
)

type service interface {
	Save(ctx context.Context, c customer.Customer) (customer.Customer, error)
	GetByCPF(ctx context.Context, cpf string) (customer.Customer, error)
	Update(ctx context.Context, cpf string, c customer.Customer) (customer.Customer, error)
	Delete(ctx context.Context, cpf string) error
	IssueToken(ctx context.Context, cpf string) (string, error)
}

type createRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required"`
	CPF   string `json:"cpf" validate:"required"`
}

type updateRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required"`
}

type tokenRequest struct {
	CPF string `json:"cpf" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Create registers a customer.
func Create(w http.ResponseWriter, r *http.Request, service service) {
	var req createRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)

		return
	}

	c, err := service.Save(r.Context(), customer.Customer{Name: req.Name, Email: req.Email, CPF: req.CPF})
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusCreated, c)
}

// Token exchanges a registered CPF for a signed token to be sent in the "user" header.
func Token(w http.ResponseWriter, r *http.Request, service service) {
	var req tokenRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)

		return
	}

	token, err := service.IssueToken(r.Context(), req.CPF)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, tokenResponse{Token: token})
}

// owner checks that the {cpf} of the path belongs to the caller.
func owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	cpf := chi.URLParam(r, "cpf")
	if !auth.Owns(r.Context(), cpf) {
		respond.Fail(w, r, http.StatusForbidden, "forbidden")

		return "", false
	}

	return cpf, true
}

func Get(w http.ResponseWriter, r *http.Request, service service) {
	cpf, ok := owner(w, r)
	if !ok {
		return
	}

	c, err := service.GetByCPF(r.Context(), cpf)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, c)
}

func Update(w http.ResponseWriter, r *http.Request, service service) {
	cpf, ok := owner(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)

		return
	}

	c, err := service.Update(r.Context(), cpf, customer.Customer{Name: req.Name, Email: req.Email})
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusOK, c)
}

func Delete(w http.ResponseWriter, r *http.Request, service service) {
	cpf, ok := owner(w, r)
	if !ok {
		return
	}

	if err := service.Delete(r.Context(), cpf); err != nil {
		respond.Error(w, r, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
