// Package auth reads the customer token from the "user" header.
package auth

import (
	"context"
	"net/http"

	"github.com/corray333/backend-labs/lanchonete/internal/service/validate"
	"github.com/corray333/backend-labs/lanchonete/internal/transport/http/respond"
	"github.com/corray333/backend-labs/lanchonete/pkg/authtoken"
)

// Header carries the customer token.
const Header = "user"

type ctxKey struct{}

type parser interface {
	Parse(raw string) (authtoken.Identity, error)
}

// Identify stores the identity of a valid token in the request context.
// Requests without a token pass through anonymously; an invalid token is refused.
func Identify(p parser) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(Header)
			if raw == "" {
				next.ServeHTTP(w, r)

				return
			}

			id, err := p.Parse(raw)
			if err != nil {
				respond.Fail(w, r, http.StatusUnauthorized, "invalid token")

				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// Require refuses requests that Identify did not authenticate.
func Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); !ok {
			respond.Fail(w, r, http.StatusUnauthorized, "missing token")

			return
		}

		next.ServeHTTP(w, r)
	})
}

func WithIdentity(ctx context.Context, id authtoken.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity of the caller, if any.
func FromContext(ctx context.Context) (authtoken.Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(authtoken.Identity)

	return id, ok
}

// Owns reports whether the caller's token was issued for cpf.
func Owns(ctx context.Context, cpf string) bool {
	id, ok := FromContext(ctx)

	return ok && id.CPF == validate.NormalizeCPF(cpf)
}
