package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/corray333/backend-labs/lanchonete/pkg/authtoken"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifyAndRequire(t *testing.T) {
	codec := authtoken.NewCodec("secret", "lanchonete", time.Hour)
	token, err := codec.Issue(authtoken.Identity{CustomerID: 3, CPF: "52998224725"})
	require.NoError(t, err)

	var seen authtoken.Identity
	open := Identify(codec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
	guarded := Identify(codec)(Require(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	cases := []struct {
		name    string
		handler http.Handler
		token   string
		status  int
	}{
		{"anonymous on open route", open, "", http.StatusNoContent},
		{"valid token on open route", open, token, http.StatusNoContent},
		{"invalid token on open route", open, "garbage", http.StatusUnauthorized},
		{"anonymous on guarded route", guarded, "", http.StatusUnauthorized},
		{"valid token on guarded route", guarded, token, http.StatusNoContent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.token != "" {
				req.Header.Set(Header, tc.token)
			}
			w := httptest.NewRecorder()
			tc.handler.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
		})
	}

	assert.Equal(t, int64(3), seen.CustomerID, "identity in context")
}

func TestOwns(t *testing.T) {
	ctx := WithIdentity(t.Context(), authtoken.Identity{CustomerID: 1, CPF: "52998224725"})

	assert.True(t, Owns(ctx, "529.982.247-25"), "formatted cpf matches token")
	assert.False(t, Owns(ctx, "11144477735"), "other cpf")
	assert.False(t, Owns(t.Context(), "52998224725"), "anonymous caller owns nothing")
}
