package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/clubsphere/clubsphere/server"
	"github.com/clubsphere/clubsphere/server/auth"
	"github.com/clubsphere/clubsphere/server/checkout"
)

const (
	testSecret = "test-secret"
	adminEmail = "admin@clubsphere.test"
)

func newTestHandler(t *testing.T, store server.Store, providerURL string) http.Handler {
	t.Helper()

	cfg := server.Config{
		Auth: auth.Config{
			Secret: testSecret,
			Admins: []string{adminEmail},
		},
		Checkout: checkout.Config{
			SecretKey: "sk_test",
			BaseURL:   providerURL,
			SiteURL:   "https://clubsphere.example",
			Currency:  "bdt",
		},
	}

	httpClient := &http.Client{}
	srv := &server.Server{
		Cfg:        cfg,
		DB:         store,
		Auth:       auth.New(cfg.Auth, httpClient),
		Checkout:   checkout.New(cfg.Checkout, httpClient),
		HTTPClient: httpClient,
	}

	return Routes(srv)
}

func signToken(t *testing.T, email string, name string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		},
		Email: email,
		Name:  name,
	})

	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	return signed
}

func doRequest(t *testing.T, h http.Handler, method string, target string, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	r := httptest.NewRequest(method, target, reader)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decodeResponse[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}
