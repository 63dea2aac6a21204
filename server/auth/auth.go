package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// ErrInvalidToken is returned for missing, malformed, expired or otherwise
// unverifiable bearer credentials.
var ErrInvalidToken = errors.New("invalid token")

// Identity is what the identity provider asserts about a bearer token.
type Identity struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Claims are the token claims accepted in local verification mode.
type Claims struct {
	jwt.RegisteredClaims
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func New(cfg Config, httpClient *http.Client) *Verifier {
	return &Verifier{
		cfg:        cfg,
		httpClient: httpClient,
	}
}

// Verifier validates bearer credentials and yields the authenticated
// identity. Two modes: local HS256 verification against the configured
// secret, or a call to the provider's userinfo endpoint.
type Verifier struct {
	cfg        Config
	httpClient *http.Client
}

func (v *Verifier) Verify(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	if v.cfg.UserInfoURL != "" {
		return v.verifyRemote(ctx, token)
	}

	return v.verifyLocal(token)
}

func (v *Verifier) verifyLocal(token string) (*Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.cfg.Issuer))
	}
	if v.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(v.cfg.Audience))
	}

	var claims Claims
	if _, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return []byte(v.cfg.Secret), nil
	}, opts...); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	email := claims.Email
	if email == "" {
		email = claims.Subject
	}
	if email == "" {
		return nil, fmt.Errorf("%w: token has no email", ErrInvalidToken)
	}

	return &Identity{
		Email:   email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}

func (v *Verifier) verifyRemote(ctx context.Context, token string) (*Identity, error) {
	if v.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, v.httpClient)
	}

	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))

	rq, err := http.NewRequestWithContext(ctx, http.MethodGet, v.cfg.UserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo request: %w", err)
	}

	rs, err := client.Do(rq)
	if err != nil {
		return nil, fmt.Errorf("failed to call userinfo endpoint: %w", err)
	}
	defer rs.Body.Close()

	switch {
	case rs.StatusCode == http.StatusUnauthorized || rs.StatusCode == http.StatusForbidden:
		return nil, ErrInvalidToken
	case rs.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("userinfo request failed with status code: %d", rs.StatusCode)
	}

	var identity Identity
	if err = json.NewDecoder(rs.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo response: %w", err)
	}

	if identity.Email == "" {
		return nil, fmt.Errorf("%w: userinfo response has no email", ErrInvalidToken)
	}

	return &identity, nil
}
