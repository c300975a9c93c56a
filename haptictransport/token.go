package haptictransport

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"
)

// Token holds the authorization token information.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
	Type        string
}

// IsValid checks if the token is valid.
func (t Token) IsValid() bool {
	if t.AccessToken == "" {
		return false
	}

	if t.ExpiresAt.IsZero() {
		return true
	}

	return time.Now().Before(t.ExpiresAt)
}

// TokenProvider supplies an authorization token.
type TokenProvider interface {
	GetToken(ctx context.Context) (Token, error)
}

// TokenProviderFunc is a function that implements TokenProvider.
type TokenProviderFunc func(ctx context.Context) (Token, error)

func (f TokenProviderFunc) GetToken(ctx context.Context) (Token, error) {
	return f(ctx)
}

// basicAuthorization provides a basic-auth TokenProvider, used to send the
// device's app_id/api_key pair to the bridge.
func basicAuthorization(username, password string) TokenProvider {
	token := base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%s:%s", username, password)))

	return TokenProviderFunc(func(context.Context) (Token, error) {
		return Token{
			AccessToken: token,
			ExpiresAt:   time.Time{},
			Type:        "Basic",
		}, nil
	})
}
