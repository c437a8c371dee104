package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/cnu-smr/reddit-collector/pkg/errors"
)

// Authenticator exchanges client credentials for a bearer token. The exchange
// happens once per process; a failure here is fatal to the whole session.
type Authenticator struct {
	client       *http.Client
	clientID     string
	clientSecret string
	userAgent    string
	tokenURL     string
	deviceID     string
}

// NewAuthenticator creates an authenticator for the client_credentials grant.
// If httpClient is nil, http.DefaultClient is used.
func NewAuthenticator(httpClient *http.Client, clientID, clientSecret, userAgent, tokenURL string) *Authenticator {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Authenticator{
		client:       httpClient,
		clientID:     clientID,
		clientSecret: clientSecret,
		userAgent:    userAgent,
		tokenURL:     tokenURL,
		deviceID:     uuid.NewString(),
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

// AcquireToken performs the credential exchange and returns the access token.
func (a *Authenticator) AcquireToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("device_id", a.deviceID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &errors.AuthError{Err: fmt.Errorf("failed to create token request: %w", err)}
	}

	req.SetBasicAuth(a.clientID, a.clientSecret)
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", &errors.AuthError{Err: fmt.Errorf("failed to execute token request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &errors.AuthError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to read response body: %w", err),
		}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &errors.AuthError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", &errors.AuthError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
			Err:        fmt.Errorf("failed to unmarshal token response: %w", err),
		}
	}

	if token.AccessToken == "" {
		return "", &errors.AuthError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
			Err:        fmt.Errorf("access token was empty in response"),
		}
	}

	return token.AccessToken, nil
}
