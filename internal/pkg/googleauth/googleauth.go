// Package googleauth validates Google Identity Services credentials against
// the tokeninfo endpoint.
package googleauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const tokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

var (
	ErrInvalidCredential = errors.New("invalid google credential")
	ErrWrongAudience     = errors.New("credential issued for another client")
)

// Claims are the identity fields we use from a verified credential
type Claims struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	// Audience must match our OAuth client id
	Audience string `json:"aud"`
	// Expiry is a unix timestamp encoded as a string by tokeninfo
	Expiry string `json:"exp"`
}

// Verifier checks credentials against Google's tokeninfo endpoint
type Verifier struct {
	clientID string
	client   *http.Client
}

// NewVerifier creates a verifier bound to one OAuth client id
func NewVerifier(clientID string) *Verifier {
	return &Verifier{
		clientID: clientID,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Verify validates the credential and returns its claims
func (v *Verifier) Verify(ctx context.Context, credential string) (*Claims, error) {
	if credential == "" {
		return nil, ErrInvalidCredential
	}

	endpoint := tokenInfoURL + "?id_token=" + url.QueryEscape(credential)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrInvalidCredential
	}

	var claims Claims
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("tokeninfo decode: %w", err)
	}

	if v.clientID != "" && claims.Audience != v.clientID {
		return nil, ErrWrongAudience
	}
	if exp, err := strconv.ParseInt(claims.Expiry, 10, 64); err == nil {
		if time.Now().Unix() >= exp {
			return nil, ErrInvalidCredential
		}
	}
	if claims.Subject == "" {
		return nil, ErrInvalidCredential
	}
	return &claims, nil
}
