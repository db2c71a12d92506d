// Package captcha verifies human-check challenge tokens against the
// reCAPTCHA siteverify endpoint. The verifier fails closed: any
// transport failure or non-success response counts as "not human".
package captcha

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"log/slog"
)

// DefaultVerifyURL is the production siteverify endpoint.
const DefaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// Client calls the external challenge-verification service.
type Client struct {
	httpClient *http.Client
	verifyURL  string
	secret     string
	logger     *slog.Logger
}

// New constructs a Client. An empty verifyURL selects the production
// endpoint.
func New(secret, verifyURL string, logger *slog.Logger) *Client {
	if verifyURL == "" {
		verifyURL = DefaultVerifyURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		verifyURL:  verifyURL,
		secret:     secret,
		logger:     logger,
	}
}

type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify reports whether the token passed the human check. It never
// returns an error: failure to reach or parse the service is treated
// as a failed check.
func (c *Client) Verify(ctx context.Context, token string) bool {
	if strings.TrimSpace(token) == "" {
		return false
	}
	form := url.Values{}
	form.Set("secret", c.secret)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		c.logger.Warn("captcha request build failed", "error", err)
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("captcha verification unreachable", "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("captcha verification rejected", "status", resp.StatusCode)
		return false
	}
	var payload verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Warn("captcha response malformed", "error", err)
		return false
	}
	if !payload.Success && len(payload.ErrorCodes) > 0 {
		c.logger.Info("captcha verification failed", "codes", strings.Join(payload.ErrorCodes, ","))
	}
	return payload.Success
}
