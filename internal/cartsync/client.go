package cartsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"greenville/internal/domain"
)

// TokenSource supplies the current access token. An empty token means the
// user is anonymous and no request should go out.
type TokenSource interface {
	Token() string
}

// Client speaks the full-state cart protocol against the API. Every call
// ships or receives the complete cart; there are no per-item deltas on
// the wire.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *log.Logger
}

func New(baseURL string, tokens TokenSource, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		tokens:  tokens,
		logger:  logger,
	}
}

type itemsPayload struct {
	Items []domain.CartEntry `json:"items"`
}

type itemsResult struct {
	Items []domain.LineItem `json:"items"`
}

// FetchCart pulls the stored cart as fully populated line items. For an
// anonymous session it returns nil without touching the network.
func (c *Client) FetchCart(ctx context.Context) ([]domain.LineItem, error) {
	token := c.tokens.Token()
	if token == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/cart", nil)
	if err != nil {
		return nil, err
	}
	var out itemsResult
	if err := c.do(req, token, &out); err != nil {
		return nil, fmt.Errorf("fetch cart: %w", err)
	}
	return out.Items, nil
}

// SyncCart replaces the stored cart with the given entries. For an
// anonymous session it is a no-op.
func (c *Client) SyncCart(ctx context.Context, entries []domain.CartEntry) error {
	token := c.tokens.Token()
	if token == "" {
		return nil
	}

	req, err := c.jsonRequest(ctx, http.MethodPost, "/cart/sync", itemsPayload{Items: entries})
	if err != nil {
		return err
	}
	if err := c.do(req, token, nil); err != nil {
		return fmt.Errorf("sync cart: %w", err)
	}
	return nil
}

// MergeCart combines the given entries into the stored cart and returns
// the merged result as populated line items. For an anonymous session it
// returns nil without touching the network.
func (c *Client) MergeCart(ctx context.Context, entries []domain.CartEntry) ([]domain.LineItem, error) {
	token := c.tokens.Token()
	if token == "" {
		return nil, nil
	}

	req, err := c.jsonRequest(ctx, http.MethodPost, "/cart/merge", itemsPayload{Items: entries})
	if err != nil {
		return nil, err
	}
	var out itemsResult
	if err := c.do(req, token, &out); err != nil {
		return nil, fmt.Errorf("merge cart: %w", err)
	}
	return out.Items, nil
}

// Login exchanges credentials for an access token. Requires no prior
// authentication.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	req, err := c.jsonRequest(ctx, http.MethodPost, "/customers/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	var out struct {
		AccessToken string `json:"accessToken"`
	}
	if err := c.do(req, "", &out); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	return out.AccessToken, nil
}

// Product fetches one catalog product. Requires no authentication.
func (c *Client) Product(ctx context.Context, id string) (*domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products/"+id, nil)
	if err != nil {
		return nil, err
	}
	var out struct {
		Data domain.Product `json:"data"`
	}
	if err := c.do(req, "", &out); err != nil {
		return nil, fmt.Errorf("fetch product %s: %w", id, err)
	}
	return &out.Data, nil
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, token string, out any) error {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, bytes.TrimSpace(body))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
