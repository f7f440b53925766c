package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"storefront-checkout/internal/domain"
)

// Client talks JSON over HTTP to the remote commerce backend. Every call past
// the login step carries the caller's bearer credential. Transport and decode
// failures come back wrapped in domain.ErrBackendUnreachable; non-2xx
// responses come back as *domain.BackendError with the backend's detail
// message untouched.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

func New(baseURL string, logger *log.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// SessionInfo is the bootstrap snapshot used to seed a checkout session.
type SessionInfo struct {
	LoggedIn                 bool             `json:"logged_in"`
	Username                 string           `json:"username"`
	Name                     string           `json:"name"`
	Address                  *domain.Address  `json:"address"`
	Addresses                []domain.Address `json:"addresses"`
	DefaultDeliveryAddressID int64            `json:"defaultDeliveryAddressId"`
}

// AddressPatch is a partial address update. Only non-nil fields are sent.
type AddressPatch struct {
	DefaultDelivery *bool `json:"is_default_delivery,omitempty"`
}

func (c *Client) Session(ctx context.Context, token string) (*SessionInfo, error) {
	var info SessionInfo
	if err := c.do(ctx, http.MethodGet, "/auth/session", token, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) ListAddresses(ctx context.Context, token string) ([]domain.Address, error) {
	var out []domain.Address
	if err := c.do(ctx, http.MethodGet, "/addresses", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAddress persists a draft. The CEP is sent digits-only, as the backend
// stores it.
func (c *Client) CreateAddress(ctx context.Context, token string, draft domain.Address) (*domain.Address, error) {
	draft.ID = 0
	draft.CEP = domain.Digits(draft.CEP)
	var created domain.Address
	if err := c.do(ctx, http.MethodPost, "/addresses", token, draft, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateAddress(ctx context.Context, token string, id int64, patch AddressPatch) (*domain.Address, error) {
	var updated domain.Address
	path := "/addresses/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, http.MethodPatch, path, token, patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteAddress(ctx context.Context, token string, id int64) error {
	path := "/addresses/" + strconv.FormatInt(id, 10)
	return c.do(ctx, http.MethodDelete, path, token, nil, nil)
}

// SubmitOrder finalizes the checkout. The backend has answered with a few
// different envelope shapes over time, so the order number is extracted
// tolerantly.
func (c *Client) SubmitOrder(ctx context.Context, token string, sub domain.OrderSubmission) (*domain.OrderResult, error) {
	var raw map[string]any
	if err := c.do(ctx, http.MethodPost, "/checkout", token, sub, &raw); err != nil {
		return nil, err
	}
	return &domain.OrderResult{OrderNumber: orderNumberFrom(raw)}, nil
}

func orderNumberFrom(raw map[string]any) string {
	if n := numberField(raw, "order_number"); n != "" {
		return n
	}
	if nested, ok := raw["order"].(map[string]any); ok {
		if n := numberField(nested, "order_number"); n != "" {
			return n
		}
		if n := numberField(nested, "orderNumber"); n != "" {
			return n
		}
	}
	return numberField(raw, "orderNumber")
}

func numberField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Printf("backend %s %s: %v", method, path, err)
		return fmt.Errorf("%w: %v", domain.ErrBackendUnreachable, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &domain.BackendError{Status: res.StatusCode, Detail: detailFrom(res.Body)}
	}

	if out == nil {
		return nil
	}
	dec := json.NewDecoder(res.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		c.logger.Printf("backend %s %s: decode: %v", method, path, err)
		return fmt.Errorf("%w: malformed response", domain.ErrBackendUnreachable)
	}
	return nil
}

func detailFrom(body io.Reader) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return ""
	}
	return payload.Detail
}
