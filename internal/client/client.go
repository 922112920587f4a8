// Package client talks to the order API over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jiten398/single-checkout-flow/internal/checkout"
	"github.com/jiten398/single-checkout-flow/internal/entity"
	"github.com/jiten398/single-checkout-flow/internal/usecase"
)

const idempotencyHeader = "Idempotency-Key"

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("api %d: %s %v", e.Status, e.Message, e.Fields)
	}
	return fmt.Sprintf("api %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == http.StatusNotFound
}

type Client struct {
	base string
	hc   *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		hc:   &http.Client{Timeout: timeout},
	}
}

func (c *Client) Product(ctx context.Context) (entity.Product, error) {
	var p entity.Product
	err := c.do(ctx, http.MethodGet, "/product", nil, nil, &p)
	return p, err
}

// Checkout posts the order and returns its id. It satisfies checkout.Submitter.
func (c *Client) Checkout(ctx context.Context, in usecase.CreateOrderInput) (string, error) {
	var hdr http.Header
	if in.IdempotencyKey != "" {
		hdr = http.Header{idempotencyHeader: []string{in.IdempotencyKey}}
	}
	var out struct {
		Success bool   `json:"success"`
		OrderID string `json:"orderId"`
	}
	if err := c.do(ctx, http.MethodPost, "/checkout", in, hdr, &out); err != nil {
		return "", err
	}
	if !out.Success || out.OrderID == "" {
		return "", errors.New("checkout: response without order id")
	}
	return out.OrderID, nil
}

func (c *Client) Order(ctx context.Context, orderID string) (entity.Order, error) {
	var o entity.Order
	err := c.do(ctx, http.MethodGet, "/orders?orderId="+url.QueryEscape(orderID), nil, nil, &o)
	return o, err
}

// StatusView fetches a status page path such as the one returned by
// checkout.Flow.Redirect.
func (c *Client) StatusView(ctx context.Context, path string) (checkout.StatusView, error) {
	var v checkout.StatusView
	err := c.do(ctx, http.MethodGet, path, nil, nil, &v)
	return v, err
}

func (c *Client) do(ctx context.Context, method, path string, body any, hdr http.Header, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, vs := range hdr {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error  string            `json:"error"`
			Fields map[string]string `json:"fields"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&e)
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error, Fields: e.Fields}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

var _ checkout.Submitter = (*Client)(nil)
