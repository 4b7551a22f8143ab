// Package api talks to the remote billing API. It moves wire-shaped JSON
// objects only; conversion to internal entities lives in catalog/mapping.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/atmn/internal/shape"
	"go.uber.org/zap"
)

var ErrMissingSecretKey = errors.New("missing_secret_key")

// APIError is a non-2xx response.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.StatusCode, e.Code, msg)
	}
	return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.StatusCode, msg)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type errorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Error   *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

type listResponse struct {
	List  []shape.Object `json:"list"`
	Total int            `json:"total"`
}

// CustomerPage is one page of GET /customers.
type CustomerPage struct {
	List  []shape.Object
	Total int
}

type ClientConfig struct {
	BaseURL   string
	SecretKey string
	Timeout   time.Duration
}

type Client struct {
	baseURL   string
	secretKey string
	client    *http.Client
	log       *zap.Logger
	newKey    func() string
}

func NewClient(cfg ClientConfig, log *zap.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, ErrMissingSecretKey
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		secretKey: strings.TrimSpace(cfg.SecretKey),
		client:    &http.Client{Timeout: cfg.Timeout},
		log:       log.Named("api.client"),
		newKey:    uuid.NewString,
	}, nil
}

func (c *Client) ListFeatures(ctx context.Context) ([]shape.Object, error) {
	var resp listResponse
	query := url.Values{"include_archived": {"true"}}
	if err := c.do(ctx, http.MethodGet, "/features", query, nil, false, &resp); err != nil {
		return nil, err
	}
	return resp.List, nil
}

func (c *Client) CreateFeature(ctx context.Context, body shape.Object) (shape.Object, error) {
	var out shape.Object
	err := c.do(ctx, http.MethodPost, "/features", nil, body, true, &out)
	return out, err
}

func (c *Client) UpdateFeature(ctx context.Context, id string, body shape.Object) (shape.Object, error) {
	var out shape.Object
	err := c.do(ctx, http.MethodPost, "/features/"+url.PathEscape(id), nil, body, false, &out)
	return out, err
}

func (c *Client) DeleteFeature(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/features/"+url.PathEscape(id), nil, nil, false, nil)
}

func (c *Client) ListPlans(ctx context.Context) ([]shape.Object, error) {
	var resp listResponse
	query := url.Values{"include_archived": {"true"}}
	if err := c.do(ctx, http.MethodGet, "/plans", query, nil, false, &resp); err != nil {
		return nil, err
	}
	return resp.List, nil
}

func (c *Client) CreatePlan(ctx context.Context, body shape.Object) (shape.Object, error) {
	var out shape.Object
	err := c.do(ctx, http.MethodPost, "/plans", nil, body, true, &out)
	return out, err
}

func (c *Client) UpdatePlan(ctx context.Context, id string, body shape.Object) (shape.Object, error) {
	var out shape.Object
	err := c.do(ctx, http.MethodPost, "/plans/"+url.PathEscape(id), nil, body, false, &out)
	return out, err
}

func (c *Client) DeletePlan(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/plans/"+url.PathEscape(id), nil, nil, false, nil)
}

func (c *Client) PlanDeletionInfo(ctx context.Context, id string) (shape.Object, error) {
	var out shape.Object
	err := c.do(ctx, http.MethodGet, "/plans/"+url.PathEscape(id)+"/deletion_info", nil, nil, false, &out)
	return out, err
}

func (c *Client) PlanHasCustomers(ctx context.Context, id string) (shape.Object, error) {
	var out shape.Object
	err := c.do(ctx, http.MethodGet, "/plans/"+url.PathEscape(id)+"/has_customers", nil, nil, false, &out)
	return out, err
}

func (c *Client) ListCustomers(ctx context.Context, limit, offset int) (CustomerPage, error) {
	var resp listResponse
	query := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
	if err := c.do(ctx, http.MethodGet, "/customers", query, nil, false, &resp); err != nil {
		return CustomerPage{}, err
	}
	return CustomerPage{List: resp.List, Total: resp.Total}, nil
}

func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/customers/"+url.PathEscape(id), nil, nil, false, nil)
}

func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	query url.Values,
	body any,
	idempotent bool,
	out any,
) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotent {
		req.Header.Set("Idempotency-Key", c.newKey())
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(method, path, resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(method, path string, resp *http.Response) error {
	apiErr := &APIError{Method: method, Path: path, StatusCode: resp.StatusCode}

	var payload errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(payload.Message)
	apiErr.Code = strings.TrimSpace(payload.Code)
	if payload.Error != nil {
		if apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(payload.Error.Message)
		}
		if apiErr.Code == "" {
			apiErr.Code = strings.TrimSpace(payload.Error.Code)
		}
	}
	return apiErr
}
