package woocommerce

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/lmarceau/privastore-backend/pkg/config"
	pkgerrors "github.com/lmarceau/privastore-backend/pkg/errors"
	"github.com/lmarceau/privastore-backend/pkg/logger"
)

const (
	productsPath        = "/wp-json/wc/v3/products"
	ordersPath          = "/wp-json/wc/v3/orders"
	paymentGatewaysPath = "/wp-json/wc/v3/payment_gateways"
)

var (
	errBaseURLRequired     = errors.New("woocommerce base url is required")
	errConsumerKeyRequired = errors.New("woocommerce consumer key and secret are required")
	errLoggerRequired      = errors.New("woocommerce logger is required")
)

// Client exposes the upstream WooCommerce REST surface with centralized auth,
// timeouts, logging, and error mapping.
type Client struct {
	baseURL       string
	authHeader    string
	webhookSecret string
	httpClient    *http.Client
	logger        *logger.Logger
}

// NewClient validates the credentials and builds the upstream client. Missing
// credentials fail fast; there are no embedded defaults.
func NewClient(ctx context.Context, cfg config.WooConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	key := strings.TrimSpace(cfg.ConsumerKey)
	secret := strings.TrimSpace(cfg.ConsumerSecret)
	if key == "" || secret == "" {
		return nil, errConsumerKeyRequired
	}

	c := &Client{
		baseURL:       baseURL,
		authHeader:    "Basic " + base64.StdEncoding.EncodeToString([]byte(key+":"+secret)),
		webhookSecret: strings.TrimSpace(cfg.WebhookSecret),
		httpClient:    &http.Client{Timeout: cfg.RequestTimeout},
		logger:        logg,
	}

	logg.Info(ctx, "woocommerce client initialized")
	return c, nil
}

// WebhookSecret returns the configured webhook signing secret.
func (c *Client) WebhookSecret() string {
	if c == nil {
		return ""
	}
	return c.webhookSecret
}

// ListProducts fetches a single catalog page sized for the storefront;
// pagination is left to the caller.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, productsPath+"?per_page=100", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches one product by id.
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	var product Product
	if err := c.do(ctx, http.MethodGet, productsPath+"/"+url.PathEscape(id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateOrder submits the order upstream. Single attempt, no retry.
func (c *Client) CreateOrder(ctx context.Context, order *OrderRequest) (*CreatedOrder, error) {
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order is required")
	}
	var created CreatedOrder
	if err := c.do(ctx, http.MethodPost, ordersPath, order, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListPaymentGateways fetches the configured payment gateways.
func (c *Client) ListPaymentGateways(ctx context.Context) ([]PaymentGateway, error) {
	var gateways []PaymentGateway
	if err := c.do(ctx, http.MethodGet, paymentGatewaysPath, nil, &gateways); err != nil {
		return nil, err
	}
	return gateways, nil
}

// Ping verifies the upstream API is reachable with the configured credentials.
func (c *Client) Ping(ctx context.Context) error {
	var probe []Product
	return c.do(ctx, http.MethodGet, productsPath+"?per_page=1", nil, &probe)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "reach woocommerce").
			WithDetails(map[string]any{"path": path})
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "read woocommerce response")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		ctx = c.logger.WithFields(ctx, map[string]any{
			"path":   path,
			"status": resp.StatusCode,
		})
		c.logger.Warn(ctx, "woocommerce request rejected")
		return pkgerrors.New(pkgerrors.CodeUpstream,
			fmt.Sprintf("woocommerce responded %d", resp.StatusCode)).
			WithDetails(map[string]any{
				"status": resp.StatusCode,
				"body":   string(raw),
			})
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode woocommerce response").
			WithDetails(map[string]any{"path": path})
	}
	return nil
}
