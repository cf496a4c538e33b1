// internal/clients/storefront_client.go
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/storefront"
	"storefront/internal/view"
)

// APIError is a non-2xx response from the storefront API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("storefront api: %d: %s", e.StatusCode, e.Message)
}

type StorefrontClient struct {
	baseURL string
	http    *http.Client
}

// NewStorefrontClient talks to baseURL with client, or http.DefaultClient when nil.
func NewStorefrontClient(baseURL string, client *http.Client) *StorefrontClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &StorefrontClient{baseURL: baseURL, http: client}
}

func (c *StorefrontClient) Products(ctx context.Context) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *StorefrontClient) State(ctx context.Context) (storefront.Snapshot, error) {
	return c.snapshot(ctx, http.MethodGet, "/state", nil)
}

func (c *StorefrontClient) AddToCart(ctx context.Context, productID int) (storefront.Snapshot, error) {
	return c.snapshot(ctx, http.MethodPost, "/cart/items", map[string]int{"product_id": productID})
}

func (c *StorefrontClient) UpdateQuantity(ctx context.Context, id, quantity int) (storefront.Snapshot, error) {
	return c.snapshot(ctx, http.MethodPatch, fmt.Sprintf("/cart/items/%d", id), map[string]int{"quantity": quantity})
}

func (c *StorefrontClient) RemoveFromCart(ctx context.Context, id int) (storefront.Snapshot, error) {
	return c.snapshot(ctx, http.MethodDelete, fmt.Sprintf("/cart/items/%d", id), nil)
}

func (c *StorefrontClient) ClearCart(ctx context.Context) (storefront.Snapshot, error) {
	return c.snapshot(ctx, http.MethodDelete, "/cart", nil)
}

func (c *StorefrontClient) SetView(ctx context.Context, v view.View) (storefront.Snapshot, error) {
	return c.snapshot(ctx, http.MethodPut, "/view", map[string]string{"view": string(v)})
}

func (c *StorefrontClient) EditCheckout(ctx context.Context, field checkout.Field, value string) (storefront.Snapshot, error) {
	return c.snapshot(ctx, http.MethodPatch, "/checkout", map[string]string{"field": string(field), "value": value})
}

func (c *StorefrontClient) SubmitCheckout(ctx context.Context, form checkout.Form) (storefront.Snapshot, error) {
	return c.snapshot(ctx, http.MethodPost, "/checkout", form)
}

func (c *StorefrontClient) snapshot(ctx context.Context, method, path string, body interface{}) (storefront.Snapshot, error) {
	var snap storefront.Snapshot
	err := c.do(ctx, method, path, body, &snap)
	return snap, err
}

func (c *StorefrontClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: e.Error}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
