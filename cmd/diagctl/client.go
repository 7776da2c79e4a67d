package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// client calls the diagnostics HTTP surface of a companion server.
type client struct {
	baseURL   string
	installID string
	http      *http.Client
}

func newClient(baseURL, installID string, timeout time.Duration) *client {
	return &client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		installID: installID,
		http:      &http.Client{Timeout: timeout},
	}
}

type item struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Value string `json:"value"`
}

type itemsResponse struct {
	Items []item `json:"items"`
}

type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

func (c *client) items(ctx context.Context) ([]item, error) {
	var resp itemsResponse
	if err := c.do(ctx, http.MethodGet, "/diagnostics", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *client) refresh(ctx context.Context) ([]item, error) {
	var resp itemsResponse
	if err := c.do(ctx, http.MethodPost, "/diagnostics/refresh", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *client) report(ctx context.Context, html bool) (string, error) {
	path := "/diagnostics/report"
	if html {
		path += ".html"
	}
	var out strings.Builder
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return "", err
	}
	return out.String(), nil
}

func (c *client) setItem(ctx context.Context, itemType, value string) error {
	body, err := json.Marshal(map[string]string{"value": value})
	if err != nil {
		return fmt.Errorf("encode item: %w", err)
	}
	return c.do(ctx, http.MethodPut, "/diagnostics/items/"+url.PathEscape(itemType), bytes.NewReader(body), nil)
}

func (c *client) refreshSocials(ctx context.Context, wait bool) error {
	path := "/diagnostics/socials/refresh"
	if wait {
		path += "?wait=true"
	}
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

func (c *client) removeUserSpecific(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/diagnostics/user-specific", nil, nil)
}

// do sends the request and decodes the response into out: JSON for structs,
// raw text for a *strings.Builder, nothing for nil.
func (c *client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.installID != "" {
		req.Header.Set("X-Install-ID", c.installID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var e errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			return fmt.Errorf("%s %s: %s", method, path, resp.Status)
		}
		return fmt.Errorf("%s %s: %s: %s", method, path, e.Error, e.Description)
	}

	switch dst := out.(type) {
	case nil:
		return nil
	case *strings.Builder:
		_, err := io.Copy(dst, resp.Body)
		return err
	default:
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			return fmt.Errorf("decode %s response: %w", path, err)
		}
		return nil
	}
}
