// Package remote implements sync.Backend over the catalog service's
// JSON API. Transport failures and non-2xx statuses are mapped onto the
// sync package's sentinel errors so callers never see HTTP details.
package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	catalog "io.winapps.myspot/internal/models/catalog"
	"io.winapps.myspot/internal/sync"
)

type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
}

// NewClient builds a catalog API client. The auth token may be empty
// for the public read paths (search, get).
func NewClient(baseURL, authToken string) *Client {
	return &Client{
		baseURL:    baseURL,
		authToken:  authToken,
		httpClient: http.DefaultClient,
	}
}

type searchRequest struct {
	Query    catalog.Query `json:"query"`
	PageSize int           `json:"pageSize"`
	Token    string        `json:"token,omitempty"`
}

type searchResponse struct {
	Records []map[string]any `json:"records"`
	Next    string           `json:"next,omitempty"`
}

func (c *Client) Search(ctx context.Context, q catalog.Query, pageSize int) (sync.Page, error) {
	return c.search(ctx, searchRequest{Query: q, PageSize: pageSize})
}

func (c *Client) Continue(ctx context.Context, token sync.ContinuationToken, pageSize int) (sync.Page, error) {
	return c.search(ctx, searchRequest{Query: token.Query, PageSize: pageSize, Token: token.Value})
}

func (c *Client) search(ctx context.Context, req searchRequest) (sync.Page, error) {
	var resp searchResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/catalog/search", req, &resp); err != nil {
		return sync.Page{}, err
	}

	page := sync.Page{Next: sync.ContinuationToken{Value: resp.Next, Query: req.Query}}
	for _, raw := range resp.Records {
		rec, err := catalog.Decode(raw)
		if err != nil {
			// A record the catalog could not round-trip is skipped, not
			// fatal for the page.
			continue
		}
		page.Records = append(page.Records, rec)
	}
	return page, nil
}

func (c *Client) Get(ctx context.Context, id string) (*catalog.Record, error) {
	var resp struct {
		Record map[string]any `json:"record"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/catalog/spots/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return catalog.Decode(resp.Record)
}

func (c *Client) Save(ctx context.Context, r *catalog.Record) error {
	body := struct {
		Record *catalog.Record `json:"record"`
	}{Record: r}
	return c.do(ctx, http.MethodPut, "/api/v1/catalog/spots/"+url.PathEscape(r.ID), body, nil)
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/catalog/spots/"+url.PathEscape(id), nil, nil)
}

func (c *Client) UploadAttachment(ctx context.Context, filename string, data []byte) (string, error) {
	req := struct {
		Filename string `json:"filename"`
		Data     string `json:"data"`
	}{Filename: filename, Data: base64.StdEncoding.EncodeToString(data)}
	var resp struct {
		Ref string `json:"ref"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/catalog/images", req, &resp); err != nil {
		return "", err
	}
	return resp.Ref, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%v: %w", err, sync.ErrRemoteUnavailable)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return sync.ErrRecordNotFound
	case resp.StatusCode == http.StatusConflict:
		return sync.ErrInvalidToken
	case resp.StatusCode >= 400:
		return fmt.Errorf("status %d: %w", resp.StatusCode, sync.ErrRemoteUnavailable)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", sync.ErrRemoteUnavailable)
		}
	}
	return nil
}
