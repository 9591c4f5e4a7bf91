package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/me/schedsim/pkg/model"
)

const userAgent = "schedsim-cli"

// Client is an HTTP client for the schedsim API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewClient creates a schedsim API client.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{},
		Logger:     logger,
	}
}

// apiResponse is the parsed envelope.
type apiResponse struct {
	Status     string            `json:"status"`
	RequestID  string            `json:"request_id"`
	Data       json.RawMessage   `json:"data"`
	Pagination *model.Pagination `json:"pagination"`
	Error      *model.APIError   `json:"error"`
}

// Decode unmarshals the response data into v.
func (r *apiResponse) Decode(v any) error {
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

// do encodes body and sends the request. A rawBody is sent as-is; anything
// else non-nil is sent as JSON.
func (c *Client) do(method, path string, body any) (*apiResponse, error) {
	var (
		payload     io.Reader
		contentType string
	)
	switch b := body.(type) {
	case nil:
	case rawBody:
		payload, contentType = bytes.NewReader(b.data), b.contentType
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		c.Logger.Debug("request body", "body", string(data))
		payload, contentType = bytes.NewReader(data), "application/json"
	}
	return c.send(method, path, payload, contentType)
}

// send performs the request and unwraps the envelope. An error envelope is
// returned as its *model.APIError.
func (c *Client) send(method, path string, payload io.Reader, contentType string) (*apiResponse, error) {
	req, err := http.NewRequest(method, c.BaseURL+path, payload)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	c.Logger.Debug("response", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", resp.Header.Get("X-Request-ID"), "duration", time.Since(start))

	var env apiResponse
	if err := json.Unmarshal(raw, &env); err != nil || env.Status == "" {
		return nil, fmt.Errorf("%s %s: unexpected response (HTTP %d): %s",
			method, path, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if env.Status == "error" && env.Error != nil {
		return &env, env.Error
	}
	return &env, nil
}

// rawBody is a pre-encoded request body.
type rawBody struct {
	data        []byte
	contentType string
}

// Get performs a GET request.
func (c *Client) Get(path string) (*apiResponse, error) {
	return c.do(http.MethodGet, path, nil)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(path string, body any) (*apiResponse, error) {
	return c.do(http.MethodPost, path, body)
}

// PostRaw performs a POST request with a pre-encoded body.
func (c *Client) PostRaw(path string, data []byte, contentType string) (*apiResponse, error) {
	return c.do(http.MethodPost, path, rawBody{data: data, contentType: contentType})
}

// Put performs a PUT request.
func (c *Client) Put(path string, body any) (*apiResponse, error) {
	return c.do(http.MethodPut, path, body)
}

// Delete performs a DELETE request.
func (c *Client) Delete(path string) (*apiResponse, error) {
	return c.do(http.MethodDelete, path, nil)
}
