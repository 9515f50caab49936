package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/scribe/internal/interfaces"
	"github.com/ternarybob/scribe/internal/models"
)

const (
	// DefaultBaseURL is the base URL of the document service.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 10

	// CredentialHeader carries the API key on every request. The credential
	// is never sent via query string or body.
	CredentialHeader = "X-API-Key"
)

// Fixed fallback messages, one per operation. Every failure path out of the
// client yields a non-empty, user-displayable string.
const (
	msgUnhealthy        = "Service is unhealthy"
	msgUploadFailed     = "Failed to upload file"
	msgQueryFailed      = "Failed to query documents"
	msgChatFailed       = "Failed to send chat message"
	msgDeleteFailed     = "Failed to delete documents"
	msgDeleteUnexpected = "An unexpected error occurred while deleting documents"
)

// Client is the HTTP client for the document question-answering service.
// The API key is read from the credential store on each request, so a key
// saved mid-session takes effect immediately.
type Client struct {
	baseURL     string
	credentials interfaces.CredentialStore
	httpClient  *http.Client
	logger      arbor.ILogger
	limiter     *rate.Limiter
}

// Compile-time interface assertion
var _ interfaces.Gateway = (*Client)(nil)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewClient creates a new service client. The default HTTP client carries no
// timeout: chat responses stream for an unbounded time and no operation has a
// cancellation hook, a hung request holds its flow's loading flag until the
// transport itself fails.
func NewClient(credentials interfaces.CredentialStore, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		credentials: credentials,
		httpClient:  &http.Client{},
		limiter:     rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// apiKey reads the stored credential, returning "" when absent. Absence is
// not an error here: the request is sent as-is and the service decides.
func (c *Client) apiKey(ctx context.Context) string {
	if c.credentials == nil {
		return ""
	}
	key, err := c.credentials.Get(ctx)
	if err != nil {
		return ""
	}
	return key
}

// newRequest builds a request with the credential header attached if present.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if key := c.apiKey(ctx); key != "" {
		req.Header.Set(CredentialHeader, key)
	}
	return req, nil
}

// CheckHealth calls GET /api/health. Any failure, transport or HTTP, yields
// the same fixed unhealthy error so repeated checks against an unreachable
// service are idempotent.
func (c *Client) CheckHealth(ctx context.Context) (*models.HealthResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.New(msgUnhealthy)
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/api/health", nil)
	if err != nil {
		return nil, errors.New(msgUnhealthy)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.New(msgUnhealthy)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(msgUnhealthy)
	}

	var result models.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.New(msgUnhealthy)
	}

	return &result, nil
}

// UploadDocument posts the file as multipart form data to /api/upload.
func (c *Client) UploadDocument(ctx context.Context, fileName string, content io.Reader) (*models.UploadResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.New(msgUploadFailed)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, errors.New(msgUploadFailed)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, transportError(err, msgUploadFailed)
	}
	if err := writer.Close(); err != nil {
		return nil, errors.New(msgUploadFailed)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/upload", &body)
	if err != nil {
		return nil, errors.New(msgUploadFailed)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	if c.logger != nil {
		c.logger.Debug().Str("file", fileName).Msg("Uploading document")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err, msgUploadFailed)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, detailError(resp, msgUploadFailed)
	}

	var result models.UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.New(msgUploadFailed)
	}

	if c.logger != nil {
		c.logger.Info().
			Str("file", result.Filename).
			Int("chunks", result.Chunks).
			Str("elapsed", time.Since(start).String()).
			Msg("Document uploaded")
	}

	return &result, nil
}

// QueryDocuments posts the request to /api/query.
func (c *Client) QueryDocuments(ctx context.Context, queryReq *models.QueryRequest) (*models.QueryResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.New(msgQueryFailed)
	}

	payload, err := json.Marshal(queryReq)
	if err != nil {
		return nil, errors.New(msgQueryFailed)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/query", bytes.NewReader(payload))
	if err != nil {
		return nil, errors.New(msgQueryFailed)
	}
	req.Header.Set("Content-Type", "application/json")

	if c.logger != nil {
		c.logger.Debug().Str("query", queryReq.Query).Msg("Querying documents")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err, msgQueryFailed)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, detailError(resp, msgQueryFailed)
	}

	var result models.QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.New(msgQueryFailed)
	}

	return &result, nil
}

// SendChatMessage posts the request to /api/chat and hands the open response
// body back to the caller as a live byte stream. The caller drains and closes
// it.
func (c *Client) SendChatMessage(ctx context.Context, chatReq *models.ChatRequest) (io.ReadCloser, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.New(msgChatFailed)
	}

	payload, err := json.Marshal(chatReq)
	if err != nil {
		return nil, errors.New(msgChatFailed)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, errors.New(msgChatFailed)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err, msgChatFailed)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, httpError(resp, msgChatFailed)
	}

	if c.logger != nil {
		c.logger.Debug().Int("status", resp.StatusCode).Msg("Chat stream open")
	}

	return resp.Body, nil
}

// DeleteAllDocuments calls DELETE /api/documents.
func (c *Client) DeleteAllDocuments(ctx context.Context) (*models.DeleteResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.New(msgDeleteUnexpected)
	}

	req, err := c.newRequest(ctx, http.MethodDelete, "/api/documents", nil)
	if err != nil {
		return nil, errors.New(msgDeleteUnexpected)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err, msgDeleteUnexpected)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, httpError(resp, msgDeleteFailed)
	}

	var result models.DeleteResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, errors.New(msgDeleteUnexpected)
	}

	if c.logger != nil {
		c.logger.Info().Str("detail", result.Detail).Msg("Documents deleted")
	}

	return &result, nil
}

// decodeDetail attempts to read a JSON {detail} error body. A missing or
// unparseable body is tolerated and reported as "".
func decodeDetail(resp *http.Response) string {
	var errBody struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errBody); err != nil {
		return ""
	}
	return errBody.Detail
}

// detailError normalizes a non-2xx response into the raw server detail when
// one is present, falling back to the operation's fixed message. Used by
// upload and query, which surface the detail without decoration.
func detailError(resp *http.Response, fallback string) error {
	if detail := decodeDetail(resp); detail != "" {
		return errors.New(detail)
	}
	return errors.New(fallback)
}

// httpError normalizes a non-2xx response into "HTTP error <status>: <detail>",
// substituting the fixed fallback when no detail can be parsed. Used by chat
// and delete.
func httpError(resp *http.Response, fallback string) error {
	detail := decodeDetail(resp)
	if detail == "" {
		detail = fallback
	}
	return fmt.Errorf("HTTP error %d: %s", resp.StatusCode, detail)
}

// transportError normalizes a transport-level failure, preferring its own
// message and guaranteeing a non-empty result.
func transportError(err error, fallback string) error {
	if err == nil || err.Error() == "" {
		return errors.New(fallback)
	}
	return err
}
