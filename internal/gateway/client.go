// Package gateway is the stateless contract wrapper around the remote
// DocuMind API. It owns the wire shapes, attaches the bearer credential to
// every request, and translates failures into the three-error taxonomy
// (TransportError, ProtocolError, AuthError). Nothing in here holds session
// state; callers decide what a failure means for them.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultTimeout = 60 * time.Second

// Client talks to one DocuMind backend with one bearer credential.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client

	// Called at most once, before the first AuthError is returned. The
	// surrounding shell uses it to clear the stored credential and push the
	// user back to a logged-out state.
	onAuthInvalidated func()
	invalidateOnce    sync.Once
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client (used by tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithOnAuthInvalidated registers the global 401 handler.
func WithOnAuthInvalidated(fn func()) Option {
	return func(c *Client) { c.onAuthInvalidated = fn }
}

// New creates a client for the given base URL and bearer token. An empty
// token is allowed; unauthenticated endpoints (health, login, register)
// still work, everything else will come back as AuthError.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) invalidate() {
	if c.onAuthInvalidated != nil {
		c.invalidateOnce.Do(c.onAuthInvalidated)
	}
}

// send performs one request and decodes a 2xx JSON body into out (if out is
// non-nil). authed controls both the Authorization header and whether a 401
// counts as a rejected credential: the login endpoint returns 401 for a bad
// password, which must not invalidate a credential we never sent.
func (c *Client) send(ctx context.Context, method, path, contentType string, body io.Reader, authed bool, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		reason := errorDetail(resp.Body)
		if authed {
			c.invalidate()
			return &AuthError{Reason: reason}
		}
		return &ProtocolError{Status: resp.StatusCode, Reason: reason}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ProtocolError{Status: resp.StatusCode, Reason: errorDetail(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ProtocolError{Reason: fmt.Sprintf("decoding response: %v", err)}
	}
	return nil
}

// errorDetail extracts the backend's {"detail": ...} message, falling back to
// a raw body snippet.
func errorDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return "no error detail"
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return strings.TrimSpace(string(data))
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.send(ctx, http.MethodGet, path, "", nil, true, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshalling request: %w", err)
	}
	return c.send(ctx, http.MethodPost, path, "application/json", bytes.NewReader(data), true, out)
}

func (c *Client) deleteJSON(ctx context.Context, path string, out any) error {
	return c.send(ctx, http.MethodDelete, path, "", nil, true, out)
}

// Query asks a question, optionally scoped to a single document
// (documentID "" means all documents). A response without an "answer" field
// is a ProtocolError even when the status was 2xx.
func (c *Client) Query(ctx context.Context, req QueryRequest) (QueryResponse, error) {
	var raw struct {
		Answer           *string  `json:"answer"`
		Sources          []Source `json:"sources"`
		Confidence       *float64 `json:"confidence"`
		QueryID          string   `json:"query_id"`
		Timestamp        string   `json:"timestamp"`
		DocumentSearched string   `json:"document_searched"`
	}
	if err := c.postJSON(ctx, "/query", req, &raw); err != nil {
		return QueryResponse{}, err
	}
	if raw.Answer == nil {
		return QueryResponse{}, &ProtocolError{Reason: `response missing "answer" field`}
	}

	// Optional fields are defaulted here, once, so no caller ever sees a nil
	// sources slice.
	sources := raw.Sources
	if sources == nil {
		sources = []Source{}
	}
	return QueryResponse{
		Answer:           *raw.Answer,
		Sources:          sources,
		Confidence:       raw.Confidence,
		QueryID:          raw.QueryID,
		Timestamp:        raw.Timestamp,
		DocumentSearched: raw.DocumentSearched,
	}, nil
}

// Summarize requests an on-demand AI summary of one document.
func (c *Client) Summarize(ctx context.Context, documentID string) (SummarizeResponse, error) {
	var resp SummarizeResponse
	path := "/documents/" + url.PathEscape(documentID) + "/summarize"
	if err := c.send(ctx, http.MethodPost, path, "", nil, true, &resp); err != nil {
		return SummarizeResponse{}, err
	}
	return resp, nil
}

// Documents lists the caller's uploaded documents.
func (c *Client) Documents(ctx context.Context) ([]Document, error) {
	var resp struct {
		Documents []Document `json:"documents"`
	}
	if err := c.getJSON(ctx, "/documents", &resp); err != nil {
		return nil, err
	}
	if resp.Documents == nil {
		return []Document{}, nil
	}
	return resp.Documents, nil
}

// DocumentContent fetches the extracted text of one owned document.
func (c *Client) DocumentContent(ctx context.Context, documentID string) (string, error) {
	var resp struct {
		Content string `json:"content"`
	}
	if err := c.getJSON(ctx, "/documents/"+url.PathEscape(documentID)+"/content", &resp); err != nil {
		return "", err
	}
	return resp.Content, nil
}

// DeleteDocument removes one owned document from the backend.
func (c *Client) DeleteDocument(ctx context.Context, documentID string) error {
	return c.deleteJSON(ctx, "/documents/"+url.PathEscape(documentID), nil)
}

// Upload sends a file to POST /documents/upload as multipart form data.
func (c *Client) Upload(ctx context.Context, filename string, content io.Reader) (UploadResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return UploadResponse{}, fmt.Errorf("building multipart body: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return UploadResponse{}, fmt.Errorf("reading file content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return UploadResponse{}, fmt.Errorf("finalizing multipart body: %w", err)
	}

	var resp UploadResponse
	if err := c.send(ctx, http.MethodPost, "/documents/upload", mw.FormDataContentType(), &buf, true, &resp); err != nil {
		return UploadResponse{}, err
	}
	return resp, nil
}

// Login exchanges credentials for a bearer token. A 401 here means a wrong
// username or password, not an expired session, so it surfaces as a
// ProtocolError.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{"username": {username}, "password": {password}}
	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	err := c.send(ctx, http.MethodPost, "/auth/login", "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()), false, &resp)
	if err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", &ProtocolError{Reason: `response missing "access_token" field`}
	}
	return resp.AccessToken, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, username, password string) (RegisterResponse, error) {
	form := url.Values{"username": {username}, "password": {password}}
	var resp RegisterResponse
	err := c.send(ctx, http.MethodPost, "/auth/register", "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()), false, &resp)
	if err != nil {
		return RegisterResponse{}, err
	}
	return resp, nil
}

// Conversation fetches the server-side history for one chat session.
func (c *Client) Conversation(ctx context.Context, sessionID string) ([]ConversationMessage, error) {
	var resp struct {
		ConversationHistory []ConversationMessage `json:"conversation_history"`
	}
	if err := c.getJSON(ctx, "/conversation/"+url.PathEscape(sessionID), &resp); err != nil {
		return nil, err
	}
	if resp.ConversationHistory == nil {
		return []ConversationMessage{}, nil
	}
	return resp.ConversationHistory, nil
}

// ClearConversation wipes the server-side history for one chat session.
func (c *Client) ClearConversation(ctx context.Context, sessionID string) error {
	return c.deleteJSON(ctx, "/conversation/"+url.PathEscape(sessionID), nil)
}

// Analytics fetches the caller's usage analytics.
func (c *Client) Analytics(ctx context.Context) (Analytics, error) {
	var resp struct {
		Analytics Analytics `json:"analytics"`
	}
	if err := c.getJSON(ctx, "/analytics", &resp); err != nil {
		return Analytics{}, err
	}
	return resp.Analytics, nil
}

// AnalyticsSummary fetches the condensed analytics block.
func (c *Client) AnalyticsSummary(ctx context.Context) (AnalyticsSummary, error) {
	var resp struct {
		Summary AnalyticsSummary `json:"summary"`
	}
	if err := c.getJSON(ctx, "/analytics/summary", &resp); err != nil {
		return AnalyticsSummary{}, err
	}
	return resp.Summary, nil
}

// Visualization fetches chart-ready analytics data. The payload is a map of
// chart name to backend-defined series; the client renders it verbatim.
func (c *Client) Visualization(ctx context.Context) (map[string]json.RawMessage, error) {
	var resp map[string]json.RawMessage
	if err := c.getJSON(ctx, "/analytics/visualization", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// AdminAnalytics fetches the aggregate (all-user) visualization data.
// Requires the admin role; a 403 comes back as ProtocolError.
func (c *Client) AdminAnalytics(ctx context.Context) (map[string]json.RawMessage, error) {
	var resp map[string]json.RawMessage
	if err := c.getJSON(ctx, "/analytics/admin", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// AdminUsers lists every registered user (admin only).
func (c *Client) AdminUsers(ctx context.Context) ([]User, error) {
	var resp struct {
		Users []User `json:"users"`
	}
	if err := c.getJSON(ctx, "/admin/users", &resp); err != nil {
		return nil, err
	}
	if resp.Users == nil {
		return []User{}, nil
	}
	return resp.Users, nil
}

// AdminDocuments lists every stored document (admin only).
func (c *Client) AdminDocuments(ctx context.Context) ([]Document, error) {
	var resp struct {
		Documents []Document `json:"documents"`
	}
	if err := c.getJSON(ctx, "/admin/documents", &resp); err != nil {
		return nil, err
	}
	if resp.Documents == nil {
		return []Document{}, nil
	}
	return resp.Documents, nil
}

// DeleteUser removes one user account (admin only).
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	return c.deleteJSON(ctx, "/admin/users/"+url.PathEscape(userID), nil)
}

// Health checks backend reachability. No credential required.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var resp Health
	if err := c.send(ctx, http.MethodGet, "/health", "", nil, false, &resp); err != nil {
		return Health{}, err
	}
	return resp, nil
}
