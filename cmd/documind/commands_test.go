package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/documind/cli/internal/config"
	"github.com/documind/cli/internal/gateway"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
	Auth   string
}

type testServer struct {
	server   *httptest.Server
	requests []recordedRequest
}

func newTestServer(t *testing.T, responses map[string]string) *testServer {
	t.Helper()
	ts := &testServer{}

	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		body.ReadFrom(r.Body)

		ts.requests = append(ts.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.RequestURI(),
			Body:   body.String(),
			Auth:   r.Header.Get("Authorization"),
		})

		key := r.Method + " " + r.URL.Path
		if resp, ok := responses[key]; ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(resp))
			return
		}

		w.WriteHeader(404)
		w.Write([]byte(`{"detail":"not found"}`))
	}))

	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) client() *gateway.Client {
	return gateway.New(ts.server.URL, "test-token",
		gateway.WithHTTPClient(ts.server.Client()))
}

func testConfig() config.Config {
	return config.Config{
		Server:  config.ServerConfig{BaseURL: "http://ignored", TimeoutSeconds: 5},
		Chat:    config.ChatConfig{MaxResults: 5},
		Summary: config.SummaryConfig{CacheTTL: "10m"},
		Log:     config.LogConfig{Level: "info"},
	}
}

func runREPL(t *testing.T, ts *testServer, input string) string {
	t.Helper()
	var out bytes.Buffer
	repl := newChatREPL(ts.client(), testConfig(), nil, strings.NewReader(input), &out)
	if err := repl.run(t.Context()); err != nil {
		t.Fatalf("repl run: %v", err)
	}
	return out.String()
}

func TestChat_QuestionRendersAnswer(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /documents": `{"documents":[]}`,
		"POST /query":    `{"answer":"The refund window is 30 days.","sources":[{"filename":"policy.pdf","similarity_score":0.867}],"confidence":0.9,"query_id":"q1","timestamp":"2026-08-31T10:00:00Z"}`,
	})

	out := runREPL(t, ts, "What is the refund window?\n/quit\n")

	if !strings.Contains(out, "The refund window is 30 days.") {
		t.Errorf("output missing answer: %q", out)
	}
	if !strings.Contains(out, "policy.pdf (similarity: 86.7%)") {
		t.Errorf("output missing formatted source: %q", out)
	}
	if !strings.Contains(out, "confidence: High") {
		t.Errorf("output missing confidence bucket: %q", out)
	}

	// First request loads the document list; second is the query.
	var query *recordedRequest
	for i := range ts.requests {
		if ts.requests[i].Path == "/query" {
			query = &ts.requests[i]
		}
	}
	if query == nil {
		t.Fatal("no query request recorded")
	}
	if query.Auth != "Bearer test-token" {
		t.Errorf("auth = %q, want bearer token", query.Auth)
	}
}

func TestChat_QueryFailureShowsFallbackAndContinues(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /documents": `{"documents":[]}`,
	})

	out := runREPL(t, ts, "anything\n/quit\n")

	if !strings.Contains(out, "I'm sorry, I ran into a problem") {
		t.Errorf("output missing fallback answer: %q", out)
	}
}

func TestChat_DocsCommand(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /documents": `{"documents":[{"document_id":"doc-1","filename":"report.pdf","file_type":"pdf","file_size":2048,"upload_date":"2026-08-01","chunk_count":14}]}`,
	})

	out := runREPL(t, ts, "/docs\n/quit\n")

	if !strings.Contains(out, "report.pdf") {
		t.Errorf("output missing document listing: %q", out)
	}
}

func TestChat_ScopeFlowsIntoQuery(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /documents": `{"documents":[{"document_id":"doc-1","filename":"report.pdf","file_type":"pdf","file_size":2048,"upload_date":"2026-08-01","chunk_count":14}]}`,
		"POST /query":    `{"answer":"ok","sources":[],"confidence":0.7,"query_id":"q1","timestamp":"t","document_searched":"report.pdf"}`,
	})

	out := runREPL(t, ts, "/scope doc-1\nquestion\n/quit\n")

	if !strings.Contains(out, "Scoped to report.pdf") {
		t.Errorf("output missing scope confirmation: %q", out)
	}

	var queryBody string
	for _, r := range ts.requests {
		if r.Path == "/query" {
			queryBody = r.Body
		}
	}
	if !strings.Contains(queryBody, `"document_id":"doc-1"`) {
		t.Errorf("query body missing scoped document: %q", queryBody)
	}
}

func TestChat_ScopeUnknownDocument(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /documents": `{"documents":[]}`,
	})

	// The error goes to stderr; the loop must survive it and reach /quit.
	out := runREPL(t, ts, "/scope nope\n/quit\n")

	if !strings.Contains(out, "> ") {
		t.Errorf("prompt missing: %q", out)
	}
}

func TestChat_SummaryCommand(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /documents":                  `{"documents":[{"document_id":"doc-1","filename":"report.pdf","file_type":"pdf","file_size":2048,"upload_date":"2026-08-01","chunk_count":14}]}`,
		"POST /documents/doc-1/summarize": `{"document_id":"doc-1","summary":{"executive_summary":"A quarterly report.","key_points":["Revenue up"],"statistics":{"word_count":100,"line_count":10,"email_count":0,"phone_count":0},"content_analysis":{"document_type":"report","content_categories":[],"data_types":[]},"quick_overview":"Short."},"generated_at":"t","status":"success"}`,
	})

	out := runREPL(t, ts, "/summary doc-1\n/quit\n")

	if !strings.Contains(out, "A quarterly report.") {
		t.Errorf("output missing summary: %q", out)
	}
}

func TestChat_ClearResetsConversation(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /documents": `{"documents":[]}`,
		"POST /query":    `{"answer":"ok","sources":[],"query_id":"q1","timestamp":"t"}`,
	})

	var out bytes.Buffer
	repl := newChatREPL(ts.client(), testConfig(), nil, strings.NewReader("hello\n/clear\n/quit\n"), &out)
	firstID := repl.sessionID
	if err := repl.run(t.Context()); err != nil {
		t.Fatalf("repl run: %v", err)
	}

	if repl.session.Len() != 0 {
		t.Errorf("session length = %d after /clear, want 0", repl.session.Len())
	}
	if repl.sessionID == firstID {
		t.Error("session id not rotated after /clear")
	}

	cleared := false
	for _, r := range ts.requests {
		if r.Method == "DELETE" && strings.HasPrefix(r.Path, "/conversation/") {
			cleared = true
		}
	}
	if !cleared {
		t.Error("server-side conversation was not cleared")
	}
}

func TestChat_QuickPrompt(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /documents": `{"documents":[]}`,
		"POST /query":    `{"answer":"ok","sources":[],"query_id":"q1","timestamp":"t"}`,
	})

	out := runREPL(t, ts, "/quick\n/quick 1\n/quit\n")

	if !strings.Contains(out, "1. "+quickPrompts[0]) {
		t.Errorf("output missing prompt listing: %q", out)
	}

	var queryBody string
	for _, r := range ts.requests {
		if r.Path == "/query" {
			queryBody = r.Body
		}
	}
	if !strings.Contains(queryBody, quickPrompts[0]) {
		t.Errorf("query body = %q, want first quick prompt submitted", queryBody)
	}
}

func TestChat_HistoryCommand(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /documents": `{"documents":[]}`,
	})

	var out bytes.Buffer
	repl := newChatREPL(ts.client(), testConfig(), nil, strings.NewReader("/history\n/quit\n"), &out)
	if err := repl.run(t.Context()); err != nil {
		t.Fatalf("repl run: %v", err)
	}

	found := false
	for _, r := range ts.requests {
		if r.Method == "GET" && r.Path == "/conversation/"+repl.sessionID {
			found = true
		}
	}
	if !found {
		t.Error("no server-side conversation fetch recorded")
	}
}

func TestLoginCommand_MissingArgs(t *testing.T) {
	defer rootCmd.SetArgs(nil)

	rootCmd.SetArgs([]string{"login"})
	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("expected error for missing args")
	}
	if !strings.Contains(err.Error(), "arg") {
		t.Errorf("error = %q, want it to mention args", err.Error())
	}
}

func TestReadPassword_Flag(t *testing.T) {
	cmd := loginCmd
	if err := cmd.Flags().Set("password", "hunter2"); err != nil {
		t.Fatalf("setting flag: %v", err)
	}
	defer cmd.Flags().Set("password", "")

	got, err := readPassword(cmd)
	if err != nil {
		t.Fatalf("readPassword: %v", err)
	}
	if got != "hunter2" {
		t.Errorf("password = %q, want %q", got, "hunter2")
	}
}

func TestReadPassword_Stdin(t *testing.T) {
	cmd := registerCmd
	cmd.SetIn(strings.NewReader("s3cret\n"))
	defer cmd.SetIn(nil)

	got, err := readPassword(cmd)
	if err != nil {
		t.Fatalf("readPassword: %v", err)
	}
	if got != "s3cret" {
		t.Errorf("password = %q, want %q", got, "s3cret")
	}
}
