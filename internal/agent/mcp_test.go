package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/documind/cli/internal/gateway"
)

// --- mocks ---

type mockGateway struct {
	queryResp     gateway.QueryResponse
	queryErr      error
	lastQuery     gateway.QueryRequest
	summarizeResp gateway.SummarizeResponse
	summarizeErr  error
	docs          []gateway.Document
	docsErr       error
}

func (m *mockGateway) Query(_ context.Context, req gateway.QueryRequest) (gateway.QueryResponse, error) {
	m.lastQuery = req
	return m.queryResp, m.queryErr
}

func (m *mockGateway) Summarize(_ context.Context, _ string) (gateway.SummarizeResponse, error) {
	return m.summarizeResp, m.summarizeErr
}

func (m *mockGateway) Documents(_ context.Context) ([]gateway.Document, error) {
	return m.docs, m.docsErr
}

// --- helpers ---

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func makeCallToolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func makeReadResourceRequest(uri string) mcp.ReadResourceRequest {
	return mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

// --- tests ---

func TestMCPTool_AskDocuments(t *testing.T) {
	answer := "Refunds are processed within 30 days."
	conf := 0.92
	gw := &mockGateway{
		queryResp: gateway.QueryResponse{
			Answer:     answer,
			Confidence: &conf,
			Sources:    []gateway.Source{{Filename: "policy.pdf", SimilarityScore: 0.91}},
		},
	}
	handler := askDocuments(Deps{Gateway: gw, MaxResults: 5})

	req := makeCallToolRequest("ask_documents", map[string]interface{}{
		"question":    "What is the refund policy?",
		"document_id": "doc-42",
	})

	result, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", toolText(t, result))
	}

	var out struct {
		Answer     string `json:"answer"`
		Confidence *float64
		Sources    []struct {
			Filename        string  `json:"filename"`
			SimilarityScore float64 `json:"similarity_score"`
		} `json:"sources"`
	}
	if err := json.Unmarshal([]byte(toolText(t, result)), &out); err != nil {
		t.Fatalf("unmarshaling result: %v", err)
	}
	if out.Answer != answer {
		t.Errorf("answer = %q, want %q", out.Answer, answer)
	}
	if len(out.Sources) != 1 || out.Sources[0].Filename != "policy.pdf" {
		t.Errorf("sources = %+v", out.Sources)
	}

	if gw.lastQuery.DocumentID != "doc-42" {
		t.Errorf("document_id passed = %q, want %q", gw.lastQuery.DocumentID, "doc-42")
	}
	if gw.lastQuery.MaxResults != 5 {
		t.Errorf("max_results = %d, want 5", gw.lastQuery.MaxResults)
	}
}

func TestMCPTool_AskDocumentsMissingQuestion(t *testing.T) {
	handler := askDocuments(Deps{Gateway: &mockGateway{}, MaxResults: 5})

	result, err := handler(context.Background(), makeCallToolRequest("ask_documents", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected IsError for missing question")
	}
}

func TestMCPTool_AskDocumentsGatewayFailure(t *testing.T) {
	gw := &mockGateway{queryErr: errors.New("connection refused")}
	handler := askDocuments(Deps{Gateway: gw, MaxResults: 5})

	result, err := handler(context.Background(), makeCallToolRequest("ask_documents", map[string]interface{}{
		"question": "anything",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError for gateway failure")
	}
	if !strings.Contains(toolText(t, result), "connection refused") {
		t.Errorf("error text = %q, want cause included", toolText(t, result))
	}
}

func TestMCPTool_AskDocumentsClampsMaxResults(t *testing.T) {
	gw := &mockGateway{queryResp: gateway.QueryResponse{Sources: []gateway.Source{}}}
	handler := askDocuments(Deps{Gateway: gw, MaxResults: 5})

	req := makeCallToolRequest("ask_documents", map[string]interface{}{
		"question":    "anything",
		"max_results": float64(100),
	})
	if _, err := handler(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gw.lastQuery.MaxResults != 20 {
		t.Errorf("max_results = %d, want clamped to 20", gw.lastQuery.MaxResults)
	}
}

func TestMCPTool_SummarizeDocument(t *testing.T) {
	gw := &mockGateway{
		summarizeResp: gateway.SummarizeResponse{
			DocumentID: "doc-42",
			Summary: gateway.DocumentSummary{
				ExecutiveSummary: "A quarterly earnings report.",
				KeyPoints:        []string{"Revenue up 12%"},
			},
			Status: "success",
		},
	}
	handler := summarizeDocument(Deps{Gateway: gw})

	result, err := handler(context.Background(), makeCallToolRequest("summarize_document", map[string]interface{}{
		"document_id": "doc-42",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", toolText(t, result))
	}

	var summary gateway.DocumentSummary
	if err := json.Unmarshal([]byte(toolText(t, result)), &summary); err != nil {
		t.Fatalf("unmarshaling summary: %v", err)
	}
	if summary.ExecutiveSummary != "A quarterly earnings report." {
		t.Errorf("executive summary = %q", summary.ExecutiveSummary)
	}
}

func TestMCPTool_SummarizeDocumentMissingID(t *testing.T) {
	handler := summarizeDocument(Deps{Gateway: &mockGateway{}})

	result, err := handler(context.Background(), makeCallToolRequest("summarize_document", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Error("expected IsError for missing document_id")
	}
}

func TestMCPTool_ListDocuments(t *testing.T) {
	gw := &mockGateway{docs: []gateway.Document{
		{DocumentID: "doc-1", Filename: "report.pdf", FileType: "pdf", ChunkCount: 14},
		{DocumentID: "doc-2", Filename: "notes.txt", FileType: "txt", ChunkCount: 3},
	}}
	handler := listDocuments(Deps{Gateway: gw})

	result, err := handler(context.Background(), makeCallToolRequest("list_documents", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var docs []struct {
		DocumentID string `json:"document_id"`
		Filename   string `json:"filename"`
	}
	if err := json.Unmarshal([]byte(toolText(t, result)), &docs); err != nil {
		t.Fatalf("unmarshaling documents: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
	if docs[0].DocumentID != "doc-1" || docs[1].Filename != "notes.txt" {
		t.Errorf("documents = %+v", docs)
	}
}

func TestMCPResource_Documents(t *testing.T) {
	gw := &mockGateway{docs: []gateway.Document{
		{DocumentID: "doc-1", Filename: "report.pdf", FileType: "pdf"},
	}}
	handler := resourceDocuments(Deps{Gateway: gw})

	contents, err := handler(context.Background(), makeReadResourceRequest("documents://list"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("got %d contents, want 1", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("expected TextResourceContents, got %T", contents[0])
	}
	if tc.MIMEType != "application/json" {
		t.Errorf("MIME type = %q, want application/json", tc.MIMEType)
	}
	if !strings.Contains(tc.Text, "report.pdf") {
		t.Errorf("resource text = %q, want document listed", tc.Text)
	}
}

func TestMCPResource_DocumentsGatewayFailure(t *testing.T) {
	gw := &mockGateway{docsErr: errors.New("boom")}
	handler := resourceDocuments(Deps{Gateway: gw})

	if _, err := handler(context.Background(), makeReadResourceRequest("documents://list")); err == nil {
		t.Error("expected error when gateway fails")
	}
}
