package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/documind/cli/internal/gateway"
)

// Gateway abstracts the backend calls the MCP layer needs.
type Gateway interface {
	Query(ctx context.Context, req gateway.QueryRequest) (gateway.QueryResponse, error)
	Summarize(ctx context.Context, documentID string) (gateway.SummarizeResponse, error)
	Documents(ctx context.Context) ([]gateway.Document, error)
}

// Deps holds dependencies for the MCP server.
type Deps struct {
	Gateway    Gateway
	MaxResults int // default source count for ask_documents
}

// NewServer creates an MCP server exposing the document corpus to agents.
func NewServer(deps Deps) *server.MCPServer {
	s := server.NewMCPServer(
		"documind",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("documind — question answering over an uploaded document corpus, with per-source citations."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("ask_documents",
			mcp.WithDescription("Ask a question against the document corpus and get an answer with cited sources."),
			mcp.WithString("question", mcp.Description("The question to answer"), mcp.Required()),
			mcp.WithString("document_id", mcp.Description("Optional document id to restrict the search to")),
			mcp.WithNumber("max_results", mcp.Description("Maximum number of cited sources (default 5)")),
		),
		askDocuments(deps),
	)

	s.AddTool(
		mcp.NewTool("summarize_document",
			mcp.WithDescription("Generate a structured summary of a single document."),
			mcp.WithString("document_id", mcp.Description("Document id to summarize"), mcp.Required()),
		),
		summarizeDocument(deps),
	)

	s.AddTool(
		mcp.NewTool("list_documents",
			mcp.WithDescription("List the documents available in the corpus."),
		),
		listDocuments(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"documents://list",
			"Document Corpus",
			mcp.WithResourceDescription("Documents available for querying, as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		resourceDocuments(deps),
	)

	return s
}

func askDocuments(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		question, err := req.RequireString("question")
		if err != nil {
			return mcpError("question is required"), nil
		}

		maxResults := req.GetInt("max_results", deps.MaxResults)
		if maxResults <= 0 {
			maxResults = 5
		}
		if maxResults > 20 {
			maxResults = 20
		}

		resp, err := deps.Gateway.Query(ctx, gateway.QueryRequest{
			Query:      question,
			MaxResults: maxResults,
			DocumentID: req.GetString("document_id", ""),
		})
		if err != nil {
			return mcpError(fmt.Sprintf("query failed: %v", err)), nil
		}

		type sourceResult struct {
			Filename        string  `json:"filename"`
			SimilarityScore float64 `json:"similarity_score"`
		}
		type answerResult struct {
			Answer     string         `json:"answer"`
			Sources    []sourceResult `json:"sources"`
			Confidence *float64       `json:"confidence,omitempty"`
		}

		out := answerResult{
			Answer:     resp.Answer,
			Confidence: resp.Confidence,
			Sources:    make([]sourceResult, len(resp.Sources)),
		}
		for i, s := range resp.Sources {
			out.Sources[i] = sourceResult{Filename: s.Filename, SimilarityScore: s.SimilarityScore}
		}

		b, err := json.Marshal(out)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal answer: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func summarizeDocument(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		documentID, err := req.RequireString("document_id")
		if err != nil {
			return mcpError("document_id is required"), nil
		}

		resp, err := deps.Gateway.Summarize(ctx, documentID)
		if err != nil {
			return mcpError(fmt.Sprintf("summarize failed: %v", err)), nil
		}

		b, err := json.Marshal(resp.Summary)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal summary: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func listDocuments(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		docs, err := deps.Gateway.Documents(ctx)
		if err != nil {
			return mcpError(fmt.Sprintf("listing documents failed: %v", err)), nil
		}

		b, err := marshalDocuments(docs)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal documents: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func resourceDocuments(deps Deps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		docs, err := deps.Gateway.Documents(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing documents: %w", err)
		}

		b, err := marshalDocuments(docs)
		if err != nil {
			return nil, fmt.Errorf("marshaling documents: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func marshalDocuments(docs []gateway.Document) ([]byte, error) {
	type docResult struct {
		DocumentID string `json:"document_id"`
		Filename   string `json:"filename"`
		FileType   string `json:"file_type"`
		ChunkCount int    `json:"chunk_count"`
	}

	results := make([]docResult, len(docs))
	for i, d := range docs {
		results[i] = docResult{
			DocumentID: d.DocumentID,
			Filename:   d.Filename,
			FileType:   d.FileType,
			ChunkCount: d.ChunkCount,
		}
	}
	return json.Marshal(results)
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
