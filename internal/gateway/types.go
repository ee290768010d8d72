package gateway

// Wire types for the DocuMind REST API. Field names follow the backend
// contract exactly and must not be renamed.

// ConversationTurn is one prior role/content pair sent as short-term dialogue
// context with a query.
type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Query               string             `json:"query"`
	ConversationHistory []ConversationTurn `json:"conversation_history,omitempty"`
	MaxResults          int                `json:"max_results,omitempty"`
	DocumentID          string             `json:"document_id,omitempty"`
}

// Source is one ranked citation attached to an answer.
type Source struct {
	Filename        string  `json:"filename"`
	SimilarityScore float64 `json:"similarity_score"`
}

// QueryResponse is the body of a successful POST /query.
// Confidence is a pointer because the backend may omit it.
type QueryResponse struct {
	Answer           string   `json:"answer"`
	Sources          []Source `json:"sources"`
	Confidence       *float64 `json:"confidence"`
	QueryID          string   `json:"query_id"`
	Timestamp        string   `json:"timestamp"`
	DocumentSearched string   `json:"document_searched,omitempty"`
}

// Document is one entry of GET /documents.
type Document struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	FileType   string `json:"file_type"`
	FileSize   int64  `json:"file_size"`
	UploadDate string `json:"upload_date"`
	ChunkCount int    `json:"chunk_count"`
}

// SummaryStatistics carries the counts section of a document summary.
type SummaryStatistics struct {
	WordCount  int `json:"word_count"`
	LineCount  int `json:"line_count"`
	EmailCount int `json:"email_count"`
	PhoneCount int `json:"phone_count"`
}

// ContentAnalysis classifies the document's content.
type ContentAnalysis struct {
	DocumentType      string   `json:"document_type"`
	ContentCategories []string `json:"content_categories,omitempty"`
	DataTypes         []string `json:"data_types,omitempty"`
}

// DocumentSummary is the summary payload. All sections are optional; the
// backend fills whatever its summarizer managed to produce.
type DocumentSummary struct {
	ExecutiveSummary string             `json:"executive_summary,omitempty"`
	KeyPoints        []string           `json:"key_points,omitempty"`
	Statistics       *SummaryStatistics `json:"statistics,omitempty"`
	ContentAnalysis  *ContentAnalysis   `json:"content_analysis,omitempty"`
	QuickOverview    string             `json:"quick_overview,omitempty"`
}

// SummarizeResponse is the body of POST /documents/{id}/summarize.
type SummarizeResponse struct {
	DocumentID  string          `json:"document_id"`
	Summary     DocumentSummary `json:"summary"`
	GeneratedAt string          `json:"generated_at"`
	Status      string          `json:"status"`
}

// RegisterResponse is the body of POST /auth/register.
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// UploadResponse is the body of POST /documents/upload.
type UploadResponse struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

// ConversationMessage is one entry of the server-side conversation history.
type ConversationMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	QueryID   string `json:"query_id,omitempty"`
}

// HourlyActivity is one bucket of the activity-by-hour histogram.
type HourlyActivity struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// CommonQuery is one entry of the most-common-query-words ranking.
type CommonQuery struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Analytics is the per-user analytics block of GET /analytics. The client
// only renders these numbers; it never derives them.
type Analytics struct {
	TotalQueries        int              `json:"total_queries"`
	TotalDocumentAccess int              `json:"total_document_accesses"`
	AverageResponseTime float64          `json:"average_response_time"`
	MostCommonQueries   []CommonQuery    `json:"most_common_queries"`
	ActivityByHour      []HourlyActivity `json:"activity_by_hour"`
}

// AnalyticsSummary is the condensed block of GET /analytics/summary.
type AnalyticsSummary struct {
	TotalQueries    int           `json:"total_queries"`
	TotalDocuments  int           `json:"total_documents"`
	AvgResponseTime string        `json:"avg_response_time"`
	MostActiveHour  int           `json:"most_active_hour"`
	TopQueryWords   []CommonQuery `json:"top_query_words"`
}

// User is one entry of GET /admin/users.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
	LastLogin string `json:"last_login,omitempty"`
}

// Health is the body of GET /health.
type Health struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}
