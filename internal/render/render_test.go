package render

import (
	"strings"
	"testing"

	"github.com/documind/cli/internal/gateway"
)

func conf(v float64) *float64 { return &v }

func TestConfidenceBucket(t *testing.T) {
	tests := []struct {
		name string
		c    *float64
		want Bucket
	}{
		{"absent", nil, BucketUnknown},
		{"exactly 0.8 is High", conf(0.8), BucketHigh},
		{"just under 0.8 is Medium", conf(0.79999), BucketMedium},
		{"exactly 0.6 is Medium", conf(0.6), BucketMedium},
		{"just under 0.6 is Low", conf(0.59999), BucketLow},
		{"top of range", conf(1.0), BucketHigh},
		{"bottom of range", conf(0.0), BucketLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConfidenceBucket(tt.c); got != tt.want {
				t.Errorf("ConfidenceBucket(%v) = %s, want %s", tt.c, got, tt.want)
			}
		})
	}
}

func TestFormatSource(t *testing.T) {
	got := FormatSource(gateway.Source{Filename: "report.pdf", SimilarityScore: 0.867})
	want := "report.pdf (similarity: 86.7%)"
	if got != want {
		t.Errorf("FormatSource = %q, want %q", got, want)
	}
}

func TestFormatSource_RoundsToOneDecimal(t *testing.T) {
	got := FormatSource(gateway.Source{Filename: "a.txt", SimilarityScore: 0.12345})
	if got != "a.txt (similarity: 12.3%)" {
		t.Errorf("FormatSource = %q", got)
	}
}

func TestFormatSources_NilIsEmpty(t *testing.T) {
	if got := FormatSources(nil); len(got) != 0 {
		t.Errorf("FormatSources(nil) = %v", got)
	}
}

func TestDocumentTable(t *testing.T) {
	out := DocumentTable([]gateway.Document{
		{DocumentID: "doc-1", Filename: "report.pdf", FileType: "pdf", FileSize: 2048, ChunkCount: 3, UploadDate: "2026-01-02"},
	})
	for _, want := range []string{"doc-1", "report.pdf", "FILENAME", "2.0 kB"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestDocumentTable_Empty(t *testing.T) {
	if out := DocumentTable(nil); !strings.Contains(out, "No documents") {
		t.Errorf("empty table = %q", out)
	}
}

func TestSummary_SkipsMissingSections(t *testing.T) {
	out := Summary(gateway.SummarizeResponse{
		Summary: gateway.DocumentSummary{
			KeyPoints: []string{"point one"},
		},
	})
	if strings.Contains(out, "Executive summary") {
		t.Error("rendered an absent executive summary")
	}
	if !strings.Contains(out, "point one") {
		t.Errorf("missing key point:\n%s", out)
	}
}

func TestSummary_AllSections(t *testing.T) {
	out := Summary(gateway.SummarizeResponse{
		Summary: gateway.DocumentSummary{
			ExecutiveSummary: "the gist",
			KeyPoints:        []string{"a"},
			Statistics:       &gateway.SummaryStatistics{WordCount: 10, LineCount: 2},
			ContentAnalysis:  &gateway.ContentAnalysis{DocumentType: "Report/Analysis", ContentCategories: []string{"Business"}},
			QuickOverview:    "short doc",
		},
		GeneratedAt: "2026-01-01T00:00:00Z",
	})
	for _, want := range []string{"the gist", "words: 10", "Report/Analysis", "Business", "short doc", "2026-01-01"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestSummary_Empty(t *testing.T) {
	if out := Summary(gateway.SummarizeResponse{}); !strings.Contains(out, "empty summary") {
		t.Errorf("empty summary = %q", out)
	}
}

func TestAnalyticsReport(t *testing.T) {
	out := AnalyticsReport(
		gateway.Analytics{
			TotalQueries:      12,
			MostCommonQueries: []gateway.CommonQuery{{Word: "revenue", Count: 4}},
			ActivityByHour:    []gateway.HourlyActivity{{Hour: 9, Count: 3}, {Hour: 10, Count: 0}},
		},
		gateway.AnalyticsSummary{TotalDocuments: 5, AvgResponseTime: "0.42s", MostActiveHour: 9},
	)
	for _, want := range []string{"Queries: 12", "Documents: 5", "0.42s", "revenue", "09:00"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "10:00") {
		t.Error("zero-count hour should be omitted")
	}
}
