// Package render maps response payloads to display strings. Everything here
// is a pure function; nothing holds state or talks to the network.
package render

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/documind/cli/internal/gateway"
)

// Bucket is the coarse confidence classification shown next to an answer.
type Bucket string

const (
	BucketHigh    Bucket = "High"
	BucketMedium  Bucket = "Medium"
	BucketLow     Bucket = "Low"
	BucketUnknown Bucket = "Unknown"
)

// ConfidenceBucket classifies a numeric confidence score. Boundaries are
// inclusive on the lower bound: 0.8 is High and 0.6 is Medium.
func ConfidenceBucket(c *float64) Bucket {
	switch {
	case c == nil:
		return BucketUnknown
	case *c >= 0.8:
		return BucketHigh
	case *c >= 0.6:
		return BucketMedium
	default:
		return BucketLow
	}
}

// FormatSource renders one citation as filename plus similarity percentage
// with one decimal place.
func FormatSource(s gateway.Source) string {
	return fmt.Sprintf("%s (similarity: %.1f%%)", s.Filename, s.SimilarityScore*100)
}

// FormatSources renders a source list, tolerating nil.
func FormatSources(sources []gateway.Source) []string {
	out := make([]string, len(sources))
	for i, s := range sources {
		out[i] = FormatSource(s)
	}
	return out
}

// DocumentTable renders the document list as an aligned table.
func DocumentTable(docs []gateway.Document) string {
	if len(docs) == 0 {
		return "No documents uploaded yet.\n"
	}
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFILENAME\tTYPE\tSIZE\tCHUNKS\tUPLOADED")
	for _, d := range docs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			d.DocumentID, d.Filename, d.FileType,
			humanize.Bytes(uint64(d.FileSize)), d.ChunkCount, d.UploadDate)
	}
	w.Flush()
	return sb.String()
}

// UserTable renders the admin user list as an aligned table.
func UserTable(users []gateway.User) string {
	if len(users) == 0 {
		return "No users.\n"
	}
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tROLE\tCREATED\tLAST LOGIN")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			u.ID, u.Username, u.Role, u.CreatedAt, u.LastLogin)
	}
	w.Flush()
	return sb.String()
}

// Summary renders a document summary payload section by section, skipping
// whatever the backend did not produce.
func Summary(resp gateway.SummarizeResponse) string {
	var sb strings.Builder
	s := resp.Summary

	if s.ExecutiveSummary != "" {
		sb.WriteString("Executive summary\n")
		sb.WriteString("  " + s.ExecutiveSummary + "\n\n")
	}
	if len(s.KeyPoints) > 0 {
		sb.WriteString("Key points\n")
		for _, p := range s.KeyPoints {
			sb.WriteString("  - " + p + "\n")
		}
		sb.WriteString("\n")
	}
	if st := s.Statistics; st != nil {
		sb.WriteString("Statistics\n")
		fmt.Fprintf(&sb, "  words: %d  lines: %d  emails: %d  phone numbers: %d\n\n",
			st.WordCount, st.LineCount, st.EmailCount, st.PhoneCount)
	}
	if ca := s.ContentAnalysis; ca != nil {
		sb.WriteString("Content analysis\n")
		fmt.Fprintf(&sb, "  type: %s\n", ca.DocumentType)
		if len(ca.ContentCategories) > 0 {
			fmt.Fprintf(&sb, "  categories: %s\n", strings.Join(ca.ContentCategories, ", "))
		}
		if len(ca.DataTypes) > 0 {
			fmt.Fprintf(&sb, "  data types: %s\n", strings.Join(ca.DataTypes, ", "))
		}
		sb.WriteString("\n")
	}
	if s.QuickOverview != "" {
		sb.WriteString("Overview\n")
		sb.WriteString("  " + s.QuickOverview + "\n")
	}
	if sb.Len() == 0 {
		sb.WriteString("The backend returned an empty summary.\n")
	}
	if resp.GeneratedAt != "" {
		fmt.Fprintf(&sb, "\nGenerated at %s\n", resp.GeneratedAt)
	}
	return sb.String()
}

// AnalyticsReport renders the per-user analytics block.
func AnalyticsReport(a gateway.Analytics, s gateway.AnalyticsSummary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Queries: %d   Documents: %d   Avg response time: %s\n",
		a.TotalQueries, s.TotalDocuments, s.AvgResponseTime)
	fmt.Fprintf(&sb, "Most active hour: %02d:00\n", s.MostActiveHour)

	if len(a.MostCommonQueries) > 0 {
		sb.WriteString("\nTop query words\n")
		for _, q := range a.MostCommonQueries {
			fmt.Fprintf(&sb, "  %-20s %d\n", q.Word, q.Count)
		}
	}
	if len(a.ActivityByHour) > 0 {
		sb.WriteString("\nActivity by hour\n")
		for _, h := range a.ActivityByHour {
			if h.Count == 0 {
				continue
			}
			fmt.Fprintf(&sb, "  %02d:00  %s %d\n", h.Hour, strings.Repeat("#", bar(h.Count)), h.Count)
		}
	}
	return sb.String()
}

// bar caps histogram bars at a terminal-friendly width.
func bar(count int) int {
	if count > 40 {
		return 40
	}
	return count
}
