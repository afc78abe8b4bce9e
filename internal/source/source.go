// Package source loads publication working sets from JSONL exports.
package source

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/cognicore/lattice/pkg/lattice/fca"
)

// Record is one publication line of a JSONL export.
type Record struct {
	ID         string   `json:"id"`
	DOI        string   `json:"doi"`
	Title      string   `json:"title"`
	References []string `json:"references"`
	Citations  []string `json:"citations"`
}

// Document converts the record, falling back to the DOI when no id is set.
func (r Record) Document() fca.Document {
	id := strings.TrimSpace(r.ID)
	if id == "" {
		id = strings.TrimSpace(r.DOI)
	}
	return fca.Document{
		ID:         id,
		Title:      CleanTitle(r.Title),
		References: r.References,
		Citations:  r.Citations,
	}
}

// LoadFromJSONL loads documents from a JSONL file. Malformed lines and
// lines without an identifier are skipped with a warning.
func LoadFromJSONL(path string, log *zap.Logger) ([]fca.Document, error) {
	if log == nil {
		log = zap.NewNop()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var docs []fca.Document
	lines := strings.Split(string(data), "\n")

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			log.Warn("skipping malformed JSON",
				zap.String("path", path),
				zap.Int("line", i+1),
				zap.Error(err))
			continue
		}

		doc := rec.Document()
		if doc.ID == "" {
			log.Warn("skipping record without id",
				zap.String("path", path),
				zap.Int("line", i+1))
			continue
		}
		docs = append(docs, doc)
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("no valid documents found in %s", path)
	}

	return docs, nil
}

// CleanTitle strips inline markup such as <i> or <sub> from a title and
// collapses whitespace.
func CleanTitle(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// Fallback to string if parsing fails
		return strings.Join(strings.Fields(s), " ")
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return strings.Join(strings.Fields(buf.String()), " ")
}
