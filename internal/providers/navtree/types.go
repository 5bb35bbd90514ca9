package navtree

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fieldex/fieldex/internal/types"
	"github.com/microcosm-cc/bluemonday"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// MaxHTMLSize limits page input to 10MB to prevent memory exhaustion
const MaxHTMLSize = 10 * 1024 * 1024

// Node is one navigation menu entry. Hidden is filled by Annotate, not
// by extraction.
type Node struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Hidden   bool   `json:"hidden"`
	Children []Node `json:"children"`
}

// Key returns the node's hide-list key: automation id, else label.
func (n Node) Key() string {
	if n.ID != "" {
		return n.ID
	}
	return n.Label
}

var labelPolicy = bluemonday.StrictPolicy()

// sanitizeLabel strips any markup from a menu label and unescapes the
// remaining text.
func sanitizeLabel(s string) string {
	return strings.TrimSpace(html.UnescapeString(labelPolicy.Sanitize(s)))
}

// loadHTML parses page HTML with automatic charset detection.
func loadHTML(htmlStr string) (*goquery.Document, error) {
	if len(htmlStr) > MaxHTMLSize {
		return nil, fmt.Errorf("html exceeds maximum size of %d bytes", MaxHTMLSize)
	}

	data := []byte(htmlStr)
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil || result == nil {
		return goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	}

	reader, err := charset.NewReader(bytes.NewReader(data), strings.ToLower(result.Charset))
	if err != nil {
		return goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	}
	return goquery.NewDocumentFromReader(reader)
}

// Success creates a success result
func Success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

// Failure creates a failure result
func Failure(message string) (*types.Result, error) {
	return &types.Result{Success: false, Error: &message}, nil
}
