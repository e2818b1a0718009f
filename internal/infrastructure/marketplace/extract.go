package marketplace

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// innerWhitespacePattern collapses runs of whitespace inside node text;
// scraped nodes frequently carry layout newlines and indentation
var innerWhitespacePattern = regexp.MustCompile(`\s+`)

// extractTexts returns the trimmed text content of every node matching the
// selector, in document order, skipping empty nodes. max caps the result
// count when positive.
func extractTexts(doc *goquery.Document, selector string, max int) []string {
	var texts []string

	doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if max > 0 && len(texts) >= max {
			return false
		}

		text := innerWhitespacePattern.ReplaceAllString(sel.Text(), " ")
		text = strings.TrimSpace(text)
		if text != "" {
			texts = append(texts, text)
		}
		return true
	})

	return texts
}
