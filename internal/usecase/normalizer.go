package usecase

import (
	"log"
	"regexp"
	"strings"

	"github.com/pricelens/backend/internal/domain"
)

// Compiled regex patterns for name normalization
var (
	// Matches bracket-enclosed annotations, both ASCII and CJK bracket styles
	// (e.g. "(Boxed)", "[LE 500]", "【现货】", "（全新）")
	bracketAnnotationPattern = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]|【[^】]*】|（[^）]*）`)

	// Multiple spaces cleanup
	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// defaultNoiseTokens are box/packaging descriptors and retailer boilerplate
// that carry no subject-identifying information. ASCII entries are matched as
// whole words, case-insensitively; CJK entries as substrings.
var defaultNoiseTokens = []string{
	"boxed", "box", "mib", "mint", "sealed", "unopened",
	"in stock", "pre-order", "preorder", "limited edition",
	"现货", "盒装", "原盒", "带盒", "全新", "秒发", "限量",
}

// Normalizer converts a raw catalog title into the canonical cross-marketplace
// search query: brand + scale + residual subject text.
type Normalizer struct {
	noiseWordPatterns  []*regexp.Regexp // ASCII noise, whole-word
	noiseSubstrings    []string         // CJK noise, substring
	enableDebugLogging bool
}

// NewNormalizer creates a normalizer. extraNoiseTokens extends the built-in
// noise list with site-specific boilerplate from configuration.
func NewNormalizer(extraNoiseTokens []string, enableDebugLogging bool) *Normalizer {
	n := &Normalizer{enableDebugLogging: enableDebugLogging}

	tokens := make([]string, 0, len(defaultNoiseTokens)+len(extraNoiseTokens))
	tokens = append(tokens, defaultNoiseTokens...)
	tokens = append(tokens, extraNoiseTokens...)

	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		if isASCII(tok) {
			n.noiseWordPatterns = append(n.noiseWordPatterns, wordPattern(tok))
		} else {
			n.noiseSubstrings = append(n.noiseSubstrings, tok)
		}
	}

	return n
}

// Normalize builds the canonical search query for a catalog item name.
// keywordPrefix is the brand+scale filter the catalog was searched with
// (e.g. "spark 1/43"); its parts are stripped from the name and re-emitted
// in canonical order so the query is deterministic regardless of how the
// source title spells them.
//
// Returns domain.ErrInvalidInput if sourceName is empty or whitespace-only.
func (n *Normalizer) Normalize(sourceName, keywordPrefix string) (domain.NormalizedQuery, error) {
	if strings.TrimSpace(sourceName) == "" {
		return domain.NormalizedQuery{}, domain.ErrInvalidInput
	}

	original := multiSpacePattern.ReplaceAllString(strings.TrimSpace(sourceName), " ")
	prefixTokens := strings.Fields(keywordPrefix)

	// Step 1: Drop bracket-enclosed annotations ("(Boxed)", "【现货】", ...)
	cleaned := bracketAnnotationPattern.ReplaceAllString(original, " ")

	// Step 2: Strip the prefix tokens (brand, scale) from the title.
	// Scale ratios are stripped in both separator spellings ("1/43", "1:43").
	for _, tok := range prefixTokens {
		for _, variant := range scaleVariants(tok) {
			cleaned = wordPattern(variant).ReplaceAllString(cleaned, " ")
		}
	}

	// Step 3: Strip noise tokens, matching case-insensitively but leaving the
	// casing of everything kept untouched
	for _, p := range n.noiseWordPatterns {
		cleaned = p.ReplaceAllString(cleaned, " ")
	}
	for _, sub := range n.noiseSubstrings {
		cleaned = strings.ReplaceAll(cleaned, sub, " ")
	}

	// Step 4: Collapse whitespace and trim separator leftovers
	residual := multiSpacePattern.ReplaceAllString(cleaned, " ")
	residual = strings.Trim(residual, " -_,.·~")

	// Never emit a query that is only the prefix: fall back to the full
	// original name when stripping consumed everything
	if residual == "" {
		residual = original
	}

	tokens := make([]string, 0, len(prefixTokens)+1)
	tokens = append(tokens, prefixTokens...)
	tokens = append(tokens, residual)

	query := domain.NormalizedQuery{
		Tokens: tokens,
		Text:   strings.Join(tokens, " "),
	}

	if n.enableDebugLogging {
		log.Printf("[NORMALIZE] Input: %q → Output: %q", sourceName, query.Text)
	}

	return query, nil
}

// scaleVariants returns the token plus its alternate scale spelling, if any.
// "1/43" and "1:43" mean the same scale and both appear in the wild.
func scaleVariants(tok string) []string {
	switch {
	case strings.Contains(tok, "/"):
		return []string{tok, strings.ReplaceAll(tok, "/", ":")}
	case strings.Contains(tok, ":"):
		return []string{tok, strings.ReplaceAll(tok, ":", "/")}
	default:
		return []string{tok}
	}
}

// wordPattern compiles a case-insensitive whole-word pattern for a token
func wordPattern(tok string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(tok) + `\b`)
}

// isASCII reports whether s contains only ASCII bytes
func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}
