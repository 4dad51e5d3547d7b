// Package merchant reduces free-text transaction descriptions to a canonical
// merchant key used to group transactions for suggestions and learning.
package merchant

import (
	"fmt"
	"regexp"
	"strings"

	"fjacquet/ledger-import/internal/models"
)

// noisePatterns are removed from the upper-cased description in order.
var noisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`PPD ID:\s*\d+`),
	regexp.MustCompile(`WEB ID:\s*\d+`),
	regexp.MustCompile(`\b(?:AUTO PAY|AUTOPAY|ACH|DEBIT|CREDIT|PAYMENTS|PAYMENT|PMT)\b`),
	regexp.MustCompile(`\bREF(?:\s*#\s*|\s+)[A-Z0-9-]+`),
	regexp.MustCompile(`\bID:\s*\S+`),
	regexp.MustCompile(`\bX{2,}\d{2,4}\b`),
	regexp.MustCompile(`\*\d{2,4}\b`),
	regexp.MustCompile(`\b\d{3,4}\b`),
}

var (
	punctuationRe = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	spacesRe      = regexp.MustCompile(`\s+`)
)

type compiledRule struct {
	rule models.MerchantRule
	re   *regexp.Regexp
}

// Extractor holds an ordered merchant rule table.
type Extractor struct {
	rules []compiledRule
}

// NewExtractor compiles rules, keeping their order.
func NewExtractor(rules []models.MerchantRule) (*Extractor, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for i, r := range rules {
		if strings.TrimSpace(r.Pattern) == "" || strings.TrimSpace(r.Key) == "" {
			return nil, fmt.Errorf("merchant rule %d: pattern and key are required", i)
		}
		expr := regexp.QuoteMeta(r.Pattern)
		if r.Regex {
			expr = r.Pattern
		}
		re, err := regexp.Compile(`(?i)` + expr)
		if err != nil {
			return nil, fmt.Errorf("merchant rule %d (%s): %w", i, r.Pattern, err)
		}
		compiled = append(compiled, compiledRule{rule: r, re: re})
	}
	return &Extractor{rules: compiled}, nil
}

// MustNewExtractor is NewExtractor for tables known to be valid.
func MustNewExtractor(rules []models.MerchantRule) *Extractor {
	e, err := NewExtractor(rules)
	if err != nil {
		panic(err)
	}
	return e
}

// Rules returns the rule table in evaluation order.
func (e *Extractor) Rules() []models.MerchantRule {
	out := make([]models.MerchantRule, len(e.rules))
	for i, r := range e.rules {
		out[i] = r.rule
	}
	return out
}

// Extract returns the merchant key for description. The first rule matching
// the cleaned text wins; without a match the cleaned text itself is the key,
// which is empty for descriptions made only of noise.
func (e *Extractor) Extract(description string) string {
	cleaned := Clean(description)
	if cleaned == "" {
		return ""
	}
	for _, r := range e.rules {
		if r.re.MatchString(cleaned) {
			return r.rule.Key
		}
	}
	return cleaned
}

// Clean upper-cases description and strips processor IDs, transaction type
// words, reference and masked account tokens, short bare numbers and
// punctuation.
func Clean(description string) string {
	text := strings.ToUpper(description)
	for _, re := range noisePatterns {
		text = re.ReplaceAllString(text, " ")
	}
	text = punctuationRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(spacesRe.ReplaceAllString(text, " "))
}

var defaultExtractor = MustNewExtractor(DefaultRules)

// Default returns the extractor built from DefaultRules.
func Default() *Extractor {
	return defaultExtractor
}

// ExtractMerchantKey extracts a key with the default rule table.
func ExtractMerchantKey(description string) string {
	return defaultExtractor.Extract(description)
}
