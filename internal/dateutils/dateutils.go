// Package dateutils provides the date parsing and formatting used when
// staging statement rows.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date layouts accepted for statement dates.
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutUS       = "01/02/2006"
	DateLayoutEuropean = "02/01/2006"
	DateLayoutSwiss    = "02.01.2006"
)

// RowDateFormats is the ordered list of layouts tried for a row date.
// Ambiguous dates such as 03/04/2025 resolve to the first layout that
// accepts them, so the US layout wins over the European one.
var RowDateFormats = []string{
	DateLayoutISO,
	DateLayoutUS,
	DateLayoutEuropean,
	DateLayoutSwiss,
}

var whitespaceRe = regexp.MustCompile(`\s+`)

var hintReplacer = strings.NewReplacer(
	"YYYY", "2006",
	"yyyy", "2006",
	"YY", "06",
	"yy", "06",
	"MM", "01",
	"mm", "01",
	"DD", "02",
	"dd", "02",
)

// LayoutFromHint converts a date format hint into a Go layout. Hints may be
// written either as a Go layout ("02.01.2006") or with YYYY/MM/DD tokens
// ("DD.MM.YYYY").
func LayoutFromHint(hint string) string {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return ""
	}
	if strings.Contains(hint, "2006") {
		return hint
	}
	return hintReplacer.Replace(hint)
}

// ParseDate parses value using the optional hint first and then each of
// layouts in order. The first layout that succeeds wins and is returned.
func ParseDate(value, hint string, layouts []string) (time.Time, string, error) {
	value = CleanDateString(value)
	if value == "" {
		return time.Time{}, "", fmt.Errorf("empty date")
	}

	candidates := make([]string, 0, len(layouts)+1)
	if layout := LayoutFromHint(hint); layout != "" {
		candidates = append(candidates, layout)
	}
	candidates = append(candidates, layouts...)

	for _, layout := range candidates {
		if t, err := time.Parse(layout, value); err == nil {
			return t, layout, nil
		}
	}
	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", value)
}

// ParseRowDate parses a statement date with the default RowDateFormats.
func ParseRowDate(value, hint string) (time.Time, error) {
	t, _, err := ParseDate(value, hint, RowDateFormats)
	return t, err
}

// FormatDate formats a time.Time value according to the specified layout
// If no layout is provided, DateLayoutISO is used
func FormatDate(date time.Time, layout string) string {
	if layout == "" {
		layout = DateLayoutISO
	}
	return date.Format(layout)
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// FromISODate parses a stored ISO date.
func FromISODate(value string) (time.Time, error) {
	return time.Parse(DateLayoutISO, strings.TrimSpace(value))
}

// CleanDateString trims the value and collapses inner whitespace.
func CleanDateString(dateStr string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}
