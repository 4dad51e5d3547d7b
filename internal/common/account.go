package common

import (
	"path/filepath"
	"regexp"
	"strings"
)

// AccountIdentifier represents an account name guessed for an upload.
type AccountIdentifier struct {
	ID     string // The account name, e.g. "CHK-3607"
	Source string // Source of identification: "filename" or "default"
}

// Statement exports commonly carry a masked account number in the file
// name, e.g. Chase3607_Activity_20250711.CSV or checking-3607.csv.
var accountFilenamePatterns = []struct {
	re     *regexp.Regexp
	prefix string
}{
	{regexp.MustCompile(`(?i)(?:^|[^a-z])(?:chk|checking)[-_ ]?x*(\d{4})`), "CHK-"},
	{regexp.MustCompile(`(?i)(?:^|[^a-z])(?:sav|savings)[-_ ]?x*(\d{4})`), "SAV-"},
	{regexp.MustCompile(`(?i)(?:^|[^a-z])(?:cc|card|credit)[-_ ]?x*(\d{4})`), "CC-"},
	{regexp.MustCompile(`(?i)^[a-z]+(\d{4})_activity`), "CHK-"},
}

// AccountFromFilename guesses the account of a statement from its file name.
// When no known pattern matches, the sanitized base name is returned with
// Source "default".
func AccountFromFilename(filename string) AccountIdentifier {
	baseName := filepath.Base(filename)
	for _, p := range accountFilenamePatterns {
		if m := p.re.FindStringSubmatch(baseName); len(m) >= 2 {
			return AccountIdentifier{ID: p.prefix + m[1], Source: "filename"}
		}
	}

	baseWithoutExt := strings.TrimSuffix(baseName, filepath.Ext(baseName))
	return AccountIdentifier{
		ID:     SanitizeAccountID(baseWithoutExt),
		Source: "default",
	}
}

// SanitizeAccountID makes an account name safe to use in a file name.
func SanitizeAccountID(accountID string) string {
	sanitized := strings.ReplaceAll(strings.TrimSpace(accountID), " ", "_")

	var result strings.Builder
	for _, r := range sanitized {
		if (r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') ||
			r == '_' || r == '-' || r == '.' {
			result.WriteRune(r)
		} else {
			result.WriteRune('_')
		}
	}
	sanitized = result.String()

	for strings.Contains(sanitized, "..") {
		sanitized = strings.ReplaceAll(sanitized, "..", "_")
	}
	for strings.Contains(sanitized, "__") {
		sanitized = strings.ReplaceAll(sanitized, "__", "_")
	}
	sanitized = strings.Trim(sanitized, "_.")

	if sanitized == "" {
		sanitized = "UNKNOWN"
	}
	return sanitized
}
