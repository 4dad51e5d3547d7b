// Package validation checks user-supplied inputs: upload paths, output
// formats and mapping profile documents.
package validation

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"fjacquet/ledger-import/internal/models"
)

// IsValidInputFile checks that path names an existing regular file.
func IsValidInputFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is not a regular file", path)
	}
	return nil
}

// IsValidOutputFormat checks if the given format is supported.
func IsValidOutputFormat(format string) error {
	switch format {
	case "text", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s. Supported formats are 'text', 'json', 'yaml'", format)
	}
}

// ValidateProfile checks a profile's name, its column targets and the types
// of the options it recognises.
func ValidateProfile(p models.MappingProfile) error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("profile name is empty")
	}
	if len(p.ColumnMap) == 0 {
		return fmt.Errorf("profile %q maps no columns", p.Name)
	}
	for _, col := range p.Columns() {
		if strings.TrimSpace(col) == "" {
			return fmt.Errorf("profile %q maps an empty column name", p.Name)
		}
		field := p.ColumnMap[col]
		if !models.IsCanonicalField(field) {
			return fmt.Errorf("profile %q maps column %q to unknown field %q", p.Name, col, field)
		}
	}
	if v, ok := p.Options[models.OptionDateFormat]; ok {
		if _, isString := v.(string); !isString {
			return fmt.Errorf("profile %q option %s must be a string", p.Name, models.OptionDateFormat)
		}
	}
	return nil
}
