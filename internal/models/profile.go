package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// MappingProfile maps the columns of one bank's export onto canonical fields.
type MappingProfile struct {
	ID          int64             `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string            `json:"name" yaml:"name"`
	ColumnMap   map[string]string `json:"column_map" yaml:"column_map"`
	Options     map[string]any    `json:"options,omitempty" yaml:"options,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
}

// Columns returns the mapped external column names in sorted order.
func (p MappingProfile) Columns() []string {
	cols := make([]string, 0, len(p.ColumnMap))
	for col := range p.ColumnMap {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// ColumnFor returns the external column mapped onto field.
func (p MappingProfile) ColumnFor(field string) (string, bool) {
	for _, col := range p.Columns() {
		if p.ColumnMap[col] == field {
			return col, true
		}
	}
	return "", false
}

// MatchesHeaders reports whether every mapped column is present in headers.
// Header comparison ignores case and surrounding whitespace.
func (p MappingProfile) MatchesHeaders(headers []string) bool {
	if len(p.ColumnMap) == 0 {
		return false
	}
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[strings.ToLower(strings.TrimSpace(h))] = true
	}
	for col := range p.ColumnMap {
		if !present[strings.ToLower(strings.TrimSpace(col))] {
			return false
		}
	}
	return true
}

// DateFormat returns the date_format option, or "" when unset.
func (p MappingProfile) DateFormat() string {
	if v, ok := p.Options[OptionDateFormat]; ok && v != nil {
		return strings.TrimSpace(fmt.Sprint(v))
	}
	return ""
}

// InvertSign reports whether parsed amounts must be negated.
func (p MappingProfile) InvertSign() bool {
	return p.boolOption(OptionInvertSign)
}

// DecimalComma reports whether amounts use a comma as decimal separator.
func (p MappingProfile) DecimalComma() bool {
	return p.boolOption(OptionDecimalComma)
}

func (p MappingProfile) boolOption(key string) bool {
	switch v := p.Options[key].(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return strings.EqualFold(strings.TrimSpace(v), "yes")
		}
		return b
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	default:
		return false
	}
}
