package models

import "time"

// ImportBatch is one upload event and the unit the pipeline stages through
// preview and commit.
type ImportBatch struct {
	ID             string      `json:"id" yaml:"id"`
	SourceFilename string      `json:"source_filename" yaml:"source_filename"`
	Headers        []string    `json:"headers" yaml:"headers"`
	RowCount       int         `json:"row_count" yaml:"row_count"`
	ProfileID      *int64      `json:"profile_id,omitempty" yaml:"profile_id,omitempty"`
	ProfileName    string      `json:"profile_name,omitempty" yaml:"profile_name,omitempty"`
	Status         BatchStatus `json:"status" yaml:"status"`
	Notes          string      `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt      time.Time   `json:"created_at" yaml:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" yaml:"updated_at"`
}
