package domain

import (
	"context"
	"errors"
	"io"
)

var (
	ErrMissingColumns = errors.New("missing_columns")
	ErrEmptyFile      = errors.New("empty_file")
)

// RowError reports one rejected CSV row. Line is 1-based and counts the
// header line.
type RowError struct {
	Line    int    `json:"line"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Result summarizes an import batch. Imported rows are committed even when
// later rows fail; there is no batch atomicity.
type Result struct {
	BatchID  string     `json:"batch_id"`
	Imported []string   `json:"imported"`
	Errors   []RowError `json:"errors"`
}

type Service interface {
	Import(ctx context.Context, organizationID string, csvFile io.Reader) (*Result, error)
}
