// Package service defines the interfaces shared between the assistant and its collaborators.
package service

import (
	"context"
	"time"
)

// RowAppender appends a single row to a worksheet of a spreadsheet.
type RowAppender interface {
	AppendRow(ctx context.Context, spreadsheetID, worksheet string, row []any) error
}

// RecordStore persists flat records into named tables.
type RecordStore interface {
	Insert(ctx context.Context, table string, record map[string]any) error
	Migrate(ctx context.Context) error
	Close() error
}

// Transcriber turns recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
