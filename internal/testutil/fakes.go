package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/Veraticus/plata/internal/model"
)

// AppendedRow is one call recorded by RecordingAppender.
type AppendedRow struct {
	SpreadsheetID string
	Worksheet     string
	Row           []any
}

// RecordingAppender records appended rows and optionally fails. Delay
// simulates a slow Sheets round trip.
type RecordingAppender struct {
	Err   error
	Rows  []AppendedRow
	Delay time.Duration
	mu    sync.Mutex
}

// AppendRow implements service.RowAppender.
func (a *RecordingAppender) AppendRow(_ context.Context, spreadsheetID, worksheet string, row []any) error {
	time.Sleep(a.Delay)

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.Err != nil {
		return a.Err
	}
	a.Rows = append(a.Rows, AppendedRow{SpreadsheetID: spreadsheetID, Worksheet: worksheet, Row: row})
	return nil
}

// StaticTranscriber returns a fixed transcript.
type StaticTranscriber struct {
	Err  error
	Text string
}

// Transcribe implements service.Transcriber.
func (s StaticTranscriber) Transcribe(context.Context, []byte, string) (string, error) {
	return s.Text, s.Err
}

// TelegramUser returns a linked Telegram user with a spreadsheet.
func TelegramUser() model.User {
	return model.User{
		ID:            "u-1",
		Name:          "Lucía",
		Platform:      model.PlatformTelegram,
		TelegramID:    "123456",
		SpreadsheetID: "sheet-1",
	}
}
