// Package assistant turns chat messages into confirmable financial records
// and persists them once the user confirms.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/plata/internal/common"
	"github.com/Veraticus/plata/internal/model"
	"github.com/Veraticus/plata/internal/pending"
	"github.com/Veraticus/plata/internal/service"
	"github.com/google/uuid"
)

// Errors returned to platform adapters.
var (
	ErrEmptyMessage          = errors.New("message is empty")
	ErrPendingNotFound       = errors.New("pending action not found or expired")
	ErrTranscriptionDisabled = errors.New("audio transcription is not configured")
	ErrInvalidCorrelationID  = errors.New("invalid correlation id")
)

// Button callback prefixes.
const (
	ActionConfirm = "confirm"
	ActionCancel  = "cancel"
)

// Pipeline runs the message understanding pipeline.
type Pipeline interface {
	ProcessContent(ctx context.Context, content string) []model.ProcessingResult
}

// Button is an inline action offered with a reply.
type Button struct {
	Label string `json:"label"`
	// Data is "<action>:<correlation id>".
	Data string `json:"data"`
}

// Reply is one message sent back to the user.
type Reply struct {
	Text string `json:"text"`
	// CorrelationID is set when the reply awaits confirmation.
	CorrelationID string   `json:"correlation_id,omitempty"`
	Buttons       []Button `json:"buttons,omitempty"`
	IsError       bool     `json:"is_error,omitempty"`
}

// Assistant connects the pipeline to pending confirmations and persistence.
type Assistant struct {
	pipeline    Pipeline
	pending     pending.Store
	sheets      service.RowAppender
	records     service.RecordStore
	transcriber service.Transcriber
	logger      *slog.Logger
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assistant) { a.logger = logger }
}

// WithTranscriber enables voice messages.
func WithTranscriber(t service.Transcriber) Option {
	return func(a *Assistant) { a.transcriber = t }
}

// New creates an Assistant.
func New(p Pipeline, store pending.Store, sheets service.RowAppender, records service.RecordStore, opts ...Option) *Assistant {
	a := &Assistant{
		pipeline: p,
		pending:  store,
		sheets:   sheets,
		records:  records,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// HandleText processes a text message. Every extracted financial action is
// kept pending under CorrelationID(messageID, i) and offered for
// confirmation. An empty messageID gets a random one.
func (a *Assistant) HandleText(ctx context.Context, user model.User, messageID, text string) ([]Reply, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}
	if messageID == "" {
		messageID = uuid.NewString()
	}

	results := a.pipeline.ProcessContent(ctx, text)

	replies := make([]Reply, 0, len(results))
	for i, result := range results {
		switch {
		case result.IsData():
			replies = append(replies, a.offer(ctx, user, pending.CorrelationID(messageID, i), result.Data))
		case result.IsError():
			replies = append(replies, Reply{Text: result.Err, IsError: true})
		default:
			replies = append(replies, Reply{Text: result.Text})
		}
	}
	return replies, nil
}

func (a *Assistant) offer(ctx context.Context, user model.User, correlationID string, action model.FinancialAction) Reply {
	if err := a.pending.Save(ctx, user.ID, correlationID, action); err != nil {
		a.logger.Error("Failed to save pending action",
			"user_id", user.ID,
			"correlation_id", correlationID,
			"error", err)
		return Reply{Text: msgPendingFailed, IsError: true}
	}

	return Reply{
		Text:          action.Render(user.Platform) + "\n\n" + msgConfirmPrompt,
		CorrelationID: correlationID,
		Buttons: []Button{
			{Label: labelConfirm, Data: ActionConfirm + ":" + correlationID},
			{Label: labelCancel, Data: ActionCancel + ":" + correlationID},
		},
	}
}

// HandleAudio transcribes a voice message and handles the transcript as text.
func (a *Assistant) HandleAudio(ctx context.Context, user model.User, messageID string, audio []byte, mimeType string) ([]Reply, error) {
	if a.transcriber == nil {
		return nil, ErrTranscriptionDisabled
	}
	if len(audio) == 0 {
		return nil, ErrEmptyMessage
	}

	text, err := a.transcriber.Transcribe(ctx, audio, mimeType)
	if err != nil {
		a.logger.Warn("Audio transcription failed", "user_id", user.ID, "error", err)
		return []Reply{{Text: msgAudioFailed, IsError: true}}, nil
	}
	if strings.TrimSpace(text) == "" {
		return []Reply{{Text: msgAudioEmpty, IsError: true}}, nil
	}

	a.logger.Debug("Transcribed audio", "user_id", user.ID, "chars", len(text))
	return a.HandleText(ctx, user, messageID, text)
}

// Confirm persists a pending action: the sheet row first, then the database
// record. The action is taken out of the pending store before anything is
// written, so concurrent confirms of one id persist it once. A failed sheet
// append puts it back so the user can retry.
func (a *Assistant) Confirm(ctx context.Context, user model.User, correlationID string) (Reply, error) {
	action, err := a.take(ctx, user, correlationID)
	if err != nil {
		return expiredReply(err), err
	}

	if err := a.sheets.AppendRow(ctx, user.SpreadsheetID, action.Worksheet(), action.SheetRow()); err != nil {
		a.logger.Error("Failed to append row",
			"user_id", user.ID,
			"worksheet", action.Worksheet(),
			"error", err)
		a.restore(ctx, user, correlationID, action)
		if errors.Is(err, common.ErrMissingConfig) {
			return Reply{Text: msgNoSpreadsheet, IsError: true}, err
		}
		return Reply{Text: msgSaveFailed, IsError: true}, fmt.Errorf("failed to append row: %w", err)
	}

	// The row is already in the sheet; a database failure must not make the
	// user confirm again and duplicate it.
	if err := a.records.Insert(ctx, action.Table(), action.StorageRecord(user)); err != nil {
		a.logger.Error("Failed to store record",
			"user_id", user.ID,
			"table", action.Table(),
			"error", err)
	}

	a.logger.Info("Confirmed financial action",
		"user_id", user.ID,
		"correlation_id", correlationID,
		"type", action.Type())
	return Reply{Text: msgConfirmed}, nil
}

// Cancel discards a pending action.
func (a *Assistant) Cancel(ctx context.Context, user model.User, correlationID string) (Reply, error) {
	if _, err := a.take(ctx, user, correlationID); err != nil {
		return expiredReply(err), err
	}
	return Reply{Text: msgCanceled}, nil
}

// HandleButton dispatches button data produced by HandleText.
func (a *Assistant) HandleButton(ctx context.Context, user model.User, data string) (Reply, error) {
	action, correlationID, ok := strings.Cut(data, ":")
	if !ok {
		return expiredReply(ErrInvalidCorrelationID), ErrInvalidCorrelationID
	}

	switch action {
	case ActionConfirm:
		return a.Confirm(ctx, user, correlationID)
	case ActionCancel:
		return a.Cancel(ctx, user, correlationID)
	default:
		return expiredReply(ErrInvalidCorrelationID), fmt.Errorf("%w: unknown button action %q", ErrInvalidCorrelationID, action)
	}
}

func (a *Assistant) take(ctx context.Context, user model.User, correlationID string) (model.FinancialAction, error) {
	if _, _, err := pending.ParseCorrelationID(correlationID); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCorrelationID, err)
	}

	action, err := a.pending.Take(ctx, user.ID, correlationID)
	if errors.Is(err, pending.ErrNotFound) {
		return nil, ErrPendingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load pending action: %w", err)
	}
	return action, nil
}

// restore puts back an action whose confirmation failed. The request context
// may already be done, so the save runs detached from its cancellation.
func (a *Assistant) restore(ctx context.Context, user model.User, correlationID string, action model.FinancialAction) {
	if err := a.pending.Save(context.WithoutCancel(ctx), user.ID, correlationID, action); err != nil {
		a.logger.Warn("Failed to restore pending action",
			"user_id", user.ID,
			"correlation_id", correlationID,
			"error", err)
	}
}

func expiredReply(err error) Reply {
	if errors.Is(err, ErrPendingNotFound) || errors.Is(err, ErrInvalidCorrelationID) {
		return Reply{Text: msgExpired, IsError: true}
	}
	return Reply{Text: msgSaveFailed, IsError: true}
}
