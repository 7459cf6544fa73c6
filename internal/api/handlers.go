package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Veraticus/plata/internal/assistant"
	"github.com/Veraticus/plata/internal/common"
	"github.com/Veraticus/plata/internal/model"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// UserPayload identifies the chat user. Account linking happens upstream;
// the bridge forwards what it knows.
type UserPayload struct {
	ID             string `json:"id"`
	Name           string `json:"name,omitempty"`
	Platform       string `json:"platform"`
	TelegramID     string `json:"telegram_id,omitempty"`
	WhatsAppNumber string `json:"whatsapp_number,omitempty"`
	SpreadsheetID  string `json:"spreadsheet_id,omitempty"`
}

func (u UserPayload) toUser() model.User {
	return model.User{
		ID:             u.ID,
		Name:           u.Name,
		Platform:       model.ParsePlatform(u.Platform),
		TelegramID:     u.TelegramID,
		WhatsAppNumber: u.WhatsAppNumber,
		SpreadsheetID:  u.SpreadsheetID,
	}
}

// MessageRequest is the body of POST /v1/messages.
type MessageRequest struct {
	User      UserPayload `json:"user"`
	MessageID string      `json:"message_id"`
	Text      string      `json:"text"`
}

// PendingRequest is the body of the confirm and cancel routes.
type PendingRequest struct {
	User UserPayload `json:"user"`
}

// RepliesResponse carries the replies for one message.
type RepliesResponse struct {
	Replies []assistant.Reply `json:"replies"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	assistant Assistant
	logger    *slog.Logger
}

func (h *handlers) postMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.User.ID == "" {
		writeError(w, http.StatusBadRequest, "user.id is required")
		return
	}

	replies, err := h.assistant.HandleText(r.Context(), req.User.toUser(), req.MessageID, req.Text)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RepliesResponse{Replies: replies})
}

// postAudio takes a multipart form with a JSON "user" field, an optional
// "message_id" field and the recording in the "audio" file field.
func (h *handlers) postAudio(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAudioBytes+1<<20)
	if err := r.ParseMultipartForm(maxAudioBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	var user UserPayload
	if err := json.Unmarshal([]byte(r.FormValue("user")), &user); err != nil || user.ID == "" {
		writeError(w, http.StatusBadRequest, "user is required")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer func() { _ = file.Close() }()

	audio, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read audio")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = "audio/ogg"
	}

	replies, err := h.assistant.HandleAudio(r.Context(), user.toUser(), r.FormValue("message_id"), audio, mimeType)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RepliesResponse{Replies: replies})
}

func (h *handlers) confirm(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.assistant.Confirm)
}

func (h *handlers) cancel(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.assistant.Cancel)
}

type resolveFunc func(ctx context.Context, user model.User, correlationID string) (assistant.Reply, error)

// ReplyResponse carries the outcome of a confirm or cancel.
type ReplyResponse struct {
	Reply assistant.Reply `json:"reply"`
	Error string          `json:"error,omitempty"`
}

func (h *handlers) resolve(w http.ResponseWriter, r *http.Request, fn resolveFunc) {
	var req PendingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.User.ID == "" {
		writeError(w, http.StatusBadRequest, "user.id is required")
		return
	}

	reply, err := fn(r.Context(), req.User.toUser(), chi.URLParam(r, "id"))
	if err == nil {
		writeJSON(w, http.StatusOK, ReplyResponse{Reply: reply})
		return
	}

	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Pending action failed",
			"request_id", middleware.GetReqID(r.Context()),
			"path", r.URL.Path,
			"error", err)
	}
	writeJSON(w, status, ReplyResponse{Reply: reply, Error: err.Error()})
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"path", r.URL.Path,
			"error", err)
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, assistant.ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, assistant.ErrPendingNotFound), errors.Is(err, assistant.ErrInvalidCorrelationID):
		return http.StatusNotFound
	case errors.Is(err, common.ErrMissingConfig):
		return http.StatusConflict
	case errors.Is(err, assistant.ErrTranscriptionDisabled):
		return http.StatusNotImplemented
	default:
		return http.StatusBadGateway
	}
}

// decodeJSON reads a size-limited JSON body into v. It writes the error
// response and returns false when the body is too large or malformed.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return false
	}
	writeError(w, http.StatusBadRequest, "invalid request body")
	return false
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
